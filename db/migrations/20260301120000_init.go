package migrations

import (
	"context"

	"github.com/getAlby/x402hub.go/db/models"
	"github.com/uptrace/bun"
)

/* This init reflects the latest model fields when run on a fresh db.
Columns added later must use IfNotExists/IfExists in their own migration. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*models.PaymentRequest)(nil)).
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*models.PaymentRequest)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
