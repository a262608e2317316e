package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- listing filters by owner and sorts newest first
			CREATE INDEX IF NOT EXISTS index_payment_requests_on_creator_wallet
				ON payment_requests (creator_wallet, created_at DESC);

			-- settlement can only ever attach a tx hash to a paid request
			ALTER TABLE payment_requests
				ADD CONSTRAINT check_settlement_consistent
				CHECK (
					(status = 'PENDING' AND tx_hash IS NULL AND paid_at IS NULL) OR
					(status = 'PAID' AND tx_hash IS NOT NULL AND paid_at IS NOT NULL)
				);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
