package db

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
)

const applicationName = "x402hub.go"

// payment requests only ever live in postgres
var postgresSchemes = []string{"postgres://", "postgresql://", "unix://"}

var registerTracedDriver sync.Once

func isPostgresDsn(dsn string) bool {
	for _, scheme := range postgresSchemes {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// Open returns a lazily connecting handle on the payment request database.
// Queries are traced through Datadog when an agent is configured, and
// BUNDEBUG=1 (failed) or BUNDEBUG=2 (all) logs them.
func Open(config *service.Config) (*bun.DB, error) {
	dsn := config.DatabaseUri
	if !isPostgresDsn(dsn) {
		return nil, fmt.Errorf("unsupported DATABASE_URI %q, expected one of %s", dsn, strings.Join(postgresSchemes, ", "))
	}
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithApplicationName(applicationName),
	)

	var sqlDB *sql.DB
	if config.DatadogAgentUrl != "" {
		registerTracedDriver.Do(func() {
			sqltrace.Register("postgres", pgdriver.Driver{}, sqltrace.WithServiceName(applicationName))
		})
		sqlDB = sqltrace.OpenDB(connector)
	} else {
		sqlDB = sql.OpenDB(connector)
	}
	sqlDB.SetMaxOpenConns(config.DatabaseMaxConns)
	sqlDB.SetMaxIdleConns(config.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(config.DatabaseConnMaxLifetime) * time.Second)

	db := bun.NewDB(sqlDB, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),
		bundebug.FromEnv("BUNDEBUG"),
	))
	return db, nil
}
