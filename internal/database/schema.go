package database

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the products, categories, orders and order_items tables
// when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect, err := DialectFor(db.DriverName())
	if err != nil {
		return err
	}

	ddl, err := schemaFS.ReadFile("schema/" + dialect.Name() + ".sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, stmt := range strings.Split(string(ddl), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
