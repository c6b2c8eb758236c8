package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/database/dbtest"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	d, err := database.DialectFor(database.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "date(o.created_at)", d.DayExpr("o.created_at"))

	d, err = database.DialectFor(database.DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "to_char(o.created_at, 'YYYY-MM-DD')", d.DayExpr("o.created_at"))

	_, err = database.DialectFor("mysql")
	assert.Error(t, err)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(context.Background(), &database.Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, database.Migrate(context.Background(), db))

	for _, table := range []string{"categories", "products", "orders", "order_items"} {
		assert.Equal(t, 0, dbtest.Count(t, db, table, ""), table)
	}
}

func TestWithinTxCommitsAndRollsBack(t *testing.T) {
	db := dbtest.New(t)
	txm := database.NewTxManager(db)
	ctx := context.Background()

	err := txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES ('Drinks')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES ('Snacks')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 1, dbtest.Count(t, db, "categories", ""))
	assert.Equal(t, 0, dbtest.Count(t, db, "categories", "name = ?", "Snacks"))
}

func TestWhereBindsNamedParametersOnce(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	dbtest.Exec(t, db, `INSERT INTO categories (name, description) VALUES (?, ?), (?, ?), (?, ?)`,
		"Drinks", "cold", "Snacks", "salty", "Bakery", "cold")

	w := database.NewWhere().
		And("description = :desc", "desc", "cold").
		And("").
		And("name <> :skip", "skip", "Bakery")
	assert.Equal(t, " WHERE description = :desc AND name <> :skip", w.Clause())

	var names []string
	query := `SELECT name FROM categories` + w.Clause() +
		` AND id IN (SELECT id FROM categories WHERE description = :desc) ORDER BY name`
	require.NoError(t, database.NamedSelect(ctx, db, &names, query, w.Args()))
	assert.Equal(t, []string{"Drinks"}, names)

	var count int
	require.NoError(t, database.NamedGet(ctx, db, &count, `SELECT COUNT(*) FROM categories`+database.NewWhere().Clause(), map[string]interface{}{}))
	assert.Equal(t, 3, count)
}

func TestIsUniqueViolation(t *testing.T) {
	db := dbtest.New(t)
	dbtest.Exec(t, db, `INSERT INTO categories (name) VALUES (?)`, "Drinks")

	_, err := db.Exec(`INSERT INTO categories (name) VALUES (?)`, "Drinks")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsUniqueViolation(errors.New("other")))
}
