package database

import "fmt"

// Dialect holds the SQL fragments that differ between the supported drivers.
type Dialect interface {
	Name() string
	// DayExpr extracts the calendar date of a timestamp column as 'YYYY-MM-DD' text.
	DayExpr(column string) string
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) DayExpr(column string) string {
	return fmt.Sprintf("date(%s)", column)
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) DayExpr(column string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect{}, nil
	case DriverPostgres:
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
