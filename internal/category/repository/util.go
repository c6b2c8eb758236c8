package repository

import (
	"database/sql"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
)

func requireAffected(res sql.Result, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound(format, args...)
	}
	return nil
}

func toLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
