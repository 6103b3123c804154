package sqlutils

import (
	"database/sql"
)

func GetNullableSqlString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
