package db

import (
	"errors"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// The key name is always last; the duplicated value may itself contain "for key '...'".
var duplicateKeyName = regexp.MustCompile(`for key '(?:[^'.]+\.)?([^'.]+)'\s*$`)

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return false
}

// DuplicateKeyName returns the index named in a 1062 error, e.g. "uq_loans_pending_slot".
// MySQL 8 prefixes it with the table name; the prefix is stripped.
func DuplicateKeyName(err error) string {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return ""
	}
	m := duplicateKeyName.FindStringSubmatch(me.Message)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}
