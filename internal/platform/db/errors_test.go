package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestDuplicateKeyName(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		dup     bool
		keyName string
	}{
		{
			name:    "mysql 8 qualified key",
			err:     &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3|2024-06-10' for key 'loans.uq_loans_pending_slot'"},
			dup:     true,
			keyName: "uq_loans_pending_slot",
		},
		{
			name:    "mysql 5.7 bare key",
			err:     &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7|2024-06-10' for key 'uq_loans_active_user_day'"},
			dup:     true,
			keyName: "uq_loans_active_user_day",
		},
		{
			name:    "wrapped",
			err:     fmt.Errorf("insert loan: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'PRIMARY'"}),
			dup:     true,
			keyName: "PRIMARY",
		},
		{
			name:    "value mentions another key",
			err:     &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'evil'' for key 'computers.uq_computers_name'"},
			dup:     true,
			keyName: "uq_computers_name",
		},
		{
			name:    "value mentions another key, bare name",
			err:     &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'for key 'PRIMARY'' for key 'uq_computers_name'"},
			dup:     true,
			keyName: "uq_computers_name",
		},
		{
			name: "other mysql error",
			err:  &mysql.MySQLError{Number: 1213, Message: "Deadlock found"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dup, IsDuplicateKey(tt.err))
			assert.Equal(t, tt.keyName, DuplicateKeyName(tt.err))
		})
	}
}
