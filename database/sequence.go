package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// NextSequenceInTx issues the next code from a named sequence, formatted as
// prefix + zero-padded counter. Runs inside the caller's transaction so a
// rolled-back order does not burn a number visible to a committed one.
func NextSequenceInTx(tx *sqlx.Tx, name, prefix string, padding int) (string, error) {
	var lastNo int
	err := tx.Get(&lastNo, "SELECT last_no FROM code_sequences WHERE name = ?", name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("sequence '%s' not found", name)
		}
		return "", fmt.Errorf("failed to get sequence '%s': %w", name, err)
	}

	newNo := lastNo + 1
	if _, err := tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = ?`, newNo, name); err != nil {
		return "", fmt.Errorf("failed to update sequence '%s': %w", name, err)
	}

	format := fmt.Sprintf("%s%%0%dd", prefix, padding)
	return fmt.Sprintf(format, newNo), nil
}

// InitializeSequenceFromMaxOrderNumber realigns the 'OR' sequence with the
// highest existing order number, covering databases restored from backups.
func InitializeSequenceFromMaxOrderNumber(tx *sqlx.Tx) error {
	var maxNumber sql.NullString
	err := tx.Get(&maxNumber, "SELECT order_number FROM orders ORDER BY order_number DESC LIMIT 1")
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	maxNum := 0
	if maxNumber.Valid && strings.HasPrefix(maxNumber.String, "OR") {
		numPart := strings.TrimPrefix(maxNumber.String, "OR")
		maxNum, _ = strconv.Atoi(numPart)
	}

	var current int
	if err := tx.Get(&current, "SELECT last_no FROM code_sequences WHERE name = 'OR'"); err == nil && current >= maxNum {
		return nil
	}

	_, err = tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = 'OR'`, maxNum)
	return err
}
