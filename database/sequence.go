package database

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// NextSequenceInTx advances a named counter and returns the formatted
// code, prefix plus the zero-padded number.
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
	_, err = tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = ?`, newNo, name)
	if err != nil {
		return "", fmt.Errorf("failed to update sequence '%s': %w", name, err)
	}

	format := fmt.Sprintf("%s%%0%dd", prefix, padding)
	return fmt.Sprintf(format, newNo), nil
}

// InitializeSequenceFromMaxTempNumber aligns the 'TMP' counter with the
// highest temporary number already used by a stored draft, so restarts
// never hand out a number twice.
func InitializeSequenceFromMaxTempNumber(tx *sqlx.Tx) error {
	var maxNumber sql.NullString
	err := tx.Get(&maxNumber, "SELECT temp_number FROM quotation_drafts WHERE temp_number LIKE 'TMP-%' ORDER BY temp_number DESC LIMIT 1")

	maxNum := 0
	if err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}

	if maxNumber.Valid && strings.HasPrefix(maxNumber.String, "TMP-") {
		numPart := strings.TrimPrefix(maxNumber.String, "TMP-")
		maxNum, _ = strconv.Atoi(numPart)
	}

	log.Printf("INFO: [Sequence] Setting 'TMP' last_no to %d", maxNum)

	_, err = tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = 'TMP' AND last_no < ?`, maxNum, maxNum)
	return err
}
