package database

import (
	"database/sql"
	"fmt"
	"time"

	"pdc/model"

	"github.com/jmoiron/sqlx"
)

// UpsertDraftInTx stores a serialized session state keyed by its
// temporary PDC number, replacing any older draft for that number.
func UpsertDraftInTx(tx *sqlx.Tx, tempNumber string, state []byte) error {
	const q = `
		INSERT INTO quotation_drafts (temp_number, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(temp_number) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`
	_, err := tx.Exec(q, tempNumber, state, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("UpsertDraftInTx (TempNumber: %s) failed: %w", tempNumber, err)
	}
	return nil
}

// GetDraft returns the stored draft, or (nil, nil) when none exists.
func GetDraft(db *sqlx.DB, tempNumber string) (*model.QuotationDraft, error) {
	var draft model.QuotationDraft
	err := db.Get(&draft, "SELECT temp_number, state, updated_at FROM quotation_drafts WHERE temp_number = ?", tempNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft %s: %w", tempNumber, err)
	}
	return &draft, nil
}

func ListDrafts(db *sqlx.DB) ([]model.QuotationDraft, error) {
	var drafts []model.QuotationDraft
	err := db.Select(&drafts, "SELECT temp_number, '' AS state, updated_at FROM quotation_drafts ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// DeleteDraft drops the draft after a successful remote save.
func DeleteDraft(db *sqlx.DB, tempNumber string) error {
	_, err := db.Exec("DELETE FROM quotation_drafts WHERE temp_number = ?", tempNumber)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", tempNumber, err)
	}
	return nil
}
