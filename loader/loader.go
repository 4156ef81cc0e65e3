package loader

import (
	"fmt"
	"log"
	"os"
	"pdc/database"
	"pdc/parsers"

	"github.com/jmoiron/sqlx"
)

// InitDatabase applies the schema, seeds the supplier cache from an
// optional CSV export and aligns the temp-number sequence.
func InitDatabase(db *sqlx.DB) error {
	log.Println("Applying database schema...")
	if err := applySchema(db); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	log.Println("Schema applied successfully.")

	supplierPath := "SEED/FORNECEDORES.CSV"
	if _, err := os.Stat(supplierPath); os.IsNotExist(err) {
		log.Printf("WARN: %s not found, skipping supplier seed.", supplierPath)
	} else {
		log.Printf("Loading %s...", supplierPath)
		if err := LoadSupplierCSV(db, supplierPath); err != nil {
			return fmt.Errorf("failed to load %s: %w", supplierPath, err)
		}
		log.Printf("Loaded %s successfully.", supplierPath)
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for sequence initialization: %w", err)
	}
	defer tx.Rollback()

	if err := database.InitializeSequenceFromMaxTempNumber(tx); err != nil {
		log.Printf("WARN: Failed to initialize TMP sequence: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sequence initialization: %w", err)
	}
	log.Println("Code sequences initialized.")

	return nil
}

func applySchema(db *sqlx.DB) error {
	schemaBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("could not read schema.sql: %w", err)
	}
	_, err = db.Exec(string(schemaBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// LoadSupplierCSV parses a supplier export and upserts every row into
// the cache inside one transaction.
func LoadSupplierCSV(db *sqlx.DB, filepath string) (err error) {
	f, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open file %s: %w", filepath, err)
	}
	defer f.Close()

	records, err := parsers.ParseSupplierCSV(f, false)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", filepath, err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			log.Printf("Rolling back supplier load due to error: %v", err)
			tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				log.Printf("Error committing supplier load: %v", err)
			}
		}
	}()

	for _, rec := range records {
		if err = database.UpsertSupplierInTx(tx, rec); err != nil {
			return err
		}
	}
	log.Printf("INFO: upserted %d suppliers from %s", len(records), filepath)
	return nil
}
