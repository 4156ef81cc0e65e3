package database

import (
	"fmt"
	"pdc/model"

	"github.com/jmoiron/sqlx"
)

func GetAllSuppliers(db *sqlx.DB) ([]model.SupplierRecord, error) {
	var suppliers []model.SupplierRecord
	err := db.Select(&suppliers, "SELECT supplier_id, supplier_number, supplier_name, tax_id, phone, email, bank_info FROM suppliers ORDER BY supplier_name")
	if err != nil {
		return nil, fmt.Errorf("failed to get all suppliers: %w", err)
	}
	return suppliers, nil
}

// GetSupplierMap returns supplier id -> display name for fast lookup
// when building table headers.
func GetSupplierMap(db *sqlx.DB) (map[string]string, error) {
	suppliers, err := GetAllSuppliers(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier list for map: %w", err)
	}

	supplierMap := make(map[string]string)
	for _, s := range suppliers {
		supplierMap[s.SupplierID] = s.Name
	}
	return supplierMap, nil
}

func CreateSupplier(db *sqlx.DB, s model.SupplierRecord) error {
	const q = `INSERT INTO suppliers (supplier_id, supplier_number, supplier_name, tax_id, phone, email, bank_info)
		VALUES (:supplier_id, :supplier_number, :supplier_name, :tax_id, :phone, :email, :bank_info)`
	_, err := db.NamedExec(q, s)
	if err != nil {
		return fmt.Errorf("CreateSupplier failed: %w", err)
	}
	return nil
}

// UpsertSupplierInTx inserts or refreshes one supplier cache row.
func UpsertSupplierInTx(tx *sqlx.Tx, s model.SupplierRecord) error {
	const q = `
		INSERT INTO suppliers (supplier_id, supplier_number, supplier_name, tax_id, phone, email, bank_info)
		VALUES (:supplier_id, :supplier_number, :supplier_name, :tax_id, :phone, :email, :bank_info)
		ON CONFLICT(supplier_id) DO UPDATE SET
			supplier_number = excluded.supplier_number,
			supplier_name = excluded.supplier_name,
			tax_id = excluded.tax_id,
			phone = excluded.phone,
			email = excluded.email,
			bank_info = excluded.bank_info
	`
	_, err := tx.NamedExec(q, s)
	if err != nil {
		return fmt.Errorf("UpsertSupplierInTx (ID: %s, Name: %s) failed: %w", s.SupplierID, s.Name, err)
	}
	return nil
}

func DeleteSupplier(db *sqlx.DB, supplierID string) error {
	const q = `DELETE FROM suppliers WHERE supplier_id = ?`
	_, err := db.Exec(q, supplierID)
	if err != nil {
		return fmt.Errorf("failed to delete supplier with id %s: %w", supplierID, err)
	}
	return nil
}
