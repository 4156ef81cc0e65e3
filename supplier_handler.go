package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdc/database"
	"pdc/model"
	"pdc/parsers"
)

// ListSuppliersHandler returns the supplier cache.
func ListSuppliersHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suppliers, err := database.GetAllSuppliers(db)
		if err != nil {
			log.Printf("Error getting all suppliers: %v", err)
			http.Error(w, "failed to list suppliers", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(suppliers)
	}
}

// CreateSupplierHandler registers one supplier.
func CreateSupplierHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.SupplierRecord
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if input.SupplierID == "" || input.Name == "" {
			http.Error(w, "supplier id and name are required", http.StatusBadRequest)
			return
		}

		if err := database.CreateSupplier(db, input); err != nil {
			log.Printf("Error creating supplier (ID: %s): %v", input.SupplierID, err)
			http.Error(w, "failed to create supplier", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "supplier created"})
	}
}

// DeleteSupplierHandler removes one supplier from the cache.
func DeleteSupplierHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID := strings.TrimPrefix(r.URL.Path, "/api/suppliers/delete/")
		if supplierID == "" {
			http.Error(w, "supplier id is required", http.StatusBadRequest)
			return
		}

		if err := database.DeleteSupplier(db, supplierID); err != nil {
			log.Printf("Error deleting supplier (ID: %s): %v", supplierID, err)
			http.Error(w, "failed to delete supplier", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "supplier deleted"})
	}
}

// ImportSuppliersHandler upserts suppliers from an uploaded CSV export.
func ImportSuppliersHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "CSV file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		latin1 := r.FormValue("encoding") == "latin1"
		records, err := parsers.ParseSupplierCSV(file, latin1)
		if err != nil {
			log.Printf("Error parsing supplier CSV: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("Error beginning supplier import tx: %v", err)
			http.Error(w, "failed to import suppliers", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		for _, rec := range records {
			if err := database.UpsertSupplierInTx(tx, rec); err != nil {
				log.Printf("Error upserting supplier %s: %v", rec.SupplierID, err)
				http.Error(w, "failed to import suppliers", http.StatusInternalServerError)
				return
			}
		}
		if err := tx.Commit(); err != nil {
			log.Printf("Error committing supplier import: %v", err)
			http.Error(w, "failed to import suppliers", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: imported %d suppliers", len(records))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"imported": len(records)})
	}
}
