package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"pdc/model"
)

// ParseSupplierCSV reads a supplier export. Exports from the ERP come
// out as Windows-1252; set latin1 for those, leave it false for UTF-8
// files (with or without BOM).
func ParseSupplierCSV(r io.Reader, latin1 bool) ([]model.SupplierRecord, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	} else {
		r = SkipBOM(r)
	}
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("supplier CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read supplier CSV header: %w", err)
	}

	requiredHeaders := []string{"supplier_id", "supplier_name"}
	colIndex, err := getColIndex(header, requiredHeaders)
	if err != nil {
		return nil, err
	}

	var records []model.SupplierRecord
	line := 1

	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: supplier CSV line %d read error (skipped): %v", line, err)
			continue
		}

		get := func(key string) string {
			if idx, ok := colIndex[key]; ok && idx < len(rec) {
				return strings.TrimSpace(rec[idx])
			}
			return ""
		}

		supplierID := get("supplier_id")
		supplierName := get("supplier_name")

		if supplierID == "" || supplierName == "" {
			log.Printf("WARN: supplier CSV line %d has empty id or name (skipped)", line)
			continue
		}

		records = append(records, model.SupplierRecord{
			SupplierID: supplierID,
			Number:     get("supplier_number"),
			Name:       supplierName,
			TaxID:      get("tax_id"),
			Phone:      get("phone"),
			Email:      get("email"),
			BankInfo:   get("bank_info"),
		})
	}

	return records, nil
}
