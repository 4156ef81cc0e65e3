package model

import "pdc/money"

// SupplierRecord is a row of the local supplier cache, mirroring the
// platform's supplier base.
type SupplierRecord struct {
	SupplierID string `db:"supplier_id" json:"supplierId"`
	Number     string `db:"supplier_number" json:"supplierNumber"`
	Name       string `db:"supplier_name" json:"supplierName"`
	TaxID      string `db:"tax_id" json:"taxId"`
	Phone      string `db:"phone" json:"phone"`
	Email      string `db:"email" json:"email"`
	BankInfo   string `db:"bank_info" json:"bankInfo"`
}

// QuotationLine is one product×supplier record of a quotation, the unit
// the record API stores the comparison table as. One line exists per
// product row and supplier column; totals are denormalized onto every
// line the way the platform report expects them.
type QuotationLine struct {
	RecordID      string      `json:"ID,omitempty"`
	ProductID     int         `json:"productId"`
	SupplierID    string      `json:"supplierId,omitempty"`
	Product       string      `json:"product"`
	Quantity      money.Money `json:"quantity"`
	Unit          string      `json:"unit"`
	Supplier      string      `json:"supplier,omitempty"`
	UnitPrice     money.Money `json:"unitPrice"`
	Total         money.Money `json:"total"`
	Freight       money.Money `json:"freight"`
	Discount      money.Money `json:"discount"`
	GrandTotal    money.Money `json:"grandTotal"`
	PaymentTerms  string      `json:"paymentTerms,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	PDCNumber     string      `json:"pdcNumber"`
	TempPDCNumber string      `json:"tempPdcNumber"`
	Approved      bool        `json:"approved"`
	Version       int         `json:"version"`
	Active        bool        `json:"active"`
}

// QuotationDraft is a locally persisted session, keyed by the temporary
// PDC number so an interrupted edit can be resumed.
type QuotationDraft struct {
	TempNumber string `db:"temp_number" json:"tempNumber"`
	State      []byte `db:"state" json:"-"`
	UpdatedAt  string `db:"updated_at" json:"updatedAt"`
}
