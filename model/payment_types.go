package model

import "pdc/money"

// InstallmentPayload is one scheduled payment inside a PDC record.
type InstallmentPayload struct {
	Number    int         `json:"installmentNumber"`
	DueDate   string      `json:"dueDate,omitempty"` // DD/MM/YYYY
	Amount    money.Money `json:"amount"`
	PDCNumber string      `json:"pdcNumber,omitempty"`
	Created   bool        `json:"created"`
}

// ClassificationPayload is one accounting allocation line inside a PDC
// record. Amounts may arrive pre-divided by the installment count; the
// division is the caller's choice, recorded at assembly time.
type ClassificationPayload struct {
	Account          string      `json:"account"`
	CostCenter       string      `json:"costCenter"`
	OperationalClass string      `json:"operationalClass"`
	Amount           money.Money `json:"amount"`
}

// PDCData is the header payload of a purchase-order record.
type PDCData struct {
	TempNumber      string                  `json:"tempNumber"`
	Number          string                  `json:"pdcNumber,omitempty"`
	Status          string                  `json:"status,omitempty"`
	Beneficiary     string                  `json:"beneficiary,omitempty"`
	BudgetAmount    money.Money             `json:"budgetAmount"`
	DueDate         string                  `json:"dueDate,omitempty"`
	Installments    []InstallmentPayload    `json:"installments,omitempty"`
	Classifications []ClassificationPayload `json:"classifications,omitempty"`
}
