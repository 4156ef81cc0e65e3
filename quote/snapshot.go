package quote

import (
	"pdc/money"
)

// Snapshot is the full serializable state of a session, used for draft
// persistence and as the handler response body. Restoring a snapshot
// and snapshotting again yields the same value.
type Snapshot struct {
	SessionID          string                `json:"sessionId"`
	PDCRecordID        string                `json:"pdcRecordId,omitempty"`
	TempNumber         string                `json:"tempNumber,omitempty"`
	Number             string                `json:"number,omitempty"`
	Status             string                `json:"status,omitempty"`
	Version            int                   `json:"version,omitempty"`
	QuotationRecordIDs []string              `json:"quotationRecordIds,omitempty"`
	NextProductID      int                   `json:"nextProductId"`
	Products           []ProductState        `json:"products"`
	Suppliers          []SupplierState       `json:"suppliers"`
	ApprovedID         string                `json:"approvedId,omitempty"`
	Installments       []InstallmentState    `json:"installments"`
	Classifications    []ClassificationState `json:"classifications"`
}

type ProductState struct {
	ID          int                  `json:"id"`
	Description string               `json:"description"`
	Quantity    int64                `json:"quantity"`
	Unit        string               `json:"unit"`
	Cells       map[string]CellState `json:"cells"`
}

type CellState struct {
	UnitPrice money.Money `json:"unitPrice"`
	Total     money.Money `json:"total"`
}

type SupplierState struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Freight      money.Money `json:"freight"`
	Discount     money.Money `json:"discount"`
	GrandTotal   money.Money `json:"grandTotal"`
	Approved     bool        `json:"approved"`
	PaymentTerms string      `json:"paymentTerms,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

type InstallmentState struct {
	Number    int         `json:"number"`
	DueDate   string      `json:"dueDate"`
	Amount    money.Money `json:"amount"`
	PDCNumber string      `json:"pdcNumber,omitempty"`
	Created   bool        `json:"created"`
}

type ClassificationState struct {
	Account          string      `json:"account"`
	CostCenter       string      `json:"costCenter"`
	OperationalClass string      `json:"operationalClass"`
	Amount           money.Money `json:"amount"`
}

// Snapshot captures the session state by value.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:          s.ID,
		PDCRecordID:        s.PDCRecordID,
		TempNumber:         s.TempNumber,
		Number:             s.Number,
		Status:             s.Status,
		Version:            s.Version,
		QuotationRecordIDs: append([]string(nil), s.QuotationRecordIDs...),
		NextProductID:      s.nextProductID,
		ApprovedID:         s.approvedID,
	}
	for _, p := range s.products {
		ps := ProductState{
			ID:          p.ID,
			Description: p.Description,
			Quantity:    p.Quantity.Units(),
			Unit:        p.Unit,
			Cells:       make(map[string]CellState, len(p.Cells)),
		}
		for id, cell := range p.Cells {
			ps.Cells[id] = CellState{UnitPrice: cell.UnitPrice, Total: cell.Total}
		}
		snap.Products = append(snap.Products, ps)
	}
	for _, sup := range s.suppliers {
		snap.Suppliers = append(snap.Suppliers, SupplierState{
			ID:           sup.ID,
			Name:         sup.Name,
			Freight:      sup.Freight,
			Discount:     sup.Discount,
			GrandTotal:   sup.GrandTotal,
			Approved:     sup.Approved,
			PaymentTerms: sup.PaymentTerms,
			Notes:        sup.Notes,
		})
	}
	for _, inst := range s.installments {
		snap.Installments = append(snap.Installments, InstallmentState{
			Number:    inst.Number,
			DueDate:   inst.DueDate,
			Amount:    inst.Amount,
			PDCNumber: inst.PDCNumber,
			Created:   inst.Created,
		})
	}
	for _, line := range s.classifications {
		snap.Classifications = append(snap.Classifications, ClassificationState{
			Account:          line.Account,
			CostCenter:       line.CostCenter,
			OperationalClass: line.OperationalClass,
			Amount:           line.Amount,
		})
	}
	return snap
}

// Restore replaces the session state with a snapshot and recomputes all
// derived totals, so stale totals in an old draft cannot survive.
func (s *Session) Restore(snap Snapshot) {
	s.PDCRecordID = snap.PDCRecordID
	s.TempNumber = snap.TempNumber
	s.Number = snap.Number
	s.Status = snap.Status
	s.Version = snap.Version
	s.QuotationRecordIDs = append([]string(nil), snap.QuotationRecordIDs...)
	s.approvedID = snap.ApprovedID

	s.suppliers = nil
	for _, ss := range snap.Suppliers {
		s.suppliers = append(s.suppliers, &Supplier{
			ID:           ss.ID,
			Name:         ss.Name,
			Freight:      ss.Freight,
			Discount:     ss.Discount,
			Approved:     ss.ID == snap.ApprovedID,
			PaymentTerms: ss.PaymentTerms,
			Notes:        ss.Notes,
		})
	}

	s.products = nil
	maxID := 0
	for _, ps := range snap.Products {
		p := &ProductRow{
			ID:          ps.ID,
			Description: ps.Description,
			Quantity:    money.FromUnits(ps.Quantity),
			Unit:        ps.Unit,
			Cells:       make(map[string]*Cell, len(s.suppliers)),
		}
		for _, sup := range s.suppliers {
			cell := &Cell{}
			if cs, ok := ps.Cells[sup.ID]; ok {
				cell.UnitPrice = cs.UnitPrice
			}
			p.Cells[sup.ID] = cell
		}
		if ps.ID > maxID {
			maxID = ps.ID
		}
		s.products = append(s.products, p)
	}
	s.nextProductID = maxID + 1
	if snap.NextProductID > s.nextProductID {
		s.nextProductID = snap.NextProductID
	}

	s.installments = nil
	for _, is := range snap.Installments {
		s.installments = append(s.installments, &Installment{
			Number:    is.Number,
			DueDate:   is.DueDate,
			Amount:    is.Amount,
			PDCNumber: is.PDCNumber,
			Created:   is.Created,
		})
	}
	s.renumberInstallments()

	s.classifications = nil
	for _, cs := range snap.Classifications {
		s.classifications = append(s.classifications, &ClassificationLine{
			Account:          cs.Account,
			CostCenter:       cs.CostCenter,
			OperationalClass: cs.OperationalClass,
			Amount:           cs.Amount,
		})
	}

	if len(s.products) == 0 {
		s.AddProduct("", 0)
	}
	if len(s.installments) == 0 {
		s.AddInstallment("", 0, "")
	}
	if len(s.classifications) == 0 {
		s.AddClassification("", "", "", 0)
	}
	s.RecomputeAll()
}
