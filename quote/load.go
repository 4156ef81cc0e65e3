package quote

import (
	"sort"

	"pdc/model"
)

// FromLines rebuilds a session from the active line records of a
// previously saved quotation. Lines are grouped by product id and
// supplier id; derived totals are recomputed from the stored unit
// prices instead of trusted from the records.
func FromLines(id string, lines []model.QuotationLine) *Session {
	s := &Session{ID: id, nextProductID: 1}

	seen := make(map[int]*ProductRow)
	order := []int{}
	approvedID := ""

	for _, ln := range lines {
		if !ln.Active {
			continue
		}
		if s.TempNumber == "" {
			s.TempNumber = ln.TempPDCNumber
		}
		if s.Number == "" {
			s.Number = ln.PDCNumber
		}
		if ln.RecordID != "" {
			s.QuotationRecordIDs = append(s.QuotationRecordIDs, ln.RecordID)
		}
		if ln.Version > s.Version {
			s.Version = ln.Version
		}

		if ln.SupplierID != "" && s.supplier(ln.SupplierID) == nil {
			sup := s.AddSupplier(ln.SupplierID, ln.Supplier)
			sup.Freight = ln.Freight
			sup.Discount = ln.Discount
			sup.PaymentTerms = ln.PaymentTerms
			sup.Notes = ln.Notes
			if ln.Approved {
				approvedID = ln.SupplierID
			}
		}

		p, ok := seen[ln.ProductID]
		if !ok {
			p = &ProductRow{
				ID:          ln.ProductID,
				Description: ln.Product,
				Quantity:    ln.Quantity,
				Unit:        ln.Unit,
				Cells:       make(map[string]*Cell),
			}
			seen[ln.ProductID] = p
			order = append(order, ln.ProductID)
		}
		if ln.SupplierID != "" {
			p.Cells[ln.SupplierID] = &Cell{UnitPrice: ln.UnitPrice}
		}
	}

	sort.Ints(order)
	maxID := 0
	for _, pid := range order {
		p := seen[pid]
		for _, sup := range s.suppliers {
			if _, ok := p.Cells[sup.ID]; !ok {
				p.Cells[sup.ID] = &Cell{}
			}
		}
		s.products = append(s.products, p)
		if pid > maxID {
			maxID = pid
		}
	}
	s.nextProductID = maxID + 1

	if len(s.products) == 0 {
		s.AddProduct("", 0)
	}
	_ = s.SetApproved(approvedID)
	s.AddInstallment("", 0, "")
	s.AddClassification("", "", "", 0)
	s.RecomputeAll()
	return s
}
