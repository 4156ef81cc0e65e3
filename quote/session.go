// Package quote is the price-comparison engine: one Session per open
// quotation document, holding the product rows, supplier columns,
// payment plan and accounting classification as the single source of
// truth. Any UI is a renderer over Snapshot; nothing reads state back
// out of a rendered table.
package quote

import (
	"pdc/money"
)

// Field names an editable cell kind for SetCell.
type Field string

const (
	FieldDescription Field = "description"
	FieldQuantity    Field = "quantity"
	FieldUnit        Field = "unit"
	FieldUnitPrice   Field = "unitPrice"
	FieldFreight     Field = "freight"
	FieldDiscount    Field = "discount"
)

// Cell is one supplier's priced cell on a product row. Total is always
// quantity × unit price, recomputed eagerly, never stored stale.
type Cell struct {
	UnitPrice money.Money
	Total     money.Money
}

// ProductRow is one quoted item. IDs are monotonic per session and
// never reused, so remote line records can be matched after edits.
type ProductRow struct {
	ID          int
	Description string
	Quantity    money.Money // integer-valued
	Unit        string
	Cells       map[string]*Cell // supplier id -> cell
}

// Supplier is one bidding vendor column pair plus its totalizer cells
// and detail row.
type Supplier struct {
	ID           string
	Name         string
	Freight      money.Money
	Discount     money.Money // positive magnitude, subtracted
	GrandTotal   money.Money // derived: Σ totals + freight - discount
	Approved     bool
	PaymentTerms string
	Notes        string
}

// Installment is one scheduled payment against the approved supplier's
// grand total. Numbers stay contiguous and 1-based.
type Installment struct {
	Number    int
	DueDate   string // DD/MM/YYYY
	Amount    money.Money
	PDCNumber string // carried sub-number, set once the record exists
	Created   bool   // already persisted as its own sub-PDC
}

// ClassificationLine is one accounting allocation against the approved
// supplier's grand total.
type ClassificationLine struct {
	Account          string
	CostCenter       string
	OperationalClass string
	Amount           money.Money
}

// Session is a single open quotation document. It is owned by exactly
// one editor; all mutations are synchronous.
type Session struct {
	ID          string
	PDCRecordID string // platform record id once the PDC exists
	TempNumber  string
	Number      string
	Status      string

	// Version of the last saved line set; each save writes the next one.
	Version int

	// Remote line record ids of the last saved quotation, so a
	// re-save can deactivate them first.
	QuotationRecordIDs []string

	nextProductID   int
	products        []*ProductRow
	suppliers       []*Supplier
	approvedID      string
	installments    []*Installment
	classifications []*ClassificationLine
}

// NewSession builds an empty document: one blank product row, one
// installment and one classification line, matching the initial form.
func NewSession(id string) *Session {
	s := &Session{
		ID:            id,
		nextProductID: 1,
	}
	s.AddProduct("", 0)
	s.AddInstallment("", 0, "")
	s.AddClassification("", "", "", 0)
	return s
}

func (s *Session) Products() []*ProductRow                { return s.products }
func (s *Session) Suppliers() []*Supplier                 { return s.suppliers }
func (s *Session) Installments() []*Installment           { return s.installments }
func (s *Session) Classifications() []*ClassificationLine { return s.classifications }

func (s *Session) product(id int) *ProductRow {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) supplier(id string) *Supplier {
	for _, sup := range s.suppliers {
		if sup.ID == id {
			return sup
		}
	}
	return nil
}

// SupplierIndex returns a supplier's column-pair index, or -1.
func (s *Session) SupplierIndex(id string) int {
	for i, sup := range s.suppliers {
		if sup.ID == id {
			return i
		}
	}
	return -1
}

// AddProduct appends a product row with zeroed cells for every existing
// supplier and returns its id. No totals change until prices arrive.
func (s *Session) AddProduct(description string, quantity int64) int {
	p := &ProductRow{
		ID:          s.nextProductID,
		Description: description,
		Quantity:    money.FromUnits(quantity),
		Cells:       make(map[string]*Cell, len(s.suppliers)),
	}
	s.nextProductID++
	for _, sup := range s.suppliers {
		p.Cells[sup.ID] = &Cell{}
	}
	s.products = append(s.products, p)
	return p.ID
}

// RemoveProduct deletes a row and recomputes every supplier's grand
// total. The last remaining row is protected.
func (s *Session) RemoveProduct(id int) error {
	if len(s.products) <= 1 {
		return ErrLastProduct
	}
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.recomputeGrandTotals()
			return nil
		}
	}
	return ErrUnknownProduct
}

// AddSupplier appends a column pair with zero-valued cells on every
// product row and zeroed totalizers. Approval state is untouched.
func (s *Session) AddSupplier(id, name string) *Supplier {
	if existing := s.supplier(id); existing != nil {
		existing.Name = name
		return existing
	}
	sup := &Supplier{ID: id, Name: name}
	s.suppliers = append(s.suppliers, sup)
	for _, p := range s.products {
		p.Cells[id] = &Cell{}
	}
	return sup
}

// RemoveSupplier drops a supplier's column pair from every row,
// totalizers included. Removing the approved supplier clears the
// approval; nothing is auto-reassigned.
func (s *Session) RemoveSupplier(id string) {
	idx := s.SupplierIndex(id)
	if idx < 0 {
		return
	}
	s.suppliers = append(s.suppliers[:idx], s.suppliers[idx+1:]...)
	for _, p := range s.products {
		delete(p.Cells, id)
	}
	if s.approvedID == id {
		s.approvedID = ""
	}
}

// SetApproved selects the single approved supplier; any previous
// selection is cleared. An empty id clears the selection.
func (s *Session) SetApproved(id string) error {
	if id != "" && s.supplier(id) == nil {
		return ErrUnknownSupplier
	}
	s.approvedID = id
	for _, sup := range s.suppliers {
		sup.Approved = sup.ID == id
	}
	return nil
}

// Approved returns the approved supplier, or nil when none is selected.
func (s *Session) Approved() *Supplier {
	if s.approvedID == "" {
		return nil
	}
	return s.supplier(s.approvedID)
}

// SetSupplierDetail updates a supplier's payment terms and notes row.
func (s *Session) SetSupplierDetail(id, paymentTerms, notes string) error {
	sup := s.supplier(id)
	if sup == nil {
		return ErrUnknownSupplier
	}
	sup.PaymentTerms = paymentTerms
	sup.Notes = notes
	return nil
}

// SetCell parses text for the named field and stores it, then
// recomputes the affected row total and grand totals. Malformed text
// coerces to zero; SetCell itself fails only on unknown targets.
func (s *Session) SetCell(productID int, supplierID string, field Field, text string) error {
	switch field {
	case FieldDescription, FieldQuantity, FieldUnit:
		p := s.product(productID)
		if p == nil {
			return ErrUnknownProduct
		}
		switch field {
		case FieldDescription:
			p.Description = text
		case FieldUnit:
			p.Unit = text
		case FieldQuantity:
			p.Quantity = money.ParseInt(text)
			s.recomputeRow(p)
			s.recomputeGrandTotals()
		}
		return nil

	case FieldUnitPrice:
		p := s.product(productID)
		if p == nil {
			return ErrUnknownProduct
		}
		cell, ok := p.Cells[supplierID]
		if !ok {
			return ErrUnknownSupplier
		}
		cell.UnitPrice = money.Parse(text)
		s.recomputeRow(p)
		s.recomputeGrandTotals()
		return nil

	case FieldFreight, FieldDiscount:
		sup := s.supplier(supplierID)
		if sup == nil {
			return ErrUnknownSupplier
		}
		if field == FieldFreight {
			sup.Freight = money.Parse(text)
		} else {
			sup.Discount = money.Parse(text).Abs()
		}
		s.recomputeGrandTotals()
		return nil
	}
	return nil
}

func (s *Session) recomputeRow(p *ProductRow) {
	for _, cell := range p.Cells {
		cell.Total = cell.UnitPrice.MulQty(p.Quantity)
	}
}

// recomputeGrandTotals rebuilds every supplier's grand total from
// scratch. Totals are never accumulated incrementally, so repeated
// edits cannot drift.
func (s *Session) recomputeGrandTotals() {
	for _, sup := range s.suppliers {
		var sum money.Money
		for _, p := range s.products {
			if cell, ok := p.Cells[sup.ID]; ok {
				sum = sum.Add(cell.Total)
			}
		}
		sup.GrandTotal = sum.Add(sup.Freight).Sub(sup.Discount)
	}
}

// RecomputeAll rebuilds every row total and grand total, used after
// bulk operations (paste, restore) so recompute runs once, not per cell.
func (s *Session) RecomputeAll() {
	for _, p := range s.products {
		s.recomputeRow(p)
	}
	s.recomputeGrandTotals()
}

// AddInstallment appends a payment to the plan and renumbers.
func (s *Session) AddInstallment(dueDate string, amount money.Money, pdcNumber string) *Installment {
	inst := &Installment{DueDate: dueDate, Amount: amount, PDCNumber: pdcNumber}
	s.installments = append(s.installments, inst)
	s.renumberInstallments()
	return inst
}

// RemoveInstallment deletes by 1-based number and renumbers the rest.
// The last remaining installment is protected.
func (s *Session) RemoveInstallment(number int) error {
	if len(s.installments) <= 1 {
		return ErrLastInstallment
	}
	for i, inst := range s.installments {
		if inst.Number == number {
			s.installments = append(s.installments[:i], s.installments[i+1:]...)
			s.renumberInstallments()
			return nil
		}
	}
	return ErrUnknownInstallment
}

// SetInstallment updates a payment's due date and amount text.
func (s *Session) SetInstallment(number int, dueDate, amountText string) error {
	for _, inst := range s.installments {
		if inst.Number == number {
			inst.DueDate = dueDate
			inst.Amount = money.Parse(amountText)
			return nil
		}
	}
	return ErrUnknownInstallment
}

// MarkInstallmentCreated records that a sub-PDC now exists for the
// installment, carrying its assigned number.
func (s *Session) MarkInstallmentCreated(number int, pdcNumber string) error {
	for _, inst := range s.installments {
		if inst.Number == number {
			inst.Created = true
			inst.PDCNumber = pdcNumber
			return nil
		}
	}
	return ErrUnknownInstallment
}

func (s *Session) renumberInstallments() {
	for i, inst := range s.installments {
		inst.Number = i + 1
	}
}

// AddClassification appends an accounting allocation line.
func (s *Session) AddClassification(account, costCenter, operationalClass string, amount money.Money) {
	s.classifications = append(s.classifications, &ClassificationLine{
		Account:          account,
		CostCenter:       costCenter,
		OperationalClass: operationalClass,
		Amount:           amount,
	})
}

// RemoveClassification deletes by 0-based index; the last line is
// protected.
func (s *Session) RemoveClassification(index int) error {
	if len(s.classifications) <= 1 {
		return ErrLastClassification
	}
	if index < 0 || index >= len(s.classifications) {
		return ErrLastClassification
	}
	s.classifications = append(s.classifications[:index], s.classifications[index+1:]...)
	return nil
}

// SetClassification updates a line in place.
func (s *Session) SetClassification(index int, account, costCenter, operationalClass, amountText string) error {
	if index < 0 || index >= len(s.classifications) {
		return ErrLastClassification
	}
	line := s.classifications[index]
	line.Account = account
	line.CostCenter = costCenter
	line.OperationalClass = operationalClass
	line.Amount = money.Parse(amountText)
	return nil
}
