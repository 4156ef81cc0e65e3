// Package grid is the index arithmetic for the quotation table layout.
//
// A table body row is: description, quantity, unit, then one
// (unit price, total) column pair per supplier, then the action column.
// The body ends with four fixed rows: freight, discount, grand total and
// the structural add-product row. The merged header row has a single cell
// per supplier, so header and body indices do not line up; every
// conversion between the two lives here.
package grid

const (
	// LeadingCols is the fixed column count before the first supplier
	// pair: description, quantity, unit.
	LeadingCols = 3

	// TrailerRows is the fixed row count after the last product row:
	// freight, discount, grand total and the add-product control row.
	TrailerRows = 4
)

// Kind classifies a body column.
type Kind int

const (
	KindDescription Kind = iota
	KindQuantity
	KindUnit
	KindUnitPrice
	KindTotal
	KindAction
	KindNone
)

// UnitPriceCol returns the body column of a supplier's unit price.
func UnitPriceCol(supplier int) int { return LeadingCols + supplier*2 }

// TotalCol returns the body column of a supplier's computed total.
func TotalCol(supplier int) int { return UnitPriceCol(supplier) + 1 }

// Cols is the body row width for a supplier count, action column included.
func Cols(suppliers int) int { return LeadingCols + suppliers*2 + 1 }

// ProductRows is the number of product rows in a body with totalRows rows.
func ProductRows(totalRows int) int { return totalRows - TrailerRows }

// SupplierCount derives the supplier count from a body row width.
func SupplierCount(totalCols int) int { return (totalCols - LeadingCols - 1) / 2 }

// SupplierForCol returns the supplier owning a body column, or -1 for
// the fixed leading columns and the action column.
func SupplierForCol(col, suppliers int) int {
	if col < LeadingCols || col >= Cols(suppliers)-1 {
		return -1
	}
	return (col - LeadingCols) / 2
}

// Classify names a body column and, for supplier columns, the owning
// supplier index.
func Classify(col, suppliers int) (Kind, int) {
	switch col {
	case 0:
		return KindDescription, -1
	case 1:
		return KindQuantity, -1
	case 2:
		return KindUnit, -1
	}
	s := SupplierForCol(col, suppliers)
	if s < 0 {
		if col == Cols(suppliers)-1 {
			return KindAction, -1
		}
		return KindNone, -1
	}
	if col == UnitPriceCol(s) {
		return KindUnitPrice, s
	}
	return KindTotal, s
}

// BodyBaseForHeader maps a merged-header cell index to the body column
// of that supplier's unit price. The header carries one cell per
// supplier where the body carries two.
func BodyBaseForHeader(headerIdx int) int { return headerIdx*2 - LeadingCols }

// TotalsCellForHeader maps a merged-header cell index to the cell index
// in a totalizer row, whose supplier cells are merged pairs.
func TotalsCellForHeader(headerIdx int) int { return headerIdx - (LeadingCols - 1) }

// HeaderForSupplier is the merged-header cell index of a supplier.
func HeaderForSupplier(supplier int) int { return LeadingCols + supplier }
