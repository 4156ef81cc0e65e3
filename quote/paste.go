package quote

import (
	"strings"

	"pdc/grid"
	"pdc/money"
)

// PasteBlock applies a tab-separated block of cells starting at the row
// of anchorProductID and the table column anchorCol. Rows beyond the
// current product list are appended as new products; columns that fall
// on derived total cells or past the table edge are skipped. Totals are
// recomputed once at the end, after all cells landed.
func (s *Session) PasteBlock(anchorProductID, anchorCol int, block string) error {
	startRow := -1
	for i, p := range s.products {
		if p.ID == anchorProductID {
			startRow = i
			break
		}
	}
	if startRow < 0 {
		return ErrUnknownProduct
	}

	block = strings.TrimSuffix(block, "\n")
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	nSuppliers := len(s.suppliers)

	for r, line := range lines {
		rowIdx := startRow + r
		for rowIdx >= len(s.products) {
			s.AddProduct("", 0)
		}
		p := s.products[rowIdx]

		for c, value := range strings.Split(line, "\t") {
			col := anchorCol + c
			kind, supIdx := grid.Classify(col, nSuppliers)
			switch kind {
			case grid.KindDescription:
				p.Description = value
			case grid.KindQuantity:
				p.Quantity = money.ParseInt(value)
			case grid.KindUnit:
				p.Unit = value
			case grid.KindUnitPrice:
				sup := s.suppliers[supIdx]
				p.Cells[sup.ID].UnitPrice = money.Parse(value)
			default:
				// derived totals, action column, out of range
			}
		}
	}

	s.RecomputeAll()
	return nil
}
