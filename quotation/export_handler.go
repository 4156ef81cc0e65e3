package quotation

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/xuri/excelize/v2"

	"pdc/grid"
	"pdc/quote"
)

// ExportCSVHandler streams the comparison table as a CSV download with
// a UTF-8 BOM so spreadsheet apps pick up the accents.
func ExportCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFromRequest(w, r.URL.Query().Get("session"))
		if s == nil {
			return
		}

		number := s.Number
		if number == "" {
			number = s.TempNumber
		}
		fileName := fmt.Sprintf("cotacao_%s_%s.csv", number, time.Now().Format("20060102_150405"))
		fileName = url.PathEscape(fileName)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+fileName)
		w.Write([]byte{0xEF, 0xBB, 0xBF})

		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()

		headers := []string{"Produto", "Quantidade", "Unidade"}
		for _, sup := range s.Suppliers() {
			headers = append(headers, sup.Name+" (unit.)", sup.Name+" (total)")
		}
		if err := csvWriter.Write(headers); err != nil {
			log.Printf("Failed to write CSV header: %v", err)
		}

		for _, p := range s.Products() {
			record := []string{p.Description, p.Quantity.Format(0), p.Unit}
			for _, sup := range s.Suppliers() {
				cell := p.Cells[sup.ID]
				record = append(record, cell.UnitPrice.String(), cell.Total.String())
			}
			if err := csvWriter.Write(record); err != nil {
				log.Printf("Failed to write product row to CSV (ID: %d): %v", p.ID, err)
			}
		}

		writeTotalizerRows(csvWriter, s)
	}
}

func writeTotalizerRows(csvWriter *csv.Writer, s *quote.Session) {
	freight := []string{"Frete", "", ""}
	discount := []string{"Desconto", "", ""}
	grand := []string{"Total Geral", "", ""}
	for _, sup := range s.Suppliers() {
		freight = append(freight, "", sup.Freight.String())
		discount = append(discount, "", sup.Discount.String())
		grand = append(grand, "", sup.GrandTotal.String())
	}
	for _, row := range [][]string{freight, discount, grand} {
		if err := csvWriter.Write(row); err != nil {
			log.Printf("Failed to write totalizer row to CSV: %v", err)
		}
	}
}

// ExportXLSXHandler builds a spreadsheet of the comparison table with
// the approved supplier's columns highlighted.
func ExportXLSXHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFromRequest(w, r.URL.Query().Get("session"))
		if s == nil {
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		const sheet = "Cotação"
		f.SetSheetName("Sheet1", sheet)

		setCell := func(col, row int, value any) {
			name, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return
			}
			f.SetCellValue(sheet, name, value)
		}

		setCell(0, 0, "Produto")
		setCell(1, 0, "Quantidade")
		setCell(2, 0, "Unidade")
		for i, sup := range s.Suppliers() {
			setCell(grid.UnitPriceCol(i), 0, sup.Name+" (unit.)")
			setCell(grid.TotalCol(i), 0, sup.Name+" (total)")
		}

		row := 1
		for _, p := range s.Products() {
			setCell(0, row, p.Description)
			setCell(1, row, p.Quantity.Units())
			setCell(2, row, p.Unit)
			for i, sup := range s.Suppliers() {
				cell := p.Cells[sup.ID]
				setCell(grid.UnitPriceCol(i), row, cell.UnitPrice.Float64())
				setCell(grid.TotalCol(i), row, cell.Total.Float64())
			}
			row++
		}

		labels := []string{"Frete", "Desconto", "Total Geral"}
		for li, label := range labels {
			setCell(0, row+li, label)
			for i, sup := range s.Suppliers() {
				var v float64
				switch li {
				case 0:
					v = sup.Freight.Float64()
				case 1:
					v = sup.Discount.Float64()
				case 2:
					v = sup.GrandTotal.Float64()
				}
				setCell(grid.TotalCol(i), row+li, v)
			}
		}

		if sup := s.Approved(); sup != nil {
			if style, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
			}); err == nil {
				idx := s.SupplierIndex(sup.ID)
				top, _ := excelize.CoordinatesToCellName(grid.UnitPriceCol(idx)+1, 1)
				bottom, _ := excelize.CoordinatesToCellName(grid.TotalCol(idx)+1, row+len(labels))
				f.SetCellStyle(sheet, top, bottom, style)
			}
		}

		number := s.Number
		if number == "" {
			number = s.TempNumber
		}
		fileName := url.PathEscape(fmt.Sprintf("cotacao_%s.xlsx", number))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+fileName)

		if err := f.Write(w); err != nil {
			log.Printf("Failed to write XLSX response: %v", err)
		}
	}
}
