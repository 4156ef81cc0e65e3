// Package save assembles a quotation session into platform payloads and
// persists it, replacing the previously saved version atomically from
// the report's point of view: old line records are deactivated, never
// deleted, and the new set is written under a bumped version.
package save

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"pdc/model"
	"pdc/quote"
)

// ErrSaveInFlight is returned when a save is requested while another
// one is still running for the same saver.
var ErrSaveInFlight = errors.New("a save is already in progress")

// ErrNoApprovedSupplier is returned when the requested status needs an
// approved supplier and none is selected.
var ErrNoApprovedSupplier = errors.New("no approved supplier selected")

const (
	formPDC       = "PDC"
	formQuotation = "Cotacao"

	reportPDCs       = "Todos_PDCs"
	reportQuotations = "Todas_Cotacoes"
)

// Options controls one save run.
type Options struct {
	// Status the PDC should carry after the save.
	Status string
	// SplitByInstallment creates one sub-PDC per installment instead
	// of a single record carrying the whole plan.
	SplitByInstallment bool
	// AdvancePayment marks the plan as paid up front, which forces
	// sub-numbering even for a single installment.
	AdvancePayment bool
	// Attachment is an optional local file uploaded to the PDC's
	// attachment field after the records exist.
	Attachment string
}

// RecordAPI is the slice of the platform client the saver needs.
type RecordAPI interface {
	CreateRecord(ctx context.Context, formName string, data any) (string, error)
	UpdateRecord(ctx context.Context, reportName, recordID string, data any) error
	UploadFile(ctx context.Context, reportName, recordID, fieldName, filePath string) error
}

// Saver persists sessions through the record platform. One saver guards
// one session; concurrent Save calls beyond the first fail fast.
type Saver struct {
	api    RecordAPI
	saving atomic.Bool
}

func NewSaver(api RecordAPI) *Saver {
	return &Saver{api: api}
}

// Save writes the session to the platform. On any remote failure the
// session keeps its pre-save record ids and version so a retry starts
// from the same place.
func (sv *Saver) Save(ctx context.Context, s *quote.Session, opts Options) error {
	if !sv.saving.CompareAndSwap(false, true) {
		return ErrSaveInFlight
	}
	defer sv.saving.Store(false)

	if needsApproval(opts.Status) && s.Approved() == nil {
		return ErrNoApprovedSupplier
	}

	// Deactivate the lines of the previous save first, so the report
	// never shows two active versions at once.
	for _, recID := range s.QuotationRecordIDs {
		if err := sv.api.UpdateRecord(ctx, reportQuotations, recID, map[string]any{"active": false}); err != nil {
			return fmt.Errorf("deactivating quotation line %s: %w", recID, err)
		}
	}

	pdcRecords, err := sv.savePDC(ctx, s, opts)
	if err != nil {
		return err
	}

	lines := BuildQuotationLines(s)
	newVersion := s.Version + 1
	newIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		line.Version = newVersion
		id, err := sv.api.CreateRecord(ctx, formQuotation, line)
		if err != nil {
			return fmt.Errorf("creating quotation line for product %d: %w", line.ProductID, err)
		}
		newIDs = append(newIDs, id)
	}
	s.QuotationRecordIDs = newIDs
	s.Version = newVersion
	s.Status = opts.Status

	if opts.Attachment != "" {
		for _, recID := range pdcRecords {
			if err := sv.api.UploadFile(ctx, reportPDCs, recID, "Anexo", opts.Attachment); err != nil {
				log.Printf("WARN: attachment upload failed for %s: %v", recID, err)
			}
		}
	}

	log.Printf("INFO: saved quotation %s (%d lines, %d PDC records)", s.TempNumber, len(newIDs), len(pdcRecords))
	return nil
}

func needsApproval(status string) bool {
	return status == "Aprovado" || status == "Pago"
}

// savePDC creates or updates the PDC header records and returns their
// record ids. When splitting, each not-yet-created installment becomes
// its own record numbered base/NN; installments already persisted as
// sub-PDCs are left alone.
func (sv *Saver) savePDC(ctx context.Context, s *quote.Session, opts Options) ([]string, error) {
	split := splitNumbering(s, opts)

	if !opts.SplitByInstallment {
		data := BuildPDCData(s, opts)
		if s.PDCRecordID == "" {
			id, err := sv.api.CreateRecord(ctx, formPDC, data)
			if err != nil {
				return nil, fmt.Errorf("creating PDC: %w", err)
			}
			s.PDCRecordID = id
		} else {
			if err := sv.api.UpdateRecord(ctx, reportPDCs, s.PDCRecordID, data); err != nil {
				return nil, fmt.Errorf("updating PDC: %w", err)
			}
		}
		return []string{s.PDCRecordID}, nil
	}

	// Sub-numbers hang off the final number when one exists, otherwise
	// off the temporary number, matching what the report shows before
	// the platform assigns the final one.
	base := s.Number
	if base == "" {
		base = s.TempNumber
	}

	ids := []string{}
	insts := s.Installments()
	for idx, inst := range insts {
		if inst.Created {
			continue
		}
		// an installment that already carries a number keeps it
		number := inst.PDCNumber
		if number == "" {
			number = InstallmentNumber(base, idx, split)
		}
		data := BuildPDCData(s, opts)
		data.Number = number
		data.Installments = []model.InstallmentPayload{{
			Number:  inst.Number,
			DueDate: inst.DueDate,
			Amount:  inst.Amount,
			Created: true,
		}}
		data.BudgetAmount = inst.Amount
		data.DueDate = inst.DueDate
		data.Classifications = BuildClassifications(s, len(insts))

		id, err := sv.api.CreateRecord(ctx, formPDC, data)
		if err != nil {
			return nil, fmt.Errorf("creating PDC installment %d: %w", inst.Number, err)
		}
		if err := s.MarkInstallmentCreated(inst.Number, number); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// splitNumbering reports whether sub-PDC numbers get the /NN suffix: a
// multi-installment split always does, and an advance payment does even
// with a single installment.
func splitNumbering(s *quote.Session, opts Options) bool {
	if !opts.SplitByInstallment {
		return false
	}
	return len(s.Installments()) > 1 || opts.AdvancePayment
}

// InstallmentNumber derives a sub-PDC number from the base number and
// the zero-based installment index, zero-padded to two digits.
func InstallmentNumber(base string, idx int, split bool) string {
	if !split {
		return base
	}
	return fmt.Sprintf("%s/%02d", base, idx+1)
}

// BuildPDCData assembles the PDC header payload from the session. The
// beneficiary and budget come from the approved supplier when present.
func BuildPDCData(s *quote.Session, opts Options) model.PDCData {
	data := model.PDCData{
		TempNumber: s.TempNumber,
		Number:     s.Number,
		Status:     opts.Status,
	}
	if sup := s.Approved(); sup != nil {
		data.Beneficiary = sup.Name
		data.BudgetAmount = sup.GrandTotal
	}
	for _, inst := range s.Installments() {
		data.Installments = append(data.Installments, model.InstallmentPayload{
			Number:    inst.Number,
			DueDate:   inst.DueDate,
			Amount:    inst.Amount,
			PDCNumber: inst.PDCNumber,
			Created:   inst.Created,
		})
	}
	if len(data.Installments) > 0 {
		data.DueDate = data.Installments[0].DueDate
	}
	data.Classifications = BuildClassifications(s, 1)
	return data
}

// BuildClassifications assembles the allocation lines, dividing each
// amount by divisor so a split save spreads the allocation evenly over
// the sub-PDCs. Division truncates, so a split can drop up to
// divisor-1 centavos per line.
func BuildClassifications(s *quote.Session, divisor int) []model.ClassificationPayload {
	if divisor < 1 {
		divisor = 1
	}
	var out []model.ClassificationPayload
	for _, line := range s.Classifications() {
		amount := line.Amount.DivInt(divisor)
		out = append(out, model.ClassificationPayload{
			Account:          line.Account,
			CostCenter:       line.CostCenter,
			OperationalClass: line.OperationalClass,
			Amount:           amount,
		})
	}
	return out
}

// BuildQuotationLines flattens the comparison table into one record per
// product row and supplier column, with the supplier totalizers
// denormalized onto every line. A session with no suppliers still
// yields one line per product so the product list survives a save.
func BuildQuotationLines(s *quote.Session) []model.QuotationLine {
	var out []model.QuotationLine
	for _, p := range s.Products() {
		if len(s.Suppliers()) == 0 {
			out = append(out, model.QuotationLine{
				ProductID:     p.ID,
				Product:       p.Description,
				Quantity:      p.Quantity,
				Unit:          p.Unit,
				PDCNumber:     s.Number,
				TempPDCNumber: s.TempNumber,
				Active:        true,
			})
			continue
		}
		for _, sup := range s.Suppliers() {
			cell := p.Cells[sup.ID]
			line := model.QuotationLine{
				ProductID:     p.ID,
				SupplierID:    sup.ID,
				Product:       p.Description,
				Quantity:      p.Quantity,
				Unit:          p.Unit,
				Supplier:      sup.Name,
				Freight:       sup.Freight,
				Discount:      sup.Discount,
				GrandTotal:    sup.GrandTotal,
				PaymentTerms:  sup.PaymentTerms,
				Notes:         sup.Notes,
				PDCNumber:     s.Number,
				TempPDCNumber: s.TempNumber,
				Approved:      sup.Approved,
				Active:        true,
			}
			if cell != nil {
				line.UnitPrice = cell.UnitPrice
				line.Total = cell.Total
			}
			out = append(out, line)
		}
	}
	return out
}
