package quotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"pdc/database"
	"pdc/money"
	"pdc/quote"
)

// Difference is a reconciliation result. Applicable is false while no
// supplier is approved, which the page shows as "-" instead of zero.
type Difference struct {
	Value      money.Money `json:"value"`
	Applicable bool        `json:"applicable"`
}

// StateResponse is the full document state returned by every mutating
// handler, so the page just re-renders instead of patching cells.
type StateResponse struct {
	Snapshot                 quote.Snapshot `json:"snapshot"`
	InstallmentsTotal        money.Money    `json:"installmentsTotal"`
	ClassificationsTotal     money.Money    `json:"classificationsTotal"`
	InstallmentDifference    Difference     `json:"installmentDifference"`
	ClassificationDifference Difference     `json:"classificationDifference"`
}

func buildState(s *quote.Session) StateResponse {
	resp := StateResponse{
		Snapshot:             s.Snapshot(),
		InstallmentsTotal:    s.InstallmentsTotal(),
		ClassificationsTotal: s.ClassificationsTotal(),
	}
	resp.InstallmentDifference.Value, resp.InstallmentDifference.Applicable = s.InstallmentDifference()
	resp.ClassificationDifference.Value, resp.ClassificationDifference.Applicable = s.ClassificationDifference()
	return resp
}

func writeState(w http.ResponseWriter, s *quote.Session) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(buildState(s)); err != nil {
		log.Printf("ERROR: encoding state for session %s: %v", s.ID, err)
	}
}

func sessionFromRequest(w http.ResponseWriter, id string) *quote.Session {
	if id == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return nil
	}
	s := getSession(id)
	if s == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return nil
	}
	return s
}

// opError maps engine errors onto HTTP statuses: guard violations are
// client errors, not server faults.
func opError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quote.ErrLastProduct),
		errors.Is(err, quote.ErrLastInstallment),
		errors.Is(err, quote.ErrLastClassification):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, quote.ErrUnknownProduct),
		errors.Is(err, quote.ErrUnknownSupplier),
		errors.Is(err, quote.ErrUnknownInstallment):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// NewQuotationHandler opens a fresh session and assigns it a temporary
// PDC number from the local sequence.
func NewQuotationHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := newSession()

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("ERROR: begin tx for temp number: %v", err)
			http.Error(w, "failed to assign temporary number", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		tempNumber, err := database.NextSequenceInTx(tx, "TMP", "TMP-", 4)
		if err != nil {
			log.Printf("ERROR: next temp number: %v", err)
			http.Error(w, "failed to assign temporary number", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ERROR: commit temp number: %v", err)
			http.Error(w, "failed to assign temporary number", http.StatusInternalServerError)
			return
		}

		s.TempNumber = tempNumber
		log.Printf("INFO: opened quotation session %s as %s", s.ID, tempNumber)
		writeState(w, s)
	}
}

// StateHandler returns the current state of a session.
func StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFromRequest(w, r.URL.Query().Get("session"))
		if s == nil {
			return
		}
		writeState(w, s)
	}
}

// CloseHandler drops a session from memory.
func CloseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session")
		if id == "" {
			http.Error(w, "session id is required", http.StatusBadRequest)
			return
		}
		dropSession(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ProductAddHandler appends a product row.
func ProductAddHandler() http.HandlerFunc {
	type request struct {
		Session     string `json:"session"`
		Description string `json:"description"`
		Quantity    int64  `json:"quantity"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		s.AddProduct(req.Description, req.Quantity)
		writeState(w, s)
	}
}

// ProductRemoveHandler deletes a product row; the last row stays.
func ProductRemoveHandler() http.HandlerFunc {
	type request struct {
		Session   string `json:"session"`
		ProductID int    `json:"productId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		if err := s.RemoveProduct(req.ProductID); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// SupplierAddHandler adds a supplier column pair. When only an id is
// sent the display name comes from the local supplier cache.
func SupplierAddHandler(db *sqlx.DB) http.HandlerFunc {
	type request struct {
		Session    string `json:"session"`
		SupplierID string `json:"supplierId"`
		Name       string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		if req.SupplierID == "" {
			http.Error(w, "supplier id is required", http.StatusBadRequest)
			return
		}
		name := req.Name
		if name == "" {
			supplierMap, err := database.GetSupplierMap(db)
			if err != nil {
				log.Printf("ERROR: loading supplier map: %v", err)
				http.Error(w, "failed to look up supplier", http.StatusInternalServerError)
				return
			}
			name = supplierMap[req.SupplierID]
			if name == "" {
				http.Error(w, fmt.Sprintf("supplier %s not found", req.SupplierID), http.StatusNotFound)
				return
			}
		}
		s.AddSupplier(req.SupplierID, name)
		writeState(w, s)
	}
}

// SupplierRemoveHandler drops a supplier column pair.
func SupplierRemoveHandler() http.HandlerFunc {
	type request struct {
		Session    string `json:"session"`
		SupplierID string `json:"supplierId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		s.RemoveSupplier(req.SupplierID)
		writeState(w, s)
	}
}

// SupplierDetailHandler updates a supplier's payment terms and notes.
func SupplierDetailHandler() http.HandlerFunc {
	type request struct {
		Session      string `json:"session"`
		SupplierID   string `json:"supplierId"`
		PaymentTerms string `json:"paymentTerms"`
		Notes        string `json:"notes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		if err := s.SetSupplierDetail(req.SupplierID, req.PaymentTerms, req.Notes); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// ApproveHandler selects the approved supplier; an empty id clears it.
func ApproveHandler() http.HandlerFunc {
	type request struct {
		Session    string `json:"session"`
		SupplierID string `json:"supplierId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		if err := s.SetApproved(req.SupplierID); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// CellHandler parses and stores one edited cell.
func CellHandler() http.HandlerFunc {
	type request struct {
		Session    string `json:"session"`
		ProductID  int    `json:"productId"`
		SupplierID string `json:"supplierId"`
		Field      string `json:"field"`
		Value      string `json:"value"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		if err := s.SetCell(req.ProductID, req.SupplierID, quote.Field(req.Field), req.Value); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// PasteHandler applies a clipboard block from the given anchor cell.
func PasteHandler() http.HandlerFunc {
	type request struct {
		Session         string `json:"session"`
		AnchorProductID int    `json:"anchorProductId"`
		AnchorCol       int    `json:"anchorCol"`
		Text            string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s := sessionFromRequest(w, req.Session)
		if s == nil {
			return
		}
		if err := s.PasteBlock(req.AnchorProductID, req.AnchorCol, req.Text); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}
