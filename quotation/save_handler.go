package quotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pdc/creator"
	"pdc/database"
	"pdc/model"
	"pdc/quote"
	"pdc/save"
)

const lineReport = "Todas_Cotacoes"

// SaveHandler persists a session to the record platform. On success the
// local draft is dropped; the platform copy supersedes it.
func SaveHandler(db *sqlx.DB, saver *save.Saver) http.HandlerFunc {
	type request struct {
		Session            string `json:"session"`
		Status             string `json:"status"`
		SplitByInstallment bool   `json:"splitByInstallment"`
		AdvancePayment     bool   `json:"advancePayment"`
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

		err := saver.Save(r.Context(), s, save.Options{
			Status:             req.Status,
			SplitByInstallment: req.SplitByInstallment,
			AdvancePayment:     req.AdvancePayment,
		})
		switch {
		case errors.Is(err, save.ErrSaveInFlight):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case errors.Is(err, save.ErrNoApprovedSupplier):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			log.Printf("ERROR: saving quotation %s: %v", s.TempNumber, err)
			http.Error(w, fmt.Sprintf("save failed: %v", err), http.StatusBadGateway)
			return
		}

		if s.TempNumber != "" {
			if err := database.DeleteDraft(db, s.TempNumber); err != nil {
				log.Printf("WARN: could not drop draft %s after save: %v", s.TempNumber, err)
			}
		}
		writeState(w, s)
	}
}

// LoadQuotationHandler pulls the active line records of a saved
// quotation from the platform and opens them as a new session, the way
// a buyer reopens last month's order to reuse its product list.
func LoadQuotationHandler(api *creator.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := r.URL.Query().Get("pdcNumber")
		if number == "" {
			http.Error(w, "pdcNumber is required", http.StatusBadRequest)
			return
		}

		criteria := fmt.Sprintf(`pdcNumber=="%s"`, number)
		lines, err := creator.QueryRecords[model.QuotationLine](r.Context(), api, lineReport, criteria)
		if err != nil {
			log.Printf("ERROR: querying quotation %s: %v", number, err)
			http.Error(w, "failed to query quotation records", http.StatusBadGateway)
			return
		}
		if len(lines) == 0 {
			http.Error(w, fmt.Sprintf("no records found for PDC %s", number), http.StatusNotFound)
			return
		}

		s := quote.FromLines(uuid.NewString(), lines)
		registerSession(s)
		log.Printf("INFO: loaded quotation %s (%d lines) into session %s", number, len(lines), s.ID)
		writeState(w, s)
	}
}
