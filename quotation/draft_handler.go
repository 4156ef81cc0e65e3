package quotation

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"pdc/database"
	"pdc/quote"
)

// DraftSaveHandler serializes a session into the local drafts table,
// keyed by its temporary number.
func DraftSaveHandler(db *sqlx.DB) http.HandlerFunc {
	type request struct {
		Session string `json:"session"`
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
		if s.TempNumber == "" {
			http.Error(w, "session has no temporary number", http.StatusConflict)
			return
		}

		state, err := json.Marshal(s.Snapshot())
		if err != nil {
			log.Printf("ERROR: serializing draft %s: %v", s.TempNumber, err)
			http.Error(w, "failed to serialize draft", http.StatusInternalServerError)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("ERROR: begin tx for draft %s: %v", s.TempNumber, err)
			http.Error(w, "failed to save draft", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if err := database.UpsertDraftInTx(tx, s.TempNumber, state); err != nil {
			log.Printf("ERROR: saving draft %s: %v", s.TempNumber, err)
			http.Error(w, "failed to save draft", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ERROR: commit draft %s: %v", s.TempNumber, err)
			http.Error(w, "failed to save draft", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: saved draft %s", s.TempNumber)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"tempNumber": s.TempNumber})
	}
}

// DraftLoadHandler restores a stored draft into a new session.
func DraftLoadHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tempNumber := r.URL.Query().Get("tempNumber")
		if tempNumber == "" {
			http.Error(w, "tempNumber is required", http.StatusBadRequest)
			return
		}

		draft, err := database.GetDraft(db, tempNumber)
		if err != nil {
			log.Printf("ERROR: loading draft %s: %v", tempNumber, err)
			http.Error(w, "failed to load draft", http.StatusInternalServerError)
			return
		}
		if draft == nil {
			http.NotFound(w, r)
			return
		}

		var snap quote.Snapshot
		if err := json.Unmarshal(draft.State, &snap); err != nil {
			log.Printf("ERROR: decoding draft %s: %v", tempNumber, err)
			http.Error(w, "stored draft is corrupted", http.StatusInternalServerError)
			return
		}

		s := newSession()
		s.Restore(snap)
		s.TempNumber = tempNumber
		log.Printf("INFO: restored draft %s into session %s", tempNumber, s.ID)
		writeState(w, s)
	}
}

// DraftListHandler lists stored drafts, newest first.
func DraftListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drafts, err := database.ListDrafts(db)
		if err != nil {
			log.Printf("ERROR: listing drafts: %v", err)
			http.Error(w, "failed to list drafts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(drafts)
	}
}

// DraftDeleteHandler removes a stored draft.
func DraftDeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tempNumber := r.URL.Query().Get("tempNumber")
		if tempNumber == "" {
			http.Error(w, "tempNumber is required", http.StatusBadRequest)
			return
		}
		if err := database.DeleteDraft(db, tempNumber); err != nil {
			log.Printf("ERROR: deleting draft %s: %v", tempNumber, err)
			http.Error(w, "failed to delete draft", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
