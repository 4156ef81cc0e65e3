package quotation

import (
	"encoding/json"
	"net/http"

	"pdc/money"
)

// InstallmentAddHandler appends a payment to the plan.
func InstallmentAddHandler() http.HandlerFunc {
	type request struct {
		Session string `json:"session"`
		DueDate string `json:"dueDate"`
		Amount  string `json:"amount"`
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
		s.AddInstallment(req.DueDate, money.Parse(req.Amount), "")
		writeState(w, s)
	}
}

// InstallmentRemoveHandler deletes a payment and renumbers the rest.
func InstallmentRemoveHandler() http.HandlerFunc {
	type request struct {
		Session string `json:"session"`
		Number  int    `json:"number"`
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
		if err := s.RemoveInstallment(req.Number); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// InstallmentSetHandler updates a payment's due date and amount.
func InstallmentSetHandler() http.HandlerFunc {
	type request struct {
		Session string `json:"session"`
		Number  int    `json:"number"`
		DueDate string `json:"dueDate"`
		Amount  string `json:"amount"`
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
		if err := s.SetInstallment(req.Number, req.DueDate, req.Amount); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// ClassificationAddHandler appends an accounting allocation line.
func ClassificationAddHandler() http.HandlerFunc {
	type request struct {
		Session          string `json:"session"`
		Account          string `json:"account"`
		CostCenter       string `json:"costCenter"`
		OperationalClass string `json:"operationalClass"`
		Amount           string `json:"amount"`
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
		s.AddClassification(req.Account, req.CostCenter, req.OperationalClass, money.Parse(req.Amount))
		writeState(w, s)
	}
}

// ClassificationRemoveHandler deletes an allocation line by index.
func ClassificationRemoveHandler() http.HandlerFunc {
	type request struct {
		Session string `json:"session"`
		Index   int    `json:"index"`
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
		if err := s.RemoveClassification(req.Index); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}

// ClassificationSetHandler updates an allocation line in place.
func ClassificationSetHandler() http.HandlerFunc {
	type request struct {
		Session          string `json:"session"`
		Index            int    `json:"index"`
		Account          string `json:"account"`
		CostCenter       string `json:"costCenter"`
		OperationalClass string `json:"operationalClass"`
		Amount           string `json:"amount"`
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
		if err := s.SetClassification(req.Index, req.Account, req.CostCenter, req.OperationalClass, req.Amount); err != nil {
			opError(w, err)
			return
		}
		writeState(w, s)
	}
}
