package creator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/v2/compras/form/PDC" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Zoho-oauthtoken tok123" {
			t.Errorf("auth header = %q", got)
		}
		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		fmt.Fprint(w, `{"code":3000,"data":{"ID":4003928000012345678}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "compras", "tok123")
	id, err := c.CreateRecord(context.Background(), "PDC", map[string]any{"tempNumber": "TMP-1"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "4003928000012345678" {
		t.Errorf("id = %q", id)
	}
}

func TestCreateRecordErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":3001,"message":"mandatory field missing"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "compras", "tok")
	_, err := c.CreateRecord(context.Background(), "PDC", map[string]any{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != 3001 || apiErr.Message != "mandatory field missing" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestQueryPageNoRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":3100,"message":"No records found"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "compras", "tok")
	page, err := c.QueryPage(context.Background(), "Todas_Cotacoes", `Numero_PDC=="77"`, 1)
	if err != nil {
		t.Fatalf("no-records must not be an error, got %v", err)
	}
	if page != nil {
		t.Errorf("page = %s, want nil", page)
	}
}

func TestQueryRecordsPaginates(t *testing.T) {
	type row struct {
		ID string `json:"ID"`
	}
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		from := r.URL.Query().Get("from")
		if got := r.URL.Query().Get("limit"); got != "200" {
			t.Errorf("limit = %q", got)
		}
		switch from {
		case "1":
			rows := make([]row, 200)
			for i := range rows {
				rows[i].ID = fmt.Sprint(i + 1)
			}
			raw, _ := json.Marshal(rows)
			fmt.Fprintf(w, `{"code":3000,"data":%s}`, raw)
		case "201":
			fmt.Fprint(w, `{"code":3000,"data":[{"ID":"201"}]}`)
		default:
			t.Errorf("unexpected from = %q", from)
			fmt.Fprint(w, `{"code":3100}`)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "compras", "tok")
	rows, err := QueryRecords[row](context.Background(), c, "Todas_Cotacoes", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 201 {
		t.Errorf("rows = %d, want 201", len(rows))
	}
	if calls != 2 {
		t.Errorf("requests = %d, want 2 (short page stops pagination)", calls)
	}
}

func TestQueryRecordsStopsOnNoRecordsPage(t *testing.T) {
	type row struct {
		ID string `json:"ID"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("from") == "1" {
			rows := make([]row, 200)
			raw, _ := json.Marshal(rows)
			fmt.Fprintf(w, `{"code":3000,"data":%s}`, raw)
			return
		}
		fmt.Fprint(w, `{"code":3100,"message":"No records found"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "compras", "tok")
	rows, err := QueryRecords[row](context.Background(), c, "Todas_Cotacoes", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 200 {
		t.Errorf("rows = %d, want 200", len(rows))
	}
}

func TestUpdateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/v2/compras/report/Todas_Cotacoes/42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"code":3000,"data":{"ID":42}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "compras", "tok")
	if err := c.UpdateRecord(context.Background(), "Todas_Cotacoes", "42", map[string]any{"active": false}); err != nil {
		t.Fatal(err)
	}
}
