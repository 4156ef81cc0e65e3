// Package creator talks to the low-code record platform that stores
// PDCs, quotation lines and attachments. The platform wraps every
// response in an envelope with an application code; 3000 is success and
// 3100 means the query matched no records, which callers see as an
// empty result rather than an error.
package creator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	CodeSuccess   = 3000
	CodeNoRecords = 3100

	pageSize = 200
)

// APIError is a platform response with a code other than success.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform error %d: %s", e.Code, e.Message)
}

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type recordRef struct {
	ID json.Number `json:"ID"`
}

// Client is a record-platform API client for a single application.
type Client struct {
	baseURL string
	appName string
	token   string
	hc      *http.Client
}

func NewClient(baseURL, appName, token string) *Client {
	return &Client{
		baseURL: baseURL,
		appName: appName,
		token:   token,
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unexpected platform response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &env, nil
}

// CreateRecord inserts one record into the named form and returns the
// new record's id.
func (c *Client) CreateRecord(ctx context.Context, formName string, data any) (string, error) {
	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("/api/v2/%s/form/%s", c.appName, formName)
	env, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", err
	}
	if env.Code != CodeSuccess {
		return "", &APIError{Code: env.Code, Message: env.Message}
	}
	var ref recordRef
	if err := json.Unmarshal(env.Data, &ref); err != nil {
		return "", fmt.Errorf("record id missing from create response: %w", err)
	}
	return ref.ID.String(), nil
}

// UpdateRecord patches one record of the named report by id.
func (c *Client) UpdateRecord(ctx context.Context, reportName, recordID string, data any) error {
	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/v2/%s/report/%s/%s", c.appName, reportName, recordID)
	env, err := c.do(ctx, http.MethodPatch, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	if env.Code != CodeSuccess {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	return nil
}

// QueryPage fetches one page of a report filtered by criteria. On the
// no-records code it returns (nil, nil).
func (c *Client) QueryPage(ctx context.Context, reportName, criteria string, from int) (json.RawMessage, error) {
	q := url.Values{}
	if criteria != "" {
		q.Set("criteria", criteria)
	}
	q.Set("from", fmt.Sprint(from))
	q.Set("limit", fmt.Sprint(pageSize))

	path := fmt.Sprintf("/api/v2/%s/report/%s?%s", c.appName, reportName, q.Encode())
	env, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	switch env.Code {
	case CodeSuccess:
		return env.Data, nil
	case CodeNoRecords:
		return nil, nil
	default:
		return nil, &APIError{Code: env.Code, Message: env.Message}
	}
}

// QueryAll pages through a report until the platform reports no more
// records, appending each page's rows into out (a pointer to a slice).
func (c *Client) QueryAll(ctx context.Context, reportName, criteria string, appendPage func(json.RawMessage) (int, error)) error {
	from := 1
	for {
		page, err := c.QueryPage(ctx, reportName, criteria, from)
		if err != nil {
			return err
		}
		if page == nil {
			return nil
		}
		n, err := appendPage(page)
		if err != nil {
			return err
		}
		if n < pageSize {
			return nil
		}
		from += pageSize
	}
}

// QueryRecords fetches every matching row of a report decoded into a
// typed slice.
func QueryRecords[T any](ctx context.Context, c *Client, reportName, criteria string) ([]T, error) {
	var all []T
	err := c.QueryAll(ctx, reportName, criteria, func(page json.RawMessage) (int, error) {
		var rows []T
		if err := json.Unmarshal(page, &rows); err != nil {
			return 0, fmt.Errorf("decoding %s page: %w", reportName, err)
		}
		all = append(all, rows...)
		return len(rows), nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// UploadFile attaches a local file to a record's file field.
func (c *Client) UploadFile(ctx context.Context, reportName, recordID, fieldName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/api/v2/%s/report/%s/%s/%s/upload", c.appName, reportName, recordID, fieldName)
	env, err := c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	if env.Code != CodeSuccess {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	log.Printf("INFO: uploaded %s to %s/%s", filepath.Base(filePath), reportName, recordID)
	return nil
}
