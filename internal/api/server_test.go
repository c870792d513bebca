package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, names ...string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	return NewServer(dir, nil, nil), dir
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListInvoices(t *testing.T) {
	s, _ := newTestServer(t,
		"20230301-Shell-Fuel-4250.jpg",
		"20230115-Acme-Supplies-9500 INV123.pdf",
		"not-a-valid-name.pdf",
	)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp InvoiceList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, InvoiceDTO{
		Date:        "15/01/2023",
		Vendor:      "Acme",
		Subject:     "Supplies",
		Amount:      "95.0",
		InvoiceCode: "INV123",
		File:        "20230115-Acme-Supplies-9500 INV123.pdf",
	}, resp.Records[0])
	assert.Equal(t, "01/03/2023", resp.Records[1].Date)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "not-a-valid-name.pdf", resp.Skipped[0].File)
	assert.Contains(t, resp.Skipped[0].Reason, "invalid date")
}

func TestListInvoices_OnlyInvalidFiles(t *testing.T) {
	s, _ := newTestServer(t, "scan.pdf")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp InvoiceList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Records)
	assert.Len(t, resp.Skipped, 1)
}

func TestExportCSV(t *testing.T) {
	s, dir := newTestServer(t, "20230115-Acme-Supplies-9500 INV123.pdf")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices.csv", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), filepath.Base(dir)+".csv")
	assert.Equal(t, "Date,Vendor,Subject,Amount,Invoice Code\r\n15/01/2023,Acme,Supplies,95.0,INV123\r\n", w.Body.String())
}

func TestExportCSV_NoSupportedFiles(t *testing.T) {
	s, _ := newTestServer(t, "readme.txt")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices.csv", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"no_records"`)
}

func TestListInvoices_MissingDir(t *testing.T) {
	s := NewServer(filepath.Join(t.TempDir(), "gone"), nil, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"input_not_found"`)
}

func TestCORSPreflight(t *testing.T) {
	dir := t.TempDir()
	s := NewServer(dir, nil, []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoices", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(t.TempDir(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunBadAddress(t *testing.T) {
	s := NewServer(t.TempDir(), nil, nil)
	assert.Error(t, s.Run(context.Background(), "not-an-address"))
}
