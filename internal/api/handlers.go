package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Nomadcxx/invoicecsv/internal/export"
	"github.com/Nomadcxx/invoicecsv/internal/invoice"
	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/Nomadcxx/invoicecsv/internal/scanner"
)

// InvoiceDTO is the JSON shape of one record.
type InvoiceDTO struct {
	Date        string `json:"date"`
	Vendor      string `json:"vendor"`
	Subject     string `json:"subject"`
	Amount      string `json:"amount"`
	InvoiceCode string `json:"invoice_code"`
	File        string `json:"file"`
}

// SkippedDTO names a file that could not be parsed.
type SkippedDTO struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type InvoiceList struct {
	Records []InvoiceDTO `json:"records"`
	Skipped []SkippedDTO `json:"skipped"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleListInvoices returns parsed records (date order) and skipped files.
func (s *Server) HandleListInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := s.exporter.Scan(s.dir)
	if err != nil && !errors.Is(err, scanner.ErrNoValidRecords) {
		s.writeScanError(w, err)
		return
	}

	resp := InvoiceList{
		Records: make([]InvoiceDTO, 0, len(result.Records)),
		Skipped: make([]SkippedDTO, 0, len(result.Skipped)),
	}
	for _, rec := range result.Records {
		resp.Records = append(resp.Records, toDTO(rec))
	}
	for _, sk := range result.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedDTO{File: sk.Name, Reason: sk.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleExportCSV returns the same CSV the export command writes.
func (s *Server) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	result, err := s.exporter.Scan(s.dir)
	if err != nil {
		s.writeScanError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, result.Records); err != nil {
		s.log.Error(component, "csv encoding failed", err)
		writeError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(s.dir)+".csv"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scanner.ErrInputNotFound):
		writeError(w, http.StatusNotFound, "input_not_found", err.Error())
	case errors.Is(err, scanner.ErrEmptyResult):
		writeError(w, http.StatusNotFound, "no_records", err.Error())
	default:
		s.log.Error(component, "scan failed", err, logging.F("dir", s.dir))
		writeError(w, http.StatusInternalServerError, "scan_failed", err.Error())
	}
}

func toDTO(rec invoice.Record) InvoiceDTO {
	return InvoiceDTO{
		Date:        rec.DateString(),
		Vendor:      rec.Vendor(),
		Subject:     rec.Subject(),
		Amount:      rec.AmountString(),
		InvoiceCode: rec.InvoiceCode(),
		File:        rec.Source(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
