package main

import (
	"errors"

	"github.com/Nomadcxx/invoicecsv/internal/app"
	"github.com/Nomadcxx/invoicecsv/internal/invoice"
	"github.com/Nomadcxx/invoicecsv/internal/scanner"
	"github.com/Nomadcxx/invoicecsv/internal/ui"
)

const maxColumnWidth = 40

// printRecords renders the rows that would go into the CSV.
func printRecords(result *scanner.ScanResult) {
	if result == nil || len(result.Records) == 0 {
		return
	}
	table := ui.NewTable("Date", "Vendor", "Subject", "Amount", "Invoice Code")
	table.SetMaxWidth(maxColumnWidth)
	for _, rec := range result.Records {
		table.AddRow(rec.Fields()...)
	}
	table.Render()
}

func printSummary(report *app.Report) {
	ui.Section("Summary")
	ui.Plain("  Records:  %s", ui.FormatCount(report.Scan.Valid()))
	ui.Plain("  Skipped:  %s", ui.FormatCount(len(report.Scan.Skipped)))
	ui.Plain("  Written:  %s", ui.FormatBytes(report.Bytes))
	ui.Plain("  Elapsed:  %s", ui.FormatDuration(report.Scan.Duration))
}

// printCheck lists every candidate with its parse outcome.
func printCheck(result *scanner.ScanResult) {
	failed := make(map[string]error, len(result.Skipped))
	for _, sk := range result.Skipped {
		failed[sk.Path] = sk.Err
	}

	table := ui.NewTable("File", "Status", "Detail")
	table.SetMaxWidth(maxColumnWidth * 2)
	for _, c := range result.Candidates {
		if rec, ok := result.Parsed[c.Path]; ok {
			table.AddRow(c.Name, "OK", rec.DateString()+" "+rec.AmountString())
			continue
		}
		table.AddRow(c.Name, "INVALID", parseReason(failed[c.Path]))
	}
	table.Render()
}

func parseReason(err error) string {
	if err == nil {
		return ""
	}
	var perr *invoice.ParseError
	if errors.As(err, &perr) {
		return perr.Reason
	}
	return err.Error()
}
