// Package invoice parses structured invoice filenames into records.
//
// A filename encodes one invoice as
//
//	YYYYMMDD-<vendor>-<subject>-<amountInCents>[ <invoiceCode>].<ext>
//
// and parses into a Record whose fields are immutable once built.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the layout of the date field inside a filename.
	DateLayout = "20060102"
	// DisplayDateLayout is how dates are rendered in exports (DD/MM/YYYY).
	DisplayDateLayout = "02/01/2006"
)

// Record is one parsed invoice. The calendar date is the sort key and is
// only exposed rendered through DateString when exported.
type Record struct {
	date        time.Time
	vendor      string
	subject     string
	amountCents int64
	invoiceCode string
	source      string
}

// New builds a record from already validated parts. The date is truncated
// to its calendar day in UTC.
func New(date time.Time, vendor, subject string, amountCents int64, invoiceCode string) Record {
	y, m, d := date.Date()
	return Record{
		date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		vendor:      vendor,
		subject:     subject,
		amountCents: amountCents,
		invoiceCode: invoiceCode,
	}
}

// Date returns the calendar date used for ordering.
func (r Record) Date() time.Time { return r.date }

// DateString renders the date as DD/MM/YYYY.
func (r Record) DateString() string { return r.date.Format(DisplayDateLayout) }

func (r Record) Vendor() string { return r.vendor }

func (r Record) Subject() string { return r.subject }

// AmountCents returns the raw amount in cents as encoded in the filename.
func (r Record) AmountCents() int64 { return r.amountCents }

// Amount returns the amount in currency units (cents / 100), exact.
func (r Record) Amount() decimal.Decimal { return decimal.New(r.amountCents, -2) }

// AmountString renders the amount, e.g. 950 cents -> "9.5".
func (r Record) AmountString() string { return FormatAmount(r.amountCents) }

// InvoiceCode returns the optional trailing code, empty when absent.
func (r Record) InvoiceCode() string { return r.invoiceCode }

// Source returns the filename the record was parsed from, if any.
func (r Record) Source() string { return r.source }

// Fields returns the exported columns in header order:
// Date, Vendor, Subject, Amount, Invoice Code.
func (r Record) Fields() []string {
	return []string{
		r.DateString(),
		r.vendor,
		r.subject,
		r.AmountString(),
		r.invoiceCode,
	}
}
