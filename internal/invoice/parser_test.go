package invoice

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantDate    string
		wantVendor  string
		wantSubject string
		wantCents   int64
		wantAmount  string
		wantCode    string
	}{
		{
			name:        "with invoice code",
			filename:    "20230115-Acme-Supplies-9500 INV123.pdf",
			wantDate:    "15/01/2023",
			wantVendor:  "Acme",
			wantSubject: "Supplies",
			wantCents:   9500,
			wantAmount:  "95.0",
			wantCode:    "INV123",
		},
		{
			name:        "without invoice code",
			filename:    "20230301-Shell-Fuel-4250.jpg",
			wantDate:    "01/03/2023",
			wantVendor:  "Shell",
			wantSubject: "Fuel",
			wantCents:   4250,
			wantAmount:  "42.5",
		},
		{
			name:        "fractional cents",
			filename:    "20221231-Bakery-Bread-950.jpeg",
			wantDate:    "31/12/2022",
			wantVendor:  "Bakery",
			wantSubject: "Bread",
			wantCents:   950,
			wantAmount:  "9.5",
		},
		{
			name:        "two decimal places",
			filename:    "20240229-Telco-Phone-12345 A-77.pdf",
			wantDate:    "29/02/2024",
			wantVendor:  "Telco",
			wantSubject: "Phone",
			wantCents:   12345,
			wantAmount:  "123.45",
			wantCode:    "A-77",
		},
		{
			name:        "multiple spaces keep last segment as code",
			filename:    "20230115-Acme Corp-Office Supplies-100 INV9.pdf",
			wantDate:    "15/01/2023",
			wantVendor:  "Acme Corp",
			wantSubject: "Office Supplies",
			wantCents:   100,
			wantAmount:  "1.0",
			wantCode:    "INV9",
		},
		{
			name:        "explicit plus sign",
			filename:    "20230115-Acme-Deposit-+950.pdf",
			wantDate:    "15/01/2023",
			wantVendor:  "Acme",
			wantSubject: "Deposit",
			wantCents:   950,
			wantAmount:  "9.5",
		},
		{
			name:        "full path is reduced to base name",
			filename:    "/invoices/2023/20230115-Acme-Supplies-1.pdf",
			wantDate:    "15/01/2023",
			wantVendor:  "Acme",
			wantSubject: "Supplies",
			wantCents:   1,
			wantAmount:  "0.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseFilename(tt.filename)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDate, rec.DateString())
			assert.Equal(t, tt.wantVendor, rec.Vendor())
			assert.Equal(t, tt.wantSubject, rec.Subject())
			assert.Equal(t, tt.wantCents, rec.AmountCents())
			assert.Equal(t, tt.wantAmount, rec.AmountString())
			assert.Equal(t, tt.wantCode, rec.InvoiceCode())
		})
	}
}

// A minus sign is indistinguishable from the field separator, so a
// negative amount produces an extra empty field and fails.
func TestParseFilename_NegativeAmountIsAmbiguous(t *testing.T) {
	_, err := ParseFilename("20230115-Acme-Refund--950.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFilename))
}

func TestParseFilename_Failures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		reason   string
	}{
		{"three fields", "20230115-Acme-9500.pdf", "expected 4 hyphen-separated fields, got 3"},
		{"five fields", "20230115-Acme-Co-Supplies-9500.pdf", "expected 4 hyphen-separated fields, got 5"},
		{"not a valid name", "not-a-valid-name.pdf", `invalid date "not"`},
		{"short date", "2023115-Acme-Supplies-9500.pdf", `invalid date "2023115"`},
		{"impossible date", "20230230-Acme-Supplies-9500.pdf", `invalid date "20230230"`},
		{"month out of range", "20231301-Acme-Supplies-9500.pdf", `invalid date "20231301"`},
		{"year zero", "00000101-Acme-Supplies-100.pdf", `invalid date "00000101"`},
		{"non numeric amount", "20230115-Acme-Supplies-95.00.pdf", `invalid amount "95.00"`},
		{"empty amount", "20230115-Acme-Supplies-.pdf", `invalid amount ""`},
		{"amount beyond int64", "20230115-Acme-Supplies-9223372036854775808.pdf", `invalid amount "9223372036854775808"`},
		{"code glued without space", "20230115-Acme-Supplies-9500INV.pdf", `invalid amount "9500INV"`},
		{"hyphen inside vendor", "20230115-Acme-Co-Supplies-9500 X.pdf", "expected 4 hyphen-separated fields, got 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilename(tt.filename)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedFilename)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Contains(t, perr.Reason, tt.reason)
			assert.Contains(t, err.Error(), tt.filename)
		})
	}
}

func TestParseFilename_SortKeyIsCalendarDate(t *testing.T) {
	rec, err := ParseFilename("20230115-Acme-Supplies-9500 INV123.pdf")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC), rec.Date())
	assert.Equal(t, "20230115-Acme-Supplies-9500 INV123.pdf", rec.Source())
	assert.Equal(t, []string{"15/01/2023", "Acme", "Supplies", "95.0", "INV123"}, rec.Fields())
}

func TestSplitInvoiceCode(t *testing.T) {
	tests := []struct {
		stem     string
		wantMain string
		wantCode string
	}{
		{"a-b-c-1", "a-b-c-1", ""},
		{"a-b-c-1 X", "a-b-c-1", "X"},
		{"a b-c-d-1 X", "a b-c-d-1", "X"},
		{"a-b-c-1 ", "a-b-c-1", ""},
		{"a-b-c-1  X", "a-b-c-1 ", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			mainPart, code := splitInvoiceCode(tt.stem)
			assert.Equal(t, tt.wantMain, mainPart)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		name     string
		wantStem string
		wantExt  string
	}{
		{"20230115-A-B-1.pdf", "20230115-A-B-1", ".pdf"},
		{"scan.JPEG", "scan", ".JPEG"},
		{"archive.tar.pdf", "archive.tar", ".pdf"},
		{"noext", "noext", ""},
		{".pdf", ".pdf", ""},
		{".hidden.pdf", ".hidden", ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := SplitExt(tt.name)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.0"},
		{1, "0.01"},
		{10, "0.1"},
		{950, "9.5"},
		{9500, "95.0"},
		{12345, "123.45"},
		{-950, "-9.5"},
		{100000000, "1000000.0"},
	}

	for _, tt := range tests {
		t.Run(strconv.FormatInt(tt.cents, 10), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.cents))
		})
	}
}

func TestFormatAmount_RoundTrip(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	for _, cents := range []int64{0, 1, 7, 99, 950, 9500, 12345, 31415926, -42} {
		parsed, err := decimal.NewFromString(FormatAmount(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, parsed.Mul(hundred).Round(0).IntPart(), "cents=%d", cents)
	}
}
