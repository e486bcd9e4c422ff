package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawPayment is one CSV row mapped onto normalized fields, before any
// parsing. Empty strings are nulls.
type RawPayment struct {
	Category      Category
	ProfileID     string
	NPI           string
	FirstName     string
	MiddleName    string
	LastName      string
	Credentials   [6]string
	Specialties   [6]string
	City          string
	StatePrimary  string
	LicenseStates [5]string
	ProgramYear   string
	PaymentType   string
}

func (r *RawPayment) set(field, value string) {
	value = strings.TrimSpace(value)
	switch field {
	case fieldProfileID:
		r.ProfileID = value
	case fieldNPI:
		r.NPI = value
	case fieldFirstName:
		r.FirstName = value
	case fieldMiddleName:
		r.MiddleName = value
	case fieldLastName:
		r.LastName = value
	case fieldCity:
		r.City = value
	case fieldStatePrimary:
		r.StatePrimary = value
	case fieldProgramYear:
		r.ProgramYear = value
	case fieldPaymentType:
		r.PaymentType = value
	default:
		r.setNumbered(field, value)
	}
}

func (r *RawPayment) setNumbered(field, value string) {
	for _, slot := range []struct {
		prefix string
		dst    []string
	}{
		{prefixCredential, r.Credentials[:]},
		{prefixSpecialty, r.Specialties[:]},
		{prefixStateLicense, r.LicenseStates[:]},
	} {
		rest, ok := strings.CutPrefix(field, slot.prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 1 && n <= len(slot.dst) {
			slot.dst[n-1] = value
		}
		return
	}
}

// CSVReader streams RawPayments from an Open Payments detail CSV.
type CSVReader struct {
	schema  Schema
	r       *csv.Reader
	columns map[int]string
	line    int
}

// ErrNoKnownColumns is returned when a CSV header shares no column with the
// category's schema, which usually means the wrong category was given.
var ErrNoKnownColumns = errors.New("csv header has no recognized columns")

// NewCSVReader reads the header row and resolves column positions.
func NewCSVReader(r io.Reader, cat Category) (*CSVReader, error) {
	schema, err := SchemaFor(cat)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s csv header: %w", cat, err)
	}

	columns := make(map[int]string)
	for i, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if field, ok := schema.Columns[name]; ok {
			columns[i] = field
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", cat, ErrNoKnownColumns)
	}

	return &CSVReader{schema: schema, r: cr, columns: columns, line: 1}, nil
}

// Next returns the next row, or io.EOF.
func (c *CSVReader) Next() (*RawPayment, error) {
	record, err := c.r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading %s csv line %d: %w", c.schema.Category, c.line+1, err)
	}
	c.line++

	raw := &RawPayment{Category: c.schema.Category}
	for i, field := range c.columns {
		if i < len(record) {
			raw.set(field, record[i])
		}
	}
	return raw, nil
}

// Line returns the number of lines consumed, header included.
func (c *CSVReader) Line() int {
	return c.line
}
