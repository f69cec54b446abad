package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNoSessions is returned for a file without data rows.
var ErrNoSessions = errors.New("dataset has no sessions")

// Session is one row of the online shoppers intention dataset.
type Session struct {
	Administrative         float64
	AdministrativeDuration float64
	Informational          float64
	InformationalDuration  float64
	ProductRelated         float64
	ProductRelatedDuration float64
	BounceRates            float64
	ExitRates              float64
	PageValues             float64
	SpecialDay             float64
	Month                  string
	OperatingSystems       int
	Browser                int
	Region                 int
	TrafficType            int
	VisitorType            string
	Weekend                bool
	Revenue                bool
}

// MissingColumnError reports a required header that was not found.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// ParseError reports a cell that could not be parsed.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// required lists the columns preparation and aggregation read.
var required = []string{
	"Administrative", "Administrative_Duration",
	"Informational", "Informational_Duration",
	"ProductRelated", "ProductRelated_Duration",
	"SpecialDay", "Month", "Weekend",
}

// LoadFile reads sessions from a CSV file.
func LoadFile(path string) ([]Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCSV(f)
}

// LoadCSV reads sessions from CSV with a header row. Columns are matched by
// name; optional columns that are absent keep their zero value.
func LoadCSV(r io.Reader) ([]Session, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSessions
		}
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, &MissingColumnError{Column: name}
		}
	}

	var sessions []Session
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		p := rowParser{rec: rec, idx: idx, line: line}
		s := Session{
			Administrative:         p.number("Administrative"),
			AdministrativeDuration: p.number("Administrative_Duration"),
			Informational:          p.number("Informational"),
			InformationalDuration:  p.number("Informational_Duration"),
			ProductRelated:         p.number("ProductRelated"),
			ProductRelatedDuration: p.number("ProductRelated_Duration"),
			BounceRates:            p.number("BounceRates"),
			ExitRates:              p.number("ExitRates"),
			PageValues:             p.number("PageValues"),
			SpecialDay:             p.number("SpecialDay"),
			Month:                  p.text("Month"),
			OperatingSystems:       p.integer("OperatingSystems"),
			Browser:                p.integer("Browser"),
			Region:                 p.integer("Region"),
			TrafficType:            p.integer("TrafficType"),
			VisitorType:            p.text("VisitorType"),
			Weekend:                p.flag("Weekend"),
			Revenue:                p.flag("Revenue"),
		}
		if p.err != nil {
			return nil, p.err
		}
		sessions = append(sessions, s)
	}

	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	return sessions, nil
}

// rowParser keeps the first parse error of a record.
type rowParser struct {
	rec  []string
	idx  map[string]int
	line int
	err  error
}

func (p *rowParser) cell(name string) (string, bool) {
	i, ok := p.idx[name]
	if !ok || i >= len(p.rec) || p.err != nil {
		return "", false
	}
	return strings.TrimSpace(p.rec[i]), true
}

func (p *rowParser) fail(name string, err error) {
	p.err = &ParseError{Line: p.line, Column: name, Err: err}
}

func (p *rowParser) number(name string) float64 {
	s, ok := p.cell(name)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(name, err)
	}
	return v
}

func (p *rowParser) integer(name string) int {
	s, ok := p.cell(name)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(name, err)
	}
	return v
}

func (p *rowParser) text(name string) string {
	s, _ := p.cell(name)
	return s
}

// flag accepts the TRUE/FALSE spelling of the published file as well as
// anything strconv.ParseBool does.
func (p *rowParser) flag(name string) bool {
	s, ok := p.cell(name)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(name, err)
	}
	return v
}
