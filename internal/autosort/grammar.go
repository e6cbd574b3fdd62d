package autosort

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SenderTagPrefix prefixes the sender tag attached to every document.
const SenderTagPrefix = "afzender:"

var (
	// ErrInvalidDate is returned for a dated prefix that is not a calendar date.
	ErrInvalidDate = errors.New("invalid document date")
	// ErrInvalidPage is returned for a page segment that is not an integer.
	ErrInvalidPage = errors.New("invalid page number")
)

var datedDirPattern = regexp.MustCompile(`^([0-9]{4})/([0-9]{2})/([0-9]{2})/`)

// DatedPath is a relative path of the form YYYY/MM/DD/<segments...>.
type DatedPath struct {
	Path     string
	Date     time.Time
	Segments []string
}

// ParsePath matches rel against the dated directory grammar. It returns nil
// and no error when rel does not start with a YYYY/MM/DD/ prefix.
func ParsePath(rel string) (*DatedPath, error) {
	m := datedDirPattern.FindStringSubmatch(rel)
	if m == nil {
		return nil, nil
	}

	date, err := parseDate(m[1], m[2], m[3])
	if err != nil {
		return nil, fmt.Errorf("%w in %q: %w", ErrInvalidDate, rel, err)
	}

	return &DatedPath{
		Path:     rel,
		Date:     date,
		Segments: strings.Split(rel[len(m[0]):], "/"),
	}, nil
}

func parseDate(y, m, d string) (time.Time, error) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)

	if year < 1 {
		return time.Time{}, fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || date.Day() != day {
		return time.Time{}, fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	}

	return date, nil
}

// DocName is the first segment after the date, cut at its first dot.
func (p *DatedPath) DocName() string {
	return beforeFirst(p.Segments[0], ".")
}

// Key is the deterministic document identity YYYY-MM-DD/<docname>.
func (p *DatedPath) Key() string {
	return p.Date.Format(time.DateOnly) + "/" + p.DocName()
}

// Sender is the document name cut at its first underscore.
func (p *DatedPath) Sender() string {
	return beforeFirst(p.DocName(), "_")
}

// Tag is the sender tag, afzender:<sender>.
func (p *DatedPath) Tag() string {
	return SenderTagPrefix + p.Sender()
}

// Page is 0 for a file directly inside the dated directory, otherwise the
// integer before the first dot of the second segment.
func (p *DatedPath) Page() (int, error) {
	if len(p.Segments) == 1 {
		return 0, nil
	}

	raw := beforeFirst(p.Segments[1], ".")
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w %q in %q", ErrInvalidPage, raw, p.Path)
	}

	return page, nil
}

func beforeFirst(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}
