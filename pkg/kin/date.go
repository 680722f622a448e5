package kin

import (
	"fmt"
	"regexp"
	"strings"
)

// PartialDate is a calendar date with optional precision: a bare year
// ("1042"), a year and month ("1042-03"), or a full date ("1042-03-17").
// The zero value means unknown.
//
// Because all three forms share a zero-padded "YYYY[-MM[-DD]]" layout,
// chronological comparison reduces to lexicographic string comparison, which
// is exactly how historical records with mixed precision are ordered here.
type PartialDate struct {
	raw string
}

var partialDatePattern = regexp.MustCompile(`^\d{1,4}(-\d{2}(-\d{2})?)?$`)

// ParseDate parses a partial date string. Empty input yields the unknown
// date. Years shorter than four digits are zero-padded so that comparisons
// stay lexicographic ("987" sorts before "1042").
func ParseDate(s string) (PartialDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PartialDate{}, nil
	}
	if !partialDatePattern.MatchString(s) {
		return PartialDate{}, fmt.Errorf("invalid date %q: want YYYY, YYYY-MM, or YYYY-MM-DD", s)
	}
	year, rest, _ := strings.Cut(s, "-")
	for len(year) < 4 {
		year = "0" + year
	}
	if rest != "" {
		year += "-" + rest
	}
	return PartialDate{raw: year}, nil
}

// MustDate parses a partial date and panics on malformed input.
// Intended for tests and static fixtures.
func MustDate(s string) PartialDate {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the date is unknown.
func (d PartialDate) IsZero() bool { return d.raw == "" }

// String returns the normalized date string, or "" when unknown.
func (d PartialDate) String() string { return d.raw }

// Year returns the four-digit year prefix, or "" when unknown.
func (d PartialDate) Year() string {
	if len(d.raw) < 4 {
		return d.raw
	}
	return d.raw[:4]
}

// Compare orders two partial dates. Unknown dates sort after known ones,
// so that "no birth date sorts last" holds wherever dates pick an ordering.
// Known dates compare lexicographically, which matches chronology for the
// normalized layout.
func (d PartialDate) Compare(other PartialDate) int {
	switch {
	case d.raw == other.raw:
		return 0
	case d.raw == "":
		return 1
	case other.raw == "":
		return -1
	case d.raw < other.raw:
		return -1
	default:
		return 1
	}
}

// Before reports whether d is strictly earlier than other.
// An unknown date is never before a known one.
func (d PartialDate) Before(other PartialDate) bool { return d.Compare(other) < 0 }

// MarshalText implements encoding.TextMarshaler.
func (d PartialDate) MarshalText() ([]byte, error) { return []byte(d.raw), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *PartialDate) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
