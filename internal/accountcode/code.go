// Package accountcode decomposes raw account codes into their four segments.
//
// Codes look like "5000-1000-001-101": s1 is the top-level account, s2 the
// family within it, s3 the sub-account and s4 the detail line. A segment made
// only of zeros means the code stops at the previous level.
package accountcode

import (
	"strconv"
	"strings"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// Code is a parsed account code. Raw keeps the input text so that malformed
// codes can still be reported under their original name.
type Code struct {
	Raw      string
	Segments [4]string
	Valid    bool
}

var defaultSegments = [4]string{models.ZeroSegment2, models.ZeroSegment2, models.ZeroSegment34, models.ZeroSegment34}

// Parser turns raw codes into Codes. It never fails: unparseable input yields
// the degraded default and a warning.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a Parser. A nil logger falls back to the default logger.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{logger: logging.OrDefault(logger)}
}

// Parse parses raw, logging a warning when it has to degrade.
func (p *Parser) Parse(raw string) Code {
	code, ok := Parse(raw)
	if !ok {
		p.logger.Warn("Account code does not have four segments, using default shape",
			logging.Code(raw),
			logging.F("default", models.DefaultCode))
	}
	return code
}

// Parse splits raw on hyphens. It reports false and returns the degraded
// default (with Raw preserved) when raw is empty or does not have exactly four
// non-empty segments.
func Parse(raw string) (Code, bool) {
	trimmed := strings.TrimSpace(raw)
	code := Code{Raw: trimmed, Segments: defaultSegments}
	if trimmed == "" {
		return code, false
	}

	parts := strings.Split(trimmed, "-")
	if len(parts) != 4 {
		return code, false
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return code, false
		}
		code.Segments[i] = part
	}
	code.Valid = true
	return code, true
}

// MustParse parses a code known to be well formed. It panics otherwise and is
// meant for constants and tests.
func MustParse(raw string) Code {
	code, ok := Parse(raw)
	if !ok {
		panic("accountcode: malformed code " + raw)
	}
	return code
}

// FromSegments builds a valid code from four segments.
func FromSegments(s1, s2, s3, s4 string) Code {
	c := Code{Segments: [4]string{s1, s2, s3, s4}, Valid: true}
	c.Raw = c.Canonical()
	return c
}

// S1..S4 return the individual segments.
func (c Code) S1() string { return c.Segments[0] }
func (c Code) S2() string { return c.Segments[1] }
func (c Code) S3() string { return c.Segments[2] }
func (c Code) S4() string { return c.Segments[3] }

// Canonical joins the segments with hyphens.
func (c Code) Canonical() string {
	return strings.Join(c.Segments[:], "-")
}

// String returns the key used to identify the account: the canonical form for
// valid codes, the raw input for malformed ones.
func (c Code) String() string {
	if !c.Valid {
		return c.Raw
	}
	return c.Canonical()
}

// Family returns the two-segment family key "s1-s2".
func (c Code) Family() string {
	return c.S1() + "-" + c.S2()
}

// IsZero reports whether a segment is the all-zero padding sentinel.
func IsZero(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r != '0' {
			return false
		}
	}
	return true
}

// SegmentInt parses a segment as a non-negative integer.
func SegmentInt(segment string) (int, bool) {
	n, err := strconv.Atoi(segment)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// HasZeroTail reports whether s3 and s4 are both zero.
func (c Code) HasZeroTail() bool {
	return IsZero(c.S3()) && IsZero(c.S4())
}

// IsTopLevel reports whether s2, s3 and s4 are all zero.
func (c Code) IsTopLevel() bool {
	return IsZero(c.S2()) && c.HasZeroTail()
}

// SubAccount returns (s1,s2,s3,000), the expected level-3 parent of a detail code.
func (c Code) SubAccount() Code {
	return FromSegments(c.S1(), c.S2(), c.S3(), models.ZeroSegment34)
}

// FamilyRoot returns (s1,s2,000,000).
func (c Code) FamilyRoot() Code {
	return FromSegments(c.S1(), c.S2(), models.ZeroSegment34, models.ZeroSegment34)
}

// TopRoot returns (s1,0000,000,000).
func (c Code) TopRoot() Code {
	return FromSegments(c.S1(), models.ZeroSegment2, models.ZeroSegment34, models.ZeroSegment34)
}

// WithS2Root returns (s1,s2,000,000) with s2 replaced.
func (c Code) WithS2Root(s2 string) Code {
	return FromSegments(c.S1(), s2, models.ZeroSegment34, models.ZeroSegment34)
}
