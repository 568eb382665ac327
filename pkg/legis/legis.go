// Package legis defines the identifier domain of the Washington State
// Legislature: bienniums, chambers, and bill numbers.
//
// Every function is total. Malformed input yields a false or not-ok
// result, never a panic, so callers can validate untrusted tool arguments
// without guarding. Upstream services are strict about these identifiers
// (case-sensitive chamber names, no bill-number prefixes), which is why
// validation lives here rather than at each call site.
package legis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Chamber identifies one of the two legislative chambers.
type Chamber string

const (
	House  Chamber = "House"
	Senate Chamber = "Senate"
)

// Valid reports whether c is exactly "House" or "Senate". The comparison is
// case-sensitive because the document host rejects any other spelling.
func (c Chamber) Valid() bool {
	return c == House || c == Senate
}

// Other returns the opposite chamber. Only meaningful for valid chambers.
func (c Chamber) Other() Chamber {
	if c == House {
		return Senate
	}
	return House
}

var (
	bienniumPattern   = regexp.MustCompile(`^\d{4}-\d{2}$`)
	billNumberPattern = regexp.MustCompile(`^\d{3,5}$`)
	billDigitsPattern = regexp.MustCompile(`\d{3,}`)
)

// ValidBiennium reports whether s names a real legislative biennium in the
// "YYYY-YY" form, e.g. "2025-26". The first year must be odd and not in the
// future, and the second must be the year immediately after it.
func ValidBiennium(s string) bool {
	if !bienniumPattern.MatchString(s) {
		return false
	}
	first, err := strconv.Atoi(s[:4])
	if err != nil {
		return false
	}
	second, err := strconv.Atoi("20" + s[5:])
	if err != nil {
		return false
	}
	if first%2 == 0 || second != first+1 {
		return false
	}
	return first <= time.Now().Year()
}

// ValidBillNumber reports whether s is a bare bill number: three to five
// digits with no chamber prefix.
func ValidBillNumber(s string) bool {
	return billNumberPattern.MatchString(s)
}

// ChamberFromBillID infers the originating chamber from a bill identifier
// such as "HB 1234" or "ESSB 5678". The uppercase prefix before the number
// encodes the chamber: a prefix ending in "HB" means House, "SB" means
// Senate. Identifiers without a recognizable prefix report ok == false.
func ChamberFromBillID(billID string) (Chamber, bool) {
	prefix := letterPrefix(billID)
	switch {
	case strings.HasSuffix(prefix, "HB"):
		return House, true
	case strings.HasSuffix(prefix, "SB"):
		return Senate, true
	}
	return "", false
}

// letterPrefix returns the run of uppercase letters at the start of s.
func letterPrefix(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return s[:i]
		}
	}
	return s
}

// BillNumberFromID extracts the numeric bill number from an identifier such
// as "SHB 1234": the first run of three or more digits. ok is false when
// the identifier carries no such run.
func BillNumberFromID(billID string) (string, bool) {
	n := billDigitsPattern.FindString(billID)
	return n, n != ""
}

// CurrentBiennium returns the biennium containing the given time. Bienniums
// begin in odd years, so an even year belongs to the biennium started the
// year before: 2024 is part of "2023-24".
func CurrentBiennium(now time.Time) string {
	year := now.Year()
	if year%2 == 0 {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// CurrentYear returns the calendar year of the given time as a string, the
// form the legislative services expect for year-scoped queries.
func CurrentYear(now time.Time) string {
	return strconv.Itoa(now.Year())
}
