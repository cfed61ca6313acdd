package vault

import (
	"slices"
	"strconv"
	"strings"
)

// Well-known field names. Any other name is allowed and kept as is.
const (
	FieldTitle       = "Title"
	FieldNickname    = "Nickname"
	FieldPhoneNumber = "PhoneNumber"
	FieldEmail       = "Email"
	FieldAddress     = "Address"
	FieldMatrixID    = "MatrixID"
	FieldBirthDate   = "BirthDate"
	FieldNotes       = "Notes"
)

// multiValued lists the fields that may appear with numbered variants
// (PhoneNumber2, PhoneNumber3, ...).
var multiValued = []string{FieldPhoneNumber, FieldEmail}

var wellKnown = []string{
	FieldTitle,
	FieldNickname,
	FieldPhoneNumber,
	FieldEmail,
	FieldAddress,
	FieldMatrixID,
	FieldBirthDate,
	FieldNotes,
}

// IsWellKnown reports whether name is one of the well-known field names.
func IsWellKnown(name string) bool {
	return slices.Contains(wellKnown, name)
}

// variantIndex returns n when name is base followed by a decimal n >= 2.
func variantIndex(name, base string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, base)
	if !ok || suffix == "" || suffix[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 2 {
		return 0, false
	}
	return n, true
}

func isVariant(name string) bool {
	for _, base := range multiValued {
		if _, ok := variantIndex(name, base); ok {
			return true
		}
	}
	return false
}

// Variants returns the names of the numbered variants of base present on e,
// ordered by their number: PhoneNumber2 before PhoneNumber10.
func (e *Entry) Variants(base string) []string {
	type variant struct {
		name string
		n    int
	}
	var found []variant
	for name := range e.Fields {
		if n, ok := variantIndex(name, base); ok {
			found = append(found, variant{name: name, n: n})
		}
	}
	slices.SortFunc(found, func(a, b variant) int { return a.n - b.n })

	out := make([]string, len(found))
	for i, v := range found {
		out[i] = v.name
	}
	return out
}

// CustomFields returns the names of fields that are neither well-known nor a
// numbered variant of one, sorted.
func (e *Entry) CustomFields() []string {
	var out []string
	for name := range e.Fields {
		if IsWellKnown(name) || isVariant(name) {
			continue
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
