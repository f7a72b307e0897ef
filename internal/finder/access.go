package finder

import (
	"fmt"
	"strings"
)

// AccessType is a bitmask of permission classes to test against a candidate.
type AccessType uint8

const (
	AccessRead AccessType = 1 << iota
	AccessWrite
	AccessExecute
)

// ParseAccessType converts a short permission string such as "r", "w", "x"
// or any combination ("rw", "rwx") into an AccessType.
func ParseAccessType(s string) (AccessType, error) {
	if s == "" {
		return 0, fmt.Errorf("empty access type")
	}
	var at AccessType
	for _, c := range strings.ToLower(s) {
		switch c {
		case 'r':
			at |= AccessRead
		case 'w':
			at |= AccessWrite
		case 'x':
			at |= AccessExecute
		default:
			return 0, fmt.Errorf("invalid access type %q: valid characters are r, w, x", s)
		}
	}
	return at, nil
}

// String renders the mask as the subset of "rwx" it covers.
func (a AccessType) String() string {
	var b strings.Builder
	if a&AccessRead != 0 {
		b.WriteByte('r')
	}
	if a&AccessWrite != 0 {
		b.WriteByte('w')
	}
	if a&AccessExecute != 0 {
		b.WriteByte('x')
	}
	return b.String()
}

// CheckAccess reports whether the current process holds every permission in
// at on path. Missing or otherwise inaccessible paths resolve to false; the
// check never returns an error to the caller.
func CheckAccess(path string, at AccessType) bool {
	if at == 0 {
		return false
	}
	return checkAccess(path, at)
}

// accessSummary reports which of read/write/execute the process holds on
// path, in canonical "rwx" order.
func accessSummary(path string) string {
	var b strings.Builder
	if CheckAccess(path, AccessRead) {
		b.WriteByte('r')
	}
	if CheckAccess(path, AccessWrite) {
		b.WriteByte('w')
	}
	if CheckAccess(path, AccessExecute) {
		b.WriteByte('x')
	}
	return b.String()
}
