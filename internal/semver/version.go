package semver

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SemVersion is a three-component version (major.minor.patch).
type SemVersion struct {
	Major int
	Minor int
	Patch int
}

// BumpKind selects which component Bump increments.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// BumpKinds lists every accepted bump kind, in display order.
var BumpKinds = []BumpKind{BumpMajor, BumpMinor, BumpPatch}

var (
	// versionRegex matches "major.minor.patch" with an optional "v" prefix.
	versionRegex = regexp.MustCompile(`^v?([0-9]+)\.([0-9]+)\.([0-9]+)$`)

	// errInvalidVersion is returned when a version string does not conform
	// to the expected format.
	errInvalidVersion = errors.New("invalid version format")

	// ErrOverflow is returned by Bump when the component to increment is
	// already the largest representable value.
	ErrOverflow = errors.New("version component overflow")
)

// maxVersionLength bounds the input handed to the regex.
const maxVersionLength = 128

// InvalidArgumentError reports an enumerated input outside its allowed set.
type InvalidArgumentError struct {
	Name    string
	Value   string
	Allowed []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q (expected one of: %s)", e.Name, e.Value, strings.Join(e.Allowed, ", "))
}

// IsValid reports whether k is one of the known bump kinds.
func (k BumpKind) IsValid() bool {
	switch k {
	case BumpMajor, BumpMinor, BumpPatch:
		return true
	default:
		return false
	}
}

// String returns the literal form of the bump kind.
func (k BumpKind) String() string {
	return string(k)
}

// ParseBumpKind converts a literal into a BumpKind.
// Only "major", "minor" and "patch" are accepted; matching is exact.
func ParseBumpKind(s string) (BumpKind, error) {
	k := BumpKind(s)
	if !k.IsValid() {
		return "", newBumpKindError(s)
	}
	return k, nil
}

func newBumpKindError(value string) *InvalidArgumentError {
	allowed := make([]string, len(BumpKinds))
	for i, k := range BumpKinds {
		allowed[i] = string(k)
	}
	return &InvalidArgumentError{Name: "bump kind", Value: value, Allowed: allowed}
}

// String returns the dot-joined representation of the version.
func (v SemVersion) String() string {
	var sb strings.Builder
	sb.Grow(16)
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Patch))
	return sb.String()
}

// ParseVersion parses a "major.minor.patch" string.
//
// Supported formats:
//   - "1.2.3"
//   - "v1.2.3" (the prefix is dropped)
//
// Surrounding whitespace is ignored. Anything else, including pre-release
// and build suffixes, returns errInvalidVersion (wrapped).
func ParseVersion(s string) (SemVersion, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > maxVersionLength {
		return SemVersion{}, fmt.Errorf("%w: version string exceeds maximum length of %d", errInvalidVersion, maxVersionLength)
	}

	matches := versionRegex.FindStringSubmatch(trimmed)
	if len(matches) != 4 {
		return SemVersion{}, fmt.Errorf("%w: %q", errInvalidVersion, s)
	}

	var parts [3]int
	for i, label := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(matches[i+1])
		if err != nil {
			return SemVersion{}, fmt.Errorf("%w: invalid %s version: %s", errInvalidVersion, label, err.Error())
		}
		parts[i] = n
	}

	return SemVersion{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// IsInvalidVersion reports whether err came from ParseVersion rejecting its input.
func IsInvalidVersion(err error) bool {
	return errors.Is(err, errInvalidVersion)
}

// Compare returns -1 if v < other, 0 if equal, and +1 if v > other.
func (v SemVersion) Compare(other SemVersion) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

// Bump returns the next version for the given kind.
//
//   - major: 1.2.3 -> 2.0.0
//   - minor: 1.2.3 -> 1.3.0
//   - patch: 1.2.3 -> 1.2.4
//
// Any other kind returns an *InvalidArgumentError and the zero version.
func Bump(v SemVersion, kind BumpKind) (SemVersion, error) {
	switch kind {
	case BumpMajor:
		if v.Major == math.MaxInt {
			return SemVersion{}, fmt.Errorf("bump major of %s: %w", v, ErrOverflow)
		}
		return SemVersion{Major: v.Major + 1}, nil
	case BumpMinor:
		if v.Minor == math.MaxInt {
			return SemVersion{}, fmt.Errorf("bump minor of %s: %w", v, ErrOverflow)
		}
		return SemVersion{Major: v.Major, Minor: v.Minor + 1}, nil
	case BumpPatch:
		if v.Patch == math.MaxInt {
			return SemVersion{}, fmt.Errorf("bump patch of %s: %w", v, ErrOverflow)
		}
		return SemVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return SemVersion{}, newBumpKindError(string(kind))
	}
}

// BumpByLabel parses label as a bump kind and applies it.
func BumpByLabel(v SemVersion, label string) (SemVersion, error) {
	kind, err := ParseBumpKind(label)
	if err != nil {
		return SemVersion{}, err
	}
	return Bump(v, kind)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
