package deps

import (
	"maps"
	"regexp"
	"strings"
)

// Detected is a package reported by a scanner. Version is empty when the
// scanner could not determine one.
type Detected struct {
	Name    string
	Version string
}

// Renames maps detected names to the name the dependency must be
// declared under.
type Renames map[string]string

// DefaultRenames returns the built-in rename table.
func DefaultRenames() Renames {
	return Renames{"speech_recognition": "speechRecognition"}
}

// Merge returns a copy of r with extra layered on top.
func (r Renames) Merge(extra map[string]string) Renames {
	out := maps.Clone(r)
	if out == nil {
		out = Renames{}
	}
	maps.Copy(out, extra)
	return out
}

// Apply returns the declared name for a detected one.
func (r Renames) Apply(name string) string {
	if to, ok := r[name]; ok {
		return to
	}
	return name
}

// Options controls Reconcile.
type Options struct {
	// Overwrite replaces the declared list with the detected packages.
	// When false, detected packages are only appended if missing.
	Overwrite bool
	// IncludeVersions emits "name~=version" for packages with a version.
	IncludeVersions bool
	// ProjectName is excluded from the result.
	ProjectName string
	// Renames is applied to every detected name. Nil means no renames.
	Renames Renames
}

// Reconcile computes the new dependency list.
//
// In overwrite mode the result is the candidates built from detected, in
// detection order, keeping the first of any that share a normalized bare
// name. In additive mode the declared entries are kept untouched and a
// candidate is appended only when no entry already in the result shares
// its normalized bare name. The project itself is never a candidate.
func Reconcile(declared []string, detected []Detected, opts Options) []string {
	self := Normalize(opts.ProjectName)
	candidates := make([]string, 0, len(detected))
	for _, d := range detected {
		if self != "" && Normalize(d.Name) == self {
			continue
		}
		name := opts.Renames.Apply(d.Name)
		if opts.IncludeVersions && d.Version != "" {
			candidates = append(candidates, name+"~="+d.Version)
		} else {
			candidates = append(candidates, name)
		}
	}

	var result []string
	if !opts.Overwrite {
		result = append(result, declared...)
	}

	seen := make(map[string]bool, len(result)+len(candidates))
	for _, entry := range result {
		seen[Normalize(BareName(entry))] = true
	}
	for _, c := range candidates {
		key := Normalize(BareName(c))
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, c)
	}

	if result == nil {
		result = []string{}
	}
	return result
}

// BareName returns the package name of a requirement entry: everything
// before the first version operator, extras bracket, marker, URL or
// whitespace. "requests[socks]~=2.0; python_version>'3'" yields "requests".
func BareName(entry string) string {
	entry = strings.TrimSpace(entry)
	if i := strings.IndexAny(entry, "~=<>!;[ @(\t"); i >= 0 {
		return entry[:i]
	}
	return entry
}

var separators = regexp.MustCompile(`[-_.]+`)

// Normalize applies PEP 503 name normalization.
func Normalize(name string) string {
	return strings.ToLower(separators.ReplaceAllString(name, "-"))
}
