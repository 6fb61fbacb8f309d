package manifest

import (
	"bytes"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const indent = "    "

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// encodeValue renders v as a TOML value using go-toml.
func encodeValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetArraysMultiline(true)
	enc.SetIndentSymbol(indent)
	if err := enc.Encode(map[string]any{"v": v}); err != nil {
		return "", fmt.Errorf("encode %T: %w", v, err)
	}
	_, value, ok := strings.Cut(buf.String(), "=")
	if !ok {
		return "", fmt.Errorf("encode %T: unexpected output %q", v, buf.String())
	}
	return strings.TrimSpace(value), nil
}

func encodeKey(key string) string {
	if bareKey.MatchString(key) {
		return key
	}
	quoted, err := encodeValue(key)
	if err != nil {
		return `"` + key + `"`
	}
	return basicQuotes(quoted)
}

func encodeKeyPath(path []string) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = encodeKey(k)
	}
	return strings.Join(parts, ".")
}

// basicQuotes rewrites the 'literal' strings go-toml emits as "basic"
// strings. Literal strings never contain a quote or control character, so
// only backslashes and double quotes need escaping.
func basicQuotes(value string) string {
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '"':
			j := i + 1
			for j < len(value) && value[j] != '"' {
				if value[j] == '\\' {
					j++
				}
				j++
			}
			end := min(j+1, len(value))
			sb.WriteString(value[i:end])
			i = end - 1
		case '\'':
			j := strings.IndexByte(value[i+1:], '\'')
			if j < 0 {
				sb.WriteString(value[i:])
				return sb.String()
			}
			inner := value[i+1 : i+1+j]
			inner = strings.ReplaceAll(inner, `\`, `\\`)
			inner = strings.ReplaceAll(inner, `"`, `\"`)
			sb.WriteString(`"` + inner + `"`)
			i += j + 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// writer applies field edits to the [project] table of a document,
// stopping at the first error.
type writer struct {
	doc *document
	err error
}

func projectPath(keys ...string) []string {
	return append([]string{projectTable}, keys...)
}

// encode renders v in the quote style of whatever currently sits at path.
func (w *writer) encode(path []string, v any) (string, bool) {
	value, err := encodeValue(v)
	if err != nil {
		w.err = fmt.Errorf("%s: %w", strings.Join(path, "."), err)
		return "", false
	}
	if w.doc.quoteFor(path) == '"' {
		value = basicQuotes(value)
	}
	return value, true
}

func (w *writer) put(path []string, value string) {
	if w.err != nil {
		return
	}
	if err := w.doc.set(path, value); err != nil {
		w.err = fmt.Errorf("%s: %w", strings.Join(path, "."), err)
	}
}

func (w *writer) set(key string, v any) {
	if w.err != nil {
		return
	}
	path := projectPath(key)
	if value, ok := w.encode(path, v); ok {
		w.put(path, value)
	}
}

func (w *writer) setString(key, value, old string) {
	switch {
	case value == old:
	case value == "":
		if w.err == nil {
			w.err = w.doc.remove(projectPath(key))
		}
	default:
		w.set(key, value)
	}
}

func (w *writer) setList(key string, value, old []string) {
	if slices.Equal(value, old) {
		return
	}
	if value == nil {
		value = []string{}
	}
	w.set(key, value)
}

// setAuthors rewrites project.authors, keeping [[project.authors]] tables
// when the document uses them and an inline array otherwise.
func (w *writer) setAuthors(authors []Author) {
	if w.err != nil {
		return
	}
	path := projectPath("authors")

	if len(w.doc.arrayTables(path)) > 0 {
		var sb strings.Builder
		for i, a := range authors {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("[[" + encodeKeyPath(path) + "]]\n")
			for _, kv := range [][2]string{{"name", a.Name}, {"email", a.Email}} {
				if kv[1] == "" {
					continue
				}
				v, ok := w.encode(path, kv[1])
				if !ok {
					return
				}
				sb.WriteString(kv[0] + " = " + v + "\n")
			}
		}
		w.err = w.doc.replaceArrayTables(path, sb.String())
		return
	}

	tables := make([]string, 0, len(authors))
	for _, a := range authors {
		t, ok := w.inlineTable(path, [][2]string{{"name", a.Name}, {"email", a.Email}})
		if !ok {
			return
		}
		tables = append(tables, t)
	}

	var value string
	switch len(tables) {
	case 0:
		value = "[]"
	case 1:
		value = "[" + tables[0] + "]"
	default:
		value = "[\n" + indent + strings.Join(tables, ",\n"+indent) + ",\n]"
	}
	w.put(path, value)
}

// setTable updates a string map stored as an inline table, as its own
// [project.<key>] table, or as dotted keys such as `urls.Homepage`.
func (w *writer) setTable(key string, value, old map[string]string) {
	if w.err != nil || maps.Equal(value, old) {
		return
	}
	path := projectPath(key)

	if _, ok := w.doc.lookup(path); ok {
		pairs := make([][2]string, 0, len(value))
		for _, k := range slices.Sorted(maps.Keys(value)) {
			pairs = append(pairs, [2]string{k, value[k]})
		}
		if t, ok := w.inlineTable(path, pairs); ok {
			w.put(path, t)
		}
		return
	}

	if !w.doc.defined(path) {
		if len(value) == 0 {
			return
		}
		// A new [project.<key>] table, unless [project] itself is only
		// defined through dotted keys.
		if _, ok := w.doc.stdTable(projectPath()); ok {
			lines := make([]string, 0, len(value))
			for _, k := range slices.Sorted(maps.Keys(value)) {
				v, ok := w.encode(path, value[k])
				if !ok {
					return
				}
				lines = append(lines, encodeKey(k)+" = "+v)
			}
			w.err = w.doc.appendTable(path, lines)
			return
		}
	}

	for _, k := range slices.Sorted(maps.Keys(old)) {
		if _, ok := value[k]; !ok && w.err == nil {
			w.err = w.doc.remove(append(slices.Clone(path), k))
		}
	}
	for _, k := range slices.Sorted(maps.Keys(value)) {
		if prev, ok := old[k]; ok && prev == value[k] {
			continue
		}
		entry := append(slices.Clone(path), k)
		if v, ok := w.encode(entry, value[k]); ok {
			w.put(entry, v)
		}
	}
}

// inlineTable renders non-empty pairs as `{ k = v, ... }`.
func (w *writer) inlineTable(path []string, pairs [][2]string) (string, bool) {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		v, ok := w.encode(path, p[1])
		if !ok {
			return "", false
		}
		parts = append(parts, encodeKey(p[0])+" = "+v)
	}
	if len(parts) == 0 {
		return "{}", true
	}
	return "{ " + strings.Join(parts, ", ") + " }", true
}
