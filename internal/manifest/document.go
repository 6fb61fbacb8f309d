package manifest

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// document is a positional index over a TOML source, built from the
// go-toml expression parser: which tables exist, which keys they hold and
// where each value sits. It lets the manifest rewrite single values
// without re-serializing (and reformatting) the rest of the file.
type document struct {
	src     []byte
	tables  []table
	entries []entry
	// quote is the delimiter of the first string value in the document,
	// used for values that have no string of their own to copy.
	quote   byte
	newline string
}

type table struct {
	path  []string
	array bool // [[array-of-tables]] or a sub-table of one
	start int  // start of the header line; 0 for the root table
	body  int  // first byte after the header line
}

type entry struct {
	path       []string // full key path from the root
	table      int      // index into document.tables
	start      int      // first byte of the key
	valueStart int
	valueEnd   int // exclusive
	end        int // exclusive, past the trailing comment and newline
	quote      byte
}

// expression is a top-level parser expression reduced to offsets.
type expression struct {
	kind       unstable.Kind
	keys       []string
	start      int
	valueStart int
	comment    int // start of a trailing comment, -1 if none
	quote      byte
}

func parseDocument(src []byte) (*document, error) {
	exprs, err := expressions(src)
	if err != nil {
		return nil, err
	}

	d := &document{src: src, quote: '"', newline: "\n"}
	if bytes.Contains(src, []byte("\r\n")) {
		d.newline = "\r\n"
	}
	d.tables = append(d.tables, table{})
	quoteSeen := false

	for i, x := range exprs {
		limit := len(src)
		if i+1 < len(exprs) {
			limit = exprs[i+1].start
		}

		switch x.kind {
		case unstable.Table, unstable.ArrayTable:
			d.tables = append(d.tables, table{
				path:  x.keys,
				array: x.kind == unstable.ArrayTable || d.underArray(x.keys),
				start: lineStart(src, x.start),
				body:  nextLine(src, x.valueStart),
			})
		case unstable.KeyValue:
			if x.comment >= 0 {
				limit = x.comment
			}
			end := trimBack(src, limit, x.valueStart)
			cur := len(d.tables) - 1
			d.entries = append(d.entries, entry{
				path:       slices.Concat(d.tables[cur].path, x.keys),
				table:      cur,
				start:      x.start,
				valueStart: x.valueStart,
				valueEnd:   end,
				end:        nextLine(src, end),
				quote:      x.quote,
			})
			if !quoteSeen && x.quote != 0 {
				d.quote, quoteSeen = x.quote, true
			}
		}
	}
	return d, nil
}

// expressions runs the go-toml parser over src and records where every
// top-level expression starts and where key/value values begin.
func expressions(src []byte) ([]expression, error) {
	p := unstable.Parser{KeepComments: true}
	p.Reset(src)

	var out []expression
	for p.NextExpression() {
		n := p.Expression()
		x := expression{kind: n.Kind, comment: -1}

		switch n.Kind {
		case unstable.Comment:
			x.start = int(n.Raw.Offset)
		case unstable.Table, unstable.ArrayTable, unstable.KeyValue:
			keyEnd := 0
			it := n.Key()
			for it.Next() {
				k := it.Node()
				if len(x.keys) == 0 {
					x.start = int(k.Raw.Offset)
				}
				x.keys = append(x.keys, string(k.Data))
				keyEnd = int(k.Raw.Offset + k.Raw.Length)
			}
			if n.Kind == unstable.KeyValue {
				x.valueStart = valueStart(src, keyEnd)
				x.quote = quoteOf(src, n.Value())
			} else {
				x.start = headerStart(src, x.start)
				x.valueStart = keyEnd
			}
			if c := n.Next(); c != nil && c.Kind == unstable.Comment {
				x.comment = int(c.Raw.Offset)
			}
		default:
			continue
		}
		out = append(out, x)
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

// quoteOf returns the delimiter of the first string in a value, or 0.
func quoteOf(src []byte, n *unstable.Node) byte {
	switch n.Kind {
	case unstable.String:
		return src[n.Raw.Offset]
	case unstable.Array:
		it := n.Children()
		for it.Next() {
			if q := quoteOf(src, it.Node()); q != 0 {
				return q
			}
		}
	}
	return 0
}

// valueStart skips the separator after a key.
func valueStart(src []byte, i int) int {
	i = skipBlank(src, i)
	if i < len(src) && src[i] == '=' {
		i++
	}
	return skipBlank(src, i)
}

// headerStart walks back from the first key of a header to its brackets.
func headerStart(src []byte, i int) int {
	for i > 0 && (src[i-1] == '[' || src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	return i
}

// trimBack returns the end of the content before limit, ignoring
// whitespace and newlines, but never before floor.
func trimBack(src []byte, limit, floor int) int {
	for limit > floor {
		switch src[limit-1] {
		case ' ', '\t', '\r', '\n':
			limit--
		default:
			return limit
		}
	}
	return floor
}

func skipBlank(src []byte, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

func lineStart(src []byte, i int) int {
	for i > 0 && src[i-1] != '\n' {
		i--
	}
	return i
}

// nextLine returns the index after the newline ending the line containing i.
func nextLine(src []byte, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i < len(src) {
		i++
	}
	return i
}

func hasPrefix(path, prefix []string) bool {
	return len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}

func (d *document) underArray(path []string) bool {
	for _, t := range d.tables {
		if t.array && hasPrefix(path, t.path) && len(t.path) > 0 {
			return true
		}
	}
	return false
}

// lookup finds the entry holding exactly path, outside arrays of tables.
func (d *document) lookup(path []string) (entry, bool) {
	for _, e := range d.entries {
		if !d.tables[e.table].array && slices.Equal(e.path, path) {
			return e, true
		}
	}
	return entry{}, false
}

// stdTable returns the index of the [header] table for path. The root
// table always exists.
func (d *document) stdTable(path []string) (int, bool) {
	for i, t := range d.tables {
		if !t.array && slices.Equal(t.path, path) {
			return i, true
		}
	}
	return 0, false
}

// lastDotted returns the last entry that defines prefix through a dotted
// key, such as `urls.Homepage` under [project] for project.urls.
func (d *document) lastDotted(prefix []string) (entry, bool) {
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		t := d.tables[e.table]
		if !t.array && len(t.path) < len(prefix) && hasPrefix(e.path, prefix) && len(e.path) > len(prefix) {
			return e, true
		}
	}
	return entry{}, false
}

// defined reports whether path is a table in the document, either through
// a header or through dotted keys.
func (d *document) defined(path []string) bool {
	if _, ok := d.stdTable(path); ok {
		return true
	}
	_, ok := d.lastDotted(path)
	return ok
}

func (d *document) arrayTables(path []string) []table {
	var out []table
	for _, t := range d.tables {
		if t.array && slices.Equal(t.path, path) {
			out = append(out, t)
		}
	}
	return out
}

// tableEnd is where a new key of table i goes: after its last entry.
func (d *document) tableEnd(i int) int {
	at := d.tables[i].body
	for _, e := range d.entries {
		if e.table == i {
			at = e.end
		}
	}
	return at
}

// quoteFor returns the string delimiter to use for a value at path.
func (d *document) quoteFor(path []string) byte {
	if e, ok := d.lookup(path); ok && e.quote != 0 {
		return e.quote
	}
	return d.quote
}

// set writes value (already TOML-encoded) at path. An existing value is
// replaced in place; otherwise the key is added to the deepest table that
// owns path, written relative to it.
func (d *document) set(path []string, value string) error {
	value = d.lines(value)
	if e, ok := d.lookup(path); ok {
		return d.splice(e.valueStart, e.valueEnd, value)
	}

	for k := len(path) - 1; k >= 0; k-- {
		prefix := path[:k]
		if i, ok := d.stdTable(prefix); ok {
			return d.insert(d.tableEnd(i), path[k:], value)
		}
		if e, ok := d.lastDotted(prefix); ok {
			return d.insert(e.end, path[len(d.tables[e.table].path):], value)
		}
		if len(d.arrayTables(prefix)) > 0 {
			return fmt.Errorf("%s is an array of tables", strings.Join(prefix, "."))
		}
	}
	return fmt.Errorf("no table for %s", strings.Join(path, "."))
}

func (d *document) insert(at int, key []string, value string) error {
	line := encodeKeyPath(key) + " = " + value + d.newline
	if at > 0 && d.src[at-1] != '\n' {
		line = d.newline + line
	}
	return d.splice(at, at, line)
}

// remove deletes the line holding path, if present.
func (d *document) remove(path []string) error {
	e, ok := d.lookup(path)
	if !ok {
		return nil
	}
	return d.splice(lineStart(d.src, e.start), e.end, "")
}

// appendTable adds a [header] table holding lines at the end of the
// document.
func (d *document) appendTable(path []string, lines []string) error {
	var sb strings.Builder
	if len(d.src) > 0 {
		if !bytes.HasSuffix(d.src, []byte("\n")) {
			sb.WriteString(d.newline)
		}
		sb.WriteString(d.newline)
	}
	sb.WriteString("[" + encodeKeyPath(path) + "]" + d.newline)
	for _, l := range lines {
		sb.WriteString(d.lines(l) + d.newline)
	}
	return d.splice(len(d.src), len(d.src), sb.String())
}

// replaceArrayTables replaces every [[path]] table with text, which takes
// the place of the first one. Comments and blank lines after each table's
// last key are kept.
func (d *document) replaceArrayTables(path []string, text string) error {
	tables := d.arrayTables(path)
	if len(tables) == 0 {
		return fmt.Errorf("no [[%s]] tables", strings.Join(path, "."))
	}

	out := bytes.Clone(d.src)
	for i := len(tables) - 1; i >= 0; i-- {
		t := tables[i]
		idx, _ := d.tableIndex(t.start)
		end := d.tableEnd(idx)
		repl := ""
		if i == 0 {
			repl = d.lines(text)
		}
		out = slices.Concat(out[:t.start], []byte(repl), out[end:])
	}
	return d.reset(out)
}

func (d *document) tableIndex(start int) (int, bool) {
	for i, t := range d.tables {
		if i > 0 && t.start == start {
			return i, true
		}
	}
	return 0, false
}

// lines converts encoder output to the document's line endings.
func (d *document) lines(s string) string {
	if d.newline == "\n" {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", d.newline)
}

func (d *document) splice(from, to int, text string) error {
	out := make([]byte, 0, len(d.src)-(to-from)+len(text))
	out = append(out, d.src[:from]...)
	out = append(out, text...)
	out = append(out, d.src[to:]...)
	return d.reset(out)
}

func (d *document) reset(src []byte) error {
	next, err := parseDocument(src)
	if err != nil {
		return fmt.Errorf("edited manifest does not parse: %w", err)
	}
	*d = *next
	return nil
}

func (d *document) bytes() []byte {
	return d.src
}
