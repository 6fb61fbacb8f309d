package scaffold

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func readme(name, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}
	b.WriteString("## Installation\n\n")
	fmt.Fprintf(&b, "Install with:\n\n```console\npip install %s\n```\n", name)
	return b.String()
}

const mitLicense = `MIT License

Copyright (c) %d %s

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

func license(year int, holder string) string {
	return fmt.Sprintf(mitLicense, year, holder)
}

var gitignoreEntries = []string{
	"__pycache__/",
	"*.py[cod]",
	".venv/",
	"venv/",
	"build/",
	"dist/",
	"*.egg-info/",
	".pytest_cache/",
	".coverage",
	"htmlcov/",
	".mypy_cache/",
	".ruff_cache/",
}

func gitignore() string {
	return strings.Join(gitignoreEntries, "\n") + "\n"
}

func mainModule() string {
	return "def main():\n    ...\n\n\nif __name__ == \"__main__\":\n    main()\n"
}

// editorSettings are written to .vscode/settings.json. Keys are gjson
// paths, so literal dots in setting names are escaped.
var editorSettings = []struct {
	path  string
	value any
}{
	{`python\.testing\.pytestEnabled`, true},
	{`python\.testing\.unittestEnabled`, false},
	{`python\.testing\.pytestArgs`, []string{"tests"}},
	{`[python].editor\.defaultFormatter`, "ms-python.black-formatter"},
	{`[python].editor\.formatOnSave`, true},
	{`isort\.args`, []string{"--profile", "black"}},
}

// vscodeSettings merges the default editor settings into existing, which
// may be empty. Settings already present are kept.
func vscodeSettings(existing []byte) ([]byte, error) {
	doc := existing
	if len(strings.TrimSpace(string(doc))) == 0 {
		doc = []byte("{}")
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("invalid editor settings JSON")
	}

	var err error
	for _, s := range editorSettings {
		if gjson.GetBytes(doc, s.path).Exists() {
			continue
		}
		doc, err = sjson.SetBytes(doc, s.path, s.value)
		if err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", s.path, err)
		}
	}
	return []byte(gjson.GetBytes(doc, "@pretty").Raw), nil
}
