package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTheme is used when no theme is configured or the configured one
// is unknown.
const DefaultTheme = "keel"

// themes lists the selectable prompt themes, default first.
var themes = []struct {
	name  string
	build func() *huh.Theme
}{
	{DefaultTheme, keelTheme},
	{"base", huh.ThemeBase},
	{"base16", huh.ThemeBase16},
	{"catppuccin", huh.ThemeCatppuccin},
	{"charm", huh.ThemeCharm},
	{"dracula", huh.ThemeDracula},
}

// ValidThemes holds the accepted theme names in display order.
var ValidThemes = func() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.name
	}
	return names
}()

// promptTheme is the theme prompts render with; nil means the default.
var promptTheme *huh.Theme

// canonicalTheme folds a configured name to its registry form, so
// "Dracula " in a config file selects "dracula".
func canonicalTheme(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsValidTheme reports whether name selects a known theme.
func IsValidTheme(name string) bool {
	_, ok := lookupTheme(name)
	return ok
}

func lookupTheme(name string) (func() *huh.Theme, bool) {
	name = canonicalTheme(name)
	for _, t := range themes {
		if t.name == name {
			return t.build, true
		}
	}
	return nil, false
}

// SetTheme selects the prompt theme. An empty or unknown name falls back
// to the keel theme. With noColor set, prompts use the uncolored base
// theme whatever the name, like the rest of keel's output under
// --no-color.
func SetTheme(name string, noColor bool) {
	switch build, ok := lookupTheme(name); {
	case noColor:
		promptTheme = huh.ThemeBase()
	case ok:
		promptTheme = build()
	default:
		promptTheme = nil
	}
}

func currentThemeOrDefault() *huh.Theme {
	if promptTheme == nil {
		return keelTheme()
	}
	return promptTheme
}

// Palette for the keel theme: deep sea blues with a brass accent.
var (
	keelBluePrimary  = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#60a5fa"}
	keelBlueBright   = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#93c5fd"}
	keelBrassAccent  = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	keelTextStrong   = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f8fafc"}
	keelTextNormal   = lipgloss.AdaptiveColor{Light: "#334155", Dark: "#cbd5e1"}
	keelTextMuted    = lipgloss.AdaptiveColor{Light: "#64748b", Dark: "#94a3b8"}
	keelTextFaint    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#475569"}
	keelBorderActive = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#3b82f6"}
	keelBorderNormal = lipgloss.AdaptiveColor{Light: "#cbd5e1", Dark: "#334155"}
	keelButtonBg     = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#2563eb"}
	keelButtonBgDim  = lipgloss.AdaptiveColor{Light: "#e2e8f0", Dark: "#1e293b"}
	keelButtonText   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}
	keelButtonDim    = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94a3b8"}
)

func keelTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(keelBorderActive)
	t.Focused.Title = t.Focused.Title.Foreground(keelBluePrimary).Bold(true)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(keelBluePrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(keelTextMuted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(keelBrassAccent)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(keelBrassAccent)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(keelBrassAccent)
	t.Focused.NextIndicator = t.Focused.NextIndicator.Foreground(keelBrassAccent)
	t.Focused.PrevIndicator = t.Focused.PrevIndicator.Foreground(keelBrassAccent)
	t.Focused.Option = t.Focused.Option.Foreground(keelTextNormal)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(keelBrassAccent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(keelBlueBright)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(keelBlueBright)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(keelTextNormal)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(keelButtonText).
		Background(keelButtonBg).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(keelButtonDim).
		Background(keelButtonBgDim).
		Padding(0, 1)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(keelBrassAccent)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(keelTextFaint)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(keelBrassAccent)
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(keelTextStrong)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderForeground(keelBorderNormal)
	t.Blurred.Title = t.Blurred.Title.Foreground(keelTextMuted)
	t.Blurred.NextIndicator = lipgloss.NewStyle()
	t.Blurred.PrevIndicator = lipgloss.NewStyle()

	t.Help.ShortKey = lipgloss.NewStyle().Foreground(keelTextMuted)
	t.Help.ShortDesc = lipgloss.NewStyle().Foreground(keelTextFaint)
	t.Help.ShortSeparator = lipgloss.NewStyle().Foreground(keelTextFaint)
	t.Help.FullKey = lipgloss.NewStyle().Foreground(keelTextMuted)
	t.Help.FullDesc = lipgloss.NewStyle().Foreground(keelTextFaint)
	t.Help.FullSeparator = lipgloss.NewStyle().Foreground(keelTextFaint)

	return t
}
