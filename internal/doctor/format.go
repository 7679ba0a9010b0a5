package doctor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme keeps the report colors in one place.
type Theme struct {
	OK    lipgloss.Style
	Error lipgloss.Style
	Warn  lipgloss.Style
	Title lipgloss.Style
	Dim   lipgloss.Style
}

// NewDefaultTheme returns the report styling used by the doctor command.
func NewDefaultTheme() Theme {
	return Theme{
		OK:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Error: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF")),
		Dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// FormatHuman returns a human-readable report.
func FormatHuman(r *Result, th Theme) string {
	var b strings.Builder

	switch {
	case r.Valid && len(r.Warnings) == 0:
		b.WriteString(th.OK.Render("Setup valid."))
	case r.Valid:
		b.WriteString(th.Warn.Render(fmt.Sprintf("Setup valid (%d warning(s))", len(r.Warnings))))
	default:
		b.WriteString(th.Error.Render(fmt.Sprintf("Setup invalid (%d error(s), %d warning(s))", len(r.Errors), len(r.Warnings))))
	}
	b.WriteString("\n")

	if r.SettingsFingerprint != "" {
		fmt.Fprintf(&b, "  %s %s\n", th.Title.Render("settings:"), th.Dim.Render("fingerprint "+short(r.SettingsFingerprint)))
	}
	if r.ScriptsDir != "" {
		fmt.Fprintf(&b, "  %s %s %s\n", th.Title.Render("scripts:"), r.ScriptsDir, th.Dim.Render(fmt.Sprintf("(%d found)", r.ScriptCount)))
	}

	for _, e := range r.Errors {
		writeIssue(&b, th.Error.Render("ERROR"), e, th)
	}
	for _, w := range r.Warnings {
		writeIssue(&b, th.Warn.Render("WARN "), w, th)
	}

	return b.String()
}

func writeIssue(b *strings.Builder, label string, is Issue, th Theme) {
	category := th.Dim.Render("[" + is.Category + "]")
	if is.Field != "" {
		fmt.Fprintf(b, "  %s %s %s: %s\n", label, category, is.Field, is.Message)
		return
	}
	fmt.Fprintf(b, "  %s %s %s\n", label, category, is.Message)
}
