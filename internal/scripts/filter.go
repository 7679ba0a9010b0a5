package scripts

import (
	"strings"

	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
)

// FilterScripts keeps the names containing text, ignoring case, in their original order.
// An empty text keeps every name.
func FilterScripts(names []string, text string) []string {
	needle := strings.ToLower(text)
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
	}
	return out
}

// parseSettingsCommand reports whether text is the settings directive and returns its argument.
func parseSettingsCommand(text string) (arg string, ok bool) {
	if len(text) < len(settingsCommand) || !strings.EqualFold(text[:len(settingsCommand)], settingsCommand) {
		return "", false
	}
	rest := text[len(settingsCommand):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func joinScriptPath(dir, name string) string {
	return wsl.JoinPath(dir, name)
}

func validScriptName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
