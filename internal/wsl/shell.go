package wsl

import "strings"

// Quote wraps s in single quotes for bash, escaping embedded single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// SplitLines splits captured output into non-empty lines.
// Carriage returns from Windows line endings are dropped.
func SplitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// JoinPath joins a directory and a name with a forward slash, as paths inside the environment use.
func JoinPath(dir, name string) string {
	dir = strings.ReplaceAll(dir, `\`, "/")
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}
