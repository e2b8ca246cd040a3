package domain

import "strings"

// Chat themes shared by conversations and rooms
const (
	ThemeDefault  = "default"
	ThemeSunset   = "sunset"
	ThemeOcean    = "ocean"
	ThemeForest   = "forest"
	ThemeMidnight = "midnight"
	ThemeRose     = "rose"
)

var validThemes = map[string]bool{
	ThemeDefault:  true,
	ThemeSunset:   true,
	ThemeOcean:    true,
	ThemeForest:   true,
	ThemeMidnight: true,
	ThemeRose:     true,
}

// IsValidTheme reports whether the theme name is known
func IsValidTheme(theme string) bool {
	return validThemes[theme]
}

// SplitCSV splits a comma-separated column into trimmed parts
func SplitCSV(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinCSV joins parts into a comma-separated column value
func JoinCSV(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

// Summarize truncates trimmed content for last-activity previews
func Summarize(content string, max int) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max])
}
