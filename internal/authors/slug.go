package authors

import "strings"

// Slugify turns a display name into the API author slug:
// trimmed, lower-cased, periods removed, whitespace runs joined by one hyphen.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(name), "-")
}
