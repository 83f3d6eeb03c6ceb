package spotify

import "strings"

// normalizeQuery cleans an "{emotion} {genre}" search query before it hits
// the API: separators collapse to spaces, runs of whitespace collapse to one.
// Genre names in the catalog carry slashes and ampersands ("Drum & Bass",
// "Hip-Hop/Rap") that hurt playlist search recall.
func normalizeQuery(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	cleaned := cleanSeparators(strings.ToLower(strings.TrimSpace(input)))
	return strings.Join(strings.Fields(cleaned), " ")
}

func cleanSeparators(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch r {
		case '/', '\\', '&', '+', '-', '_', ',', '.':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
