package filter

import "strings"

// FilterID builds the durable key a search's persisted state is
// keyed by: sanitize(filterName_deck_stake) (spec §3, "Persisted
// search state").
func FilterID(name string, deck, stake string) string {
	if name == "" {
		name = "unnamed"
	}
	raw := name + "_" + deck + "_" + stake
	return sanitizeID(raw)
}

// sanitizeID lowercases and replaces every run of non-alphanumeric
// characters with a single underscore, so the result is safe as both
// a SQL primary key and a URL query value.
func sanitizeID(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	prevUnderscore := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
