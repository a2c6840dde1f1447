package provider

import "strings"

// scaleConfidence maps a vendor-reported confidence onto the common
// 0-100 range. Vendors report either a 0-1 fraction or a 0-100 score;
// zero means the vendor reported nothing, so the adapter default applies.
func scaleConfidence(c, fallback float64) float64 {
	switch {
	case c <= 0:
		return fallback
	case c <= 1:
		return c * 100
	case c > 100:
		return 100
	default:
		return c
	}
}

// joinLocation joins the non-empty location parts with ", ".
func joinLocation(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// splitName derives first and last name from a full name when the caller
// supplied only the combined form.
func splitName(full string) (first, last string) {
	words := strings.Fields(full)
	if len(words) == 0 {
		return "", ""
	}
	if len(words) == 1 {
		return words[0], ""
	}
	return words[0], strings.Join(words[1:], " ")
}
