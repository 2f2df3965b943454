package respond

import (
	"net/http"

	"github.com/munnerz/goautoneg"
)

// PrefersJSON reports whether the Accept header allows JSON but not HTML.
// A missing Accept header allows everything, so it does not prefer JSON.
func PrefersJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	clauses := goautoneg.ParseAccept(accept)
	return accepts(clauses, "application", "json") &&
		!accepts(clauses, "text", "html") &&
		!accepts(clauses, "application", "xhtml+xml")
}

// accepts reports whether the most specific clause matching typ/sub has a non-zero quality.
func accepts(clauses []goautoneg.Accept, typ, sub string) bool {
	best, q := -1, 0.0
	for _, c := range clauses {
		var rank int
		switch {
		case c.Type == typ && c.SubType == sub:
			rank = 2
		case c.Type == typ && c.SubType == "*":
			rank = 1
		case c.Type == "*" && c.SubType == "*":
			rank = 0
		default:
			continue
		}
		if rank > best {
			best, q = rank, c.Q
		}
	}
	return best >= 0 && q > 0
}
