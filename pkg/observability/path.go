package observability

import "strings"

// normalizePath replaces numeric SUIDs and style names in CyREST paths so
// label cardinality stays bounded.
//
//	/v1/networks/52/views/104 -> /v1/networks/{suid}/views/{suid}
//	/v1/styles/ppi%20style/mappings -> /v1/styles/{name}/mappings
func normalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		switch {
		case p == "":
		case isDigits(p):
			parts[i] = "{suid}"
		case i > 0 && parts[i-1] == "styles" && p != "visualproperties":
			parts[i] = "{name}"
		case strings.Contains(p, "."):
			// views/104.png
			if dot := strings.LastIndexByte(p, '.'); isDigits(p[:dot]) {
				parts[i] = "{suid}" + p[dot:]
			}
		}
	}
	return strings.Join(parts, "/")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
