// Package variant deterministically selects textual patterns per
// combination. Selection canonicalizes the combination before hashing, so
// it never depends on map iteration order, and uses no random seed:
// identical inputs yield the identical variant across processes and
// restarts.
package variant

import (
	"hash/fnv"
	"strings"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// locationVariables are variable names that mark a service-location
// template. Matched case-insensitively.
var locationVariables = map[string]bool{
	"city": true, "location": true, "town": true, "area": true,
	"region": true, "neighborhood": true, "state": true,
}

// DetectContentType classifies a template into one of the pattern palettes.
func DetectContentType(tmpl *model.Template) model.ContentType {
	pattern := " " + strings.ToLower(tmpl.Pattern) + " "
	if strings.Contains(pattern, " vs ") || strings.Contains(pattern, " versus ") {
		return model.ContentTypeComparison
	}
	for _, v := range tmpl.Variables {
		if locationVariables[strings.ToLower(v)] {
			return model.ContentTypeServiceLocation
		}
	}
	return model.ContentTypeGeneric
}

// Select picks intro/body/closing indices for a combination. Pure function
// of (templateID, combination): the combination is canonicalized via its
// sorted-pair key, hashed with FNV-1a, and each index is taken by modulo
// against the catalog size.
func Select(templateID string, c model.Combination, ct model.ContentType) model.ContentVariant {
	h := fnv.New64a()
	h.Write([]byte(templateID))
	h.Write([]byte{0x1f})
	h.Write([]byte(c.Key()))
	sum := h.Sum64()

	cat := CatalogFor(ct)
	return model.ContentVariant{
		ContentType: ct,
		IntroIdx:    int(sum % uint64(len(cat.Intros))),
		BodyIdx:     int((sum >> 8) % uint64(len(cat.Bodies))),
		ClosingIdx:  int((sum >> 16) % uint64(len(cat.Closings))),
	}
}
