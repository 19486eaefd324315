package visibility

import "strings"

// Curated alias lists for multi-word institutional names whose common
// spellings differ substantially from their brand IDs. Keyed by a
// substring of the brand ID; extend with RegisterAliases.
var institutionAliases = map[string][]string{
	"army": {"U.S. Army", "US Army", "United States Army", "Army"},
	"navy": {"U.S. Navy", "US Navy", "United States Navy", "Navy"},
}

// RegisterAliases adds alias spellings for brand IDs containing the
// given substring. Matching is case-insensitive.
func RegisterAliases(idSubstring string, aliases ...string) {
	key := strings.ToLower(idSubstring)
	institutionAliases[key] = append(institutionAliases[key], aliases...)
}

// BrandVariations builds the set of spellings a brand may appear under
// in free text: the raw ID, hyphen/underscore to space transforms, title
// and upper case, plus any registered institutional aliases. The result
// is lower-cased and deduplicated since all matching is
// case-insensitive.
func BrandVariations(brandID string) []string {
	candidates := []string{
		brandID,
		strings.ReplaceAll(brandID, "-", " "),
		strings.ReplaceAll(brandID, "_", " "),
		titleCase(brandID),
		strings.ToUpper(brandID),
	}

	idLower := strings.ToLower(brandID)
	for key, aliases := range institutionAliases {
		if strings.Contains(idLower, key) {
			candidates = append(candidates, aliases...)
		}
	}

	seen := map[string]struct{}{}
	variations := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if lower == "" {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		variations = append(variations, lower)
	}
	return variations
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
