package taxonomy

import "sort"

// Variants returns the surface forms term is known by: the canonical term,
// its synonyms and term itself. The canonical term comes first, the rest are
// sorted. Inflected forms are covered by StemKey rather than listed here.
func (t *Taxonomy) Variants(term string) []string {
	canon := t.Canonical(term)

	seen := map[string]struct{}{canon: {}}
	var rest []string
	forms := append([]string{}, t.aliases[canon]...)
	if term != canon {
		forms = append(forms, term)
	}
	for _, f := range forms {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		rest = append(rest, f)
	}

	sort.Strings(rest)
	return append([]string{canon}, rest...)
}

func isLetters(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
