package match

// SynonymIndex resolves a term to its equivalence class. The source table
// maps a canonical term to variants; the index is built bidirectionally so a
// lookup on any member returns the whole class. The index is read-only after
// construction and safe for concurrent use.
type SynonymIndex struct {
	classes map[string][]string
}

// NewSynonymIndex builds a bidirectional index from a canonical -> variants
// table. All terms are normalized on the way in.
func NewSynonymIndex(table map[string][]string) *SynonymIndex {
	classes := make(map[string][]string)

	for canonical, variants := range table {
		members := make([]string, 0, len(variants)+1)
		seen := make(map[string]struct{})

		add := func(term string) {
			term = Normalize(term)
			if term == "" {
				return
			}
			if _, ok := seen[term]; ok {
				return
			}
			seen[term] = struct{}{}
			members = append(members, term)
		}

		add(canonical)
		for _, v := range variants {
			add(v)
		}

		for _, member := range members {
			classes[member] = appendUnique(classes[member], members)
		}
	}

	return &SynonymIndex{classes: classes}
}

func appendUnique(dst []string, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}

// Variants returns every term equivalent to the given one, including the
// normalized term itself. Terms outside any equivalence class return a
// single-element slice.
func (idx *SynonymIndex) Variants(term string) []string {
	norm := Normalize(term)
	if norm == "" {
		return nil
	}
	if idx == nil {
		return []string{norm}
	}
	if class, ok := idx.classes[norm]; ok {
		return class
	}
	return []string{norm}
}
