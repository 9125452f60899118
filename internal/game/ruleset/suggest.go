package ruleset

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps the near matches returned for a lookup miss.
const maxSuggestions = 3

// SuggestSkill returns skill keys close to key, nearest first.
func (r *Rules) SuggestSkill(key string) []string {
	return suggest(key, keysOf(r.skills, func(i int) (string, string) { return r.skills[i].Key, r.skills[i].Label }))
}

// SuggestSpecialization returns specialization keys close to key.
func (r *Rules) SuggestSpecialization(key string) []string {
	return suggest(key, keysOf(r.specializations, func(i int) (string, string) {
		return r.specializations[i].Key, r.specializations[i].Label
	}))
}

// SuggestDifficulty returns difficulty keys close to key.
func (r *Rules) SuggestDifficulty(key string) []string {
	return suggest(key, keysOf(r.difficulties, func(i int) (string, string) {
		return r.difficulties[i].Key, r.difficulties[i].Label
	}))
}

// SuggestCombatAction returns combat action keys close to key.
func (r *Rules) SuggestCombatAction(key string) []string {
	return suggest(key, keysOf(r.actions, func(i int) (string, string) { return r.actions[i].Key, r.actions[i].Label }))
}

type candidate struct {
	key   string
	label string
}

func keysOf[T any](table []T, at func(i int) (string, string)) []candidate {
	out := make([]candidate, len(table))
	for i := range table {
		out[i].key, out[i].label = at(i)
	}
	return out
}

// suggest ranks candidates by edit distance to input against both key and
// label, case-insensitively, keeping those within the length-scaled limit.
func suggest(input string, cands []candidate) []string {
	in := normalize(input)
	if len(in) < 3 {
		return nil
	}

	type scored struct {
		key  string
		dist int
	}
	var hits []scored
	for _, c := range cands {
		best := -1
		for _, alias := range []string{normalize(c.key), normalize(c.label)} {
			if alias == "" {
				continue
			}
			d := levenshtein.ComputeDistance(in, alias)
			if strings.HasPrefix(alias, in) {
				d = 0
			}
			if d > levenshteinLimit(len(alias)) {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 {
			hits = append(hits, scored{key: c.key, dist: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].key < hits[j].key
		}
		return hits[i].dist < hits[j].dist
	})
	if len(hits) > maxSuggestions {
		hits = hits[:maxSuggestions]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.key
	}
	return out
}

func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "", "(", "", ")", "").Replace(s)
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
