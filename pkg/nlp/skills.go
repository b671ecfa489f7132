package nlp

// aliases groups spellings recruiters use for the same skill.
var aliases = [][]string{
	{"postgres", "postgresql"},
	{"k8s", "kubernetes"},
	{"golang", "go"},
	{"js", "javascript"},
	{"ts", "typescript"},
	{"rest", "rest api"},
	{"ci/cd", "cicd", "ci cd"},
	{"1c", "1с"},
}

var aliasIndex = func() map[string][]string {
	idx := make(map[string][]string)
	for _, group := range aliases {
		for _, name := range group {
			idx[name] = group
		}
	}
	return idx
}()

// SkillVariants returns the search term followed by its known aliases.
func SkillVariants(term string) []string {
	base := SkillKey(term)
	if base == "" {
		return []string{}
	}
	out := []string{base}
	for _, alt := range aliasIndex[base] {
		if alt != base {
			out = append(out, alt)
		}
	}
	return out
}
