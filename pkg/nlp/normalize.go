package nlp

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// CleanSkill trims and collapses inner whitespace, keeping the original case
// and punctuation ("C++", "CI/CD").
func CleanSkill(skill string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(skill, " "))
}

// SkillKey is the deduplication key for skill names.
func SkillKey(skill string) string {
	return strings.ToLower(CleanSkill(skill))
}
