package profiles

import (
	"sort"
	"strings"
	"unicode"
)

// BuildSearchTags derives the lowercase tag set matched exactly by free-text search:
// skills, languages, display name words and the GitHub username.
func BuildSearchTags(p *Profile) []string {
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			seen[tag] = true
		}
	}

	for _, skill := range p.Skills {
		add(skill)
	}
	for _, lang := range p.Languages {
		add(lang)
	}
	for _, word := range strings.FieldsFunc(p.DisplayName, isTagSeparator) {
		add(word)
	}
	if p.GitHubUsername != nil {
		add(*p.GitHubUsername)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func isTagSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';' || r == '/' || r == '|'
}
