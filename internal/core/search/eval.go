package search

import (
	"strings"

	"Gitcaster/internal/core/profiles"
)

// Match evaluates a predicate against a profile in memory.
// It is the reference semantics every storage adapter must reproduce.
func Match(p Predicate, prof *profiles.Profile) bool {
	switch node := p.(type) {
	case And:
		for _, child := range node {
			if !Match(child, prof) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range node {
			if Match(child, prof) {
				return true
			}
		}
		return false
	case Cond:
		return matchCond(node, prof)
	default:
		return false
	}
}

func matchCond(c Cond, prof *profiles.Profile) bool {
	switch c.Op {
	case OpIsTrue:
		b, ok := boolField(c.Field, prof)
		return ok && b

	case OpContainsFold:
		s, ok := textField(c.Field, prof)
		needle, _ := c.Value.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(needle))

	case OpInFold:
		s, ok := textField(c.Field, prof)
		set, _ := c.Value.([]string)
		if !ok {
			return false
		}
		for _, v := range set {
			if strings.EqualFold(s, v) {
				return true
			}
		}
		return false

	case OpHasElem:
		needle, _ := c.Value.(string)
		for _, elem := range listField(c.Field, prof) {
			if elem == needle {
				return true
			}
		}
		return false

	case OpOverlapsFold:
		set, _ := c.Value.([]string)
		for _, elem := range listField(c.Field, prof) {
			for _, v := range set {
				if strings.EqualFold(elem, v) {
					return true
				}
			}
		}
		return false

	case OpGte, OpLte:
		n, ok := intField(c.Field, prof)
		bound, _ := c.Value.(int)
		if !ok {
			return false
		}
		if c.Op == OpGte {
			return n >= bound
		}
		return n <= bound

	case OpNotNull:
		switch c.Field {
		case FieldGitHubUsername:
			return prof.GitHubUsername != nil
		case FieldTalentScore:
			return prof.TalentScore != nil
		}
		return false
	}
	return false
}

func boolField(f Field, prof *profiles.Profile) (bool, bool) {
	switch f {
	case FieldIsPublic:
		return prof.IsPublic, true
	case FieldIsFeatured:
		return prof.IsFeatured, true
	}
	return false, false
}

func textField(f Field, prof *profiles.Profile) (string, bool) {
	switch f {
	case FieldID:
		return prof.ID, true
	case FieldDisplayName:
		return prof.DisplayName, true
	case FieldBio:
		return prof.Bio, true
	case FieldLocation:
		return prof.Location, true
	case FieldExperienceLevel:
		return prof.ExperienceLevel, true
	case FieldGitHubUsername:
		if prof.GitHubUsername == nil {
			return "", false
		}
		return *prof.GitHubUsername, true
	}
	return "", false
}

func intField(f Field, prof *profiles.Profile) (int, bool) {
	switch f {
	case FieldYearsExperience:
		return prof.YearsExperience, true
	case FieldTalentScore:
		if prof.TalentScore == nil {
			return 0, false
		}
		return *prof.TalentScore, true
	}
	return 0, false
}

func listField(f Field, prof *profiles.Profile) []string {
	switch f {
	case FieldSkills:
		return prof.Skills
	case FieldLanguages:
		return prof.Languages
	case FieldSearchTags:
		return prof.SearchTags
	}
	return nil
}

// Less reports whether a sorts before b under the ordering.
// Null values sort last regardless of direction.
func Less(order []OrderTerm, a, b *profiles.Profile) bool {
	for _, term := range order {
		c := compareField(term.Field, a, b)
		if c == 0 {
			continue
		}
		if term.nullsLastFlip(a, b) {
			return c < 0
		}
		if term.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// nullsLastFlip reports whether exactly one side is null, in which case the
// direction of the term must not reorder nulls ahead of values.
func (t OrderTerm) nullsLastFlip(a, b *profiles.Profile) bool {
	if t.Field != FieldTalentScore {
		return false
	}
	return (a.TalentScore == nil) != (b.TalentScore == nil)
}

// compareField returns -1, 0 or 1. For talent score a null compares greater
// than any value so that it lands last once nullsLastFlip is applied.
func compareField(f Field, a, b *profiles.Profile) int {
	switch f {
	case FieldIsFeatured:
		return compareBool(a.IsFeatured, b.IsFeatured)
	case FieldTalentScore:
		switch {
		case a.TalentScore == nil && b.TalentScore == nil:
			return 0
		case a.TalentScore == nil:
			return 1
		case b.TalentScore == nil:
			return -1
		}
		return compareInt(*a.TalentScore, *b.TalentScore)
	case FieldLastActiveAt:
		return a.LastActiveAt.Compare(b.LastActiveAt)
	case FieldYearsExperience:
		return compareInt(a.YearsExperience, b.YearsExperience)
	case FieldID:
		return strings.Compare(a.ID, b.ID)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
