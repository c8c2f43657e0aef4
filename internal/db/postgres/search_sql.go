package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Gitcaster/internal/core/search"
)

// searchColumns maps search fields to developer_profiles columns.
// Only fields listed here may appear in generated SQL.
var searchColumns = map[search.Field]string{
	search.FieldID:              "id",
	search.FieldIsPublic:        "is_public",
	search.FieldIsFeatured:      "is_featured",
	search.FieldDisplayName:     "display_name",
	search.FieldBio:             "bio",
	search.FieldSearchTags:      "search_tags",
	search.FieldGitHubUsername:  "github_username",
	search.FieldLocation:        "location",
	search.FieldExperienceLevel: "experience_level",
	search.FieldYearsExperience: "years_experience",
	search.FieldTalentScore:     "talent_score",
	search.FieldSkills:          "skills",
	search.FieldLanguages:       "languages",
	search.FieldLastActiveAt:    "last_active_at",
}

// nullableColumns sort NULLS LAST in both directions
var nullableColumns = map[search.Field]bool{
	search.FieldTalentScore:    true,
	search.FieldGitHubUsername: true,
}

// sqlBuilder accumulates positional arguments while a predicate is rendered
type sqlBuilder struct {
	args []interface{}
}

func (b *sqlBuilder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// renderWhere renders a predicate into a boolean SQL expression and its arguments
func renderWhere(p search.Predicate) (string, []interface{}, error) {
	b := &sqlBuilder{}
	expr, err := b.render(p)
	if err != nil {
		return "", nil, err
	}
	return expr, b.args, nil
}

func (b *sqlBuilder) render(p search.Predicate) (string, error) {
	switch node := p.(type) {
	case search.And:
		return b.join(node, " AND ", "TRUE")
	case search.Or:
		return b.join(node, " OR ", "FALSE")
	case search.Cond:
		return b.cond(node)
	case nil:
		return "TRUE", nil
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func (b *sqlBuilder) join(children []search.Predicate, sep, empty string) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for _, child := range children {
		part, err := b.render(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (b *sqlBuilder) cond(c search.Cond) (string, error) {
	col, ok := searchColumns[c.Field]
	if !ok {
		return "", fmt.Errorf("unknown search field %q", c.Field)
	}

	switch c.Op {
	case search.OpIsTrue:
		return col + " = TRUE", nil

	case search.OpContainsFold:
		s, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("%s: %s expects a string", c.Field, c.Op)
		}
		return fmt.Sprintf("%s ILIKE %s", col, b.bind("%"+escapeLike(s)+"%")), nil

	case search.OpInFold:
		set, ok := c.Value.([]string)
		if !ok {
			return "", fmt.Errorf("%s: %s expects a string list", c.Field, c.Op)
		}
		return fmt.Sprintf("lower(%s) = ANY(%s)", col, b.bind(pq.Array(lowerAll(set)))), nil

	case search.OpHasElem:
		s, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("%s: %s expects a string", c.Field, c.Op)
		}
		// @> lets the planner use the GIN index
		return fmt.Sprintf("%s @> ARRAY[%s]::text[]", col, b.bind(s)), nil

	case search.OpOverlapsFold:
		set, ok := c.Value.([]string)
		if !ok {
			return "", fmt.Errorf("%s: %s expects a string list", c.Field, c.Op)
		}
		return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE lower(elem) = ANY(%s))",
			col, b.bind(pq.Array(lowerAll(set)))), nil

	case search.OpGte, search.OpLte:
		n, ok := c.Value.(int)
		if !ok {
			return "", fmt.Errorf("%s: %s expects an integer", c.Field, c.Op)
		}
		cmp := ">="
		if c.Op == search.OpLte {
			cmp = "<="
		}
		return fmt.Sprintf("%s %s %s", col, cmp, b.bind(n)), nil

	case search.OpNotNull:
		return col + " IS NOT NULL", nil
	}

	return "", fmt.Errorf("unsupported operator %q", c.Op)
}

// renderOrderBy renders order terms into an ORDER BY list (without the keyword)
func renderOrderBy(terms []search.OrderTerm) (string, error) {
	if len(terms) == 0 {
		return "id ASC", nil
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		col, ok := searchColumns[t.Field]
		if !ok {
			return "", fmt.Errorf("unknown sort field %q", t.Field)
		}
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		part := col + " " + dir
		if nullableColumns[t.Field] {
			part += " NULLS LAST"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", "), nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
