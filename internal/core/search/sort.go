package search

// OrderTerm is one key of an ordering
type OrderTerm struct {
	Field Field
	Desc  bool
}

// relevanceOrder is fixed: featured first, then reputation, then recency.
// The caller's sort order never applies to it.
var relevanceOrder = []OrderTerm{
	{Field: FieldIsFeatured, Desc: true},
	{Field: FieldTalentScore, Desc: true},
	{Field: FieldLastActiveAt, Desc: true},
}

// ResolveOrdering maps a logical sort key and direction to concrete order terms.
// A final ascending id term makes the ordering total so offset windows are stable.
func ResolveOrdering(sortBy SortBy, order SortOrder) []OrderTerm {
	desc := order != SortAsc

	var terms []OrderTerm
	switch sortBy {
	case SortActivity:
		terms = []OrderTerm{{Field: FieldLastActiveAt, Desc: desc}}
	case SortScore:
		terms = []OrderTerm{{Field: FieldTalentScore, Desc: desc}}
	case SortExperience:
		terms = []OrderTerm{{Field: FieldYearsExperience, Desc: desc}}
	default:
		terms = append([]OrderTerm(nil), relevanceOrder...)
	}

	return append(terms, OrderTerm{Field: FieldID})
}
