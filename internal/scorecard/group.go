package scorecard

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// NoCategoryKey is the sentinel group for criteria without a category.
	NoCategoryKey = "no_category"
	// UncategorizedLabel is shown for the sentinel group and for nameless categories.
	UncategorizedLabel = "Без категории"
)

// Group is one category partition with its criteria in catalog order.
type Group struct {
	Key      string
	Name     string
	Criteria []Criterion
}

// Grouped is a criterion annotated with its presentation boundaries.
type Grouped struct {
	Criterion         Criterion
	CategoryKey       string
	CategoryName      string
	IsFirstInCategory bool
	IsLastInCategory  bool
}

type groupAcc struct {
	group   Group
	sortKey string
}

// GroupCriteria partitions criteria by category id. Named categories come first in
// ascending collation order, the uncategorized group always last. Criteria
// without a category object join the uncategorized group. A category with an
// id but no name is labelled as uncategorized but sorted by its id.
func GroupCriteria(criteria []Criterion) []Group {
	byKey := make(map[string]*groupAcc)
	var order []string
	for _, c := range criteria {
		key, name, sortKey := categoryOf(c)
		acc, ok := byKey[key]
		if !ok {
			acc = &groupAcc{group: Group{Key: key, Name: name}, sortKey: sortKey}
			byKey[key] = acc
			order = append(order, key)
		}
		acc.group.Criteria = append(acc.group.Criteria, c)
	}

	col := collate.New(language.Russian)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := byKey[order[i]], byKey[order[j]]
		if a.group.Key == NoCategoryKey {
			return false
		}
		if b.group.Key == NoCategoryKey {
			return true
		}
		return col.CompareString(a.sortKey, b.sortKey) < 0
	})

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, byKey[key].group)
	}
	return groups
}

// Order flattens grouped criteria into render order with boundary flags.
func Order(criteria []Criterion) []Grouped {
	var out []Grouped
	for _, g := range GroupCriteria(criteria) {
		for i, c := range g.Criteria {
			out = append(out, Grouped{
				Criterion:         c,
				CategoryKey:       g.Key,
				CategoryName:      g.Name,
				IsFirstInCategory: i == 0,
				IsLastInCategory:  i == len(g.Criteria)-1,
			})
		}
	}
	return out
}

func categoryOf(c Criterion) (key, name, sortKey string) {
	if c.Category == nil {
		return NoCategoryKey, UncategorizedLabel, ""
	}
	key = strconv.FormatInt(c.Category.ID, 10)
	if c.Category.Name != "" {
		return key, c.Category.Name, c.Category.Name
	}
	return key, UncategorizedLabel, key
}
