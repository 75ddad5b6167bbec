// Package search turns public search parameters into store predicates and the
// post-fetch refinement applied to joined pharmacy fields.
package search

import (
	"net/url"
	"sort"
	"strings"

	"medfinder/internal/domain"
)

// CategoryAll is the category value meaning "no category filter"
const CategoryAll = "All"

// Params are the raw public search parameters
type Params struct {
	Name     string
	Category string
	City     string
	Pincode  string
}

// ParamsFromQuery reads search parameters from a query string
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		City:     q.Get("city"),
		Pincode:  q.Get("pincode"),
	}
}

// Filter is the normalized search predicate.
//
// Name and Category apply to the medicine itself and can be evaluated by the
// store. City and Pincode apply to the joined pharmacy; stores may push them
// into a join, and Refine always applies them after the fetch.
type Filter struct {
	Name     string
	Category domain.Category
	City     string
	Pincode  string
}

// BuildFilter normalizes params into a Filter. Blank values are absent and the
// "All" category is a no-op.
func BuildFilter(p Params) Filter {
	f := Filter{
		Name:    strings.TrimSpace(p.Name),
		City:    strings.TrimSpace(p.City),
		Pincode: strings.TrimSpace(p.Pincode),
	}

	if category := strings.TrimSpace(p.Category); category != "" && category != CategoryAll {
		f.Category = domain.Category(category)
	}

	return f
}

// MatchesMedicine evaluates the store level part of the predicate.
// Out of stock medicines never match.
func (f Filter) MatchesMedicine(m *domain.Medicine) bool {
	if !m.InStock() {
		return false
	}
	if f.Name != "" && !containsFold(m.Name, f.Name) {
		return false
	}
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	return true
}

// MatchesPharmacy evaluates the joined pharmacy part of the predicate
func (f Filter) MatchesPharmacy(p *domain.PharmacySummary) bool {
	if f.City == "" && f.Pincode == "" {
		return true
	}
	if p == nil {
		return false
	}
	if f.City != "" && !containsFold(p.Location.City, f.City) {
		return false
	}
	if f.Pincode != "" && p.Location.Pincode != f.Pincode {
		return false
	}
	return true
}

// Refine applies the location filters to joined results, keeping order
func (f Filter) Refine(medicines []*domain.Medicine) []*domain.Medicine {
	if f.City == "" && f.Pincode == "" {
		return medicines
	}

	out := make([]*domain.Medicine, 0, len(medicines))
	for _, m := range medicines {
		if f.MatchesPharmacy(m.Pharmacy) {
			out = append(out, m)
		}
	}
	return out
}

// SortByLastUpdated orders medicines most recently updated first
func SortByLastUpdated(medicines []*domain.Medicine) {
	sort.SliceStable(medicines, func(i, j int) bool {
		return medicines[i].LastUpdated.After(medicines[j].LastUpdated)
	})
}

// LikePattern builds an escaped ILIKE pattern matching s as a substring
func LikePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
