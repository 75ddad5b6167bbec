package search

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"medfinder/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func medicineIn(name string, category domain.Category, qty int, city, pincode string) *domain.Medicine {
	return &domain.Medicine{
		ID:                uuid.New(),
		Name:              name,
		Category:          category,
		QuantityAvailable: qty,
		Pharmacy: &domain.PharmacySummary{
			ID:       uuid.New(),
			Location: domain.Location{City: city, Pincode: pincode},
		},
	}
}

func apply(f Filter, medicines []*domain.Medicine) []*domain.Medicine {
	var matched []*domain.Medicine
	for _, m := range medicines {
		if f.MatchesMedicine(m) {
			matched = append(matched, m)
		}
	}
	return f.Refine(matched)
}

func TestBuildFilter_Normalizes(t *testing.T) {
	f := BuildFilter(Params{Name: "  asp ", Category: " Tablet ", City: " Pune", Pincode: "411001 "})

	if f.Name != "asp" || f.Category != domain.CategoryTablet || f.City != "Pune" || f.Pincode != "411001" {
		t.Fatalf("unexpected filter: %+v", f)
	}

	if all := BuildFilter(Params{Category: CategoryAll}); all.Category != "" {
		t.Fatalf("expected All to clear category, got %q", all.Category)
	}
}

func TestParamsFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("name", "para")
	q.Set("category", "Syrup")
	q.Set("city", "Mumbai")
	q.Set("pincode", "400001")

	p := ParamsFromQuery(q)
	if p != (Params{Name: "para", Category: "Syrup", City: "Mumbai", Pincode: "400001"}) {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestFilter_ExcludesOutOfStock(t *testing.T) {
	empty := medicineIn("Aspirin", domain.CategoryTablet, 0, "Pune", "411001")
	stocked := medicineIn("Aspirin", domain.CategoryTablet, 3, "Pune", "411001")

	got := apply(BuildFilter(Params{}), []*domain.Medicine{empty, stocked})
	if len(got) != 1 || got[0] != stocked {
		t.Fatalf("expected only the stocked medicine, got %d results", len(got))
	}
}

func TestFilter_NameIsCaseInsensitiveSubstring(t *testing.T) {
	m := medicineIn("Aspirin", domain.CategoryTablet, 10, "Pune", "411001")

	for _, name := range []string{"ASP", "asp", "pIr", "Aspirin"} {
		if !BuildFilter(Params{Name: name}).MatchesMedicine(m) {
			t.Errorf("expected %q to match Aspirin", name)
		}
	}
	if BuildFilter(Params{Name: "ibu"}).MatchesMedicine(m) {
		t.Error("expected ibu not to match Aspirin")
	}
}

func TestFilter_CityAndPincodeUseJoinedPharmacy(t *testing.T) {
	pune := medicineIn("Crocin", domain.CategoryTablet, 5, "Pune", "411001")
	mumbai := medicineIn("Crocin", domain.CategoryTablet, 5, "Mumbai", "400001")
	all := []*domain.Medicine{pune, mumbai}

	got := apply(BuildFilter(Params{City: "pune"}), all)
	if len(got) != 1 || got[0] != pune {
		t.Fatalf("city filter: expected Pune only, got %d", len(got))
	}

	got = apply(BuildFilter(Params{Pincode: "400001"}), all)
	if len(got) != 1 || got[0] != mumbai {
		t.Fatalf("pincode filter: expected Mumbai only, got %d", len(got))
	}

	got = apply(BuildFilter(Params{Pincode: "40000"}), all)
	if len(got) != 0 {
		t.Fatalf("pincode must match exactly, got %d", len(got))
	}
}

func TestSortByLastUpdated(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &domain.Medicine{Name: "a", LastUpdated: base}
	b := &domain.Medicine{Name: "b", LastUpdated: base.Add(time.Hour)}
	c := &domain.Medicine{Name: "c", LastUpdated: base.Add(-time.Hour)}

	medicines := []*domain.Medicine{a, b, c}
	SortByLastUpdated(medicines)

	if medicines[0] != b || medicines[1] != a || medicines[2] != c {
		t.Fatalf("unexpected order: %s %s %s", medicines[0].Name, medicines[1].Name, medicines[2].Name)
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	if got := LikePattern(`50%_a\b`); got != `%50\%\_a\\b%` {
		t.Fatalf("unexpected pattern %q", got)
	}
}

func genMedicines() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.OneConstOf("Aspirin", "Crocin", "Dolo", "Benadryl", "Volini"),
		gen.OneConstOf(
			domain.CategoryTablet, domain.CategorySyrup, domain.CategoryOintment, domain.CategoryDrops,
		),
		gen.IntRange(0, 5),
		gen.OneConstOf("Pune", "Mumbai", "Navi Mumbai"),
		gen.OneConstOf("411001", "400001", "400703"),
	).Map(func(v []interface{}) *domain.Medicine {
		return medicineIn(v[0].(string), v[1].(domain.Category), v[2].(int), v[3].(string), v[4].(string))
	}))
}

func TestProperty_SearchNeverReturnsOutOfStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity zero never appears", prop.ForAll(
		func(medicines []*domain.Medicine, name string, city string) bool {
			for _, m := range apply(BuildFilter(Params{Name: name, City: city}), medicines) {
				if m.QuantityAvailable <= 0 {
					return false
				}
			}
			return true
		},
		genMedicines(),
		gen.OneConstOf("", "a", "CRO", "dolo"),
		gen.OneConstOf("", "pune", "MUMBAI"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_AllCategoryIsNoOp(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("category All returns the same set as no category", prop.ForAll(
		func(medicines []*domain.Medicine) bool {
			plain := apply(BuildFilter(Params{}), medicines)
			all := apply(BuildFilter(Params{Category: CategoryAll}), medicines)

			if len(plain) != len(all) {
				return false
			}
			for i := range plain {
				if plain[i] != all[i] {
					return false
				}
			}
			return true
		},
		genMedicines(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ResultsSatisfyEveryFilter(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every result matches name, category, city and pincode", prop.ForAll(
		func(medicines []*domain.Medicine, name, category, city, pincode string) bool {
			for _, m := range apply(BuildFilter(Params{Name: name, Category: category, City: city, Pincode: pincode}), medicines) {
				if name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(name)) {
					return false
				}
				if category != "" && category != CategoryAll && string(m.Category) != category {
					return false
				}
				if city != "" && !strings.Contains(strings.ToLower(m.Pharmacy.Location.City), strings.ToLower(city)) {
					return false
				}
				if pincode != "" && m.Pharmacy.Location.Pincode != pincode {
					return false
				}
			}
			return true
		},
		genMedicines(),
		gen.OneConstOf("", "in", "VOL"),
		gen.OneConstOf("", CategoryAll, "Tablet", "Drops"),
		gen.OneConstOf("", "mumbai", "Pune"),
		gen.OneConstOf("", "400001", "411001"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
