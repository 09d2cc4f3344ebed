package recommend

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/safar/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name, description string, featured bool) models.Product {
	return models.Product{ID: uuid.New(), Name: name, Description: description, Featured: featured}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestGoalTableLoaded(t *testing.T) {
	goals := Goals()
	require.Len(t, goals, 7)
	assert.Equal(t, Goal("Weight Loss"), goals[0])
	assert.Equal(t, Goal("Skin Health"), goals[6])

	kw := Keywords("Energy & Focus")
	assert.Equal(t, []string{"NAD+", "Semax", "Selank", "SS-31", "energy", "focus", "cognitive"}, kw)

	kw[0] = "mutated"
	assert.Equal(t, "NAD+", Keywords("Energy & Focus")[0], "Keywords returns a copy")

	assert.Nil(t, Keywords("Telepathy"))
	assert.False(t, Known("Telepathy"))
}

func TestParseGoalsTableErrors(t *testing.T) {
	_, _, err := parseGoals([]byte("goals:\n  - name: A\n  - name: A\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, _, err = parseGoals([]byte("goals:\n  - keywords: [x]\n"))
	assert.ErrorContains(t, err, "without name")

	_, _, err = parseGoals([]byte("goals: {"))
	assert.Error(t, err)
}

func TestRecommendNoGoalsNoFeatured(t *testing.T) {
	catalog := []models.Product{product("BPC-157", "", false)}

	got := Recommend(nil, catalog)
	assert.Empty(t, got.Primary)
	assert.Empty(t, got.Secondary)
	assert.NotNil(t, got.Primary)
	assert.NotNil(t, got.Secondary)
}

func TestRecommendNoGoalsUsesFeatured(t *testing.T) {
	catalog := []models.Product{
		product("A", "", true),
		product("B", "", false),
		product("C", "", true),
		product("D", "", true),
		product("E", "", true),
	}

	got := Recommend(nil, catalog)
	if diff := cmp.Diff([]string{"A", "C", "D"}, names(got.Primary)); diff != "" {
		t.Errorf("primary mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, got.Secondary)
}

func TestRecommendSingleMatch(t *testing.T) {
	pen := product("Semaglutide Pen", "", false)
	catalog := []models.Product{product("Thymosin", "immune support", false), pen}

	got := Recommend([]Goal{"Weight Loss"}, catalog)
	require.Len(t, got.Primary, 1)
	assert.Equal(t, pen.ID, got.Primary[0].ID)
	assert.Empty(t, got.Secondary)
}

func TestRecommendKeywordOrderThenCatalogOrder(t *testing.T) {
	catalog := []models.Product{
		product("Fat Burner Stack", "", false),
		product("Tirzepatide 10mg", "", false),
		product("Semaglutide 5mg", "", false),
		product("Semaglutide 10mg", "", false),
	}

	got := Recommend([]Goal{"Weight Loss"}, catalog)
	if diff := cmp.Diff([]string{"Semaglutide 5mg", "Semaglutide 10mg", "Tirzepatide 10mg"}, names(got.Primary)); diff != "" {
		t.Errorf("primary mismatch (-want +got):\n%s", diff)
	}
}

func TestRecommendMatchesDescriptionCaseInsensitive(t *testing.T) {
	p := product("Formula X", "Supports deep SLEEP cycles", false)

	got := Recommend([]Goal{"Better Sleep"}, []models.Product{p})
	require.Len(t, got.Primary, 1)
	assert.Equal(t, p.ID, got.Primary[0].ID)
}

func TestRecommendDedupAcrossLists(t *testing.T) {
	ghk := product("GHK-Cu", "copper peptide for skin", false)
	bpc := product("BPC-157", "recovery", false)
	melanotan := product("Melanotan II", "", false)

	got := Recommend([]Goal{"Skin Health", "Injury Recovery"}, []models.Product{bpc, ghk, melanotan})

	assert.Equal(t, []string{"GHK-Cu", "Melanotan II"}, names(got.Primary))
	assert.Equal(t, []string{"BPC-157"}, names(got.Secondary), "GHK-Cu already placed in primary")
}

func TestRecommendUnknownPrimaryFallsBackToFeatured(t *testing.T) {
	featured := product("Starter Kit", "", true)
	semax := product("Semax", "", true)
	catalog := []models.Product{featured, semax}

	got := Recommend([]Goal{"Telepathy", "Energy & Focus"}, catalog)

	assert.Equal(t, []string{"Semax"}, names(got.Secondary))
	assert.Equal(t, []string{"Starter Kit"}, names(got.Primary), "featured fallback skips products already in secondary")
}

func TestRecommendEmptyCatalog(t *testing.T) {
	got := Recommend([]Goal{"Weight Loss", "Muscle Gain"}, nil)
	assert.Empty(t, got.Primary)
	assert.Empty(t, got.Secondary)
}

func TestRecommendSubstringFalsePositive(t *testing.T) {
	p := product("Vitamin Blend", "contains NAD+ precursors", false)

	got := Recommend([]Goal{"Anti-Aging/Longevity"}, []models.Product{p})
	assert.Len(t, got.Primary, 1)
}

func TestRecommendBoundsAndUniqueness(t *testing.T) {
	var catalog []models.Product
	for _, goal := range Goals() {
		for _, kw := range Keywords(goal) {
			catalog = append(catalog, product(kw+" product", "", len(catalog)%2 == 0))
		}
	}

	selections := [][]Goal{
		nil,
		{"Weight Loss"},
		{"Muscle Gain", "Better Sleep"},
		{"Skin Health", "Anti-Aging/Longevity", "Injury Recovery"},
		Goals(),
		{"Unknown", "Energy & Focus"},
	}

	for _, goals := range selections {
		got := Recommend(goals, catalog)
		assert.LessOrEqual(t, len(got.Primary), MaxPerList)
		assert.LessOrEqual(t, len(got.Secondary), MaxPerList)

		seen := map[uuid.UUID]bool{}
		for _, p := range append(append([]models.Product{}, got.Primary...), got.Secondary...) {
			assert.False(t, seen[p.ID], "duplicate product %s for goals %v", p.Name, goals)
			seen[p.ID] = true
		}
	}
}

func TestParseGoals(t *testing.T) {
	got := ParseGoals([]string{" Weight Loss ", "", "Muscle Gain", "Weight Loss"})
	assert.Equal(t, []Goal{"Weight Loss", "Muscle Gain"}, got)
}
