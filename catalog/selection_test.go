package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/booklore/catalog-go/catalog"
)

func Test_AnalyzeDemand_DecidesFromTheFieldSelection(t *testing.T) {
	topLevel := catalog.NewFieldSelection().With("name").With(catalog.FieldBookCount)
	nested := catalog.NewFieldSelection().
		With("title").
		WithNested(catalog.FieldAuthor, catalog.NewFieldSelection().With(catalog.FieldBookCount))
	slim := catalog.NewFieldSelection().
		With("title").
		WithNested(catalog.FieldAuthor, catalog.NewFieldSelection().With("name"))
	empty := catalog.NewFieldSelection()

	testCases := []struct {
		name      string
		selection *catalog.FieldSelection
		expected  catalog.Demand
	}{
		{"nil selection is conservative", nil, catalog.Demand{AuthorBookCount: true}},
		{"empty selection is conservative", &empty, catalog.Demand{AuthorBookCount: true}},
		{"top-level bookCount", &topLevel, catalog.Demand{AuthorBookCount: true}},
		{"bookCount nested under author", &nested, catalog.Demand{AuthorBookCount: true}},
		{"selection without bookCount", &slim, catalog.Demand{AuthorBookCount: false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, catalog.AnalyzeDemand(tc.selection))
		})
	}
}

func Test_AnalyzeDemand_IsDeterministicForIdenticalSelections(t *testing.T) {
	// arrange
	first := catalog.NewFieldSelection().
		WithNested(catalog.FieldAuthor, catalog.NewFieldSelection().With(catalog.FieldBookCount))
	second := catalog.NewFieldSelection().
		WithNested(catalog.FieldAuthor, catalog.NewFieldSelection().With(catalog.FieldBookCount))

	// act + assert
	assert.Equal(t, catalog.AnalyzeDemand(&first), catalog.AnalyzeDemand(&second),
		"Identical selections must yield identical demands")
}

func Test_FieldSelection_NestedOfUnrequestedFieldIsEmpty(t *testing.T) {
	// arrange
	selection := catalog.NewFieldSelection().With("title")

	// act + assert
	assert.True(t, selection.Nested(catalog.FieldAuthor).IsEmpty(),
		"An unrequested field has an empty nested selection")
	assert.False(t, selection.Nested(catalog.FieldAuthor).Has(catalog.FieldBookCount))
}
