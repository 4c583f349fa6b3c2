package catalog

// Field names understood by the demand analysis. They mirror the field
// names of the read surface, one nested relation hop deep.
const (
	FieldBookCount = "bookCount"
	FieldAuthor    = "author"
)

// FieldSelection is the abstract shape of the output fields a caller
// requested for a read query: a tree of field names, at most one level
// nested into a related entity.
//
// It deliberately knows nothing about any query transport - whatever
// produced it (a GraphQL selection set, an HTTP query parameter, a
// hand-built value in tests) is irrelevant to the planner.
type FieldSelection struct {
	fields map[string]FieldSelection
}

// NewFieldSelection creates an empty selection.
func NewFieldSelection() FieldSelection {
	return FieldSelection{fields: make(map[string]FieldSelection)}
}

// With adds a leaf field to the selection and returns the modified selection.
func (s FieldSelection) With(field string) FieldSelection {
	return s.WithNested(field, FieldSelection{})
}

// WithNested adds a field with its own nested selection and returns the modified selection.
func (s FieldSelection) WithNested(field string, nested FieldSelection) FieldSelection {
	if s.fields == nil {
		s.fields = make(map[string]FieldSelection)
	}

	s.fields[field] = nested

	return s
}

// Has reports whether the field was requested at this level.
func (s FieldSelection) Has(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Nested returns the nested selection of the given field.
// It returns an empty selection if the field was not requested.
func (s FieldSelection) Nested(field string) FieldSelection {
	return s.fields[field]
}

// IsEmpty reports whether the selection carries no fields at all.
// An empty selection is treated as "absent" by AnalyzeDemand.
func (s FieldSelection) IsEmpty() bool {
	return len(s.fields) == 0
}

// Demand is the decision set produced by analyzing a field selection.
// It tells the relation fetch planner which optional derived fields
// must actually be computed.
type Demand struct {
	// AuthorBookCount is true when the caller requested the derived
	// per-author book count, either top-level (authors query) or
	// nested under the author relation (books query).
	AuthorBookCount bool
}

// AnalyzeDemand inspects a field selection and decides which derived
// fields the fetch must compute.
//
// The decision is a pure function of the selection: identical
// selections always yield identical demands. An absent (nil) or empty
// selection yields the conservative demand with every derivable field
// requested, so a caller that cannot express its selection still gets
// complete data rather than silently missing fields.
func AnalyzeDemand(selection *FieldSelection) Demand {
	if selection == nil || selection.IsEmpty() {
		return conservativeDemand()
	}

	return Demand{
		AuthorBookCount: selection.Has(FieldBookCount) ||
			selection.Nested(FieldAuthor).Has(FieldBookCount),
	}
}

// conservativeDemand requests every derivable field.
func conservativeDemand() Demand {
	return Demand{AuthorBookCount: true}
}
