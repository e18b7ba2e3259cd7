package zobject

import (
	"fmt"

	"labelize/internal/ordered"
)

// SimpleValue is the output of the parallel tree labeler: a JSON document
// with every string/key replaced by a StringType. Null, bool, and number
// inputs are rejected. spec.md §3, §4.3.
type SimpleValue interface {
	simpleValue()
}

type StringTypeValue struct{ S StringType }

func (StringTypeValue) simpleValue() {}

type ArrayValue struct{ Items []SimpleValue }

func (ArrayValue) simpleValue() {}

// Field is one (key, value) entry of an Object node. The field's
// StringType key is kept alongside the sort key derived from it so that
// rendering has access to the full LabelledNode, not just its sort string.
type Field struct {
	Key   StringType
	Value SimpleValue
}

type ObjectValue struct{ Fields ordered.Set[Field] }

func (ObjectValue) simpleValue() {}

// NewObject builds an ObjectValue, collapsing duplicate keys (by SortKey)
// to the last write, per spec.md §4.3 "set semantics".
func NewObject(fields ...Field) ObjectValue {
	s := ordered.Set[Field]{}
	for _, f := range fields {
		s = s.Insert(f.Key.SortKey(), f)
	}
	return ObjectValue{Fields: s}
}

// ErrUnsupportedJSONKind is returned when the labeler is asked to process a
// null, boolean, or number JSON value — outside the supported subset per
// spec.md §1 Non-goals / §4.3.
var ErrUnsupportedJSONKind = fmt.Errorf("zobject: null/bool/number input is not a supported Z-object leaf")

// ChooseLang renders a SimpleValue back to plain JSON, collapsing every
// StringType by preferred language. spec.md §4.9.
func ChooseLang(v SimpleValue, langs []string) any {
	switch t := v.(type) {
	case StringTypeValue:
		return t.S.ChooseLang(langs)
	case ArrayValue:
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			out[i] = ChooseLang(item, langs)
		}
		return out
	case ObjectValue:
		return orderedObjectJSON(t.Fields, langs)
	default:
		panic(fmt.Sprintf("zobject: unreachable SimpleValue variant %T", v))
	}
}

// orderedObjectJSON renders fields into a map keyed by the chosen-language
// string. Go's encoding/json sorts map keys alphabetically on marshal,
// which matches spec.md §8's "ordering stability" invariant (output key
// order is sorted by the chosen rendering of each key).
func orderedObjectJSON(fields ordered.Set[Field], langs []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, p := range fields {
		out[p.Value.Key.ChooseLang(langs)] = ChooseLang(p.Value.Value, langs)
	}
	return out
}
