package compact

import "labelize/internal/zobject"

// Compactify runs the full staged rewrite: SimpleValue → TypedForm →
// IntermediateForm → (compress_reference, compress_string,
// compress_monolingual, drop_array_item_types) → CompactValue →
// compress_simple_classes. spec.md §2.
func Compactify(v zobject.SimpleValue) (CompactValue, error) {
	typed, err := FromSimpleValue(v)
	if err != nil {
		return nil, err
	}
	im := FromTypedForm(typed)
	im = CompressReference(im)
	im = CompressString(im)
	im = CompressMonolingual(im)
	im = DropArrayItemTypes(im)
	return CompressSimpleClasses(ToCompactValue(im)), nil
}

// Stages runs the same pipeline but returns every intermediate snapshot,
// rendered with langs, for the /debug endpoint. Supplements
// original_source/src/main.rs's debug_route without its file-dump side
// effect (spec.md §1 Non-goals; SPEC_FULL.md §6).
type Stages struct {
	Simple       any `json:"simple"`
	Typed        any `json:"typed"`
	Intermediate any `json:"intermediate"`
	Compact      any `json:"compact"`
}

func RunStages(v zobject.SimpleValue, langs []string) (Stages, error) {
	typed, err := FromSimpleValue(v)
	if err != nil {
		return Stages{}, err
	}
	im := FromTypedForm(typed)
	im = CompressReference(im)
	im = CompressString(im)
	im = CompressMonolingual(im)
	im = DropArrayItemTypes(im)
	cv := CompressSimpleClasses(ToCompactValue(im))
	return Stages{
		Simple:       zobject.ChooseLang(v, langs),
		Typed:        ChooseLang(ToCompactValue(FromTypedForm(typed)), langs),
		Intermediate: ChooseLang(ToCompactValue(im), langs),
		Compact:      ChooseLang(cv, langs),
	}, nil
}
