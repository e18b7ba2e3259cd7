package compact

// ChooseLang renders a CompactValue back to plain JSON, collapsing every
// CompactKey and LabelledNode by preferred language. spec.md §4.9.
func ChooseLang(v CompactValue, langs []string) any {
	switch t := v.(type) {
	case CVKeyType:
		return t.K.ChooseLang(langs)
	case CVArray:
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			out[i] = ChooseLang(item, langs)
		}
		return out
	case CVObject:
		out := make(map[string]any, len(t.Fields))
		for _, p := range t.Fields {
			out[p.Value.Key.ChooseLang(langs)] = ChooseLang(p.Value.Value, langs)
		}
		return out
	default:
		unreachable("CompactValue variant in ChooseLang", v)
		return nil
	}
}
