package zobject

import "sort"

// StringType is either a plain string or an identifier that resolved to a
// LabelledNode. See spec.md §3.
type StringType interface {
	stringType()
	// SortKey is the value used to order and dedup a StringType when it
	// appears as an object key.
	SortKey() string
	// ChooseLang renders the StringType as plain text, preferring the
	// first of langs present in a LabelledNode's labels.
	ChooseLang(langs []string) string
}

// PlainString is a StringType that never matched the identifier regex, or
// whose label lookup failed or degraded. spec.md §3 "String(s)".
type PlainString string

func (PlainString) stringType()        {}
func (s PlainString) SortKey() string  { return string(s) }
func (s PlainString) ChooseLang([]string) string {
	return string(s)
}

// LabelledNode is an identifier enriched with per-language labels.
// spec.md §3.
type LabelledNode struct {
	ZLabel         string
	ReadableLabels map[string]string
}

func (LabelledNode) stringType()       {}
func (n LabelledNode) SortKey() string { return n.ZLabel }

// ChooseLang renders "{z_label}: {label}" per spec.md §4.9 / §8 totality.
func (n LabelledNode) ChooseLang(langs []string) string {
	for _, lang := range langs {
		if label, ok := n.ReadableLabels[lang]; ok {
			return n.ZLabel + ": " + label
		}
	}
	if len(n.ReadableLabels) == 0 {
		return n.ZLabel + ": <no label>"
	}
	keys := make([]string, 0, len(n.ReadableLabels))
	for k := range n.ReadableLabels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return n.ZLabel + ": " + n.ReadableLabels[keys[0]]
}

// IsLabelled reports whether this StringType is the identifier label.
func IsLabelled(s StringType, label string) bool {
	switch v := s.(type) {
	case PlainString:
		return string(v) == label
	case LabelledNode:
		return v.ZLabel == label
	default:
		return false
	}
}
