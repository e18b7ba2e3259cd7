// Package label implements the label resolver and the parallel tree
// labeler. Grounded on _examples/original_source/src/labelize.rs's
// _labelize / _labelize_wrapped / labelize functions, spec.md §4.2–§4.3.
package label

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"

	"labelize/internal/fetch"
	"labelize/internal/zobject"
	"labelize/shared/logger"
)

var (
	persistentObjectRe = regexp.MustCompile(`^Z\d+$`)
	globalKeyRe        = regexp.MustCompile(`^Z\d+K\d+$`)
)

// Resolver turns raw identifier strings into zobject.StringType values,
// swallowing upstream errors per spec.md §4.2's last bullet.
type Resolver struct {
	fetcher *fetch.Fetcher
}

func NewResolver(f *fetch.Fetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// Resolve never fails: transport and schema errors degrade the identifier
// to a plain string, logged at warn level. spec.md §4.2, §7.
func (r *Resolver) Resolve(ctx context.Context, s string) zobject.StringType {
	if s == "" {
		return zobject.PlainString("")
	}
	out, err := r.resolve(ctx, s)
	if err != nil {
		logger.Warn("error labeling identifier", logger.String("id", s), logger.Err(err))
		return zobject.PlainString(s)
	}
	return out
}

func (r *Resolver) resolve(ctx context.Context, s string) (zobject.StringType, error) {
	switch {
	case persistentObjectRe.MatchString(s):
		return r.resolvePersistentObject(ctx, s)
	case globalKeyRe.MatchString(s):
		return r.resolveGlobalKey(ctx, s)
	default:
		return zobject.PlainString(s), nil
	}
}

// resolvePersistentObject labels a Zxxx identifier by traversing
// data → Z2K3 → Z12K1. spec.md §4.2.
func (r *Resolver) resolvePersistentObject(ctx context.Context, s string) (zobject.StringType, error) {
	data, err := r.fetcher.Fetch(ctx, s)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "persistent object data is not an object"}
	}
	z2k3Raw, ok := doc["Z2K3"]
	if !ok {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "wikifunction response is not a Persistent Object, no Z2K3 key"}
	}
	var z2k3 map[string]json.RawMessage
	if err := json.Unmarshal(z2k3Raw, &z2k3); err != nil {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "Z2K3 is not an object"}
	}
	z12k1Raw, ok := z2k3["Z12K1"]
	if !ok {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "no Z12K1 (Multilingual Text) key in Persistent Object"}
	}
	labels, err := extractLabels(z12k1Raw, s, false)
	if err != nil {
		return nil, err
	}
	return zobject.LabelledNode{ZLabel: s, ReadableLabels: labels}, nil
}

// resolveGlobalKey labels a ZxxxKyyy identifier by locating, within the
// owning object's Z2K2, the field declaration whose key matches s and
// reading its Z12 label container. spec.md §4.2.
func (r *Resolver) resolveGlobalKey(ctx context.Context, s string) (zobject.StringType, error) {
	zNumber := s[:zNumberLen(s)]

	data, err := r.fetcher.Fetch(ctx, zNumber)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "persistent object data is not an object"}
	}
	z2k2Raw, ok := doc["Z2K2"]
	if !ok {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "wikifunction response is not a Persistent Object, no Z2K2 key"}
	}
	var z2k2 map[string]json.RawMessage
	if err := json.Unmarshal(z2k2Raw, &z2k2); err != nil {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: "Z2K2 is not an object"}
	}

	labelVal, err := findGlobalKeyLabelContainer(z2k2, s)
	if err != nil {
		return nil, err
	}
	z12k1Raw, ok := labelVal["Z12K1"]
	if !ok {
		return nil, &fetch.SchemaError{ZNumber: s, Reason: `no "Z12K1" key in wikifunction response`}
	}
	labels, err := extractLabels(z12k1Raw, s, true)
	if err != nil {
		return nil, err
	}
	return zobject.LabelledNode{ZLabel: s, ReadableLabels: labels}, nil
}

// zNumberLen returns the length of the leading "Z<digits>" prefix of a
// ZxxxKyyy global-key identifier (the part before the literal "K").
func zNumberLen(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] == 'K' {
			return i
		}
	}
	return len(s)
}

// findGlobalKeyLabelContainer scans Z2K2's array-valued fields, in sorted
// key order, for an element matching key s directly or via one level of
// object indirection, then locates the sibling field tagged Z1K1=="Z12".
// spec.md §4.2.
func findGlobalKeyLabelContainer(z2k2 map[string]json.RawMessage, s string) (map[string]json.RawMessage, error) {
	for _, k := range sortedKeys(z2k2) {
		var arr []json.RawMessage
		if err := json.Unmarshal(z2k2[k], &arr); err != nil {
			continue
		}
		if len(arr) < 2 {
			continue
		}
		var second map[string]json.RawMessage
		if err := json.Unmarshal(arr[1], &second); err != nil {
			continue
		}
		matched, ok := findMatchingElement(arr, s)
		if !ok {
			continue
		}
		if labelVal, ok := findZ12Container(matched); ok {
			return labelVal, nil
		}
	}
	return nil, &fetch.SchemaError{ZNumber: s, Reason: "could not locate label container for global key in Z2K2"}
}

func findMatchingElement(arr []json.RawMessage, s string) (map[string]json.RawMessage, bool) {
	for _, elemRaw := range arr {
		var elem map[string]json.RawMessage
		if err := json.Unmarshal(elemRaw, &elem); err != nil {
			continue
		}
		for _, k := range sortedKeys(elem) {
			v := elem[k]
			var sv string
			if err := json.Unmarshal(v, &sv); err == nil && sv == s {
				return elem, true
			}
			var vo map[string]json.RawMessage
			if err := json.Unmarshal(v, &vo); err == nil {
				for _, vk := range sortedKeys(vo) {
					var svv string
					if err := json.Unmarshal(vo[vk], &svv); err == nil && svv == s {
						return elem, true
					}
				}
			}
		}
	}
	return nil, false
}

func findZ12Container(elem map[string]json.RawMessage) (map[string]json.RawMessage, bool) {
	for _, k := range sortedKeys(elem) {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(elem[k], &nested); err != nil {
			continue
		}
		var tag string
		if tagRaw, ok := nested["Z1K1"]; ok {
			if err := json.Unmarshal(tagRaw, &tag); err == nil && tag == "Z12" {
				return nested, true
			}
		}
	}
	return nil, false
}

// extractLabels decodes a Z12K1 multilingual-text array, skipping its
// first (type descriptor) element, into a language→label map. Global-key
// labels are quoted — spec.md §9's open question, resolved per
// SPEC_FULL.md §9 decision 3.
func extractLabels(raw json.RawMessage, zNumber string, quote bool) (map[string]string, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, &fetch.SchemaError{ZNumber: zNumber, Reason: "Z12K1 is not an array"}
	}
	out := map[string]string{}
	if len(arr) == 0 {
		return out, nil
	}
	for _, elemRaw := range arr[1:] {
		var elem map[string]json.RawMessage
		if err := json.Unmarshal(elemRaw, &elem); err != nil {
			return nil, &fetch.SchemaError{ZNumber: zNumber, Reason: "element of Z12K1 is not an object"}
		}
		lang, err := decodeStringField(elem, "Z11K1", zNumber)
		if err != nil {
			return nil, err
		}
		text, err := decodeStringField(elem, "Z11K2", zNumber)
		if err != nil {
			return nil, err
		}
		if quote {
			text = "'" + text + "'"
		}
		out[lang] = text
	}
	return out, nil
}

func decodeStringField(elem map[string]json.RawMessage, key, zNumber string) (string, error) {
	raw, ok := elem[key]
	if !ok {
		return "", &fetch.SchemaError{ZNumber: zNumber, Reason: "no key " + key + " in item of Z12K1"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &fetch.SchemaError{ZNumber: zNumber, Reason: "value of " + key + " not a string"}
	}
	return s, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
