package httpapi

import (
	"reflect"
	"testing"
)

var defaultLangs = []string{"Z1830", "Z1006", "Z1002"}

func TestParseRequestBodyBareDocument(t *testing.T) {
	pr, err := parseRequestBody([]byte(`"Z11"`), defaultLangs)
	if err != nil {
		t.Fatalf("parseRequestBody: %v", err)
	}
	if pr.Data != "Z11" {
		t.Errorf("Data = %#v, want %q", pr.Data, "Z11")
	}
	if !reflect.DeepEqual(pr.Langs, defaultLangs) {
		t.Errorf("Langs = %v, want %v", pr.Langs, defaultLangs)
	}
}

func TestParseRequestBodyEnvelope(t *testing.T) {
	pr, err := parseRequestBody([]byte(`{"data":"Z11","langs":["Z1006","Z1002"]}`), defaultLangs)
	if err != nil {
		t.Fatalf("parseRequestBody: %v", err)
	}
	if pr.Data != "Z11" {
		t.Errorf("Data = %#v", pr.Data)
	}
	want := []string{"Z1006", "Z1002"}
	if !reflect.DeepEqual(pr.Langs, want) {
		t.Errorf("Langs = %v, want %v", pr.Langs, want)
	}
}

// "langs" alone, with no "data" key, is not recognized as an envelope —
// the whole object is the literal document, per original_source's
// request_wrapper (only extracts when both keys are present together).
func TestParseRequestBodyLangsAloneTreatedAsDocument(t *testing.T) {
	pr, err := parseRequestBody([]byte(`{"langs":["Z1002"]}`), defaultLangs)
	if err != nil {
		t.Fatalf("parseRequestBody: %v", err)
	}
	obj, ok := pr.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %#v, want map", pr.Data)
	}
	if _, ok := obj["langs"]; !ok {
		t.Errorf("Data lost its \"langs\" key: %#v", obj)
	}
	if !reflect.DeepEqual(pr.Langs, defaultLangs) {
		t.Errorf("Langs = %v, want default %v", pr.Langs, defaultLangs)
	}
}

// "data" alone, with no "langs" key, is likewise not an envelope — this is
// the single most natural partial-envelope request a caller would send,
// and must match original_source's literal-document behavior rather than
// extracting "data" as if it were the document.
func TestParseRequestBodyDataAloneTreatedAsDocument(t *testing.T) {
	pr, err := parseRequestBody([]byte(`{"data":"Z11"}`), defaultLangs)
	if err != nil {
		t.Fatalf("parseRequestBody: %v", err)
	}
	obj, ok := pr.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %#v, want map (the whole object, unextracted)", pr.Data)
	}
	if obj["data"] != "Z11" {
		t.Errorf(`Data["data"] = %v, want "Z11"`, obj["data"])
	}
	if !reflect.DeepEqual(pr.Langs, defaultLangs) {
		t.Errorf("Langs = %v, want default %v", pr.Langs, defaultLangs)
	}
}

func TestParseRequestBodyBareObjectTreatedAsDocument(t *testing.T) {
	pr, err := parseRequestBody([]byte(`{"Z1K1":"Z11","Z11K1":"Z1002","Z11K2":"hello"}`), defaultLangs)
	if err != nil {
		t.Fatalf("parseRequestBody: %v", err)
	}
	obj, ok := pr.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %#v, want map", pr.Data)
	}
	if obj["Z1K1"] != "Z11" {
		t.Errorf("Z1K1 = %v", obj["Z1K1"])
	}
}

func TestParseRequestBodyInvalidJSONFails(t *testing.T) {
	_, err := parseRequestBody([]byte(`not json`), defaultLangs)
	if err == nil {
		t.Fatal("want error for invalid JSON")
	}
}

func TestParseRequestBodyNonStringLangsFails(t *testing.T) {
	_, err := parseRequestBody([]byte(`{"data":"Z11","langs":[1,2]}`), defaultLangs)
	if err == nil {
		t.Fatal("want error for non-string langs entries")
	}
}
