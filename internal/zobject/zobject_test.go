package zobject

import (
	"reflect"
	"testing"
)

func TestChooseLangPlainString(t *testing.T) {
	v := StringTypeValue{S: PlainString("hello")}
	got := ChooseLang(v, nil)
	if got != "hello" {
		t.Fatalf("got %v", got)
	}
}

func TestChooseLangLabelledNodeFallback(t *testing.T) {
	n := LabelledNode{ZLabel: "Z11", ReadableLabels: map[string]string{
		"Z1002": "Monolingual text",
		"Z1006": "单语文本",
	}}
	got := n.ChooseLang([]string{"Z1006", "Z1002"})
	want := "Z11: 单语文本"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestChooseLangLabelledNodeNoMatchFallsBackSorted(t *testing.T) {
	n := LabelledNode{ZLabel: "Z11", ReadableLabels: map[string]string{
		"Z1002": "English",
		"Z1006": "Chinese",
	}}
	got := n.ChooseLang([]string{"Z9999"})
	want := "Z11: English" // Z1002 sorts before Z1006
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestObjectDuplicateKeyCollapses(t *testing.T) {
	o := NewObject(
		Field{Key: PlainString("a"), Value: StringTypeValue{S: PlainString("first")}},
		Field{Key: PlainString("a"), Value: StringTypeValue{S: PlainString("second")}},
	)
	if len(o.Fields) != 1 {
		t.Fatalf("want 1 field after dedup, got %d", len(o.Fields))
	}
	got := ChooseLang(o, nil)
	want := map[string]any{"a": "second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}
