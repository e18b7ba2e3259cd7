package compact

import (
	"reflect"
	"testing"

	"labelize/internal/zobject"
)

func str(s string) zobject.SimpleValue {
	return zobject.StringTypeValue{S: zobject.PlainString(s)}
}

func obj(fields ...zobject.Field) zobject.SimpleValue {
	return zobject.NewObject(fields...)
}

func field(key string, v zobject.SimpleValue) zobject.Field {
	return zobject.Field{Key: zobject.PlainString(key), Value: v}
}

func arr(items ...zobject.SimpleValue) zobject.SimpleValue {
	return zobject.ArrayValue{Items: items}
}

// scenario 3: {"Z1K1":"Z9","Z9K1":"Z11"} -> "Z11"
func TestReferenceCollapse(t *testing.T) {
	v := obj(field("Z1K1", str("Z9")), field("Z9K1", str("Z11")))
	cv, err := Compactify(v)
	if err != nil {
		t.Fatalf("Compactify: %v", err)
	}
	got := ChooseLang(cv, nil)
	s, ok := got.(string)
	if !ok {
		t.Fatalf("want string, got %#v", got)
	}
	if s != "Z11" {
		t.Errorf("want \"Z11\", got %q", s)
	}
}

// scenario 4: {"Z1K1":"Z11","Z11K1":"Z1002","Z11K2":"hello"} under key
// "greet", langs ["Z1002"] -> {"greet [Z1002]": "hello"}
func TestMonolingualCollapse(t *testing.T) {
	mono := obj(
		field("Z1K1", str("Z11")),
		field("Z11K1", str("Z1002")),
		field("Z11K2", str("hello")),
	)
	outer := obj(field("greet", mono))
	cv, err := Compactify(outer)
	if err != nil {
		t.Fatalf("Compactify: %v", err)
	}
	got := ChooseLang(cv, []string{"Z1002"})
	want := map[string]any{"greet [Z1002]": "hello"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

// scenario 5: ["Z6","a","b"] -> ["a","b"]
func TestArrayTypeStripping(t *testing.T) {
	v := arr(str("Z6"), str("a"), str("b"))
	cv, err := Compactify(v)
	if err != nil {
		t.Fatalf("Compactify: %v", err)
	}
	got := ChooseLang(cv, nil)
	want := []any{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

// scenario 6: {"k": {"[Z40]": {"Z40K1": "Z41"}}} -> {"k [Z40, Z40K1]": "Z41"},
// where "[Z40]" is the rendering of a Transient key carrying type Z40.
func TestSimpleClassCompression(t *testing.T) {
	single := func(k CompactKey, v CompactValue) CVObject {
		return CVObject{Fields: insertCVField(nil, CVField{Key: k, Value: v})}
	}
	named := func(s string) CompactKeyString { return CompactKeyString{Name: zobject.PlainString(s)} }
	inner := single(named("Z40K1"), CVKeyType{K: named("Z41")})
	wrapper := single(CompactKeyTransient{Types: []SimpleType{{S: zobject.PlainString("Z40")}}}, inner)
	cv := CompressSimpleClasses(single(named("k"), wrapper))
	got := ChooseLang(cv, nil)
	want := map[string]any{"k [Z40, Z40K1]": "Z41"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestNoLabelPassthroughIdentity(t *testing.T) {
	v := obj(field("a", str("plain")), field("b", arr(str("x"), str("y"))))
	got := zobject.ChooseLang(v, nil)
	want := map[string]any{"a": "plain", "b": []any{"x", "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func buildReferenceIM(t *testing.T) IntermediateForm {
	t.Helper()
	v := obj(field("Z1K1", str("Z9")), field("Z9K1", str("Z11")))
	typed, err := FromSimpleValue(v)
	if err != nil {
		t.Fatalf("FromSimpleValue: %v", err)
	}
	return FromTypedForm(typed)
}

func TestCompressReferenceIdempotent(t *testing.T) {
	im := buildReferenceIM(t)
	once := CompressReference(im)
	twice := CompressReference(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("compress_reference not idempotent: once=%#v twice=%#v", once, twice)
	}
}

func TestCompressMonolingualIdempotent(t *testing.T) {
	mono := obj(field("Z1K1", str("Z11")), field("Z11K1", str("Z1002")), field("Z11K2", str("hi")))
	typed, err := FromSimpleValue(mono)
	if err != nil {
		t.Fatalf("FromSimpleValue: %v", err)
	}
	im := FromTypedForm(typed)
	once := CompressMonolingual(im)
	twice := CompressMonolingual(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("compress_monolingual not idempotent: once=%#v twice=%#v", once, twice)
	}
}

func TestDropArrayItemTypesIdempotent(t *testing.T) {
	item := obj(field("Z1K1", str("Z6")), field("Z6K1", str("x")))
	v := arr(str("Z6"), item)
	typed, err := FromSimpleValue(v)
	if err != nil {
		t.Fatalf("FromSimpleValue: %v", err)
	}
	im := FromTypedForm(typed)
	once := DropArrayItemTypes(im)
	twice := DropArrayItemTypes(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("drop_array_item_types not idempotent: once=%#v twice=%#v", once, twice)
	}
}

func TestEmptyArrayRejected(t *testing.T) {
	v := arr()
	if _, err := FromSimpleValue(v); err != ErrEmptyTypedArray {
		t.Fatalf("want ErrEmptyTypedArray, got %v", err)
	}
}

func TestZ1K1ArrayRejected(t *testing.T) {
	v := obj(field("Z1K1", arr(str("Z9"))))
	if _, err := FromSimpleValue(v); err != ErrUnsupportedTypeShape {
		t.Fatalf("want ErrUnsupportedTypeShape, got %v", err)
	}
}

func TestChooseLangTotality(t *testing.T) {
	n := zobject.LabelledNode{ZLabel: "Z11", ReadableLabels: map[string]string{}}
	got := n.ChooseLang([]string{"Z1002"})
	if got == "" {
		t.Fatal("choose_lang produced empty string")
	}
	if got != "Z11: <no label>" {
		t.Fatalf("got %q", got)
	}
}
