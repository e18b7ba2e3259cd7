package label

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labelize/internal/fetch"
	"labelize/internal/zobject"
	"labelize/lib/cache"
)

// scenario 2: persistent-object labeling
func TestResolvePersistentObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.URL.Query().Get("wikilambdaload_zids")
		fmt.Fprintf(w, `{"query":{"wikilambdaload_zobjects":{%q:{"data":{
			"Z2K3":{"Z12K1":[
				"Z12",
				{"Z11K1":"Z1002","Z11K2":"Monolingual text"},
				{"Z11K1":"Z1006","Z11K2":"单语文本"}
			]}
		}}}}}`, id, id)
	}))
	defer srv.Close()

	f := fetch.New(srv.URL, cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got := r.Resolve(context.Background(), "Z11")
	n, ok := got.(zobject.LabelledNode)
	if !ok {
		t.Fatalf("want LabelledNode, got %T: %#v", got, got)
	}
	rendered := n.ChooseLang([]string{"Z1006", "Z1002"})
	want := "Z11: 单语文本"
	if rendered != want {
		t.Fatalf("got %q want %q", rendered, want)
	}
}

// global-key labeling: the owning object's Z2K2 holds a field declaration
// whose key matches the requested global key "Z801K1" directly, with a
// sibling Z12 multilingual-text container reached via findZ12Container.
// spec.md §4.2's "non-trivial search"; labels are quoted per
// SPEC_FULL.md §9 decision 3, unlike persistent-object labels.
func TestResolveGlobalKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.URL.Query().Get("wikilambdaload_zids")
		fmt.Fprintf(w, `{"query":{"wikilambdaload_zobjects":{%q:{"data":{
			"Z2K2":{
				"Z4K2":[
					"Z3",
					{
						"Z3K2":"Z801K1",
						"Z3K3":{
							"Z1K1":"Z12",
							"Z12K1":[
								"Z12",
								{"Z11K1":"Z1002","Z11K2":"Monolingual text"},
								{"Z11K1":"Z1006","Z11K2":"单语文本"}
							]
						}
					}
				]
			}
		}}}}}`, id, id)
	}))
	defer srv.Close()

	f := fetch.New(srv.URL, cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got := r.Resolve(context.Background(), "Z801K1")
	n, ok := got.(zobject.LabelledNode)
	if !ok {
		t.Fatalf("want LabelledNode, got %T: %#v", got, got)
	}
	if n.ZLabel != "Z801K1" {
		t.Fatalf("ZLabel = %q, want %q", n.ZLabel, "Z801K1")
	}
	wantLabels := map[string]string{
		"Z1002": "'Monolingual text'",
		"Z1006": "'单语文本'",
	}
	for lang, want := range wantLabels {
		if got := n.ReadableLabels[lang]; got != want {
			t.Errorf("ReadableLabels[%q] = %q, want %q", lang, got, want)
		}
	}

	rendered := n.ChooseLang([]string{"Z1006", "Z1002"})
	want := "Z801K1: '单语文本'"
	if rendered != want {
		t.Fatalf("got %q want %q", rendered, want)
	}
}

// findMatchingElement's one-level-of-indirection case: the key
// declaration's value is an object wrapping the identifier rather than
// the identifier directly.
func TestResolveGlobalKeyMatchesOneLevelOfIndirection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.URL.Query().Get("wikilambdaload_zids")
		fmt.Fprintf(w, `{"query":{"wikilambdaload_zobjects":{%q:{"data":{
			"Z2K2":{
				"Z4K2":[
					"Z3",
					{
						"Z3K2":{"Z9K1":"Z801K1"},
						"Z3K3":{
							"Z1K1":"Z12",
							"Z12K1":[
								"Z12",
								{"Z11K1":"Z1002","Z11K2":"indirect label"}
							]
						}
					}
				]
			}
		}}}}}`, id, id)
	}))
	defer srv.Close()

	f := fetch.New(srv.URL, cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got := r.Resolve(context.Background(), "Z801K1")
	n, ok := got.(zobject.LabelledNode)
	if !ok {
		t.Fatalf("want LabelledNode, got %T: %#v", got, got)
	}
	want := "'indirect label'"
	if got := n.ReadableLabels["Z1002"]; got != want {
		t.Fatalf("ReadableLabels[Z1002] = %q, want %q", got, want)
	}
}

func TestResolveDegradesOnNetworkError(t *testing.T) {
	f := fetch.New("http://127.0.0.1:1", cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got := r.Resolve(context.Background(), "Z11")
	if _, ok := got.(zobject.PlainString); !ok {
		t.Fatalf("want PlainString fallback, got %T: %#v", got, got)
	}
	if got != zobject.PlainString("Z11") {
		t.Fatalf("got %#v", got)
	}
}

func TestResolvePlainStringPassthrough(t *testing.T) {
	f := fetch.New("http://unused.invalid", cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got := r.Resolve(context.Background(), "hello")
	if got != zobject.PlainString("hello") {
		t.Fatalf("got %#v", got)
	}
}

func TestResolveEmptyStringShortCircuits(t *testing.T) {
	f := fetch.New("http://unused.invalid", cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got := r.Resolve(context.Background(), "")
	if got != zobject.PlainString("") {
		t.Fatalf("got %#v", got)
	}
}

func TestLabelizeRejectsUnsupportedKinds(t *testing.T) {
	f := fetch.New("http://unused.invalid", cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	for _, v := range []any{nil, true, float64(1)} {
		if _, err := Labelize(context.Background(), v, r); err != zobject.ErrUnsupportedJSONKind {
			t.Errorf("Labelize(%#v): want ErrUnsupportedJSONKind, got %v", v, err)
		}
	}
}

func TestLabelizePlainString(t *testing.T) {
	f := fetch.New("http://unused.invalid", cache.NewMemoryCache(), time.Minute)
	r := NewResolver(f)

	got, err := Labelize(context.Background(), "hello", r)
	if err != nil {
		t.Fatalf("Labelize: %v", err)
	}
	sv, ok := got.(zobject.StringTypeValue)
	if !ok || sv.S != zobject.PlainString("hello") {
		t.Fatalf("got %#v", got)
	}
}
