package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"labelize/lib/cache"
)

func wikiServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		id := r.URL.Query().Get("wikilambdaload_zids")
		fmt.Fprintf(w, `{"query":{"wikilambdaload_zobjects":{%q:{"data":{"hello":%q}}}}}`, id, id)
	}))
}

func TestFetchConcurrentDedup(t *testing.T) {
	var hits int32
	srv := wikiServer(t, &hits)
	defer srv.Close()

	f := New(srv.URL, cache.NewMemoryCache(), time.Minute)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := f.Fetch(context.Background(), "Z11"); err != nil {
				t.Errorf("Fetch: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("want exactly 1 upstream hit for concurrent callers, got %d", got)
	}
}

func TestFetchCachedWithinTTL(t *testing.T) {
	var hits int32
	srv := wikiServer(t, &hits)
	defer srv.Close()

	f := New(srv.URL, cache.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.Fetch(ctx, "Z11"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("want exactly 1 upstream hit across sequential calls within TTL, got %d", got)
	}
}

func TestFetchSchemaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":true}`)
	}))
	defer srv.Close()

	f := New(srv.URL, cache.NewMemoryCache(), time.Minute)
	_, err := f.Fetch(context.Background(), "Z11")
	if err == nil {
		t.Fatal("want SchemaError, got nil")
	}
	if _, ok := err.(*SchemaError); !ok {
		t.Fatalf("want *SchemaError, got %T: %v", err, err)
	}
}

func TestFetchNetworkError(t *testing.T) {
	f := New("http://127.0.0.1:1", cache.NewMemoryCache(), time.Minute)
	_, err := f.Fetch(context.Background(), "Z11")
	if err == nil {
		t.Fatal("want NetworkError, got nil")
	}
	if _, ok := err.(*NetworkError); !ok {
		t.Fatalf("want *NetworkError, got %T: %v", err, err)
	}
}
