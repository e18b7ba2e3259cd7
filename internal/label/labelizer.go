package label

import (
	"context"
	"fmt"
	"sync"

	"labelize/internal/zobject"
)

// Labelize walks a decoded JSON value (from encoding/json.Unmarshal into
// `any`) fanning out label lookups concurrently over array elements and
// over both keys and values of objects. spec.md §4.3.
func Labelize(ctx context.Context, v any, r *Resolver) (zobject.SimpleValue, error) {
	switch t := v.(type) {
	case string:
		return zobject.StringTypeValue{S: r.Resolve(ctx, t)}, nil
	case []any:
		return labelizeArray(ctx, t, r)
	case map[string]any:
		return labelizeObject(ctx, t, r)
	case nil, bool, float64:
		return nil, zobject.ErrUnsupportedJSONKind
	default:
		return nil, fmt.Errorf("label: unsupported JSON value type %T", v)
	}
}

func labelizeArray(ctx context.Context, items []any, r *Resolver) (zobject.SimpleValue, error) {
	results := make([]zobject.SimpleValue, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		go func(i int, item any) {
			defer wg.Done()
			sv, err := Labelize(ctx, item, r)
			results[i], errs[i] = sv, err
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return zobject.ArrayValue{Items: results}, nil
}

type labeledField struct {
	key zobject.StringType
	val zobject.SimpleValue
}

func labelizeObject(ctx context.Context, obj map[string]any, r *Resolver) (zobject.SimpleValue, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	results := make([]labeledField, len(keys))
	errs := make([]error, len(keys))

	var wg sync.WaitGroup
	wg.Add(len(keys))
	for i, k := range keys {
		go func(i int, k string) {
			defer wg.Done()
			key := r.Resolve(ctx, k)
			val, err := Labelize(ctx, obj[k], r)
			results[i] = labeledField{key: key, val: val}
			errs[i] = err
		}(i, k)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	fields := make([]zobject.Field, len(results))
	for i, f := range results {
		fields[i] = zobject.Field{Key: f.key, Value: f.val}
	}
	return zobject.NewObject(fields...), nil
}
