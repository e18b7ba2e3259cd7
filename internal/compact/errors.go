package compact

import "fmt"

// ErrUnsupportedTypeShape is returned when a Z1K1 value is itself an array
// — spec.md §9 notes the type-lifting routine does not handle this case;
// rather than guessing intent we reject it explicitly.
var ErrUnsupportedTypeShape = fmt.Errorf("compact: Z1K1 value is an array, which the type-lifting routine cannot interpret")

// ErrEmptyTypedArray is returned for a Benjamin array with no head element
// to supply its type. spec.md §9 recommends rejecting explicitly rather
// than crashing.
var ErrEmptyTypedArray = fmt.Errorf("compact: array has no head element to supply its type")

// ErrMissingTypeTag is returned when an object is interpreted as a type
// descriptor but carries no Z1K1 key at all.
var ErrMissingTypeTag = fmt.Errorf("compact: type descriptor object has no Z1K1 key")

// unreachable panics with diagnostic context. spec.md §7: internal pass
// failures the authors consider impossible given labeled input are fatal
// for the request (500) and should be written as explicit unreachable
// assertions with diagnostic context, not guessed around.
func unreachable(context string, v any) {
	panic(fmt.Sprintf("compact: unreachable: %s (got %T: %#v)", context, v, v))
}
