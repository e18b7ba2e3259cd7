package compact

import (
	"labelize/internal/ordered"
	"labelize/internal/zobject"
)

// StringType aliases zobject.StringType so the form tower can be read
// without repeating the package qualifier at every field.
type StringType = zobject.StringType

const z1k1 = "Z1K1"

// Type is the lifted type descriptor: a bare type identifier, or a
// parameterised type with its type arguments. spec.md §3.
type Type interface {
	typeVariant()
}

// TypeSimple is a bare type identifier, e.g. "Z6".
type TypeSimple struct {
	Name StringType
}

func (TypeSimple) typeVariant() {}

// TypeArg is one (name, value) entry of a parameterised type's argument
// list.
type TypeArg struct {
	Key   StringType
	Value TypedForm
}

// TypeWithArgs is a parameterised type (e.g. a typed list) with its
// arguments.
type TypeWithArgs struct {
	Name StringType
	Args ordered.Set[TypeArg]
}

func (TypeWithArgs) typeVariant() {}

func typeName(t Type) StringType {
	switch tt := t.(type) {
	case TypeSimple:
		return tt.Name
	case TypeWithArgs:
		return tt.Name
	default:
		unreachable("Type variant", t)
		return nil
	}
}

func insertTypeArg(args ordered.Set[TypeArg], key StringType, value TypedForm) ordered.Set[TypeArg] {
	return args.Insert(key.SortKey(), TypeArg{Key: key, Value: value})
}

// typeFromSimpleValue interprets a SimpleValue as a Type: spec.md §4.4's
// TryFrom<SimpleValue> for Type. A plain string yields Simple; an object is
// itself a typed descriptor and is unwrapped recursively, its own Z1K1
// stripped and its remaining fields folded into the outer type's args; an
// array is the documented unhandled case (§9).
func typeFromSimpleValue(v zobject.SimpleValue) (Type, error) {
	switch t := v.(type) {
	case zobject.StringTypeValue:
		return TypeSimple{Name: t.S}, nil
	case zobject.ArrayValue:
		return nil, ErrUnsupportedTypeShape
	case zobject.ObjectValue:
		inner, ok := t.Fields.Get(z1k1)
		if !ok {
			return nil, ErrMissingTypeTag
		}
		innerType, err := typeFromSimpleValue(inner.Value)
		if err != nil {
			return nil, err
		}
		args := ordered.Set[TypeArg]{}
		if wa, ok := innerType.(TypeWithArgs); ok {
			for _, a := range wa.Args {
				args = insertTypeArg(args, a.Value.Key, a.Value.Value)
			}
		}
		for _, p := range t.Fields {
			if p.Key == z1k1 {
				continue
			}
			tf, err := FromSimpleValue(p.Value.Value)
			if err != nil {
				return nil, err
			}
			args = insertTypeArg(args, p.Value.Key, tf)
		}
		if len(args) == 0 {
			return TypeSimple{Name: typeName(innerType)}, nil
		}
		return TypeWithArgs{Name: typeName(innerType), Args: args}, nil
	default:
		unreachable("SimpleValue variant in typeFromSimpleValue", v)
		return nil, nil
	}
}
