package compact

import (
	"labelize/internal/ordered"
	"labelize/internal/zobject"
)

// TypedForm adds type separation to SimpleValue: an object carrying a Z1K1
// key becomes a TypedObject with its type lifted out. spec.md §3, §4.4.
type TypedForm interface {
	typedForm()
}

type TypedFormString struct{ S StringType }

func (TypedFormString) typedForm() {}

type TypedFormArray struct {
	ElemType Type
	Items    []TypedForm
}

func (TypedFormArray) typedForm() {}

// TypedObjectField is one (key, value) entry of an Object/TypedObject.
type TypedObjectField struct {
	Key   StringType
	Value TypedForm
}

type TypedFormObject struct {
	Fields ordered.Set[TypedObjectField]
}

func (TypedFormObject) typedForm() {}

type TypedFormTypedObject struct {
	T      Type
	Fields ordered.Set[TypedObjectField]
}

func (TypedFormTypedObject) typedForm() {}

func insertTypedField(fields ordered.Set[TypedObjectField], key StringType, value TypedForm) ordered.Set[TypedObjectField] {
	return fields.Insert(key.SortKey(), TypedObjectField{Key: key, Value: value})
}

// FromSimpleValue converts a labeled document into TypedForm, lifting each
// object's Z1K1 into a Type and each array's head element into its element
// Type. spec.md §4.4.
func FromSimpleValue(v zobject.SimpleValue) (TypedForm, error) {
	switch t := v.(type) {
	case zobject.StringTypeValue:
		return TypedFormString{S: t.S}, nil
	case zobject.ArrayValue:
		if len(t.Items) == 0 {
			return nil, ErrEmptyTypedArray
		}
		elemType, err := typeFromSimpleValue(t.Items[0])
		if err != nil {
			return nil, err
		}
		items := make([]TypedForm, 0, len(t.Items)-1)
		for _, it := range t.Items[1:] {
			tf, err := FromSimpleValue(it)
			if err != nil {
				return nil, err
			}
			items = append(items, tf)
		}
		return TypedFormArray{ElemType: elemType, Items: items}, nil
	case zobject.ObjectValue:
		if z1, ok := t.Fields.Get(z1k1); ok {
			typ, err := typeFromSimpleValue(z1.Value)
			if err != nil {
				return nil, err
			}
			fields := ordered.Set[TypedObjectField]{}
			for _, p := range t.Fields {
				if p.Key == z1k1 {
					continue
				}
				tf, err := FromSimpleValue(p.Value.Value)
				if err != nil {
					return nil, err
				}
				fields = insertTypedField(fields, p.Value.Key, tf)
			}
			return TypedFormTypedObject{T: typ, Fields: fields}, nil
		}
		fields := ordered.Set[TypedObjectField]{}
		for _, p := range t.Fields {
			tf, err := FromSimpleValue(p.Value.Value)
			if err != nil {
				return nil, err
			}
			fields = insertTypedField(fields, p.Value.Key, tf)
		}
		return TypedFormObject{Fields: fields}, nil
	default:
		unreachable("SimpleValue variant in FromSimpleValue", v)
		return nil, nil
	}
}
