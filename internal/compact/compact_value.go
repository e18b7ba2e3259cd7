package compact

import (
	"labelize/internal/ordered"
	"labelize/internal/zobject"
)

// CompactValue is the terminal form, directly convertible to JSON via
// ChooseLang. spec.md §3, §4.7.
type CompactValue interface {
	compactValue()
}

type CVKeyType struct{ K CompactKey }

func (CVKeyType) compactValue() {}

type CVArray struct{ Items []CompactValue }

func (CVArray) compactValue() {}

type CVField struct {
	Key   CompactKey
	Value CompactValue
}

type CVObject struct{ Fields ordered.Set[CVField] }

func (CVObject) compactValue() {}

func insertCVField(fields ordered.Set[CVField], f CVField) ordered.Set[CVField] {
	return fields.Insert(f.Key.SortKey(), f)
}

// argsToIFObject turns a Type's argument list into a plain object, so the
// normal object-field lifting rule can be reused to convert it. It is the
// building block of rebuildObjWithTypeArgs below.
func argsToIFObject(args ordered.Set[ITypeArg]) IFObject {
	fields := ordered.Set[IFField]{}
	for _, a := range args {
		fields = insertIFField(fields, a.Value.Key, a.Value.Value)
	}
	return IFObject{Fields: fields}
}

// rebuildObjWithTypeArgs extends obj with a synthetic Z1K1 field holding
// the type's own args, re-entering the data channel as just another object
// field. spec.md §4.7.
func rebuildObjWithTypeArgs(obj ordered.Set[IFField], args ordered.Set[ITypeArg]) IFObject {
	synthetic := argsToIFObject(args)
	fields := insertIFField(obj, zobject.PlainString(z1k1), synthetic)
	return IFObject{Fields: fields}
}

// ToCompactValue lifts types out of values and into keys (spec.md §4.7).
func ToCompactValue(v IntermediateForm) CompactValue {
	switch t := v.(type) {
	case IFKeyType:
		return CVKeyType{K: t.K}
	case IFArray:
		return arrayToCompactValue(t.ElemType, t.Items)
	case IFObject:
		return objectToCompactValue(t.Fields)
	case IFTypedObject:
		return rootTypedObjectToCompactValue(t)
	default:
		unreachable("IntermediateForm variant in ToCompactValue", v)
		return nil
	}
}

func arrayToCompactValue(elemType IType, items []IntermediateForm) CompactValue {
	mapped := mapToCompactValue(items)
	if wa, ok := elemType.(ITypeWithArgs); ok {
		argsObj := objectToCompactValue(argsToIFObject(wa.Args).Fields)
		all := make([]CompactValue, 0, len(mapped)+1)
		all = append(all, argsObj)
		all = append(all, mapped...)
		return CVArray{Items: all}
	}
	return CVArray{Items: mapped}
}

func mapToCompactValue(items []IntermediateForm) []CompactValue {
	out := make([]CompactValue, len(items))
	for i, it := range items {
		out[i] = ToCompactValue(it)
	}
	return out
}

func objectToCompactValue(fields ordered.Set[IFField]) CompactValue {
	out := ordered.Set[CVField]{}
	for _, p := range fields {
		out = insertCVField(out, liftField(p.Value.Key, p.Value.Value))
	}
	return CVObject{Fields: out}
}

// liftField implements the per-field rewrite of spec.md §4.7's Object
// rule: a TypedObject child's type becomes part of the key; a KeyType child
// carrying type annotations (e.g. a collapsed monolingual text) moves those
// annotations onto the key and keeps only its name as the value; a typed
// array child keeps its key but gains a synthetic args object as its first
// element; anything else passes through with its key converted and its
// value lifted.
func liftField(key StringType, value IntermediateForm) CVField {
	switch v := value.(type) {
	case IFTypedObject:
		name := iTypeName(v.T)
		var obj CompactValue
		if wa, ok := v.T.(ITypeWithArgs); ok {
			combined := rebuildObjWithTypeArgs(v.Fields, wa.Args)
			obj = objectToCompactValue(combined.Fields)
		} else {
			obj = objectToCompactValue(v.Fields)
		}
		return CVField{Key: CompactKeyString{Name: key, Types: []SimpleType{{S: name}}}, Value: obj}
	case IFKeyType:
		if ks, ok := v.K.(CompactKeyString); ok && len(ks.Types) > 0 {
			return CVField{Key: CompactKeyString{Name: key, Types: ks.Types}, Value: CVKeyType{K: CompactKeyString{Name: ks.Name}}}
		}
		return CVField{Key: CompactKeyString{Name: key}, Value: ToCompactValue(value)}
	case IFArray:
		return CVField{Key: CompactKeyString{Name: key}, Value: arrayToCompactValue(v.ElemType, v.Items)}
	default:
		return CVField{Key: CompactKeyString{Name: key}, Value: ToCompactValue(value)}
	}
}

// rootTypedObjectToCompactValue handles a TypedObject with no enclosing
// key to attach its type to: it becomes a singleton object keyed by a
// Transient key that exists only to carry the type. spec.md §4.7 last
// bullet.
func rootTypedObjectToCompactValue(t IFTypedObject) CompactValue {
	name := iTypeName(t.T)
	var obj CompactValue
	if wa, ok := t.T.(ITypeWithArgs); ok {
		combined := rebuildObjWithTypeArgs(t.Fields, wa.Args)
		obj = objectToCompactValue(combined.Fields)
	} else {
		obj = objectToCompactValue(t.Fields)
	}
	key := CompactKeyTransient{Types: []SimpleType{{S: name}}}
	fields := ordered.Set[CVField]{}
	fields = insertCVField(fields, CVField{Key: key, Value: obj})
	return CVObject{Fields: fields}
}

// CompressSimpleClasses merges an Object field whose value is itself a
// single-entry Object into the outer key's type-annotation list, applied
// bottom-up so chains of single-entry wrappers collapse in one pass.
// spec.md §4.8.
func CompressSimpleClasses(v CompactValue) CompactValue {
	switch t := v.(type) {
	case CVKeyType:
		return t
	case CVArray:
		items := make([]CompactValue, len(t.Items))
		for i, it := range t.Items {
			items[i] = CompressSimpleClasses(it)
		}
		return CVArray{Items: items}
	case CVObject:
		out := ordered.Set[CVField]{}
		for _, p := range t.Fields {
			f := p.Value
			compressedValue := CompressSimpleClasses(f.Value)
			out = insertCVField(out, mergeSingleEntryChild(f.Key, compressedValue))
		}
		return CVObject{Fields: out}
	default:
		unreachable("CompactValue variant in CompressSimpleClasses", v)
		return nil
	}
}

// mergeSingleEntryChild implements spec.md §4.8's merge algorithm for one
// field, after the field's value has already been recursively compressed.
func mergeSingleEntryChild(key CompactKey, value CompactValue) CVField {
	obj, ok := value.(CVObject)
	if !ok || len(obj.Fields) != 1 {
		return CVField{Key: key, Value: value}
	}
	inner := obj.Fields[0].Value
	var annotations []SimpleType
	switch ik := inner.Key.(type) {
	case CompactKeyString:
		annotations = append([]SimpleType{{S: ik.Name}}, ik.Types...)
	case CompactKeyTransient:
		annotations = ik.Types
	default:
		unreachable("CompactKey variant in mergeSingleEntryChild", inner.Key)
	}
	mergedKey := mergeKeyAnnotations(key, annotations)
	return CVField{Key: mergedKey, Value: inner.Value}
}

func mergeKeyAnnotations(key CompactKey, annotations []SimpleType) CompactKey {
	switch k := key.(type) {
	case CompactKeyString:
		return CompactKeyString{Name: k.Name, Types: append(append([]SimpleType{}, k.Types...), annotations...)}
	case CompactKeyTransient:
		return CompactKeyTransient{Types: append(append([]SimpleType{}, k.Types...), annotations...)}
	default:
		unreachable("CompactKey variant in mergeKeyAnnotations", key)
		return nil
	}
}
