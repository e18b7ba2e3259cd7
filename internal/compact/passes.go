package compact

import (
	"labelize/internal/ordered"
	"labelize/internal/zobject"
)

// The four IntermediateForm passes below are total, recursive, and
// idempotent after one application (spec.md §4.6, §8). The canonical
// pipeline applies them in this file's order: reference, string,
// monolingual, drop-array-item-types.

func mapIF(items []IntermediateForm, f func(IntermediateForm) IntermediateForm) []IntermediateForm {
	out := make([]IntermediateForm, len(items))
	for i, it := range items {
		out[i] = f(it)
	}
	return out
}

func mapIFFields(fields ordered.Set[IFField], f func(IntermediateForm) IntermediateForm) ordered.Set[IFField] {
	out := ordered.Set[IFField]{}
	for _, p := range fields {
		out = insertIFField(out, p.Value.Key, f(p.Value.Value))
	}
	return out
}

func isTypeNamed(t IType, label string) bool {
	return zobject.IsLabelled(typeNameOf(t), label)
}

func typeNameOf(t IType) StringType {
	return iTypeName(t)
}

func lookupField(v IntermediateForm, key string) (IntermediateForm, bool) {
	switch t := v.(type) {
	case IFObject:
		f, ok := t.Fields.Get(key)
		if !ok {
			return nil, false
		}
		return f.Value, true
	case IFTypedObject:
		f, ok := t.Fields.Get(key)
		if !ok {
			return nil, false
		}
		return f.Value, true
	default:
		return nil, false
	}
}

func extractPlainString(v IntermediateForm) (StringType, bool) {
	if kt, ok := v.(IFKeyType); ok {
		if cks, ok := kt.K.(CompactKeyString); ok {
			return cks.Name, true
		}
	}
	return nil, false
}

func getTypeArg(args ordered.Set[ITypeArg], key string) (IntermediateForm, bool) {
	for _, a := range args {
		if a.Key == key {
			return a.Value.Value, true
		}
	}
	return nil, false
}

// CompressReference collapses a Z9 reference wrapper — TypedObject(Simple
// "Z9", fields) — to the bare string under Z9K1. Within a Z9-named
// Type::WithArgs, the real type identifier is read from Z9K1 directly, or,
// failing that, one level into the Z1K1 arg. spec.md §4.6.
func CompressReference(v IntermediateForm) IntermediateForm {
	switch t := v.(type) {
	case IFKeyType:
		return t
	case IFArray:
		return IFArray{ElemType: compressReferenceType(t.ElemType), Items: mapIF(t.Items, CompressReference)}
	case IFObject:
		return IFObject{Fields: mapIFFields(t.Fields, CompressReference)}
	case IFTypedObject:
		fields := mapIFFields(t.Fields, CompressReference)
		if isTypeNamed(t.T, "Z9") {
			if f, ok := fields.Get("Z9K1"); ok {
				if s, ok := extractPlainString(f.Value); ok {
					return IFKeyType{K: CompactKeyString{Name: s}}
				}
			}
		}
		return IFTypedObject{T: compressReferenceType(t.T), Fields: fields}
	default:
		unreachable("IntermediateForm variant in CompressReference", v)
		return nil
	}
}

func compressReferenceType(t IType) IType {
	switch tt := t.(type) {
	case ITypeSimple:
		return tt
	case ITypeWithArgs:
		args := ordered.Set[ITypeArg]{}
		for _, a := range tt.Args {
			args = args.Insert(a.Key, ITypeArg{Key: a.Value.Key, Value: CompressReference(a.Value.Value)})
		}
		if zobject.IsLabelled(tt.Name, "Z9") {
			if s, ok := resolveZ9Args(args); ok {
				return ITypeSimple{Name: s}
			}
		}
		return ITypeWithArgs{Name: tt.Name, Args: args}
	default:
		unreachable("IType variant in compressReferenceType", t)
		return nil
	}
}

func resolveZ9Args(args ordered.Set[ITypeArg]) (StringType, bool) {
	if v, ok := getTypeArg(args, "Z9K1"); ok {
		if s, ok := extractPlainString(v); ok {
			return s, true
		}
	}
	if v, ok := getTypeArg(args, "Z1K1"); ok {
		if inner, ok := lookupField(v, "Z9K1"); ok {
			if s, ok := extractPlainString(inner); ok {
				return s, true
			}
		}
	}
	return nil, false
}

// CompressString collapses a Z6 string wrapper — TypedObject(Simple "Z6",
// fields) — to the bare string under Z6K1. Recurses into type arguments
// via itself (spec.md §9 records that one revision of the original
// recursed via compress_reference here, almost certainly a copy-paste
// slip; this implementation recurses via CompressString, which is the only
// reading under which "applying compress_string twice equals applying it
// once" (spec.md §8) holds for an object whose type args themselves
// contain a Z6 wrapper).
func CompressString(v IntermediateForm) IntermediateForm {
	switch t := v.(type) {
	case IFKeyType:
		return t
	case IFArray:
		return IFArray{ElemType: compressStringType(t.ElemType), Items: mapIF(t.Items, CompressString)}
	case IFObject:
		return IFObject{Fields: mapIFFields(t.Fields, CompressString)}
	case IFTypedObject:
		fields := mapIFFields(t.Fields, CompressString)
		if isTypeNamed(t.T, "Z6") {
			if f, ok := fields.Get("Z6K1"); ok {
				if s, ok := extractPlainString(f.Value); ok {
					return IFKeyType{K: CompactKeyString{Name: s}}
				}
			}
		}
		return IFTypedObject{T: compressStringType(t.T), Fields: fields}
	default:
		unreachable("IntermediateForm variant in CompressString", v)
		return nil
	}
}

func compressStringType(t IType) IType {
	switch tt := t.(type) {
	case ITypeSimple:
		return tt
	case ITypeWithArgs:
		args := ordered.Set[ITypeArg]{}
		for _, a := range tt.Args {
			args = args.Insert(a.Key, ITypeArg{Key: a.Value.Key, Value: CompressString(a.Value.Value)})
		}
		return ITypeWithArgs{Name: tt.Name, Args: args}
	default:
		unreachable("IType variant in compressStringType", t)
		return nil
	}
}

// CompressMonolingual collapses a Z11 monolingual-text object into a
// CompactKey carrying its language as a type annotation: text from Z11K2,
// language from Z11K1. spec.md §4.6.
func CompressMonolingual(v IntermediateForm) IntermediateForm {
	switch t := v.(type) {
	case IFKeyType:
		return t
	case IFArray:
		return IFArray{ElemType: compressMonolingualType(t.ElemType), Items: mapIF(t.Items, CompressMonolingual)}
	case IFObject:
		return IFObject{Fields: mapIFFields(t.Fields, CompressMonolingual)}
	case IFTypedObject:
		fields := mapIFFields(t.Fields, CompressMonolingual)
		if isTypeNamed(t.T, "Z11") {
			langF, langOk := fields.Get("Z11K1")
			textF, textOk := fields.Get("Z11K2")
			if langOk && textOk {
				if lang, ok := extractPlainString(langF.Value); ok {
					if text, ok := extractPlainString(textF.Value); ok {
						return IFKeyType{K: CompactKeyString{Name: text, Types: []SimpleType{{S: lang}}}}
					}
				}
			}
		}
		return IFTypedObject{T: compressMonolingualType(t.T), Fields: fields}
	default:
		unreachable("IntermediateForm variant in CompressMonolingual", v)
		return nil
	}
}

func compressMonolingualType(t IType) IType {
	switch tt := t.(type) {
	case ITypeSimple:
		return tt
	case ITypeWithArgs:
		args := ordered.Set[ITypeArg]{}
		for _, a := range tt.Args {
			args = args.Insert(a.Key, ITypeArg{Key: a.Value.Key, Value: CompressMonolingual(a.Value.Value)})
		}
		return ITypeWithArgs{Name: tt.Name, Args: args}
	default:
		unreachable("IType variant in compressMonolingualType", t)
		return nil
	}
}

// DropArrayItemTypes rewrites each TypedObject array item as a plain
// Object — the array's element type is carried once, on the array, not
// repeated per element. spec.md §4.6.
func DropArrayItemTypes(v IntermediateForm) IntermediateForm {
	switch t := v.(type) {
	case IFKeyType:
		return t
	case IFArray:
		items := make([]IntermediateForm, len(t.Items))
		for i, it := range t.Items {
			dropped := DropArrayItemTypes(it)
			if to, ok := dropped.(IFTypedObject); ok {
				dropped = IFObject{Fields: to.Fields}
			}
			items[i] = dropped
		}
		return IFArray{ElemType: dropArrayItemTypesInType(t.ElemType), Items: items}
	case IFObject:
		return IFObject{Fields: mapIFFields(t.Fields, DropArrayItemTypes)}
	case IFTypedObject:
		return IFTypedObject{T: dropArrayItemTypesInType(t.T), Fields: mapIFFields(t.Fields, DropArrayItemTypes)}
	default:
		unreachable("IntermediateForm variant in DropArrayItemTypes", v)
		return nil
	}
}

func dropArrayItemTypesInType(t IType) IType {
	switch tt := t.(type) {
	case ITypeSimple:
		return tt
	case ITypeWithArgs:
		args := ordered.Set[ITypeArg]{}
		for _, a := range tt.Args {
			args = args.Insert(a.Key, ITypeArg{Key: a.Value.Key, Value: DropArrayItemTypes(a.Value.Value)})
		}
		return ITypeWithArgs{Name: tt.Name, Args: args}
	default:
		unreachable("IType variant in dropArrayItemTypesInType", t)
		return nil
	}
}
