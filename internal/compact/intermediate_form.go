package compact

import (
	"labelize/internal/ordered"
)

// CompactKey is the final enriched key: a name with accumulated type
// annotations, or a name-less Transient key that exists only to carry type
// annotation. spec.md §3.
type CompactKey interface {
	compactKey()
	SortKey() string
	ChooseLang(langs []string) string
}

// SimpleType is a thin wrapper around a StringType, used as one entry of a
// CompactKey's type-annotation list.
type SimpleType struct {
	S StringType
}

func (t SimpleType) ChooseLang(langs []string) string { return t.S.ChooseLang(langs) }

type CompactKeyString struct {
	Name  StringType
	Types []SimpleType
}

func (CompactKeyString) compactKey()        {}
func (k CompactKeyString) SortKey() string  { return k.Name.SortKey() }

// ChooseLang renders "{key} [{t1}, {t2}, ...]" when types are attached,
// else just "{key}". spec.md §4.9.
func (k CompactKeyString) ChooseLang(langs []string) string {
	rendered := k.Name.ChooseLang(langs)
	if len(k.Types) == 0 {
		return rendered
	}
	return rendered + " " + renderTypeList(k.Types, langs)
}

type CompactKeyTransient struct {
	Types []SimpleType
}

func (CompactKeyTransient) compactKey() {}

// SortKey gives Transient keys a distinct, deterministic namespace so they
// never silently collide with a named key at the same object level.
func (k CompactKeyTransient) SortKey() string {
	s := "\x00transient"
	for _, t := range k.Types {
		s += "\x00" + t.S.SortKey()
	}
	return s
}

// ChooseLang renders "[{t1}, {t2}, ...]" with no name prefix. spec.md §4.9.
func (k CompactKeyTransient) ChooseLang(langs []string) string {
	return renderTypeList(k.Types, langs)
}

func renderTypeList(types []SimpleType, langs []string) string {
	s := "["
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += t.ChooseLang(langs)
	}
	return s + "]"
}

// IType mirrors Type one tier up the tower: the same Simple/WithArgs shape,
// but its args hold IntermediateForm rather than TypedForm. spec.md §4.5:
// "Type is threaded into a parallel IntermediateType with identical
// Simple/WithArgs structure."
type IType interface {
	iTypeVariant()
}

type ITypeSimple struct{ Name StringType }

func (ITypeSimple) iTypeVariant() {}

type ITypeArg struct {
	Key   StringType
	Value IntermediateForm
}

type ITypeWithArgs struct {
	Name StringType
	Args ordered.Set[ITypeArg]
}

func (ITypeWithArgs) iTypeVariant() {}

func iTypeName(t IType) StringType {
	switch tt := t.(type) {
	case ITypeSimple:
		return tt.Name
	case ITypeWithArgs:
		return tt.Name
	default:
		unreachable("IType variant", t)
		return nil
	}
}

func iTypeArgs(t IType) ordered.Set[ITypeArg] {
	if wa, ok := t.(ITypeWithArgs); ok {
		return wa.Args
	}
	return nil
}

func withITypeArgs(name StringType, args ordered.Set[ITypeArg]) IType {
	if len(args) == 0 {
		return ITypeSimple{Name: name}
	}
	return ITypeWithArgs{Name: name, Args: args}
}

// IntermediateForm is the rewriting workspace between TypedForm and
// CompactValue. spec.md §3, §4.5, §4.6.
type IntermediateForm interface {
	intermediateForm()
}

type IFKeyType struct{ K CompactKey }

func (IFKeyType) intermediateForm() {}

type IFArray struct {
	ElemType IType
	Items    []IntermediateForm
}

func (IFArray) intermediateForm() {}

type IFField struct {
	Key   StringType
	Value IntermediateForm
}

type IFObject struct {
	Fields ordered.Set[IFField]
}

func (IFObject) intermediateForm() {}

type IFTypedObject struct {
	T      IType
	Fields ordered.Set[IFField]
}

func (IFTypedObject) intermediateForm() {}

func insertIFField(fields ordered.Set[IFField], key StringType, value IntermediateForm) ordered.Set[IFField] {
	return fields.Insert(key.SortKey(), IFField{Key: key, Value: value})
}

// FromTypedForm re-tags a TypedForm as an IntermediateForm: a one-to-one
// conversion, every bare StringType becoming a CompactKeyString with no
// type annotations yet. spec.md §4.5.
func FromTypedForm(v TypedForm) IntermediateForm {
	switch t := v.(type) {
	case TypedFormString:
		return IFKeyType{K: CompactKeyString{Name: t.S}}
	case TypedFormArray:
		items := make([]IntermediateForm, len(t.Items))
		for i, it := range t.Items {
			items[i] = FromTypedForm(it)
		}
		return IFArray{ElemType: convertType(t.ElemType), Items: items}
	case TypedFormObject:
		fields := ordered.Set[IFField]{}
		for _, p := range t.Fields {
			fields = insertIFField(fields, p.Value.Key, FromTypedForm(p.Value.Value))
		}
		return IFObject{Fields: fields}
	case TypedFormTypedObject:
		fields := ordered.Set[IFField]{}
		for _, p := range t.Fields {
			fields = insertIFField(fields, p.Value.Key, FromTypedForm(p.Value.Value))
		}
		return IFTypedObject{T: convertType(t.T), Fields: fields}
	default:
		unreachable("TypedForm variant in FromTypedForm", v)
		return nil
	}
}

func convertType(t Type) IType {
	switch tt := t.(type) {
	case TypeSimple:
		return ITypeSimple{Name: tt.Name}
	case TypeWithArgs:
		args := ordered.Set[ITypeArg]{}
		for _, a := range tt.Args {
			args = args.Insert(a.Key, ITypeArg{Key: a.Value.Key, Value: FromTypedForm(a.Value.Value)})
		}
		return ITypeWithArgs{Name: tt.Name, Args: args}
	default:
		unreachable("Type variant in convertType", t)
		return nil
	}
}
