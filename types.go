/*
 * Capstan - Schema-driven codecs for smart-contract program data
 *
 * Copyright Onsol Labs
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package capstan

import (
	"fmt"
	"strings"
)

// Type

// A Type describes the shape of values on the wire.
//
// The wire format is not self-describing: both the encoder and the decoder
// must be given the same Type, built once — typically from a program's
// interface description — and reused across calls. Types are immutable
// after construction and safe for unrestricted concurrent use.
type Type interface {
	isType()
	ID() string
	Equal(other Type) bool
}

// TupleDataFieldName is the reserved identifier under which the payload of a
// positional-tuple enum variant appears when a value is converted with
// ToGoValue. Field and variant declarations must not use it.
const TupleDataFieldName = "tuple_data"

// reservedIdentifierPrefix marks identifiers reserved for internal use.
const reservedIdentifierPrefix = "_"

// MaxEnumVariants is the maximum number of variants an enum can declare:
// the wire discriminant is a single byte.
const MaxEnumVariants = 256

// SchemaError

// SchemaError indicates an invalid type declaration, e.g. a reserved,
// duplicate, or missing field name. It is only returned by type
// constructors, never during encoding or decoding.
type SchemaError struct {
	Message string
}

func NewSchemaError(message string, args ...any) SchemaError {
	return SchemaError{
		Message: fmt.Sprintf(message, args...),
	}
}

func (e SchemaError) Error() string {
	return e.Message
}

func (e SchemaError) IsUserError() {}

// checkIdentifier validates a declared field or variant identifier.
func checkIdentifier(kind, identifier string) error {
	if identifier == "" {
		return NewSchemaError("unnamed %s is not allowed", kind)
	}
	if identifier == TupleDataFieldName {
		return NewSchemaError(
			"%s name %q is reserved",
			kind,
			TupleDataFieldName,
		)
	}
	if strings.HasPrefix(identifier, reservedIdentifierPrefix) {
		return NewSchemaError(
			"%s name %q must not start with %q",
			kind,
			identifier,
			reservedIdentifierPrefix,
		)
	}
	return nil
}

// BoolType

type BoolType struct{}

var _ Type = BoolType{}

func NewBoolType() BoolType {
	return BoolType{}
}

func (BoolType) isType() {}

func (BoolType) ID() string {
	return "Bool"
}

func (t BoolType) Equal(other Type) bool {
	return t == other
}

// StringType

type StringType struct{}

var _ Type = StringType{}

func NewStringType() StringType {
	return StringType{}
}

func (StringType) isType() {}

func (StringType) ID() string {
	return "String"
}

func (t StringType) Equal(other Type) bool {
	return t == other
}

// BytesType

type BytesType struct{}

var _ Type = BytesType{}

func NewBytesType() BytesType {
	return BytesType{}
}

func (BytesType) isType() {}

func (BytesType) ID() string {
	return "Bytes"
}

func (t BytesType) Equal(other Type) bool {
	return t == other
}

// AddressType

type AddressType struct{}

var _ Type = AddressType{}

func NewAddressType() AddressType {
	return AddressType{}
}

func (AddressType) isType() {}

func (AddressType) ID() string {
	return "Address"
}

func (t AddressType) Equal(other Type) bool {
	return t == other
}

// Int8Type

type Int8Type struct{}

var _ Type = Int8Type{}

func NewInt8Type() Int8Type {
	return Int8Type{}
}

func (Int8Type) isType() {}

func (Int8Type) ID() string {
	return "Int8"
}

func (t Int8Type) Equal(other Type) bool {
	return t == other
}

// Int16Type

type Int16Type struct{}

var _ Type = Int16Type{}

func NewInt16Type() Int16Type {
	return Int16Type{}
}

func (Int16Type) isType() {}

func (Int16Type) ID() string {
	return "Int16"
}

func (t Int16Type) Equal(other Type) bool {
	return t == other
}

// Int32Type

type Int32Type struct{}

var _ Type = Int32Type{}

func NewInt32Type() Int32Type {
	return Int32Type{}
}

func (Int32Type) isType() {}

func (Int32Type) ID() string {
	return "Int32"
}

func (t Int32Type) Equal(other Type) bool {
	return t == other
}

// Int64Type

type Int64Type struct{}

var _ Type = Int64Type{}

func NewInt64Type() Int64Type {
	return Int64Type{}
}

func (Int64Type) isType() {}

func (Int64Type) ID() string {
	return "Int64"
}

func (t Int64Type) Equal(other Type) bool {
	return t == other
}

// Int128Type

type Int128Type struct{}

var _ Type = Int128Type{}

func NewInt128Type() Int128Type {
	return Int128Type{}
}

func (Int128Type) isType() {}

func (Int128Type) ID() string {
	return "Int128"
}

func (t Int128Type) Equal(other Type) bool {
	return t == other
}

// UInt8Type

type UInt8Type struct{}

var _ Type = UInt8Type{}

func NewUInt8Type() UInt8Type {
	return UInt8Type{}
}

func (UInt8Type) isType() {}

func (UInt8Type) ID() string {
	return "UInt8"
}

func (t UInt8Type) Equal(other Type) bool {
	return t == other
}

// UInt16Type

type UInt16Type struct{}

var _ Type = UInt16Type{}

func NewUInt16Type() UInt16Type {
	return UInt16Type{}
}

func (UInt16Type) isType() {}

func (UInt16Type) ID() string {
	return "UInt16"
}

func (t UInt16Type) Equal(other Type) bool {
	return t == other
}

// UInt32Type

type UInt32Type struct{}

var _ Type = UInt32Type{}

func NewUInt32Type() UInt32Type {
	return UInt32Type{}
}

func (UInt32Type) isType() {}

func (UInt32Type) ID() string {
	return "UInt32"
}

func (t UInt32Type) Equal(other Type) bool {
	return t == other
}

// UInt64Type

type UInt64Type struct{}

var _ Type = UInt64Type{}

func NewUInt64Type() UInt64Type {
	return UInt64Type{}
}

func (UInt64Type) isType() {}

func (UInt64Type) ID() string {
	return "UInt64"
}

func (t UInt64Type) Equal(other Type) bool {
	return t == other
}

// UInt128Type

type UInt128Type struct{}

var _ Type = UInt128Type{}

func NewUInt128Type() UInt128Type {
	return UInt128Type{}
}

func (UInt128Type) isType() {}

func (UInt128Type) ID() string {
	return "UInt128"
}

func (t UInt128Type) Equal(other Type) bool {
	return t == other
}

// Float32Type

type Float32Type struct{}

var _ Type = Float32Type{}

func NewFloat32Type() Float32Type {
	return Float32Type{}
}

func (Float32Type) isType() {}

func (Float32Type) ID() string {
	return "Float32"
}

func (t Float32Type) Equal(other Type) bool {
	return t == other
}

// Float64Type

type Float64Type struct{}

var _ Type = Float64Type{}

func NewFloat64Type() Float64Type {
	return Float64Type{}
}

func (Float64Type) isType() {}

func (Float64Type) ID() string {
	return "Float64"
}

func (t Float64Type) Equal(other Type) bool {
	return t == other
}

// OptionalType

type OptionalType struct {
	Type Type
}

var _ Type = &OptionalType{}

func NewOptionalType(typ Type) *OptionalType {
	return &OptionalType{Type: typ}
}

func (*OptionalType) isType() {}

func (t *OptionalType) ID() string {
	return fmt.Sprintf("%s?", t.Type.ID())
}

func (t *OptionalType) Equal(other Type) bool {
	otherType, ok := other.(*OptionalType)
	if !ok {
		return false
	}

	return t.Type.Equal(otherType.Type)
}

// ArrayType

type ArrayType interface {
	Type
	Element() Type
}

// VariableSizedArrayType

type VariableSizedArrayType struct {
	ElementType Type
}

var _ ArrayType = &VariableSizedArrayType{}

func NewVariableSizedArrayType(elementType Type) *VariableSizedArrayType {
	return &VariableSizedArrayType{ElementType: elementType}
}

func (*VariableSizedArrayType) isType() {}

func (t *VariableSizedArrayType) ID() string {
	return fmt.Sprintf("[%s]", t.ElementType.ID())
}

func (t *VariableSizedArrayType) Element() Type {
	return t.ElementType
}

func (t *VariableSizedArrayType) Equal(other Type) bool {
	otherType, ok := other.(*VariableSizedArrayType)
	if !ok {
		return false
	}

	return t.ElementType.Equal(otherType.ElementType)
}

// ConstantSizedArrayType

type ConstantSizedArrayType struct {
	ElementType Type
	Size        uint
}

var _ ArrayType = &ConstantSizedArrayType{}

func NewConstantSizedArrayType(
	size uint,
	elementType Type,
) *ConstantSizedArrayType {
	return &ConstantSizedArrayType{
		Size:        size,
		ElementType: elementType,
	}
}

func (*ConstantSizedArrayType) isType() {}

func (t *ConstantSizedArrayType) ID() string {
	return fmt.Sprintf("[%s;%d]", t.ElementType.ID(), t.Size)
}

func (t *ConstantSizedArrayType) Element() Type {
	return t.ElementType
}

func (t *ConstantSizedArrayType) Equal(other Type) bool {
	otherType, ok := other.(*ConstantSizedArrayType)
	if !ok {
		return false
	}

	return t.ElementType.Equal(otherType.ElementType) &&
		t.Size == otherType.Size
}

// DictionaryType

type DictionaryType struct {
	KeyType     Type
	ElementType Type
}

var _ Type = &DictionaryType{}

func NewDictionaryType(
	keyType Type,
	elementType Type,
) *DictionaryType {
	return &DictionaryType{
		KeyType:     keyType,
		ElementType: elementType,
	}
}

func (*DictionaryType) isType() {}

func (t *DictionaryType) ID() string {
	return fmt.Sprintf(
		"{%s: %s}",
		t.KeyType.ID(),
		t.ElementType.ID(),
	)
}

func (t *DictionaryType) Equal(other Type) bool {
	otherType, ok := other.(*DictionaryType)
	if !ok {
		return false
	}

	return t.KeyType.Equal(otherType.KeyType) &&
		t.ElementType.Equal(otherType.ElementType)
}

// SetType

type SetType struct {
	ElementType Type
}

var _ Type = &SetType{}

func NewSetType(elementType Type) *SetType {
	return &SetType{ElementType: elementType}
}

func (*SetType) isType() {}

func (t *SetType) ID() string {
	return fmt.Sprintf("{%s}", t.ElementType.ID())
}

func (t *SetType) Equal(other Type) bool {
	otherType, ok := other.(*SetType)
	if !ok {
		return false
	}

	return t.ElementType.Equal(otherType.ElementType)
}

// Field

type Field struct {
	Type       Type
	Identifier string
}

func NewField(identifier string, typ Type) Field {
	return Field{
		Identifier: identifier,
		Type:       typ,
	}
}

func fieldsEqual(fields, otherFields []Field) bool {
	if len(fields) != len(otherFields) {
		return false
	}

	for i, field := range fields {
		otherField := otherFields[i]
		if field.Identifier != otherField.Identifier ||
			!field.Type.Equal(otherField.Type) {

			return false
		}
	}

	return true
}

// checkFields validates field identifiers and rejects duplicates.
func checkFields(kind string, fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if err := checkIdentifier(kind, field.Identifier); err != nil {
			return err
		}
		if _, ok := seen[field.Identifier]; ok {
			return NewSchemaError(
				"duplicate %s name %q",
				kind,
				field.Identifier,
			)
		}
		seen[field.Identifier] = struct{}{}
	}
	return nil
}

// StructType

// A StructType is an ordered aggregate of named, typed fields.
// The declared field order is the wire order.
type StructType struct {
	QualifiedIdentifier string
	Fields              []Field
}

var _ Type = &StructType{}

func NewStructType(
	qualifiedIdentifier string,
	fields []Field,
) (*StructType, error) {
	if err := checkFields("struct field", fields); err != nil {
		return nil, err
	}
	return &StructType{
		QualifiedIdentifier: qualifiedIdentifier,
		Fields:              fields,
	}, nil
}

// MustNewStructType panics if the declaration is invalid.
func MustNewStructType(
	qualifiedIdentifier string,
	fields []Field,
) *StructType {
	structType, err := NewStructType(qualifiedIdentifier, fields)
	if err != nil {
		panic(err)
	}
	return structType
}

func (*StructType) isType() {}

func (t *StructType) ID() string {
	return t.QualifiedIdentifier
}

func (t *StructType) Equal(other Type) bool {
	otherType, ok := other.(*StructType)
	if !ok {
		return false
	}

	return t.QualifiedIdentifier == otherType.QualifiedIdentifier &&
		fieldsEqual(t.Fields, otherType.Fields)
}

// VariantType

// A VariantType is one case of an enum. A variant carries either no payload
// (unit), an ordered sequence of unnamed typed elements (positional tuple),
// or an ordered aggregate of named fields. The variant's position in the
// enum declaration is its wire discriminant and must never change.
type VariantType struct {
	Identifier string
	Elements   []Type
	Fields     []Field
}

func NewUnitVariantType(identifier string) *VariantType {
	return &VariantType{Identifier: identifier}
}

func NewTupleVariantType(identifier string, elements ...Type) *VariantType {
	return &VariantType{
		Identifier: identifier,
		Elements:   elements,
	}
}

func NewFieldsVariantType(identifier string, fields ...Field) *VariantType {
	return &VariantType{
		Identifier: identifier,
		Fields:     fields,
	}
}

// IsUnit returns true if the variant carries no payload.
func (v *VariantType) IsUnit() bool {
	return len(v.Elements) == 0 && len(v.Fields) == 0
}

// IsTuple returns true if the variant payload is a positional tuple.
func (v *VariantType) IsTuple() bool {
	return len(v.Elements) > 0
}

// Arity returns the number of payload values the variant carries.
func (v *VariantType) Arity() int {
	if v.IsTuple() {
		return len(v.Elements)
	}
	return len(v.Fields)
}

func (v *VariantType) Equal(other *VariantType) bool {
	if v.Identifier != other.Identifier {
		return false
	}

	if len(v.Elements) != len(other.Elements) {
		return false
	}
	for i, element := range v.Elements {
		if !element.Equal(other.Elements[i]) {
			return false
		}
	}

	return fieldsEqual(v.Fields, other.Fields)
}

// EnumType

// An EnumType is a tagged union of up to 256 variants.
// Variants are identified on the wire by a single discriminant byte equal
// to their declaration index.
type EnumType struct {
	QualifiedIdentifier string
	Variants            []*VariantType
}

var _ Type = &EnumType{}

func NewEnumType(
	qualifiedIdentifier string,
	variants []*VariantType,
) (*EnumType, error) {
	if len(variants) > MaxEnumVariants {
		return nil, NewSchemaError(
			"enum %q declares %d variants, maximum is %d",
			qualifiedIdentifier,
			len(variants),
			MaxEnumVariants,
		)
	}

	seen := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		if variant == nil {
			return nil, NewSchemaError(
				"enum %q declares a nil variant",
				qualifiedIdentifier,
			)
		}
		if err := checkIdentifier("variant", variant.Identifier); err != nil {
			return nil, err
		}
		if _, ok := seen[variant.Identifier]; ok {
			return nil, NewSchemaError(
				"duplicate variant name %q",
				variant.Identifier,
			)
		}
		seen[variant.Identifier] = struct{}{}

		if len(variant.Elements) > 0 && len(variant.Fields) > 0 {
			return nil, NewSchemaError(
				"variant %q declares both tuple elements and named fields",
				variant.Identifier,
			)
		}
		if err := checkFields("variant field", variant.Fields); err != nil {
			return nil, err
		}
	}

	return &EnumType{
		QualifiedIdentifier: qualifiedIdentifier,
		Variants:            variants,
	}, nil
}

// MustNewEnumType panics if the declaration is invalid.
func MustNewEnumType(
	qualifiedIdentifier string,
	variants []*VariantType,
) *EnumType {
	enumType, err := NewEnumType(qualifiedIdentifier, variants)
	if err != nil {
		panic(err)
	}
	return enumType
}

func (*EnumType) isType() {}

func (t *EnumType) ID() string {
	return t.QualifiedIdentifier
}

func (t *EnumType) Equal(other Type) bool {
	otherType, ok := other.(*EnumType)
	if !ok {
		return false
	}

	if t.QualifiedIdentifier != otherType.QualifiedIdentifier {
		return false
	}

	if len(t.Variants) != len(otherType.Variants) {
		return false
	}
	for i, variant := range t.Variants {
		if !variant.Equal(otherType.Variants[i]) {
			return false
		}
	}

	return true
}

// VariantByName returns the variant with the given identifier
// and its discriminant.
func (t *EnumType) VariantByName(identifier string) (*VariantType, int, bool) {
	for i, variant := range t.Variants {
		if variant.Identifier == identifier {
			return variant, i, true
		}
	}
	return nil, 0, false
}
