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
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/onsol/capstan/format"
)

// Value

type Value interface {
	isValue()
	Type() Type
	ToGoValue() any
	fmt.Stringer
}

// NumberValue

type NumberValue interface {
	Value
	ToBigEndianBytes() []byte
}

// Bool

type Bool bool

var _ Value = Bool(false)

func NewBool(b bool) Bool {
	return Bool(b)
}

func (Bool) isValue() {}

func (Bool) Type() Type {
	return NewBoolType()
}

func (v Bool) ToGoValue() any {
	return bool(v)
}

func (v Bool) String() string {
	return format.Bool(bool(v))
}

// String

type String string

var _ Value = String("")

// NewString returns a String value, or an error if s is not valid UTF-8.
func NewString(s string) (String, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("invalid UTF-8 in string: %s", s)
	}
	return String(s), nil
}

func (String) isValue() {}

func (String) Type() Type {
	return NewStringType()
}

func (v String) ToGoValue() any {
	return string(v)
}

func (v String) String() string {
	return format.String(string(v))
}

// Bytes

type Bytes []byte

var _ Value = Bytes(nil)

func NewBytes(b []byte) Bytes {
	return b
}

func (Bytes) isValue() {}

func (Bytes) Type() Type {
	return NewBytesType()
}

func (v Bytes) ToGoValue() any {
	return []byte(v)
}

func (v Bytes) String() string {
	return format.Bytes(v)
}

// Address

const AddressLength = 32

type Address [AddressLength]byte

var _ Value = Address{}

func NewAddress(b [AddressLength]byte) Address {
	return b
}

// NewAddressFromBytes returns an Address value,
// or an error if b is not exactly AddressLength bytes long.
func NewAddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf(
			"address must be %d bytes, got %d",
			AddressLength,
			len(b),
		)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (Address) isValue() {}

func (Address) Type() Type {
	return NewAddressType()
}

func (v Address) ToGoValue() any {
	return [AddressLength]byte(v)
}

func (v Address) Bytes() []byte {
	return v[:]
}

func (v Address) String() string {
	return format.Address(v[:])
}

// Int8

type Int8 int8

var _ Value = Int8(0)
var _ NumberValue = Int8(0)

func NewInt8(v int8) Int8 {
	return Int8(v)
}

func (Int8) isValue() {}

func (Int8) Type() Type {
	return NewInt8Type()
}

func (v Int8) ToGoValue() any {
	return int8(v)
}

func (v Int8) ToBigEndianBytes() []byte {
	return []byte{byte(v)}
}

func (v Int8) String() string {
	return format.Int(int64(v))
}

// Int16

type Int16 int16

var _ Value = Int16(0)
var _ NumberValue = Int16(0)

func NewInt16(v int16) Int16 {
	return Int16(v)
}

func (Int16) isValue() {}

func (Int16) Type() Type {
	return NewInt16Type()
}

func (v Int16) ToGoValue() any {
	return int16(v)
}

func (v Int16) ToBigEndianBytes() []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func (v Int16) String() string {
	return format.Int(int64(v))
}

// Int32

type Int32 int32

var _ Value = Int32(0)
var _ NumberValue = Int32(0)

func NewInt32(v int32) Int32 {
	return Int32(v)
}

func (Int32) isValue() {}

func (Int32) Type() Type {
	return NewInt32Type()
}

func (v Int32) ToGoValue() any {
	return int32(v)
}

func (v Int32) ToBigEndianBytes() []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func (v Int32) String() string {
	return format.Int(int64(v))
}

// Int64

type Int64 int64

var _ Value = Int64(0)
var _ NumberValue = Int64(0)

func NewInt64(v int64) Int64 {
	return Int64(v)
}

func (Int64) isValue() {}

func (Int64) Type() Type {
	return NewInt64Type()
}

func (v Int64) ToGoValue() any {
	return int64(v)
}

func (v Int64) ToBigEndianBytes() []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

func (v Int64) String() string {
	return format.Int(int64(v))
}

// Int128

var Int128TypeMinIntBig = func() *big.Int {
	int128TypeMin := big.NewInt(-1)
	int128TypeMin.Lsh(int128TypeMin, 127)
	return int128TypeMin
}()

var Int128TypeMaxIntBig = func() *big.Int {
	int128TypeMax := big.NewInt(1)
	int128TypeMax.Lsh(int128TypeMax, 127)
	int128TypeMax.Sub(int128TypeMax, big.NewInt(1))
	return int128TypeMax
}()

type Int128 struct {
	Value *big.Int
}

var _ Value = Int128{}

func NewInt128(v int) Int128 {
	return Int128{big.NewInt(int64(v))}
}

// NewInt128FromBig returns an Int128 value,
// or an error if v is outside the range of a 128-bit signed integer.
func NewInt128FromBig(v *big.Int) (Int128, error) {
	if v.Cmp(Int128TypeMinIntBig) < 0 {
		return Int128{}, fmt.Errorf("value exceeds min of Int128: %s", v)
	}
	if v.Cmp(Int128TypeMaxIntBig) > 0 {
		return Int128{}, fmt.Errorf("value exceeds max of Int128: %s", v)
	}
	return Int128{v}, nil
}

func (Int128) isValue() {}

func (Int128) Type() Type {
	return NewInt128Type()
}

func (v Int128) ToGoValue() any {
	return v.Big()
}

func (v Int128) Int() int {
	return int(v.Value.Int64())
}

func (v Int128) Big() *big.Int {
	return new(big.Int).Set(v.Value)
}

func (v Int128) String() string {
	return format.BigInt(v.Value)
}

// UInt8

type UInt8 uint8

var _ Value = UInt8(0)
var _ NumberValue = UInt8(0)

func NewUInt8(v uint8) UInt8 {
	return UInt8(v)
}

func (UInt8) isValue() {}

func (UInt8) Type() Type {
	return NewUInt8Type()
}

func (v UInt8) ToGoValue() any {
	return uint8(v)
}

func (v UInt8) ToBigEndianBytes() []byte {
	return []byte{byte(v)}
}

func (v UInt8) String() string {
	return format.Uint(uint64(v))
}

// UInt16

type UInt16 uint16

var _ Value = UInt16(0)
var _ NumberValue = UInt16(0)

func NewUInt16(v uint16) UInt16 {
	return UInt16(v)
}

func (UInt16) isValue() {}

func (UInt16) Type() Type {
	return NewUInt16Type()
}

func (v UInt16) ToGoValue() any {
	return uint16(v)
}

func (v UInt16) ToBigEndianBytes() []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func (v UInt16) String() string {
	return format.Uint(uint64(v))
}

// UInt32

type UInt32 uint32

var _ Value = UInt32(0)
var _ NumberValue = UInt32(0)

func NewUInt32(v uint32) UInt32 {
	return UInt32(v)
}

func (UInt32) isValue() {}

func (UInt32) Type() Type {
	return NewUInt32Type()
}

func (v UInt32) ToGoValue() any {
	return uint32(v)
}

func (v UInt32) ToBigEndianBytes() []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func (v UInt32) String() string {
	return format.Uint(uint64(v))
}

// UInt64

type UInt64 uint64

var _ Value = UInt64(0)
var _ NumberValue = UInt64(0)

func NewUInt64(v uint64) UInt64 {
	return UInt64(v)
}

func (UInt64) isValue() {}

func (UInt64) Type() Type {
	return NewUInt64Type()
}

func (v UInt64) ToGoValue() any {
	return uint64(v)
}

func (v UInt64) ToBigEndianBytes() []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

func (v UInt64) String() string {
	return format.Uint(uint64(v))
}

// UInt128

var UInt128TypeMaxIntBig = func() *big.Int {
	uint128TypeMax := big.NewInt(1)
	uint128TypeMax.Lsh(uint128TypeMax, 128)
	uint128TypeMax.Sub(uint128TypeMax, big.NewInt(1))
	return uint128TypeMax
}()

type UInt128 struct {
	Value *big.Int
}

var _ Value = UInt128{}

func NewUInt128(v uint) UInt128 {
	return UInt128{new(big.Int).SetUint64(uint64(v))}
}

// NewUInt128FromBig returns a UInt128 value,
// or an error if v is negative or exceeds 2^128-1.
func NewUInt128FromBig(v *big.Int) (UInt128, error) {
	if v.Sign() < 0 {
		return UInt128{}, fmt.Errorf("value exceeds min of UInt128: %s", v)
	}
	if v.Cmp(UInt128TypeMaxIntBig) > 0 {
		return UInt128{}, fmt.Errorf("value exceeds max of UInt128: %s", v)
	}
	return UInt128{v}, nil
}

func (UInt128) isValue() {}

func (UInt128) Type() Type {
	return NewUInt128Type()
}

func (v UInt128) ToGoValue() any {
	return v.Big()
}

func (v UInt128) Int() int {
	return int(v.Value.Int64())
}

func (v UInt128) Big() *big.Int {
	return new(big.Int).Set(v.Value)
}

func (v UInt128) String() string {
	return format.BigInt(v.Value)
}

// Float32

type Float32 float32

var _ Value = Float32(0)

// NewFloat32 returns a Float32 value, or an error if v is NaN.
func NewFloat32(v float32) (Float32, error) {
	if v != v {
		return 0, fmt.Errorf("NaN is not a valid Float32 value")
	}
	return Float32(v), nil
}

func (Float32) isValue() {}

func (Float32) Type() Type {
	return NewFloat32Type()
}

func (v Float32) ToGoValue() any {
	return float32(v)
}

func (v Float32) IsNaN() bool {
	return v != v
}

func (v Float32) String() string {
	return format.Float32(float32(v))
}

// Float64

type Float64 float64

var _ Value = Float64(0)

// NewFloat64 returns a Float64 value, or an error if v is NaN.
func NewFloat64(v float64) (Float64, error) {
	if math.IsNaN(v) {
		return 0, fmt.Errorf("NaN is not a valid Float64 value")
	}
	return Float64(v), nil
}

func (Float64) isValue() {}

func (Float64) Type() Type {
	return NewFloat64Type()
}

func (v Float64) ToGoValue() any {
	return float64(v)
}

func (v Float64) IsNaN() bool {
	return math.IsNaN(float64(v))
}

func (v Float64) String() string {
	return format.Float64(float64(v))
}

// Optional

type Optional struct {
	Value Value
}

var _ Value = Optional{}

func NewOptional(value Value) Optional {
	return Optional{Value: value}
}

func (Optional) isValue() {}

func (v Optional) Type() Type {
	var innerType Type
	if v.Value != nil {
		innerType = v.Value.Type()
	}
	return NewOptionalType(innerType)
}

func (v Optional) ToGoValue() any {
	if v.Value == nil {
		return nil
	}
	return v.Value.ToGoValue()
}

func (v Optional) String() string {
	if v.Value == nil {
		return format.Nil
	}
	return v.Value.String()
}

// Array

type Array struct {
	ArrayType ArrayType
	Values    []Value
}

var _ Value = Array{}

func NewArray(values []Value) Array {
	return Array{Values: values}
}

func (v Array) WithType(arrayType ArrayType) Array {
	v.ArrayType = arrayType
	return v
}

func (Array) isValue() {}

func (v Array) Type() Type {
	return v.ArrayType
}

func (v Array) ToGoValue() any {
	ret := make([]any, len(v.Values))

	for i, e := range v.Values {
		ret[i] = e.ToGoValue()
	}

	return ret
}

func (v Array) String() string {
	values := make([]string, len(v.Values))
	for i, value := range v.Values {
		values[i] = value.String()
	}
	return format.Array(values)
}

// Dictionary

type Dictionary struct {
	DictionaryType *DictionaryType
	Pairs          []KeyValuePair
}

var _ Value = Dictionary{}

func NewDictionary(pairs []KeyValuePair) Dictionary {
	return Dictionary{Pairs: pairs}
}

func (v Dictionary) WithType(dictionaryType *DictionaryType) Dictionary {
	v.DictionaryType = dictionaryType
	return v
}

func (Dictionary) isValue() {}

func (v Dictionary) Type() Type {
	if v.DictionaryType == nil {
		return nil
	}
	return v.DictionaryType
}

func (v Dictionary) ToGoValue() any {
	ret := map[any]any{}

	for _, p := range v.Pairs {
		ret[p.Key.ToGoValue()] = p.Value.ToGoValue()
	}

	return ret
}

func (v Dictionary) String() string {
	pairs := make([]struct{ Key, Value string }, len(v.Pairs))

	for i, pair := range v.Pairs {
		pairs[i] = struct{ Key, Value string }{
			Key:   pair.Key.String(),
			Value: pair.Value.String(),
		}
	}

	return format.Dictionary(pairs)
}

// KeyValuePair

type KeyValuePair struct {
	Key   Value
	Value Value
}

func NewKeyValuePair(key, value Value) KeyValuePair {
	return KeyValuePair{
		Key:   key,
		Value: value,
	}
}

// Set

type Set struct {
	SetType *SetType
	Values  []Value
}

var _ Value = Set{}

func NewSet(values []Value) Set {
	return Set{Values: values}
}

func (v Set) WithType(setType *SetType) Set {
	v.SetType = setType
	return v
}

func (Set) isValue() {}

func (v Set) Type() Type {
	if v.SetType == nil {
		return nil
	}
	return v.SetType
}

func (v Set) ToGoValue() any {
	ret := make([]any, len(v.Values))

	for i, e := range v.Values {
		ret[i] = e.ToGoValue()
	}

	return ret
}

func (v Set) String() string {
	values := make([]string, len(v.Values))
	for i, value := range v.Values {
		values[i] = value.String()
	}
	return format.Set(values)
}

// Struct

type Struct struct {
	StructType *StructType
	Fields     []Value
}

var _ Value = Struct{}
var _ HasFields = Struct{}

func NewStruct(fields []Value) Struct {
	return Struct{Fields: fields}
}

func (v Struct) WithType(structType *StructType) Struct {
	v.StructType = structType
	return v
}

func (Struct) isValue() {}

func (v Struct) Type() Type {
	if v.StructType == nil {
		return nil
	}
	return v.StructType
}

func (v Struct) GetFields() []Field {
	if v.StructType == nil {
		return nil
	}
	return v.StructType.Fields
}

func (v Struct) GetFieldValues() []Value {
	return v.Fields
}

func (v Struct) ToGoValue() any {
	ret := map[string]any{}

	fields := v.GetFields()
	for i, field := range v.Fields {
		ret[fields[i].Identifier] = field.ToGoValue()
	}

	return ret
}

func (v Struct) String() string {
	return formatComposite(
		v.StructType.ID(),
		v.StructType.Fields,
		v.Fields,
	)
}

func formatComposite(typeID string, fields []Field, values []Value) string {
	preparedFields := make(
		[]struct{ Name, Value string },
		0,
		len(fields),
	)

	for i, field := range fields {
		preparedFields = append(
			preparedFields,
			struct{ Name, Value string }{
				Name:  field.Identifier,
				Value: values[i].String(),
			},
		)
	}

	return format.Composite(typeID, preparedFields)
}

// Enum

type Enum struct {
	EnumType *EnumType
	Ordinal  uint8
	Fields   []Value
}

var _ Value = Enum{}

// NewEnum returns an Enum value for the variant at the given ordinal,
// or an error if the ordinal is out of range or the payload arity
// does not match the variant's shape.
func NewEnum(enumType *EnumType, ordinal int, fields ...Value) (Enum, error) {
	if enumType == nil {
		return Enum{}, fmt.Errorf("missing enum type")
	}
	if ordinal < 0 || ordinal >= len(enumType.Variants) {
		return Enum{}, fmt.Errorf(
			"enum %s has no variant with ordinal %d",
			enumType.ID(),
			ordinal,
		)
	}
	variant := enumType.Variants[ordinal]
	arity := variant.Arity()
	if len(fields) != arity {
		return Enum{}, fmt.Errorf(
			"enum variant %s.%s expects %d values, got %d",
			enumType.ID(),
			variant.Identifier,
			arity,
			len(fields),
		)
	}
	return Enum{
		EnumType: enumType,
		Ordinal:  uint8(ordinal),
		Fields:   fields,
	}, nil
}

// NewEnumByName returns an Enum value for the variant with the given
// identifier, or an error if the enum has no such variant.
func NewEnumByName(enumType *EnumType, identifier string, fields ...Value) (Enum, error) {
	if enumType == nil {
		return Enum{}, fmt.Errorf("missing enum type")
	}
	_, ordinal, ok := enumType.VariantByName(identifier)
	if !ok {
		return Enum{}, fmt.Errorf(
			"enum %s has no variant named %q",
			enumType.ID(),
			identifier,
		)
	}
	return NewEnum(enumType, ordinal, fields...)
}

func (Enum) isValue() {}

func (v Enum) Type() Type {
	if v.EnumType == nil {
		return nil
	}
	return v.EnumType
}

// VariantType returns the shape of the variant this value inhabits.
func (v Enum) VariantType() *VariantType {
	if v.EnumType == nil || int(v.Ordinal) >= len(v.EnumType.Variants) {
		return nil
	}
	return v.EnumType.Variants[v.Ordinal]
}

// VariantName returns the identifier of the variant this value inhabits.
func (v Enum) VariantName() string {
	variant := v.VariantType()
	if variant == nil {
		return ""
	}
	return variant.Identifier
}

func (v Enum) ToGoValue() any {
	variant := v.VariantType()

	ret := map[string]any{}

	switch {
	case variant == nil || variant.IsUnit():
		break

	case variant.IsTuple():
		elements := make([]any, len(v.Fields))
		for i, field := range v.Fields {
			elements[i] = field.ToGoValue()
		}
		ret[TupleDataFieldName] = elements

	default:
		for i, field := range variant.Fields {
			ret[field.Identifier] = v.Fields[i].ToGoValue()
		}
	}

	return ret
}

func (v Enum) String() string {
	variant := v.VariantType()
	if variant == nil {
		return format.Variant("", "", nil, nil)
	}

	values := make([]string, len(v.Fields))
	for i, field := range v.Fields {
		values[i] = field.String()
	}

	var names []string
	if !variant.IsTuple() {
		names = make([]string, len(variant.Fields))
		for i, field := range variant.Fields {
			names[i] = field.Identifier
		}
	}

	return format.Variant(
		v.EnumType.ID(),
		variant.Identifier,
		names,
		values,
	)
}

// HasFields is an interface for values with named fields,
// such as structs and named-field enum variants.
type HasFields interface {
	Value
	GetFields() []Field
	GetFieldValues() []Value
}

// GetFieldByName returns the value of the field with the given name,
// or nil if the value has no such field.
func GetFieldByName(v HasFields, name string) Value {
	for i, field := range v.GetFields() {
		if field.Identifier == name {
			return v.GetFieldValues()[i]
		}
	}
	return nil
}

// FieldsMappedByName returns a map of field names to values.
func FieldsMappedByName(v HasFields) map[string]Value {
	fields := make(map[string]Value, len(v.GetFields()))
	for i, field := range v.GetFields() {
		fields[field.Identifier] = v.GetFieldValues()[i]
	}
	return fields
}
