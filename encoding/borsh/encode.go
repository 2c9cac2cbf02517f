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

package borsh

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"sort"
	"unicode/utf8"

	"github.com/onsol/capstan"
)

// An Encoder converts Capstan values into binary and writes them to an
// io.Writer.
type Encoder struct {
	w io.Writer
}

// Encode returns the binary encoding of the given value, interpreted as
// the given type.
//
// The returned bytes carry no type information: decoding them requires
// the same type.
func Encode(t capstan.Type, value capstan.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, t, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustEncode returns the binary encoding of the given value, interpreted
// as the given type. It panics if the value cannot be encoded.
func MustEncode(t capstan.Type, value capstan.Value) []byte {
	b, err := Encode(t, value)
	if err != nil {
		panic(err)
	}
	return b
}

// NewEncoder initializes an Encoder that writes to the given writer.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the binary encoding of the given value to the underlying
// writer. The value is encoded in full before anything is written, so a
// rejected value leaves the writer untouched.
func (e *Encoder) Encode(t capstan.Type, value capstan.Value) error {
	b, err := Encode(t, value)
	if err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func encodeValue(buf *bytes.Buffer, t capstan.Type, value capstan.Value) error {
	switch t := t.(type) {
	case capstan.BoolType:
		return encodeBool(buf, t, value)

	case capstan.StringType:
		return encodeString(buf, t, value)

	case capstan.BytesType:
		return encodeBytes(buf, t, value)

	case capstan.AddressType:
		return encodeAddress(buf, t, value)

	case capstan.Int8Type:
		v, ok := value.(capstan.Int8)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		buf.WriteByte(byte(v))
		return nil

	case capstan.Int16Type:
		v, ok := value.(capstan.Int16)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		writeUint16(buf, uint16(v))
		return nil

	case capstan.Int32Type:
		v, ok := value.(capstan.Int32)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		writeUint32(buf, uint32(v))
		return nil

	case capstan.Int64Type:
		v, ok := value.(capstan.Int64)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		writeUint64(buf, uint64(v))
		return nil

	case capstan.Int128Type:
		return encodeInt128(buf, t, value)

	case capstan.UInt8Type:
		v, ok := value.(capstan.UInt8)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		buf.WriteByte(byte(v))
		return nil

	case capstan.UInt16Type:
		v, ok := value.(capstan.UInt16)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		writeUint16(buf, uint16(v))
		return nil

	case capstan.UInt32Type:
		v, ok := value.(capstan.UInt32)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		writeUint32(buf, uint32(v))
		return nil

	case capstan.UInt64Type:
		v, ok := value.(capstan.UInt64)
		if !ok {
			return newTypeMismatchError(t, value)
		}
		writeUint64(buf, uint64(v))
		return nil

	case capstan.UInt128Type:
		return encodeUInt128(buf, t, value)

	case capstan.Float32Type:
		return encodeFloat32(buf, t, value)

	case capstan.Float64Type:
		return encodeFloat64(buf, t, value)

	case *capstan.OptionalType:
		return encodeOptional(buf, t, value)

	case *capstan.VariableSizedArrayType:
		return encodeVariableSizedArray(buf, t, value)

	case *capstan.ConstantSizedArrayType:
		return encodeConstantSizedArray(buf, t, value)

	case *capstan.DictionaryType:
		return encodeDictionary(buf, t, value)

	case *capstan.SetType:
		return encodeSet(buf, t, value)

	case *capstan.StructType:
		return encodeStruct(buf, t, value)

	case *capstan.EnumType:
		return encodeEnum(buf, t, value)

	default:
		return NewUnsupportedTypeError(t)
	}
}

func encodeBool(buf *bytes.Buffer, t capstan.BoolType, value capstan.Value) error {
	v, ok := value.(capstan.Bool)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, t capstan.StringType, value capstan.Value) error {
	v, ok := value.(capstan.String)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if !utf8.ValidString(string(v)) {
		return NewValueError("invalid UTF-8 in string")
	}
	if err := writeLength(buf, len(v)); err != nil {
		return err
	}
	buf.WriteString(string(v))
	return nil
}

func encodeBytes(buf *bytes.Buffer, t capstan.BytesType, value capstan.Value) error {
	v, ok := value.(capstan.Bytes)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if err := writeLength(buf, len(v)); err != nil {
		return err
	}
	buf.Write(v)
	return nil
}

func encodeAddress(buf *bytes.Buffer, t capstan.AddressType, value capstan.Value) error {
	v, ok := value.(capstan.Address)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	buf.Write(v[:])
	return nil
}

func encodeInt128(buf *bytes.Buffer, t capstan.Int128Type, value capstan.Value) error {
	v, ok := value.(capstan.Int128)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if v.Value == nil {
		return NewValueError("Int128 value is not initialized")
	}
	if v.Value.Cmp(capstan.Int128TypeMinIntBig) < 0 ||
		v.Value.Cmp(capstan.Int128TypeMaxIntBig) > 0 {

		return NewValueError("value %s is out of range for Int128", v.Value)
	}
	writeBigIntLE(buf, v.Value)
	return nil
}

func encodeUInt128(buf *bytes.Buffer, t capstan.UInt128Type, value capstan.Value) error {
	v, ok := value.(capstan.UInt128)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if v.Value == nil {
		return NewValueError("UInt128 value is not initialized")
	}
	if v.Value.Sign() < 0 ||
		v.Value.Cmp(capstan.UInt128TypeMaxIntBig) > 0 {

		return NewValueError("value %s is out of range for UInt128", v.Value)
	}
	writeBigIntLE(buf, v.Value)
	return nil
}

func encodeFloat32(buf *bytes.Buffer, t capstan.Float32Type, value capstan.Value) error {
	v, ok := value.(capstan.Float32)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if v.IsNaN() {
		return NewValueError("NaN has no canonical Float32 encoding")
	}
	writeUint32(buf, math.Float32bits(float32(v)))
	return nil
}

func encodeFloat64(buf *bytes.Buffer, t capstan.Float64Type, value capstan.Value) error {
	v, ok := value.(capstan.Float64)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if v.IsNaN() {
		return NewValueError("NaN has no canonical Float64 encoding")
	}
	writeUint64(buf, math.Float64bits(float64(v)))
	return nil
}

func encodeOptional(buf *bytes.Buffer, t *capstan.OptionalType, value capstan.Value) error {
	v, ok := value.(capstan.Optional)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if v.Value == nil {
		buf.WriteByte(0)
		return nil
	}
	buf.WriteByte(1)
	return encodeValue(buf, t.Type, v.Value)
}

func encodeVariableSizedArray(
	buf *bytes.Buffer,
	t *capstan.VariableSizedArrayType,
	value capstan.Value,
) error {
	v, ok := value.(capstan.Array)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if err := writeLength(buf, len(v.Values)); err != nil {
		return err
	}
	for _, element := range v.Values {
		if err := encodeValue(buf, t.ElementType, element); err != nil {
			return err
		}
	}
	return nil
}

func encodeConstantSizedArray(
	buf *bytes.Buffer,
	t *capstan.ConstantSizedArrayType,
	value capstan.Value,
) error {
	v, ok := value.(capstan.Array)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if uint(len(v.Values)) != t.Size {
		return NewValueError(
			"array of length %d does not match %s",
			len(v.Values),
			t.ID(),
		)
	}
	for _, element := range v.Values {
		if err := encodeValue(buf, t.ElementType, element); err != nil {
			return err
		}
	}
	return nil
}

func encodeDictionary(
	buf *bytes.Buffer,
	t *capstan.DictionaryType,
	value capstan.Value,
) error {
	v, ok := value.(capstan.Dictionary)
	if !ok {
		return newTypeMismatchError(t, value)
	}

	entries := make([]encodedEntry, len(v.Pairs))
	for i, pair := range v.Pairs {
		var entry bytes.Buffer
		if err := encodeValue(&entry, t.KeyType, pair.Key); err != nil {
			return err
		}
		keyLength := entry.Len()
		if err := encodeValue(&entry, t.ElementType, pair.Value); err != nil {
			return err
		}
		data := entry.Bytes()
		entries[i] = encodedEntry{
			key:  data[:keyLength],
			data: data,
		}
	}

	sort.Sort(bytewiseEntrySorter(entries))

	if i := duplicateKeyIndex(entries); i >= 0 {
		return NewValueError(
			"duplicate dictionary key (encoded 0x%x)",
			entries[i].key,
		)
	}

	if err := writeLength(buf, len(entries)); err != nil {
		return err
	}
	for _, entry := range entries {
		buf.Write(entry.data)
	}
	return nil
}

func encodeSet(buf *bytes.Buffer, t *capstan.SetType, value capstan.Value) error {
	v, ok := value.(capstan.Set)
	if !ok {
		return newTypeMismatchError(t, value)
	}

	entries := make([]encodedEntry, len(v.Values))
	for i, element := range v.Values {
		var entry bytes.Buffer
		if err := encodeValue(&entry, t.ElementType, element); err != nil {
			return err
		}
		data := entry.Bytes()
		entries[i] = encodedEntry{
			key:  data,
			data: data,
		}
	}

	sort.Sort(bytewiseEntrySorter(entries))

	if i := duplicateKeyIndex(entries); i >= 0 {
		return NewValueError(
			"duplicate set element (encoded 0x%x)",
			entries[i].key,
		)
	}

	if err := writeLength(buf, len(entries)); err != nil {
		return err
	}
	for _, entry := range entries {
		buf.Write(entry.data)
	}
	return nil
}

func encodeStruct(buf *bytes.Buffer, t *capstan.StructType, value capstan.Value) error {
	v, ok := value.(capstan.Struct)
	if !ok {
		return newTypeMismatchError(t, value)
	}
	if len(v.Fields) != len(t.Fields) {
		return NewValueError(
			"struct %s expects %d field values, got %d",
			t.ID(),
			len(t.Fields),
			len(v.Fields),
		)
	}
	for i, field := range t.Fields {
		if err := encodeValue(buf, field.Type, v.Fields[i]); err != nil {
			return err
		}
	}
	return nil
}

func encodeEnum(buf *bytes.Buffer, t *capstan.EnumType, value capstan.Value) error {
	v, ok := value.(capstan.Enum)
	if !ok {
		return newTypeMismatchError(t, value)
	}

	ordinal := int(v.Ordinal)
	if ordinal >= len(t.Variants) {
		return NewValueError(
			"enum %s has no variant with ordinal %d",
			t.ID(),
			ordinal,
		)
	}
	variant := t.Variants[ordinal]
	if len(v.Fields) != variant.Arity() {
		return NewValueError(
			"enum variant %s.%s expects %d values, got %d",
			t.ID(),
			variant.Identifier,
			variant.Arity(),
			len(v.Fields),
		)
	}

	buf.WriteByte(byte(ordinal))

	if variant.IsTuple() {
		for i, elementType := range variant.Elements {
			if err := encodeValue(buf, elementType, v.Fields[i]); err != nil {
				return err
			}
		}
		return nil
	}

	for i, field := range variant.Fields {
		if err := encodeValue(buf, field.Type, v.Fields[i]); err != nil {
			return err
		}
	}
	return nil
}

func newTypeMismatchError(t capstan.Type, value capstan.Value) ValueError {
	return NewValueError(
		"value of type %T is not encodable as %s",
		value,
		t.ID(),
	)
}

// writeLength writes a u32 little-endian collection length.
func writeLength(buf *bytes.Buffer, length int) error {
	if uint64(length) > math.MaxUint32 {
		return NewValueError(
			"length %d exceeds the u32 maximum of %d",
			length,
			uint32(math.MaxUint32),
		)
	}
	writeUint32(buf, uint32(length))
	return nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

var twoToThe128 = func() *big.Int {
	i := big.NewInt(1)
	return i.Lsh(i, 128)
}()

// writeBigIntLE writes the 16-byte two's-complement little-endian
// encoding of i. The caller must have range-checked i against the
// 128-bit type it encodes.
func writeBigIntLE(buf *bytes.Buffer, i *big.Int) {
	if i.Sign() < 0 {
		i = new(big.Int).Add(i, twoToThe128)
	}
	be := i.Bytes()
	var le [16]byte
	for j := 0; j < len(be); j++ {
		le[j] = be[len(be)-1-j]
	}
	buf.Write(le[:])
}
