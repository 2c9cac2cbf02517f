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
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/onsol/capstan"
)

// A Decoder reads Capstan values from a byte slice, consuming bytes
// left to right. The slice is not copied: decoded Bytes values are
// copied out instead.
type Decoder struct {
	data []byte
	pos  int
}

// Decode returns the value encoded at the start of b, interpreted as the
// given type.
//
// Trailing bytes after the value are not an error: account buffers are
// fixed-size allocations and commonly carry zero padding after the
// payload. Callers that require full consumption can use a Decoder and
// check Remaining after decoding.
func Decode(t capstan.Type, b []byte) (capstan.Value, error) {
	return NewDecoder(b).Decode(t)
}

// NewDecoder initializes a Decoder that reads from the given bytes.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{data: b}
}

// Decode reads the next value from the remaining bytes.
func (d *Decoder) Decode(t capstan.Type) (capstan.Value, error) {
	return d.decodeValue(t)
}

// NumDecoded returns the number of bytes consumed so far.
func (d *Decoder) NumDecoded() int {
	return d.pos
}

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Decoder) decodeValue(t capstan.Type) (capstan.Value, error) {
	switch t := t.(type) {
	case capstan.BoolType:
		return d.decodeBool()

	case capstan.StringType:
		return d.decodeString()

	case capstan.BytesType:
		return d.decodeBytes()

	case capstan.AddressType:
		return d.decodeAddress()

	case capstan.Int8Type:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return capstan.NewInt8(int8(b)), nil

	case capstan.Int16Type:
		b, err := d.read(2)
		if err != nil {
			return nil, err
		}
		return capstan.NewInt16(int16(binary.LittleEndian.Uint16(b))), nil

	case capstan.Int32Type:
		b, err := d.read(4)
		if err != nil {
			return nil, err
		}
		return capstan.NewInt32(int32(binary.LittleEndian.Uint32(b))), nil

	case capstan.Int64Type:
		b, err := d.read(8)
		if err != nil {
			return nil, err
		}
		return capstan.NewInt64(int64(binary.LittleEndian.Uint64(b))), nil

	case capstan.Int128Type:
		b, err := d.read(16)
		if err != nil {
			return nil, err
		}
		return capstan.Int128{Value: bigIntFromLE(b, true)}, nil

	case capstan.UInt8Type:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return capstan.NewUInt8(b), nil

	case capstan.UInt16Type:
		b, err := d.read(2)
		if err != nil {
			return nil, err
		}
		return capstan.NewUInt16(binary.LittleEndian.Uint16(b)), nil

	case capstan.UInt32Type:
		b, err := d.read(4)
		if err != nil {
			return nil, err
		}
		return capstan.NewUInt32(binary.LittleEndian.Uint32(b)), nil

	case capstan.UInt64Type:
		b, err := d.read(8)
		if err != nil {
			return nil, err
		}
		return capstan.NewUInt64(binary.LittleEndian.Uint64(b)), nil

	case capstan.UInt128Type:
		b, err := d.read(16)
		if err != nil {
			return nil, err
		}
		return capstan.UInt128{Value: bigIntFromLE(b, false)}, nil

	case capstan.Float32Type:
		return d.decodeFloat32()

	case capstan.Float64Type:
		return d.decodeFloat64()

	case *capstan.OptionalType:
		return d.decodeOptional(t)

	case *capstan.VariableSizedArrayType:
		return d.decodeVariableSizedArray(t)

	case *capstan.ConstantSizedArrayType:
		return d.decodeConstantSizedArray(t)

	case *capstan.DictionaryType:
		return d.decodeDictionary(t)

	case *capstan.SetType:
		return d.decodeSet(t)

	case *capstan.StructType:
		return d.decodeStruct(t)

	case *capstan.EnumType:
		return d.decodeEnum(t)

	default:
		return nil, NewUnsupportedTypeError(t)
	}
}

func (d *Decoder) decodeBool() (capstan.Value, error) {
	offset := d.pos
	b, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch b {
	case 0:
		return capstan.NewBool(false), nil
	case 1:
		return capstan.NewBool(true), nil
	default:
		return nil, NewFormatError(offset, "invalid bool byte %#02x", b)
	}
}

func (d *Decoder) decodeString() (capstan.Value, error) {
	length, err := d.readLength()
	if err != nil {
		return nil, err
	}
	offset := d.pos
	b, err := d.read(length)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, NewFormatError(offset, "invalid UTF-8 in string data")
	}
	return capstan.String(b), nil
}

func (d *Decoder) decodeBytes() (capstan.Value, error) {
	length, err := d.readLength()
	if err != nil {
		return nil, err
	}
	b, err := d.read(length)
	if err != nil {
		return nil, err
	}
	copied := make([]byte, length)
	copy(copied, b)
	return capstan.NewBytes(copied), nil
}

func (d *Decoder) decodeAddress() (capstan.Value, error) {
	b, err := d.read(capstan.AddressLength)
	if err != nil {
		return nil, err
	}
	var address capstan.Address
	copy(address[:], b)
	return address, nil
}

func (d *Decoder) decodeFloat32() (capstan.Value, error) {
	offset := d.pos
	b, err := d.read(4)
	if err != nil {
		return nil, err
	}
	f := math.Float32frombits(binary.LittleEndian.Uint32(b))
	if f != f {
		return nil, NewFormatError(offset, "invalid Float32 data: NaN")
	}
	return capstan.Float32(f), nil
}

func (d *Decoder) decodeFloat64() (capstan.Value, error) {
	offset := d.pos
	b, err := d.read(8)
	if err != nil {
		return nil, err
	}
	f := math.Float64frombits(binary.LittleEndian.Uint64(b))
	if math.IsNaN(f) {
		return nil, NewFormatError(offset, "invalid Float64 data: NaN")
	}
	return capstan.Float64(f), nil
}

func (d *Decoder) decodeOptional(t *capstan.OptionalType) (capstan.Value, error) {
	offset := d.pos
	tag, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return capstan.NewOptional(nil), nil
	case 1:
		value, err := d.decodeValue(t.Type)
		if err != nil {
			return nil, err
		}
		return capstan.NewOptional(value), nil
	default:
		return nil, NewFormatError(offset, "invalid option tag %#02x", tag)
	}
}

func (d *Decoder) decodeVariableSizedArray(
	t *capstan.VariableSizedArrayType,
) (capstan.Value, error) {
	count, err := d.readLength()
	if err != nil {
		return nil, err
	}
	values := make([]capstan.Value, 0, d.collectionCapacity(count))
	for i := 0; i < count; i++ {
		value, err := d.decodeValue(t.ElementType)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return capstan.NewArray(values).WithType(t), nil
}

func (d *Decoder) decodeConstantSizedArray(
	t *capstan.ConstantSizedArrayType,
) (capstan.Value, error) {
	count := int(t.Size)
	values := make([]capstan.Value, 0, d.collectionCapacity(count))
	for i := 0; i < count; i++ {
		value, err := d.decodeValue(t.ElementType)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return capstan.NewArray(values).WithType(t), nil
}

// decodeDictionary reads entries in wire order. Entries repeating an
// earlier key (by encoded key bytes) replace that key's value, so the
// last occurrence wins.
func (d *Decoder) decodeDictionary(t *capstan.DictionaryType) (capstan.Value, error) {
	count, err := d.readLength()
	if err != nil {
		return nil, err
	}

	pairs := make([]capstan.KeyValuePair, 0, d.collectionCapacity(count))
	indexes := make(map[string]int, d.collectionCapacity(count))

	for i := 0; i < count; i++ {
		keyStart := d.pos
		key, err := d.decodeValue(t.KeyType)
		if err != nil {
			return nil, err
		}
		encodedKey := string(d.data[keyStart:d.pos])

		value, err := d.decodeValue(t.ElementType)
		if err != nil {
			return nil, err
		}

		pair := capstan.NewKeyValuePair(key, value)
		if existing, ok := indexes[encodedKey]; ok {
			pairs[existing] = pair
			continue
		}
		indexes[encodedKey] = len(pairs)
		pairs = append(pairs, pair)
	}

	return capstan.NewDictionary(pairs).WithType(t), nil
}

// decodeSet reads elements in wire order, dropping repeats of an
// element already seen (by encoded element bytes).
func (d *Decoder) decodeSet(t *capstan.SetType) (capstan.Value, error) {
	count, err := d.readLength()
	if err != nil {
		return nil, err
	}

	values := make([]capstan.Value, 0, d.collectionCapacity(count))
	seen := make(map[string]struct{}, d.collectionCapacity(count))

	for i := 0; i < count; i++ {
		start := d.pos
		value, err := d.decodeValue(t.ElementType)
		if err != nil {
			return nil, err
		}
		encoded := string(d.data[start:d.pos])
		if _, ok := seen[encoded]; ok {
			continue
		}
		seen[encoded] = struct{}{}
		values = append(values, value)
	}

	return capstan.NewSet(values).WithType(t), nil
}

func (d *Decoder) decodeStruct(t *capstan.StructType) (capstan.Value, error) {
	fields := make([]capstan.Value, len(t.Fields))
	for i, field := range t.Fields {
		value, err := d.decodeValue(field.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = value
	}
	return capstan.NewStruct(fields).WithType(t), nil
}

func (d *Decoder) decodeEnum(t *capstan.EnumType) (capstan.Value, error) {
	offset := d.pos
	tag, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if int(tag) >= len(t.Variants) {
		return nil, NewFormatError(
			offset,
			"invalid discriminant %d for enum %s with %d variants",
			tag,
			t.ID(),
			len(t.Variants),
		)
	}
	variant := t.Variants[tag]

	var fields []capstan.Value
	if variant.IsTuple() {
		fields = make([]capstan.Value, len(variant.Elements))
		for i, elementType := range variant.Elements {
			value, err := d.decodeValue(elementType)
			if err != nil {
				return nil, err
			}
			fields[i] = value
		}
	} else {
		fields = make([]capstan.Value, len(variant.Fields))
		for i, field := range variant.Fields {
			value, err := d.decodeValue(field.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = value
		}
	}

	return capstan.Enum{
		EnumType: t,
		Ordinal:  tag,
		Fields:   fields,
	}, nil
}

// read returns the next n bytes without copying and advances the
// position past them.
func (d *Decoder) read(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, NewFormatError(
			d.pos,
			"unexpected end of data: need %d bytes, have %d",
			n,
			d.Remaining(),
		)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) readByte() (byte, error) {
	if d.Remaining() < 1 {
		return 0, NewFormatError(d.pos, "unexpected end of data")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

// readLength reads a u32 little-endian collection length.
func (d *Decoder) readLength() (int, error) {
	offset := d.pos
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}
	length := binary.LittleEndian.Uint32(b)
	if uint64(length) > uint64(math.MaxInt) {
		return 0, NewFormatError(
			offset,
			"declared length %d exceeds the supported maximum",
			length,
		)
	}
	return int(length), nil
}

// collectionCapacity caps the initial capacity of a decoded collection
// by the bytes remaining in the stream, so a forged count cannot force
// a large allocation. Elements narrower than one byte (empty structs)
// still decode correctly: the slices grow on demand.
func (d *Decoder) collectionCapacity(count int) int {
	remaining := d.Remaining()
	if count > remaining {
		return remaining
	}
	return count
}

// bigIntFromLE interprets b as a little-endian integer, two's complement
// when signed.
func bigIntFromLE(b []byte, signed bool) *big.Int {
	be := make([]byte, len(b))
	for i := 0; i < len(b); i++ {
		be[i] = b[len(b)-1-i]
	}
	i := new(big.Int).SetBytes(be)
	if signed && len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(len(b))*8)
		i.Sub(i, modulus)
	}
	return i
}
