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
	"github.com/onsol/capstan"
)

// StaticSize returns the encoded byte width shared by all values of the
// given type.
//
// Strings, byte blobs, vectors, dictionaries, sets, optionals, and enums
// have no static size: their width depends on the value. Querying them
// returns SizeUndefinedError. Fixed-size arrays and structs are static
// exactly when all of their element and field types are.
func StaticSize(t capstan.Type) (int, error) {
	switch t := t.(type) {
	case capstan.BoolType,
		capstan.Int8Type,
		capstan.UInt8Type:
		return 1, nil

	case capstan.Int16Type,
		capstan.UInt16Type:
		return 2, nil

	case capstan.Int32Type,
		capstan.UInt32Type,
		capstan.Float32Type:
		return 4, nil

	case capstan.Int64Type,
		capstan.UInt64Type,
		capstan.Float64Type:
		return 8, nil

	case capstan.Int128Type,
		capstan.UInt128Type:
		return 16, nil

	case capstan.AddressType:
		return capstan.AddressLength, nil

	case *capstan.ConstantSizedArrayType:
		elementSize, err := StaticSize(t.ElementType)
		if err != nil {
			return 0, err
		}
		return elementSize * int(t.Size), nil

	case *capstan.StructType:
		total := 0
		for _, field := range t.Fields {
			fieldSize, err := StaticSize(field.Type)
			if err != nil {
				return 0, err
			}
			total += fieldSize
		}
		return total, nil

	case capstan.StringType,
		capstan.BytesType,
		*capstan.OptionalType,
		*capstan.VariableSizedArrayType,
		*capstan.DictionaryType,
		*capstan.SetType,
		*capstan.EnumType:
		return 0, NewSizeUndefinedError(t)

	default:
		return 0, NewUnsupportedTypeError(t)
	}
}

// Size returns the number of bytes the value of the given type encoded
// at the start of b occupies.
//
// The probe walks option tags, enum discriminants, and length prefixes
// and skips over content bytes without materializing values; content is
// not validated beyond what the walk must read. A truncated stream or an
// out-of-range tag returns FormatError.
func Size(t capstan.Type, b []byte) (int, error) {
	d := NewDecoder(b)
	if err := d.skipValue(t); err != nil {
		return 0, err
	}
	return d.NumDecoded(), nil
}

func (d *Decoder) skipValue(t capstan.Type) error {
	// Statically sized types, including fixed arrays and structs of
	// statically sized children, skip in a single bounded read.
	if n, err := StaticSize(t); err == nil {
		_, err = d.read(n)
		return err
	}

	switch t := t.(type) {
	case capstan.StringType, capstan.BytesType:
		length, err := d.readLength()
		if err != nil {
			return err
		}
		_, err = d.read(length)
		return err

	case *capstan.OptionalType:
		offset := d.pos
		tag, err := d.readByte()
		if err != nil {
			return err
		}
		switch tag {
		case 0:
			return nil
		case 1:
			return d.skipValue(t.Type)
		default:
			return NewFormatError(offset, "invalid option tag %#02x", tag)
		}

	case *capstan.VariableSizedArrayType:
		count, err := d.readLength()
		if err != nil {
			return err
		}
		return d.skipN(t.ElementType, count)

	case *capstan.ConstantSizedArrayType:
		return d.skipN(t.ElementType, int(t.Size))

	case *capstan.DictionaryType:
		count, err := d.readLength()
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := d.skipValue(t.KeyType); err != nil {
				return err
			}
			if err := d.skipValue(t.ElementType); err != nil {
				return err
			}
		}
		return nil

	case *capstan.SetType:
		count, err := d.readLength()
		if err != nil {
			return err
		}
		return d.skipN(t.ElementType, count)

	case *capstan.StructType:
		for _, field := range t.Fields {
			if err := d.skipValue(field.Type); err != nil {
				return err
			}
		}
		return nil

	case *capstan.EnumType:
		offset := d.pos
		tag, err := d.readByte()
		if err != nil {
			return err
		}
		if int(tag) >= len(t.Variants) {
			return NewFormatError(
				offset,
				"invalid discriminant %d for enum %s with %d variants",
				tag,
				t.ID(),
				len(t.Variants),
			)
		}
		variant := t.Variants[tag]
		if variant.IsTuple() {
			for _, elementType := range variant.Elements {
				if err := d.skipValue(elementType); err != nil {
					return err
				}
			}
			return nil
		}
		for _, field := range variant.Fields {
			if err := d.skipValue(field.Type); err != nil {
				return err
			}
		}
		return nil

	default:
		return NewUnsupportedTypeError(t)
	}
}

func (d *Decoder) skipN(t capstan.Type, count int) error {
	for i := 0; i < count; i++ {
		if err := d.skipValue(t); err != nil {
			return err
		}
	}
	return nil
}
