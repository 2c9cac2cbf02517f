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

package borsh_test

import (
	"bytes"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onsol/capstan"
	"github.com/onsol/capstan/encoding/borsh"
	"github.com/onsol/capstan/test_utils"
)

type encodeTest struct {
	name     string
	typ      capstan.Type
	val      capstan.Value
	expected []byte
}

func testAllEncode(t *testing.T, tests ...encodeTest) {
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			actual, err := borsh.Encode(test.typ, test.val)
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)

			decoded, err := borsh.Decode(test.typ, actual)
			require.NoError(t, err)
			test_utils.AssertEqualWithDiff(t, test.val, decoded)
		})
	}
}

func TestEncodeBool(t *testing.T) {

	t.Parallel()

	testAllEncode(t,
		encodeTest{
			"True",
			capstan.NewBoolType(),
			capstan.NewBool(true),
			[]byte{0x01},
		},
		encodeTest{
			"False",
			capstan.NewBoolType(),
			capstan.NewBool(false),
			[]byte{0x00},
		},
	)
}

func TestEncodeIntegers(t *testing.T) {

	t.Parallel()

	testAllEncode(t,
		encodeTest{
			"UInt8",
			capstan.NewUInt8Type(),
			capstan.NewUInt8(0xAB),
			[]byte{0xAB},
		},
		encodeTest{
			"UInt16",
			capstan.NewUInt16Type(),
			capstan.NewUInt16(0xCAFE),
			[]byte{0xFE, 0xCA},
		},
		encodeTest{
			"UInt32",
			capstan.NewUInt32Type(),
			capstan.NewUInt32(0xDEADBEEF),
			[]byte{0xEF, 0xBE, 0xAD, 0xDE},
		},
		encodeTest{
			"UInt64",
			capstan.NewUInt64Type(),
			capstan.NewUInt64(0x0102030405060708),
			[]byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01},
		},
		encodeTest{
			"Int8 min",
			capstan.NewInt8Type(),
			capstan.NewInt8(math.MinInt8),
			[]byte{0x80},
		},
		encodeTest{
			"Int16 -2",
			capstan.NewInt16Type(),
			capstan.NewInt16(-2),
			[]byte{0xFE, 0xFF},
		},
		encodeTest{
			"Int32 -1",
			capstan.NewInt32Type(),
			capstan.NewInt32(-1),
			[]byte{0xFF, 0xFF, 0xFF, 0xFF},
		},
		encodeTest{
			"Int64 min",
			capstan.NewInt64Type(),
			capstan.NewInt64(math.MinInt64),
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80},
		},
	)
}

func TestEncode128BitIntegers(t *testing.T) {

	t.Parallel()

	maxUInt128, err := capstan.NewUInt128FromBig(capstan.UInt128TypeMaxIntBig)
	require.NoError(t, err)

	minusOne, err := capstan.NewInt128FromBig(big.NewInt(-1))
	require.NoError(t, err)

	minInt128, err := capstan.NewInt128FromBig(capstan.Int128TypeMinIntBig)
	require.NoError(t, err)

	allOnes := bytes.Repeat([]byte{0xFF}, 16)

	testAllEncode(t,
		encodeTest{
			"UInt128 zero",
			capstan.NewUInt128Type(),
			capstan.NewUInt128(0),
			make([]byte, 16),
		},
		encodeTest{
			"UInt128 one",
			capstan.NewUInt128Type(),
			capstan.NewUInt128(1),
			append([]byte{0x01}, make([]byte, 15)...),
		},
		encodeTest{
			"UInt128 max",
			capstan.NewUInt128Type(),
			maxUInt128,
			allOnes,
		},
		encodeTest{
			"Int128 -1",
			capstan.NewInt128Type(),
			minusOne,
			allOnes,
		},
		encodeTest{
			"Int128 min",
			capstan.NewInt128Type(),
			minInt128,
			append(make([]byte, 15), 0x80),
		},
	)

	// The unsigned maximum and signed -1 share a byte form.
	// Only the schema tells them apart.
	maxBytes := borsh.MustEncode(capstan.NewUInt128Type(), maxUInt128)
	minusOneBytes := borsh.MustEncode(capstan.NewInt128Type(), minusOne)
	assert.Equal(t, maxBytes, minusOneBytes)
}

func TestEncode128BitRangeChecks(t *testing.T) {

	t.Parallel()

	t.Run("UInt128 negative", func(t *testing.T) {
		t.Parallel()

		_, err := borsh.Encode(
			capstan.NewUInt128Type(),
			capstan.UInt128{Value: big.NewInt(-1)},
		)
		test_utils.RequireUserError(t, err)
	})

	t.Run("Int128 too large", func(t *testing.T) {
		t.Parallel()

		tooLarge := new(big.Int).Add(
			capstan.Int128TypeMaxIntBig,
			big.NewInt(1),
		)
		_, err := borsh.Encode(
			capstan.NewInt128Type(),
			capstan.Int128{Value: tooLarge},
		)
		test_utils.RequireUserError(t, err)
	})
}

func TestEncodeFloats(t *testing.T) {

	t.Parallel()

	oneAndAHalf, err := capstan.NewFloat64(1.5)
	require.NoError(t, err)

	negativeQuarter, err := capstan.NewFloat32(-0.25)
	require.NoError(t, err)

	testAllEncode(t,
		encodeTest{
			"Float64 1.5",
			capstan.NewFloat64Type(),
			oneAndAHalf,
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x3F},
		},
		encodeTest{
			"Float32 -0.25",
			capstan.NewFloat32Type(),
			negativeQuarter,
			[]byte{0x00, 0x00, 0x80, 0xBE},
		},
	)
}

func TestEncodeNaNRejected(t *testing.T) {

	t.Parallel()

	t.Run("Float32", func(t *testing.T) {
		t.Parallel()

		_, err := borsh.Encode(
			capstan.NewFloat32Type(),
			capstan.Float32(float32(math.NaN())),
		)
		test_utils.RequireUserError(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		t.Parallel()

		_, err := borsh.Encode(
			capstan.NewFloat64Type(),
			capstan.Float64(math.NaN()),
		)
		test_utils.RequireUserError(t, err)
	})
}

func TestEncodeStringAndBytes(t *testing.T) {

	t.Parallel()

	abc, err := capstan.NewString("abc")
	require.NoError(t, err)

	empty, err := capstan.NewString("")
	require.NoError(t, err)

	testAllEncode(t,
		encodeTest{
			"String abc",
			capstan.NewStringType(),
			abc,
			[]byte{0x03, 0x00, 0x00, 0x00, 0x61, 0x62, 0x63},
		},
		encodeTest{
			"String empty",
			capstan.NewStringType(),
			empty,
			[]byte{0x00, 0x00, 0x00, 0x00},
		},
		encodeTest{
			"Bytes",
			capstan.NewBytesType(),
			capstan.NewBytes([]byte{0xDE, 0xAD}),
			[]byte{0x02, 0x00, 0x00, 0x00, 0xDE, 0xAD},
		},
	)
}

func TestEncodeInvalidUTF8Rejected(t *testing.T) {

	t.Parallel()

	_, err := borsh.Encode(
		capstan.NewStringType(),
		capstan.String([]byte{0xFF, 0xFE}),
	)
	test_utils.RequireUserError(t, err)
}

func TestEncodeOptional(t *testing.T) {

	t.Parallel()

	testAllEncode(t,
		encodeTest{
			"Present",
			capstan.NewOptionalType(capstan.NewUInt8Type()),
			capstan.NewOptional(capstan.NewUInt8(5)),
			[]byte{0x01, 0x05},
		},
		encodeTest{
			"Absent",
			capstan.NewOptionalType(capstan.NewUInt8Type()),
			capstan.NewOptional(nil),
			[]byte{0x00},
		},
	)
}

func TestEncodeArrays(t *testing.T) {

	t.Parallel()

	vectorType := capstan.NewVariableSizedArrayType(capstan.NewUInt16Type())
	fixedType := capstan.NewConstantSizedArrayType(3, capstan.NewUInt8Type())

	testAllEncode(t,
		encodeTest{
			"Vector",
			vectorType,
			capstan.NewArray([]capstan.Value{
				capstan.NewUInt16(1),
				capstan.NewUInt16(2),
			}).WithType(vectorType),
			[]byte{
				0x02, 0x00, 0x00, 0x00,
				0x01, 0x00,
				0x02, 0x00,
			},
		},
		encodeTest{
			"Empty vector",
			vectorType,
			capstan.NewArray([]capstan.Value{}).WithType(vectorType),
			[]byte{0x00, 0x00, 0x00, 0x00},
		},
		encodeTest{
			"Fixed array",
			fixedType,
			capstan.NewArray([]capstan.Value{
				capstan.NewUInt8(1),
				capstan.NewUInt8(2),
				capstan.NewUInt8(3),
			}).WithType(fixedType),
			[]byte{0x01, 0x02, 0x03},
		},
	)
}

func TestEncodeFixedArrayLengthMismatch(t *testing.T) {

	t.Parallel()

	fixedType := capstan.NewConstantSizedArrayType(3, capstan.NewUInt8Type())

	_, err := borsh.Encode(
		fixedType,
		capstan.NewArray([]capstan.Value{
			capstan.NewUInt8(1),
		}).WithType(fixedType),
	)
	test_utils.RequireUserError(t, err)
}

func TestEncodeDictionaryCanonicalOrder(t *testing.T) {

	t.Parallel()

	dictionaryType := capstan.NewDictionaryType(
		capstan.NewStringType(),
		capstan.NewUInt8Type(),
	)

	keyA, err := capstan.NewString("a")
	require.NoError(t, err)

	keyB, err := capstan.NewString("b")
	require.NoError(t, err)

	// Key "a" sorts before key "b" on the wire
	// regardless of the insertion order of the pairs.
	expected := []byte{
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x61, 0x02,
		0x01, 0x00, 0x00, 0x00, 0x62, 0x01,
	}

	insertionOrders := [][]capstan.KeyValuePair{
		{
			capstan.NewKeyValuePair(keyB, capstan.NewUInt8(1)),
			capstan.NewKeyValuePair(keyA, capstan.NewUInt8(2)),
		},
		{
			capstan.NewKeyValuePair(keyA, capstan.NewUInt8(2)),
			capstan.NewKeyValuePair(keyB, capstan.NewUInt8(1)),
		},
	}

	for _, pairs := range insertionOrders {
		pairs := pairs
		actual, err := borsh.Encode(
			dictionaryType,
			capstan.NewDictionary(pairs).WithType(dictionaryType),
		)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
}

func TestEncodeSetCanonicalOrder(t *testing.T) {

	t.Parallel()

	setType := capstan.NewSetType(capstan.NewUInt8Type())

	expected := []byte{
		0x03, 0x00, 0x00, 0x00,
		0x01, 0x02, 0x03,
	}

	insertionOrders := [][]capstan.Value{
		{capstan.NewUInt8(3), capstan.NewUInt8(1), capstan.NewUInt8(2)},
		{capstan.NewUInt8(1), capstan.NewUInt8(2), capstan.NewUInt8(3)},
	}

	for _, values := range insertionOrders {
		values := values
		actual, err := borsh.Encode(
			setType,
			capstan.NewSet(values).WithType(setType),
		)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
}

func TestEncodeDuplicateEntriesRejected(t *testing.T) {

	t.Parallel()

	t.Run("Dictionary", func(t *testing.T) {
		t.Parallel()

		dictionaryType := capstan.NewDictionaryType(
			capstan.NewUInt8Type(),
			capstan.NewUInt8Type(),
		)

		_, err := borsh.Encode(
			dictionaryType,
			capstan.NewDictionary([]capstan.KeyValuePair{
				capstan.NewKeyValuePair(capstan.NewUInt8(1), capstan.NewUInt8(2)),
				capstan.NewKeyValuePair(capstan.NewUInt8(1), capstan.NewUInt8(3)),
			}).WithType(dictionaryType),
		)
		test_utils.RequireUserError(t, err)
	})

	t.Run("Set", func(t *testing.T) {
		t.Parallel()

		setType := capstan.NewSetType(capstan.NewUInt8Type())

		_, err := borsh.Encode(
			setType,
			capstan.NewSet([]capstan.Value{
				capstan.NewUInt8(1),
				capstan.NewUInt8(1),
			}).WithType(setType),
		)
		test_utils.RequireUserError(t, err)
	})
}

func TestEncodeStruct(t *testing.T) {

	t.Parallel()

	structType := capstan.MustNewStructType(
		"Pair",
		[]capstan.Field{
			capstan.NewField("x", capstan.NewUInt8Type()),
			capstan.NewField("y", capstan.NewUInt16Type()),
		},
	)

	testAllEncode(t,
		encodeTest{
			"Pair",
			structType,
			capstan.NewStruct([]capstan.Value{
				capstan.NewUInt8(1),
				capstan.NewUInt16(0x0201),
			}).WithType(structType),
			[]byte{0x01, 0x01, 0x02},
		},
	)

	t.Run("Field count mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := borsh.Encode(
			structType,
			capstan.NewStruct([]capstan.Value{
				capstan.NewUInt8(1),
			}).WithType(structType),
		)
		test_utils.RequireUserError(t, err)
	})
}

func TestEncodeEnum(t *testing.T) {

	t.Parallel()

	enumType := testEnumType(t)

	unit, err := capstan.NewEnumByName(enumType, "unit")
	require.NoError(t, err)

	tuple, err := capstan.NewEnumByName(
		enumType,
		"tuple",
		capstan.NewUInt32(7),
		capstan.NewBool(true),
	)
	require.NoError(t, err)

	abc, err := capstan.NewString("abc")
	require.NoError(t, err)

	named, err := capstan.NewEnumByName(
		enumType,
		"named",
		abc,
		capstan.NewUInt8(9),
	)
	require.NoError(t, err)

	testAllEncode(t,
		encodeTest{
			"Unit variant",
			enumType,
			unit,
			[]byte{0x01},
		},
		encodeTest{
			"Tuple variant",
			enumType,
			tuple,
			[]byte{0x02, 0x07, 0x00, 0x00, 0x00, 0x01},
		},
		encodeTest{
			"Named-fields variant",
			enumType,
			named,
			[]byte{0x03, 0x03, 0x00, 0x00, 0x00, 0x61, 0x62, 0x63, 0x09},
		},
	)
}

func TestEncodeEnumArityMismatch(t *testing.T) {

	t.Parallel()

	enumType := testEnumType(t)

	_, err := borsh.Encode(
		enumType,
		capstan.Enum{
			EnumType: enumType,
			Ordinal:  2,
			Fields:   []capstan.Value{capstan.NewUInt32(7)},
		},
	)
	test_utils.RequireUserError(t, err)
}

func TestEncodeTypeMismatch(t *testing.T) {

	t.Parallel()

	_, err := borsh.Encode(
		capstan.NewUInt8Type(),
		capstan.NewBool(true),
	)
	test_utils.RequireUserError(t, err)
}

func TestEncoderWriter(t *testing.T) {

	t.Parallel()

	var buf bytes.Buffer
	encoder := borsh.NewEncoder(&buf)

	err := encoder.Encode(capstan.NewUInt16Type(), capstan.NewUInt16(0x0102))
	require.NoError(t, err)

	err = encoder.Encode(capstan.NewBoolType(), capstan.NewBool(true))
	require.NoError(t, err)

	assert.Equal(t, []byte{0x02, 0x01, 0x01}, buf.Bytes())
}

// testEnumType declares the enum used across the enum tests:
// ordinal 0 "first" (unit), 1 "unit" (unit), 2 "tuple" (u32, bool),
// 3 "named" (label: string, count: u8).
func testEnumType(t *testing.T) *capstan.EnumType {
	t.Helper()

	enumType, err := capstan.NewEnumType(
		"TestEnum",
		[]*capstan.VariantType{
			capstan.NewUnitVariantType("first"),
			capstan.NewUnitVariantType("unit"),
			capstan.NewTupleVariantType(
				"tuple",
				capstan.NewUInt32Type(),
				capstan.NewBoolType(),
			),
			capstan.NewFieldsVariantType(
				"named",
				capstan.NewField("label", capstan.NewStringType()),
				capstan.NewField("count", capstan.NewUInt8Type()),
			),
		},
	)
	require.NoError(t, err)
	return enumType
}
