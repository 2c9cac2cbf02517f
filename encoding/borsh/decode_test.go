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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onsol/capstan"
	"github.com/onsol/capstan/encoding/borsh"
	"github.com/onsol/capstan/test_utils"
)

func TestDecodeScenarios(t *testing.T) {

	t.Parallel()

	t.Run("UInt32 0xDEADBEEF", func(t *testing.T) {
		t.Parallel()

		value, err := borsh.Decode(
			capstan.NewUInt32Type(),
			[]byte{0xEF, 0xBE, 0xAD, 0xDE},
		)
		require.NoError(t, err)
		assert.Equal(t, capstan.NewUInt32(0xDEADBEEF), value)
	})

	t.Run("String abc", func(t *testing.T) {
		t.Parallel()

		value, err := borsh.Decode(
			capstan.NewStringType(),
			[]byte{0x03, 0x00, 0x00, 0x00, 0x61, 0x62, 0x63},
		)
		require.NoError(t, err)
		assert.Equal(t, capstan.String("abc"), value)
	})

	t.Run("Empty vector from four zero bytes", func(t *testing.T) {
		t.Parallel()

		vectorType := capstan.NewVariableSizedArrayType(capstan.NewStringType())

		value, err := borsh.Decode(
			vectorType,
			[]byte{0x00, 0x00, 0x00, 0x00},
		)
		require.NoError(t, err)

		array := value.(capstan.Array)
		assert.Empty(t, array.Values)
	})
}

func TestDecodeInvalidBoolByte(t *testing.T) {

	t.Parallel()

	for _, b := range []byte{0x02, 0x80, 0xFF} {
		b := b
		_, err := borsh.Decode(capstan.NewBoolType(), []byte{b})
		test_utils.RequireUserError(t, err)
		assert.ErrorContains(t, err, "invalid bool byte")
	}
}

func TestDecodeInvalidOptionTag(t *testing.T) {

	t.Parallel()

	_, err := borsh.Decode(
		capstan.NewOptionalType(capstan.NewUInt8Type()),
		[]byte{0x02, 0x05},
	)
	test_utils.RequireUserError(t, err)
	assert.ErrorContains(t, err, "invalid option tag")
}

func TestDecodeNaNRejected(t *testing.T) {

	t.Parallel()

	t.Run("Float32", func(t *testing.T) {
		t.Parallel()

		// 0x7FC00000, the quiet NaN bit pattern
		_, err := borsh.Decode(
			capstan.NewFloat32Type(),
			[]byte{0x00, 0x00, 0xC0, 0x7F},
		)
		test_utils.RequireUserError(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		t.Parallel()

		// 0x7FF8000000000000, the quiet NaN bit pattern
		_, err := borsh.Decode(
			capstan.NewFloat64Type(),
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x7F},
		)
		test_utils.RequireUserError(t, err)
	})

	t.Run("Float64 infinity is valid", func(t *testing.T) {
		t.Parallel()

		value, err := borsh.Decode(
			capstan.NewFloat64Type(),
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x7F},
		)
		require.NoError(t, err)
		assert.Equal(t, capstan.Float64(math.Inf(1)), value)
	})
}

func TestDecodeInvalidUTF8(t *testing.T) {

	t.Parallel()

	_, err := borsh.Decode(
		capstan.NewStringType(),
		[]byte{0x02, 0x00, 0x00, 0x00, 0xFF, 0xFE},
	)
	test_utils.RequireUserError(t, err)
	assert.ErrorContains(t, err, "UTF-8")
}

func TestDecodeTruncated(t *testing.T) {

	t.Parallel()

	tests := []struct {
		name string
		typ  capstan.Type
		data []byte
	}{
		{"UInt32", capstan.NewUInt32Type(), []byte{0x01, 0x02}},
		{"UInt128", capstan.NewUInt128Type(), make([]byte, 15)},
		{"Empty input", capstan.NewBoolType(), nil},
		{
			"String length exceeds data",
			capstan.NewStringType(),
			[]byte{0x10, 0x00, 0x00, 0x00, 0x61},
		},
		{
			"Vector count exceeds data",
			capstan.NewVariableSizedArrayType(capstan.NewUInt8Type()),
			[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x01},
		},
		{
			"Fixed array underflow",
			capstan.NewConstantSizedArrayType(4, capstan.NewUInt8Type()),
			[]byte{0x01, 0x02},
		},
		{
			"Option present without value",
			capstan.NewOptionalType(capstan.NewUInt64Type()),
			[]byte{0x01},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := borsh.Decode(test.typ, test.data)
			test_utils.RequireUserError(t, err)
		})
	}
}

func TestDecodeDiscriminantBound(t *testing.T) {

	t.Parallel()

	enumType := testEnumType(t)

	// The enum declares 4 variants; 4 through 255 are invalid.
	for _, tag := range []byte{4, 5, 0xFF} {
		tag := tag
		_, err := borsh.Decode(enumType, []byte{tag})
		test_utils.RequireUserError(t, err)
		assert.ErrorContains(t, err, "invalid discriminant")
	}
}

func TestDecodeDictionaryDuplicateKeys(t *testing.T) {

	t.Parallel()

	dictionaryType := capstan.NewDictionaryType(
		capstan.NewUInt8Type(),
		capstan.NewUInt8Type(),
	)

	// Key 0x01 appears twice; the last occurrence wins.
	value, err := borsh.Decode(
		dictionaryType,
		[]byte{
			0x02, 0x00, 0x00, 0x00,
			0x01, 0x0A,
			0x01, 0x0B,
		},
	)
	require.NoError(t, err)

	dictionary := value.(capstan.Dictionary)
	require.Len(t, dictionary.Pairs, 1)
	assert.Equal(t, capstan.NewUInt8(1), dictionary.Pairs[0].Key)
	assert.Equal(t, capstan.NewUInt8(0x0B), dictionary.Pairs[0].Value)
}

func TestDecodeSetDeduplicates(t *testing.T) {

	t.Parallel()

	setType := capstan.NewSetType(capstan.NewUInt8Type())

	value, err := borsh.Decode(
		setType,
		[]byte{
			0x03, 0x00, 0x00, 0x00,
			0x01, 0x01, 0x02,
		},
	)
	require.NoError(t, err)

	set := value.(capstan.Set)
	test_utils.AssertEqualWithDiff(
		t,
		[]capstan.Value{
			capstan.NewUInt8(1),
			capstan.NewUInt8(2),
		},
		set.Values,
	)
}

func TestDecodeTrailingBytesTolerated(t *testing.T) {

	t.Parallel()

	// Account buffers are fixed-size allocations: the payload is
	// commonly followed by zero padding.
	decoder := borsh.NewDecoder([]byte{0x2A, 0x00, 0x00, 0x00, 0x00})

	value, err := decoder.Decode(capstan.NewUInt8Type())
	require.NoError(t, err)
	assert.Equal(t, capstan.NewUInt8(0x2A), value)

	assert.Equal(t, 1, decoder.NumDecoded())
	assert.Equal(t, 4, decoder.Remaining())
}

func TestDecodeStructFailsOnFirstInvalidField(t *testing.T) {

	t.Parallel()

	structType := capstan.MustNewStructType(
		"Wrapper",
		[]capstan.Field{
			capstan.NewField("ok", capstan.NewUInt8Type()),
			capstan.NewField("flag", capstan.NewBoolType()),
		},
	)

	_, err := borsh.Decode(structType, []byte{0x01, 0x07})
	test_utils.RequireUserError(t, err)
	assert.ErrorContains(t, err, "offset 1")
}

func TestDecodeForgedCountDoesNotOverAllocate(t *testing.T) {

	t.Parallel()

	// A four-billion element count with a five-byte stream must fail
	// with underflow, not attempt the allocation up front.
	_, err := borsh.Decode(
		capstan.NewVariableSizedArrayType(capstan.NewUInt64Type()),
		[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x01},
	)
	test_utils.RequireUserError(t, err)
}

func TestDecoderIncremental(t *testing.T) {

	t.Parallel()

	decoder := borsh.NewDecoder([]byte{0x01, 0x02, 0x00})

	first, err := decoder.Decode(capstan.NewUInt8Type())
	require.NoError(t, err)
	assert.Equal(t, capstan.NewUInt8(1), first)

	second, err := decoder.Decode(capstan.NewUInt16Type())
	require.NoError(t, err)
	assert.Equal(t, capstan.NewUInt16(2), second)

	assert.Zero(t, decoder.Remaining())
}
