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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeID(t *testing.T) {

	t.Parallel()

	tests := []struct {
		typ      Type
		expected string
	}{
		{NewBoolType(), "Bool"},
		{NewStringType(), "String"},
		{NewBytesType(), "Bytes"},
		{NewAddressType(), "Address"},
		{NewInt128Type(), "Int128"},
		{NewUInt128Type(), "UInt128"},
		{NewFloat64Type(), "Float64"},
		{NewOptionalType(NewUInt8Type()), "UInt8?"},
		{NewVariableSizedArrayType(NewUInt8Type()), "[UInt8]"},
		{NewConstantSizedArrayType(3, NewUInt8Type()), "[UInt8;3]"},
		{
			NewDictionaryType(NewStringType(), NewUInt8Type()),
			"{String: UInt8}",
		},
		{NewSetType(NewUInt8Type()), "{UInt8}"},
	}

	for _, test := range tests {
		test := test
		assert.Equal(t, test.expected, test.typ.ID())
	}
}

func TestTypeEquality(t *testing.T) {

	t.Parallel()

	t.Run("Primitives", func(t *testing.T) {
		t.Parallel()

		assert.True(t, NewUInt8Type().Equal(NewUInt8Type()))
		assert.False(t, NewUInt8Type().Equal(NewInt8Type()))
	})

	t.Run("Composites compare structurally", func(t *testing.T) {
		t.Parallel()

		assert.True(t,
			NewOptionalType(NewUInt8Type()).
				Equal(NewOptionalType(NewUInt8Type())),
		)
		assert.False(t,
			NewOptionalType(NewUInt8Type()).
				Equal(NewOptionalType(NewUInt16Type())),
		)

		assert.True(t,
			NewConstantSizedArrayType(3, NewUInt8Type()).
				Equal(NewConstantSizedArrayType(3, NewUInt8Type())),
		)
		assert.False(t,
			NewConstantSizedArrayType(3, NewUInt8Type()).
				Equal(NewConstantSizedArrayType(4, NewUInt8Type())),
		)

		assert.False(t,
			NewVariableSizedArrayType(NewUInt8Type()).
				Equal(NewConstantSizedArrayType(3, NewUInt8Type())),
		)
	})

	t.Run("Structs", func(t *testing.T) {
		t.Parallel()

		a := MustNewStructType(
			"Pair",
			[]Field{NewField("x", NewUInt8Type())},
		)
		b := MustNewStructType(
			"Pair",
			[]Field{NewField("x", NewUInt8Type())},
		)
		c := MustNewStructType(
			"Pair",
			[]Field{NewField("y", NewUInt8Type())},
		)

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})

	t.Run("Enums", func(t *testing.T) {
		t.Parallel()

		a := MustNewEnumType(
			"State",
			[]*VariantType{
				NewUnitVariantType("On"),
				NewTupleVariantType("Dim", NewUInt8Type()),
			},
		)
		b := MustNewEnumType(
			"State",
			[]*VariantType{
				NewUnitVariantType("On"),
				NewTupleVariantType("Dim", NewUInt8Type()),
			},
		)
		// Variant order is the wire discriminant: a reordered
		// declaration is a different type.
		c := MustNewEnumType(
			"State",
			[]*VariantType{
				NewTupleVariantType("Dim", NewUInt8Type()),
				NewUnitVariantType("On"),
			},
		)

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})
}

func TestStructTypeValidation(t *testing.T) {

	t.Parallel()

	tests := []struct {
		name   string
		fields []Field
	}{
		{
			"Unnamed field",
			[]Field{NewField("", NewUInt8Type())},
		},
		{
			"Reserved payload-wrapper name",
			[]Field{NewField(TupleDataFieldName, NewUInt8Type())},
		},
		{
			"Reserved prefix",
			[]Field{NewField("_internal", NewUInt8Type())},
		},
		{
			"Duplicate field",
			[]Field{
				NewField("x", NewUInt8Type()),
				NewField("x", NewUInt16Type()),
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewStructType("Bad", test.fields)
			require.Error(t, err)
			assert.ErrorAs(t, err, &SchemaError{})
		})
	}
}

func TestEnumTypeValidation(t *testing.T) {

	t.Parallel()

	tests := []struct {
		name     string
		variants []*VariantType
	}{
		{
			"Unnamed variant",
			[]*VariantType{NewUnitVariantType("")},
		},
		{
			"Reserved variant name",
			[]*VariantType{NewUnitVariantType(TupleDataFieldName)},
		},
		{
			"Reserved prefix",
			[]*VariantType{NewUnitVariantType("_hidden")},
		},
		{
			"Duplicate variant",
			[]*VariantType{
				NewUnitVariantType("A"),
				NewUnitVariantType("A"),
			},
		},
		{
			"Nil variant",
			[]*VariantType{nil},
		},
		{
			"Unnamed variant field",
			[]*VariantType{
				NewFieldsVariantType("A", NewField("", NewUInt8Type())),
			},
		},
		{
			"Duplicate variant field",
			[]*VariantType{
				NewFieldsVariantType(
					"A",
					NewField("x", NewUInt8Type()),
					NewField("x", NewUInt8Type()),
				),
			},
		},
		{
			"Both tuple elements and named fields",
			[]*VariantType{
				{
					Identifier: "A",
					Elements:   []Type{NewUInt8Type()},
					Fields:     []Field{NewField("x", NewUInt8Type())},
				},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewEnumType("Bad", test.variants)
			require.Error(t, err)
			assert.ErrorAs(t, err, &SchemaError{})
		})
	}
}

func TestEnumTypeVariantLimit(t *testing.T) {

	t.Parallel()

	variants := make([]*VariantType, MaxEnumVariants+1)
	for i := range variants {
		variants[i] = NewUnitVariantType(fmt.Sprintf("V%d", i))
	}

	_, err := NewEnumType("TooMany", variants)
	require.Error(t, err)
	assert.ErrorAs(t, err, &SchemaError{})

	// Exactly 256 variants is allowed.
	enumType, err := NewEnumType("Exact", variants[:MaxEnumVariants])
	require.NoError(t, err)
	assert.Len(t, enumType.Variants, MaxEnumVariants)
}

func TestEnumVariantLookup(t *testing.T) {

	t.Parallel()

	enumType := MustNewEnumType(
		"State",
		[]*VariantType{
			NewUnitVariantType("A"),
			NewUnitVariantType("B"),
		},
	)

	variant, ordinal, ok := enumType.VariantByName("B")
	require.True(t, ok)
	assert.Equal(t, 1, ordinal)
	assert.Equal(t, "B", variant.Identifier)

	_, _, ok = enumType.VariantByName("C")
	assert.False(t, ok)
}
