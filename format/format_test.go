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

package format_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onsol/capstan/format"
)

func TestScalars(t *testing.T) {

	t.Parallel()

	assert.Equal(t, "true", format.Bool(true))
	assert.Equal(t, "false", format.Bool(false))
	assert.Equal(t, "-42", format.Int(-42))
	assert.Equal(t, "42", format.Uint(42))
	assert.Equal(t, "0.5", format.Float64(0.5))
	assert.Equal(t, "-0.25", format.Float32(-0.25))

	big128 := new(big.Int).Lsh(big.NewInt(1), 127)
	assert.Equal(t,
		"170141183460469231731687303715884105728",
		format.BigInt(big128),
	)
}

func TestStringEscaping(t *testing.T) {

	t.Parallel()

	assert.Equal(t, `"abc"`, format.String("abc"))
	assert.Equal(t, `"say \"hi\""`, format.String(`say "hi"`))
}

func TestBytesAndAddress(t *testing.T) {

	t.Parallel()

	assert.Equal(t, "[]", format.Bytes(nil))
	assert.Equal(t, "[0x0, 0xff]", format.Bytes([]byte{0x00, 0xFF}))
	assert.Equal(t, "0x0102", format.Address([]byte{0x01, 0x02}))
}

func TestCollections(t *testing.T) {

	t.Parallel()

	assert.Equal(t, "[]", format.Array(nil))
	assert.Equal(t, "[1, 2]", format.Array([]string{"1", "2"}))
	assert.Equal(t, "{1, 2}", format.Set([]string{"1", "2"}))
	assert.Equal(t,
		`{"a": 1}`,
		format.Dictionary([]struct{ Key, Value string }{
			{Key: `"a"`, Value: "1"},
		}),
	)
}

func TestComposite(t *testing.T) {

	t.Parallel()

	assert.Equal(t,
		"Pair(x: 1, y: 2)",
		format.Composite(
			"Pair",
			[]struct{ Name, Value string }{
				{Name: "x", Value: "1"},
				{Name: "y", Value: "2"},
			},
		),
	)
}

func TestVariant(t *testing.T) {

	t.Parallel()

	assert.Equal(t,
		"Direction.Left",
		format.Variant("Direction", "Left", nil, nil),
	)
	assert.Equal(t,
		"Shape.Circle(7)",
		format.Variant("Shape", "Circle", nil, []string{"7"}),
	)
	assert.Equal(t,
		"Shape.Rect(w: 2, h: 3)",
		format.Variant(
			"Shape",
			"Rect",
			[]string{"w", "h"},
			[]string{"2", "3"},
		),
	)
}
