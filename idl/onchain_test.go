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

package idl_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onsol/capstan"
	"github.com/onsol/capstan/idl"
)

// buildIDLAccount assembles the raw account data a program publishes its
// interface description in: discriminator, 32-byte authority, then the
// length-prefixed zlib-compressed JSON document.
func buildIDLAccount(t *testing.T, authority capstan.Address, document []byte) []byte {
	t.Helper()

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	_, err := w.Write(document)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	hash := sha256.Sum256([]byte("account:IdlAccount"))

	var data bytes.Buffer
	data.Write(hash[:8])
	data.Write(authority.Bytes())

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(compressed.Len()))
	data.Write(length[:])
	data.Write(compressed.Bytes())

	return data.Bytes()
}

func TestDecodeProgramIDL(t *testing.T) {

	t.Parallel()

	var authority capstan.Address
	for i := range authority {
		authority[i] = byte(i)
	}

	data := buildIDLAccount(t, authority, []byte(counterIDL))

	// Account buffers carry padding after the payload.
	data = append(data, make([]byte, 64)...)

	onChain, err := idl.DecodeProgramIDL(data)
	require.NoError(t, err)

	assert.Equal(t, authority, onChain.Authority)
	require.NotNil(t, onChain.Idl)
	assert.Equal(t, "counter", onChain.Idl.Name)

	_, ok := onChain.Idl.TypeDef("State")
	assert.True(t, ok)
}

func TestDecodeProgramIDLErrors(t *testing.T) {

	t.Parallel()

	t.Run("Too short", func(t *testing.T) {
		t.Parallel()

		_, err := idl.DecodeProgramIDL([]byte{0x01, 0x02})
		require.Error(t, err)
		assert.ErrorContains(t, err, "too short")
	})

	t.Run("Wrong discriminator", func(t *testing.T) {
		t.Parallel()

		data := buildIDLAccount(t, capstan.Address{}, []byte(counterIDL))
		data[0] ^= 0xFF

		_, err := idl.DecodeProgramIDL(data)
		require.Error(t, err)
		assert.ErrorContains(t, err, "discriminator")
	})

	t.Run("Corrupt compressed data", func(t *testing.T) {
		t.Parallel()

		data := buildIDLAccount(t, capstan.Address{}, []byte(counterIDL))
		// Flip a byte inside the compressed stream.
		data[len(data)-1] ^= 0xFF
		data[8+32+4] ^= 0xFF

		_, err := idl.DecodeProgramIDL(data)
		require.Error(t, err)
	})

	t.Run("Truncated container", func(t *testing.T) {
		t.Parallel()

		data := buildIDLAccount(t, capstan.Address{}, []byte(counterIDL))

		_, err := idl.DecodeProgramIDL(data[:20])
		require.Error(t, err)
	})
}
