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

package idl

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/onsol/capstan"
	"github.com/onsol/capstan/encoding/borsh"
)

// Programs publish their own interface description in an account whose
// payload is an 8-byte record discriminator followed by the encoding of
// this container. The data field holds the zlib-compressed JSON
// document.
var onChainContainerType = capstan.MustNewStructType(
	"IdlAccount",
	[]capstan.Field{
		capstan.NewField("authority", capstan.NewAddressType()),
		capstan.NewField("data", capstan.NewBytesType()),
	},
)

var onChainDiscriminator = func() []byte {
	hash := sha256.Sum256([]byte("account:IdlAccount"))
	return hash[:8]
}()

// An OnChainIDL is an interface description read back from the account
// the program published it in.
type OnChainIDL struct {
	// Authority is the key allowed to replace the published document.
	Authority capstan.Address
	Idl       *Idl
}

// DecodeProgramIDL parses an interface description from the raw bytes of
// the account the program published it in. Trailing zero padding after
// the container is tolerated; account buffers are fixed-size
// allocations.
func DecodeProgramIDL(data []byte) (*OnChainIDL, error) {
	if len(data) < len(onChainDiscriminator) {
		return nil, fmt.Errorf(
			"account data is too short: %d bytes",
			len(data),
		)
	}
	if !bytes.Equal(data[:len(onChainDiscriminator)], onChainDiscriminator) {
		return nil, fmt.Errorf(
			"account does not hold an interface description: "+
				"unexpected discriminator 0x%x",
			data[:len(onChainDiscriminator)],
		)
	}

	value, err := borsh.Decode(onChainContainerType, data[len(onChainDiscriminator):])
	if err != nil {
		return nil, fmt.Errorf("invalid interface description container: %w", err)
	}
	container := value.(capstan.Struct)
	authority := container.Fields[0].(capstan.Address)
	compressed := container.Fields[1].(capstan.Bytes)

	document, err := inflate(compressed)
	if err != nil {
		return nil, fmt.Errorf("cannot inflate interface description: %w", err)
	}

	parsed, err := Parse(document)
	if err != nil {
		return nil, err
	}

	return &OnChainIDL{
		Authority: authority,
		Idl:       parsed,
	}, nil
}

func inflate(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
