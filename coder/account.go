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

package coder

import (
	"github.com/onsol/capstan"
	"github.com/onsol/capstan/encoding/borsh"
	"github.com/onsol/capstan/idl"
)

// An AccountCoder encodes and decodes the account records a program
// declares: discriminator, then the Borsh-encoded account struct.
//
// The coder resolves all account schemas when it is constructed, so a
// malformed interface description fails construction rather than a
// later encode or decode call.
type AccountCoder struct {
	records map[string]*record
	index   map[Discriminator]*record
}

// A record is one resolved account, instruction, or event declaration.
type record struct {
	name          string
	discriminator Discriminator
	schema        capstan.Type
}

// NewAccountCoder resolves the account declarations of the given
// interface description.
func NewAccountCoder(program *idl.Idl) (*AccountCoder, error) {
	records := make(map[string]*record, len(program.Accounts))
	index := make(map[Discriminator]*record, len(program.Accounts))

	for _, account := range program.Accounts {
		schema, err := program.ResolveTypeDef(account.Name)
		if err != nil {
			return nil, err
		}
		r := &record{
			name:          account.Name,
			discriminator: AccountDiscriminator(account.Name),
			schema:        schema,
		}
		records[account.Name] = r
		index[r.discriminator] = r
	}

	return &AccountCoder{
		records: records,
		index:   index,
	}, nil
}

// Schema returns the schema of the named account layout.
func (c *AccountCoder) Schema(name string) (capstan.Type, bool) {
	r, ok := c.records[name]
	if !ok {
		return nil, false
	}
	return r.schema, true
}

// Encode returns the full account record for the given value:
// the account's discriminator followed by the Borsh-encoded payload.
func (c *AccountCoder) Encode(name string, value capstan.Value) ([]byte, error) {
	r, ok := c.records[name]
	if !ok {
		return nil, NewUnknownRecordError(AccountNamespace, name)
	}

	payload, err := borsh.Encode(r.schema, value)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, DiscriminatorLength+len(payload))
	data = append(data, r.discriminator.Bytes()...)
	data = append(data, payload...)
	return data, nil
}

// Decode identifies the account layout by the leading discriminator and
// decodes the payload against it. Trailing bytes after the payload are
// tolerated: account buffers are fixed-size allocations and commonly
// carry zero padding.
func (c *AccountCoder) Decode(data []byte) (string, capstan.Value, error) {
	discriminator, payload, err := splitRecord(data)
	if err != nil {
		return "", nil, err
	}

	r, ok := c.index[discriminator]
	if !ok {
		return "", nil, NewUnknownDiscriminatorError(AccountNamespace, discriminator)
	}

	value, err := borsh.Decode(r.schema, payload)
	if err != nil {
		return "", nil, err
	}
	return r.name, value, nil
}

// DecodeAs decodes an account record whose layout the caller already
// knows, verifying that the leading discriminator matches.
func (c *AccountCoder) DecodeAs(name string, data []byte) (capstan.Value, error) {
	r, ok := c.records[name]
	if !ok {
		return nil, NewUnknownRecordError(AccountNamespace, name)
	}

	discriminator, payload, err := splitRecord(data)
	if err != nil {
		return nil, err
	}
	if discriminator != r.discriminator {
		return nil, NewDiscriminatorMismatchError(r.discriminator, discriminator)
	}

	return borsh.Decode(r.schema, payload)
}

// splitRecord separates record data into its discriminator and payload.
func splitRecord(data []byte) (Discriminator, []byte, error) {
	if len(data) < DiscriminatorLength {
		return Discriminator{}, nil, NewTruncatedRecordError(len(data))
	}
	var d Discriminator
	copy(d[:], data[:DiscriminatorLength])
	return d, data[DiscriminatorLength:], nil
}
