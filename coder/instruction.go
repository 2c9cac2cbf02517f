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

// An InstructionCoder encodes and decodes instruction data: the method's
// sighash discriminator, then the Borsh encoding of the declared
// arguments in order.
//
// The arguments of each instruction form an unnamed struct schema; the
// argument names declared in the interface description become its field
// names.
type InstructionCoder struct {
	records map[string]*record
	index   map[Discriminator]*record
}

// NewInstructionCoder resolves the instruction declarations of the given
// interface description.
func NewInstructionCoder(program *idl.Idl) (*InstructionCoder, error) {
	records := make(map[string]*record, len(program.Instructions))
	index := make(map[Discriminator]*record, len(program.Instructions))

	for _, instruction := range program.Instructions {
		fields := make([]capstan.Field, len(instruction.Args))
		for i, arg := range instruction.Args {
			argType, err := program.ResolveType(arg.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = capstan.NewField(arg.Name, argType)
		}

		schema, err := capstan.NewStructType(instruction.Name, fields)
		if err != nil {
			return nil, err
		}

		r := &record{
			name:          instruction.Name,
			discriminator: InstructionDiscriminator(instruction.Name),
			schema:        schema,
		}
		records[instruction.Name] = r
		index[r.discriminator] = r
	}

	return &InstructionCoder{
		records: records,
		index:   index,
	}, nil
}

// Schema returns the argument struct schema of the named instruction.
func (c *InstructionCoder) Schema(name string) (*capstan.StructType, bool) {
	r, ok := c.records[name]
	if !ok {
		return nil, false
	}
	return r.schema.(*capstan.StructType), true
}

// Encode returns the instruction data for a call to the named method
// with the given argument values, in declaration order.
func (c *InstructionCoder) Encode(method string, args []capstan.Value) ([]byte, error) {
	r, ok := c.records[method]
	if !ok {
		return nil, NewUnknownRecordError(InstructionNamespace, method)
	}

	payload, err := borsh.Encode(
		r.schema,
		capstan.NewStruct(args).WithType(r.schema.(*capstan.StructType)),
	)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, DiscriminatorLength+len(payload))
	data = append(data, r.discriminator.Bytes()...)
	data = append(data, payload...)
	return data, nil
}

// Decode identifies the called method by the leading sighash and decodes
// the argument values.
func (c *InstructionCoder) Decode(data []byte) (string, []capstan.Value, error) {
	discriminator, payload, err := splitRecord(data)
	if err != nil {
		return "", nil, err
	}

	r, ok := c.index[discriminator]
	if !ok {
		return "", nil, NewUnknownDiscriminatorError(InstructionNamespace, discriminator)
	}

	value, err := borsh.Decode(r.schema, payload)
	if err != nil {
		return "", nil, err
	}
	return r.name, value.(capstan.Struct).Fields, nil
}
