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

// An EventCoder encodes and decodes the event records a program emits:
// discriminator, then the Borsh-encoded event struct.
//
// The coder operates on raw record bytes; extracting those bytes from a
// program's log output is the caller's concern.
type EventCoder struct {
	records map[string]*record
	index   map[Discriminator]*record
}

// NewEventCoder resolves the event declarations of the given interface
// description.
func NewEventCoder(program *idl.Idl) (*EventCoder, error) {
	records := make(map[string]*record, len(program.Events))
	index := make(map[Discriminator]*record, len(program.Events))

	for _, event := range program.Events {
		fields := make([]capstan.Field, len(event.Fields))
		for i, field := range event.Fields {
			fieldType, err := program.ResolveType(field.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = capstan.NewField(field.Name, fieldType)
		}

		schema, err := capstan.NewStructType(event.Name, fields)
		if err != nil {
			return nil, err
		}

		r := &record{
			name:          event.Name,
			discriminator: EventDiscriminator(event.Name),
			schema:        schema,
		}
		records[event.Name] = r
		index[r.discriminator] = r
	}

	return &EventCoder{
		records: records,
		index:   index,
	}, nil
}

// Schema returns the schema of the named event.
func (c *EventCoder) Schema(name string) (*capstan.StructType, bool) {
	r, ok := c.records[name]
	if !ok {
		return nil, false
	}
	return r.schema.(*capstan.StructType), true
}

// Encode returns the full event record for the given value: the event's
// discriminator followed by the Borsh-encoded payload.
func (c *EventCoder) Encode(name string, value capstan.Value) ([]byte, error) {
	r, ok := c.records[name]
	if !ok {
		return nil, NewUnknownRecordError(EventNamespace, name)
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

// Decode identifies the event by the leading discriminator and decodes
// the payload against its schema.
func (c *EventCoder) Decode(data []byte) (string, capstan.Value, error) {
	discriminator, payload, err := splitRecord(data)
	if err != nil {
		return "", nil, err
	}

	r, ok := c.index[discriminator]
	if !ok {
		return "", nil, NewUnknownDiscriminatorError(EventNamespace, discriminator)
	}

	value, err := borsh.Decode(r.schema, payload)
	if err != nil {
		return "", nil, err
	}
	return r.name, value, nil
}
