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

// Package idl loads program interface descriptions: the JSON documents
// that declare a program's instructions, account layouts, user-defined
// types, events, and error codes.
//
// An interface description is the source of the capstan.Type schemas
// the codec encodes and decodes against. Type references in the
// document resolve to schema trees with Idl.ResolveType and
// Idl.ResolveTypeDef.
package idl

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/onsol/capstan"
)

// An Idl is a parsed program interface description.
type Idl struct {
	Version      string           `json:"version"`
	Name         string           `json:"name"`
	Instructions []IdlInstruction `json:"instructions"`
	Accounts     []IdlTypeDef     `json:"accounts,omitempty"`
	Types        []IdlTypeDef     `json:"types,omitempty"`
	Events       []IdlEvent       `json:"events,omitempty"`
	Errors       []IdlErrorCode   `json:"errors,omitempty"`
	Constants    []IdlConstant    `json:"constants,omitempty"`
	Metadata     *IdlMetadata     `json:"metadata,omitempty"`

	resolveMu sync.Mutex
	resolved  map[string]capstan.Type
}

type IdlMetadata struct {
	Address string `json:"address,omitempty"`
}

// An IdlInstruction declares one program method: the accounts it reads
// and writes, and its arguments in wire order.
type IdlInstruction struct {
	Name     string           `json:"name"`
	Accounts []IdlAccountItem `json:"accounts"`
	Args     []IdlField       `json:"args"`
}

// An IdlAccountItem is a single account an instruction touches, or a
// named group of nested items.
type IdlAccountItem struct {
	Name     string           `json:"name"`
	IsMut    bool             `json:"isMut,omitempty"`
	IsSigner bool             `json:"isSigner,omitempty"`
	Accounts []IdlAccountItem `json:"accounts,omitempty"`
}

// IsGroup returns true if the item is a nested group of accounts.
func (a IdlAccountItem) IsGroup() bool {
	return len(a.Accounts) > 0
}

// An IdlTypeDef declares a named struct or enum.
type IdlTypeDef struct {
	Name string         `json:"name"`
	Type IdlTypeDefType `json:"type"`
}

const (
	TypeDefKindStruct = "struct"
	TypeDefKindEnum   = "enum"
)

type IdlTypeDefType struct {
	Kind     string           `json:"kind"`
	Fields   []IdlField       `json:"fields,omitempty"`
	Variants []IdlEnumVariant `json:"variants,omitempty"`
}

type IdlField struct {
	Name string  `json:"name"`
	Type IdlType `json:"type"`
}

// An IdlEnumVariant declares one enum case. Fields is nil for unit
// variants.
type IdlEnumVariant struct {
	Name   string         `json:"name"`
	Fields *IdlEnumFields `json:"fields,omitempty"`
}

// IdlEnumFields is the payload declaration of an enum variant: either
// named fields or a positional tuple of types, never both.
type IdlEnumFields struct {
	Named []IdlField
	Tuple []IdlType
}

func (f *IdlEnumFields) UnmarshalJSON(data []byte) error {
	var named []IdlField
	if err := json.Unmarshal(data, &named); err == nil && fieldsAreNamed(named) {
		f.Named = named
		return nil
	}

	var tuple []IdlType
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("invalid enum variant fields: %w", err)
	}
	f.Tuple = tuple
	return nil
}

func (f IdlEnumFields) MarshalJSON() ([]byte, error) {
	if f.Named != nil {
		return json.Marshal(f.Named)
	}
	return json.Marshal(f.Tuple)
}

func fieldsAreNamed(fields []IdlField) bool {
	if len(fields) == 0 {
		return false
	}
	for _, field := range fields {
		if field.Name == "" {
			return false
		}
	}
	return true
}

// An IdlEvent declares an event emitted by the program. Indexed fields
// are queryable in log storage; the flag does not change the encoding.
type IdlEvent struct {
	Name   string          `json:"name"`
	Fields []IdlEventField `json:"fields"`
}

type IdlEventField struct {
	Name  string  `json:"name"`
	Type  IdlType `json:"type"`
	Index bool    `json:"index"`
}

type IdlErrorCode struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg,omitempty"`
}

type IdlConstant struct {
	Name  string  `json:"name"`
	Type  IdlType `json:"type"`
	Value string  `json:"value"`
}

// IdlType

// An IdlType is one type reference in an interface description: a
// primitive name, or exactly one of the compound forms.
//
// The JSON representations are a bare string for primitives,
// {"vec": T}, {"array": [T, N]}, {"option": T}, {"defined": "Name"},
// {"hashMap": [K, V]}, and {"hashSet": T}.
type IdlType struct {
	Primitive string
	Vec       *IdlType
	Array     *IdlTypeArray
	Option    *IdlType
	Defined   string
	HashMap   *IdlTypeHashMap
	HashSet   *IdlType
}

type IdlTypeArray struct {
	Element IdlType
	Size    uint32
}

type IdlTypeHashMap struct {
	Key   IdlType
	Value IdlType
}

// Primitive type names as they appear in interface descriptions.
var primitiveTypeNames = map[string]struct{}{
	"bool":      {},
	"u8":        {},
	"i8":        {},
	"u16":       {},
	"i16":       {},
	"u32":       {},
	"i32":       {},
	"u64":       {},
	"i64":       {},
	"u128":      {},
	"i128":      {},
	"f32":       {},
	"f64":       {},
	"bytes":     {},
	"string":    {},
	"publicKey": {},
}

func (t *IdlType) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		if _, ok := primitiveTypeNames[name]; !ok {
			return fmt.Errorf("unknown type name %q", name)
		}
		*t = IdlType{Primitive: name}
		return nil
	}

	var compound struct {
		Vec     *IdlType          `json:"vec"`
		Array   []json.RawMessage `json:"array"`
		Option  *IdlType          `json:"option"`
		Defined string            `json:"defined"`
		HashMap []IdlType         `json:"hashMap"`
		HashSet *IdlType          `json:"hashSet"`
	}
	if err := json.Unmarshal(data, &compound); err != nil {
		return fmt.Errorf("invalid type reference: %w", err)
	}

	*t = IdlType{}
	branches := 0

	if compound.Vec != nil {
		t.Vec = compound.Vec
		branches++
	}
	if compound.Array != nil {
		if len(compound.Array) != 2 {
			return fmt.Errorf(
				"array type reference expects [element, size], got %d entries",
				len(compound.Array),
			)
		}
		var array IdlTypeArray
		if err := json.Unmarshal(compound.Array[0], &array.Element); err != nil {
			return err
		}
		if err := json.Unmarshal(compound.Array[1], &array.Size); err != nil {
			return fmt.Errorf("invalid array size: %w", err)
		}
		t.Array = &array
		branches++
	}
	if compound.Option != nil {
		t.Option = compound.Option
		branches++
	}
	if compound.Defined != "" {
		t.Defined = compound.Defined
		branches++
	}
	if compound.HashMap != nil {
		if len(compound.HashMap) != 2 {
			return fmt.Errorf(
				"hashMap type reference expects [key, value], got %d entries",
				len(compound.HashMap),
			)
		}
		t.HashMap = &IdlTypeHashMap{
			Key:   compound.HashMap[0],
			Value: compound.HashMap[1],
		}
		branches++
	}
	if compound.HashSet != nil {
		t.HashSet = compound.HashSet
		branches++
	}

	if branches != 1 {
		return fmt.Errorf("type reference must have exactly one form: %s", data)
	}
	return nil
}

func (t IdlType) MarshalJSON() ([]byte, error) {
	switch {
	case t.Primitive != "":
		return json.Marshal(t.Primitive)
	case t.Vec != nil:
		return json.Marshal(map[string]*IdlType{"vec": t.Vec})
	case t.Array != nil:
		return json.Marshal(map[string][2]any{
			"array": {t.Array.Element, t.Array.Size},
		})
	case t.Option != nil:
		return json.Marshal(map[string]*IdlType{"option": t.Option})
	case t.Defined != "":
		return json.Marshal(map[string]string{"defined": t.Defined})
	case t.HashMap != nil:
		return json.Marshal(map[string][2]IdlType{
			"hashMap": {t.HashMap.Key, t.HashMap.Value},
		})
	case t.HashSet != nil:
		return json.Marshal(map[string]*IdlType{"hashSet": t.HashSet})
	default:
		return nil, fmt.Errorf("empty type reference")
	}
}

// Parse returns the interface description encoded in the given JSON
// document.
func Parse(data []byte) (*Idl, error) {
	var idl Idl
	if err := json.Unmarshal(data, &idl); err != nil {
		return nil, fmt.Errorf("invalid interface description: %w", err)
	}
	if idl.Name == "" {
		return nil, fmt.Errorf("interface description has no program name")
	}
	return &idl, nil
}

// ParseFile reads and parses the interface description at the given
// path.
func ParseFile(path string) (*Idl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Instruction returns the declaration of the named instruction.
func (i *Idl) Instruction(name string) (*IdlInstruction, bool) {
	for j := range i.Instructions {
		if i.Instructions[j].Name == name {
			return &i.Instructions[j], true
		}
	}
	return nil, false
}

// TypeDef returns the named type definition, searching the user-defined
// types first and the account declarations second.
func (i *Idl) TypeDef(name string) (*IdlTypeDef, bool) {
	for j := range i.Types {
		if i.Types[j].Name == name {
			return &i.Types[j], true
		}
	}
	for j := range i.Accounts {
		if i.Accounts[j].Name == name {
			return &i.Accounts[j], true
		}
	}
	return nil, false
}

// Event returns the declaration of the named event.
func (i *Idl) Event(name string) (*IdlEvent, bool) {
	for j := range i.Events {
		if i.Events[j].Name == name {
			return &i.Events[j], true
		}
	}
	return nil, false
}
