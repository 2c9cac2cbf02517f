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
	"github.com/onsol/capstan"
)

// ResolveTypeDef returns the schema for the named struct or enum
// definition. Resolved definitions are cached on the Idl, so repeated
// lookups return the same Type tree.
//
// Unknown names, unknown definition kinds, cyclic definitions, and
// declarations the schema model rejects (reserved or duplicate
// identifiers, too many variants) return capstan.SchemaError.
func (i *Idl) ResolveTypeDef(name string) (capstan.Type, error) {
	i.resolveMu.Lock()
	defer i.resolveMu.Unlock()

	r := &typeResolver{
		idl:       i,
		resolving: map[string]struct{}{},
	}
	return r.resolveDefined(name)
}

// ResolveType returns the schema for an arbitrary type reference.
func (i *Idl) ResolveType(t IdlType) (capstan.Type, error) {
	i.resolveMu.Lock()
	defer i.resolveMu.Unlock()

	r := &typeResolver{
		idl:       i,
		resolving: map[string]struct{}{},
	}
	return r.resolveType(t)
}

type typeResolver struct {
	idl       *Idl
	resolving map[string]struct{}
}

func (r *typeResolver) resolveType(t IdlType) (capstan.Type, error) {
	switch {
	case t.Primitive != "":
		return resolvePrimitive(t.Primitive)

	case t.Vec != nil:
		elementType, err := r.resolveType(*t.Vec)
		if err != nil {
			return nil, err
		}
		return capstan.NewVariableSizedArrayType(elementType), nil

	case t.Array != nil:
		elementType, err := r.resolveType(t.Array.Element)
		if err != nil {
			return nil, err
		}
		return capstan.NewConstantSizedArrayType(
			uint(t.Array.Size),
			elementType,
		), nil

	case t.Option != nil:
		innerType, err := r.resolveType(*t.Option)
		if err != nil {
			return nil, err
		}
		return capstan.NewOptionalType(innerType), nil

	case t.Defined != "":
		return r.resolveDefined(t.Defined)

	case t.HashMap != nil:
		keyType, err := r.resolveType(t.HashMap.Key)
		if err != nil {
			return nil, err
		}
		valueType, err := r.resolveType(t.HashMap.Value)
		if err != nil {
			return nil, err
		}
		return capstan.NewDictionaryType(keyType, valueType), nil

	case t.HashSet != nil:
		elementType, err := r.resolveType(*t.HashSet)
		if err != nil {
			return nil, err
		}
		return capstan.NewSetType(elementType), nil

	default:
		return nil, capstan.NewSchemaError("empty type reference")
	}
}

func resolvePrimitive(name string) (capstan.Type, error) {
	switch name {
	case "bool":
		return capstan.NewBoolType(), nil
	case "u8":
		return capstan.NewUInt8Type(), nil
	case "i8":
		return capstan.NewInt8Type(), nil
	case "u16":
		return capstan.NewUInt16Type(), nil
	case "i16":
		return capstan.NewInt16Type(), nil
	case "u32":
		return capstan.NewUInt32Type(), nil
	case "i32":
		return capstan.NewInt32Type(), nil
	case "u64":
		return capstan.NewUInt64Type(), nil
	case "i64":
		return capstan.NewInt64Type(), nil
	case "u128":
		return capstan.NewUInt128Type(), nil
	case "i128":
		return capstan.NewInt128Type(), nil
	case "f32":
		return capstan.NewFloat32Type(), nil
	case "f64":
		return capstan.NewFloat64Type(), nil
	case "bytes":
		return capstan.NewBytesType(), nil
	case "string":
		return capstan.NewStringType(), nil
	case "publicKey":
		return capstan.NewAddressType(), nil
	default:
		return nil, capstan.NewSchemaError("unknown type name %q", name)
	}
}

func (r *typeResolver) resolveDefined(name string) (capstan.Type, error) {
	if resolved, ok := r.idl.resolved[name]; ok {
		return resolved, nil
	}
	if _, ok := r.resolving[name]; ok {
		return nil, capstan.NewSchemaError(
			"type %q is defined recursively",
			name,
		)
	}

	typeDef, ok := r.idl.TypeDef(name)
	if !ok {
		return nil, capstan.NewSchemaError("undefined type %q", name)
	}

	r.resolving[name] = struct{}{}
	defer delete(r.resolving, name)

	resolved, err := r.resolveTypeDef(typeDef)
	if err != nil {
		return nil, err
	}

	if r.idl.resolved == nil {
		r.idl.resolved = map[string]capstan.Type{}
	}
	r.idl.resolved[name] = resolved
	return resolved, nil
}

func (r *typeResolver) resolveTypeDef(typeDef *IdlTypeDef) (capstan.Type, error) {
	switch typeDef.Type.Kind {
	case TypeDefKindStruct:
		fields, err := r.resolveFields(typeDef.Type.Fields)
		if err != nil {
			return nil, err
		}
		return capstan.NewStructType(typeDef.Name, fields)

	case TypeDefKindEnum:
		variants := make([]*capstan.VariantType, len(typeDef.Type.Variants))
		for i, declared := range typeDef.Type.Variants {
			variant, err := r.resolveVariant(declared)
			if err != nil {
				return nil, err
			}
			variants[i] = variant
		}
		return capstan.NewEnumType(typeDef.Name, variants)

	default:
		return nil, capstan.NewSchemaError(
			"type %q has unknown kind %q",
			typeDef.Name,
			typeDef.Type.Kind,
		)
	}
}

func (r *typeResolver) resolveVariant(declared IdlEnumVariant) (*capstan.VariantType, error) {
	switch {
	case declared.Fields == nil ||
		(declared.Fields.Named == nil && declared.Fields.Tuple == nil):
		return capstan.NewUnitVariantType(declared.Name), nil

	case declared.Fields.Named != nil:
		fields, err := r.resolveFields(declared.Fields.Named)
		if err != nil {
			return nil, err
		}
		return capstan.NewFieldsVariantType(declared.Name, fields...), nil

	default:
		elements := make([]capstan.Type, len(declared.Fields.Tuple))
		for i, element := range declared.Fields.Tuple {
			elementType, err := r.resolveType(element)
			if err != nil {
				return nil, err
			}
			elements[i] = elementType
		}
		return capstan.NewTupleVariantType(declared.Name, elements...), nil
	}
}

func (r *typeResolver) resolveFields(declared []IdlField) ([]capstan.Field, error) {
	fields := make([]capstan.Field, len(declared))
	for i, field := range declared {
		fieldType, err := r.resolveType(field.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = capstan.NewField(field.Name, fieldType)
	}
	return fields, nil
}
