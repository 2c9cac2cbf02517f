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

// Package coder frames Borsh-encoded payloads as on-chain records.
//
// A record is an 8-byte discriminator followed by the Borsh encoding of
// the record's payload. The discriminator identifies which account
// layout, instruction, or event the payload belongs to, so that a
// decoder holding a program's interface description can dispatch on the
// leading bytes alone.
package coder

import (
	"crypto/sha256"
	"strings"
	"unicode"
)

// DiscriminatorLength is the number of leading bytes that identify a
// record.
const DiscriminatorLength = 8

// A Discriminator is the 8-byte record tag preceding a Borsh payload:
// the first 8 bytes of the SHA-256 digest of "<namespace>:<name>".
type Discriminator [DiscriminatorLength]byte

// Record namespaces. Account and event records are tagged with the
// declared name verbatim; instruction records use the method name in
// snake_case.
const (
	AccountNamespace     = "account"
	InstructionNamespace = "global"
	EventNamespace       = "event"
)

// NewDiscriminator returns the discriminator for the given namespace and
// name.
func NewDiscriminator(namespace, name string) Discriminator {
	hash := sha256.Sum256([]byte(namespace + ":" + name))
	var d Discriminator
	copy(d[:], hash[:DiscriminatorLength])
	return d
}

// AccountDiscriminator returns the discriminator tagging accounts with
// the given declared layout name.
func AccountDiscriminator(name string) Discriminator {
	return NewDiscriminator(AccountNamespace, name)
}

// InstructionDiscriminator returns the discriminator tagging invocations
// of the given method. The method name is converted to snake_case
// first, matching how program toolchains derive the instruction sighash
// from the declared method name.
func InstructionDiscriminator(name string) Discriminator {
	return NewDiscriminator(InstructionNamespace, ToSnakeCase(name))
}

// EventDiscriminator returns the discriminator tagging events with the
// given declared name.
func EventDiscriminator(name string) Discriminator {
	return NewDiscriminator(EventNamespace, name)
}

// Bytes returns the discriminator as a slice.
func (d Discriminator) Bytes() []byte {
	return d[:]
}

// ToSnakeCase converts a camelCase or PascalCase identifier to
// snake_case. Runs of upper-case letters stay together: "decodeIDL"
// becomes "decode_idl", not "decode_i_d_l".
func ToSnakeCase(s string) string {
	var builder strings.Builder
	builder.Grow(len(s) + 2)

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			atWordStart := i > 0 && !unicode.IsUpper(runes[i-1])
			atRunEnd := i > 0 && i+1 < len(runes) &&
				unicode.IsUpper(runes[i-1]) &&
				unicode.IsLower(runes[i+1])
			if atWordStart || atRunEnd {
				builder.WriteByte('_')
			}
			builder.WriteRune(unicode.ToLower(r))
			continue
		}
		builder.WriteRune(r)
	}

	return builder.String()
}
