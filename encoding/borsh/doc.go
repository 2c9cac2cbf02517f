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

// Package borsh encodes and decodes Capstan values in the Borsh binary
// format used for smart-contract account and instruction payloads.
//
// The format is deterministic and not self-describing: a byte stream can
// only be interpreted against the capstan.Type it was encoded with, and a
// given type and value pair always produces exactly one byte sequence.
//
// Wire format:
//
//	Bool              1 byte, 0x00 or 0x01
//	Int8 ... Int64    1/2/4/8 bytes, two's complement, little-endian
//	UInt8 ... UInt64  1/2/4/8 bytes, little-endian
//	Int128, UInt128   16 bytes, two's complement, little-endian
//	Float32, Float64  4/8 bytes, IEEE 754, little-endian; NaN is rejected
//	String, Bytes     u32 little-endian byte length, then the bytes;
//	                  strings must be valid UTF-8
//	Address           32 raw bytes
//	[T; N]            N encoded elements, no prefix
//	[T]               u32 element count, then the encoded elements
//	T?                1 tag byte (0x00 absent, 0x01 present), then the
//	                  encoded value if present
//	{K: V}, {T}       u32 entry count, then the encoded entries in
//	                  ascending lexicographic order of their encoded
//	                  key (or element) bytes
//	struct            encoded fields in declaration order, no framing
//	enum              1 discriminant byte (the variant's declaration
//	                  index), then the encoded payload
//
// Because dictionary and set entries are ordered by their encoded bytes,
// equal collections encode to equal bytes regardless of host-side
// insertion order.
package borsh
