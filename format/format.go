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

package format

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const Nil = "nil"

func Bool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func Int(i int64) string {
	return strconv.FormatInt(i, 10)
}

func Uint(u uint64) string {
	return strconv.FormatUint(u, 10)
}

func BigInt(i *big.Int) string {
	return i.String()
}

func Float32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func Float64(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func String(s string) string {
	return strconv.Quote(s)
}

func Bytes(b []byte) string {
	var builder strings.Builder
	builder.WriteByte('[')
	for i, n := range b {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("0x")
		builder.WriteString(strconv.FormatUint(uint64(n), 16))
	}
	builder.WriteByte(']')
	return builder.String()
}

func Address(b []byte) string {
	return fmt.Sprintf("0x%s", hex.EncodeToString(b))
}

func Array(values []string) string {
	var builder strings.Builder
	builder.WriteByte('[')
	for i, value := range values {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(value)
	}
	builder.WriteByte(']')
	return builder.String()
}

func Set(values []string) string {
	var builder strings.Builder
	builder.WriteByte('{')
	for i, value := range values {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(value)
	}
	builder.WriteByte('}')
	return builder.String()
}

func Dictionary(pairs []struct{ Key, Value string }) string {
	var builder strings.Builder
	builder.WriteByte('{')
	for i, pair := range pairs {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(pair.Key)
		builder.WriteString(": ")
		builder.WriteString(pair.Value)
	}
	builder.WriteByte('}')
	return builder.String()
}

func Composite(typeID string, fields []struct{ Name, Value string }) string {
	var builder strings.Builder
	builder.WriteString(typeID)
	builder.WriteByte('(')
	for i, field := range fields {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(field.Name)
		builder.WriteString(": ")
		builder.WriteString(field.Value)
	}
	builder.WriteByte(')')
	return builder.String()
}

// Variant renders one enum case. Unit variants render as "Enum.Case",
// tuple variants as "Enum.Case(1, 2)", and named-field variants as
// "Enum.Case(x: 1, y: 2)".
func Variant(
	enumID string,
	identifier string,
	names []string,
	values []string,
) string {
	var builder strings.Builder
	if enumID != "" {
		builder.WriteString(enumID)
		builder.WriteByte('.')
	}
	builder.WriteString(identifier)

	if len(values) == 0 {
		return builder.String()
	}

	builder.WriteByte('(')
	for i, value := range values {
		if i > 0 {
			builder.WriteString(", ")
		}
		if len(names) > 0 {
			builder.WriteString(names[i])
			builder.WriteString(": ")
		}
		builder.WriteString(value)
	}
	builder.WriteByte(')')
	return builder.String()
}
