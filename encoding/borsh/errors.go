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

package borsh

import (
	"fmt"

	"github.com/onsol/capstan"
	"github.com/onsol/capstan/errors"
)

// FormatError

// A FormatError indicates data that does not conform to the wire format
// for the requested type: a truncated stream, an out-of-range tag or
// discriminant, a NaN bit pattern, or invalid UTF-8 in a string.
// Offset is the position in the input at which decoding failed.
type FormatError struct {
	Message string
	Offset  int
}

var _ error = FormatError{}
var _ errors.UserError = FormatError{}

func NewFormatError(offset int, message string, args ...any) FormatError {
	return FormatError{
		Message: fmt.Sprintf(message, args...),
		Offset:  offset,
	}
}

func (e FormatError) Error() string {
	return fmt.Sprintf("invalid data at offset %d: %s", e.Offset, e.Message)
}

func (e FormatError) IsUserError() {}

// ValueError

// A ValueError indicates a value that cannot be encoded as the requested
// type: a shape mismatch, a NaN float, an out-of-range integer, or a
// collection with duplicate keys.
type ValueError struct {
	Message string
}

var _ error = ValueError{}
var _ errors.UserError = ValueError{}

func NewValueError(message string, args ...any) ValueError {
	return ValueError{
		Message: fmt.Sprintf(message, args...),
	}
}

func (e ValueError) Error() string {
	return fmt.Sprintf("cannot encode value: %s", e.Message)
}

func (e ValueError) IsUserError() {}

// SizeUndefinedError

// A SizeUndefinedError indicates a StaticSize query on a type whose
// encoded width depends on the value.
type SizeUndefinedError struct {
	TypeID string
}

var _ error = SizeUndefinedError{}
var _ errors.UserError = SizeUndefinedError{}

func NewSizeUndefinedError(t capstan.Type) SizeUndefinedError {
	return SizeUndefinedError{
		TypeID: t.ID(),
	}
}

func (e SizeUndefinedError) Error() string {
	return fmt.Sprintf("type %s has no static size", e.TypeID)
}

func (e SizeUndefinedError) IsUserError() {}

// UnsupportedTypeError

// An UnsupportedTypeError indicates a Type implementation the codec does
// not know how to encode or decode.
type UnsupportedTypeError struct {
	TypeID string
}

var _ error = UnsupportedTypeError{}
var _ errors.UserError = UnsupportedTypeError{}

func NewUnsupportedTypeError(t capstan.Type) UnsupportedTypeError {
	return UnsupportedTypeError{
		TypeID: t.ID(),
	}
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.TypeID)
}

func (e UnsupportedTypeError) IsUserError() {}
