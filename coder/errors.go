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
	"fmt"

	"github.com/onsol/capstan/errors"
)

// An UnknownRecordError indicates a record name that the interface
// description does not declare.
type UnknownRecordError struct {
	Namespace string
	Name      string
}

var _ error = UnknownRecordError{}
var _ errors.UserError = UnknownRecordError{}

func NewUnknownRecordError(namespace, name string) UnknownRecordError {
	return UnknownRecordError{
		Namespace: namespace,
		Name:      name,
	}
}

func (e UnknownRecordError) Error() string {
	return fmt.Sprintf(
		"interface description declares no %s named %q",
		e.Namespace,
		e.Name,
	)
}

func (e UnknownRecordError) IsUserError() {}

// An UnknownDiscriminatorError indicates record data whose leading bytes
// match no record the interface description declares.
type UnknownDiscriminatorError struct {
	Namespace     string
	Discriminator Discriminator
}

var _ error = UnknownDiscriminatorError{}
var _ errors.UserError = UnknownDiscriminatorError{}

func NewUnknownDiscriminatorError(
	namespace string,
	discriminator Discriminator,
) UnknownDiscriminatorError {
	return UnknownDiscriminatorError{
		Namespace:     namespace,
		Discriminator: discriminator,
	}
}

func (e UnknownDiscriminatorError) Error() string {
	return fmt.Sprintf(
		"no declared %s matches discriminator 0x%x",
		e.Namespace,
		e.Discriminator.Bytes(),
	)
}

func (e UnknownDiscriminatorError) IsUserError() {}

// A DiscriminatorMismatchError indicates record data whose leading bytes
// identify a different record than the caller expected.
type DiscriminatorMismatchError struct {
	Expected Discriminator
	Actual   Discriminator
}

var _ error = DiscriminatorMismatchError{}
var _ errors.UserError = DiscriminatorMismatchError{}

func NewDiscriminatorMismatchError(
	expected Discriminator,
	actual Discriminator,
) DiscriminatorMismatchError {
	return DiscriminatorMismatchError{
		Expected: expected,
		Actual:   actual,
	}
}

func (e DiscriminatorMismatchError) Error() string {
	return fmt.Sprintf(
		"expected discriminator 0x%x, got 0x%x",
		e.Expected.Bytes(),
		e.Actual.Bytes(),
	)
}

func (e DiscriminatorMismatchError) IsUserError() {}

// A TruncatedRecordError indicates record data shorter than the 8-byte
// discriminator.
type TruncatedRecordError struct {
	Length int
}

var _ error = TruncatedRecordError{}
var _ errors.UserError = TruncatedRecordError{}

func NewTruncatedRecordError(length int) TruncatedRecordError {
	return TruncatedRecordError{Length: length}
}

func (e TruncatedRecordError) Error() string {
	return fmt.Sprintf(
		"record data is too short for a discriminator: %d bytes",
		e.Length,
	)
}

func (e TruncatedRecordError) IsUserError() {}
