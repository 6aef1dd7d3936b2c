// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compile

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrMalformedReference is matched by every *FormatError.
	ErrMalformedReference = errors.New("malformed table reference")

	// ErrUnsafeValue is returned when a value would break out of its quoting
	// context in the produced command line.
	ErrUnsafeValue = errors.New("unsafe value")
)

// 🚫 FormatError reports a table reference that is not schema.table
type FormatError struct {
	Reference  string // the reference as given
	Separators int    // number of '.' found
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %q: want schema.table, found %d separators", ErrMalformedReference, e.Reference, e.Separators)
}

func (e *FormatError) Unwrap() error {
	return ErrMalformedReference
}

// 🔍 ParseTable splits a schema.table reference into its two segments
func ParseTable(ref string) (schema, table string, err error) {
	n := strings.Count(ref, ".")
	if n != 1 {
		return "", "", &FormatError{Reference: ref, Separators: n}
	}
	schema, table, _ = strings.Cut(ref, ".")
	if schema == "" || table == "" {
		return "", "", &FormatError{Reference: ref, Separators: n}
	}
	return schema, table, nil
}

// unsafeValueError wraps ErrUnsafeValue with the offending field.
func unsafeValueError(field, value, reason string) error {
	return errors.Errorf("%w: %s %q %s", ErrUnsafeValue, field, value, reason)
}
