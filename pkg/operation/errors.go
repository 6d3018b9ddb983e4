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

package operation

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrIO marks a read or write failure on a target file
	ErrIO = errors.Base("io failure")
	// ErrEncoding marks a target file whose content is not valid UTF-8 text
	ErrEncoding = errors.Base("encoding failure")
)

// FileError is returned when processing a target file fails. It matches its
// Kind (ErrIO or ErrEncoding) and the underlying cause with errors.Is.
type FileError struct {
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newFileError(kind error, path string, err error) error {
	return errors.WithStack(&FileError{Path: path, Kind: kind, Err: err})
}
