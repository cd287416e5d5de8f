// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies the fatal conditions of a run.
type Kind int

const (
	// Unknown is reported by KindOf for errors not created by this package.
	Unknown Kind = iota
	// ArgumentError means a required argument is missing or invalid.
	ArgumentError
	// ResourceOpenError means an input or output could not be opened.
	ResourceOpenError
	// MalformedRecordError means a region line could not be parsed.
	MalformedRecordError
	// ResourceWriteError means writing an output failed.
	ResourceWriteError
)

func (k Kind) String() string {
	switch k {
	case ArgumentError:
		return "ArgumentError"
	case ResourceOpenError:
		return "ResourceOpenError"
	case MalformedRecordError:
		return "MalformedRecordError"
	case ResourceWriteError:
		return "ResourceWriteError"
	}
	return "Unknown"
}

// Error is a fatal pipeline error with the location (and for parse errors the
// 1-based line number) it relates to.
type Error struct {
	Kind     Kind
	Location string
	Line     int
	Err      error
}

func (err *Error) Error() string {
	switch {
	case err.Line > 0:
		return fmt.Sprintf("%s: %s:%d: %v", err.Kind, err.Location, err.Line, err.Err)
	case err.Location != "":
		return fmt.Sprintf("%s: %s: %v", err.Kind, err.Location, err.Err)
	}
	return fmt.Sprintf("%s: %v", err.Kind, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return Unknown
}

// NewArgumentError reports an invalid or missing argument.
func NewArgumentError(err error) error {
	return &Error{Kind: ArgumentError, Err: err}
}

// NewOpenError reports that location could not be opened.
func NewOpenError(location string, err error) error {
	return &Error{Kind: ResourceOpenError, Location: location, Err: err}
}

// NewMalformedRecordError reports an unparsable region on line of location.
func NewMalformedRecordError(location string, line int, err error) error {
	return &Error{Kind: MalformedRecordError, Location: location, Line: line, Err: err}
}

// NewWriteError reports a failure writing to location.
func NewWriteError(location string, err error) error {
	return &Error{Kind: ResourceWriteError, Location: location, Err: err}
}
