// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a missing or invalid descriptor, compiler or
	// configuration file. Always fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO marks a failed filesystem operation.
	ErrIO = errors.New("i/o error")
	// ErrCompile marks a compiler run that never produced its artifact.
	ErrCompile = errors.New("compile failure")
)

// Failure is a catalogued failure. Its Id decides the kind and the message;
// Resource and Cause add detail.
type Failure struct {
	Id       Id
	Resource string
	Cause    error
}

// NewFailure creates a Failure for a catalog entry.
func NewFailure(id Id, resource string, cause error) *Failure {
	return &Failure{Id: id, Resource: resource, Cause: cause}
}

// Error implements the error interface using the English message.
func (f *Failure) Error() string {
	var msg strings.Builder
	msg.WriteString(f.Message(LangEnglish))
	if f.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(f.Resource)
	}
	if f.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(f.Cause.Error())
	}
	return msg.String()
}

// Message returns the localized short message of the catalog entry.
func (f *Failure) Message(lang Lang) string {
	if entry := Get(f.Id); entry != nil {
		return entry.Message(lang)
	}
	return fmt.Sprintf("unknown failure %d", f.Id)
}

// Kind returns the taxonomy sentinel of the catalog entry, or nil for an
// unknown Id.
func (f *Failure) Kind() error {
	if entry := Get(f.Id); entry != nil {
		return entry.Kind()
	}
	return nil
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (f *Failure) Unwrap() []error {
	var errs []error
	if kind := f.Kind(); kind != nil {
		errs = append(errs, kind)
	}
	if f.Cause != nil {
		errs = append(errs, f.Cause)
	}
	return errs
}

// IsFailure reports whether err carries a Failure with the given Id.
func IsFailure(err error, id Id) bool {
	var f *Failure
	return errors.As(err, &f) && f.Id == id
}
