package search

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConfigured   = errors.New("search scope and objects must be set before find")
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnknownObjectError is returned when an option setter targets an object
// type that was not registered with SetSearchObjects.
type UnknownObjectError struct {
	Name string
}

func (err UnknownObjectError) Error() string {
	return fmt.Sprintf("unknown search object: %q", err.Name)
}

// UnknownFieldError is returned by SetFieldsForObject when a describer is
// configured and the object has no such field.
type UnknownFieldError struct {
	Object string
	Field  string
}

func (err UnknownFieldError) Error() string {
	return fmt.Sprintf("object %q has no field %q", err.Object, err.Field)
}

// ExecutionError is returned by executors when the backend rejects or
// fails to run a composed query. Its message is what QueryBuilder
// surfaces through LastError.
type ExecutionError struct {
	Op     string
	Object string
	Code   string
	Err    error
}

func (err ExecutionError) Error() string {
	var s strings.Builder
	if err.Op != "" {
		s.WriteString(err.Op + ": ")
	}
	if err.Object != "" {
		s.WriteString("object '" + err.Object + "': ")
	}
	if err.Code != "" {
		s.WriteString("code '" + err.Code + "': ")
	}
	s.WriteString(err.Err.Error())
	return s.String()
}

func (err ExecutionError) Unwrap() error {
	return err.Err
}
