package metadata

//go:generate mockery --name=Describer -r --case underscore --with-expecter --structname Describer --filename describer.go --output=./mocks
import (
	"context"
	"errors"
	"fmt"
)

var ErrObjectNotFound = errors.New("object not found")

// Describer exposes object and organization metadata of a search backend
type Describer interface {
	// DescribeObject returns the field definitions of an object type.
	// Returns an error wrapping ErrObjectNotFound for unknown objects.
	DescribeObject(ctx context.Context, name string) (ObjectDescription, error)

	// NamespaceInstalled reports whether a managed extension namespace
	// is present on the backend.
	NamespaceInstalled(ctx context.Context, namespace string) (bool, error)

	// Organization returns details of the organization and the user
	// the backend session runs as.
	Organization(ctx context.Context) (Organization, error)
}

// Field describes a single field of an object type
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nillable bool   `json:"nillable"`
}

// ObjectDescription is the field metadata of one object type
type ObjectDescription struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Required returns the fields that cannot be left empty
func (d ObjectDescription) Required() []Field {
	var fields []Field
	for _, f := range d.Fields {
		if !f.Nillable {
			fields = append(fields, f)
		}
	}
	return fields
}

// Organization identifies the backend organization and current user
type Organization struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserName string `json:"user_name"`
}

type NotFoundError struct {
	Object string
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("could not find object %q", err.Object)
}

func (err NotFoundError) Unwrap() error {
	return ErrObjectNotFound
}
