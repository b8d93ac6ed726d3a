// Package failure defines the single "operation failed" error class shared
// by the todo store and the profile editor. Display text lives in i18n.
package failure

import "fmt"

// Kind identifies which operation failed.
type Kind int

const (
	Custom Kind = iota
	FetchTodos
	AddTodo
	UpdateTodo
	DeleteTodo
	UpdateProfile
	ConvertImage
)

var kindNames = map[Kind]string{
	Custom:        "custom",
	FetchTodos:    "fetch_todos",
	AddTodo:       "add_todo",
	UpdateTodo:    "update_todo",
	DeleteTodo:    "delete_todo",
	UpdateProfile: "update_profile",
	ConvertImage:  "convert_image",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Failure is the error state a unit records after a failed operation.
type Failure struct {
	Kind Kind
	// Detail is a collaborator-provided message or free text for Custom.
	Detail string
	Cause  error
}

// New records a failure of kind caused by err.
func New(kind Kind, err error) *Failure {
	return &Failure{Kind: kind, Cause: err}
}

// Message builds a Custom failure carrying text.
func Message(text string) *Failure {
	return &Failure{Kind: Custom, Detail: text}
}

func (f *Failure) Error() string {
	switch {
	case f.Detail != "":
		return f.Kind.String() + ": " + f.Detail
	case f.Cause != nil:
		return f.Kind.String() + ": " + f.Cause.Error()
	}
	return f.Kind.String()
}

func (f *Failure) Unwrap() error { return f.Cause }

// Is matches another *Failure by kind, so errors.Is(err, failure.New(AddTodo, nil)) works.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}
