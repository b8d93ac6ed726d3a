package failure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureError(t *testing.T) {
	cause := errors.New("connection refused")

	assert.Equal(t, "add_todo: connection refused", New(AddTodo, cause).Error())
	assert.Equal(t, "custom: hello", Message("hello").Error())
	assert.Equal(t, "delete_todo", New(DeleteTodo, nil).Error())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestFailureUnwrapAndIs(t *testing.T) {
	cause := errors.New("boom")
	f := New(FetchTodos, cause)

	assert.ErrorIs(t, f, cause)
	assert.True(t, errors.Is(f, New(FetchTodos, nil)))
	assert.False(t, errors.Is(f, New(AddTodo, nil)))
}
