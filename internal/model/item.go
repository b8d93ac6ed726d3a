package model

import (
	"sort"
	"time"
)

// Todo is the domain model for a todo entry as the API returns it.
// The ID is always assigned by the server.
type Todo struct {
	ID         int            `json:"id"`
	Attributes TodoAttributes `json:"attributes"`
}

// TodoAttributes holds the task fields of a Todo.
type TodoAttributes struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTodoInput is the payload sent when creating a todo.
type CreateTodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// UpdateTodoInput is the payload sent when updating a todo.
// Nil fields are left untouched by the server.
type UpdateTodoInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Title returns the todo's title; handy for list renderers.
func (t Todo) Title() string { return t.Attributes.Title }

// Done reports whether the todo is completed.
func (t Todo) Done() bool { return t.Attributes.Completed }

// SortNewestFirst orders todos by creation time, newest first.
// Todos created at the same instant keep their relative order.
func SortNewestFirst(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].Attributes.CreatedAt.After(todos[j].Attributes.CreatedAt)
	})
}

// Stats counts done and pending todos.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Done() {
			done++
		} else {
			pending++
		}
	}
	return
}
