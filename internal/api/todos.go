package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/idilsaglam/tada/internal/model"
)

// ListTodos fetches the whole collection.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var out envelope[[]model.Todo]
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []model.Todo{}, nil
	}
	return out.Data, nil
}

// CreateTodo posts a new todo and returns the server's record.
func (c *Client) CreateTodo(ctx context.Context, in model.CreateTodoInput) (model.Todo, error) {
	var out envelope[model.Todo]
	if err := c.do(ctx, http.MethodPost, "/todos", envelope[model.CreateTodoInput]{Data: in}, &out); err != nil {
		return model.Todo{}, err
	}
	return out.Data, nil
}

// UpdateTodo replaces fields of todo id and returns the server's record.
func (c *Client) UpdateTodo(ctx context.Context, id int, in model.UpdateTodoInput) (model.Todo, error) {
	var out envelope[model.Todo]
	path := fmt.Sprintf("/todos/%d", id)
	if err := c.do(ctx, http.MethodPut, path, envelope[model.UpdateTodoInput]{Data: in}, &out); err != nil {
		return model.Todo{}, err
	}
	return out.Data, nil
}

// DeleteTodo removes todo id. The response body is ignored.
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}
