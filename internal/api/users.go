package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/idilsaglam/tada/internal/model"
)

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser sends the draft for user id. An empty password is omitted so
// the server keeps the current one.
func (c *Client) UpdateUser(ctx context.Context, id int, d model.ProfileDraft) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), d, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
