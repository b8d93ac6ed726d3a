package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func todoAt(id int, at time.Time) Todo {
	return Todo{ID: id, Attributes: TodoAttributes{Title: "t", CreatedAt: at}}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	todos := []Todo{
		todoAt(1, base),
		todoAt(2, base.Add(2*time.Hour)),
		todoAt(3, base.Add(time.Hour)),
		todoAt(4, base.Add(time.Hour)),
	}

	SortNewestFirst(todos)

	ids := make([]int, 0, len(todos))
	for _, td := range todos {
		ids = append(ids, td.ID)
	}
	assert.Equal(t, []int{2, 3, 4, 1}, ids)
	for i := 1; i < len(todos); i++ {
		assert.False(t, todos[i].Attributes.CreatedAt.After(todos[i-1].Attributes.CreatedAt))
	}
}

func TestStats(t *testing.T) {
	todos := []Todo{
		{ID: 1, Attributes: TodoAttributes{Completed: true}},
		{ID: 2},
		{ID: 3},
	}
	done, pending := Stats(todos)
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}

func TestDraftFrom(t *testing.T) {
	u := &User{ID: 7, Username: "bob", Email: "bob@example.com", ProfileImage: "<svg/>"}
	d := DraftFrom(u)
	assert.Equal(t, ProfileDraft{Username: "bob", Email: "bob@example.com", ProfileImage: "<svg/>"}, d)
	assert.Empty(t, d.Password)

	assert.Equal(t, ProfileDraft{}, DraftFrom(nil))
}
