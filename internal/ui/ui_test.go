package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/tada/internal/model"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.Equal(t, "█████ 100%", ProgressBar(9, 9, 5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "할 일 목...", Truncate("할 일 목록을 불러오는데", 8))
}

func TestMonoRendering(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	todos := []model.Todo{
		{ID: 1, Attributes: model.TodoAttributes{Title: "milk"}},
		{ID: 2, Attributes: model.TodoAttributes{Title: "eggs", Completed: true}},
	}
	assert.Equal(t, "#1   [ ] milk", TodoLine(todos[0]))
	assert.Equal(t, "#2   [x] eggs", TodoLine(todos[1]))

	lines := GroupLines(todos, "no items")
	assert.Equal(t, []string{"Pending", "#1   [ ] milk", "", "Done", "#2   [x] eggs"}, lines)

	assert.Equal(t, []string{"no items"}, FlatLines(nil, "no items"))
	assert.Equal(t, "Todos   x 1  - 2  Total 3", Header("Todos", 1, 2))
}

func TestOKFail(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")
	var out, errOut bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &out, &errOut
	defer func() { Out, Err = prevOut, prevErr }()

	OK("added")
	Fail("nope")
	assert.Equal(t, "ok added\n", out.String())
	assert.Equal(t, "error: nope\n", errOut.String())
}

func TestImageSummary(t *testing.T) {
	assert.True(t, strings.HasPrefix(ImageSummary("<svg/>"), "svg, 6 bytes"))
}
