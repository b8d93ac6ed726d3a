package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/tada/internal/failure"
)

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		lang string
		kind failure.Kind
		want string
	}{
		{"en", failure.FetchTodos, MsgFetchTodos},
		{"en", failure.DeleteTodo, MsgDeleteTodo},
		{"ko", failure.FetchTodos, "할 일 목록을 불러오는데 실패했습니다."},
		{"ko", failure.AddTodo, "할 일 추가에 실패했습니다."},
		{"ko", failure.UpdateTodo, "할 일 수정에 실패했습니다."},
		{"ko", failure.DeleteTodo, "할 일 삭제에 실패했습니다."},
		{"ko-KR", failure.UpdateProfile, "프로필 수정에 실패했습니다."},
		{"xx-not-a-tag", failure.AddTodo, MsgAddTodo},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.kind.String(), func(t *testing.T) {
			got := New(tt.lang).Failure(failure.New(tt.kind, errors.New("x")))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFailureDetailWins(t *testing.T) {
	p := New("ko")
	f := &failure.Failure{Kind: failure.UpdateProfile, Detail: "Email already taken"}
	assert.Equal(t, "Email already taken", p.Failure(f))
	assert.Equal(t, "hello", p.Failure(failure.Message("hello")))
}

func TestFailureNilAndUnknown(t *testing.T) {
	p := New("en")
	assert.Empty(t, p.Failure(nil))
	assert.Equal(t, MsgUnknown, p.Failure(&failure.Failure{Kind: failure.Custom}))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "내 프로필", New("ko").T(MsgProfileTitle))
	assert.Equal(t, MsgProfileTitle, New("en").T(MsgProfileTitle))
}
