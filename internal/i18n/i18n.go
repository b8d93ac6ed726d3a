// Package i18n turns failure kinds and UI labels into localized text.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/idilsaglam/tada/internal/failure"
)

// Message keys. English text doubles as the key.
const (
	MsgFetchTodos    = "Failed to load the todo list."
	MsgAddTodo       = "Failed to add the todo."
	MsgUpdateTodo    = "Failed to update the todo."
	MsgDeleteTodo    = "Failed to delete the todo."
	MsgUpdateProfile = "Failed to update the profile."
	MsgConvertImage  = "Failed to convert the image."
	MsgUnknown       = "Something went wrong."

	MsgProfileTitle = "My profile"
	MsgUsername     = "Username"
	MsgEmail        = "Email"
	MsgNewPassword  = "New password"
	MsgPasswordHint = "Type to change"
	MsgSave         = "Save"
	MsgSaving       = "Saving..."
	MsgCancel       = "Cancel"
	MsgEditProfile  = "Edit profile"
	MsgTodos        = "Todos"
	MsgNoItems      = "no items"
	MsgLoading      = "loading..."
	MsgImage        = "Image"
	MsgImageHint    = "path to an image file, enter to load"
	MsgNewItemHint  = "New item title..."
	MsgEditItemHint = "Edit item title..."
	MsgEmptyTitle   = "Title cannot be empty"
	MsgAddItem      = "Add new item"
	MsgEditItem     = "Edit item"
)

var kindMessages = map[failure.Kind]string{
	failure.FetchTodos:    MsgFetchTodos,
	failure.AddTodo:       MsgAddTodo,
	failure.UpdateTodo:    MsgUpdateTodo,
	failure.DeleteTodo:    MsgDeleteTodo,
	failure.UpdateProfile: MsgUpdateProfile,
	failure.ConvertImage:  MsgConvertImage,
}

func init() {
	ko := map[string]string{
		MsgFetchTodos:    "할 일 목록을 불러오는데 실패했습니다.",
		MsgAddTodo:       "할 일 추가에 실패했습니다.",
		MsgUpdateTodo:    "할 일 수정에 실패했습니다.",
		MsgDeleteTodo:    "할 일 삭제에 실패했습니다.",
		MsgUpdateProfile: "프로필 수정에 실패했습니다.",
		MsgConvertImage:  "파일 변환 중 오류가 발생했습니다.",
		MsgUnknown:       "알 수 없는 오류가 발생했습니다.",
		MsgProfileTitle:  "내 프로필",
		MsgUsername:      "사용자명",
		MsgEmail:         "이메일",
		MsgNewPassword:   "새 비밀번호",
		MsgPasswordHint:  "변경하려면 입력하세요",
		MsgSave:          "저장",
		MsgSaving:        "저장 중...",
		MsgCancel:        "취소",
		MsgEditProfile:   "프로필 수정",
		MsgTodos:         "할 일",
		MsgNoItems:       "항목 없음",
		MsgLoading:       "불러오는 중...",
		MsgImage:         "프로필 이미지",
		MsgImageHint:     "이미지 파일 경로 입력 후 엔터",
		MsgNewItemHint:   "새 할 일 제목...",
		MsgEditItemHint:  "할 일 제목 수정...",
		MsgEmptyTitle:    "제목을 입력하세요",
		MsgAddItem:       "할 일 추가",
		MsgEditItem:      "할 일 수정",
	}
	for key, text := range ko {
		_ = message.SetString(language.Korean, key, text)
		_ = message.SetString(language.English, key, key)
	}
}

// Printer renders messages for one language.
type Printer struct {
	p *message.Printer
}

// New returns a printer for lang ("en", "ko", or any BCP 47 tag).
// Unknown tags fall back to English.
func New(lang string) *Printer {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		tag = language.English
	}
	matcher := language.NewMatcher([]language.Tag{language.English, language.Korean})
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		tag = language.Korean
	} else {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// T translates a message key.
func (p *Printer) T(key string) string {
	return p.p.Sprintf(key)
}

// Failure renders the display text for f. Collaborator-provided details
// win over the per-kind message. A nil failure renders as "".
func (p *Printer) Failure(f *failure.Failure) string {
	if f == nil {
		return ""
	}
	if f.Detail != "" {
		return f.Detail
	}
	key, ok := kindMessages[f.Kind]
	if !ok {
		key = MsgUnknown
	}
	return p.T(key)
}
