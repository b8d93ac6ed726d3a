package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/i18n"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/profile"
	"github.com/idilsaglam/tada/internal/ui"
)

// Editable fields, in tab order.
const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldImage
	fieldCount
)

// profileView mirrors the editor's draft into text inputs.
type profileView struct {
	state  profile.State
	inputs [fieldCount]textinput.Model
	focus  int
}

func newProfileView(t *i18n.Printer) profileView {
	var pv profileView
	for i := range pv.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		pv.inputs[i] = in
	}
	pv.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	pv.inputs[fieldPassword].Placeholder = t.T(i18n.MsgPasswordHint)
	pv.inputs[fieldImage].Placeholder = t.T(i18n.MsgImageHint)
	return pv
}

// sync copies editor state into the inputs.
func (pv *profileView) sync(st profile.State) {
	pv.state = st
	pv.inputs[fieldUsername].SetValue(st.Draft.Username)
	pv.inputs[fieldEmail].SetValue(st.Draft.Email)
	pv.inputs[fieldPassword].SetValue(st.Draft.Password)
	if st.Mode == profile.Editing {
		pv.setFocus(pv.focus)
	} else {
		for i := range pv.inputs {
			pv.inputs[i].Blur()
		}
	}
}

func (pv *profileView) setFocus(i int) {
	pv.focus = (i + fieldCount) % fieldCount
	for j := range pv.inputs {
		if j == pv.focus {
			pv.inputs[j].Focus()
		} else {
			pv.inputs[j].Blur()
		}
	}
}

func (m Model) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	ed := m.deps.Editor
	km, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	if ed.Mode() == profile.Viewing {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "b":
			m.screen = screenTodos
			return m, nil
		case "e":
			_ = ed.Edit()
			m.prof.focus = fieldUsername
			m.prof.sync(ed.State())
			return m, nil
		}
		return m, nil
	}

	switch km.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		_ = ed.Cancel()
		m.prof.sync(ed.State())
		return m, nil
	case "tab", "down":
		m.prof.setFocus(m.prof.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.prof.setFocus(m.prof.focus - 1)
		return m, nil
	case "enter":
		if m.prof.focus == fieldImage {
			path := strings.TrimSpace(m.prof.inputs[fieldImage].Value())
			if path == "" {
				return m, nil
			}
			m.prof.inputs[fieldImage].SetValue("")
			return m, m.profileCmd(func(ctx context.Context) error { return ed.ChooseImage(ctx, path) })
		}
		// Submit flips the editor to Viewing before the update call returns.
		cmd := m.profileCmd(ed.Submit)
		return m, cmd
	}

	var cmd tea.Cmd
	f := m.prof.focus
	m.prof.inputs[f], cmd = m.prof.inputs[f].Update(msg)
	v := m.prof.inputs[f].Value()
	switch f {
	case fieldUsername:
		_ = ed.SetUsername(v)
	case fieldEmail:
		_ = ed.SetEmail(v)
	case fieldPassword:
		_ = ed.SetPassword(v)
	}
	m.prof.state = ed.State()
	return m, cmd
}

func (m Model) viewProfile() string {
	st := m.deps.Editor.State()
	th := ui.Current()
	lines := []string{th.Title.Render(m.t.T(i18n.MsgProfileTitle)), ""}

	if st.Mode == profile.Viewing {
		u := m.deps.Users.CurrentUser()
		if u == nil {
			u = &model.User{}
		}
		lines = append(lines,
			ui.Field(m.t.T(i18n.MsgUsername), u.Username),
			ui.Field(m.t.T(i18n.MsgEmail), u.Email),
			ui.Field(m.t.T(i18n.MsgImage), ui.ImageSummary(u.ProfileImage)),
			"",
			th.Help.Render("e "+m.t.T(i18n.MsgEditProfile)+" • esc back • q quit"),
		)
	} else {
		labels := [fieldCount]string{
			m.t.T(i18n.MsgUsername), m.t.T(i18n.MsgEmail), m.t.T(i18n.MsgNewPassword), m.t.T(i18n.MsgImage),
		}
		for i, in := range m.prof.inputs {
			lines = append(lines, ui.Field(labels[i], in.View()))
		}
		lines = append(lines,
			ui.Field("", ui.ImageSummary(st.Draft.ProfileImage)),
			"",
			th.Help.Render("enter "+m.t.T(i18n.MsgSave)+" • tab next • esc "+m.t.T(i18n.MsgCancel)),
		)
	}

	if st.Loading {
		lines = append(lines, m.spinner.View()+" "+th.Muted.Render(m.t.T(i18n.MsgSaving)))
	}
	if errText := m.t.Failure(st.Err); errText != "" {
		lines = append(lines, th.Error.Render(errText))
	}
	return panelString(strings.Join(lines, "\n"))
}
