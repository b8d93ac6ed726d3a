// Package profile implements the view/edit flow for the signed-in user's
// profile. Edits are staged in a local draft and only reach the server on
// Submit.
package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/failure"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
)

// Mode is the editor's state.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

var (
	// ErrWrongMode is returned when an action is not available in the current mode.
	ErrWrongMode = errors.New("profile: action not available in this mode")
	// ErrNoUser means there is no signed-in user to edit.
	ErrNoUser = errors.New("profile: no signed-in user")
)

// UserSource supplies the authoritative user record.
type UserSource interface {
	CurrentUser() *model.User
}

// Updater commits a draft for a user id.
type Updater interface {
	UpdateProfile(ctx context.Context, id int, d model.ProfileDraft) error
}

// ImageConverter turns a chosen file into an image payload.
type ImageConverter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// State is a copy of the editor's state.
type State struct {
	Mode    Mode
	Draft   model.ProfileDraft
	Loading bool
	Err     *failure.Failure
}

// Editor is the profile view/edit state machine. Initial mode is Viewing.
type Editor struct {
	source    UserSource
	updater   Updater
	converter ImageConverter
	log       logging.Logger

	mu      sync.Mutex
	mode    Mode
	draft   model.ProfileDraft
	loading bool
	err     *failure.Failure
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger for swallowed errors.
func WithLogger(l logging.Logger) Option { return func(e *Editor) { e.log = l } }

// New creates an editor in Viewing mode with a draft mirroring the current user.
func New(source UserSource, updater Updater, converter ImageConverter, opts ...Option) *Editor {
	e := &Editor{
		source:    source,
		updater:   updater,
		converter: converter,
		log:       logging.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	e.draft = model.DraftFrom(source.CurrentUser())
	return e
}

// transitionLocked is the only place the mode changes. Entering either
// mode resets the draft from the authoritative user, discarding edits.
func (e *Editor) transitionLocked(to Mode) {
	e.mode = to
	e.draft = model.DraftFrom(e.source.CurrentUser())
}

// Edit enters Editing.
func (e *Editor) Edit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Viewing {
		return ErrWrongMode
	}
	e.transitionLocked(Editing)
	return nil
}

// Cancel leaves Editing and discards the draft.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing {
		return ErrWrongMode
	}
	e.transitionLocked(Viewing)
	return nil
}

// Change applies fn to the draft. Only available while Editing.
func (e *Editor) Change(fn func(d *model.ProfileDraft)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing {
		return ErrWrongMode
	}
	fn(&e.draft)
	return nil
}

// SetUsername stages a new username.
func (e *Editor) SetUsername(v string) error {
	return e.Change(func(d *model.ProfileDraft) { d.Username = v })
}

// SetEmail stages a new email address.
func (e *Editor) SetEmail(v string) error {
	return e.Change(func(d *model.ProfileDraft) { d.Email = v })
}

// SetPassword stages a new password. Empty leaves it unchanged on submit.
func (e *Editor) SetPassword(v string) error {
	return e.Change(func(d *model.ProfileDraft) { d.Password = v })
}

// SetProfileImage stages an SVG payload as the new profile image.
func (e *Editor) SetProfileImage(v string) error {
	return e.Change(func(d *model.ProfileDraft) { d.ProfileImage = v })
}

// Submit commits the draft. The editor returns to Viewing, with the draft
// reset from the current user, before the update call is made; the call
// receives the draft as it was when Submit was invoked. Failures are
// recorded in Err, not returned; the only returned error is ErrWrongMode.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.mode != Editing {
		e.mu.Unlock()
		return ErrWrongMode
	}
	e.err = nil
	e.loading = true
	staged := e.draft
	user := e.source.CurrentUser()
	e.transitionLocked(Viewing)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
	}()

	if user == nil {
		e.fail(failure.New(failure.UpdateProfile, ErrNoUser))
		return nil
	}
	if err := e.updater.UpdateProfile(ctx, user.ID, staged); err != nil {
		f := failure.New(failure.UpdateProfile, err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			f.Detail = apiErr.Message
		}
		e.fail(f)
		return nil
	}

	// The authoritative user has changed; mirror it unless editing resumed.
	e.mu.Lock()
	if e.mode == Viewing {
		e.draft = model.DraftFrom(e.source.CurrentUser())
	}
	e.mu.Unlock()
	return nil
}

// ChooseImage converts the file at path and stores the payload in the
// draft. Only available while Editing. The previous error is cleared first;
// conversion failures are logged and recorded in Err.
func (e *Editor) ChooseImage(ctx context.Context, path string) error {
	e.mu.Lock()
	if e.mode != Editing {
		e.mu.Unlock()
		return ErrWrongMode
	}
	e.err = nil
	e.mu.Unlock()

	payload, err := e.converter.Convert(ctx, path)
	if err != nil {
		e.log.Errorf("profile: convert %s: %v", path, err)
		e.fail(failure.New(failure.ConvertImage, err))
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == Editing {
		e.draft.ProfileImage = payload
	}
	return nil
}

// SetError sets or, with nil, clears the error state.
func (e *Editor) SetError(f *failure.Failure) {
	e.mu.Lock()
	e.err = f
	e.mu.Unlock()
}

func (e *Editor) fail(f *failure.Failure) {
	e.log.Warnf("profile: %v", f)
	e.SetError(f)
}

// Mode reports whether the editor is Viewing or Editing.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Draft returns a copy of the staged profile.
func (e *Editor) Draft() model.ProfileDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Loading reports whether a submit is in flight.
func (e *Editor) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Err returns the last recorded failure, or nil.
func (e *Editor) Err() *failure.Failure {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// State returns a consistent copy of mode, draft, loading and error.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Mode: e.mode, Draft: e.draft, Loading: e.loading, Err: e.err}
}
