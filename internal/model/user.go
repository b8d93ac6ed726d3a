package model

// User is the authoritative record of the signed-in user.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// ProfileDraft is the locally staged, unsaved copy of a user's editable fields.
type ProfileDraft struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// DraftFrom mirrors u into a fresh draft. The password is never known
// locally, so it always starts empty. A nil user yields an empty draft.
func DraftFrom(u *User) ProfileDraft {
	if u == nil {
		return ProfileDraft{}
	}
	return ProfileDraft{
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}
