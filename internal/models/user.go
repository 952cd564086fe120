package models

// User is the public identity of a board member. Email is the unique login key.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Email     string `json:"email"`
}

// UserPatch carries the editable profile fields; nil leaves a field unchanged
type UserPatch struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Apply returns a copy of u with the patch applied
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	return u
}

// SessionRecord is the persisted current session. The embedded user keeps the
// record readable as a plain user object.
type SessionRecord struct {
	User
	SessionID string `json:"sessionId,omitempty"`
}
