package prefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUserID is returned when saving a user without an id.
	ErrNoUserID = errors.New("user id is required")
	// ErrNoUser is returned when updating while nobody is saved.
	ErrNoUser = errors.New("no saved user")
)

// User is the saved identity.
type User struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Avatar      string          `json:"avatar,omitempty"`
	GitHubToken string          `json:"githubToken,omitempty"`
	Preferences UserPreferences `json:"preferences"`
}

// UserPreferences are the per-user display settings.
type UserPreferences struct {
	Language      string `json:"language"`
	Timezone      string `json:"timezone"`
	Notifications bool   `json:"notifications"`
	EmailDigest   bool   `json:"emailDigest"`
}

// PreferencesPatch is a partial UserPreferences update. Nil fields are kept.
type PreferencesPatch struct {
	Language      *string
	Timezone      *string
	Notifications *bool
	EmailDigest   *bool
}

// DefaultUserPreferences returns the preferences of a freshly saved user.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Language:      "zh-CN",
		Timezone:      "Asia/Shanghai",
		Notifications: true,
		EmailDigest:   true,
	}
}

// Apply merges patch into up.
func (up *UserPreferences) Apply(patch PreferencesPatch) {
	if patch.Language != nil {
		up.Language = *patch.Language
	}
	if patch.Timezone != nil {
		up.Timezone = *patch.Timezone
	}
	if patch.Notifications != nil {
		up.Notifications = *patch.Notifications
	}
	if patch.EmailDigest != nil {
		up.EmailDigest = *patch.EmailDigest
	}
}

// SaveUser stores u. Empty preferences are replaced by the defaults.
func (p *Prefs) SaveUser(u User) error {
	if u.ID == "" {
		return ErrNoUserID
	}
	if u.Preferences == (UserPreferences{}) {
		u.Preferences = DefaultUserPreferences()
	}
	return p.save(userKey, u)
}

// LoadUser returns the saved user. ok is false when nobody is logged in.
func (p *Prefs) LoadUser() (u User, ok bool, err error) {
	u.Preferences = DefaultUserPreferences()
	ok, err = p.load(userKey, &u)
	if !ok {
		return User{}, ok, err
	}
	return u, true, nil
}

// UpdateUser loads the saved user, applies fn and stores the result.
func (p *Prefs) UpdateUser(fn func(*User)) (User, error) {
	u, ok, err := p.LoadUser()
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, fmt.Errorf("update user: %w", ErrNoUser)
	}
	fn(&u)
	return u, p.SaveUser(u)
}

// Logout forgets the saved user.
func (p *Prefs) Logout() error {
	if err := p.store.Delete(userKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
