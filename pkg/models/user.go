package models

import "time"

// CreatedDateFormat is the display format for a profile's account-creation
// date: zero-padded day-month-year, e.g. "05-03-2024".
const CreatedDateFormat = "02-01-2006"

// UserProfile is the locally cached view of the authenticated user. At most
// one profile is active at a time; the unauthenticated state is represented
// by the absence of a value, not by a zero profile.
type UserProfile struct {
	ID        string          `json:"id"`
	Token     string          `json:"token"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Avatar    string          `json:"avatar"`  // derived file URL, empty when no avatar is set
	Created   string          `json:"created"` // formatted per CreatedDateFormat
	ThemeMode ThemePreference `json:"themeMode"`

	// Write-only fields used by account-management forms. They are never
	// populated from the server and must stay empty/absent otherwise.
	Password        string  `json:"password,omitempty"`
	PasswordConfirm string  `json:"passwordConfirm,omitempty"`
	OldPassword     string  `json:"oldPassword,omitempty"`
	AvatarFile      *string `json:"-"` // local path of a pending avatar upload
}

// NewAccountRequest carries the registration form. It is consumed once by
// account creation and discarded.
type NewAccountRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	Name            string          `json:"name" validate:"required"`
	ThemeMode       ThemePreference `json:"themeMode" validate:"required,oneof=forest dawn"`
	Password        string          `json:"password" validate:"required,min=8"`
	PasswordConfirm string          `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Record is a single stored entity as represented by the Roost backend.
// Only the fields the client consumes are mapped.
type Record struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"` // stored filename, not a URL
	ThemeMode string    `json:"themeMode"`
	Created   time.Time `json:"created"`
}

// AuthResponse is the backend's reply to any authentication operation:
// a session token plus the authenticated user's record.
type AuthResponse struct {
	Token  string `json:"token"`
	Record Record `json:"record"`
}
