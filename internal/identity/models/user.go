// Package models defines the identity records and request/response shapes for
// the registration and login flows. Storage of the actual record lives behind
// the store interfaces.
package models

import "time"

// ActorKind discriminates the three registered identity kinds. It determines
// which profile fields are required and which identifier is the login key.
type ActorKind string

const (
	KindCitizen  ActorKind = "citizen"
	KindOfficial ActorKind = "official"
	KindNGO      ActorKind = "ngo"
)

// ParseActorKind validates a raw kind value, typically from a path parameter.
func ParseActorKind(raw string) (ActorKind, bool) {
	switch ActorKind(raw) {
	case KindCitizen, KindOfficial, KindNGO:
		return ActorKind(raw), true
	}
	return "", false
}

// CitizenProfile holds the fields only citizens carry. The mobile number is
// the citizen login key; the national ID is identity evidence, never a key.
type CitizenProfile struct {
	Mobile     string
	NationalID string
}

// OrgProfile holds the fields only officials and NGOs carry. The code is
// unique across both kinds and is their login key.
type OrgProfile struct {
	Code string
}

// User is the canonical identity record. Exactly one of Citizen or Org is
// populated, matching Kind. Kind and the profile identifiers are immutable
// after creation.
type User struct {
	ID          string
	Kind        ActorKind
	Name        string
	Email       string
	SecretHash  string
	Citizen     *CitizenProfile
	Org         *OrgProfile
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LoginKey returns the identifier used to look this user up at login: the
// mobile number for citizens, the organization code otherwise.
func (u *User) LoginKey() string {
	if u.Kind == KindCitizen {
		if u.Citizen == nil {
			return ""
		}
		return u.Citizen.Mobile
	}
	if u.Org == nil {
		return ""
	}
	return u.Org.Code
}

// RegistrationInput is the raw, untrusted signup payload.
type RegistrationInput struct {
	Kind       string `json:"userType"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Mobile     string `json:"mobile,omitempty"`
	NationalID string `json:"aadhar,omitempty"`
	Code       string `json:"code,omitempty"`
}

// LoginInput carries login credentials. Mobile applies to citizens, Code to
// officials and NGOs; the handler selects by the kind in the path.
type LoginInput struct {
	Mobile   string `json:"mobile,omitempty"`
	Code     string `json:"code,omitempty"`
	Password string `json:"password"`
}

// ChangePasswordInput carries the explicit password rotation request.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserView is the externally observable record. It never carries the secret
// hash or any password material.
type UserView struct {
	ID          string     `json:"id"`
	Kind        ActorKind  `json:"userType"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Mobile      string     `json:"mobile,omitempty"`
	NationalID  string     `json:"aadhar,omitempty"`
	Code        string     `json:"code,omitempty"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// View converts the record to its sanitized external shape.
func (u *User) View() UserView {
	view := UserView{
		ID:          u.ID,
		Kind:        u.Kind,
		Name:        u.Name,
		Email:       u.Email,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Citizen != nil {
		view.Mobile = u.Citizen.Mobile
		view.NationalID = u.Citizen.NationalID
	}
	if u.Org != nil {
		view.Code = u.Org.Code
	}
	return view
}

// AuthResult pairs the sanitized record with a freshly issued access token.
type AuthResult struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}
