package model

// ActivationState classifies a user from server-side history: "new" until
// their first backend-visible session exists, "activated" after.
type ActivationState string

const (
	ActivationNew       ActivationState = "new"
	ActivationActivated ActivationState = "activated"
)

// User mirrors the profile response.
type User struct {
	ID              string          `json:"user_id"`
	Email           string          `json:"email"`
	Name            string          `json:"name,omitempty"`
	ActivationState ActivationState `json:"activation_state"`
}

// Credentials carries a login or signup request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthToken is the signup/login response.
type AuthToken struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Token  string `json:"token"`
}

// ProfileUpdate patches the profile; zero-valued fields are left alone.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
