package model

// Preferences is the client-local persisted state. Last writer wins; there
// is no merge resolution because it is single-user data.
type Preferences struct {
	DefaultPreparationType PreparationType `json:"default_preparation_type"`
	DefaultTone            string          `json:"default_tone"`
	RoleContext            string          `json:"role_context"`
	SpeechInput            bool            `json:"speech_input"`
}

// DefaultPreferences is what a fresh install renders with before any
// backend data resolves.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultPreparationType: PrepInterview,
		DefaultTone:            "Professional & Confident",
	}
}
