package character

import "time"

// Voices accepted by the speech synthesis backend. Generation must pick one
// of these for every character.
var Voices = []string{"ash", "ballad", "fable", "coral", "onyx", "nova", "shimmer", "verse"}

// ValidVoice reports whether tag is one of the accepted voice tags.
func ValidVoice(tag string) bool {
	for _, v := range Voices {
		if v == tag {
			return true
		}
	}
	return false
}

// Character is a persisted visitor profile produced by batch generation.
// Immutable after generation except for deletion.
type Character struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Gender             string    `json:"gender"`
	Appearance         string    `json:"appearance"`
	Background         string    `json:"background"`
	Problem            string    `json:"problem"`
	ProblemDescription string    `json:"problemDescription"`
	MentalState        string    `json:"mentalState"`
	InteractionWarning string    `json:"interactionWarning"`
	VoiceSelection     string    `json:"voiceSelection"`
	VoiceInstructions  string    `json:"voiceInstructions"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Context is the read-only projection handed to the response generator.
// Never persisted on its own.
type Context struct {
	Name               string
	MentalState        string
	Problem            string
	Background         string
	InteractionWarning string
}

// Context returns the prompt-facing projection of the character.
func (c Character) Context() Context {
	return Context{
		Name:               c.Name,
		MentalState:        c.MentalState,
		Problem:            c.Problem,
		Background:         c.Background,
		InteractionWarning: c.InteractionWarning,
	}
}
