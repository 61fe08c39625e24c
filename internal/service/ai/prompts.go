package ai

import (
	"fmt"
	"strings"

	"github.com/deadinside/backend/internal/analysis/emotion"
	"github.com/deadinside/backend/internal/model/character"
)

// Prompt text is always passed through template placeholders, never compiled
// as a template itself, so character-provided braces are safe.

func replySystemPrompt(charCtx character.Context, currentState int, latestUtterance string) string {
	var b strings.Builder
	b.WriteString("You are roleplaying a therapy visitor in a session with the user, who acts as your therapist. Stay in character at all times.\n\n")
	b.WriteString("Your character:\n")
	fmt.Fprintf(&b, "- Name: %s\n", charCtx.Name)
	fmt.Fprintf(&b, "- Mental state: %s\n", charCtx.MentalState)
	fmt.Fprintf(&b, "- Problem: %s\n", charCtx.Problem)
	fmt.Fprintf(&b, "- Background: %s\n", charCtx.Background)
	fmt.Fprintf(&b, "- Interaction warning: %s\n", charCtx.InteractionWarning)

	fmt.Fprintf(&b, "\nYour current emotional state is %d on a scale from 0 (completely enraged, storms out) to 100 (fully satisfied, at peace). ", currentState)
	b.WriteString("React to the therapist's latest message the way this character genuinely would: helpful, empathetic handling moves you up, dismissive or hurtful handling moves you down.\n")

	if hint := moodHint(latestUtterance); hint != "" {
		b.WriteString("\n")
		b.WriteString(hint)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nAnswer with a single JSON object and nothing else, with exactly these fields:\n")
	fmt.Fprintf(&b, `{"emotional_change": <integer between %d and %d>, "comment": "<what you say out loud, in character>"}`, MinEmotionalChange, MaxEmotionalChange)
	b.WriteString("\nDo not add extra fields, markdown, or commentary outside the object.")
	return b.String()
}

func moodHint(utterance string) string {
	decision := emotion.Analyze(utterance)
	switch decision.Mood {
	case emotion.Happy:
		return "The therapist's tone reads as warm and positive; let that land on the character."
	case emotion.Sad:
		return "The therapist's tone reads as somber; the character may soften or sink with it."
	case emotion.Angry:
		return "The therapist's tone reads as harsh or confrontational; the character will likely bristle."
	case emotion.Anxious:
		return "The therapist's tone reads as uneasy; the character may pick up on the nervousness."
	case emotion.Excited:
		return "The therapist's tone reads as energetic; match or deflect it in character."
	default:
		return ""
	}
}

const openingInstruction = "The session is starting. Greet the therapist and begin talking about what brought you here, in character. Speak naturally, a few sentences at most. Reply with plain text only."

func openingSystemPrompt(charCtx character.Context) string {
	var b strings.Builder
	b.WriteString("You are roleplaying a therapy visitor who has just sat down for a first session. Stay in character.\n\n")
	b.WriteString("Your character:\n")
	fmt.Fprintf(&b, "- Name: %s\n", charCtx.Name)
	fmt.Fprintf(&b, "- Mental state: %s\n", charCtx.MentalState)
	fmt.Fprintf(&b, "- Problem: %s\n", charCtx.Problem)
	fmt.Fprintf(&b, "- Background: %s\n", charCtx.Background)
	fmt.Fprintf(&b, "- Interaction warning: %s\n", charCtx.InteractionWarning)
	return b.String()
}

func characterGenSystemPrompt(count int) string {
	var b strings.Builder
	b.WriteString("You design troubled fictional characters for a therapy roleplay game. ")
	fmt.Fprintf(&b, "Produce exactly %d distinct characters fitting the requested theme.\n\n", count)
	b.WriteString("Answer with a single JSON object and nothing else:\n")
	b.WriteString(`{"theme": "<the requested theme>", "characters": [{"name": "...", "gender": "...", "appearance": "...", "background": "...", "problem": "<one-sentence summary>", "problem_description": "<detailed narrative>", "mental_state": "...", "interaction_warning": "<how the character reacts badly>", "voice_selection": "<one of: `)
	b.WriteString(strings.Join(character.Voices, ", "))
	b.WriteString(`>", "voice_instructions": "<how the voice should sound>"}]}`)
	b.WriteString("\nDo not add extra fields, markdown, or commentary outside the object.")
	return b.String()
}

func characterGenQuery(theme string, count int) string {
	return fmt.Sprintf("Theme: %s. Generate %d characters.", theme, count)
}
