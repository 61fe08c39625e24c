// Package emotion scores free text with a keyword heuristic so the reply
// prompt can carry a hint about the visitor's current mood. It is advisory
// only; the authoritative emotional state lives on the conversation.
package emotion

import "strings"

// Label tags the dominant mood read from an utterance.
type Label string

const (
	Neutral Label = "neutral"
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Anxious Label = "anxious"
	Excited Label = "excited"
)

// Decision is the analysis result. Score grows with keyword density; zero
// means no signal was found.
type Decision struct {
	Mood  Label
	Score int
}

var keywordBuckets = map[Label][]string{
	Happy: {
		"happy", "glad", "great", "wonderful", "thank you", "thanks", "love",
		"better", "relieved", "proud", "hopeful", "haha", "lol",
	},
	Sad: {
		"sad", "cry", "crying", "lonely", "alone", "hopeless", "depressed",
		"miserable", "lost", "grief", "empty", "worthless", "tired of",
	},
	Angry: {
		"angry", "furious", "hate", "rage", "mad", "annoyed", "sick of",
		"fed up", "screw", "shut up", "leave me", "your fault",
	},
	Anxious: {
		"worried", "anxious", "scared", "afraid", "nervous", "panic",
		"can't sleep", "what if", "overwhelmed", "stressed", "terrified",
	},
	Excited: {
		"amazing", "awesome", "can't wait", "finally", "incredible", "wow",
		"unbelievable", "yes!", "so good",
	},
}

// Analyze reads the utterance and returns the dominant mood.
func Analyze(utterance string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	if normalized == "" {
		return Decision{Mood: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += 3
			}
		}
	}

	// Stacked exclamation marks read as agitation rather than enthusiasm
	// when the text already leans negative.
	if exclaims := strings.Count(normalized, "!"); exclaims > 1 {
		if scores[Angry] > 0 {
			scores[Angry] += exclaims
		} else {
			scores[Excited] += exclaims
		}
	}

	best := Decision{Mood: Neutral}
	for _, label := range []Label{Happy, Sad, Angry, Anxious, Excited} {
		if scores[label] > best.Score {
			best = Decision{Mood: label, Score: scores[label]}
		}
	}
	return best
}
