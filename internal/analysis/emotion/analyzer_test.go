package emotion

import "testing"

func TestAnalyzeNeutralOnEmpty(t *testing.T) {
	decision := Analyze("   ")
	if decision.Mood != Neutral {
		t.Fatalf("expected neutral, got %s", decision.Mood)
	}
	if decision.Score != 0 {
		t.Fatalf("expected zero score, got %d", decision.Score)
	}
}

func TestAnalyzeDetectsAnger(t *testing.T) {
	decision := Analyze("I am so angry, I'm sick of everyone telling me what to do!!")
	if decision.Mood != Angry {
		t.Fatalf("expected angry, got %s", decision.Mood)
	}
	if decision.Score == 0 {
		t.Fatal("expected a non-zero score")
	}
}

func TestAnalyzeDetectsSadness(t *testing.T) {
	decision := Analyze("I feel so lonely and hopeless lately")
	if decision.Mood != Sad {
		t.Fatalf("expected sad, got %s", decision.Mood)
	}
}

func TestAnalyzeDetectsAnxiety(t *testing.T) {
	decision := Analyze("What if it all goes wrong? I'm so worried I can't sleep")
	if decision.Mood != Anxious {
		t.Fatalf("expected anxious, got %s", decision.Mood)
	}
}

func TestAnalyzeExclamationsLeanAngryWhenNegative(t *testing.T) {
	decision := Analyze("I hate this!! I hate all of it!!")
	if decision.Mood != Angry {
		t.Fatalf("expected angry, got %s", decision.Mood)
	}
}

func TestAnalyzeNoSignal(t *testing.T) {
	decision := Analyze("the meeting is at three on tuesday")
	if decision.Mood != Neutral {
		t.Fatalf("expected neutral, got %s", decision.Mood)
	}
}
