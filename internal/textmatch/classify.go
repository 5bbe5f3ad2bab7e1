package textmatch

import (
	"fmt"
	"math"
	"strings"
)

// Thresholds of the classification cascade.
const (
	NearMissThreshold  = 85.0
	ModerateThreshold  = 60.0
	KeywordOverlapRate = 0.5
)

// Level is the band a classified answer falls into.
type Level int

const (
	LevelWrong Level = iota
	LevelPartial
	LevelModerate
	LevelNearMiss
	LevelExact
)

func (l Level) String() string {
	switch l {
	case LevelExact:
		return "exact"
	case LevelNearMiss:
		return "near_miss"
	case LevelModerate:
		return "moderate"
	case LevelPartial:
		return "partial"
	default:
		return "wrong"
	}
}

// Verdict is the result of classifying a user answer.
type Verdict struct {
	IsCorrect  bool
	Confidence int
	AllowRetry bool
	Feedback   string
	Hint       string
	Level      Level

	// BestMatch is the accepted answer closest to the user answer.
	BestMatch string
}

// Feedback texts.
const (
	FeedbackPerfect  = "Perfect!"
	FeedbackNearMiss = "Very close! Check your spelling and try again."
	FeedbackModerate = "You're on the right track. Try again."
	FeedbackPartial  = "Some key words are right, but the answer is incomplete. Try again."
	FeedbackWrong    = "That's not the expected answer."
)

// Classify compares user against the accepted answers and returns a
// verdict with a retry policy. It is a pure function of its inputs.
func Classify(user string, accepted ...string) Verdict {
	normUser := Normalize(user)

	normAccepted := make([]string, len(accepted))
	for i, a := range accepted {
		normAccepted[i] = Normalize(a)
		if normUser == normAccepted[i] {
			return Verdict{
				IsCorrect:  true,
				Confidence: 100,
				Feedback:   FeedbackPerfect,
				Level:      LevelExact,
				BestMatch:  a,
			}
		}
	}

	if len(accepted) == 0 {
		return Verdict{Feedback: FeedbackWrong, Level: LevelWrong}
	}

	bestIdx, bestScore := 0, -1.0
	for i, a := range normAccepted {
		// Strictly greater keeps the first maximal match.
		if s := Similarity(normUser, a); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	best := accepted[bestIdx]
	confidence := int(math.Round(bestScore))

	switch {
	case bestScore >= NearMissThreshold:
		return Verdict{
			Confidence: confidence,
			AllowRetry: true,
			Feedback:   FeedbackNearMiss,
			Level:      LevelNearMiss,
			BestMatch:  best,
		}
	case bestScore >= ModerateThreshold:
		return Verdict{
			Confidence: confidence,
			AllowRetry: true,
			Feedback:   FeedbackModerate,
			Hint:       fmt.Sprintf("Accepted answers: %s", strings.Join(accepted, ", ")),
			Level:      LevelModerate,
			BestMatch:  best,
		}
	}

	if keywordOverlap(normUser, normAccepted[bestIdx]) {
		return Verdict{
			Confidence: confidence,
			AllowRetry: true,
			Feedback:   FeedbackPartial,
			Hint:       fmt.Sprintf("Expected: %s", best),
			Level:      LevelPartial,
			BestMatch:  best,
		}
	}

	return Verdict{
		Confidence: confidence,
		Feedback:   FeedbackWrong,
		Hint:       fmt.Sprintf("Correct answer: %s", best),
		Level:      LevelWrong,
		BestMatch:  best,
	}
}

// keywordOverlap reports whether the user covers at least half of the
// accepted answer's keywords.
func keywordOverlap(normUser, normAccepted string) bool {
	want := keywords(normAccepted)
	if len(want) == 0 {
		return false
	}

	have := make(map[string]bool)
	for _, w := range keywords(normUser) {
		have[w] = true
	}

	overlap := 0
	for _, w := range want {
		if have[w] {
			overlap++
		}
	}
	return overlap > 0 && float64(overlap) >= KeywordOverlapRate*float64(len(want))
}
