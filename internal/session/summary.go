package session

import (
	"fmt"
	"math"
	"time"
)

// Tier is the performance band of a finished session.
type Tier int

const (
	TierNeedsPractice Tier = iota
	TierFair
	TierGood
	TierExcellent
)

type tierInfo struct {
	name    string
	title   string
	message string
	min     int
}

var tiers = [...]tierInfo{
	TierNeedsPractice: {"needs_practice", "Needs practice", "Don't give up. More practice will get you there.", 0},
	TierFair:          {"fair", "Room to improve", "Keep practicing. You're on the right track!", 50},
	TierGood:          {"good", "Good job!", "Well done! You know this topic well.", 70},
	TierExcellent:     {"excellent", "Excellent!", "Amazing work! You've mastered this topic.", 90},
}

func (t Tier) String() string { return tiers[t].name }

// Title returns the headline shown for the tier.
func (t Tier) Title() string { return tiers[t].title }

// Message returns the encouragement shown for the tier.
func (t Tier) Message() string { return tiers[t].message }

// TierFor returns the tier for a percentage.
func TierFor(percentage int) Tier {
	for t := TierExcellent; t > TierNeedsPractice; t-- {
		if percentage >= tiers[t].min {
			return t
		}
	}
	return TierNeedsPractice
}

// Summary holds the data displayed on the results screen.
type Summary struct {
	SessionID  string
	SetID      string
	SetTitle   string
	Score      int
	Total      int
	Percentage int
	Tier       Tier
	Duration   time.Duration
	Results    []QuestionResult
}

// BuildSummary creates a Summary from the session state.
func BuildSummary(s *State) *Summary {
	pct := 0
	if s.TotalFlat > 0 {
		pct = int(math.Round(100 * float64(s.Score) / float64(s.TotalFlat)))
	}

	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}

	return &Summary{
		SessionID:  s.ID,
		SetID:      s.Set.ID,
		SetTitle:   s.Set.Title,
		Score:      s.Score,
		Total:      s.TotalFlat,
		Percentage: pct,
		Tier:       TierFor(pct),
		Duration:   end.Sub(s.StartTime),
		Results:    append([]QuestionResult(nil), s.Results...),
	}
}

// ShareText returns the one-line result the learner can paste elsewhere.
func (s *Summary) ShareText() string {
	return fmt.Sprintf("I completed \"%s\" with %d%% (%d/%d)", s.SetTitle, s.Percentage, s.Score, s.Total)
}
