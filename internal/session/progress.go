package session

// Progress is the 1-based position of the current scoreable question.
type Progress struct {
	Current int
	Total   int
}

// Percent returns how far through the set the learner is, 0..100.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Current * 100 / p.Total
}

// ProgressOf returns the progress of s. Reading sub-questions count
// individually.
func ProgressOf(s *State) Progress {
	if s == nil || s.TotalFlat == 0 {
		return Progress{}
	}
	cur := s.prefix[s.Index] + s.SubIndex + 1
	if s.Phase == PhaseSummarizing {
		cur = s.TotalFlat
	}
	return Progress{Current: min(cur, s.TotalFlat), Total: s.TotalFlat}
}
