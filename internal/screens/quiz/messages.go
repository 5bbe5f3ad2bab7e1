package quiz

import (
	"github.com/englifish/englifish/internal/explain"
	sess "github.com/englifish/englifish/internal/session"
)

// loadedMsg is sent when the set load finishes.
type loadedMsg struct {
	err error
}

// firedMsg is sent when a scheduled action's delay has elapsed.
type firedMsg struct {
	sc sess.Scheduled
}

// explainPollMsg asks the screen to check for a finished explanation.
type explainPollMsg struct {
	key explain.Key
}
