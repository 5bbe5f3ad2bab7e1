package evaluate

// Action is a learner input applied to the current question.
type Action interface {
	action()
}

// SelectOption picks an answer option by index.
type SelectOption struct{ Index int }

// ChooseBool answers a true/false question.
type ChooseBool struct{ Value bool }

// SubmitBlanks submits one value per blank, in order of appearance.
// Values for locked blanks are ignored.
type SubmitBlanks struct{ Values []string }

// SelectLeft picks an item of the left matching column.
type SelectLeft struct{ Value string }

// SelectRight picks an item of the right matching column.
type SelectRight struct{ Value string }

// ClearFlash resets the wrong-pair highlight identified by Seq.
type ClearFlash struct{ Seq int }

// OrderAppend moves a pool item to the end of the built sequence.
type OrderAppend struct{ PoolIndex int }

// OrderRemove returns a built item to the pool.
type OrderRemove struct{ BuiltIndex int }

// OrderMove reorders the built sequence.
type OrderMove struct{ From, To int }

// OrderCheck evaluates the built sequence.
type OrderCheck struct{}

// SubmitText submits a free-text answer.
type SubmitText struct{ Text string }

// ContinueReading moves to the next reading sub-question.
type ContinueReading struct{}

func (SelectOption) action()    {}
func (ChooseBool) action()      {}
func (SubmitBlanks) action()    {}
func (SelectLeft) action()      {}
func (SelectRight) action()     {}
func (ClearFlash) action()      {}
func (OrderAppend) action()     {}
func (OrderRemove) action()     {}
func (OrderMove) action()       {}
func (OrderCheck) action()      {}
func (SubmitText) action()      {}
func (ContinueReading) action() {}
