package flow

import "anamnesis/internal/model"

// stuckThreshold is how many consecutive no-op transitions mark the
// session as stuck, letting the client offer a manual skip.
const stuckThreshold = 3

// Navigator tracks the current position in a flattened question list
// and drives forward/back transitions. Under the stable policy it
// skips entries that are invisible against the live answer map; under
// the filtered policy the list is already visible-only. Transitions
// are single-flight: while one is in flight (animating on the client),
// further requests are no-ops until EndTransition.
type Navigator struct {
	list    []FlatQuestion
	policy  Policy
	index   int
	inMove  bool
	noMoves int
}

// NewNavigator starts at the first question
func NewNavigator(list []FlatQuestion, policy Policy) *Navigator {
	return NewNavigatorAt(list, policy, 0)
}

// NewNavigatorAt restores a navigator at a persisted position. The
// index is clamped into range, so a schema reload mid-session degrades
// to a valid position instead of crashing.
func NewNavigatorAt(list []FlatQuestion, policy Policy, index int) *Navigator {
	n := &Navigator{list: list, policy: policy, index: index}
	n.clamp()
	return n
}

func (n *Navigator) clamp() {
	if n.index < 0 {
		n.index = 0
	}
	if n.index > len(n.list)-1 {
		n.index = len(n.list) - 1
	}
	if len(n.list) == 0 {
		n.index = 0
	}
}

// Index returns the current position
func (n *Navigator) Index() int { return n.index }

// Len returns the list length
func (n *Navigator) Len() int { return len(n.list) }

// Current returns the current entry; ok is false for an empty list
func (n *Navigator) Current() (FlatQuestion, bool) {
	if len(n.list) == 0 {
		return FlatQuestion{}, false
	}
	return n.list[n.index], true
}

// Last reports whether the current question is the final one, where
// the affirmative action becomes submission rather than advance.
func (n *Navigator) Last() bool {
	return len(n.list) > 0 && n.index == len(n.list)-1
}

// Progress is (index+1)/N, recomputed after every transition
func (n *Navigator) Progress() float64 {
	if len(n.list) == 0 {
		return 0
	}
	return float64(n.index+1) / float64(len(n.list))
}

// Next advances to the next visible question. Returns false (a no-op,
// not an error) when no visible question exists ahead, when already at
// the end, or while a transition is in flight.
func (n *Navigator) Next(answers model.AnswerMap) bool {
	return n.move(answers, 1)
}

// Previous is the symmetric backward scan
func (n *Navigator) Previous(answers model.AnswerMap) bool {
	return n.move(answers, -1)
}

func (n *Navigator) move(answers model.AnswerMap, dir int) bool {
	if n.inMove || len(n.list) == 0 {
		return false
	}
	n.clamp()
	for i := n.index + dir; i >= 0 && i < len(n.list); i += dir {
		if n.policy == PolicyFiltered || n.list[i].VisibleNow(answers) {
			n.index = i
			n.inMove = true
			n.noMoves = 0
			return true
		}
	}
	n.noMoves++
	return false
}

// EndTransition releases the single-flight guard once the client's
// transition animation has completed.
func (n *Navigator) EndTransition() {
	n.inMove = false
}

// CurrentAnswered reports whether the current question has an answer.
// A currently invisible current question is vacuously answered, so the
// controller never blocks on a question the respondent was skipped past.
func (n *Navigator) CurrentAnswered(answers model.AnswerMap) bool {
	cur, ok := n.Current()
	if !ok {
		return false
	}
	if !cur.VisibleNow(answers) {
		return true
	}
	return model.IsAnswered(answers[cur.RuntimeID()])
}

// Stuck reports repeated failed transitions from the same position; a
// UX affordance, not a correctness mechanism.
func (n *Navigator) Stuck() bool {
	return n.noMoves >= stuckThreshold
}

// ResetStuck clears the stuck counter, called when an answer changes
func (n *Navigator) ResetStuck() {
	n.noMoves = 0
}
