package recommendation

import "skill-coach/internal/domain/gap"

// Candidate is an action proposal tied to one skill gap, flowing through
// the constraint and diversity filters before assembly. Score starts as
// the gap's priority score and is re-weighted downstream.
type Candidate struct {
	Action               Action
	SkillGap             gap.SkillGap
	EstimatedTimeMinutes int
	Score                float64
	ExceedsTimeBudget    bool
}

func (c Candidate) Fingerprint() string {
	return Fingerprint(c.Action.Type, c.SkillGap.SkillName)
}
