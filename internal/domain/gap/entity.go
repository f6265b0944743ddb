package gap

import "time"

// SkillGap is the quantified shortfall between a user's current and target
// proficiency in one skill. Levels are on a 0-10 scale; gaps that close
// (size <= 0) are dropped at the oracle boundary and never scored.
type SkillGap struct {
	SkillName    string
	Category     string
	CurrentLevel int
	TargetLevel  int
	RelatedGoals []string
	Foundational bool

	// Assigned by the priority engine. Priority is a dense rank, 1 = highest.
	Priority  int
	Reasoning string

	AnalyzedAt time.Time
}

func (g SkillGap) GapSize() int {
	return g.TargetLevel - g.CurrentLevel
}
