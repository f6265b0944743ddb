package priority

import (
	"fmt"
	"sort"
	"strings"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/preference"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/usercontext"
)

// Config holds the scoring knobs. Defaults mirror the shipped tuning;
// callers override individual fields from EngineConfig.
type Config struct {
	GapWeight        float64
	GoalWeight       float64
	TimeFitWeight    float64
	RecencyWeight    float64
	FoundationalMul  float64
	DecayAfterCycles int
	DecayBoost       float64

	// RecencyWindow is how many trailing progress records feed the
	// recency term.
	RecencyWindow int

	// MinutesPerLevel converts gap size into estimated closing effort
	// for the time-fit term.
	MinutesPerLevel int
}

func DefaultConfig() Config {
	return Config{
		GapWeight:        0.3,
		GoalWeight:       0.3,
		TimeFitWeight:    0.2,
		RecencyWeight:    0.2,
		FoundationalMul:  1.5,
		DecayAfterCycles: 3,
		DecayBoost:       0.05,
		RecencyWindow:    5,
		MinutesPerLevel:  90,
	}
}

type Ranked struct {
	Gap   gap.SkillGap
	Score float64
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.FoundationalMul <= 0 {
		cfg.FoundationalMul = 1
	}
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = 5
	}
	if cfg.MinutesPerLevel <= 0 {
		cfg.MinutesPerLevel = 90
	}
	return &Engine{cfg: cfg}
}

// Rank scores every gap and returns them ordered best-first, with Priority
// assigned as a dense rank (1 = highest) and Reasoning filled in. The
// ordering is fully deterministic: score, then larger gap size, then the
// earlier related goal in the user's stated order, then skill name.
// An empty gap list is a valid terminal state and yields an empty result.
//
// cyclesUnaddressed counts, per skill name, how many analysis cycles the
// gap has survived without a completion touching it; long-starved gaps get
// a small additive boost so they are not buried forever.
func (e *Engine) Rank(
	gaps []gap.SkillGap,
	uc usercontext.UserContext,
	adj preference.Adjustment,
	recent []progress.Record,
	cyclesUnaddressed map[string]int,
) []Ranked {
	out := make([]Ranked, 0, len(gaps))
	if len(gaps) == 0 {
		return out
	}

	window := recentWindow(recent, e.cfg.RecencyWindow)

	for _, g := range gaps {
		if g.GapSize() <= 0 {
			continue
		}
		score, reason := e.score(g, uc, adj, window, cyclesUnaddressed[g.SkillName])
		g.Reasoning = reason
		out = append(out, Ranked{Gap: g, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j], uc)
	})

	assignDenseRanks(out)
	return out
}

// Less orders ranked entries best-first using the engine's tie-break chain.
// Shared with the diversity filter so re-sorts stay consistent.
func Less(a, b Ranked, uc usercontext.UserContext) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Gap.GapSize() != b.Gap.GapSize() {
		return a.Gap.GapSize() > b.Gap.GapSize()
	}
	ai := firstGoalIndex(a.Gap, uc)
	bi := firstGoalIndex(b.Gap, uc)
	if ai != bi {
		return ai < bi
	}
	return a.Gap.SkillName < b.Gap.SkillName
}

func (e *Engine) score(
	g gap.SkillGap,
	uc usercontext.UserContext,
	adj preference.Adjustment,
	window []progress.Record,
	cycles int,
) (float64, string) {
	gapTerm := clampFloat(float64(g.GapSize())/10.0, 0, 1)
	goalTerm := goalRelevance(g, uc)
	timeTerm := e.timeFit(g, uc.TimeAvailabilityHoursPerWeek)
	recencyTerm := categoryFreshness(g, window)

	base := e.cfg.GapWeight*gapTerm +
		e.cfg.GoalWeight*goalTerm +
		e.cfg.TimeFitWeight*timeTerm +
		e.cfg.RecencyWeight*recencyTerm

	mul := 1.0
	if g.Foundational {
		mul = e.cfg.FoundationalMul
	}

	score := mul*base + adj.ForCategory(g.Category)

	if e.cfg.DecayAfterCycles > 0 && cycles > e.cfg.DecayAfterCycles {
		boost := e.cfg.DecayBoost * float64(cycles-e.cfg.DecayAfterCycles)
		score += clampFloat(boost, 0, 0.3)
	}

	return score, buildReasoning(g, uc, gapTerm, goalTerm)
}

func goalRelevance(g gap.SkillGap, uc usercontext.UserContext) float64 {
	if len(uc.RoleGoals) == 0 {
		return 0
	}
	related := 0
	for _, goal := range g.RelatedGoals {
		if uc.GoalIndex(goal) < len(uc.RoleGoals) {
			related++
		}
	}
	return clampFloat(float64(related)/float64(len(uc.RoleGoals)), 0, 1)
}

// timeFit is 1 when the estimated effort to close the gap fits inside one
// week of the user's budget, shrinking toward 0 as effort outgrows it.
func (e *Engine) timeFit(g gap.SkillGap, hoursPerWeek float64) float64 {
	est := float64(g.GapSize() * e.cfg.MinutesPerLevel)
	budget := hoursPerWeek * 60
	if est <= 0 {
		return 1
	}
	if budget <= 0 {
		return 0
	}
	if est <= budget {
		return 1
	}
	return clampFloat(budget/est, 0, 1)
}

// categoryFreshness favors categories absent from the recent window.
func categoryFreshness(g gap.SkillGap, window []progress.Record) float64 {
	if len(window) == 0 {
		return 1
	}
	count := 0
	for _, rec := range window {
		if strings.EqualFold(rec.SkillCategory, g.Category) {
			count++
		}
	}
	return 1 - clampFloat(float64(count)/float64(len(window)), 0, 1)
}

func firstGoalIndex(g gap.SkillGap, uc usercontext.UserContext) int {
	best := len(uc.RoleGoals)
	for _, goal := range g.RelatedGoals {
		if idx := uc.GoalIndex(goal); idx < best {
			best = idx
		}
	}
	return best
}

func buildReasoning(g gap.SkillGap, uc usercontext.UserContext, gapTerm, goalTerm float64) string {
	parts := make([]string, 0, 3)
	if g.Foundational {
		parts = append(parts, "foundational skill that unblocks others")
	}
	if gapTerm >= 0.4 {
		parts = append(parts, fmt.Sprintf("large gap (%d levels)", g.GapSize()))
	} else {
		parts = append(parts, fmt.Sprintf("gap of %d levels", g.GapSize()))
	}
	if goalTerm > 0 && len(g.RelatedGoals) > 0 {
		idx := firstGoalIndex(g, uc)
		if idx < len(uc.RoleGoals) {
			parts = append(parts, fmt.Sprintf("supports your goal %q", uc.RoleGoals[idx]))
		}
	}
	return strings.Join(parts, "; ")
}

func recentWindow(recent []progress.Record, n int) []progress.Record {
	if len(recent) <= n {
		return recent
	}
	return recent[len(recent)-n:]
}

func assignDenseRanks(out []Ranked) {
	rank := 0
	var prev float64
	for i := range out {
		if i == 0 || out[i].Score != prev {
			rank++
			prev = out[i].Score
		}
		out[i].Gap.Priority = rank
	}
}

func clampFloat(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
