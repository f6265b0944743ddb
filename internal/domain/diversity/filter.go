package diversity

import (
	"sort"

	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/recommendation"
)

type Config struct {
	// Window is how many trailing progress records count toward
	// over-representation.
	Window int
	// Penalty is the per-occurrence multiplicative down-weight.
	Penalty float64
	// StreakEscalation grows the penalty per completion once a type has
	// been completed three or more times in a row.
	StreakEscalation float64
}

func DefaultConfig() Config {
	return Config{Window: 5, Penalty: 0.2, StreakEscalation: 0.15}
}

const streakThreshold = 3

// Apply re-weights candidates against the user's recent action-type mix
// and re-sorts best-first. Each occurrence of a candidate's action type in
// the window multiplies its score by (1 - penalty); a streak of three or
// more consecutive completions of that type escalates the penalty so the
// type's share in the next batch drops measurably, not incidentally.
func Apply(cands []recommendation.Candidate, history []progress.Record, cfg Config) []recommendation.Candidate {
	if len(cands) == 0 {
		return cands
	}
	if cfg.Window <= 0 {
		cfg.Window = 5
	}

	window := history
	if len(window) > cfg.Window {
		window = window[len(window)-cfg.Window:]
	}

	counts := make(map[recommendation.ActionType]int, len(window))
	for _, rec := range window {
		counts[rec.ActionType]++
	}

	streakType, streakLen := tailStreak(history)

	out := make([]recommendation.Candidate, len(cands))
	copy(out, cands)

	for i := range out {
		t := out[i].Action.Type
		count := counts[t]
		if count == 0 {
			continue
		}
		penalty := cfg.Penalty
		if t == streakType && streakLen >= streakThreshold {
			penalty += cfg.StreakEscalation * float64(streakLen-streakThreshold+1)
		}
		factor := 1 - penalty*float64(count)
		if factor < 0 {
			factor = 0
		}
		// Attenuation only pulls positive scores toward zero. A negative
		// score already ranks below every untouched candidate; shrinking
		// its magnitude would lift it instead.
		if out[i].Score > 0 {
			out[i].Score *= factor
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].SkillGap.GapSize() != out[j].SkillGap.GapSize() {
			return out[i].SkillGap.GapSize() > out[j].SkillGap.GapSize()
		}
		return out[i].SkillGap.SkillName < out[j].SkillGap.SkillName
	})

	return out
}

// tailStreak reports the action type of the trailing run of identical
// completions and its length. History must be chronological.
func tailStreak(history []progress.Record) (recommendation.ActionType, int) {
	if len(history) == 0 {
		return "", 0
	}
	last := history[len(history)-1].ActionType
	n := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ActionType != last {
			break
		}
		n++
	}
	return last, n
}
