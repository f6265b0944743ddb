package constraint

import (
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
)

type TimeBucket string

const (
	BucketQuick  TimeBucket = "quick"
	BucketMedium TimeBucket = "medium"
	BucketLong   TimeBucket = "long"
)

const (
	quickMaxMinutes  = 60
	mediumMaxMinutes = 180

	// An action slightly over the weekly budget is flagged, not dropped.
	budgetSlackFactor = 1.2
)

func Bucket(minutes int) TimeBucket {
	switch {
	case minutes <= quickMaxMinutes:
		return BucketQuick
	case minutes <= mediumMaxMinutes:
		return BucketMedium
	default:
		return BucketLong
	}
}

func AllowedBuckets(hoursPerWeek float64) map[TimeBucket]bool {
	allowed := map[TimeBucket]bool{BucketQuick: true}
	if hoursPerWeek >= 2 {
		allowed[BucketMedium] = true
	}
	if hoursPerWeek >= 5 {
		allowed[BucketLong] = true
	}
	return allowed
}

// FilterTime applies the time-fit selection policy. Candidates in allowed
// buckets pass. A candidate in a disallowed bucket still passes, flagged,
// when it fits within the budget slack, or when dropping it would leave a
// top-priority gap with no candidate at all.
func FilterTime(cands []recommendation.Candidate, hoursPerWeek float64) []recommendation.Candidate {
	if len(cands) == 0 {
		return cands
	}

	allowed := AllowedBuckets(hoursPerWeek)
	slackMinutes := hoursPerWeek * 60 * budgetSlackFactor

	out := make([]recommendation.Candidate, 0, len(cands))
	dropped := make(map[string]recommendation.Candidate)
	kept := make(map[string]bool)

	for _, c := range cands {
		if allowed[Bucket(c.EstimatedTimeMinutes)] {
			out = append(out, c)
			kept[c.SkillGap.SkillName] = true
			continue
		}
		if slackMinutes > 0 && float64(c.EstimatedTimeMinutes) <= slackMinutes {
			c.ExceedsTimeBudget = true
			out = append(out, c)
			kept[c.SkillGap.SkillName] = true
			continue
		}
		prev, ok := dropped[c.SkillGap.SkillName]
		if !ok || c.EstimatedTimeMinutes < prev.EstimatedTimeMinutes {
			dropped[c.SkillGap.SkillName] = c
		}
	}

	topPriority := cands[0].SkillGap.Priority
	for _, c := range cands {
		if c.SkillGap.Priority < topPriority {
			topPriority = c.SkillGap.Priority
		}
	}

	// A top-priority gap must keep at least one candidate; resurrect the
	// shortest one flagged rather than silently starving the gap.
	for skill, c := range dropped {
		if kept[skill] || c.SkillGap.Priority != topPriority {
			continue
		}
		c.ExceedsTimeBudget = true
		out = append(out, c)
	}

	return out
}

// FilterExperience narrows candidates to the action types suited to the
// user's level. Order is preserved; this filter never reorders. When the
// cut would remove every candidate for a gap, that gap keeps its original
// candidates so experience fit never empties the pool on its own.
func FilterExperience(cands []recommendation.Candidate, level usercontext.ExperienceLevel) []recommendation.Candidate {
	allowed := AllowedActionTypes(level)

	perSkillTotal := make(map[string]int)
	perSkillKept := make(map[string]int)
	for _, c := range cands {
		perSkillTotal[c.SkillGap.SkillName]++
		if allowed[c.Action.Type] {
			perSkillKept[c.SkillGap.SkillName]++
		}
	}

	out := make([]recommendation.Candidate, 0, len(cands))
	for _, c := range cands {
		if allowed[c.Action.Type] || perSkillKept[c.SkillGap.SkillName] == 0 {
			out = append(out, c)
		}
	}
	return out
}

func AllowedActionTypes(level usercontext.ExperienceLevel) map[recommendation.ActionType]bool {
	switch level {
	case usercontext.LevelBeginner:
		return map[recommendation.ActionType]bool{
			recommendation.ActionTutorial: true,
			recommendation.ActionCourse:   true,
		}
	case usercontext.LevelAdvanced:
		return map[recommendation.ActionType]bool{
			recommendation.ActionDocumentation: true,
			recommendation.ActionArticle:       true,
			recommendation.ActionChallenge:     true,
		}
	default:
		return map[recommendation.ActionType]bool{
			recommendation.ActionTutorial:  true,
			recommendation.ActionArticle:   true,
			recommendation.ActionChallenge: true,
		}
	}
}
