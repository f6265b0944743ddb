package postgres

import (
	"testing"
	"time"

	"skill-coach/internal/domain/progress"
)

func TestReverseRecordsRestoresChronologicalOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Newest-first, as the statement returns them.
	recs := []progress.Record{
		{SkillName: "Go", CompletedAt: base.Add(3 * time.Hour)},
		{SkillName: "SQL", CompletedAt: base.Add(2 * time.Hour)},
		{SkillName: "Git", CompletedAt: base.Add(1 * time.Hour)},
	}

	reverseRecords(recs)

	for i := 1; i < len(recs); i++ {
		if recs[i].CompletedAt.Before(recs[i-1].CompletedAt) {
			t.Fatalf("records not chronological at %d: %v before %v", i, recs[i].CompletedAt, recs[i-1].CompletedAt)
		}
	}
	if recs[len(recs)-1].SkillName != "Go" {
		t.Fatalf("newest record must be last, got %s", recs[len(recs)-1].SkillName)
	}
}

func TestQueryLimitArg(t *testing.T) {
	if got := queryLimitArg(0); got != nil {
		t.Fatalf("limit 0 must mean no limit, got %v", got)
	}
	if got := queryLimitArg(-5); got != nil {
		t.Fatalf("negative limit must mean no limit, got %v", got)
	}
	if got := queryLimitArg(20); got != 20 {
		t.Fatalf("positive limit must pass through, got %v", got)
	}
}
