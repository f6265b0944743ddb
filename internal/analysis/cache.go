package analysis

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/oracle"
)

type State string

const (
	StateFresh       State = "fresh"
	StateStale       State = "stale"
	StateInvalidated State = "invalidated"
	StateEmpty       State = "empty"
)

// Result is what callers score against. Stale is set when the oracle was
// unreachable and the last good payload is being served as a fallback.
type Result struct {
	Gaps              []gap.SkillGap
	Stale             bool
	AnalyzedAt        time.Time
	CyclesUnaddressed map[string]int
}

// SnapshotStore persists the last good payload across restarts. The redis
// wrapper satisfies it; a nil store disables snapshotting.
type SnapshotStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type snapshot struct {
	UserID     uuid.UUID       `json:"user_id"`
	Gaps       []gap.SkillGap  `json:"gaps"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
	Cycle      int             `json:"cycle"`
	Marks      map[string]mark `json:"marks"`
}

type mark struct {
	FirstSeen     int `json:"first_seen"`
	LastAddressed int `json:"last_addressed"`
	Completions   int `json:"completions"`
}

type entry struct {
	state      State
	gaps       []gap.SkillGap
	analyzedAt time.Time
	cycle      int
	marks      map[string]mark
}

// Cache memoizes the last skill-gap analysis per user and owns the
// Fresh/Stale/Invalidated transitions. Concurrent refreshes for one user
// collapse into a single oracle call.
type Cache struct {
	oracle    oracle.SkillGapOracle
	snapshots SnapshotStore
	ttl       time.Duration
	logger    *log.Logger

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	group   singleflight.Group
}

func NewCache(o oracle.SkillGapOracle, snapshots SnapshotStore, ttl time.Duration, logger *log.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		oracle:    o,
		snapshots: snapshots,
		ttl:       ttl,
		logger:    logger,
		entries:   make(map[uuid.UUID]*entry),
	}
}

// Get returns the current gap list for the user, refreshing through the
// oracle when the entry is stale or missing. On oracle failure with a
// previous good payload, that payload is served with Stale=true; with no
// payload at all the failure propagates.
func (c *Cache) Get(ctx context.Context, uc usercontext.UserContext, history []progress.Record) (Result, error) {
	userID := uc.UserID

	c.mu.Lock()
	e := c.entries[userID]
	if e != nil && e.state == StateFresh && time.Since(e.analyzedAt) > c.ttl {
		e.state = StateStale
		if c.logger != nil {
			c.logger.Printf("[Analysis] TTL expired, entry downgraded | user=%s age=%s", userID, time.Since(e.analyzedAt))
		}
	}
	if e != nil && e.state == StateFresh {
		res := c.resultLocked(e, false)
		c.mu.Unlock()
		return res, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(userID.String(), func() (any, error) {
		return c.refresh(ctx, uc, history)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// MarkStale downgrades a Fresh entry; context updates and progress writes
// call it so the next Get re-runs the oracle.
func (c *Cache) MarkStale(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[userID]
	if e == nil || e.state != StateFresh {
		return
	}
	e.state = StateStale
}

// Reset is the explicit invalidation: the payload is dropped, so until the
// next successful oracle call there is no fallback to serve.
func (c *Cache) Reset(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[userID]
	if e == nil {
		c.entries[userID] = &entry{state: StateInvalidated, marks: make(map[string]mark)}
		return
	}
	e.state = StateInvalidated
	e.gaps = nil
}

func (c *Cache) StateFor(userID uuid.UUID) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[userID]
	if e == nil {
		return StateEmpty
	}
	if e.state == StateFresh && time.Since(e.analyzedAt) > c.ttl {
		return StateStale
	}
	return e.state
}

// SweepExpired downgrades every Fresh entry past its TTL and reports how
// many it touched. The cron sweeper calls this so idle users transition
// without waiting for traffic.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.state == StateFresh && time.Since(e.analyzedAt) > c.ttl {
			e.state = StateStale
			n++
		}
	}
	return n
}

// Users lists every user with a cached entry, whatever its state.
func (c *Cache) Users() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uuid.UUID, 0, len(c.entries))
	for id := range c.entries {
		out = append(out, id)
	}
	return out
}

func (c *Cache) refresh(ctx context.Context, uc usercontext.UserContext, history []progress.Record) (Result, error) {
	skills, err := c.oracle.Infer(ctx, uc)
	if err != nil {
		return c.fallback(ctx, uc.UserID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[uc.UserID]
	if e == nil {
		e = &entry{marks: make(map[string]mark)}
		c.entries[uc.UserID] = e
	}
	e.cycle++
	e.analyzedAt = time.Now().UTC()
	e.state = StateFresh
	e.gaps = normalize(skills, uc, history, e.analyzedAt)
	updateMarks(e, history)

	c.persistLocked(ctx, uc.UserID, e)

	if c.logger != nil {
		c.logger.Printf("[Analysis] refreshed | user=%s gaps=%d cycle=%d", uc.UserID, len(e.gaps), e.cycle)
	}
	return c.resultLocked(e, false), nil
}

func (c *Cache) fallback(ctx context.Context, userID uuid.UUID, cause error) (Result, error) {
	c.mu.Lock()
	e := c.entries[userID]
	invalidated := e != nil && e.state == StateInvalidated
	if invalidated {
		// Explicit reset dropped the payload; a snapshot restore would
		// resurrect exactly the data the reset discarded.
		e = nil
	}
	if e == nil || len(e.gaps) == 0 {
		c.mu.Unlock()
		if snap, ok := c.loadSnapshot(ctx, userID); ok && !invalidated {
			c.mu.Lock()
			restored := &entry{
				state:      StateStale,
				gaps:       snap.Gaps,
				analyzedAt: snap.AnalyzedAt,
				cycle:      snap.Cycle,
				marks:      snap.Marks,
			}
			if restored.marks == nil {
				restored.marks = make(map[string]mark)
			}
			c.entries[userID] = restored
			res := c.resultLocked(restored, true)
			c.mu.Unlock()
			return res, nil
		}
		return Result{}, fmt.Errorf("no cached analysis for user %s: %w", userID, cause)
	}
	e.state = StateStale
	res := c.resultLocked(e, true)
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.Printf("[Analysis] oracle failed, serving stale payload | user=%s err=%v", userID, cause)
	}
	return res, nil
}

func (c *Cache) resultLocked(e *entry, stale bool) Result {
	gaps := make([]gap.SkillGap, len(e.gaps))
	copy(gaps, e.gaps)

	cycles := make(map[string]int, len(e.gaps))
	for _, g := range e.gaps {
		if m, ok := e.marks[strings.ToLower(g.SkillName)]; ok {
			cycles[g.SkillName] = e.cycle - m.LastAddressed
		}
	}
	return Result{Gaps: gaps, Stale: stale, AnalyzedAt: e.analyzedAt, CyclesUnaddressed: cycles}
}

func (c *Cache) persistLocked(ctx context.Context, userID uuid.UUID, e *entry) {
	if c.snapshots == nil {
		return
	}
	snap := snapshot{
		UserID:     userID,
		Gaps:       e.gaps,
		AnalyzedAt: e.analyzedAt,
		Cycle:      e.cycle,
		Marks:      e.marks,
	}
	if err := c.snapshots.SetJSON(ctx, snapshotKey(userID), snap, 0); err != nil && c.logger != nil {
		c.logger.Printf("[Analysis] snapshot persist failed | user=%s err=%v", userID, err)
	}
}

func (c *Cache) loadSnapshot(ctx context.Context, userID uuid.UUID) (snapshot, bool) {
	if c.snapshots == nil {
		return snapshot{}, false
	}
	var snap snapshot
	found, err := c.snapshots.GetJSON(ctx, snapshotKey(userID), &snap)
	if err != nil || !found || len(snap.Gaps) == 0 {
		return snapshot{}, false
	}
	return snap, true
}

func snapshotKey(userID uuid.UUID) string {
	return "analysis:" + userID.String()
}

// normalize turns raw oracle output into scored-ready gaps: current levels
// come from the experience baseline plus one level per completed action on
// the skill, closed gaps are dropped, and related goals are matched from
// the user's stated goal list.
func normalize(skills []oracle.RequiredSkill, uc usercontext.UserContext, history []progress.Record, analyzedAt time.Time) []gap.SkillGap {
	completions := make(map[string]int)
	for _, rec := range history {
		completions[strings.ToLower(rec.SkillName)]++
	}

	base := baselineLevel(uc.ExperienceLevel)
	out := make([]gap.SkillGap, 0, len(skills))
	seen := make(map[string]bool, len(skills))

	for _, s := range skills {
		key := strings.ToLower(s.SkillName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		current := base + completions[key]
		if current > s.TargetLevel {
			current = s.TargetLevel
		}
		g := gap.SkillGap{
			SkillName:    s.SkillName,
			Category:     s.Category,
			CurrentLevel: current,
			TargetLevel:  s.TargetLevel,
			RelatedGoals: relateGoals(s, uc.RoleGoals),
			Foundational: s.Foundational,
			AnalyzedAt:   analyzedAt,
		}
		if g.GapSize() <= 0 {
			continue
		}
		out = append(out, g)
	}
	return out
}

func baselineLevel(level usercontext.ExperienceLevel) int {
	switch level {
	case usercontext.LevelIntermediate:
		return 3
	case usercontext.LevelAdvanced:
		return 5
	default:
		return 1
	}
}

// relateGoals picks the user goals a skill plausibly serves by token
// overlap, falling back to the first stated goal so the set is never empty.
func relateGoals(s oracle.RequiredSkill, goals []string) []string {
	if len(goals) == 0 {
		return nil
	}
	var related []string
	haystack := strings.ToLower(s.SkillName + " " + s.Category)
	for _, goal := range goals {
		for _, tok := range strings.Fields(strings.ToLower(goal)) {
			if len(tok) >= 3 && strings.Contains(haystack, tok) {
				related = append(related, goal)
				break
			}
		}
	}
	if len(related) == 0 {
		related = []string{goals[0]}
	}
	return related
}

func updateMarks(e *entry, history []progress.Record) {
	counts := make(map[string]int)
	for _, rec := range history {
		counts[strings.ToLower(rec.SkillName)]++
	}
	for _, g := range e.gaps {
		key := strings.ToLower(g.SkillName)
		m, ok := e.marks[key]
		if !ok {
			e.marks[key] = mark{FirstSeen: e.cycle, LastAddressed: e.cycle, Completions: counts[key]}
			continue
		}
		if counts[key] > m.Completions {
			m.LastAddressed = e.cycle
			m.Completions = counts[key]
		}
		e.marks[key] = m
	}
}
