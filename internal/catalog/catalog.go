package catalog

import (
	"log"
	"sort"
	"strings"
	"sync"

	"skill-coach/internal/domain/recommendation"
)

// Entry is one learning resource the assembler can attach to an action.
type Entry struct {
	Title            string
	URL              string
	Provider         string
	ActionType       recommendation.ActionType
	Category         string
	EstimatedMinutes int
}

// Catalog is an in-memory resource index keyed by skill category. Lookups
// fall back to uncategorized entries so the assembler always has something
// to offer. The harvester appends; the seed set ships built in.
type Catalog struct {
	mu     sync.RWMutex
	byKey  map[string][]Entry
	logger *log.Logger
}

func New(logger *log.Logger) *Catalog {
	c := &Catalog{
		byKey:  make(map[string][]Entry),
		logger: logger,
	}
	c.Add(seedEntries()...)
	return c
}

func (c *Catalog) Add(entries ...Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		key := normalizeKey(e.Category)
		c.byKey[key] = append(c.byKey[key], e)
	}
}

// Find returns the best entry for a category and action type, preferring
// category-specific entries over generic ones. Selection is deterministic:
// entries are considered in title order.
func (c *Catalog) Find(category string, t recommendation.ActionType) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := pick(c.byKey[normalizeKey(category)], t); ok {
		return e, true
	}
	return pick(c.byKey[""], t)
}

func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entries := range c.byKey {
		n += len(entries)
	}
	return n
}

func pick(entries []Entry, t recommendation.ActionType) (Entry, bool) {
	matches := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ActionType == t {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return Entry{}, false
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	return matches[0], true
}

func normalizeKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func seedEntries() []Entry {
	return []Entry{
		{Title: "A Tour of Go", URL: "https://go.dev/tour/", Provider: "go.dev", ActionType: recommendation.ActionTutorial, Category: "programming languages", EstimatedMinutes: 120},
		{Title: "Go by Example", URL: "https://gobyexample.com/", Provider: "gobyexample.com", ActionType: recommendation.ActionDocumentation, Category: "programming languages", EstimatedMinutes: 60},
		{Title: "Pro Git, Chapters 1-3", URL: "https://git-scm.com/book/en/v2", Provider: "git-scm.com", ActionType: recommendation.ActionTutorial, Category: "tools", EstimatedMinutes: 90},
		{Title: "SQLBolt Interactive Lessons", URL: "https://sqlbolt.com/", Provider: "sqlbolt.com", ActionType: recommendation.ActionTutorial, Category: "databases", EstimatedMinutes: 60},
		{Title: "Use The Index, Luke", URL: "https://use-the-index-luke.com/", Provider: "use-the-index-luke.com", ActionType: recommendation.ActionArticle, Category: "databases", EstimatedMinutes: 45},
		{Title: "Kubernetes Basics", URL: "https://kubernetes.io/docs/tutorials/kubernetes-basics/", Provider: "kubernetes.io", ActionType: recommendation.ActionTutorial, Category: "infrastructure", EstimatedMinutes: 150},
		{Title: "The Twelve-Factor App", URL: "https://12factor.net/", Provider: "12factor.net", ActionType: recommendation.ActionArticle, Category: "infrastructure", EstimatedMinutes: 40},
		{Title: "MDN Learn Web Development", URL: "https://developer.mozilla.org/en-US/docs/Learn", Provider: "developer.mozilla.org", ActionType: recommendation.ActionCourse, Category: "web", EstimatedMinutes: 240},
		{Title: "Exercism Practice Tracks", URL: "https://exercism.org/tracks", Provider: "exercism.org", ActionType: recommendation.ActionChallenge, Category: "", EstimatedMinutes: 45},
		{Title: "freeCodeCamp Curriculum", URL: "https://www.freecodecamp.org/learn/", Provider: "freecodecamp.org", ActionType: recommendation.ActionCourse, Category: "", EstimatedMinutes: 300},
		{Title: "roadmap.sh Developer Guides", URL: "https://roadmap.sh/", Provider: "roadmap.sh", ActionType: recommendation.ActionArticle, Category: "", EstimatedMinutes: 30},
		{Title: "Official Language References", URL: "https://devdocs.io/", Provider: "devdocs.io", ActionType: recommendation.ActionDocumentation, Category: "", EstimatedMinutes: 45},
		{Title: "Codewars Kata", URL: "https://www.codewars.com/", Provider: "codewars.com", ActionType: recommendation.ActionChallenge, Category: "programming languages", EstimatedMinutes: 30},
		{Title: "Interactive Tutorials on Scrimba", URL: "https://scrimba.com/", Provider: "scrimba.com", ActionType: recommendation.ActionTutorial, Category: "", EstimatedMinutes: 90},
	}
}
