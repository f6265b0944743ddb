package recommendation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionTutorial      ActionType = "tutorial"
	ActionCourse        ActionType = "course"
	ActionArticle       ActionType = "article"
	ActionDocumentation ActionType = "documentation"
	ActionChallenge     ActionType = "challenge"
)

type Resource struct {
	Title    string
	URL      string
	Provider string
}

type Action struct {
	Type        ActionType
	Title       string
	Description string
	Resource    *Resource
}

type Explanation struct {
	Why        string
	HowItHelps string
	NextSteps  string
}

// Recommendation is immutable once assembled. Later generations supersede
// earlier ones; nothing is edited in place.
type Recommendation struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Action               Action
	Explanation          Explanation
	ExplanationDegraded  bool
	Priority             int
	EstimatedTimeMinutes int
	ExceedsTimeBudget    bool
	SkillGapsAddressed   []string
	SkillCategory        string
	CreatedAt            time.Time
}

// Fingerprint identifies an action+skill pairing across generations so a
// completed action never resurfaces, even under a new recommendation id.
func Fingerprint(actionType ActionType, skillName string) string {
	return string(actionType) + ":" + strings.ToLower(strings.TrimSpace(skillName))
}

func (r Recommendation) Fingerprint() string {
	primary := ""
	if len(r.SkillGapsAddressed) > 0 {
		primary = r.SkillGapsAddressed[0]
	}
	return Fingerprint(r.Action.Type, primary)
}
