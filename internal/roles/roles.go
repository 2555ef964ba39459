// Package roles grades résumés against per-role competency matrices and
// builds the prompts sent to the language model.
package roles

import (
	"strings"

	"cv-analyzer/internal/shared/telemetry"
)

const (
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

// Requirements is one row of a competency matrix.
type Requirements struct {
	CoreSkills       []string `json:"core_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	Responsibilities []string `json:"responsibilities"`
}

// Category is a scored section of the analysis. Focus completes the phrase
// "specific feedback on ..." in the response format shown to the model.
type Category struct {
	Name  string
	Focus string
}

// CatalogEntry names a tool or platform and the phrases that reveal it.
type CatalogEntry struct {
	Name     string
	Keywords []string
}

// Catalog groups related entries, e.g. all CI/CD tools. When HasKey is set
// the payload gains has_<HasKey>_experience. Generic is reported when no
// entry matched but one of GenericKeywords appears in the raw text.
type Catalog struct {
	Key             string
	HasKey          string
	Entries         []CatalogEntry
	Generic         string
	GenericKeywords []string
}

// ExperienceGroup extracts narrative evidence for a theme such as cloud work.
// Noun names the theme in the "nothing found" sentence.
type ExperienceGroup struct {
	Key      string
	Label    string
	Noun     string
	Keywords []string
}

// Signal is a yes/no raw-text check reported as has_<Key>_experience.
type Signal struct {
	Key      string
	Keywords []string
}

// Guidance tells the model what to weigh at each level.
type Guidance struct {
	Junior string
	Mid    string
	Senior string
}

// Profile describes everything role-specific about an analysis.
type Profile struct {
	Title           string
	Slug            string
	Label           string
	Expertise       string
	Discipline      string
	Closing         string
	EvaluationAreas []string
	Guidance        Guidance
	Categories      []Category
	Levels          map[string]Requirements
	Technologies    map[string]bool
	Related         []RelatedTechnologies
	Catalogs        []Catalog
	Experience      []ExperienceGroup
	Signals         []Signal
}

// RelatedTechnologies lists technologies outside the role's own set that are
// still worth reporting, such as frontend skills for a backend candidate.
type RelatedTechnologies struct {
	Key          string
	Technologies map[string]bool
}

// NormalizeLevel maps free-text experience levels onto junior, mid or senior.
// Unknown values become mid.
func NormalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "junior", "entry", "beginner", "associate":
		return LevelJunior
	case "mid", "middle", "intermediate":
		return LevelMid
	case "senior", "lead", "expert", "principal":
		return LevelSenior
	default:
		telemetry.Warn("roles.unknown_level", map[string]any{"experience_level": level, "normalized": LevelMid})
		return LevelMid
	}
}

// ProfileFor picks the profile whose keywords appear in role. Unknown roles
// are analyzed as backend roles.
func ProfileFor(role string) *Profile {
	lower := strings.ToLower(strings.TrimSpace(role))
	switch {
	case containsAny(lower, "frontend", "ui", "front-end"):
		return &frontendProfile
	case containsAny(lower, "backend", "api", "back-end"):
		return &backendProfile
	case containsAny(lower, "devops", "sre", "platform"):
		return &devopsProfile
	default:
		telemetry.Warn("roles.unknown_role", map[string]any{"target_role": role, "selected": backendProfile.Title})
		return &backendProfile
	}
}

// Select returns an analyzer for the submitted role and level.
func Select(role, level string) *Analyzer {
	return NewAnalyzer(ProfileFor(role), NormalizeLevel(level))
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
