package roles

import (
	"fmt"
	"strings"
	"time"

	"cv-analyzer/internal/resume"
)

// Analyzer grades one résumé against one profile at one level.
type Analyzer struct {
	Profile *Profile
	Level   string
	now     func() time.Time
}

// NewAnalyzer binds a profile to an experience level.
func NewAnalyzer(profile *Profile, level string) *Analyzer {
	return &Analyzer{Profile: profile, Level: level, now: time.Now}
}

// RoleTitle is the human readable title, e.g. "Backend Developer".
func (a *Analyzer) RoleTitle() string { return a.Profile.Title }

// Requirements returns the matrix row for the analyzer's level.
func (a *Analyzer) Requirements() Requirements {
	return a.Profile.Levels[a.Level]
}

// FormatRequirements renders the requirement row as prompt text.
func (a *Analyzer) FormatRequirements() string {
	req := a.Requirements()
	var b strings.Builder
	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(title + "\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	writeList(fmt.Sprintf("Core %s Skills Required:", a.Profile.Label), req.CoreSkills)
	writeList(fmt.Sprintf("Preferred %s Skills:", a.Profile.Label), req.PreferredSkills)
	writeList(fmt.Sprintf("%s Responsibilities:", a.Profile.Title), req.Responsibilities)
	return b.String()
}

// RoleTechnologies returns the technologies that belong to the profile.
func (a *Analyzer) RoleTechnologies(all []string) []string {
	return filterTechnologies(all, a.Profile.Technologies)
}

func filterTechnologies(all []string, set map[string]bool) []string {
	out := []string{}
	for _, tech := range all {
		if set[strings.ToLower(tech)] {
			out = append(out, tech)
		}
	}
	return out
}

// Identify lists the catalog entries evidenced by techs or raw text, in
// catalog order.
func Identify(catalog Catalog, techs []string, raw string) []string {
	raw = strings.ToLower(raw)
	found := []string{}
	for _, entry := range catalog.Entries {
		if mentions(entry.Keywords, techs, raw) {
			found = append(found, entry.Name)
		}
	}
	if len(found) == 0 && catalog.Generic != "" && mentions(catalog.GenericKeywords, nil, raw) {
		found = append(found, catalog.Generic)
	}
	return found
}

// Candidate summarizes the person behind the résumé.
type Candidate struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	YearsExperience float64 `json:"years_experience"`
	DetectedLevel   string  `json:"detected_level"`
}

// RoleInfo describes the position being analyzed for.
type RoleInfo struct {
	Title        string       `json:"title"`
	TargetLevel  string       `json:"target_level"`
	Requirements Requirements `json:"requirements"`
}

// Payload is the structured, role-specific view of a résumé that is stored
// alongside the analysis.
type Payload struct {
	Candidate          Candidate      `json:"candidate"`
	Role               RoleInfo       `json:"role"`
	SkillsAnalysis     map[string]any `json:"skills_analysis"`
	ExperienceAnalysis map[string]any `json:"experience_analysis"`
}

// Payload builds the analysis payload for data.
func (a *Analyzer) Payload(data resume.Data) Payload {
	years := YearsOfExperience(data.WorkExperience, a.now())
	all := ExtractTechnologies(data)
	own := a.RoleTechnologies(all)

	skills := map[string]any{
		a.Profile.Slug + "_technologies": own,
	}
	for _, rel := range a.Profile.Related {
		skills[rel.Key] = filterTechnologies(all, rel.Technologies)
	}

	experience := map[string]any{}
	for _, catalog := range a.Profile.Catalogs {
		found := Identify(catalog, all, data.RawText)
		skills[catalog.Key] = found
		if catalog.HasKey != "" {
			experience["has_"+catalog.HasKey+"_experience"] = len(found) > 0
		}
	}
	skills["missing_core_skills"] = MissingCoreSkills(a.Requirements().CoreSkills, own)

	raw := strings.ToLower(data.RawText)
	for _, signal := range a.Profile.Signals {
		experience["has_"+signal.Key+"_experience"] = containsAnySubstring(raw, signal.Keywords)
	}
	for _, group := range a.Profile.Experience {
		experience[group.Key+"_experience"] = ExtractExperience(data, group)
	}

	return Payload{
		Candidate: Candidate{
			Name:            data.ContactInfo.Name,
			Email:           data.ContactInfo.Email,
			YearsExperience: years,
			DetectedLevel:   EstimateLevel(years),
		},
		Role: RoleInfo{
			Title:        a.Profile.Title,
			TargetLevel:  a.Level,
			Requirements: a.Requirements(),
		},
		SkillsAnalysis:     skills,
		ExperienceAnalysis: experience,
	}
}
