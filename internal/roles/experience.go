package roles

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cv-analyzer/internal/resume"
)

var (
	yearPattern     = regexp.MustCompile(`(\d{4})`)
	monthPattern    = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// FormatSkills joins extracted skill names with commas.
func FormatSkills(skills []resume.Skill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return strings.Join(names, ", ")
}

// FormatWorkExperience renders positions in the layout the prompt expects.
func FormatWorkExperience(experiences []resume.WorkExperience) string {
	if len(experiences) == 0 {
		return "No work experience data available."
	}
	var b strings.Builder
	for i, exp := range experiences {
		end := exp.EndDate
		if end == "" {
			end = "Present"
		}
		fmt.Fprintf(&b, "Position %d: %s at %s\n", i+1, exp.JobTitle, exp.Company)
		fmt.Fprintf(&b, "Duration: %s to %s\n\n", exp.StartDate, end)
		if exp.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n\n", exp.Description)
		}
		if len(exp.Responsibilities) > 0 {
			b.WriteString("Responsibilities:\n")
			for _, r := range exp.Responsibilities {
				fmt.Fprintf(&b, "- %s\n", r)
			}
		}
		b.WriteString("\n" + strings.Repeat("-", 40) + "\n\n")
	}
	return b.String()
}

// FormatEducation renders education entries for the prompt.
func FormatEducation(education []resume.Education) string {
	if len(education) == 0 {
		return "No education data available."
	}
	var b strings.Builder
	for i, edu := range education {
		fmt.Fprintf(&b, "Education %d: %s in %s\n", i+1, edu.Degree, edu.FieldOfStudy)
		fmt.Fprintf(&b, "Institution: %s\n", edu.Institution)
		if edu.StartDate != "" || edu.EndDate != "" {
			fmt.Fprintf(&b, "Duration: %s to %s\n", edu.StartDate, edu.EndDate)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// YearsOfExperience sums the month spans of all positions with a parsable
// start and end year. Missing or "present" end dates run until now. Months
// default to January for starts and December for ends.
func YearsOfExperience(experiences []resume.WorkExperience, now time.Time) float64 {
	total := 0
	for _, exp := range experiences {
		startYear, ok := parseYear(exp.StartDate)
		if !ok {
			continue
		}
		startMonth := parseMonth(exp.StartDate, 1)

		var endYear, endMonth int
		end := strings.TrimSpace(exp.EndDate)
		if end == "" || strings.EqualFold(end, "present") || strings.EqualFold(end, "current") {
			endYear, endMonth = now.Year(), int(now.Month())
		} else {
			endYear, ok = parseYear(end)
			if !ok {
				continue
			}
			endMonth = parseMonth(end, 12)
		}

		months := (endYear-startYear)*12 + (endMonth - startMonth)
		if months > 0 {
			total += months
		}
	}
	return math.Round(float64(total)/12*10) / 10
}

// EstimateLevel maps years of experience to a level.
func EstimateLevel(years float64) string {
	switch {
	case years < 2:
		return LevelJunior
	case years < 5:
		return LevelMid
	default:
		return LevelSenior
	}
}

func parseYear(s string) (int, bool) {
	m := yearPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	return year, err == nil
}

func parseMonth(s string, def int) int {
	m := monthPattern.FindStringSubmatch(s)
	if m == nil {
		return def
	}
	return monthNumbers[strings.ToLower(m[1])]
}

// MissingCoreSkills lists core skills not matched by any technology.
func MissingCoreSkills(core []string, techs []string) []string {
	missing := []string{}
	for _, skill := range core {
		matched := false
		for _, tech := range techs {
			if skillMatch(skill, tech) {
				matched = true
				break
			}
		}
		if !matched {
			missing = append(missing, skill)
		}
	}
	return missing
}

// skillMatch compares loosely in both directions. Compound skills such as
// "Linux/Unix" match on any part.
func skillMatch(skill, tech string) bool {
	skill = strings.ToLower(skill)
	tech = strings.ToLower(tech)
	if tech == "" {
		return false
	}
	if strings.Contains(skill, "/") {
		for _, part := range strings.Split(skill, "/") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.Contains(tech, part) || strings.Contains(part, tech) {
				return true
			}
		}
		return false
	}
	return strings.Contains(tech, skill) || strings.Contains(skill, tech)
}

// ExtractExperience collects the parts of a résumé that talk about a theme:
// matching job descriptions and responsibilities first, then matching
// sentences of the raw text.
func ExtractExperience(data resume.Data, group ExperienceGroup) string {
	var b strings.Builder
	for _, exp := range data.WorkExperience {
		if containsAnySubstring(strings.ToLower(exp.Description), group.Keywords) {
			fmt.Fprintf(&b, "At %s: %s\n\n", exp.Company, exp.Description)
		}
		for _, r := range exp.Responsibilities {
			if containsAnySubstring(strings.ToLower(r), group.Keywords) {
				fmt.Fprintf(&b, "At %s: %s\n", exp.Company, r)
			}
		}
	}
	if b.Len() == 0 {
		for _, sentence := range sentencePattern.Split(strings.ToLower(data.RawText), -1) {
			if containsAnySubstring(sentence, group.Keywords) {
				b.WriteString(strings.TrimSpace(sentence) + ".\n")
			}
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No specific %s experience identified.", group.Noun)
	}
	return b.String()
}
