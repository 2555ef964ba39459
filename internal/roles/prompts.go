package roles

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"cv-analyzer/internal/resume"
)

// maxPromptRawText caps how much raw résumé text is sent to the model.
const maxPromptRawText = 2000

var (
	//go:embed prompts/system.tmpl
	systemPromptText string
	//go:embed prompts/user.tmpl
	userPromptText string

	promptFuncs = template.FuncMap{
		"inc":   func(i int) int { return i + 1 },
		"join":  strings.Join,
		"lower": strings.ToLower,
	}

	systemPrompt = template.Must(template.New("system").Funcs(promptFuncs).Parse(systemPromptText))
	userPrompt   = template.Must(template.New("user").Funcs(promptFuncs).Parse(userPromptText))
)

type systemPromptData struct {
	*Profile
	Level string
}

type experienceSection struct {
	Label string
	Text  string
}

type userPromptData struct {
	Title          string
	Label          string
	Level          string
	Closing        string
	Name           string
	Years          float64
	Technologies   []string
	Requirements   string
	Skills         string
	WorkExperience string
	Education      string
	Experience     []experienceSection
	RawText        string
}

// SystemPrompt renders the instructions and response format for the model.
func (a *Analyzer) SystemPrompt() (string, error) {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, systemPromptData{Profile: a.Profile, Level: a.Level}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UserPrompt renders the candidate-specific prompt for data.
func (a *Analyzer) UserPrompt(data resume.Data) (string, error) {
	sections := make([]experienceSection, 0, len(a.Profile.Experience))
	for _, group := range a.Profile.Experience {
		sections = append(sections, experienceSection{Label: group.Label, Text: ExtractExperience(data, group)})
	}
	in := userPromptData{
		Title:          a.Profile.Title,
		Label:          a.Profile.Label,
		Level:          a.Level,
		Closing:        a.Profile.Closing,
		Name:           data.ContactInfo.Name,
		Years:          YearsOfExperience(data.WorkExperience, a.now()),
		Technologies:   a.RoleTechnologies(ExtractTechnologies(data)),
		Requirements:   a.FormatRequirements(),
		Skills:         FormatSkills(data.Skills),
		WorkExperience: FormatWorkExperience(data.WorkExperience),
		Education:      FormatEducation(data.Education),
		Experience:     sections,
		RawText:        truncateRunes(data.RawText, maxPromptRawText),
	}
	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
