package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Category is one scored area of the feedback.
type Category struct {
	Name        string   `json:"name"`
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

type KeywordAnalysis struct {
	Present     []string `json:"present"`
	Missing     []string `json:"missing"`
	Recommended []string `json:"recommended"`
}

type MatrixAlignment struct {
	CurrentLevel string   `json:"current_level"`
	TargetLevel  string   `json:"target_level"`
	GapAreas     []string `json:"gap_areas"`
}

// Feedback is the evaluation returned to the applicant.
type Feedback struct {
	OverallScore    int             `json:"overall_score"`
	Categories      []Category      `json:"categories"`
	KeywordAnalysis KeywordAnalysis `json:"keyword_analysis"`
	MatrixAlignment MatrixAlignment `json:"matrix_alignment"`
	Summary         string          `json:"summary"`
}

// modelFeedback mirrors Feedback with loose score types; models sometimes
// answer 72.5 or "72".
type modelFeedback struct {
	OverallScore *looseNumber `json:"overall_score"`
	Categories   []struct {
		Name        string      `json:"name"`
		Score       looseNumber `json:"score"`
		Feedback    string      `json:"feedback"`
		Suggestions []string    `json:"suggestions"`
	} `json:"categories"`
	KeywordAnalysis KeywordAnalysis `json:"keyword_analysis"`
	MatrixAlignment MatrixAlignment `json:"matrix_alignment"`
	Summary         string          `json:"summary"`
}

type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return fmt.Errorf("score %s is not a number", string(b))
	}
	*n = looseNumber(f)
	return nil
}

var errMissingScore = errors.New("model response has no overall_score")

// parseFeedback decodes a model response and normalizes it. targetLevel
// fills matrix_alignment.target_level when the model left it out.
func parseFeedback(raw json.RawMessage, targetLevel string) (Feedback, error) {
	var m modelFeedback
	if err := json.Unmarshal(raw, &m); err != nil {
		return Feedback{}, fmt.Errorf("decode model response: %w", err)
	}
	if m.OverallScore == nil {
		return Feedback{}, errMissingScore
	}
	f := Feedback{
		OverallScore:    clampScore(float64(*m.OverallScore)),
		Categories:      make([]Category, 0, len(m.Categories)),
		KeywordAnalysis: m.KeywordAnalysis,
		MatrixAlignment: m.MatrixAlignment,
		Summary:         strings.TrimSpace(m.Summary),
	}
	for _, c := range m.Categories {
		f.Categories = append(f.Categories, Category{
			Name:        strings.TrimSpace(c.Name),
			Score:       clampScore(float64(c.Score)),
			Feedback:    strings.TrimSpace(c.Feedback),
			Suggestions: c.Suggestions,
		})
	}
	f.normalize(targetLevel)
	return f, nil
}

func (f *Feedback) normalize(targetLevel string) {
	for i := range f.Categories {
		f.Categories[i].Suggestions = nonNil(f.Categories[i].Suggestions)
	}
	if f.Categories == nil {
		f.Categories = []Category{}
	}
	f.KeywordAnalysis.Present = nonNil(f.KeywordAnalysis.Present)
	f.KeywordAnalysis.Missing = nonNil(f.KeywordAnalysis.Missing)
	f.KeywordAnalysis.Recommended = nonNil(f.KeywordAnalysis.Recommended)
	f.MatrixAlignment.GapAreas = nonNil(f.MatrixAlignment.GapAreas)
	if strings.TrimSpace(f.MatrixAlignment.TargetLevel) == "" {
		f.MatrixAlignment.TargetLevel = targetLevel
	}
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

const fallbackFeedbackText = "Unable to perform detailed analysis. Please review the CV manually."

// fallbackFeedback is stored when the model could not produce a usable answer.
func fallbackFeedback(targetRole, experienceLevel string) Feedback {
	return Feedback{
		OverallScore: 50,
		Categories: []Category{
			{
				Name:        "Technical Skills",
				Score:       50,
				Feedback:    fallbackFeedbackText,
				Suggestions: []string{"Ensure skills match the core requirements for the role."},
			},
			{
				Name:        "Experience",
				Score:       50,
				Feedback:    fallbackFeedbackText,
				Suggestions: []string{"Focus on relevant experience for the target role."},
			},
			{
				Name:        "Overall Presentation",
				Score:       50,
				Feedback:    fallbackFeedbackText,
				Suggestions: []string{"Ensure the CV is well-structured and tailored to the role."},
			},
		},
		KeywordAnalysis: KeywordAnalysis{
			Present:     []string{},
			Missing:     []string{},
			Recommended: []string{"Review manually to identify relevant keywords."},
		},
		MatrixAlignment: MatrixAlignment{
			CurrentLevel: "unknown",
			TargetLevel:  experienceLevel,
			GapAreas:     []string{"Unable to determine gaps automatically."},
		},
		Summary: fmt.Sprintf("Automatic analysis failed. Please review the CV manually against the requirements for a %s position at %s level.", targetRole, experienceLevel),
	}
}

// toMap converts v into plain JSON values so every repository stores and
// returns the same shapes.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// feedbackFromResults reads the feedback part of stored results.
func feedbackFromResults(results map[string]any) (Feedback, error) {
	b, err := json.Marshal(results)
	if err != nil {
		return Feedback{}, err
	}
	var f Feedback
	if err := json.Unmarshal(b, &f); err != nil {
		return Feedback{}, err
	}
	f.normalize("")
	return f, nil
}
