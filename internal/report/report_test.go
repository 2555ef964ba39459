package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPDF(t *testing.T) {
	out, err := PDF(Document{
		Name:            "Zoë Müller",
		Email:           "zoe@example.com",
		TargetRole:      "Backend Developer",
		ExperienceLevel: "mid",
		GeneratedAt:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		OverallScore:    72,
		Summary:         "Solid backend profile.",
		Categories: []Category{
			{Name: "Programming & Frameworks", Score: 80, Feedback: "Strong Go.", Suggestions: []string{"Mention gRPC"}},
			{Name: "DevOps & Deployment", Score: 55, Feedback: "Little CI/CD."},
		},
		PresentKeywords: []string{"Go", "PostgreSQL"},
		MissingKeywords: []string{"Kafka"},
		TargetLevel:     "mid",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestInterpretationAndNextSteps(t *testing.T) {
	assert.Contains(t, Interpretation(90), "Excellent match")
	assert.Contains(t, Interpretation(70), "Good match")
	assert.Contains(t, Interpretation(50), "Moderate match")
	assert.Contains(t, Interpretation(49), "Additional work needed")

	assert.Equal(t, "Revise your resume structure to highlight relevant skills and experience", NextSteps(10)[0])
	assert.Equal(t, "Enhance descriptions of your most relevant projects", NextSteps(60)[0])
	assert.Equal(t, "Fine-tune your resume with the recommended keywords", NextSteps(70)[0])
}

func TestXLSX(t *testing.T) {
	score := 81
	done := time.Date(2025, 1, 2, 3, 5, 0, 0, time.UTC)
	out, err := XLSX([]Row{
		{AnalysisID: "a1", Name: "Jane", Email: "jane@example.com", TargetRole: "Backend Developer",
			ExperienceLevel: "senior", Status: "completed", OverallScore: &score,
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC), CompletedAt: &done},
		{AnalysisID: "a2", Name: "Joe", Status: "processing", CreatedAt: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"a1", "Jane", "jane@example.com", "Backend Developer", "senior", "completed", "81",
		"2025-01-02T03:04:00Z", "2025-01-02T03:05:00Z"}, rows[1])
	assert.Equal(t, "a2", rows[2][0])
	assert.Equal(t, "processing", rows[2][5])
	assert.Equal(t, "", rows[2][6])
}
