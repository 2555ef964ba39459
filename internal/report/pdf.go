// Package report renders analyses as downloadable documents.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// Category is one scored section of an analysis.
type Category struct {
	Name        string
	Score       int
	Feedback    string
	Suggestions []string
}

// Document is everything printed in an analysis report.
type Document struct {
	Name            string
	Email           string
	TargetRole      string
	ExperienceLevel string
	GeneratedAt     time.Time

	OverallScore int
	Summary      string
	Categories   []Category

	PresentKeywords     []string
	MissingKeywords     []string
	RecommendedKeywords []string

	CurrentLevel string
	TargetLevel  string
	GapAreas     []string
}

const (
	lineHeight  = 6.0
	headingSize = 14
	bodySize    = 10
)

// PDF renders doc as an A4 report.
func PDF(doc Document) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("render pdf report panic recover: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Resume Analysis Report", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Resume Analysis Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.CellFormat(0, lineHeight, "Generated on: "+doc.GeneratedAt.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	heading := func(text string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", headingSize)
		pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", bodySize)
	}
	subheading := func(text string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", bodySize)
	}
	paragraph := func(text string) {
		pdf.MultiCell(0, lineHeight, tr(text), "", "L", false)
	}
	bullets := func(items []string, empty string) {
		if len(items) == 0 {
			paragraph(empty)
			return
		}
		for _, item := range items {
			pdf.MultiCell(0, lineHeight, tr("• "+item), "", "L", false)
		}
	}

	heading("Candidate Information")
	for _, row := range [][2]string{
		{"Name", doc.Name},
		{"Email", doc.Email},
		{"Target Role", doc.TargetRole},
		{"Experience Level", capitalize(doc.ExperienceLevel)},
	} {
		pdf.SetFont("Helvetica", "B", bodySize)
		pdf.CellFormat(40, lineHeight+1, tr(row[0]+":"), "1", 0, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", bodySize)
		pdf.CellFormat(0, lineHeight+1, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	heading("Overall Assessment")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Score: %d/100", doc.OverallScore), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	paragraph("Assessment: " + Interpretation(doc.OverallScore))

	heading("Executive Summary")
	paragraph(doc.Summary)

	heading("Detailed Analysis")
	for _, c := range doc.Categories {
		subheading(fmt.Sprintf("%s - %d/100", c.Name, c.Score))
		paragraph(c.Feedback)
		if len(c.Suggestions) > 0 {
			paragraph("Suggestions for Improvement:")
			bullets(c.Suggestions, "")
		}
		pdf.Ln(2)
	}

	heading("Keyword Analysis")
	subheading("Keywords Present in Your Resume:")
	if len(doc.PresentKeywords) > 0 {
		paragraph(strings.Join(doc.PresentKeywords, ", "))
	} else {
		paragraph("No keywords detected.")
	}
	subheading("Important Keywords Missing from Your Resume:")
	bullets(doc.MissingKeywords, "No critical keywords missing.")
	subheading("Recommended Keywords to Add:")
	bullets(doc.RecommendedKeywords, "No additional keywords recommended.")

	heading("Skills Matrix Alignment")
	paragraph("Current Level: " + capitalize(orUnknown(doc.CurrentLevel)))
	paragraph("Target Level: " + capitalize(orUnknown(doc.TargetLevel)))
	subheading("Gap Areas to Address:")
	bullets(doc.GapAreas, "No significant gaps identified.")

	heading("Recommended Next Steps")
	bullets(NextSteps(doc.OverallScore), "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, lineHeight, "Powered by AI Resume Analyzer", "", 1, "C", false, 0, "")

	if pdf.Error() != nil {
		return nil, errors.Wrap(pdf.Error(), "render pdf report")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "write pdf report")
	}
	return buf.Bytes(), nil
}

// Interpretation describes what an overall score means for the applicant.
func Interpretation(score int) string {
	switch {
	case score >= 85:
		return "Excellent match for the role. Your resume demonstrates strong alignment with the requirements."
	case score >= 70:
		return "Good match for the role. Your resume shows good alignment with most key requirements."
	case score >= 50:
		return "Moderate match. There are some areas that could be improved to better align with the role."
	default:
		return "Additional work needed. Your resume needs significant improvements to align with the role requirements."
	}
}

// NextSteps suggests follow-up actions for a score band.
func NextSteps(score int) []string {
	switch {
	case score < 50:
		return []string{
			"Revise your resume structure to highlight relevant skills and experience",
			"Add missing keywords and technical skills",
			"Quantify your achievements with specific metrics",
			"Consider additional training or certification in gap areas",
			"Create a targeted cover letter that addresses your transition to this role",
		}
	case score < 70:
		return []string{
			"Enhance descriptions of your most relevant projects",
			"Add missing technical keywords",
			"Ensure achievements are quantified with metrics where possible",
			"Address the specific gap areas mentioned above",
			"Tailor your resume for each specific job application",
		}
	default:
		return []string{
			"Fine-tune your resume with the recommended keywords",
			"Highlight your most impressive achievements even more prominently",
			"Consider creating a portfolio to showcase relevant projects",
			"Prepare to discuss your experience in the gap areas during interviews",
			"Research target companies to customize your applications further",
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
