package docintel

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"cv-analyzer/internal/resume"
)

// Parse converts a succeeded analyze operation into résumé data. Without a
// recognized document only the text and sections are kept.
func Parse(body []byte, modelID string, now time.Time) resume.Data {
	result := gjson.GetBytes(body, "analyzeResult")
	doc := result.Get("documents.0")

	if !doc.Exists() {
		d := resume.New(resume.MethodFallback, now)
		d.RawText = rawText(result)
		d.Sections = resume.DetectSections(paragraphs(result))
		return d
	}

	d := resume.New(resume.MethodDocumentIntelligence, now)
	d.Metadata.ModelID = modelID
	d.Metadata.Confidence = doc.Get("confidence").Float()

	fields := doc.Get("fields")
	contact := fields.Get("contactInfo.valueObject")
	d.ContactInfo = resume.ContactInfo{
		Name:     content(contact, "name"),
		Email:    content(contact, "email"),
		Phone:    content(contact, "phone"),
		LinkedIn: content(contact, "linkedIn"),
		Location: content(contact, "location"),
	}

	fields.Get("skills.valueArray").ForEach(func(_, skill gjson.Result) bool {
		d.Skills = append(d.Skills, resume.Skill{
			Name:       skill.Get("valueObject.name.content").String(),
			Confidence: skill.Get("confidence").Float(),
		})
		return true
	})

	fields.Get("workExperiences.valueArray").ForEach(func(_, item gjson.Result) bool {
		exp := item.Get("valueObject")
		responsibilities := []string{}
		exp.Get("jobResponsibilities.valueArray").ForEach(func(_, r gjson.Result) bool {
			responsibilities = append(responsibilities, r.Get("content").String())
			return true
		})
		d.WorkExperience = append(d.WorkExperience, resume.WorkExperience{
			Company:          content(exp, "company"),
			JobTitle:         content(exp, "jobTitle"),
			Location:         content(exp, "location"),
			StartDate:        content(exp, "startDate"),
			EndDate:          content(exp, "endDate"),
			Description:      content(exp, "jobDescription"),
			Responsibilities: responsibilities,
		})
		return true
	})

	fields.Get("educationDetails.valueArray").ForEach(func(_, item gjson.Result) bool {
		edu := item.Get("valueObject")
		d.Education = append(d.Education, resume.Education{
			Institution:  content(edu, "institution"),
			Degree:       content(edu, "degree"),
			FieldOfStudy: content(edu, "fieldOfStudy"),
			StartDate:    content(edu, "startDate"),
			EndDate:      content(edu, "endDate"),
			GPA:          content(edu, "gpa"),
		})
		return true
	})

	d.RawText = rawText(result)
	d.Sections = resume.DetectSections(paragraphs(result))
	return d
}

func content(obj gjson.Result, field string) string {
	return obj.Get(field + ".content").String()
}

// rawText prefers page content, then page lines, then the top-level content.
func rawText(result gjson.Result) string {
	var pages []string
	result.Get("pages").ForEach(func(_, page gjson.Result) bool {
		if c := page.Get("content").String(); c != "" {
			pages = append(pages, c)
		}
		return true
	})
	if len(pages) > 0 {
		return strings.TrimSpace(strings.Join(pages, "\n\n"))
	}

	var lines []string
	result.Get("pages.#.lines.#.content").ForEach(func(_, page gjson.Result) bool {
		page.ForEach(func(_, line gjson.Result) bool {
			lines = append(lines, line.String())
			return true
		})
		return true
	})
	if len(lines) > 0 {
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return strings.TrimSpace(result.Get("content").String())
}

func paragraphs(result gjson.Result) []resume.Paragraph {
	var out []resume.Paragraph
	result.Get("paragraphs").ForEach(func(_, p gjson.Result) bool {
		out = append(out, resume.Paragraph{
			Content: p.Get("content").String(),
			Role:    p.Get("role").String(),
		})
		return true
	})
	return out
}
