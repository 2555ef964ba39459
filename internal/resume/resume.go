// Package resume holds the structured résumé representation produced by
// document extraction and consumed by the role analyzers.
package resume

import (
	"strings"
	"time"
)

// Extraction methods recorded in Metadata.
const (
	MethodDocumentIntelligence = "document_intelligence"
	MethodFallback             = "fallback"
	MethodLocalText            = "local_text"
	MethodError                = "error"
)

type Data struct {
	Metadata       Metadata          `json:"metadata"`
	ContactInfo    ContactInfo       `json:"contact_info"`
	Skills         []Skill           `json:"skills"`
	WorkExperience []WorkExperience  `json:"work_experience"`
	Education      []Education       `json:"education"`
	Sections       map[string]string `json:"sections"`
	RawText        string            `json:"raw_text"`
}

type Metadata struct {
	ExtractedAt      time.Time `json:"extracted_at"`
	ModelID          string    `json:"model_id,omitempty"`
	Confidence       float64   `json:"confidence"`
	ExtractionMethod string    `json:"extraction_method"`
	Error            string    `json:"error,omitempty"`
}

type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
}

type Skill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type WorkExperience struct {
	Company          string   `json:"company"`
	JobTitle         string   `json:"job_title"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	GPA          string `json:"gpa,omitempty"`
}

// New returns an empty résumé with non-nil collections.
func New(method string, now time.Time) Data {
	return Data{
		Metadata:       Metadata{ExtractedAt: now.UTC(), ExtractionMethod: method},
		Skills:         []Skill{},
		WorkExperience: []WorkExperience{},
		Education:      []Education{},
		Sections:       map[string]string{},
	}
}

// FromText builds a résumé from plain extracted text. Sections are derived
// from the text's lines the same way document paragraphs are.
func FromText(text, method string, now time.Time) Data {
	d := New(method, now)
	d.RawText = strings.TrimSpace(text)
	paragraphs := make([]Paragraph, 0)
	for _, line := range strings.Split(d.RawText, "\n") {
		paragraphs = append(paragraphs, Paragraph{Content: line})
	}
	d.Sections = DetectSections(paragraphs)
	return d
}

// Minimal is the résumé used when no extraction path succeeded. The
// applicant's own form data keeps the prompt meaningful.
func Minimal(name, email string, cause error, now time.Time) Data {
	d := New(MethodError, now)
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	d.Metadata.Error = msg
	d.ContactInfo = ContactInfo{Name: name, Email: email}
	d.RawText = "Error extracting document data: " + msg
	return d
}

// FillContact copies applicant form data into empty contact fields.
func (d *Data) FillContact(name, email string) {
	if strings.TrimSpace(d.ContactInfo.Name) == "" {
		d.ContactInfo.Name = name
	}
	if strings.TrimSpace(d.ContactInfo.Email) == "" {
		d.ContactInfo.Email = email
	}
}
