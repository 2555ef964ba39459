package roles

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"cv-analyzer/internal/resume"
)

// commonTechKeywords are searched for in the raw résumé text in addition to
// the skills the extractor identified.
var commonTechKeywords = []string{
	// Languages
	"Python", "JavaScript", "TypeScript", "Java", "C#", "C++", "Go", "Rust",
	"PHP", "Ruby", "Swift", "Kotlin", "Scala", "R", "Perl", "Bash", "Shell",
	// Frontend
	"React", "Angular", "Vue", "Next.js", "Redux", "HTML5", "CSS3", "SASS",
	"LESS", "Bootstrap", "Tailwind", "jQuery", "D3.js", "WebGL", "Three.js",
	"Material UI", "Chakra UI", "Styled Components", "Webpack", "Babel",
	"ESLint", "Prettier", "Jest", "Cypress", "Playwright", "Storybook",
	// Backend
	"Node.js", "Express", "Django", "Flask", "Spring", "ASP.NET", "Laravel",
	"Rails", "FastAPI", "GraphQL", "REST", "SOAP", "gRPC", "WebSockets",
	// Databases
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "DynamoDB", "Cassandra", "Redis",
	"Elasticsearch", "Neo4j", "SQLite", "MariaDB", "Oracle", "MS SQL Server",
	// DevOps & Cloud
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Ansible",
	"Jenkins", "CircleCI", "GitHub Actions", "Travis CI", "ArgoCD", "Helm",
	"Prometheus", "Grafana", "ELK", "Datadog", "New Relic", "CI/CD",
	"Infrastructure as Code", "Linux", "Apache", "Nginx", "Serverless",
	"Lambda", "EC2", "S3", "RDS", "EKS", "ECS", "CloudFormation",
	// Misc
	"Git", "SVN", "Jira", "Confluence", "Scrum", "Agile", "Kanban",
	"TDD", "BDD", "Microservices", "API Gateway", "Service Mesh", "Istio",
	"OAuth", "JWT", "SAML", "Security", "Performance", "Scalability",
	"High Availability", "Fault Tolerance", "Caching", "Load Balancing",
	"CDN", "Monitoring", "Logging", "Analytics", "Big Data", "Machine Learning",
}

func setOf(items ...string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		out[item] = true
	}
	return out
}

// ExtractTechnologies returns the lowercased, sorted, de-duplicated union of
// extracted skill names and common keywords found in the raw text.
func ExtractTechnologies(data resume.Data) []string {
	found := map[string]bool{}
	for _, skill := range data.Skills {
		if name := strings.ToLower(strings.TrimSpace(skill.Name)); name != "" {
			found[name] = true
		}
	}
	raw := strings.ToLower(data.RawText)
	for _, tech := range commonTechKeywords {
		lower := strings.ToLower(tech)
		if containsWord(raw, lower) {
			found[lower] = true
		}
	}
	out := make([]string, 0, len(found))
	for tech := range found {
		out = append(out, tech)
	}
	sort.Strings(out)
	return out
}

// containsWord reports whether word occurs in text without a letter or digit
// directly on either side. Both arguments are expected in lower case.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset <= len(text)-len(word); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// mentions reports whether any keyword appears as a whole word in one of
// techs or in raw, so "java" does not match "javascript".
func mentions(keywords []string, techs []string, raw string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		for _, tech := range techs {
			if containsWord(tech, kw) {
				return true
			}
		}
		if containsWord(raw, kw) {
			return true
		}
	}
	return false
}

// containsAnySubstring is the loose check used for narrative signals where
// stems like "automat" must match "automated" and "automation".
func containsAnySubstring(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
