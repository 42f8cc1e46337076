package resume

import (
	"strings"
	"unicode/utf8"
)

// maxPromptText caps the resume text embedded in the extraction prompt
const maxPromptText = 30000

// BuildExtractionPrompt asks for the fixed-shape JSON analysis of a resume
func BuildExtractionPrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("You are an ATS (applicant tracking system) resume analyzer.\n\n")
	sb.WriteString("From the resume text below, extract:\n")
	sb.WriteString("- name\n")
	sb.WriteString("- email\n")
	sb.WriteString("- skills (array of strings)\n")
	sb.WriteString("- projects (array of objects with name, technologies, description, link)\n")
	sb.WriteString("- education (array of objects with institution, degree, dates, details, location)\n")
	sb.WriteString("- experience (array of objects with company, title, dates, location, description, link)\n\n")

	sb.WriteString("Then:\n")
	sb.WriteString("- Give an ATS compatibility score from 0 to 100\n")
	sb.WriteString("- List the standard resume sections that are missing\n")
	sb.WriteString("- Give 3 concrete improvement suggestions\n\n")

	sb.WriteString("RULES:\n")
	sb.WriteString("- Use only information present in the resume text. Never invent names, emails, employers, dates or skills.\n")
	sb.WriteString("- If a value is not present, use an empty string or an empty array.\n")
	sb.WriteString("- \"missing\" may only name sections that are genuinely absent from the text (for example Contact Email, Summary, Skills, Experience, Education, Projects). Do not claim the resume has no content when text is present.\n")
	sb.WriteString("- Dates are a single string such as \"2019 - 2023\".\n\n")

	sb.WriteString("Return ONLY valid JSON in this format, no additional text:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "name": "",` + "\n")
	sb.WriteString(`  "email": "",` + "\n")
	sb.WriteString(`  "skills": [],` + "\n")
	sb.WriteString(`  "projects": [{"name": "", "technologies": [], "description": [], "link": ""}],` + "\n")
	sb.WriteString(`  "education": [{"institution": "", "degree": "", "dates": "", "details": "", "location": ""}],` + "\n")
	sb.WriteString(`  "experience": [{"company": "", "title": "", "dates": "", "location": "", "description": [], "link": ""}],` + "\n")
	sb.WriteString(`  "atsScore": 0,` + "\n")
	sb.WriteString(`  "missing": [],` + "\n")
	sb.WriteString(`  "suggestions": []` + "\n")
	sb.WriteString("}\n\n")

	sb.WriteString("Resume Text:\n")
	sb.WriteString(truncate(text, maxPromptText))
	sb.WriteString("\n")

	return sb.String()
}

// sanitizeUTF8 replaces invalid byte sequences left behind by PDF text extraction
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

// truncate cuts s to at most maxLen bytes on a rune boundary and marks the cut
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
