package resume

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/fmuoria/career-coach/internal/apperr"
	"github.com/fmuoria/career-coach/internal/models"
)

func TestParseCompletion_DirectJSON(t *testing.T) {
	response := `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"skills": ["Go", "SQL"],
		"projects": [{"name": "Shortener", "technologies": ["Go"], "description": ["URL shortener"], "link": "https://example.com"}],
		"education": [{"institution": "MIT", "degree": "BSc", "dates": "2015 - 2019"}],
		"experience": [{"company": "Acme", "title": "Engineer", "dates": "2019 - 2024", "description": ["Built APIs"]}],
		"atsScore": 78,
		"missing": ["Summary"],
		"suggestions": ["Add metrics"]
	}`

	got, err := ParseCompletion(response)
	if err != nil {
		t.Fatalf("ParseCompletion failed: %v", err)
	}
	if got.Name != "Jane Doe" || got.Email != "jane@example.com" {
		t.Errorf("Unexpected identity: %s <%s>", got.Name, got.Email)
	}
	if got.ATSScore != 78 {
		t.Errorf("Expected atsScore 78, got %d", got.ATSScore)
	}
	if len(got.Projects) != 1 || got.Projects[0].Link != "https://example.com" {
		t.Errorf("Unexpected projects: %+v", got.Projects)
	}
	if len(got.Experience) != 1 || got.Experience[0].Title != "Engineer" {
		t.Errorf("Unexpected experience: %+v", got.Experience)
	}
}

func TestParseCompletion_FencedWithExtraText(t *testing.T) {
	response := "Here is the analysis:\n```json\n{\"name\": \"Sam\", \"atsScore\": 55}\n```\nLet me know if you need more."

	got, err := ParseCompletion(response)
	if err != nil {
		t.Fatalf("ParseCompletion failed: %v", err)
	}
	if got.Name != "Sam" || got.ATSScore != 55 {
		t.Errorf("Unexpected result: %+v", got)
	}
	if got.Skills == nil || got.Missing == nil || got.Projects == nil {
		t.Error("Expected absent lists to normalize to empty, not nil")
	}
}

func TestParseCompletion_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no JSON", "I could not read this resume."},
		{"truncated", `{"name": "Sam", "skills": [`},
		{"array only", `["Go", "SQL"]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCompletion(tt.response)
			if !apperr.Is(err, apperr.KindUpstreamFormat) {
				t.Errorf("Expected UpstreamFormatError, got %v", err)
			}
		})
	}
}

func TestNormalizeHeterogeneousShapes(t *testing.T) {
	response := `{
		"name": "Lee",
		"skills": "Go",
		"projects": ["Chat app", {"title": "Blog", "techStack": "Go, React , ", "details": "Static site"}],
		"education": ["State University", {"school": "City College", "date": ["2010", "2012"], "details": ["Dean's list", "GPA 3.9"]}],
		"experience": ["Freelance", {"employer": "Acme", "role": "Dev", "duration": {"start": "2018", "end": "2020"}, "responsibilities": "Wrote code"}],
		"atsScore": "82/100",
		"missing": "Summary",
		"suggestions": [1, "Quantify impact", null, ""]
	}`

	got, err := ParseCompletion(response)
	if err != nil {
		t.Fatalf("ParseCompletion failed: %v", err)
	}

	expectedProjects := []models.Project{
		{Name: "Chat app", Technologies: []string{}, Description: []string{}},
		{Name: "Blog", Technologies: []string{"Go", "React"}, Description: []string{"Static site"}},
	}
	if !reflect.DeepEqual(got.Projects, expectedProjects) {
		t.Errorf("Projects:\nexpected %+v\ngot      %+v", expectedProjects, got.Projects)
	}

	expectedEducation := []models.Education{
		{Institution: "State University"},
		{Institution: "City College", Dates: "2010 - 2012", Details: "Dean's list; GPA 3.9"},
	}
	if !reflect.DeepEqual(got.Education, expectedEducation) {
		t.Errorf("Education:\nexpected %+v\ngot      %+v", expectedEducation, got.Education)
	}

	expectedExperience := []models.Experience{
		{Company: "Freelance", Description: []string{}},
		{Company: "Acme", Title: "Dev", Dates: "2018 - 2020", Description: []string{"Wrote code"}},
	}
	if !reflect.DeepEqual(got.Experience, expectedExperience) {
		t.Errorf("Experience:\nexpected %+v\ngot      %+v", expectedExperience, got.Experience)
	}

	if !reflect.DeepEqual(got.Skills, []string{"Go"}) {
		t.Errorf("Expected skills [Go], got %v", got.Skills)
	}
	if !reflect.DeepEqual(got.Missing, []string{"Summary"}) {
		t.Errorf("Expected missing [Summary], got %v", got.Missing)
	}
	if !reflect.DeepEqual(got.Suggestions, []string{"1", "Quantify impact"}) {
		t.Errorf("Expected suggestions [1 Quantify impact], got %v", got.Suggestions)
	}
	if got.ATSScore != 82 {
		t.Errorf("Expected atsScore 82, got %d", got.ATSScore)
	}
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int
	}{
		{"int", float64(70), 70},
		{"fraction rounds", 69.6, 70},
		{"negative clamps", float64(-5), 0},
		{"over clamps", float64(140), 100},
		{"huge clamps", 1e20, 100},
		{"huge negative clamps", -1e20, 0},
		{"huge string clamps", "100000000000000000000000", 100},
		{"string", "85", 85},
		{"string with suffix", "85/100", 85},
		{"garbage", "n/a", 0},
		{"missing", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeScore(tt.input); got != tt.expected {
				t.Errorf("normalizeScore(%v) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

// Re-serializing the normalized entries must keep every field, including
// entries that arrived as bare strings.
func TestNormalizedEntriesRoundTrip(t *testing.T) {
	response := `{
		"education": ["State University", {"institution": "MIT", "degree": "BSc", "dates": "2015", "details": "Honors", "location": "Boston"}],
		"experience": [{"company": "Acme", "title": "Dev", "dates": "2019", "location": "Remote", "description": ["a", "b"], "link": "https://acme.dev"}],
		"projects": [{"name": "Tool", "technologies": ["Go"], "description": ["cli"], "link": "https://git.example/tool"}, "Side project"]
	}`

	first, err := ParseCompletion(response)
	if err != nil {
		t.Fatalf("ParseCompletion failed: %v", err)
	}

	encoded, err := json.Marshal(struct {
		Education  []models.Education  `json:"education"`
		Experience []models.Experience `json:"experience"`
		Projects   []models.Project    `json:"projects"`
	}{first.Education, first.Experience, first.Projects})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	second, err := ParseCompletion(string(encoded))
	if err != nil {
		t.Fatalf("Second ParseCompletion failed: %v", err)
	}

	if !reflect.DeepEqual(first.Education, second.Education) {
		t.Errorf("Education changed on round trip:\n%+v\n%+v", first.Education, second.Education)
	}
	if !reflect.DeepEqual(first.Experience, second.Experience) {
		t.Errorf("Experience changed on round trip:\n%+v\n%+v", first.Experience, second.Experience)
	}
	if !reflect.DeepEqual(first.Projects, second.Projects) {
		t.Errorf("Projects changed on round trip:\n%+v\n%+v", first.Projects, second.Projects)
	}
	if second.Education[0].Institution != "State University" {
		t.Errorf("Expected bare string entry to survive as institution, got %+v", second.Education[0])
	}
}

func TestNormalizeMergesAliasedFields(t *testing.T) {
	response := `{
		"education": [{"institution": "MIT", "details": "Dean's list", "gpa": "3.9", "coursework": ["Algorithms", "Databases"]}],
		"experience": [{"company": "Acme", "description": ["built x"], "responsibilities": ["ran y"], "achievements": "shipped z"}],
		"projects": [{"name": "Tool", "technologies": ["Go"], "tools": "Docker, Redis", "description": "cli", "highlights": ["fast"]}]
	}`

	got, err := ParseCompletion(response)
	if err != nil {
		t.Fatalf("ParseCompletion failed: %v", err)
	}

	if want := "Dean's list; 3.9; Algorithms; Databases"; got.Education[0].Details != want {
		t.Errorf("Expected details %q, got %q", want, got.Education[0].Details)
	}
	if want := []string{"built x", "ran y", "shipped z"}; !reflect.DeepEqual(got.Experience[0].Description, want) {
		t.Errorf("Expected description %v, got %v", want, got.Experience[0].Description)
	}
	if want := []string{"Go", "Docker", "Redis"}; !reflect.DeepEqual(got.Projects[0].Technologies, want) {
		t.Errorf("Expected technologies %v, got %v", want, got.Projects[0].Technologies)
	}
	if want := []string{"cli", "fast"}; !reflect.DeepEqual(got.Projects[0].Description, want) {
		t.Errorf("Expected project description %v, got %v", want, got.Projects[0].Description)
	}

	// merged values survive a second pass unchanged
	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	again, err := ParseCompletion(string(encoded))
	if err != nil {
		t.Fatalf("Second ParseCompletion failed: %v", err)
	}
	if !reflect.DeepEqual(got.Education, again.Education) || !reflect.DeepEqual(got.Experience, again.Experience) || !reflect.DeepEqual(got.Projects, again.Projects) {
		t.Errorf("Merged entries changed on round trip:\n%+v\n%+v", got, again)
	}
}
