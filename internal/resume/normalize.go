package resume

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fmuoria/career-coach/internal/apperr"
	"github.com/fmuoria/career-coach/internal/llm"
	"github.com/fmuoria/career-coach/internal/models"
)

// extraction is the completion before validation. Every field may arrive
// as a string, a number, a list or an object.
type extraction struct {
	Name        any `json:"name"`
	Email       any `json:"email"`
	Skills      any `json:"skills"`
	Projects    any `json:"projects"`
	Education   any `json:"education"`
	Experience  any `json:"experience"`
	ATSScore    any `json:"atsScore"`
	Missing     any `json:"missing"`
	Suggestions any `json:"suggestions"`
}

// ParseCompletion validates the raw completion and normalizes it into a
// Resume. Anything that is not a JSON object is an UpstreamFormat error.
func ParseCompletion(response string) (*models.Resume, error) {
	clean := llm.CleanJSON(response)

	startIdx := strings.Index(clean, "{")
	endIdx := strings.LastIndex(clean, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, apperr.UpstreamFormat("AI response was not valid JSON", fmt.Errorf("no JSON object found in response"))
	}

	var raw extraction
	if err := json.Unmarshal([]byte(clean[startIdx:endIdx+1]), &raw); err != nil {
		return nil, apperr.UpstreamFormat("AI response was not valid JSON", fmt.Errorf("failed to unmarshal JSON: %w", err))
	}

	return &models.Resume{
		Name:        asString(raw.Name),
		Email:       asString(raw.Email),
		Skills:      asStringList(raw.Skills),
		Projects:    normalizeProjects(raw.Projects),
		Education:   normalizeEducation(raw.Education),
		Experience:  normalizeExperience(raw.Experience),
		ATSScore:    normalizeScore(raw.ATSScore),
		Missing:     asStringList(raw.Missing),
		Suggestions: asStringList(raw.Suggestions),
	}, nil
}

func normalizeProjects(v any) []models.Project {
	out := []models.Project{}
	for _, entry := range asEntries(v) {
		switch e := entry.(type) {
		case map[string]any:
			p := models.Project{
				Name:         pickString(e, "name", "title"),
				Technologies: mergeLists(splitList, gather(e, "technologies", "techStack", "tech", "stack", "tools")),
				Description:  mergeLists(asStringList, gather(e, "description", "details", "highlights", "summary")),
				Link:         pickString(e, "link", "url", "github", "repository"),
			}
			if p.Name != "" || len(p.Description) > 0 || len(p.Technologies) > 0 || p.Link != "" {
				out = append(out, p)
			}
		default:
			if s := asString(e); s != "" {
				out = append(out, models.Project{Name: s, Technologies: []string{}, Description: []string{}})
			}
		}
	}
	return out
}

func normalizeEducation(v any) []models.Education {
	out := []models.Education{}
	for _, entry := range asEntries(v) {
		switch e := entry.(type) {
		case map[string]any:
			ed := models.Education{
				Institution: pickString(e, "institution", "school", "university", "college"),
				Degree:      pickString(e, "degree", "qualification", "program", "field"),
				Dates:       asDates(pick(e, "dates", "date", "duration", "years", "year", "period")),
				Details:     joinDetails(gather(e, "details", "description", "gpa", "grade", "coursework")),
				Location:    pickString(e, "location", "city"),
			}
			if ed != (models.Education{}) {
				out = append(out, ed)
			}
		default:
			if s := asString(e); s != "" {
				out = append(out, models.Education{Institution: s})
			}
		}
	}
	return out
}

func normalizeExperience(v any) []models.Experience {
	out := []models.Experience{}
	for _, entry := range asEntries(v) {
		switch e := entry.(type) {
		case map[string]any:
			ex := models.Experience{
				Company:     pickString(e, "company", "organization", "organisation", "employer"),
				Title:       pickString(e, "title", "role", "position", "jobTitle"),
				Dates:       asDates(pick(e, "dates", "date", "duration", "period")),
				Location:    pickString(e, "location", "city"),
				Description: mergeLists(asStringList, gather(e, "description", "responsibilities", "highlights", "achievements", "details")),
				Link:        pickString(e, "link", "url", "website"),
			}
			if ex.Company != "" || ex.Title != "" || ex.Dates != "" || ex.Location != "" || len(ex.Description) > 0 || ex.Link != "" {
				out = append(out, ex)
			}
		default:
			if s := asString(e); s != "" {
				out = append(out, models.Experience{Company: s, Description: []string{}})
			}
		}
	}
	return out
}

var leadingNumber = regexp.MustCompile(`-?\d+(\.\d+)?`)

// normalizeScore coerces the ATS score to an integer in [0, 100]
func normalizeScore(v any) int {
	var f float64
	switch s := v.(type) {
	case float64:
		f = s
	case string:
		m := leadingNumber.FindString(s)
		if m == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return int(math.Round(f))
}

// asEntries turns a list, a single object or a single string into a list
func asEntries(v any) []any {
	switch e := v.(type) {
	case nil:
		return nil
	case []any:
		return e
	default:
		return []any{e}
	}
}

func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// gather returns the value of every key present, in key order
func gather(m map[string]any, keys ...string) []any {
	var out []any
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}

// mergeLists concatenates the lists convert produces for each value
func mergeLists(convert func(any) []string, values []any) []string {
	out := []string{}
	for _, v := range values {
		out = append(out, convert(v)...)
	}
	return out
}

func pickString(m map[string]any, keys ...string) string {
	return asString(pick(m, keys...))
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case []any:
		return strings.Join(asStringList(s), ", ")
	case map[string]any:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// asStringList accepts a list or a single scalar; empty items are dropped
func asStringList(v any) []string {
	out := []string{}
	for _, item := range asEntries(v) {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitList is asStringList that also splits comma separated strings
func splitList(v any) []string {
	if s, ok := v.(string); ok {
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return asStringList(v)
}

// asDates joins a date list such as ["2019", "2023"] into "2019 - 2023"
func asDates(v any) string {
	if list, ok := v.([]any); ok {
		return strings.Join(asStringList(list), " - ")
	}
	if m, ok := v.(map[string]any); ok {
		start := pickString(m, "start", "from")
		end := pickString(m, "end", "to")
		if start != "" || end != "" {
			return strings.Trim(start+" - "+end, " -")
		}
	}
	return asString(v)
}

// joinDetails flattens every detail value into one "; " separated string
func joinDetails(values []any) string {
	var parts []string
	for _, v := range values {
		if list, ok := v.([]any); ok {
			parts = append(parts, asStringList(list)...)
			continue
		}
		if s := asString(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}
