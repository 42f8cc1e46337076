package interview

import (
	"strings"
	"testing"

	"github.com/fmuoria/career-coach/internal/models"
)

func sampleResume() *models.Resume {
	return &models.Resume{
		Name:     "Jane Doe",
		Skills:   []string{"Go", "PostgreSQL"},
		Projects: []models.Project{{Name: "Shortener", Technologies: []string{"Go"}}},
		Experience: []models.Experience{
			{Company: "Acme", Title: "Backend Engineer", Dates: "2020 - 2024"},
		},
	}
}

func TestBuildOpeningPrompt(t *testing.T) {
	prompt := BuildOpeningPrompt(sampleResume(), "Web Development", 8)

	for _, want := range []string{"Jane Doe", "Go, PostgreSQL", "Shortener (Go)", "Domain: Web Development", "FIRST", "8 questions"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected opening prompt to contain %q", want)
		}
	}
}

func TestBuildFollowUpPrompt(t *testing.T) {
	session := &models.InterviewSession{
		Domain:    "Web Development",
		Questions: []string{"What is REST?", "Explain HTTP caching."},
		Answers:   []string{"An architectural style.", "  "},
	}
	prompt := BuildFollowUpPrompt(sampleResume(), session, 8)

	for _, want := range []string{
		"Q1: What is REST?",
		"A1: An architectural style.",
		"Q2: Explain HTTP caching.",
		"A2: (no answer given)",
		"Ask question 3 of 8",
		"harder follow-up",
		"simpler question",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected follow-up prompt to contain %q", want)
		}
	}
}

func TestBuildFeedbackPrompt(t *testing.T) {
	session := &models.InterviewSession{
		Domain:    "Data",
		Questions: []string{"Q one"},
		Answers:   []string{"A one"},
	}
	prompt := BuildFeedbackPrompt(sampleResume(), session)

	for _, want := range []string{"Q1: Q one", "A1: A one", "Score:", "PASS or FAIL", "Strengths", "Weaknesses", "Improvement Tips", "repetition"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected feedback prompt to contain %q", want)
		}
	}
}
