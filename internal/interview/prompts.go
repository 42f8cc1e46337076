package interview

import (
	"fmt"
	"strings"

	"github.com/fmuoria/career-coach/internal/models"
)

// writeCandidate embeds the extracted resume fields as interview context
func writeCandidate(sb *strings.Builder, resume *models.Resume) {
	sb.WriteString("## CANDIDATE\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", resume.Name))
	if len(resume.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(resume.Skills, ", ")))
	}
	if len(resume.Projects) > 0 {
		sb.WriteString("Projects:\n")
		for _, p := range resume.Projects {
			line := p.Name
			if len(p.Technologies) > 0 {
				line += fmt.Sprintf(" (%s)", strings.Join(p.Technologies, ", "))
			}
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}
	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		for _, e := range resume.Experience {
			sb.WriteString(fmt.Sprintf("- %s at %s %s\n", e.Title, e.Company, e.Dates))
		}
	}
	if len(resume.Education) > 0 {
		sb.WriteString("Education:\n")
		for _, e := range resume.Education {
			sb.WriteString(fmt.Sprintf("- %s, %s %s\n", e.Degree, e.Institution, e.Dates))
		}
	}
	sb.WriteString("\n")
}

func writeTranscript(sb *strings.Builder, questions, answers []string) {
	sb.WriteString("## TRANSCRIPT\n")
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, q))
		if i < len(answers) {
			answer := strings.TrimSpace(answers[i])
			if answer == "" {
				answer = "(no answer given)"
			}
			sb.WriteString(fmt.Sprintf("A%d: %s\n", i+1, answer))
		}
		sb.WriteString("\n")
	}
}

// BuildOpeningPrompt asks for the first question of an interview
func BuildOpeningPrompt(resume *models.Resume, domain string, maxQuestions int) string {
	var sb strings.Builder

	sb.WriteString("You are a professional technical interviewer running a mock interview.\n\n")
	writeCandidate(&sb, resume)
	sb.WriteString(fmt.Sprintf("Domain: %s\n", domain))
	sb.WriteString(fmt.Sprintf("The interview has %d questions in total.\n\n", maxQuestions))
	sb.WriteString("Ask the FIRST interview question. Start at moderate difficulty, relevant to the domain and to the candidate's background.\n")
	sb.WriteString("Return only the question text.\n")

	return sb.String()
}

// BuildFollowUpPrompt asks for the next question, calibrated on the last answer
func BuildFollowUpPrompt(resume *models.Resume, session *models.InterviewSession, maxQuestions int) string {
	var sb strings.Builder

	sb.WriteString("You are a professional technical interviewer running a mock interview.\n\n")
	writeCandidate(&sb, resume)
	sb.WriteString(fmt.Sprintf("Domain: %s\n\n", session.Domain))
	writeTranscript(&sb, session.Questions, session.Answers)

	sb.WriteString(fmt.Sprintf("Ask question %d of %d.\n", len(session.Questions)+1, maxQuestions))
	sb.WriteString("Calibrate difficulty on the most recent answer:\n")
	sb.WriteString("- If it was strong and specific, ask a harder follow-up that goes deeper.\n")
	sb.WriteString("- If it was weak, vague or empty, ask a simpler question that guides the candidate.\n")
	sb.WriteString("Do not repeat earlier questions.\n")
	sb.WriteString("Return only the question text.\n")

	return sb.String()
}

// BuildFeedbackPrompt asks for the final evaluation of a complete transcript
func BuildFeedbackPrompt(resume *models.Resume, session *models.InterviewSession) string {
	var sb strings.Builder

	sb.WriteString("You are a strict senior interviewer evaluating a completed mock interview.\n\n")
	writeCandidate(&sb, resume)
	sb.WriteString(fmt.Sprintf("Domain: %s\n\n", session.Domain))
	writeTranscript(&sb, session.Questions, session.Answers)

	sb.WriteString("## EVALUATION INSTRUCTIONS\n")
	sb.WriteString("Judge strictly. Cite specific answers by question number. Flag non-answers, off-topic answers and repetition explicitly; they must lower the score.\n\n")
	sb.WriteString("Write the report in this structure:\n")
	sb.WriteString("Result: PASS or FAIL\n")
	sb.WriteString("Score: <integer from 0 to 10>\n")
	sb.WriteString("Strengths:\n- ...\n")
	sb.WriteString("Weaknesses:\n- ...\n")
	sb.WriteString("Improvement Tips:\n- ...\n")

	return sb.String()
}
