package models

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInterviewSessionConcluded(t *testing.T) {
	session := InterviewSession{Questions: []string{"Q1"}}
	if session.Concluded() {
		t.Error("Expected open session without feedback")
	}

	feedback := "Overall: Pass"
	session.Feedback = &feedback
	if !session.Concluded() {
		t.Error("Expected concluded session once feedback is set")
	}
}

func TestInterviewSessionJSONHidesVersion(t *testing.T) {
	session := InterviewSession{
		ID:        primitive.NewObjectID(),
		UserID:    "user-1",
		Questions: []string{"Q1"},
		Answers:   []string{},
		Version:   3,
	}

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("Failed to marshal session: %v", err)
	}

	if strings.Contains(string(data), "version") {
		t.Errorf("Expected version to stay internal, got %s", data)
	}
	if strings.Contains(string(data), "feedback") {
		t.Errorf("Expected feedback to be absent on open session, got %s", data)
	}
	if !strings.Contains(string(data), `"_id":"`+session.ID.Hex()+`"`) {
		t.Errorf("Expected _id as hex string, got %s", data)
	}
}

func TestAnswerResponseShape(t *testing.T) {
	next, _ := json.Marshal(AnswerResponse{Question: "Q2"})
	if string(next) != `{"done":false,"question":"Q2"}` {
		t.Errorf("Unexpected continue payload: %s", next)
	}

	done, _ := json.Marshal(AnswerResponse{Done: true, Feedback: "report"})
	if string(done) != `{"done":true,"feedback":"report"}` {
		t.Errorf("Unexpected conclude payload: %s", done)
	}
}
