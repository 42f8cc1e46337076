package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the profile created once after identity-provider signup
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UID       string             `bson:"uid" json:"uid"` // identity-provider subject
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Project is one project entry extracted from a resume
type Project struct {
	Name         string   `bson:"name" json:"name"`
	Technologies []string `bson:"technologies" json:"technologies"`
	Description  []string `bson:"description" json:"description"`
	Link         string   `bson:"link,omitempty" json:"link,omitempty"`
}

// Education is one education entry extracted from a resume
type Education struct {
	Institution string `bson:"institution" json:"institution"`
	Degree      string `bson:"degree,omitempty" json:"degree,omitempty"`
	Dates       string `bson:"dates,omitempty" json:"dates,omitempty"`
	Details     string `bson:"details,omitempty" json:"details,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
}

// Experience is one work experience entry extracted from a resume
type Experience struct {
	Company     string   `bson:"company" json:"company"`
	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	Dates       string   `bson:"dates,omitempty" json:"dates,omitempty"`
	Location    string   `bson:"location,omitempty" json:"location,omitempty"`
	Description []string `bson:"description" json:"description"`
	Link        string   `bson:"link,omitempty" json:"link,omitempty"`
}

// Resume is the normalized analysis of one uploaded PDF.
// A new document is created per upload and never mutated afterwards.
type Resume struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Skills      []string           `bson:"skills" json:"skills"`
	Projects    []Project          `bson:"projects" json:"projects"`
	Education   []Education        `bson:"education" json:"education"`
	Experience  []Experience       `bson:"experience" json:"experience"`
	ATSScore    int                `bson:"atsScore" json:"atsScore"` // 0-100
	Missing     []string           `bson:"missing" json:"missing"`
	Suggestions []string           `bson:"suggestions" json:"suggestions"`
	RawText     string             `bson:"rawText" json:"rawText"`
	SourceKey   string             `bson:"sourceKey,omitempty" json:"sourceKey,omitempty"` // archived PDF, if any
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InterviewSession is one mock interview attempt against a resume
type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	ResumeID  primitive.ObjectID `bson:"resumeId" json:"resumeId"`
	Domain    string             `bson:"domain" json:"domain"`
	Questions []string           `bson:"questions" json:"questions"`
	Answers   []string           `bson:"answers" json:"answers"`
	Feedback  *string            `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Version   int64              `bson:"version" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Concluded reports whether final feedback has been recorded
func (s *InterviewSession) Concluded() bool {
	return s.Feedback != nil
}

// CreateUserRequest is the body of POST /api/users/create
type CreateUserRequest struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// StartInterviewRequest is the body of POST /api/interview/start
type StartInterviewRequest struct {
	ResumeID string `json:"resumeId"`
	Domain   string `json:"domain"`
}

// StartInterviewResponse carries the first question
type StartInterviewResponse struct {
	InterviewID string `json:"interviewId"`
	Question    string `json:"question"`
}

// AnswerRequest is the body of POST /api/interview/answer
type AnswerRequest struct {
	InterviewID string `json:"interviewId"`
	Answer      string `json:"answer"`
}

// AnswerResponse is either the next question or the final feedback
type AnswerResponse struct {
	Done     bool   `json:"done"`
	Question string `json:"question,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// ProfileSummary holds the dashboard aggregates for one user
type ProfileSummary struct {
	Resumes             int `json:"resumes"`
	Interviews          int `json:"interviews"`
	CompletedInterviews int `json:"completedInterviews"`
	AverageATSScore     int `json:"averageAtsScore"`
}
