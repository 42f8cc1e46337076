package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/logging"
)

const publishTimeout = 5 * time.Second

const (
	RoutingResumeAnalyzed     = "resume.analyzed"
	RoutingInterviewConcluded = "interview.concluded"
)

// ResumeAnalyzed is published after a resume has been stored
type ResumeAnalyzed struct {
	EventID    string    `json:"eventId"`
	ResumeID   string    `json:"resumeId"`
	UserID     string    `json:"userId"`
	ATSScore   int       `json:"atsScore"`
	OccurredAt time.Time `json:"occurredAt"`
}

// InterviewConcluded is published once final feedback is stored
type InterviewConcluded struct {
	EventID     string    `json:"eventId"`
	InterviewID string    `json:"interviewId"`
	UserID      string    `json:"userId"`
	ResumeID    string    `json:"resumeId"`
	Domain      string    `json:"domain"`
	Questions   int       `json:"questions"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type rabbit struct {
	connectionUrl string
	exchange      string
}

// New returns a RabbitMQ publisher, or a Dummy when url is empty
func New(url, exchange string) Publisher {
	if url == "" {
		return &Dummy{}
	}
	return &rabbit{
		connectionUrl: url,
		exchange:      exchange,
	}
}

func (r *rabbit) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	conn, err := amqp.Dial(r.connectionUrl)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(r.exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	logging.Logger(ctx).Info("Event published", zap.String("routing_key", routingKey))
	return nil
}

// Dummy drops every event
type Dummy struct{}

func (n *Dummy) Publish(ctx context.Context, routingKey string, payload any) error {
	return nil
}

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

type Recorded struct {
	RoutingKey string
	Payload    any
}

func (r *Recorder) Publish(ctx context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Emit publishes an event on a context detached from the request. Failures
// are logged and never reach the caller.
func Emit(ctx context.Context, p Publisher, routingKey string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		logging.Logger(ctx).Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}
