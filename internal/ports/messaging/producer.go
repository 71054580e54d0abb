package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer implements Dispatcher on top of a MessageSender. One queue carries
// both notification kinds; the EventType attribute tells them apart.
type Producer struct {
	sender   MessageSender
	queueURL string
	baseURL  string
}

func NewProducer(sender MessageSender, queueURL, baseURL string) *Producer {
	return &Producer{
		sender:   sender,
		queueURL: queueURL,
		baseURL:  baseURL,
	}
}

// NewSQSProducer creates a Producer backed by an AWS SQS sender.
func NewSQSProducer(client SQSClient, queueURL, baseURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, queueURL, baseURL)
}

func (p *Producer) NotifyAttendance(ctx context.Context, user *model.User, clockIn time.Time) error {
	event := AttendanceConfirmationEvent{
		UserEmail:   user.Email,
		UserName:    user.FirstName,
		ClockInTime: clockIn,
	}
	return p.publish(ctx, EventTypeAttendanceConfirmation, event)
}

func (p *Producer) NotifyPasswordReset(ctx context.Context, email, token string) error {
	event := PasswordResetEvent{
		UserEmail: email,
		ResetLink: fmt.Sprintf("%s/api/v1/auth/reset-password?token=%s", p.baseURL, token),
	}
	return p.publish(ctx, EventTypePasswordReset, event)
}

func (p *Producer) publish(ctx context.Context, eventType string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.String("app.eventType", eventType))
	}

	if err := p.sender.SendMessage(ctx, p.queueURL, eventType, b); err != nil {
		return fmt.Errorf("failed to send %s message: %w", eventType, err)
	}
	return nil
}
