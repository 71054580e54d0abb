package core

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MailService delivers the notification messages the dispatcher queues up.
type MailService interface {
	SendAttendanceConfirmation(ctx context.Context, to, name string, clockIn time.Time) error
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// SESMailService sends mail through AWS SES.
type SESMailService struct {
	client *ses.Client
	sender string
}

func NewSESMailService(client *ses.Client, sender string) *SESMailService {
	return &SESMailService{client: client, sender: sender}
}

func (s *SESMailService) SendAttendanceConfirmation(ctx context.Context, to, name string, clockIn time.Time) error {
	body := fmt.Sprintf("Hi %s,\n\nThis is to confirm you clocked in at %s.", name, clockIn.Format("15:04:05"))
	return s.send(ctx, to, "Your Attendance Record", body)
}

func (s *SESMailService) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	body := fmt.Sprintf("Please use the following link to reset your password:\n%s\n\nThis link is valid for 10 minutes.", resetLink)
	return s.send(ctx, to, "Reset Your Password", body)
}

func (s *SESMailService) send(ctx context.Context, to, subject, body string) error {
	tracer := otel.Tracer("ses-mail-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("app.mailSubject", subject))

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
