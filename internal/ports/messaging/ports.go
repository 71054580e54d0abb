package messaging

import (
	"context"
	"time"

	"attendance.service/internal/core/model"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Dispatcher is the output port for fire-and-forget notifications. Callers
// must not treat a dispatch failure as a failure of their own transaction.
type Dispatcher interface {
	NotifyAttendance(ctx context.Context, user *model.User, clockIn time.Time) error
	NotifyPasswordReset(ctx context.Context, email, resetLink string) error
}

// MessageSender defines the interface for sending raw messages to a
// messaging system.
type MessageSender interface {
	SendMessage(ctx context.Context, destination, eventType string, body []byte) error
}

// SQSClient defines the slice of the AWS SQS client the sender needs.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}
