// Package notify consumes the notification queue and delivers mail through
// the mail service. Delivery is best-effort with retries; nothing upstream
// ever waits on it.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

type Processor struct {
	mail core.MailService
	cb   *gobreaker.CircuitBreaker
}

// NewProcessor sets up the notification processor. SES sits behind a circuit
// breaker so a mail-provider outage does not turn into a hot retry loop.
func NewProcessor(mail core.MailService) *Processor {
	settings := gobreaker.Settings{
		Name:        "SES-Mail",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &Processor{
		mail: mail,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Process handles one message from the notification queue. Malformed
// messages are dropped; delivery failures are retried with exponential
// backoff based on the message's receive count.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty message body")
	}

	eventType := messageEventType(msg)

	var sendErr error
	switch eventType {
	case messaging.EventTypeAttendanceConfirmation:
		var event messaging.AttendanceConfirmationEvent
		if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
			return false, 0, fmt.Errorf("failed to unmarshal confirmation event: %w", err)
		}
		sendErr = p.deliver(func() error {
			return p.mail.SendAttendanceConfirmation(ctx, event.UserEmail, event.UserName, event.ClockInTime)
		})
	case messaging.EventTypePasswordReset:
		var event messaging.PasswordResetEvent
		if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
			return false, 0, fmt.Errorf("failed to unmarshal reset event: %w", err)
		}
		sendErr = p.deliver(func() error {
			return p.mail.SendPasswordReset(ctx, event.UserEmail, event.ResetLink)
		})
	default:
		return false, 0, fmt.Errorf("unknown notification event type %q", eventType)
	}

	if sendErr != nil {
		if errors.Is(sendErr, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Mail circuit breaker is open; delivery deferred")
		}
		delay := calculateBackoff(receiveCount(msg))
		return true, delay, sendErr
	}

	return false, 0, nil
}

func (p *Processor) deliver(send func() error) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, send()
	})
	return err
}

func messageEventType(msg types.Message) string {
	if attr, ok := msg.MessageAttributes["EventType"]; ok && attr.StringValue != nil {
		return *attr.StringValue
	}
	return ""
}

// receiveCount reads how many times SQS has delivered this message, so the
// backoff grows with each attempt without any state of our own.
func receiveCount(msg types.Message) int {
	if v, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 1
}

// calculateBackoff determines how long to hide the message before the next
// delivery attempt, growing exponentially and capped at 1 hour.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600
	}
	return backoff
}
