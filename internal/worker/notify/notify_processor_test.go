package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/require"
)

type fakeMail struct {
	confirmations int
	resets        int
	err           error
	lastTo        string
}

func (m *fakeMail) SendAttendanceConfirmation(_ context.Context, to, _ string, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.confirmations++
	m.lastTo = to
	return nil
}

func (m *fakeMail) SendPasswordReset(_ context.Context, to, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.resets++
	m.lastTo = to
	return nil
}

func message(eventType, body string, receiveCount string) types.Message {
	msg := types.Message{
		Body:      aws.String(body),
		MessageId: aws.String("m-1"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
		},
	}
	if receiveCount != "" {
		msg.Attributes = map[string]string{
			string(types.MessageSystemAttributeNameApproximateReceiveCount): receiveCount,
		}
	}
	return msg
}

func TestProcessDeliversConfirmation(t *testing.T) {
	mail := &fakeMail{}
	proc := NewProcessor(mail)

	body := `{"userEmail":"alice@example.com","userName":"Alice","clockInTime":"2026-03-02T09:00:00Z"}`
	shouldRetry, delay, err := proc.Process(context.Background(), message(messaging.EventTypeAttendanceConfirmation, body, ""))

	require.NoError(t, err)
	require.False(t, shouldRetry)
	require.Zero(t, delay)
	require.Equal(t, 1, mail.confirmations)
	require.Equal(t, "alice@example.com", mail.lastTo)
}

func TestProcessDeliversPasswordReset(t *testing.T) {
	mail := &fakeMail{}
	proc := NewProcessor(mail)

	body := `{"userEmail":"bob@example.com","resetLink":"http://localhost:8080/api/v1/auth/reset-password?token=abc"}`
	shouldRetry, _, err := proc.Process(context.Background(), message(messaging.EventTypePasswordReset, body, ""))

	require.NoError(t, err)
	require.False(t, shouldRetry)
	require.Equal(t, 1, mail.resets)
}

func TestProcessRetriesDeliveryFailureWithBackoff(t *testing.T) {
	mail := &fakeMail{err: errors.New("ses throttled")}
	proc := NewProcessor(mail)

	body := `{"userEmail":"alice@example.com","userName":"Alice","clockInTime":"2026-03-02T09:00:00Z"}`
	shouldRetry, delay, err := proc.Process(context.Background(), message(messaging.EventTypeAttendanceConfirmation, body, "3"))

	require.Error(t, err)
	require.True(t, shouldRetry)
	require.Equal(t, int32(80), delay, "2^3 * 10s")
}

func TestProcessDropsMalformedMessages(t *testing.T) {
	mail := &fakeMail{}
	proc := NewProcessor(mail)

	shouldRetry, _, err := proc.Process(context.Background(), message(messaging.EventTypeAttendanceConfirmation, "{not json", ""))
	require.Error(t, err)
	require.False(t, shouldRetry, "malformed messages must not be retried")

	shouldRetry, _, err = proc.Process(context.Background(), message("MYSTERY_EVENT", "{}", ""))
	require.Error(t, err)
	require.False(t, shouldRetry)
}

func TestCalculateBackoffCapsAtOneHour(t *testing.T) {
	require.Equal(t, int32(20), calculateBackoff(1))
	require.Equal(t, int32(3600), calculateBackoff(20))
}
