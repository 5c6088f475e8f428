package escort

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "assistant-console/internal/common/errors"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/models"
)

type fakePublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

var maxVisit = models.VIPVisit{
	ID:             "visit-1",
	Visitor:        "John Carter",
	Title:          "Prime Minister",
	Date:           "2025-03-11",
	Time:           "10:00",
	Location:       "Conference Room A",
	ProtocolLevel:  models.ProtocolMaximum,
	AssignedEscort: "Protocol Security Detail",
}

func TestSNSNotifier_NotifyEscort(t *testing.T) {
	pub := &fakePublisher{}
	n := NewSNSNotifier(pub, "arn:aws:sns:eu-west-1:123456789012:escorts", logger.NewTestLogger(t))

	require.NoError(t, n.NotifyEscort(context.Background(), maxVisit))
	require.Len(t, pub.inputs, 1)

	in := pub.inputs[0]
	assert.Equal(t, "arn:aws:sns:eu-west-1:123456789012:escorts", aws.ToString(in.TopicArn))
	assert.Equal(t, "maximum", aws.ToString(in.MessageAttributes["protocolLevel"].StringValue))
	assert.Equal(t, "visit-1", aws.ToString(in.MessageAttributes["visitId"].StringValue))
	assert.Equal(t,
		"Protocol Security Detail assigned to the maximum-protocol visit of Prime Minister John Carter on 2025-03-11 at 10:00 (Conference Room A).",
		aws.ToString(in.Message))
}

func TestSNSNotifier_PublishFailure(t *testing.T) {
	throttled := errors.New("throttled")
	pub := &fakePublisher{err: throttled}
	n := NewSNSNotifier(pub, "arn", logger.NewNoOpLogger())

	err := n.NotifyEscort(context.Background(), maxVisit)
	require.Error(t, err)
	assert.ErrorIs(t, err, throttled)

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, "sns", stdErr.Metadata["channel"])
	assert.Contains(t, stdErr.Details, "visit-1")
	assert.Contains(t, stdErr.Details, "throttled")
}

func TestFormatMessage_OptionalFields(t *testing.T) {
	v := maxVisit
	v.Title = ""
	v.Location = ""
	assert.Equal(t,
		"Protocol Security Detail assigned to the maximum-protocol visit of John Carter on 2025-03-11 at 10:00.",
		FormatMessage(v))
}
