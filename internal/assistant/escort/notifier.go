// Package escort announces escort assignments for maximum-protocol visits.
package escort

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	apperrors "assistant-console/internal/common/errors"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/models"
)

// Publisher is the subset of the SNS API the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes one message per escort assignment to a topic.
type SNSNotifier struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewSNSNotifier(publisher Publisher, topicARN string, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{
		publisher: publisher,
		topicARN:  topicARN,
		logger:    log.WithFields(map[string]interface{}{"component": "escort-notifier"}),
	}
}

// NotifyEscort publishes the assignment for visit.
func (n *SNSNotifier) NotifyEscort(ctx context.Context, visit models.VIPVisit) error {
	out, err := n.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("VIP escort assignment"),
		Message:  aws.String(FormatMessage(visit)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"protocolLevel": {DataType: aws.String("String"), StringValue: aws.String(string(visit.ProtocolLevel))},
			"visitId":       {DataType: aws.String("String"), StringValue: aws.String(visit.ID)},
		},
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError("sns",
			fmt.Errorf("publish escort assignment for %s: %w", visit.ID, err))
	}

	n.logger.Info("escort assignment published", map[string]interface{}{
		"visitId":   visit.ID,
		"messageId": aws.ToString(out.MessageId),
	})
	return nil
}

// FormatMessage renders the alert text for visit.
func FormatMessage(visit models.VIPVisit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s assigned to the %s-protocol visit of ", visit.AssignedEscort, visit.ProtocolLevel)
	if visit.Title != "" {
		b.WriteString(visit.Title + " ")
	}
	fmt.Fprintf(&b, "%s on %s at %s", visit.Visitor, visit.Date, visit.Time)
	if visit.Location != "" {
		fmt.Fprintf(&b, " (%s)", visit.Location)
	}
	b.WriteString(".")
	return b.String()
}
