// Package notify tells a company when a candidate submits to one of its
// challenges: an SES email to the company and an SNS event on a topic.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	awsclients "hiring-platform/internal/common/aws"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/metrics"
	"hiring-platform/internal/models"
)

const (
	ChannelEmail = "email"
	ChannelSNS   = "sns"

	EventSubmissionCreated = "submission.created"
)

var ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")

type Config struct {
	FromEmail string
	TopicARN  string
	Timeout   time.Duration
}

// Notifier sends on every channel whose client is non-nil.
type Notifier struct {
	config Config
	ses    awsclients.SESService
	sns    awsclients.SNSService
	logger logger.Logger
}

func NewNotifier(cfg Config, sesClient awsclients.SESService, snsClient awsclients.SNSService, log logger.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Notifier{
		config: cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// NotifySubmission returns an error only when every configured channel
// failed; the returned Notification is always populated.
func (n *Notifier) NotifySubmission(ctx context.Context, event models.SubmissionEvent) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	if event.EventType == "" {
		event.EventType = EventSubmissionCreated
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	notification := &models.Notification{
		ID:        uuid.NewString(),
		Recipient: event.CompanyEmail,
		Channels:  []string{},
	}

	attempted, failed := 0, 0
	var errs []error

	if n.ses != nil && event.CompanyEmail != "" {
		attempted++
		if err := n.sendEmail(ctx, event); err != nil {
			failed++
			errs = append(errs, fmt.Errorf("%s: %w", ChannelEmail, err))
			n.record(ChannelEmail, err)
		} else {
			notification.Channels = append(notification.Channels, ChannelEmail)
			n.record(ChannelEmail, nil)
		}
	}

	if n.sns != nil && n.config.TopicARN != "" {
		attempted++
		if err := n.publishEvent(ctx, event); err != nil {
			failed++
			errs = append(errs, fmt.Errorf("%s: %w", ChannelSNS, err))
			n.record(ChannelSNS, err)
		} else {
			notification.Channels = append(notification.Channels, ChannelSNS)
			n.record(ChannelSNS, nil)
		}
	}

	notification.SentAt = time.Now().UTC().Format(time.RFC3339)
	switch {
	case attempted == 0:
		notification.Status = models.NotificationStatusDisabled
	case failed == 0:
		notification.Status = models.NotificationStatusSent
	case failed < attempted:
		notification.Status = models.NotificationStatusPartial
	default:
		notification.Status = models.NotificationStatusFailed
	}

	n.logger.Info("submission notification processed", map[string]interface{}{
		"notificationId": notification.ID,
		"submissionId":   event.SubmissionID,
		"status":         notification.Status,
		"channels":       notification.Channels,
	})

	if notification.Status == models.NotificationStatusFailed {
		return notification, fmt.Errorf("%w: %v", ErrNotificationSendFailed, errors.Join(errs...))
	}
	return notification, nil
}

func (n *Notifier) sendEmail(ctx context.Context, event models.SubmissionEvent) error {
	subject, body := renderSubmissionEmail(event)
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{event.CompanyEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) publishEvent(ctx context.Context, event models.SubmissionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.EventType),
			},
		},
	})
	return err
}

func (n *Notifier) record(channel string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
		n.logger.Error("notification channel failed", map[string]interface{}{
			"channel": channel,
			"error":   err.Error(),
		})
	}
	metrics.NotificationsSent.WithLabelValues(channel, status).Inc()
}

func renderSubmissionEmail(event models.SubmissionEvent) (string, string) {
	subject := fmt.Sprintf("New submission for %q", event.ChallengeTitle)
	body := fmt.Sprintf(
		"A candidate (%s) submitted an answer to your challenge %q.\n\nSubmission ID: %d\nSubmitted at: %s\n",
		event.CandidateEmail, event.ChallengeTitle, event.SubmissionID, event.OccurredAt,
	)
	return subject, body
}
