package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Store claims reminders and looks up their recipients.
type Store interface {
	MarkDelivered(ctx context.Context, n models.Notification, at time.Time) (bool, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

// EmailSender is satisfied by *sesv2.Client.
type EmailSender interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SMSSender is satisfied by *sns.Client.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput, opts ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Dispatcher delivers fired reminders. The in-app copy is the notification row
// itself, marked delivered; email and SMS copies are sent when configured.
type Dispatcher struct {
	Store  Store
	Email  EmailSender
	SMS    SMSSender
	Sender string
	Now    func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Dispatch claims the notification and fans it out. A notification that was
// cancelled or already delivered is skipped without error.
func (d *Dispatcher) Dispatch(ctx context.Context, n models.Notification) error {
	logger := zerolog.Ctx(ctx)

	claimed, err := d.Store.MarkDelivered(ctx, n, d.now())
	if err != nil {
		metrics.RemindersDispatched.WithLabelValues(ChannelInApp, "error").Inc()
		return fmt.Errorf("error marking notification %s delivered: %w", n.ID, err)
	}
	if !claimed {
		logger.Debug().Str("notification_id", n.ID.String()).Msg("reminder already delivered or cancelled")
		metrics.RemindersDispatched.WithLabelValues(ChannelInApp, "skipped").Inc()
		return nil
	}
	metrics.RemindersDispatched.WithLabelValues(ChannelInApp, "ok").Inc()

	sendEmail := d.Email != nil && d.Sender != ""
	if !sendEmail && d.SMS == nil {
		return nil
	}

	profile, err := d.Store.GetProfile(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("error retrieving profile %s: %w", n.UserID, err)
	}
	if profile == nil {
		logger.Warn().Str("user_id", n.UserID.String()).Msg("reminder recipient has no profile")
		return nil
	}

	var errs []error
	if sendEmail && profile.Email != "" {
		errs = append(errs, d.track(ChannelEmail, d.sendEmail(ctx, profile.Email, n)))
	}
	if d.SMS != nil && profile.Phone != nil && *profile.Phone != "" {
		errs = append(errs, d.track(ChannelSMS, d.sendSMS(ctx, *profile.Phone, n)))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) track(channel string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RemindersDispatched.WithLabelValues(channel, outcome).Inc()
	return err
}

func (d *Dispatcher) sendEmail(ctx context.Context, to string, n models.Notification) error {
	_, err := d.Email.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(d.Sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(n.Title)},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(body(n))}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending reminder email: %w", err)
	}
	return nil
}

func (d *Dispatcher) sendSMS(ctx context.Context, phone string, n models.Notification) error {
	_, err := d.SMS.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(n.Title + ": " + body(n)),
	})
	if err != nil {
		return fmt.Errorf("error sending reminder SMS: %w", err)
	}
	return nil
}

func body(n models.Notification) string {
	if n.Message != "" {
		return n.Message
	}
	return fmt.Sprintf("Reminder for %s scheduled at %s", n.EntityType, n.ScheduledFor.UTC().Format(time.RFC1123))
}
