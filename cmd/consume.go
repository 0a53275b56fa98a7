package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsclient "github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/aws"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/notify"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/realtime"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/scheduler"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the change feed consumer and the reminder scheduler",
	Long: `Consumes row change events from the Pulsar change feed topic to invalidate cached
list queries and keep reminder timers in step with their follow-ups, meetings, to-dos and
tickets. Reminders are delivered in-app, and by email and SMS when enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := loadConfig(); err != nil {
			return err
		}

		// This process only reads the change feed, it does not publish to it
		if err := openDB(events.NopNotifier{}); err != nil {
			return err
		}
		defer crmDB.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dispatcher := &notify.Dispatcher{Store: crmDB}
		if appCfg.Reminders.Email || appCfg.Reminders.SMS {
			awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
			if err != nil {
				return err
			}
			if appCfg.Reminders.Email {
				if appCfg.AWS.SenderEmail == "" {
					return fmt.Errorf("reminders.email requires aws.senderEmail")
				}
				dispatcher.Email = awsclient.NewSESClient(awsCfg)
				dispatcher.Sender = appCfg.AWS.SenderEmail
			}
			if appCfg.Reminders.SMS {
				dispatcher.SMS = awsclient.NewSNSClient(awsCfg)
			}
		}

		reminders := scheduler.New(crmDB, dispatcher, &log.Logger)
		reminders.PollInterval = appCfg.Reminders.PollInterval
		reminders.Lookahead = appCfg.Reminders.Lookahead
		reminders.Grace = appCfg.Reminders.Grace
		reminders.Start(ctx)
		defer reminders.Stop()

		handler := &realtime.Handler{Cache: cache.Nop{}, Reminders: reminders}
		if appCfg.Redis.Addr != "" {
			redisCache := cache.NewRedis(appCfg.Redis.Addr, appCfg.Redis.Password, appCfg.Redis.DB, appCfg.Redis.TTL)
			defer redisCache.Close()
			handler.Cache = redisCache
		}

		if appCfg.Pulsar.URL == "" {
			log.Warn().Msg("pulsar.url not set, running the reminder scheduler only")
			<-ctx.Done()
			return nil
		}

		// Initialize event consumer
		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.Topic, appCfg.Pulsar.Subscription)
		if err != nil {
			return fmt.Errorf("failed to initialize event consumer: %w", err)
		}
		defer consumer.Close()

		log.Info().Str("topic", appCfg.Pulsar.Topic).Str("subscription", appCfg.Pulsar.Subscription).
			Msg("Waiting for change events...")
		return events.Consume(ctx, consumer, handler.Handle)
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
