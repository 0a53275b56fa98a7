package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	host       string
	port       int

	appCfg *appconfig.Config
	crmDB  *db.CRMDB
)

var rootCmd = &cobra.Command{
	Use:   "crm-services",
	Short: "CRM Services",
	Long:  `CRM Services runs the sales, support and marketing API, its reminder scheduler and database migrations.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"path to the config file")
}

// loadConfig sets up logging and loads the config file.
func loadConfig() error {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.Setenv("DATABASE_URL", appCfg.Database.Source); err != nil {
		return fmt.Errorf("error setting DATABASE_URL: %w", err)
	}
	return nil
}

// openDB connects to the database. Change events from writes are sent to notifier.
func openDB(notifier events.Notifier) error {
	var err error
	crmDB, err = db.NewCRMDB(notifier, &log.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize CRMDB: %w", err)
	}
	return nil
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
