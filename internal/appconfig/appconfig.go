package appconfig

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host       string           `yaml:"host"`
	BasePath   string           `yaml:"basePath"`
	DocsPath   string           `yaml:"docsPath"`
	Database   DatabaseConfig   `yaml:"database"`
	Pulsar     PulsarConfig     `yaml:"pulsar"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	AWS        AWSConfig        `yaml:"aws"`
	Backend    BackendConfig    `yaml:"backend"`
	GenAI      GenAIConfig      `yaml:"genai"`
	Reminders  ReminderConfig   `yaml:"reminders"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Tunnel     TunnelConfig     `yaml:"tunnel"`
}

// DatabaseConfig defines the database connection details
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// PulsarConfig defines the change feed connection details
type PulsarConfig struct {
	URL          string `yaml:"url"`
	Topic        string `yaml:"topic"`
	Subscription string `yaml:"subscription"`
}

// RedisConfig defines the list query cache
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// AuthConfig defines how bearer tokens are checked. An empty secret disables
// signature verification and trusts the gateway in front of the service.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
	// SenderEmail is the SES identity reminder emails are sent from
	SenderEmail string `yaml:"senderEmail"`
	// SecretName optionally holds the backend and generative AI API keys
	SecretName string `yaml:"secretName"`
}

// BackendConfig defines the marketing, voice and scoring backend service
type BackendConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

// GenAIConfig defines the generative text API
type GenAIConfig struct {
	URL        string        `yaml:"url"`
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"apiKey"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxElapsed time.Duration `yaml:"maxElapsed"`
}

// ReminderConfig defines the reminder scheduler
type ReminderConfig struct {
	PollInterval time.Duration `yaml:"pollInterval"`
	Lookahead    time.Duration `yaml:"lookahead"`
	Grace        time.Duration `yaml:"grace"`
	Email        bool          `yaml:"email"`
	SMS          bool          `yaml:"sms"`
}

// AttendanceConfig defines when the working day starts
type AttendanceConfig struct {
	DayStart time.Duration `yaml:"dayStart"`
	Grace    time.Duration `yaml:"grace"`
	Timezone string        `yaml:"timezone"`
}

// WebhookConfig defines the shared secret of the inbound ticket webhook
type WebhookConfig struct {
	Secret string `yaml:"secret"`
}

// TunnelConfig defines an SSH tunnel to a private database host
type TunnelConfig struct {
	SSHUser        string `yaml:"sshUser"`
	SSHHost        string `yaml:"sshHost"`
	SSHPort        string `yaml:"sshPort"`
	RemoteHost     string `yaml:"remoteHost"`
	RemotePort     string `yaml:"remotePort"`
	LocalPort      string `yaml:"localPort"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
	KnownHostsPath string `yaml:"knownHostsPath"`
}

// LoadConfig loads and parses the configuration from a given file path.
// A .env file next to the working directory is loaded first if present.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		err := errors.New("config file path is required")
		log.Error().Err(err).Msg("config file not provided")
		return nil, err
	}

	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	return render(tmpl, loadEnvVars())
}

func render(tmpl *template.Template, envVars map[string]string) (*Config, error) {
	var buf bytes.Buffer
	if err := tmpl.Option("missingkey=zero").Execute(&buf, envVars); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	// Load and unmarshal the YAML
	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.DocsPath == "" {
		c.DocsPath = "/api/docs"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Pulsar.Topic == "" {
		c.Pulsar.Topic = "persistent://public/default/crm-changes"
	}
	if c.Pulsar.Subscription == "" {
		c.Pulsar.Subscription = "crm-realtime"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 5 * time.Minute
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.GenAI.URL == "" {
		c.GenAI.URL = "https://generativelanguage.googleapis.com"
	}
	if c.GenAI.Model == "" {
		c.GenAI.Model = "gemini-1.5-flash"
	}
	if c.GenAI.Timeout == 0 {
		c.GenAI.Timeout = 30 * time.Second
	}
	if c.GenAI.MaxElapsed == 0 {
		c.GenAI.MaxElapsed = time.Minute
	}
	if c.Reminders.PollInterval == 0 {
		c.Reminders.PollInterval = 5 * time.Minute
	}
	if c.Reminders.Lookahead == 0 {
		c.Reminders.Lookahead = time.Hour
	}
	if c.Reminders.Grace == 0 {
		c.Reminders.Grace = 15 * time.Minute
	}
	if c.Attendance.DayStart == 0 {
		c.Attendance.DayStart = 9 * time.Hour
	}
	if c.Attendance.Grace == 0 {
		c.Attendance.Grace = 15 * time.Minute
	}
	if c.Attendance.Timezone == "" {
		c.Attendance.Timezone = "UTC"
	}
}

// Location returns the timezone attendance days are counted in.
func (a AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", a.Timezone).Msg("unknown attendance timezone, using UTC")
		return time.UTC
	}
	return loc
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
