package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Table names used in change events and cache keys.
const (
	TableProfiles      = "profiles"
	TableClients       = "clients"
	TableLeads         = "leads"
	TableFollowUps     = "follow_ups"
	TableMeetings      = "meetings"
	TableAttendance    = "attendance"
	TableDailyReports  = "daily_reports"
	TableTodos         = "todos"
	TableTickets       = "tickets"
	TableNotifications = "notifications"
	TableHubContent    = "hub_content"
)

// Cached lists that embed or filter on rows of another table.
var dependents = map[string][]string{
	TableClients:  {TableLeads, TableTickets},
	TableLeads:    {TableFollowUps, TableMeetings},
	TableProfiles: {TableLeads},
}

// AffectedTables returns the tables plus every table whose cached lists depend on
// them, without duplicates.
func AffectedTables(tables ...string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range tables {
		add(t)
		for _, d := range dependents[t] {
			add(d)
		}
	}
	return out
}

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("record already exists")

type CRMDB struct {
	DB     *sql.DB
	Events events.Notifier
	Log    *zerolog.Logger
}

// NewCRMDB is a constructor that initializes CRMDB with DB and Log
func NewCRMDB(events events.Notifier, log *zerolog.Logger) (*CRMDB, error) {
	// Get the database connection string from the environment
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Error().Msg("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	// Open the database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		return nil, err
	}

	return &CRMDB{
		DB:     db,
		Events: events,
		Log:    log,
	}, nil
}

func (w *CRMDB) Close() error {
	if err := w.DB.Close(); err != nil {
		return err
	}
	w.Log.Info().Msg("database connection closed")

	if w.Events != nil {
		w.Events.Close()
		w.Log.Info().Msg("event publisher closed")
	}
	w.DB = nil
	w.Events = nil

	return nil
}

// Ping checks the database is reachable.
func (w *CRMDB) Ping(ctx context.Context) error {
	return w.DB.PingContext(ctx)
}

// Migrate applies the embedded goose migrations.
func (w *CRMDB) Migrate() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}
	if err := goose.Up(w.DB, "migrations"); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}
	return nil
}

func (w *CRMDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) error {

	if w.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// CommitTransaction commits tx, rolling it back if the commit fails.
func (w *CRMDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return err
	}
	return nil
}

// notify publishes committed changes. Failures are logged and do not fail the write.
func (w *CRMDB) notify(ctx context.Context, changes ...events.ChangeEvent) {
	if w.Events == nil {
		return
	}
	for _, change := range changes {
		if change.Timestamp.IsZero() {
			change.Timestamp = time.Now().UTC()
		}
		if err := w.Events.Notify(ctx, change); err != nil {
			w.Log.Warn().Err(err).Str("table", change.Table).Str("action", change.Action).
				Str("record_id", change.RecordID.String()).Msg("failed to publish change event")
		}
	}
}

// conflictOr maps unique violations to ErrConflict and wraps everything else.
func conflictOr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// where collects numbered predicates for a filtered listing.
type where struct {
	conds []string
	args  []interface{}
}

// add appends a predicate. cond must contain one %d for the placeholder index.
func (q *where) add(cond string, arg interface{}) {
	q.args = append(q.args, arg)
	q.conds = append(q.conds, fmt.Sprintf(cond, len(q.args)))
}

func (q *where) String() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// page appends LIMIT and OFFSET placeholders when limit is set.
func (q *where) page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	q.args = append(q.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(q.args)-1, len(q.args))
}
