package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/rs/zerolog"
)

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Features are the lead attributes a score is computed from.
type Features struct {
	Status             string     `json:"status"`
	Source             string     `json:"source"`
	DealValue          float64    `json:"dealValue"`
	LastContactedAt    *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	CompletedFollowUps int        `json:"completedFollowUps"`
	HeldMeetings       int        `json:"heldMeetings"`
}

// FeaturesOf collects the scoring features of a lead.
func FeaturesOf(l models.Lead, a models.LeadActivity) Features {
	return Features{
		Status:             l.Status,
		Source:             l.Source,
		DealValue:          l.DealValue,
		LastContactedAt:    l.LastContactedAt,
		CreatedAt:          l.CreatedAt,
		CompletedFollowUps: a.CompletedFollowUps,
		HeldMeetings:       a.HeldMeetings,
	}
}

// Result is a lead score with its temperature.
type Result struct {
	Score       int    `json:"score"`
	Temperature string `json:"temperature"`
	Source      string `json:"source"`
}

var sourcePoints = map[string]int{
	models.LeadSourceReferral: 20,
	models.LeadSourceWebsite:  15,
	models.LeadSourceEvent:    12,
	models.LeadSourceCampaign: 10,
	models.LeadSourceSocial:   8,
	models.LeadSourceColdCall: 5,
}

var statusPoints = map[string]int{
	models.LeadStatusContacted:   5,
	models.LeadStatusQualified:   10,
	models.LeadStatusProposal:    15,
	models.LeadStatusNegotiation: 20,
}

// Temperature classifies a score.
func Temperature(score int) string {
	switch {
	case score >= 70:
		return models.TemperatureHot
	case score >= 40:
		return models.TemperatureWarm
	default:
		return models.TemperatureCold
	}
}

// Local scores a lead with the built-in heuristic.
func Local(f Features, now time.Time) Result {
	switch f.Status {
	case models.LeadStatusWon:
		return Result{Score: 100, Temperature: models.TemperatureHot, Source: SourceLocal}
	case models.LeadStatusLost:
		return Result{Score: 0, Temperature: models.TemperatureCold, Source: SourceLocal}
	}

	score := sourcePoints[f.Source] + statusPoints[f.Status] + dealPoints(f.DealValue)
	score += recencyPoints(f, now)
	score += min(f.CompletedFollowUps*5, 20)
	score += min(f.HeldMeetings*10, 20)

	score = clamp(score)
	return Result{Score: score, Temperature: Temperature(score), Source: SourceLocal}
}

func dealPoints(value float64) int {
	switch {
	case value >= 1_000_000:
		return 25
	case value >= 500_000:
		return 20
	case value >= 100_000:
		return 15
	case value >= 10_000:
		return 10
	case value > 0:
		return 5
	default:
		return 0
	}
}

func recencyPoints(f Features, now time.Time) int {
	const day = 24 * time.Hour

	if f.LastContactedAt == nil {
		if !f.CreatedAt.IsZero() && now.Sub(f.CreatedAt) > 14*day {
			return -10
		}
		return 0
	}

	since := now.Sub(*f.LastContactedAt)
	switch {
	case since <= 3*day:
		return 15
	case since <= 7*day:
		return 10
	case since <= 30*day:
		return 5
	default:
		return -10
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Remote computes scores in the backend service.
type Remote interface {
	ScoreLead(ctx context.Context, f Features) (Result, error)
}

// Scorer asks the backend first and falls back to the local heuristic.
type Scorer struct {
	Remote Remote
	Now    func() time.Time
}

func (s *Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Score computes the score and temperature of a lead. It never fails: any problem
// with the backend answer is logged and the local heuristic is used instead.
func (s *Scorer) Score(ctx context.Context, f Features) Result {
	logger := zerolog.Ctx(ctx)

	if s.Remote == nil {
		return Local(f, s.now())
	}

	res, err := s.Remote.ScoreLead(ctx, f)
	if err == nil {
		err = validate(res)
	}
	if err != nil {
		reason := "error"
		if ctx.Err() != nil {
			reason = "timeout"
		} else if _, ok := err.(rangeError); ok {
			reason = "out_of_range"
		}
		logger.Warn().Err(err).Str("reason", reason).Msg("backend scoring failed, using local heuristic")
		metrics.ScoringFallbacks.WithLabelValues(reason).Inc()
		return Local(f, s.now())
	}

	// Closed leads are fixed regardless of what the backend says.
	if f.Status == models.LeadStatusWon || f.Status == models.LeadStatusLost {
		return Local(f, s.now())
	}

	res.Source = SourceRemote
	res.Temperature = Temperature(res.Score)
	return res
}

type rangeError struct{ score int }

func (e rangeError) Error() string {
	return fmt.Sprintf("score %d out of range", e.score)
}

func validate(res Result) error {
	if res.Score < 0 || res.Score > 100 {
		return rangeError{score: res.Score}
	}
	return nil
}
