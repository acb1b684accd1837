// Package analytics serves the energy chart series and the report data
// built from the user's stored bills and energy logs.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/millwatt/internal/application"
	"github.com/bryanwahyu/millwatt/internal/domain/identity"
	"github.com/bryanwahyu/millwatt/internal/domain/records"
)

// SeriesLimit is the number of energy logs shown on the chart.
const SeriesLimit = 6

// DefaultCompanyName is used in reports when the profile has none.
const DefaultCompanyName = "Your Factory"

var ErrInvalidEntry = errors.New("invalid energy log entry")

// Samples is what users without history see.
type Samples struct {
	TotalUnits    decimal.Decimal
	PeakPenalties decimal.Decimal
}

func DefaultSamples() Samples {
	return Samples{
		TotalUnits:    decimal.NewFromInt(12500),
		PeakPenalties: decimal.NewFromInt(45000),
	}
}

// SampleSeries returns the four-week demonstration series.
func SampleSeries() []*records.EnergyLog {
	rows := [][3]int64{
		{45000, 44000, 2000},
		{52000, 48000, 4000},
		{49000, 47000, 3500},
		{58000, 51000, 7000},
	}
	out := make([]*records.EnergyLog, 0, len(rows))
	for i, r := range rows {
		out = append(out, &records.EnergyLog{
			Name:             fmt.Sprintf("Week %d", i+1),
			ActualCost:       decimal.NewFromInt(r[0]),
			PredictedCost:    decimal.NewFromInt(r[1]),
			PotentialSavings: decimal.NewFromInt(r[2]),
		})
	}
	return out
}

// SampleActionPlan is the report action plan when no bill was analyzed yet.
func SampleActionPlan() []string {
	return []string{
		"Shift 20% load to 10 PM - 5 AM to save ₹15,000.",
		"Inspect Motor #4 for bearing faults (found by Acoustic AI).",
		"Optimize compressor usage during peak hours.",
	}
}

type Service struct {
	Records records.Repository
	Users   identity.Repository
	Samples Samples
	Clock   application.Clock
}

type Series struct {
	Points []*records.EnergyLog `json:"points"`
	Sample bool                 `json:"sample"`
}

// EnergySeries returns the latest logs oldest first, or the sample series.
func (s *Service) EnergySeries(ctx context.Context, uid string) (*Series, error) {
	logs, err := s.Records.RecentEnergyLogs(ctx, uid, SeriesLimit)
	if err != nil {
		return nil, fmt.Errorf("load energy logs: %w", err)
	}
	if len(logs) == 0 {
		return &Series{Points: SampleSeries(), Sample: true}, nil
	}
	return &Series{Points: logs}, nil
}

type LogEntry struct {
	Date             time.Time       `json:"date"`
	Name             string          `json:"name"`
	Units            decimal.Decimal `json:"units"`
	ActualCost       decimal.Decimal `json:"actualCost"`
	PredictedCost    decimal.Decimal `json:"predictedCost"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
}

// RecordEnergy stores a manually entered energy log.
func (s *Service) RecordEnergy(ctx context.Context, uid string, in LogEntry) (*records.EnergyLog, error) {
	for name, v := range map[string]decimal.Decimal{
		"units":            in.Units,
		"actualCost":       in.ActualCost,
		"predictedCost":    in.PredictedCost,
		"potentialSavings": in.PotentialSavings,
	} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidEntry, name)
		}
	}
	date := in.Date
	if date.IsZero() {
		date = s.Clock.Now()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = date.Format("Jan 2006")
	}
	l := &records.EnergyLog{
		ID:               uuid.New().String(),
		UserID:           uid,
		Date:             date,
		Name:             name,
		Units:            in.Units,
		ActualCost:       in.ActualCost,
		PredictedCost:    in.PredictedCost,
		PotentialSavings: in.PotentialSavings,
	}
	if err := s.Records.SaveEnergyLog(ctx, l); err != nil {
		return nil, fmt.Errorf("save energy log: %w", err)
	}
	return l, nil
}

type Report struct {
	CompanyName   string          `json:"companyName"`
	TotalUnits    decimal.Decimal `json:"totalUnits"`
	PeakPenalties decimal.Decimal `json:"peakPenalties"`
	ActionPlan    []string        `json:"actionPlan"`
	Sample        bool            `json:"sample"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// Report gathers the report data. The four lookups run concurrently.
func (s *Service) Report(ctx context.Context, uid string) (*Report, error) {
	var (
		user      *identity.User
		logs      []*records.EnergyLog
		billCount int
		peakTotal decimal.Decimal
		latest    *records.BillRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.Users.GetUser(gctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.Records.RecentEnergyLogs(gctx, uid, SeriesLimit)
		return err
	})
	g.Go(func() error {
		var err error
		billCount, peakTotal, err = s.Records.PeakChargesTotal(gctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.Records.LatestBill(gctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	r := &Report{CompanyName: DefaultCompanyName, GeneratedAt: s.Clock.Now()}
	if user != nil && strings.TrimSpace(user.CompanyName) != "" {
		r.CompanyName = user.CompanyName
	}

	if len(logs) == 0 {
		r.Sample = true
		r.TotalUnits = s.Samples.TotalUnits
	} else {
		for _, l := range logs {
			r.TotalUnits = r.TotalUnits.Add(l.Units)
		}
	}

	if billCount > 0 {
		r.PeakPenalties = peakTotal
	} else {
		r.PeakPenalties = s.Samples.PeakPenalties
	}

	if latest != nil && len(latest.Recommendations) > 0 {
		r.ActionPlan = latest.Recommendations
	} else {
		r.ActionPlan = SampleActionPlan()
	}
	return r, nil
}
