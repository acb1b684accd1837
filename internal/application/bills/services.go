package bills

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/millwatt/internal/application"
	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/application/audit"
	"github.com/bryanwahyu/millwatt/internal/application/trend"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/records"
)

// Analyzer is the part of the pipeline this use case needs.
type Analyzer interface {
	RunBillAnalysis(ctx context.Context, imageBytes []byte, mimeType string, locale ai.Locale) (*ai.BillAnalysisResult, appai.Meta, error)
}

// Service implements the bill scan use case.
type Service struct {
	Analyzer  Analyzer
	Records   records.Repository
	Audit     *audit.Recorder
	Baselines trend.Baselines
	Clock     application.Clock
	Logger    zerolog.Logger
}

type ScanCommand struct {
	UserID   string
	Image    []byte
	MimeType string
	Locale   ai.Locale
}

type ScanResult struct {
	Result     *ai.BillAnalysisResult `json:"result"`
	Comparison *trend.Comparison      `json:"comparison,omitempty"`
	appai.Meta
	BillID string `json:"billId,omitempty"`
}

// Scan analyzes the bill, compares it with the user's latest bill and stores it.
// Only the analysis can fail the call; storage problems are logged.
func (s *Service) Scan(ctx context.Context, cmd ScanCommand) (*ScanResult, error) {
	log := s.Logger.With().Str("uid", cmd.UserID).Logger()

	res, meta, err := s.Analyzer.RunBillAnalysis(ctx, cmd.Image, cmd.MimeType, cmd.Locale)
	if err != nil {
		s.Audit.Failure(ctx, cmd.UserID, ai.KindBill, err, s.Clock.Now())
		return nil, err
	}
	out := &ScanResult{Result: res, Meta: meta}
	now := s.Clock.Now()

	current, perr := trend.ParseAmount(res.TotalConsumption)
	if perr != nil {
		log.Warn().Err(perr).Str("total_consumption", res.TotalConsumption).Msg("skip trend comparison")
	}
	if cmd.UserID == "" {
		if perr == nil {
			cmp := trend.Compare(current, nil, s.Baselines)
			out.Comparison = &cmp
		}
		return out, nil
	}

	if perr == nil {
		last, err := s.Records.LatestBill(ctx, cmd.UserID)
		if err != nil {
			log.Error().Err(err).Msg("load latest bill")
		} else {
			cmp := trend.Compare(current, last, s.Baselines)
			out.Comparison = &cmp
		}
	}

	bill := &records.BillRecord{
		ID:               uuid.New().String(),
		UserID:           cmd.UserID,
		Date:             now,
		TotalUnits:       current,
		PeakCharges:      trend.ParseAmountOrZero(res.PeakCharges),
		FixedCharges:     trend.ParseAmountOrZero(res.FixedCharges),
		SavingsPotential: trend.ParseAmountOrZero(res.SavingsPotential),
		Recommendations:  res.Recommendations,
		Model:            meta.Model,
	}
	bill.MediaURL = s.Audit.ArchiveMedia(ctx, cmd.UserID, ai.KindBill, bill.ID, cmd.Image, cmd.MimeType)

	if err := s.Records.SaveBill(ctx, bill); err != nil {
		log.Error().Err(err).Msg("save bill")
	} else {
		out.BillID = bill.ID
		if err := s.Records.SaveEnergyLog(ctx, EnergyLogFor(bill)); err != nil {
			log.Error().Err(err).Msg("save energy log")
		}
	}

	s.Audit.Success(ctx, cmd.UserID, ai.KindBill, meta, bill.MediaURL, res, now)
	return out, nil
}

// EnergyLogFor derives the chart point of a bill: actual = peak + fixed,
// predicted = actual - savings.
func EnergyLogFor(b *records.BillRecord) *records.EnergyLog {
	actual := b.PeakCharges.Add(b.FixedCharges)
	return &records.EnergyLog{
		ID:               uuid.New().String(),
		UserID:           b.UserID,
		Date:             b.Date,
		Name:             b.Date.Format("Jan 2006"),
		Units:            b.TotalUnits,
		ActualCost:       actual,
		PredictedCost:    actual.Sub(b.SavingsPotential),
		PotentialSavings: b.SavingsPotential,
	}
}
