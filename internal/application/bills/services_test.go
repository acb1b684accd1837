package bills

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/millwatt/internal/application"
	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/application/audit"
	"github.com/bryanwahyu/millwatt/internal/application/trend"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/analysis"
	"github.com/bryanwahyu/millwatt/internal/domain/records"
)

type stubAnalyzer struct {
	res  *ai.BillAnalysisResult
	meta appai.Meta
	err  error
}

func (s stubAnalyzer) RunBillAnalysis(context.Context, []byte, string, ai.Locale) (*ai.BillAnalysisResult, appai.Meta, error) {
	return s.res, s.meta, s.err
}

type memRecords struct {
	bills   []*records.BillRecord
	logs    []*records.EnergyLog
	saveErr error
}

func (m *memRecords) SaveBill(_ context.Context, b *records.BillRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bills = append(m.bills, b)
	return nil
}

func (m *memRecords) LatestBill(context.Context, string) (*records.BillRecord, error) {
	if len(m.bills) == 0 {
		return nil, nil
	}
	return m.bills[len(m.bills)-1], nil
}

func (m *memRecords) PeakChargesTotal(context.Context, string) (int, decimal.Decimal, error) {
	return len(m.bills), decimal.Zero, nil
}

func (m *memRecords) SaveEnergyLog(_ context.Context, l *records.EnergyLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func (m *memRecords) RecentEnergyLogs(context.Context, string, int) ([]*records.EnergyLog, error) {
	return m.logs, nil
}

type memAudit struct {
	saved    []*analysis.Analysis
	failures []*analysis.Failure
}

func (m *memAudit) Save(_ context.Context, a *analysis.Analysis) error {
	m.saved = append(m.saved, a)
	return nil
}

func (m *memAudit) Paginate(context.Context, string, int, int) ([]*analysis.Analysis, error) {
	return m.saved, nil
}

func (m *memAudit) SaveFailure(_ context.Context, f *analysis.Failure) error {
	m.failures = append(m.failures, f)
	return nil
}

type memArchive struct{ keys []string }

func (m *memArchive) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	m.keys = append(m.keys, key)
	return "http://minio/media/" + key, nil
}

var billResult = &ai.BillAnalysisResult{
	TotalConsumption: "1,200 units",
	PeakCharges:      "₹5,000",
	FixedCharges:     "₹2,000",
	SavingsPotential: "₹1,500",
	Recommendations:  []string{"Shift load to night hours"},
}

func newService(an Analyzer, rec *memRecords, aud *memAudit, arc records.MediaArchive) *Service {
	return &Service{
		Analyzer:  an,
		Records:   rec,
		Audit:     &audit.Recorder{Repo: aud, Archive: arc, Logger: zerolog.Nop()},
		Baselines: trend.DefaultBaselines(),
		Clock:     application.FixedClock{T: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)},
		Logger:    zerolog.Nop(),
	}
}

func TestScan_PersistsBillAndEnergyLog(t *testing.T) {
	rec := &memRecords{bills: []*records.BillRecord{{ID: "old", TotalUnits: decimal.NewFromInt(1000)}}}
	aud := &memAudit{}
	arc := &memArchive{}
	svc := newService(stubAnalyzer{res: billResult, meta: appai.Meta{Model: "gemini-2.5-flash", Attempts: 1, PromptVersion: "v"}}, rec, aud, arc)

	out, err := svc.Scan(context.Background(), ScanCommand{UserID: "u1", Image: []byte("img"), MimeType: "image/jpeg", Locale: ai.LocaleEnglish})
	require.NoError(t, err)

	assert.Equal(t, billResult, out.Result)
	assert.Equal(t, &trend.Comparison{Trend: trend.Increased, Percent: "20.0%"}, out.Comparison)
	assert.Equal(t, "gemini-2.5-flash", out.Model)
	assert.NotEmpty(t, out.BillID)

	require.Len(t, rec.bills, 2)
	saved := rec.bills[1]
	assert.True(t, decimal.NewFromInt(1200).Equal(saved.TotalUnits))
	assert.True(t, decimal.NewFromInt(5000).Equal(saved.PeakCharges))
	assert.Equal(t, "http://minio/media/u1/bill/"+saved.ID+".jpg", saved.MediaURL)

	require.Len(t, rec.logs, 1)
	l := rec.logs[0]
	assert.Equal(t, "Mar 2026", l.Name)
	assert.True(t, decimal.NewFromInt(7000).Equal(l.ActualCost), l.ActualCost.String())
	assert.True(t, decimal.NewFromInt(5500).Equal(l.PredictedCost), l.PredictedCost.String())
	assert.True(t, decimal.NewFromInt(1500).Equal(l.PotentialSavings))

	require.Len(t, aud.saved, 1)
	assert.Equal(t, "bill", aud.saved[0].Kind)
	assert.Contains(t, aud.saved[0].Result, "Shift load to night hours")
}

func TestScan_FirstBillComparesWithAverage(t *testing.T) {
	rec := &memRecords{}
	svc := newService(stubAnalyzer{res: billResult}, rec, &memAudit{}, nil)

	out, err := svc.Scan(context.Background(), ScanCommand{UserID: "u1", Image: []byte("img"), MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, trend.BelowAvg, out.Comparison.Trend)
	assert.Equal(t, "88.0%", out.Comparison.Percent)
	assert.Empty(t, rec.bills[0].MediaURL)
}

func TestScan_PipelineErrorIsRecorded(t *testing.T) {
	aud := &memAudit{}
	rec := &memRecords{}
	cause := &ai.Error{Kind: ai.KindExhausted, Op: "bill", Model: "m2", Attempts: 2, Err: ai.ErrQuotaExceeded}
	svc := newService(stubAnalyzer{err: cause}, rec, aud, &memArchive{})

	_, err := svc.Scan(context.Background(), ScanCommand{UserID: "u1", Image: []byte("img"), MimeType: "image/png"})
	assert.ErrorIs(t, err, ai.ErrExhausted)
	assert.Empty(t, rec.bills)
	require.Len(t, aud.failures, 1)
	f := aud.failures[0]
	assert.Equal(t, "exhausted_candidates", f.ErrorKind)
	assert.Equal(t, "m2", f.Model)
	assert.Equal(t, 2, f.Attempts)
}

func TestScan_StorageFailureKeepsResult(t *testing.T) {
	rec := &memRecords{saveErr: errors.New("db down")}
	svc := newService(stubAnalyzer{res: billResult}, rec, &memAudit{}, nil)

	out, err := svc.Scan(context.Background(), ScanCommand{UserID: "u1", Image: []byte("img"), MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, billResult, out.Result)
	assert.Empty(t, out.BillID)
	assert.Empty(t, rec.logs)
}

func TestScan_UnparseableUnitsSkipComparison(t *testing.T) {
	res := *billResult
	res.TotalConsumption = "unreadable"
	rec := &memRecords{}
	svc := newService(stubAnalyzer{res: &res}, rec, &memAudit{}, nil)

	out, err := svc.Scan(context.Background(), ScanCommand{UserID: "u1", Image: []byte("img"), MimeType: "image/png"})
	require.NoError(t, err)
	assert.Nil(t, out.Comparison)
	require.Len(t, rec.bills, 1)
	assert.True(t, rec.bills[0].TotalUnits.IsZero())
}
