package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillRecord is one analyzed electricity bill, amounts already parsed from the model's strings.
type BillRecord struct {
	ID               string          `json:"id"`
	UserID           string          `json:"uid"`
	Date             time.Time       `json:"date"`
	TotalUnits       decimal.Decimal `json:"totalUnits"`
	PeakCharges      decimal.Decimal `json:"peakCharges"`
	FixedCharges     decimal.Decimal `json:"fixedCharges"`
	SavingsPotential decimal.Decimal `json:"savingsPotential"`
	Recommendations  []string        `json:"recommendations"`
	Model            string          `json:"model,omitempty"`
	MediaURL         string          `json:"mediaUrl,omitempty"`
}

// EnergyLog is one point of the cost vs. prediction chart.
type EnergyLog struct {
	ID               string          `json:"id"`
	UserID           string          `json:"uid"`
	Date             time.Time       `json:"date"`
	Name             string          `json:"name"`
	Units            decimal.Decimal `json:"units"`
	ActualCost       decimal.Decimal `json:"actualCost"`
	PredictedCost    decimal.Decimal `json:"predictedCost"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
}
