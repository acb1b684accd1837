package prompt

import "github.com/bryanwahyu/millwatt/internal/domain/ai"

// Version identifies the revision of the templates below. Changing tariff numbers
// or wording bumps it; the JSON shape the templates ask for stays fixed.
const Version = "2026.1"

const billTemplate = `
    Analyze this TANGEDCO electricity bill for a Coimbatore industrial unit. 
    Strictly use these 2026 Rates:
    - Normal Hours: ₹7.50 / unit
    - Peak Hours (06:00-10:00 & 18:00-22:00): ₹9.38 / unit (25% surcharge)
    - Night Hours (22:00-05:00): ₹7.13 / unit (5% discount)

    Extract/Calculate:
    1. Total Consumption (Units)
    2. Peak Hour Charges (if not explicitly shown, calculate based on ~25% usage or provided data)
    3. Fixed Charges/Demand Charges
    4. Savings Potential: Calculate cost difference if 20% of Peak Load (₹9.38) is shifted to Night Hours (₹7.13). Saving = (PeakUnits * 0.20) * (9.38 - 7.13).

    Output JSON Only: 
    { "totalConsumption": "value units", "peakCharges": "₹value", "fixedCharges": "₹value", "savingsPotential": "₹value", "recommendations": ["Technical action 1", "Technical action 2"] }
    `

// Bill returns the bill analysis instruction. The locale does not change it.
func Bill(_ ai.Locale) string {
	return billTemplate
}
