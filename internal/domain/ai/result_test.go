package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBillResult(t *testing.T) {
	raw := []byte(`{"totalConsumption":"1200 units","peakCharges":"₹500","fixedCharges":"₹200","savingsPotential":"₹150","recommendations":["Shift load","Fix PF"]}`)
	res, err := DecodeBillResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "1200 units", res.TotalConsumption)
	assert.Equal(t, []string{"Shift load", "Fix PF"}, res.Recommendations)
}

func TestDecodeBillResult_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing savingsPotential": `{"totalConsumption":"1","peakCharges":"2","fixedCharges":"3","recommendations":[]}`,
		"null field":               `{"totalConsumption":"1","peakCharges":null,"fixedCharges":"3","savingsPotential":"4","recommendations":[]}`,
		"wrong type":               `{"totalConsumption":1200,"peakCharges":"2","fixedCharges":"3","savingsPotential":"4","recommendations":[]}`,
		"recommendations string":   `{"totalConsumption":"1","peakCharges":"2","fixedCharges":"3","savingsPotential":"4","recommendations":"do it"}`,
		"array":                    `[]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := DecodeBillResult([]byte(raw))
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeAudioResult(t *testing.T) {
	res, err := DecodeAudioResult([]byte(`{"status":" critical ","healthScore":12,"description":"Cavitation","maintenanceTips":["Check inlet"]}`))
	require.NoError(t, err)
	assert.Equal(t, StatusCritical, res.Status)
	assert.Equal(t, 12, res.HealthScore)
}

func TestDecodeAudioResult_WholeFloatScore(t *testing.T) {
	for raw, want := range map[string]int{
		`{"status":"Warning","healthScore":85.0,"description":"d","maintenanceTips":[]}`: 85,
		`{"status":"Healthy","healthScore":1e2,"description":"d","maintenanceTips":[]}`:  100,
		`{"status":"Critical","healthScore":0,"description":"d","maintenanceTips":[]}`:   0,
	} {
		res, err := DecodeAudioResult([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, want, res.HealthScore)
	}
}

func TestDecodeAudioResult_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown status":  `{"status":"Fine","healthScore":50,"description":"d","maintenanceTips":[]}`,
		"score too high":  `{"status":"Healthy","healthScore":101,"description":"d","maintenanceTips":[]}`,
		"negative score":  `{"status":"Healthy","healthScore":-1,"description":"d","maintenanceTips":[]}`,
		"fractional":      `{"status":"Healthy","healthScore":50.5,"description":"d","maintenanceTips":[]}`,
		"missing tips":    `{"status":"Healthy","healthScore":50,"description":"d"}`,
		"string score":    `{"status":"Healthy","healthScore":"50","description":"d","maintenanceTips":[]}`,
		"not even object": `"Healthy"`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeAudioResult([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
