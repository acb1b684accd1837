package prompt

import "github.com/bryanwahyu/millwatt/internal/domain/ai"

const (
	AudioEnglish = "Analyze this machine audio. Return JSON: { status: 'Healthy' | 'Warning' | 'Critical', healthScore: number (0-100), description: 'technical diagnosis', maintenanceTips: ['step 1'] }."
	AudioTamil   = "இந்த இயந்திர ஒலியை கேளுங்கள். முடிவு JSON: { status: 'Healthy' | 'Warning' | 'Critical', healthScore: number (0-100), description: 'விளக்கம்', maintenanceTips: [] }."
)

// Audio selects the diagnosis instruction for locale.
func Audio(locale ai.Locale) string {
	if locale == ai.LocaleTamil {
		return AudioTamil
	}
	return AudioEnglish
}

// Templates exposes the fixed templates to the pipeline service.
type Templates struct{}

func (Templates) Bill(locale ai.Locale) string  { return Bill(locale) }
func (Templates) Audio(locale ai.Locale) string { return Audio(locale) }
func (Templates) Version() string               { return Version }
