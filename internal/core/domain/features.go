package domain

// Composite score weights. They sum to exactly 1.00 and emphasize the
// emotion-defining attributes: valence (positivity), energy (arousal),
// danceability and tempo.
const (
	weightValence          = 0.35
	weightEnergy           = 0.20
	weightDanceability     = 0.15
	weightTempo            = 0.10
	weightLoudness         = 0.08
	weightLiveness         = 0.08
	weightInstrumentalness = 0.02
	weightSpeechiness      = 0.02
)

// FeatureVector holds the audio attributes of one track as returned by the
// feature source. Acousticness, Key and Mode ride along but carry no score
// weight. Fetched distinguishes a real vector from the zero value a failed
// lookup degrades to; a vector with Fetched == false must never be scored.
type FeatureVector struct {
	TrackID          string
	Valence          float64
	Energy           float64
	Danceability     float64
	Tempo            float64
	Loudness         float64
	Liveness         float64
	Instrumentalness float64
	Speechiness      float64
	Acousticness     float64
	Key              int
	Mode             int
	Fetched          bool
}

// CompositeScore is the weighted sum of the eight scored attributes.
// Deterministic and total over a fetched vector. Tempo and loudness are
// assumed pre-normalized by the feature source; no rescaling happens here.
func (v FeatureVector) CompositeScore() float64 {
	return v.Valence*weightValence +
		v.Energy*weightEnergy +
		v.Danceability*weightDanceability +
		v.Tempo*weightTempo +
		v.Loudness*weightLoudness +
		v.Liveness*weightLiveness +
		v.Instrumentalness*weightInstrumentalness +
		v.Speechiness*weightSpeechiness
}
