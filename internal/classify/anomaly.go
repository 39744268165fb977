package classify

import (
	"math"

	"stockboard/internal/domain"

	goiforest "github.com/narumiruna/go-iforest/pkg/iforest"
)

const (
	anomalyMinSamples    = 30
	anomalyVolumeWindow  = 5
	defaultAnomalyTrees  = 100
	defaultAnomalySample = 256
)

// AnomalyDamper wraps another classifier and dampens its BUY/SELL calls to
// HOLD when the latest session looks anomalous relative to the symbol's own
// recent history. An isolation forest is fit per call on (daily return %,
// volume multiple) rows; the history windows involved are small enough that
// this stays cheap.
type AnomalyDamper struct {
	inner     Classifier
	threshold float64
	trees     int
}

func NewAnomalyDamper(inner Classifier, threshold float64, trees int) *AnomalyDamper {
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.62
	}
	if trees <= 0 {
		trees = defaultAnomalyTrees
	}
	return &AnomalyDamper{inner: inner, threshold: threshold, trees: trees}
}

func (d *AnomalyDamper) Classify(f Features) (domain.Recommendation, string) {
	rec, reason := d.inner.Classify(f)
	if rec != domain.RecommendBuy && rec != domain.RecommendSell {
		return rec, reason
	}

	score := d.anomalyScore(f.History)
	if score < d.threshold {
		return rec, reason
	}
	return domain.RecommendHold, reason + " Unusual trading activity detected in the latest session; deferring action."
}

// anomalyScore fits a forest on the history's feature rows and scores the
// most recent one. Returns 0 when there is not enough history to judge.
func (d *AnomalyDamper) anomalyScore(history []domain.PriceBar) float64 {
	samples := featureRows(history)
	if len(samples) < anomalyMinSamples {
		return 0
	}

	means, stds := fitNormalizer(samples)
	normalized := make([][]float64, len(samples))
	for i := range samples {
		normalized[i] = normalize(samples[i], means, stds)
	}

	sampleSize := defaultAnomalySample
	if sampleSize > len(normalized) {
		sampleSize = len(normalized)
	}
	forest := goiforest.NewWithOptions(goiforest.Options{
		DetectionType: goiforest.DetectionTypeThreshold,
		Threshold:     d.threshold,
		NumTrees:      d.trees,
		SampleSize:    sampleSize,
	})
	forest.Fit(normalized)

	scores := forest.Score([][]float64{normalized[len(normalized)-1]})
	if len(scores) == 0 {
		return 0
	}
	score := scores[0]
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// featureRows builds one row per session: percent return and the ratio of
// volume to the trailing mean volume. Sessions with unusable data are
// skipped.
func featureRows(history []domain.PriceBar) [][]float64 {
	rows := make([][]float64, 0, len(history))
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Close
		if prev == 0 {
			continue
		}
		ret := (history[i].Close - prev) / prev * 100

		start := i - anomalyVolumeWindow
		if start < 0 {
			start = 0
		}
		var volSum float64
		var volCount int
		for _, b := range history[start:i] {
			if math.IsNaN(b.Volume) {
				continue
			}
			volSum += b.Volume
			volCount++
		}
		volMultiple := 1.0
		if volCount > 0 && volSum > 0 && !math.IsNaN(history[i].Volume) {
			volMultiple = history[i].Volume / (volSum / float64(volCount))
		}
		rows = append(rows, []float64{ret, volMultiple})
	}
	return rows
}

func fitNormalizer(samples [][]float64) ([]float64, []float64) {
	featureCount := len(samples[0])
	means := make([]float64, featureCount)
	stds := make([]float64, featureCount)
	for j := 0; j < featureCount; j++ {
		for i := range samples {
			means[j] += samples[i][j]
		}
		means[j] /= float64(len(samples))
		for i := range samples {
			d := samples[i][j] - means[j]
			stds[j] += d * d
		}
		stds[j] = math.Sqrt(stds[j] / float64(len(samples)))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return means, stds
}

func normalize(in, means, stds []float64) []float64 {
	out := make([]float64, len(in))
	for i := range in {
		out[i] = (in[i] - means[i]) / stds[i]
	}
	return out
}
