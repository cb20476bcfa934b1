package detect

import "fmt"

// Per-source ensemble weights. Sources outside this table contribute with
// defaultWeight so an unrecognized detector still gets a (small) vote.
var sourceWeights = map[string]float64{
	SourceWhisper:         0.4,
	SourceWav2Vec2:        0.3,
	SourceVAD:             0.2,
	SourceAudioClassifier: 0.1,
}

const defaultWeight = 0.1

func weightFor(source string) float64 {
	if w, ok := sourceWeights[source]; ok {
		return w
	}
	return defaultWeight
}

// Fuse combines independently produced detector results into one decision
// via confidence-weighted voting. An empty input set yields Unknown/0.5.
// Ties resolve in the fixed order Human, Machine, Unknown.
func Fuse(results []Result) Result {
	if len(results) == 0 {
		return Result{
			Detection:  Unknown,
			Confidence: 0.5,
			Reasoning:  "no results",
			Source:     SourceEnsemble,
		}
	}

	scores := map[Detection]float64{Human: 0, Machine: 0, Unknown: 0}
	totalWeight := 0.0
	for _, r := range results {
		w := weightFor(r.Source)
		scores[r.Detection] += r.Confidence * w
		totalWeight += w
	}
	if totalWeight > 0 {
		for d := range scores {
			scores[d] /= totalWeight
		}
	}

	final := Detections[0]
	for _, d := range Detections[1:] {
		if scores[d] > scores[final] {
			final = d
		}
	}

	return Result{
		Detection:  final,
		Confidence: scores[final],
		Reasoning:  fmt.Sprintf("ensemble decision from %d results", len(results)),
		Source:     SourceEnsemble,
		Metadata: map[string]any{
			"individual_results": results,
			"detection_scores": map[string]float64{
				Human.String():   scores[Human],
				Machine.String(): scores[Machine],
				Unknown.String(): scores[Unknown],
			},
		},
	}
}
