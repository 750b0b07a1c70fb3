package reward

import (
	"sort"

	"github.com/tao-colosseum/colosseum-validator/internal/volume"
)

// ScoreRecord is one identity's derived score. Never persisted on its own,
// only inside a snapshot.
type ScoreRecord struct {
	UID            uint64  `json:"uid"`
	WeightedVolume float64 `json:"weighted_volume"`
	Score          float64 `json:"score"`
	Rank           int     `json:"rank"`
}

// Engine is a pure transform from rolling volume histories to a normalized
// score vector. It holds only the fixed decay weight vector, so identical
// inputs always produce identical outputs.
type Engine struct {
	weights [volume.WindowDays]float64
}

func NewEngine(weights [volume.WindowDays]float64) *Engine {
	return &Engine{weights: weights}
}

func (e *Engine) Weights() [volume.WindowDays]float64 {
	return e.weights
}

// WeightedVolume applies the decay weights to a single history.
func (e *Engine) WeightedVolume(h volume.History) float64 {
	return h.Weighted(e.weights)
}

// Scores computes the normalized score vector over the given identities.
// Identities absent from the generation score zero rather than being
// omitted, so an empty cache still yields a full vector. A zero total
// weighted volume yields all-zero scores, not an error. Summation runs in
// ascending uid order to keep results reproducible.
func (e *Engine) Scores(gen *volume.Generation, uids []uint64) []ScoreRecord {
	sorted := make([]uint64, len(uids))
	copy(sorted, uids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	records := make([]ScoreRecord, 0, len(sorted))
	var total float64
	for _, uid := range sorted {
		weighted := e.WeightedVolume(gen.History(uid))
		total += weighted
		records = append(records, ScoreRecord{
			UID:            uid,
			WeightedVolume: weighted,
		})
	}

	if total > 0 {
		for i := range records {
			records[i].Score = records[i].WeightedVolume / total
		}
	}

	rank(records)
	return records
}

// TotalWeightedVolume sums the weighted volume over a score vector.
func TotalWeightedVolume(records []ScoreRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.WeightedVolume
	}
	return total
}

// ActiveCount counts identities with a positive score.
func ActiveCount(records []ScoreRecord) int {
	var n int
	for _, r := range records {
		if r.Score > 0 {
			n++
		}
	}
	return n
}

// rank assigns 1-based ranks by descending score, ties broken by ascending
// uid. The input slice keeps its uid ordering.
func rank(records []ScoreRecord) {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ra, rb := records[order[a]], records[order[b]]
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		return ra.UID < rb.UID
	})
	for pos, idx := range order {
		records[idx].Rank = pos + 1
	}
}
