package sim

// WayPredictor models MRU way prediction: before the authoritative tag
// comparison, it guesses that the next access to a set will land in the same
// way as the last resolved access to that set. The guess is scored against
// the real outcome but never influences hit/miss classification.
//
// Prediction scoring rules:
//   - a cache hit whose matching way equals the prediction is a prediction hit
//   - a cache hit in any other way is a prediction miss
//   - every cache miss is a prediction miss (there was no way to predict)
type WayPredictor struct {
	lastWay []int
}

// NewWayPredictor builds a predictor with one entry per set, all initially
// pointing at way 0.
func NewWayPredictor(numSets uint64) *WayPredictor {
	return &WayPredictor{lastWay: make([]int, numSets)}
}

// Predict returns the way the predictor expects the next access to the set to
// resolve to. Pure; prediction state only changes in Confirm and Train.
func (p *WayPredictor) Predict(set uint64) int {
	return p.lastWay[set]
}

// Confirm scores the prediction for the set against the resolved way (NoWay on
// a cache miss) and returns whether it was correct. On a hit the resolved way
// becomes the next prediction for the set.
func (p *WayPredictor) Confirm(set uint64, way int) bool {
	correct := way != NoWay && way == p.lastWay[set]
	if way != NoWay {
		p.lastWay[set] = way
	}
	return correct
}

// Train points the set's prediction at the given way without scoring.
// Called after a miss fill so the freshly installed block is the next guess.
func (p *WayPredictor) Train(set uint64, way int) {
	p.lastWay[set] = way
}
