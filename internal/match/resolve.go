package match

import "math"

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Confidence thresholds, inclusive lower bounds.
const (
	SuccessThreshold = 85
	PartialThreshold = 60
)

// Result is the outcome of matching one query against one candidate. Index
// is the position of the chosen candidate, or -1 when there was none.
type Result struct {
	Index      int
	Confidence int
	Status     Status
}

// NoMatch is the result when the catalog returned no candidates.
var NoMatch = Result{Index: -1, Confidence: 0, Status: StatusFailed}

// StatusFor maps a confidence percentage to its status.
func StatusFor(confidence int) Status {
	switch {
	case confidence >= SuccessThreshold:
		return StatusSuccess
	case confidence >= PartialThreshold:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// Confidence averages the two similarities and floors the percentage.
func Confidence(titleSim, artistSim float64) int {
	return int(math.Floor((titleSim + artistSim) / 2 * 100))
}

// Resolve scores a candidate title and artist against the query title and
// the query's artist names joined by spaces.
func Resolve(queryTitle, queryArtists, candidateTitle, candidateArtist string) Result {
	confidence := Confidence(
		Similarity(queryTitle, candidateTitle),
		Similarity(queryArtists, candidateArtist),
	)
	return Result{Index: 0, Confidence: confidence, Status: StatusFor(confidence)}
}

// Candidate is the part of a catalog track the resolver looks at.
type Candidate struct {
	Title  string
	Artist string
}

// Best resolves the query against the top-ranked candidate. The catalog's
// ranking is trusted; later candidates are not scored.
func Best(queryTitle, queryArtists string, candidates []Candidate) Result {
	if len(candidates) == 0 {
		return NoMatch
	}
	return Resolve(queryTitle, queryArtists, candidates[0].Title, candidates[0].Artist)
}
