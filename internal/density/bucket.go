// Package density maps keyword density percentages onto the five display
// buckets shared by table rows, annotated text and hover overlays.
package density

// Bucket is an ordered density band. The zero value is Lowest.
type Bucket int

const (
	Lowest Bucket = iota
	Low
	Medium
	High
	Critical
)

// Lower bounds of Low..Critical. Intervals are half-open, so a boundary
// value belongs to the upper bucket.
var thresholds = [...]float64{0.8, 1.8, 2.8, 3.8}

// HighlightFloor is the minimum density a keyword needs to be annotated in
// text. It equals the Low threshold.
const HighlightFloor = 0.8

// ForDensity returns the bucket for a density percentage. Values below zero
// and NaN fall into Lowest.
func ForDensity(d float64) Bucket {
	b := Lowest
	for _, t := range thresholds {
		if d >= t {
			b++
		}
	}
	return b
}

// String returns the bucket's lower-case name.
func (b Bucket) String() string {
	switch b {
	case Lowest:
		return "lowest"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	}
	return "unknown"
}
