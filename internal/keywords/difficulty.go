package keywords

import (
	"strconv"
	"strings"
)

// Difficulty is a keyword-difficulty band, increasing in visual intensity.
type Difficulty int

const (
	DifficultyUndefined Difficulty = iota
	DifficultyVeryEasy
	DifficultyEasy
	DifficultyPossible
	DifficultyDifficult
	DifficultyHard
	DifficultyVeryHard
)

// DifficultyFor buckets a KD score. Scores that do not parse as a number
// map to DifficultyUndefined.
func DifficultyFor(kd string) Difficulty {
	score, err := strconv.ParseFloat(strings.TrimSpace(kd), 64)
	if err != nil {
		return DifficultyUndefined
	}
	switch {
	case score <= 14:
		return DifficultyVeryEasy
	case score <= 29:
		return DifficultyEasy
	case score <= 49:
		return DifficultyPossible
	case score <= 69:
		return DifficultyDifficult
	case score <= 84:
		return DifficultyHard
	default:
		return DifficultyVeryHard
	}
}

var difficultyClasses = map[Difficulty]string{
	DifficultyUndefined: "border-gray-300",
	DifficultyVeryEasy:  "border-green-300 bg-green-50 text-green-700",
	DifficultyEasy:      "border-green-400 bg-green-100 text-green-800",
	DifficultyPossible:  "border-yellow-400 bg-yellow-100 text-yellow-800",
	DifficultyDifficult: "border-orange-400 bg-orange-100 text-orange-800",
	DifficultyHard:      "border-red-400 bg-red-100 text-red-800",
	DifficultyVeryHard:  "border-red-600 bg-red-200 text-red-900",
}

// Class returns the input classes for the band.
func (d Difficulty) Class() string {
	if c, ok := difficultyClasses[d]; ok {
		return c
	}
	return difficultyClasses[DifficultyUndefined]
}

// String returns a short label for the band.
func (d Difficulty) String() string {
	switch d {
	case DifficultyVeryEasy:
		return "very easy"
	case DifficultyEasy:
		return "easy"
	case DifficultyPossible:
		return "possible"
	case DifficultyDifficult:
		return "difficult"
	case DifficultyHard:
		return "hard"
	case DifficultyVeryHard:
		return "very hard"
	}
	return "undefined"
}
