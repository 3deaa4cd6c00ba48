package config

// Rating is a coarse difficulty label for a finished map.
type Rating string

const (
	RatingEasy    Rating = "Easy"
	RatingMedium  Rating = "Medium"
	RatingHard    Rating = "Hard"
	RatingExtreme Rating = "Extreme"
)

var ratingLevels = []Rating{RatingEasy, RatingMedium, RatingHard, RatingExtreme}

// RatingConfig holds the thresholds for difficulty scoring.
// Every map scores at least 1, so Rate never returns Easy.
type RatingConfig struct {
	ShortPath      int `yaml:"short_path"`      // below: +3
	MediumPath     int `yaml:"medium_path"`     // below: +2, otherwise +1
	ManyTurns      int `yaml:"many_turns"`      // above: +2
	SomeTurns      int `yaml:"some_turns"`      // above: +1
	ManyDecoration int `yaml:"many_decoration"` // above: +1
}

// Score returns the raw difficulty score.
func (r RatingConfig) Score(pathLen, turns, decorations int) int {
	score := 0

	switch {
	case pathLen < r.ShortPath:
		score += 3
	case pathLen < r.MediumPath:
		score += 2
	default:
		score++
	}

	switch {
	case turns > r.ManyTurns:
		score += 2
	case turns > r.SomeTurns:
		score++
	}

	if decorations > r.ManyDecoration {
		score++
	}
	return score
}

// Rate maps the score onto a label, capping at Extreme.
func (r RatingConfig) Rate(pathLen, turns, decorations int) Rating {
	return RatingForScore(r.Score(pathLen, turns, decorations))
}

// RatingForScore clamps a score to a label.
func RatingForScore(score int) Rating {
	if score < 0 {
		score = 0
	}
	if score >= len(ratingLevels) {
		score = len(ratingLevels) - 1
	}
	return ratingLevels[score]
}
