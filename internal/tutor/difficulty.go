package tutor

import (
	"github.com/abhisek/viva/internal/prompt"
	"github.com/abhisek/viva/internal/session"
)

const (
	// beginnerAfter is the simplify count above which teaching drops to
	// beginner level. It is read independently of the profile's pace ratchet.
	beginnerAfter = 2

	easyBelow = 0.4
	hardAbove = 0.75
)

func teachDifficulty(p session.Profile) prompt.Difficulty {
	if p.SimplifyCount > beginnerAfter {
		return prompt.Beginner
	}
	return prompt.Intermediate
}

func quizDifficulty(p session.Profile) prompt.Difficulty {
	acc := p.Accuracy()
	switch {
	case acc < easyBelow:
		return prompt.Easy
	case acc > hardAbove:
		return prompt.Hard
	default:
		return prompt.Medium
	}
}
