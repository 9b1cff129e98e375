package gamification

import "promptcraft/internal/domain"

// EvaluatePuzzle grades a logic-grid submission against the canonical
// solution and derives stars and XP. Incorrect solves earn nothing; stars
// reward speed relative to the puzzle's time limit and drop by one when two
// or more hints were used.
func EvaluatePuzzle(p *domain.Puzzle, submission map[string]string, timeTakenSec, hintsUsed int) domain.PuzzleResult {
	res := domain.PuzzleResult{TotalPairs: len(p.Solution)}
	for key, want := range p.Solution {
		if submission[key] == want {
			res.CorrectPairs++
		}
	}
	res.IsCorrect = res.CorrectPairs == res.TotalPairs && res.TotalPairs > 0
	if !res.IsCorrect {
		return res
	}

	res.Stars = starsFor(timeTakenSec, p.TimeLimitSec, hintsUsed)

	switch res.Stars {
	case 3:
		res.TimeBonus = p.BaseReward * 30 / 100
	case 2:
		res.TimeBonus = p.BaseReward * 15 / 100
	}
	res.HintsPenalty = 10 * hintsUsed

	res.XPEarned = p.BaseReward + res.TimeBonus - res.HintsPenalty
	if res.XPEarned < 0 {
		res.XPEarned = 0
	}
	return res
}

func starsFor(timeTakenSec, timeLimitSec, hintsUsed int) int {
	stars := 1
	switch {
	case timeTakenSec*2 <= timeLimitSec:
		stars = 3
	case timeTakenSec*4 <= timeLimitSec*3:
		stars = 2
	}
	if hintsUsed >= 2 && stars > 1 {
		stars--
	}
	return stars
}
