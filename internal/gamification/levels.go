package gamification

import (
	"fmt"
	"math"

	"promptcraft/internal/domain"
)

// MaxLevel bounds the level loop; XP keeps accumulating past it but the
// displayed level stops here.
const MaxLevel = 50

// LevelCurve computes levels from total XP. The cost to advance from level L
// to L+1 is floor(base * mult^(L-1)), a geometric curve.
type LevelCurve struct {
	base float64
	mult float64
}

func NewLevelCurve(baseXP int, multiplier float64) (*LevelCurve, error) {
	if baseXP <= 0 {
		return nil, fmt.Errorf("%w: BASE_XP_PER_LEVEL must be positive, got %d", domain.ErrConfig, baseXP)
	}
	if multiplier < 1 {
		return nil, fmt.Errorf("%w: XP_MULTIPLIER must be >= 1, got %g", domain.ErrConfig, multiplier)
	}
	return &LevelCurve{base: float64(baseXP), mult: multiplier}, nil
}

// LevelInfo describes where a total-XP figure sits on the curve.
type LevelInfo struct {
	Level           int `json:"level"`
	XPInLevel       int `json:"xpInCurrentLevel"`
	XPToNext        int `json:"xpToNextLevel"`
	ProgressPercent int `json:"levelProgressPercent"`
}

// CostFor returns the XP needed to advance from level to level+1.
func (c *LevelCurve) CostFor(level int) int {
	return int(math.Floor(c.base * math.Pow(c.mult, float64(level-1))))
}

// Compute returns the largest level whose cumulative cost fits in totalXP,
// plus the display fields derived from the remainder.
func (c *LevelCurve) Compute(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	remaining := totalXP
	for level < MaxLevel {
		cost := c.CostFor(level)
		if remaining < cost {
			break
		}
		remaining -= cost
		level++
	}

	info := LevelInfo{Level: level, XPInLevel: remaining}
	if level < MaxLevel {
		cost := c.CostFor(level)
		info.XPToNext = cost - remaining
		info.ProgressPercent = remaining * 100 / cost
	} else {
		info.ProgressPercent = 100
	}
	return info
}

// Level is a shorthand for Compute(totalXP).Level.
func (c *LevelCurve) Level(totalXP int) int {
	return c.Compute(totalXP).Level
}
