package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

func TestLessonCompleteIdempotent(t *testing.T) {
	env := newAwardEnv(t, EngineConfig{StreakResetHour: 4})
	env.setNow(t, "2025-03-10T12:00:00Z")
	env.store.lessons["basics"] = &domain.Lesson{
		ID:       uuid.New(),
		Slug:     "basics",
		Title:    "Prompt Basics",
		XPReward: 50,
	}
	lessons := NewLessonUseCase(env.store, env.engine, 50)

	res, err := lessons.Complete(context.Background(), env.userID, "basics", 12)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.XPEarned != 50 {
		t.Errorf("xpEarned = %d, want 50", res.XPEarned)
	}
	if got := env.state(t).TotalTimeMinutes; got != 12 {
		t.Errorf("totalTimeMinutes = %d, want 12", got)
	}

	_, err = lessons.Complete(context.Background(), env.userID, "basics", 5)
	if !errors.Is(err, domain.ErrLessonCompleted) {
		t.Fatalf("repeat Complete err = %v, want ErrLessonCompleted", err)
	}

	g := env.state(t)
	if g.TotalXP != 50 || g.LessonsCompleted != 1 {
		t.Errorf("repeat completion mutated state: totalXp=%d lessons=%d", g.TotalXP, g.LessonsCompleted)
	}
	if len(env.store.ledger) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(env.store.ledger))
	}
}

func TestLessonCompleteFallsBackToConfigXP(t *testing.T) {
	env := newAwardEnv(t, EngineConfig{StreakResetHour: 4})
	env.setNow(t, "2025-03-10T12:00:00Z")
	env.store.lessons["intro"] = &domain.Lesson{ID: uuid.New(), Slug: "intro", Title: "Intro"}
	lessons := NewLessonUseCase(env.store, env.engine, 40)

	res, err := lessons.Complete(context.Background(), env.userID, "intro", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.XPEarned != 40 {
		t.Errorf("xpEarned = %d, want config fallback 40", res.XPEarned)
	}
}

func TestPuzzleSubmit(t *testing.T) {
	solution := map[string]string{"alice": "red", "bob": "blue"}

	newPuzzleEnv := func(t *testing.T) (*awardEnv, *PuzzleUseCase) {
		t.Helper()
		env := newAwardEnv(t, EngineConfig{StreakResetHour: 4})
		env.setNow(t, "2025-03-10T12:00:00Z")
		env.state(t).DailyXPGoal = 500
		env.store.puzzles["colors"] = &domain.Puzzle{
			ID:           uuid.New(),
			Slug:         "colors",
			Title:        "Colors",
			Difficulty:   domain.PuzzleEasy,
			Solution:     solution,
			BaseReward:   100,
			TimeLimitSec: 300,
		}
		rewards := map[domain.PuzzleDifficulty]int{domain.PuzzleEasy: 50}
		return env, NewPuzzleUseCase(env.store, env.engine, rewards)
	}

	t.Run("first correct solve awards XP", func(t *testing.T) {
		env, puzzles := newPuzzleEnv(t)
		res, err := puzzles.Submit(context.Background(), env.userID, "colors", solution, 100, 0)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.PuzzleResult == nil || !res.PuzzleResult.IsCorrect || res.PuzzleResult.Stars != 3 {
			t.Fatalf("puzzleResult = %+v, want correct 3-star", res.PuzzleResult)
		}
		// 100 base + 30% fast-solve bonus.
		if res.XPEarned != 130 {
			t.Errorf("xpEarned = %d, want 130", res.XPEarned)
		}
		g := env.state(t)
		if g.PuzzlesCompleted != 1 || g.Puzzles3Stars != 1 {
			t.Errorf("counters = %d/%d, want 1/1", g.PuzzlesCompleted, g.Puzzles3Stars)
		}
		if len(env.store.pzAttempts) != 1 || !env.store.pzAttempts[0].IsCorrect {
			t.Errorf("attempts = %+v", env.store.pzAttempts)
		}
	})

	t.Run("incorrect submission records attempt without XP", func(t *testing.T) {
		env, puzzles := newPuzzleEnv(t)
		res, err := puzzles.Submit(context.Background(), env.userID, "colors",
			map[string]string{"alice": "blue", "bob": "red"}, 100, 0)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.PuzzleResult.IsCorrect || res.XPEarned != 0 {
			t.Errorf("result = %+v, want incorrect and zero XP", res)
		}
		if len(env.store.ledger) != 0 {
			t.Errorf("ledger rows = %d, want 0", len(env.store.ledger))
		}
		if len(env.store.pzAttempts) != 1 {
			t.Errorf("attempts = %d, want 1", len(env.store.pzAttempts))
		}
	})

	t.Run("repeat solve grades but does not re-credit", func(t *testing.T) {
		env, puzzles := newPuzzleEnv(t)
		if _, err := puzzles.Submit(context.Background(), env.userID, "colors", solution, 100, 0); err != nil {
			t.Fatalf("first Submit: %v", err)
		}
		res, err := puzzles.Submit(context.Background(), env.userID, "colors", solution, 80, 0)
		if err != nil {
			t.Fatalf("repeat Submit: %v", err)
		}
		if !res.PuzzleResult.IsCorrect {
			t.Error("repeat solve should still grade as correct")
		}
		if res.XPEarned != 0 {
			t.Errorf("repeat xpEarned = %d, want 0", res.XPEarned)
		}
		if got := env.state(t).PuzzlesCompleted; got != 1 {
			t.Errorf("puzzlesCompleted = %d, want 1", got)
		}
		if len(env.store.pzAttempts) != 2 {
			t.Errorf("attempts = %d, want both recorded", len(env.store.pzAttempts))
		}
	})

	t.Run("solve that loses the row lock race does not credit", func(t *testing.T) {
		env, puzzles := newPuzzleEnv(t)
		puzzleID := env.store.puzzles["colors"].ID
		// A concurrent solve commits while this request waits on the
		// aggregate lock; the gate must see it and skip the award.
		env.store.onLock = func() {
			env.store.pzAttempts = append(env.store.pzAttempts, domain.PuzzleAttempt{
				ID:        uuid.New(),
				UserID:    env.userID,
				PuzzleID:  puzzleID,
				IsCorrect: true,
				Stars:     3,
			})
		}

		res, err := puzzles.Submit(context.Background(), env.userID, "colors", solution, 100, 0)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.XPEarned != 0 {
			t.Errorf("xpEarned = %d, want 0 for the losing solve", res.XPEarned)
		}
		if len(env.store.ledger) != 0 {
			t.Errorf("ledger rows = %d, want 0", len(env.store.ledger))
		}
		g := env.state(t)
		if g.TotalXP != 0 || g.PuzzlesCompleted != 0 {
			t.Errorf("totalXp/puzzlesCompleted = %d/%d, want 0/0", g.TotalXP, g.PuzzlesCompleted)
		}
		for _, a := range env.store.pzAttempts {
			if a.XPEarned != 0 {
				t.Errorf("attempt credits %d XP, want 0 for the losing solve", a.XPEarned)
			}
		}
	})

	t.Run("difficulty fallback reward", func(t *testing.T) {
		env, puzzles := newPuzzleEnv(t)
		env.store.puzzles["colors"].BaseReward = 0
		res, err := puzzles.Submit(context.Background(), env.userID, "colors", solution, 100, 0)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		// 50 easy fallback + 30% fast-solve bonus.
		if res.XPEarned != 65 {
			t.Errorf("xpEarned = %d, want 65", res.XPEarned)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		env, puzzles := newPuzzleEnv(t)
		_, err := puzzles.Submit(context.Background(), env.userID, "nope", solution, 100, 0)
		if !errors.Is(err, domain.ErrPuzzleNotFound) {
			t.Errorf("err = %v, want ErrPuzzleNotFound", err)
		}
	})
}

func TestExerciseSubmit(t *testing.T) {
	newExerciseEnv := func(t *testing.T) (*awardEnv, *ExerciseUseCase) {
		t.Helper()
		env := newAwardEnv(t, EngineConfig{StreakResetHour: 4})
		env.setNow(t, "2025-03-10T12:00:00Z")
		env.state(t).DailyXPGoal = 500
		env.store.exercises["persona"] = &domain.Exercise{
			ID:       uuid.New(),
			Slug:     "persona",
			Keywords: []string{"role", "tone", "audience", "format", "constraints"},
			XPReward: 30,
		}
		return env, NewExerciseUseCase(env.store, env.engine)
	}

	t.Run("passing submission awards once", func(t *testing.T) {
		env, exercises := newExerciseEnv(t)
		sub := "Define the Role and Tone for your AUDIENCE, then set the format."
		res, err := exercises.Submit(context.Background(), env.userID, "persona", sub)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if !res.IsCorrect || !res.Awarded {
			t.Fatalf("result = %+v, want correct and awarded", res)
		}
		if res.Score != 0.8 {
			t.Errorf("score = %v, want 0.8 (4 of 5 keywords)", res.Score)
		}
		if res.Award == nil || res.Award.XPEarned != 30 {
			t.Errorf("award = %+v, want 30 XP", res.Award)
		}

		res2, err := exercises.Submit(context.Background(), env.userID, "persona", sub)
		if err != nil {
			t.Fatalf("repeat Submit: %v", err)
		}
		if res2.Awarded || res2.Award != nil {
			t.Errorf("repeat result = %+v, want graded but not awarded", res2)
		}
		if len(env.store.ledger) != 1 {
			t.Errorf("ledger rows = %d, want 1", len(env.store.ledger))
		}
	})

	t.Run("submission that loses the row lock race does not credit", func(t *testing.T) {
		env, exercises := newExerciseEnv(t)
		exID := env.store.exercises["persona"].ID
		env.store.onLock = func() {
			env.store.exAttempts = append(env.store.exAttempts, domain.ExerciseAttempt{
				ID:         uuid.New(),
				UserID:     env.userID,
				ExerciseID: exID,
				IsCorrect:  true,
			})
		}

		sub := "Define the Role and Tone for your AUDIENCE, then set the format."
		res, err := exercises.Submit(context.Background(), env.userID, "persona", sub)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Awarded || res.Award != nil {
			t.Errorf("result = %+v, want graded but not awarded", res)
		}
		if len(env.store.ledger) != 0 {
			t.Errorf("ledger rows = %d, want 0", len(env.store.ledger))
		}
		if got := env.state(t).TotalXP; got != 0 {
			t.Errorf("totalXp = %d, want 0", got)
		}
	})

	t.Run("failing submission earns nothing", func(t *testing.T) {
		env, exercises := newExerciseEnv(t)
		res, err := exercises.Submit(context.Background(), env.userID, "persona", "write me a poem")
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.IsCorrect || res.Awarded {
			t.Errorf("result = %+v, want incorrect", res)
		}
		if len(env.store.exAttempts) != 1 {
			t.Errorf("attempts = %d, want failed attempt recorded", len(env.store.exAttempts))
		}
		if len(env.store.ledger) != 0 {
			t.Errorf("ledger rows = %d, want 0", len(env.store.ledger))
		}
	})
}

func TestChallengeProgress(t *testing.T) {
	newChallengeEnv := func(t *testing.T) (*awardEnv, *ChallengeUseCase, uuid.UUID) {
		t.Helper()
		cfg := EngineConfig{StreakResetHour: 4}
		env := newAwardEnv(t, cfg)
		now := env.setNow(t, "2025-03-10T12:00:00Z")
		env.state(t).DailyXPGoal = 500

		chID := uuid.New()
		env.store.challenges[chID] = &domain.DailyChallenge{
			ID:       chID,
			Date:     now.Truncate(24 * time.Hour),
			Title:    "Solve 3 puzzles",
			Target:   3,
			XPReward: 75,
		}
		uc := NewChallengeUseCase(env.store, env.engine, cfg)
		uc.now = env.engine.now
		return env, uc, chID
	}

	t.Run("crossing the target awards once", func(t *testing.T) {
		env, uc, chID := newChallengeEnv(t)

		status, award, err := uc.Progress(context.Background(), env.userID, chID, 2)
		if err != nil {
			t.Fatalf("Progress: %v", err)
		}
		if status.Progress != 2 || status.Completed || award != nil {
			t.Errorf("status = %+v award = %+v, want in-progress and no award", status, award)
		}

		status, award, err = uc.Progress(context.Background(), env.userID, chID, 1)
		if err != nil {
			t.Fatalf("Progress: %v", err)
		}
		if !status.Completed || award == nil || award.XPEarned != 75 {
			t.Fatalf("status = %+v award = %+v, want completion with 75 XP", status, award)
		}

		// A late increment after completion is a no-op.
		status, award, err = uc.Progress(context.Background(), env.userID, chID, 1)
		if err != nil {
			t.Fatalf("Progress after completion: %v", err)
		}
		if award != nil || status.Progress != 3 {
			t.Errorf("post-completion status = %+v award = %+v", status, award)
		}
		if len(env.store.ledger) != 1 {
			t.Errorf("ledger rows = %d, want single CHALLENGE credit", len(env.store.ledger))
		}
	})

	t.Run("failed award leaves the challenge incomplete", func(t *testing.T) {
		env, uc, chID := newChallengeEnv(t)
		env.store.failLocks = awardAttempts
		env.store.failErr = errors.New("connection reset")

		_, _, err := uc.Progress(context.Background(), env.userID, chID, 3)
		if !errors.Is(err, domain.ErrAwardFailed) {
			t.Fatalf("err = %v, want ErrAwardFailed", err)
		}
		row, err := env.store.Challenges().GetUserChallenge(context.Background(), env.userID, chID)
		if err != nil {
			t.Fatalf("GetUserChallenge: %v", err)
		}
		if row != nil && row.CompletedAt != nil {
			t.Fatal("completion flip survived a failed award")
		}

		// Once the store recovers, the same call completes and credits.
		status, award, err := uc.Progress(context.Background(), env.userID, chID, 3)
		if err != nil {
			t.Fatalf("retried Progress: %v", err)
		}
		if !status.Completed || award == nil || award.XPEarned != 75 {
			t.Fatalf("status = %+v award = %+v, want completion with 75 XP", status, award)
		}
		if len(env.store.ledger) != 1 {
			t.Errorf("ledger rows = %d, want 1", len(env.store.ledger))
		}
	})

	t.Run("rejects non-positive delta", func(t *testing.T) {
		env, uc, chID := newChallengeEnv(t)
		_, _, err := uc.Progress(context.Background(), env.userID, chID, 0)
		if !errors.Is(err, domain.ErrInvalidAward) {
			t.Errorf("err = %v, want ErrInvalidAward", err)
		}
	})

	t.Run("unknown challenge", func(t *testing.T) {
		env, uc, _ := newChallengeEnv(t)
		_, _, err := uc.Progress(context.Background(), env.userID, uuid.New(), 1)
		if !errors.Is(err, domain.ErrChallengeNotFound) {
			t.Errorf("err = %v, want ErrChallengeNotFound", err)
		}
	})
}
