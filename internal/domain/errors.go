package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUnknownUser        = errors.New("gamification row missing for user")
	ErrInvalidAward       = errors.New("invalid award")
	ErrAwardFailed        = errors.New("award failed")
	ErrNoFreezesAvailable = errors.New("no streak freezes available")
	ErrAlreadyActiveToday = errors.New("already active today")
	ErrNotEnoughXP        = errors.New("not enough xp")
	ErrFreezeLimitReached = errors.New("streak freeze limit reached")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonCompleted    = errors.New("lesson already completed")
	ErrPuzzleNotFound     = errors.New("puzzle not found")
	ErrPuzzleSolved       = errors.New("puzzle already solved")
	ErrExerciseCompleted  = errors.New("exercise already completed")
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrChallengeNotFound  = errors.New("daily challenge not found")
	ErrBadgeAlreadyHeld   = errors.New("badge already held")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrConfig             = errors.New("invalid configuration")
)

// ErrorKind returns the stable machine-readable tag exposed in HTTP error
// bodies for a known domain error, or "internal" for anything else.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAward):
		return "invalid_award"
	case errors.Is(err, ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, ErrNoFreezesAvailable):
		return "no_freezes_available"
	case errors.Is(err, ErrAlreadyActiveToday):
		return "already_active_today"
	case errors.Is(err, ErrNotEnoughXP):
		return "not_enough_xp"
	case errors.Is(err, ErrFreezeLimitReached):
		return "freeze_limit_reached"
	case errors.Is(err, ErrLessonCompleted), errors.Is(err, ErrPuzzleSolved),
		errors.Is(err, ErrExerciseCompleted):
		return "already_completed"
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrPuzzleNotFound), errors.Is(err, ErrExerciseNotFound),
		errors.Is(err, ErrChallengeNotFound):
		return "not_found"
	case errors.Is(err, ErrUserAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenRevoked):
		return "unauthorized"
	case errors.Is(err, ErrAwardFailed):
		return "award_failed"
	default:
		return "internal"
	}
}
