package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"promptcraft/internal/application/usecase"
	"promptcraft/internal/domain"
)

// LessonService is the slice of the lesson usecase the handler consumes.
type LessonService interface {
	List(ctx context.Context) ([]domain.Lesson, error)
	Get(ctx context.Context, slug string) (*domain.Lesson, error)
	Complete(ctx context.Context, userID uuid.UUID, slug string, timeMinutes int) (*domain.AwardResult, error)
}

type PuzzleService interface {
	List(ctx context.Context) ([]domain.Puzzle, error)
	Get(ctx context.Context, slug string) (*domain.Puzzle, error)
	Submit(ctx context.Context, userID uuid.UUID, slug string, submission map[string]string, timeTakenSec, hintsUsed int) (*domain.AwardResult, error)
}

type ExerciseService interface {
	Submit(ctx context.Context, userID uuid.UUID, slug, submission string) (*usecase.SubmitResult, error)
}

type ChallengeService interface {
	Today(ctx context.Context, userID uuid.UUID) ([]usecase.TodayStatus, error)
	Progress(ctx context.Context, userID, challengeID uuid.UUID, delta int) (*usecase.TodayStatus, *domain.AwardResult, error)
}

// ContentHandler serves the learning catalog: lessons, puzzles, exercises
// and daily challenges, plus their completion endpoints.
type ContentHandler struct {
	lessons    LessonService
	puzzles    PuzzleService
	exercises  ExerciseService
	challenges ChallengeService
}

func NewContentHandler(lessons LessonService, puzzles PuzzleService, exercises ExerciseService, challenges ChallengeService) *ContentHandler {
	return &ContentHandler{
		lessons:    lessons,
		puzzles:    puzzles,
		exercises:  exercises,
		challenges: challenges,
	}
}

func (h *ContentHandler) ListLessons(c *gin.Context) {
	lessons, err := h.lessons.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (h *ContentHandler) GetLesson(c *gin.Context) {
	lesson, err := h.lessons.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

type completeLessonReq struct {
	TimeMinutes int `json:"timeMinutes" binding:"min=0"`
}

func (h *ContentHandler) CompleteLesson(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req completeLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.lessons.Complete(c.Request.Context(), userID, c.Param("slug"), req.TimeMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// puzzleView strips the solution from catalog responses.
type puzzleView struct {
	domain.Puzzle
	PairCount int `json:"pairCount"`
}

func (h *ContentHandler) ListPuzzles(c *gin.Context) {
	puzzles, err := h.puzzles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]puzzleView, 0, len(puzzles))
	for _, p := range puzzles {
		views = append(views, puzzleView{Puzzle: p, PairCount: len(p.Solution)})
	}
	c.JSON(http.StatusOK, gin.H{"puzzles": views})
}

func (h *ContentHandler) GetPuzzle(c *gin.Context) {
	puzzle, err := h.puzzles.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, puzzleView{Puzzle: *puzzle, PairCount: len(puzzle.Solution)})
}

type puzzleSubmitReq struct {
	Submission   map[string]string `json:"submission" binding:"required"`
	TimeTakenSec int               `json:"timeTakenSec" binding:"min=0"`
	HintsUsed    int               `json:"hintsUsed" binding:"min=0"`
}

func (h *ContentHandler) SubmitPuzzle(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req puzzleSubmitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.puzzles.Submit(c.Request.Context(), userID, c.Param("slug"),
		req.Submission, req.TimeTakenSec, req.HintsUsed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type exerciseSubmitReq struct {
	Slug       string `json:"slug" binding:"required"`
	Submission string `json:"submission" binding:"required"`
}

func (h *ContentHandler) SubmitExercise(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req exerciseSubmitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.exercises.Submit(c.Request.Context(), userID, req.Slug, req.Submission)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ContentHandler) TodayChallenges(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	statuses, err := h.challenges.Today(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": statuses})
}

type challengeProgressReq struct {
	Delta int `json:"delta" binding:"required,min=1"`
}

func (h *ContentHandler) ChallengeProgress(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}
	var req challengeProgressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, award, err := h.challenges.Progress(c.Request.Context(), userID, challengeID, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"award":  award,
	})
}
