package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

type fakeLessonService struct {
	completeErr error
}

func (f *fakeLessonService) List(context.Context) ([]domain.Lesson, error) { return nil, nil }

func (f *fakeLessonService) Get(context.Context, string) (*domain.Lesson, error) {
	return nil, domain.ErrLessonNotFound
}

func (f *fakeLessonService) Complete(context.Context, uuid.UUID, string, int) (*domain.AwardResult, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &domain.AwardResult{XPEarned: 50}, nil
}

func completeLesson(t *testing.T, svc LessonService) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "slug", Value: "basics"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/lessons/basics/complete",
		strings.NewReader(`{"timeMinutes": 5}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", uuid.New())

	NewContentHandler(svc, nil, nil, nil).CompleteLesson(c)
	return w
}

func TestCompleteLessonStatusCodes(t *testing.T) {
	t.Run("first completion returns 201", func(t *testing.T) {
		w := completeLesson(t, &fakeLessonService{})
		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", w.Code)
		}
	})

	t.Run("repeat completion returns 409", func(t *testing.T) {
		w := completeLesson(t, &fakeLessonService{completeErr: domain.ErrLessonCompleted})
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
	})
}
