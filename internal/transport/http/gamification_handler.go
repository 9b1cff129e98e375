package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"promptcraft/internal/application/usecase"
	"promptcraft/internal/middleware"
)

type GamificationHandler struct {
	gam *usecase.GamificationUseCase
}

func NewGamificationHandler(gam *usecase.GamificationUseCase) *GamificationHandler {
	return &GamificationHandler{gam: gam}
}

func authedUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}

func (h *GamificationHandler) Stats(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	stats, err := h.gam.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *GamificationHandler) History(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "20"))

	rows, total, err := h.gam.History(c.Request.Context(), userID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": rows,
		"total":        total,
		"page":         page,
	})
}

func (h *GamificationHandler) Badges(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	listing, err := h.gam.Badges(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *GamificationHandler) Streak(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	info, err := h.gam.Streak(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *GamificationHandler) UseFreeze(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	info, err := h.gam.UseFreeze(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *GamificationHandler) PurchaseFreeze(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	info, err := h.gam.PurchaseFreeze(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type dailyGoalReq struct {
	DailyXPGoal int `json:"dailyXpGoal" binding:"required,min=1,max=10000"`
}

func (h *GamificationHandler) SetDailyGoal(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req dailyGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.gam.SetDailyGoal(c.Request.Context(), userID, req.DailyXPGoal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dailyXpGoal": req.DailyXPGoal})
}

func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	w, ok := usecase.ParseWindow(c.DefaultQuery("type", "weekly"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown window"})
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "25"), 10, 64)

	view, err := h.gam.Leaderboard(c.Request.Context(), w, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
