package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptcraft/internal/application/usecase"
)

// AdminHandler exposes operational endpoints: leaderboard rebuilds and
// ledger reconciliation. Guarded by the admin key middleware.
type AdminHandler struct {
	gam       *usecase.GamificationUseCase
	reconcile *usecase.ReconcileUseCase
}

func NewAdminHandler(gam *usecase.GamificationUseCase, reconcile *usecase.ReconcileUseCase) *AdminHandler {
	return &AdminHandler{gam: gam, reconcile: reconcile}
}

func (h *AdminHandler) RebuildLeaderboard(c *gin.Context) {
	w, ok := usecase.ParseWindow(c.Param("window"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown window"})
		return
	}
	if err := h.gam.RebuildLeaderboard(c.Request.Context(), w); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rebuilt": w})
}

func (h *AdminHandler) Reconcile(c *gin.Context) {
	drifts, err := h.reconcile.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"drifts": drifts,
		"clean":  len(drifts) == 0,
	})
}
