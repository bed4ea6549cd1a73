package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/usecase"
)

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	taskUseCase usecase.TaskUseCase
	now         func() time.Time
}

func NewDashboardHandler(taskUseCase usecase.TaskUseCase) *DashboardHandler {
	return &DashboardHandler{
		taskUseCase: taskUseCase,
		now:         time.Now,
	}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.GetStats)
}

// GetStats returns the owner's dashboard counters and recent tasks.
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} stats.DashboardStats
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	dashboard, err := h.taskUseCase.Dashboard(r.Context(), ownerID, h.now())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, envelope{
		"success":     true,
		"stats":       dashboard.Stats,
		"recentTasks": dashboard.RecentTasks,
	})
}
