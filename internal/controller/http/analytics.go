package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/internal/stats"
	"github.com/taskflow/taskflow/internal/usecase"
)

// Display colors are a presentation concern: the aggregation engine
// returns raw counts and this layer attaches the swatches the UI expects.
var categoryColors = map[entity.Category]string{
	entity.CategoryWork:     "bg-blue-500",
	entity.CategoryPersonal: "bg-green-500",
	entity.CategoryUrgent:   "bg-red-500",
	entity.CategoryOther:    "bg-gray-500",
}

var priorityColors = map[entity.Priority]string{
	entity.PriorityHigh:   "bg-red-500",
	entity.PriorityMedium: "bg-yellow-500",
	entity.PriorityLow:    "bg-green-500",
}

const fallbackColor = "bg-gray-500"

type categoryDatum struct {
	Category entity.Category `json:"category"`
	Count    int             `json:"count"`
	Color    string          `json:"color"`
}

type priorityDatum struct {
	Priority entity.Priority `json:"priority"`
	Count    int             `json:"count"`
	Color    string          `json:"color"`
}

// AnalyticsHandler serves the analytics summary.
type AnalyticsHandler struct {
	taskUseCase usecase.TaskUseCase
	now         func() time.Time
}

func NewAnalyticsHandler(taskUseCase usecase.TaskUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{
		taskUseCase: taskUseCase,
		now:         time.Now,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.GetAnalytics)
}

// GetAnalytics returns the owner's analytics breakdowns.
// @Summary      Analytics summary
// @Tags         analytics
// @Produce      json
// @Success      200 {object} stats.AnalyticsStats
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	analytics, err := h.taskUseCase.Analytics(r.Context(), ownerID, h.now())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, envelope{
		"success":      true,
		"stats":        analytics.Stats,
		"weeklyData":   analytics.WeeklyData,
		"categoryData": withCategoryColors(analytics.CategoryData),
		"priorityData": withPriorityColors(analytics.PriorityData),
	})
}

func withCategoryColors(data []stats.CategoryCount) []categoryDatum {
	out := make([]categoryDatum, 0, len(data))
	for _, d := range data {
		color, ok := categoryColors[d.Category]
		if !ok {
			color = fallbackColor
		}
		out = append(out, categoryDatum{Category: d.Category, Count: d.Count, Color: color})
	}
	return out
}

func withPriorityColors(data []stats.PriorityCount) []priorityDatum {
	out := make([]priorityDatum, 0, len(data))
	for _, d := range data {
		color, ok := priorityColors[d.Priority]
		if !ok {
			color = fallbackColor
		}
		out = append(out, priorityDatum{Priority: d.Priority, Count: d.Count, Color: color})
	}
	return out
}
