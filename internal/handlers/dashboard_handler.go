package handlers

import (
	"net/http"

	"puja-backend/internal/services"
	"puja-backend/pkg/utils"
)

type DashboardHandler struct {
	DashboardService *services.DashboardService
	PanchangService  *services.PanchangService
}

func NewDashboardHandler(dashboardService *services.DashboardService, panchangService *services.PanchangService) *DashboardHandler {
	return &DashboardHandler{DashboardService: dashboardService, PanchangService: panchangService}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.DashboardService.Stats(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// RefreshPanchang walks the almanac provider's endpoints and returns
// the per-endpoint outcomes. The aggregate is a 200 even when some
// calls fail.
func (h *DashboardHandler) RefreshPanchang(w http.ResponseWriter, r *http.Request) {
	results := h.PanchangService.Refresh(r.Context())
	utils.JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
