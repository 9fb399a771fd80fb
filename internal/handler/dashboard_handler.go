package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/service"
	"github.com/lucianocastr/estudiors/pkg/response"
)

type DashboardHandler struct {
	service *service.DashboardService
	config  *config.Config
}

func NewDashboardHandler(service *service.DashboardService, config *config.Config) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		config:  config,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(h.config.Firm.OrganizationID)
	if err != nil {
		response.InternalServerError(w, "Invalid organization configuration", err)
		return
	}

	stats, err := h.service.Stats(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, stats)
}
