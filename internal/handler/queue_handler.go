package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/service"
	"github.com/lucianocastr/estudiors/pkg/response"
)

// QueueHandler exposes the endpoints invoked by the scheduler or an
// external cron runner. Both require the shared cron token.
type QueueHandler struct {
	notifications *service.NotificationService
	cases         *service.CaseService
	config        *config.Config
}

func NewQueueHandler(notifications *service.NotificationService, cases *service.CaseService, config *config.Config) *QueueHandler {
	return &QueueHandler{
		notifications: notifications,
		cases:         cases,
		config:        config,
	}
}

func (h *QueueHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	token := r.Header.Get("X-Cron-Token")
	if token == "" || token != h.config.Server.CronToken {
		response.Unauthorized(w, "Invalid or missing cron token")
		return false
	}
	return true
}

// DispatchNotifications runs one dispatch cycle over the notification queue.
func (h *QueueHandler) DispatchNotifications(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	summary, err := h.notifications.RunDispatchCycle(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Notification dispatch cycle failed")
		response.InternalServerError(w, "Dispatch cycle failed", err)
		return
	}

	response.Success(w, summary)
}

// SweepPrescriptions recomputes prescription status for every tracked debt.
func (h *QueueHandler) SweepPrescriptions(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	updated, err := h.cases.RecomputeDebtPrescriptions(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Prescription sweep failed")
		response.InternalServerError(w, "Prescription sweep failed", err)
		return
	}

	response.Success(w, map[string]int{"updated": updated})
}
