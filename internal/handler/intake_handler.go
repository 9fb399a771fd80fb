package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/internal/service"
	"github.com/lucianocastr/estudiors/pkg/response"
)

type IntakeHandler struct {
	service   *service.IntakeService
	config    *config.Config
	validator *validator.Validate
}

func NewIntakeHandler(service *service.IntakeService, config *config.Config) *IntakeHandler {
	return &IntakeHandler{
		service:   service,
		config:    config,
		validator: validator.New(),
	}
}

// CreateInquiry receives the public consultation form.
func (h *IntakeHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateInquiryRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	inquiry, err := h.service.CreateInquiry(r.Context(), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, inquiry)
}

func (h *IntakeHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(h.config.Firm.OrganizationID)
	if err != nil {
		response.InternalServerError(w, "Invalid organization configuration", err)
		return
	}

	inquiries, err := h.service.ListInquiries(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, inquiries)
}

func (h *IntakeHandler) GetInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "inquiryId")
	if err != nil {
		response.BadRequest(w, "Invalid inquiry id", err)
		return
	}

	inquiry, err := h.service.GetInquiry(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, inquiry)
}

func (h *IntakeHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "inquiryId")
	if err != nil {
		response.BadRequest(w, "Invalid inquiry id", err)
		return
	}

	var request domain.ChangeInquiryStatusRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.ChangeInquiryStatus(r.Context(), id, authorFromHeader(r), &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": request.Status})
}

func (h *IntakeHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "inquiryId")
	if err != nil {
		response.BadRequest(w, "Invalid inquiry id", err)
		return
	}

	author := authorFromHeader(r)
	if author == nil {
		response.Unauthorized(w, "X-User-ID header is required")
		return
	}

	var request domain.AddNoteRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	note, err := h.service.AddNote(r.Context(), id, *author, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, note)
}

func (h *IntakeHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "inquiryId")
	if err != nil {
		response.BadRequest(w, "Invalid inquiry id", err)
		return
	}

	var request domain.ConfirmAppointmentRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.ConfirmAppointment(r.Context(), id, authorFromHeader(r), &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.AppointmentStatusConfirmed})
}

func (h *IntakeHandler) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "inquiryId")
	if err != nil {
		response.BadRequest(w, "Invalid inquiry id", err)
		return
	}

	var request domain.RejectAppointmentRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.RejectAppointment(r.Context(), id, authorFromHeader(r), &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.AppointmentStatusRejected})
}
