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

// CaseHandler exposes the restructuring case resources: the case itself
// plus its debts, assets, analyses, scenarios, interventions, fees and alerts.
type CaseHandler struct {
	service   *service.CaseService
	config    *config.Config
	validator *validator.Validate
}

func NewCaseHandler(service *service.CaseService, config *config.Config) *CaseHandler {
	return &CaseHandler{
		service:   service,
		config:    config,
		validator: validator.New(),
	}
}

func (h *CaseHandler) orgID(w http.ResponseWriter) (uuid.UUID, bool) {
	id, err := uuid.Parse(h.config.Firm.OrganizationID)
	if err != nil {
		response.InternalServerError(w, "Invalid organization configuration", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w)
	if !ok {
		return
	}

	var request domain.CreateCaseRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	result, err := h.service.CreateCase(r.Context(), orgID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w)
	if !ok {
		return
	}

	cases, err := h.service.ListCases(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, cases)
}

func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	result, err := h.service.GetCase(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *CaseHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.ChangeCaseStatusRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.ChangeCaseStatus(r.Context(), id, &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": request.Status})
}

func (h *CaseHandler) ChangeUrgency(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.ChangeUrgencyRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.ChangeUrgency(r.Context(), id, &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"urgency": request.Urgency})
}

func (h *CaseHandler) SaveDiagnostic(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.SaveDiagnosticRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	result, err := h.service.SaveDiagnostic(r.Context(), id, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *CaseHandler) AddDebt(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.CreateDebtRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	debt, err := h.service.AddDebt(r.Context(), caseID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, debt)
}

func (h *CaseHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	debts, err := h.service.ListDebts(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, debts)
}

func (h *CaseHandler) UpdateDebtStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "debtId")
	if err != nil {
		response.BadRequest(w, "Invalid debt id", err)
		return
	}

	var request domain.UpdateDebtStatusRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateDebtStatus(r.Context(), id, &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": request.Status})
}

func (h *CaseHandler) SetInterruption(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "debtId")
	if err != nil {
		response.BadRequest(w, "Invalid debt id", err)
		return
	}

	var request domain.SetInterruptionRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	debt, err := h.service.SetInterruption(r.Context(), id, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, debt)
}

func (h *CaseHandler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "debtId")
	if err != nil {
		response.BadRequest(w, "Invalid debt id", err)
		return
	}

	if err := h.service.DeleteDebt(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"result": "deleted"})
}

func (h *CaseHandler) AddAsset(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.CreateAssetRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	asset, err := h.service.AddAsset(r.Context(), caseID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, asset)
}

func (h *CaseHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	assets, err := h.service.ListAssets(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, assets)
}

func (h *CaseHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "assetId")
	if err != nil {
		response.BadRequest(w, "Invalid asset id", err)
		return
	}

	if err := h.service.DeleteAsset(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"result": "deleted"})
}

func (h *CaseHandler) SaveAnalysis(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.SaveAnalysisRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	analysis, err := h.service.SaveAnalysis(r.Context(), caseID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, analysis)
}

func (h *CaseHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	analyses, err := h.service.ListAnalyses(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, analyses)
}

func (h *CaseHandler) AddScenario(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.CreateScenarioRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	scenario, err := h.service.AddScenario(r.Context(), caseID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, scenario)
}

func (h *CaseHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	scenarios, err := h.service.ListScenarios(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, scenarios)
}

func (h *CaseHandler) SelectScenario(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	scenarioID, err := pathUUID(r, "scenarioId")
	if err != nil {
		response.BadRequest(w, "Invalid scenario id", err)
		return
	}

	if err := h.service.SelectScenario(r.Context(), caseID, scenarioID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"result": "selected"})
}

func (h *CaseHandler) AddIntervention(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.CreateInterventionRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	intervention, err := h.service.AddIntervention(r.Context(), caseID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, intervention)
}

func (h *CaseHandler) ListInterventions(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	interventions, err := h.service.ListInterventions(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, interventions)
}

func (h *CaseHandler) AddFee(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	var request domain.CreateFeeRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	fee, err := h.service.AddFee(r.Context(), caseID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, fee)
}

func (h *CaseHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	fees, err := h.service.ListFees(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, fees)
}

func (h *CaseHandler) UpdateFeePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "feeId")
	if err != nil {
		response.BadRequest(w, "Invalid fee id", err)
		return
	}

	var request domain.UpdateFeePaymentRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateFeePayment(r.Context(), id, &request); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"payment_status": request.PaymentStatus})
}

func (h *CaseHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathUUID(r, "caseId")
	if err != nil {
		response.BadRequest(w, "Invalid case id", err)
		return
	}

	alerts, err := h.service.ListAlerts(r.Context(), caseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, alerts)
}

func (h *CaseHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "alertId")
	if err != nil {
		response.BadRequest(w, "Invalid alert id", err)
		return
	}

	if err := h.service.ResolveAlert(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.AlertStatusResolved})
}

func (h *CaseHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "alertId")
	if err != nil {
		response.BadRequest(w, "Invalid alert id", err)
		return
	}

	if err := h.service.DismissAlert(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.AlertStatusDismissed})
}
