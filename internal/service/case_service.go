package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/internal/repository"
	"github.com/lucianocastr/estudiors/pkg/calc"
	customError "github.com/lucianocastr/estudiors/pkg/errors"
)

const (
	lockTTL      = 5 * time.Second
	lockRetries  = 10
	lockInterval = 100 * time.Millisecond
)

// ScopeLocker serializes critical sections that assign sequential values:
// case numbers per organization and year, analysis versions per case.
type ScopeLocker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

// RedisLocker implements ScopeLocker with a SETNX lock per scope key.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	var acquired bool
	for i := 0; i < lockRetries; i++ {
		ok, err := l.client.SetNX(ctx, key, "1", lockTTL).Result()
		if err != nil {
			return customError.WrapLockError(key, err)
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockInterval):
		}
	}
	if !acquired {
		return customError.WrapLockError(key, customError.ErrLockNotAcquired)
	}
	defer l.client.Del(ctx, key)

	return fn()
}

// CaseService owns the liability-restructuring module: cases, debts, assets,
// analyses, scenarios, interventions, fees and the alerts derived from them.
type CaseService struct {
	CaseRepo         repository.CaseRepository
	ContactRepo      repository.ContactRepository
	DebtRepo         repository.DebtRepository
	AssetRepo        repository.AssetRepository
	AnalysisRepo     repository.AnalysisRepository
	ScenarioRepo     repository.ScenarioRepository
	InterventionRepo repository.InterventionRepository
	FeeRepo          repository.FeeRepository
	AlertRepo        repository.AlertRepository
	rules            *AlertRules
	locker           ScopeLocker
	config           *config.Config
	now              func() time.Time
}

func NewCaseService(
	caseRepo repository.CaseRepository,
	contactRepo repository.ContactRepository,
	debtRepo repository.DebtRepository,
	assetRepo repository.AssetRepository,
	analysisRepo repository.AnalysisRepository,
	scenarioRepo repository.ScenarioRepository,
	interventionRepo repository.InterventionRepository,
	feeRepo repository.FeeRepository,
	alertRepo repository.AlertRepository,
	rules *AlertRules,
	locker ScopeLocker,
	config *config.Config,
) *CaseService {
	return &CaseService{
		CaseRepo:         caseRepo,
		ContactRepo:      contactRepo,
		DebtRepo:         debtRepo,
		AssetRepo:        assetRepo,
		AnalysisRepo:     analysisRepo,
		ScenarioRepo:     scenarioRepo,
		InterventionRepo: interventionRepo,
		FeeRepo:          feeRepo,
		AlertRepo:        alertRepo,
		rules:            rules,
		locker:           locker,
		config:           config,
		now:              time.Now,
	}
}

// CreateCase opens a restructuring case. The contact is either an existing
// one or created inline; case number assignment is serialized per
// organization and year.
func (s *CaseService) CreateCase(ctx context.Context, orgID uuid.UUID, request *domain.CreateCaseRequest) (*domain.Case, error) {
	contact, err := s.resolveContact(ctx, orgID, request)
	if err != nil {
		return nil, err
	}

	lawyerID, err := uuid.Parse(request.LawyerID)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	now := s.now()
	year := now.Year()
	prefix := s.config.Legal.CaseNumberPrefix

	newCase := &domain.Case{
		ID:                  uuid.New(),
		OrganizationID:      orgID,
		ContactID:           contact.ID,
		LawyerID:            lawyerID,
		Status:              domain.CaseStatusDiagnosis,
		Urgency:             domain.UrgencyMedium,
		InhibitionStatus:    domain.InhibitionNone,
		DiagnosticChecklist: domain.DefaultChecklist(),
		OpenedAt:            now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if request.TaxID != "" {
		newCase.TaxID = &request.TaxID
	}
	if request.Objective != "" {
		newCase.ClientObjective = &request.Objective
	}
	if request.Employment != "" {
		newCase.EmploymentSituation = &request.Employment
	}
	if request.BCRA != "" {
		newCase.BCRASituation = &request.BCRA
	}

	lockKey := "lock:case-number:" + orgID.String() + ":" + calc.CaseNumberPrefix(prefix, year)
	err = s.locker.WithLock(ctx, lockKey, func() error {
		last, err := s.CaseRepo.HighestCaseNumber(ctx, orgID, calc.CaseNumberPrefix(prefix, year))
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		number, err := calc.NextCaseNumber(prefix, year, last)
		if err != nil {
			return err
		}
		newCase.CaseNumber = number

		if err := s.CaseRepo.Create(ctx, newCase); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !contact.IsClient {
		if err := s.ContactRepo.MarkAsClient(ctx, contact.ID, now); err != nil {
			logrus.WithField("contact_id", contact.ID).WithError(err).Warn("could not flag contact as client")
		}
	}

	logrus.WithFields(logrus.Fields{
		"case_id":     newCase.ID,
		"case_number": newCase.CaseNumber,
	}).Info("case opened")

	return newCase, nil
}

func (s *CaseService) resolveContact(ctx context.Context, orgID uuid.UUID, request *domain.CreateCaseRequest) (*domain.Contact, error) {
	if request.ContactID != "" {
		contactID, err := uuid.Parse(request.ContactID)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		contact, err := s.ContactRepo.GetByID(ctx, contactID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		return contact, nil
	}

	if request.NewName == "" || request.NewEmail == "" {
		return nil, customError.NewBusinessError(
			customError.ErrCodeContactRequired,
			"either contact_id or new_name and new_email must be provided",
			customError.ErrContactRequired,
		)
	}

	contact := &domain.Contact{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           request.NewName,
		Email:          request.NewEmail,
		Phone:          request.NewPhone,
		Source:         domain.ContactSourceOther,
		CreatedAt:      s.now(),
	}
	if err := s.ContactRepo.Create(ctx, contact); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return contact, nil
}

func (s *CaseService) GetCase(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	c, err := s.CaseRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapCaseNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return c, nil
}

func (s *CaseService) ListCases(ctx context.Context, orgID uuid.UUID) ([]*domain.Case, error) {
	cases, err := s.CaseRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return cases, nil
}

// ChangeCaseStatus moves the case through its workflow. Terminal states
// stamp the closing time.
func (s *CaseService) ChangeCaseStatus(ctx context.Context, id uuid.UUID, request *domain.ChangeCaseStatusRequest) error {
	if _, err := s.GetCase(ctx, id); err != nil {
		return err
	}

	valid := false
	for _, status := range domain.CaseStatusFlow {
		if status == request.Status {
			valid = true
			break
		}
	}
	if !valid {
		return customError.WrapValidationError(errors.New("unknown case status: " + request.Status))
	}

	var closedAt *time.Time
	if domain.IsTerminalCaseStatus(request.Status) {
		now := s.now()
		closedAt = &now
	}

	if err := s.CaseRepo.UpdateStatus(ctx, id, request.Status, closedAt); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *CaseService) ChangeUrgency(ctx context.Context, id uuid.UUID, request *domain.ChangeUrgencyRequest) error {
	if _, err := s.GetCase(ctx, id); err != nil {
		return err
	}
	if err := s.CaseRepo.UpdateUrgency(ctx, id, request.Urgency); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// SaveDiagnostic updates the diagnostic block of a case: checklist,
// exposure, inhibition, recommendation.
func (s *CaseService) SaveDiagnostic(ctx context.Context, id uuid.UUID, request *domain.SaveDiagnosticRequest) (*domain.Case, error) {
	c, err := s.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Checklist != nil {
		c.DiagnosticChecklist = request.Checklist
	}
	if request.Recommendation != "" {
		c.Recommendation = &request.Recommendation
	}
	if request.ExposureLevel != "" {
		c.ExposureLevel = &request.ExposureLevel
	}
	if request.ClientObjective != "" {
		c.ClientObjective = &request.ClientObjective
	}
	if request.BCRASituation != "" {
		c.BCRASituation = &request.BCRASituation
	}
	if request.InhibitionStatus != "" {
		c.InhibitionStatus = request.InhibitionStatus
	}
	if request.InhibitionCourt != "" {
		c.InhibitionCourt = &request.InhibitionCourt
	}
	if request.InhibitionCreditor != "" {
		c.InhibitionCreditor = &request.InhibitionCreditor
	}
	c.UpdatedAt = s.now()

	if err := s.CaseRepo.SaveDiagnostic(ctx, c); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return c, nil
}

// AddDebt records a liability, derives its prescription fields from the
// default date and category period, and evaluates the deadline rules.
func (s *CaseService) AddDebt(ctx context.Context, caseID uuid.UUID, request *domain.CreateDebtRequest) (*domain.DebtRecord, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	months, ok := s.config.PrescriptionPeriods()[request.Category]
	if !ok {
		return nil, customError.WrapInvalidDebtCategory(request.Category)
	}

	now := s.now()
	debt := &domain.DebtRecord{
		ID:                 uuid.New(),
		CaseID:             caseID,
		OriginalCreditor:   request.OriginalCreditor,
		CurrentCreditor:    request.CurrentCreditor,
		WasAssigned:        request.WasAssigned,
		Category:           request.Category,
		Status:             domain.DebtStatusActive,
		OriginalPrincipal:  request.OriginalPrincipal,
		CurrentPrincipal:   request.CurrentPrincipal,
		AccruedInterest:    request.AccruedInterest,
		PenaltyInterest:    request.PenaltyInterest,
		LitigationCosts:    request.LitigationCosts,
		CounselFees:        request.CounselFees,
		PrescriptionMonths: months,
		JudicialRisk:       domain.JudicialRiskNone,
		MediationStatus:    domain.MediationNotStarted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if debt.CurrentCreditor == "" {
		debt.CurrentCreditor = request.OriginalCreditor
	}
	if request.BCRASituation != "" {
		debt.BCRASituation = &request.BCRASituation
	}
	if request.JudicialRisk != "" {
		debt.JudicialRisk = request.JudicialRisk
	}
	if request.MediationStatus != "" {
		debt.MediationStatus = request.MediationStatus
	}
	if request.CourtCaseRef != "" {
		debt.CourtCaseRef = &request.CourtCaseRef
	}
	if request.Court != "" {
		debt.Court = &request.Court
	}
	if request.Jurisdiction != "" {
		debt.Jurisdiction = &request.Jurisdiction
	}
	if request.Notes != "" {
		debt.Notes = &request.Notes
	}

	if request.DefaultDate != "" {
		defaultDate, err := time.Parse("2006-01-02", request.DefaultDate)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		debt.DefaultDate = &defaultDate
	}
	if request.MediationNotified != "" {
		notified, err := time.Parse("2006-01-02", request.MediationNotified)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		debt.MediationNotified = &notified
	}
	if request.MediationHearing != "" {
		hearing, err := time.Parse("2006-01-02", request.MediationHearing)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		debt.MediationHearing = &hearing
	}

	debt.TotalClaimed = calc.TotalClaimed(debt.CurrentPrincipal, debt.AccruedInterest, debt.PenaltyInterest)

	if err := s.derivePrescription(debt, now); err != nil {
		return nil, err
	}

	if err := s.DebtRepo.Create(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.rules.EvaluateDebt(ctx, debt); err != nil {
		return nil, err
	}

	s.fillComputed(debt)
	return debt, nil
}

// fillComputed sets the read-time fields that are never persisted.
func (s *CaseService) fillComputed(debt *domain.DebtRecord) {
	debt.MoraDays = calc.MoraDays(s.now(), debt.DefaultDate)
}

// derivePrescription fills the prescription fields from the default date and
// the category period. A suspended status set by hand is never downgraded
// here.
func (s *CaseService) derivePrescription(debt *domain.DebtRecord, now time.Time) error {
	debt.PrescriptionStart = debt.DefaultDate

	if debt.DefaultDate != nil {
		prescriptionDate, err := calc.PrescriptionDate(*debt.DefaultDate, debt.PrescriptionMonths)
		if err != nil {
			return customError.WrapValidationError(err)
		}
		debt.PrescriptionDate = &prescriptionDate
	} else {
		debt.PrescriptionDate = nil
	}

	if debt.PrescriptionStatus == calc.PrescriptionSuspended && debt.InterruptionCause == nil {
		return nil
	}

	cause := ""
	if debt.InterruptionCause != nil {
		cause = *debt.InterruptionCause
	}
	debt.PrescriptionStatus = calc.PrescriptionStatus(now, debt.PrescriptionDate, cause)
	return nil
}

func (s *CaseService) GetDebt(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	debt, err := s.DebtRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDebtNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	s.fillComputed(debt)
	return debt, nil
}

func (s *CaseService) ListDebts(ctx context.Context, caseID uuid.UUID) ([]*domain.DebtRecord, error) {
	debts, err := s.DebtRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for _, debt := range debts {
		s.fillComputed(debt)
	}
	return debts, nil
}

func (s *CaseService) UpdateDebtStatus(ctx context.Context, id uuid.UUID, request *domain.UpdateDebtStatusRequest) error {
	if _, err := s.GetDebt(ctx, id); err != nil {
		return err
	}
	if err := s.DebtRepo.UpdateStatus(ctx, id, request.Status, request.AgreedAmount); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// SetInterruption records or clears the interruption cause on a debt and
// recomputes its prescription status. Clearing the cause puts the debt back
// on date-derived tracking and re-evaluates the deadline rules.
func (s *CaseService) SetInterruption(ctx context.Context, id uuid.UUID, request *domain.SetInterruptionRequest) (*domain.DebtRecord, error) {
	debt, err := s.GetDebt(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Cause != "" {
		debt.InterruptionCause = &request.Cause
	} else {
		debt.InterruptionCause = nil
	}

	now := s.now()
	if err := s.derivePrescription(debt, now); err != nil {
		return nil, err
	}
	debt.UpdatedAt = now

	if err := s.DebtRepo.Update(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if debt.InterruptionCause == nil {
		if err := s.rules.EvaluateDebt(ctx, debt); err != nil {
			return nil, err
		}
	}

	s.fillComputed(debt)
	return debt, nil
}

func (s *CaseService) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDebt(ctx, id); err != nil {
		return err
	}
	if err := s.DebtRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// AddAsset records an asset and raises the inhibition alert when the case
// has an active general inhibition.
func (s *CaseService) AddAsset(ctx context.Context, caseID uuid.UUID, request *domain.CreateAssetRequest) (*domain.Asset, error) {
	c, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		ID:             uuid.New(),
		CaseID:         caseID,
		Kind:           request.Kind,
		Description:    request.Description,
		EstimatedValue: request.EstimatedValue,
		IsRegistrable:  request.IsRegistrable,
		IsAttachable:   request.IsAttachable,
		IsHomestead:    request.IsHomestead,
		HasLien:        request.HasLien,
		HasCoDebtor:    request.HasCoDebtor,
		ClawbackRisk:   domain.ClawbackRiskNone,
		CreatedAt:      s.now(),
	}
	if request.LienKind != "" {
		asset.LienKind = &request.LienKind
	}
	if request.CoDebtorName != "" {
		asset.CoDebtorName = &request.CoDebtorName
	}
	if request.ClawbackRisk != "" {
		asset.ClawbackRisk = request.ClawbackRisk
	}
	if request.ClawbackReason != "" {
		asset.ClawbackReason = &request.ClawbackReason
	}
	if request.Notes != "" {
		asset.Notes = &request.Notes
	}

	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.rules.EvaluateInhibition(ctx, c); err != nil {
		return nil, err
	}

	return asset, nil
}

func (s *CaseService) ListAssets(ctx context.Context, caseID uuid.UUID) ([]*domain.Asset, error) {
	assets, err := s.AssetRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return assets, nil
}

func (s *CaseService) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	if err := s.AssetRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// SaveAnalysis appends a financial snapshot. The derived figures come from
// the calculator; version assignment is serialized per case.
func (s *CaseService) SaveAnalysis(ctx context.Context, caseID uuid.UUID, request *domain.SaveAnalysisRequest) (*domain.FinancialAnalysis, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	analysis := &domain.FinancialAnalysis{
		ID:                 uuid.New(),
		CaseID:             caseID,
		NetMonthlyIncome:   request.NetMonthlyIncome,
		FixedExpenses:      request.FixedExpenses,
		MonthlyDebtService: request.MonthlyDebtService,
		GrossLiabilities:   request.GrossLiabilities,
		ClaimedLiabilities: request.ClaimedLiabilities,
		TotalWithCosts:     request.TotalWithCosts,
		EstimatedAssets:    request.EstimatedAssets,
		PaymentCapacity:    request.PaymentCapacity,
		MonthsToRegularize: request.MonthsToRegularize,
		CreatedAt:          s.now(),
	}
	if request.Notes != "" {
		analysis.Notes = &request.Notes
	}

	analysis.DisposableCashFlow = calc.DisposableCashFlow(
		request.NetMonthlyIncome, request.FixedExpenses, request.MonthlyDebtService)
	analysis.DebtToIncomeRatio = calc.DebtToIncomeRatio(
		request.GrossLiabilities, request.NetMonthlyIncome)

	lockKey := "lock:analysis-version:" + caseID.String()
	err := s.locker.WithLock(ctx, lockKey, func() error {
		latest, err := s.AnalysisRepo.LatestVersion(ctx, caseID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		analysis.Version = latest + 1

		if err := s.AnalysisRepo.Create(ctx, analysis); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

func (s *CaseService) ListAnalyses(ctx context.Context, caseID uuid.UUID) ([]*domain.FinancialAnalysis, error) {
	analyses, err := s.AnalysisRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return analyses, nil
}

func (s *CaseService) AddScenario(ctx context.Context, caseID uuid.UUID, request *domain.CreateScenarioRequest) (*domain.Scenario, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	scenario := &domain.Scenario{
		ID:             uuid.New(),
		CaseID:         caseID,
		Name:           request.Name,
		Kind:           request.Kind,
		TotalPayable:   request.TotalPayable,
		TermMonths:     request.TermMonths,
		MonthlyPayment: request.MonthlyPayment,
		Risk:           request.Risk,
		Recommended:    request.Recommended,
		Status:         domain.ScenarioStatusDraft,
		CreatedAt:      s.now(),
	}
	if scenario.Risk == "" {
		scenario.Risk = "medium"
	}
	if request.Description != "" {
		scenario.Description = &request.Description
	}
	if request.Advantages != "" {
		scenario.Advantages = &request.Advantages
	}
	if request.Disadvantages != "" {
		scenario.Disadvantages = &request.Disadvantages
	}

	if err := s.ScenarioRepo.Create(ctx, scenario); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scenario, nil
}

func (s *CaseService) ListScenarios(ctx context.Context, caseID uuid.UUID) ([]*domain.Scenario, error) {
	scenarios, err := s.ScenarioRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scenarios, nil
}

// SelectScenario marks one scenario of the case as the chosen strategy,
// deselecting any other.
func (s *CaseService) SelectScenario(ctx context.Context, caseID, scenarioID uuid.UUID) error {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return err
	}
	if err := s.ScenarioRepo.MarkSelected(ctx, caseID, scenarioID, s.now()); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// AddIntervention logs an action on the case and raises a follow-up alert
// when one is required.
func (s *CaseService) AddIntervention(ctx context.Context, caseID uuid.UUID, request *domain.CreateInterventionRequest) (*domain.Intervention, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	authorID, err := uuid.Parse(request.AuthorID)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}
	date, err := time.Parse("2006-01-02", request.Date)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	intervention := &domain.Intervention{
		ID:               uuid.New(),
		CaseID:           caseID,
		AuthorID:         authorID,
		Kind:             request.Kind,
		Date:             date,
		Description:      request.Description,
		RequiresFollowUp: request.RequiresFollowUp,
		CreatedAt:        s.now(),
	}
	if request.DebtID != "" {
		debtID, err := uuid.Parse(request.DebtID)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		intervention.DebtID = &debtID
	}
	if request.Counterparty != "" {
		intervention.Counterparty = &request.Counterparty
	}
	if request.Outcome != "" {
		intervention.Outcome = &request.Outcome
	}
	if request.DocumentURL != "" {
		intervention.DocumentURL = &request.DocumentURL
	}
	if request.FollowUpDate != "" {
		followUp, err := time.Parse("2006-01-02", request.FollowUpDate)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		intervention.FollowUpDate = &followUp
	}

	if err := s.InterventionRepo.Create(ctx, intervention); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.rules.EvaluateIntervention(ctx, intervention); err != nil {
		return nil, err
	}

	return intervention, nil
}

func (s *CaseService) ListInterventions(ctx context.Context, caseID uuid.UUID) ([]*domain.Intervention, error) {
	interventions, err := s.InterventionRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return interventions, nil
}

// AddFee records an agreed professional fee and raises the fee-due alert
// when the due date is within a week.
func (s *CaseService) AddFee(ctx context.Context, caseID uuid.UUID, request *domain.CreateFeeRequest) (*domain.Fee, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	fee := &domain.Fee{
		ID:              uuid.New(),
		CaseID:          caseID,
		ServiceKind:     request.ServiceKind,
		Stage:           request.Stage,
		AgreedAmount:    request.AgreedAmount,
		VariableAmount:  request.VariableAmount,
		InvoicedAmount:  request.InvoicedAmount,
		CollectedAmount: decimal.Zero,
		PaymentStatus:   domain.FeePaymentPending,
		CreatedAt:       s.now(),
	}
	if request.VariableBasis != "" {
		fee.VariableBasis = &request.VariableBasis
	}
	if request.Notes != "" {
		fee.Notes = &request.Notes
	}
	if request.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", request.DueDate)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		fee.DueDate = &dueDate
	}

	if err := s.FeeRepo.Create(ctx, fee); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.rules.EvaluateFee(ctx, fee); err != nil {
		return nil, err
	}

	return fee, nil
}

func (s *CaseService) ListFees(ctx context.Context, caseID uuid.UUID) ([]*domain.Fee, error) {
	fees, err := s.FeeRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return fees, nil
}

func (s *CaseService) UpdateFeePayment(ctx context.Context, id uuid.UUID, request *domain.UpdateFeePaymentRequest) error {
	if _, err := s.FeeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapValidationError(err)
		}
		return customError.WrapDatabaseError(err)
	}
	if err := s.FeeRepo.UpdatePayment(ctx, id, request.CollectedAmount, request.PaymentStatus); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *CaseService) ListAlerts(ctx context.Context, caseID uuid.UUID) ([]*domain.Alert, error) {
	alerts, err := s.AlertRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return alerts, nil
}

func (s *CaseService) ResolveAlert(ctx context.Context, id uuid.UUID) error {
	return s.closeAlert(ctx, id, domain.AlertStatusResolved)
}

func (s *CaseService) DismissAlert(ctx context.Context, id uuid.UUID) error {
	return s.closeAlert(ctx, id, domain.AlertStatusDismissed)
}

func (s *CaseService) closeAlert(ctx context.Context, id uuid.UUID, status string) error {
	alert, err := s.AlertRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.NewBusinessError(
			customError.ErrCodeAlertNotFound,
			"alert "+id.String()+" not found",
			customError.ErrAlertNotFound,
		)
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !alert.IsOpen() {
		return customError.NewBusinessError(
			customError.ErrCodeAlertAlreadyClosed,
			"alert "+id.String()+" is already closed",
			customError.ErrAlertAlreadyClosed,
		)
	}

	if err := s.AlertRepo.UpdateStatus(ctx, id, status); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// RecomputeDebtPrescriptions is the daily sweep: every tracked debt gets its
// prescription status re-derived against the current date, and the deadline
// rules re-evaluated. Debts whose status is interrupted or suspended are not
// touched.
func (s *CaseService) RecomputeDebtPrescriptions(ctx context.Context) (int, error) {
	debts, err := s.DebtRepo.ListTracked(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	now := s.now()
	changed := 0
	for _, debt := range debts {
		previous := debt.PrescriptionStatus
		if err := s.derivePrescription(debt, now); err != nil {
			logrus.WithField("debt_id", debt.ID).WithError(err).Error("prescription recompute failed")
			continue
		}

		if debt.PrescriptionStatus != previous {
			debt.UpdatedAt = now
			if err := s.DebtRepo.Update(ctx, debt); err != nil {
				logrus.WithField("debt_id", debt.ID).WithError(err).Error("prescription update failed")
				continue
			}
			changed++
		}

		if err := s.rules.EvaluateDebt(ctx, debt); err != nil {
			logrus.WithField("debt_id", debt.ID).WithError(err).Error("alert evaluation failed")
		}
	}

	if changed > 0 {
		logrus.WithField("changed", changed).Info("prescription sweep completed")
	}

	return changed, nil
}
