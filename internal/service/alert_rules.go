package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/internal/repository"
	"github.com/lucianocastr/estudiors/pkg/calc"
	customError "github.com/lucianocastr/estudiors/pkg/errors"
)

// AlertRules evaluates the deadline rules after case state changes. Every
// rule is an idempotent create-if-absent: an open alert of the same category
// in the same (case, debt) scope suppresses a new one.
type AlertRules struct {
	AlertRepo repository.AlertRepository
	now       func() time.Time
}

func NewAlertRules(alertRepo repository.AlertRepository) *AlertRules {
	return &AlertRules{
		AlertRepo: alertRepo,
		now:       time.Now,
	}
}

// EvaluateDebt runs the debt-scoped rules: prescription deadline and
// mediation hearing. Called after a debt is created or its prescription
// fields recomputed.
func (r *AlertRules) EvaluateDebt(ctx context.Context, debt *domain.DebtRecord) error {
	if err := r.prescriptionRule(ctx, debt); err != nil {
		return err
	}
	return r.mediationRule(ctx, debt)
}

// prescriptionRule raises a critical alert when a debt's limitation period
// is approaching or already expired.
func (r *AlertRules) prescriptionRule(ctx context.Context, debt *domain.DebtRecord) error {
	if debt.PrescriptionDate == nil {
		return nil
	}

	var description string
	switch debt.PrescriptionStatus {
	case calc.PrescriptionApproaching:
		description = fmt.Sprintf("La prescripción de la deuda con %s vence el %s",
			debt.CurrentCreditor, debt.PrescriptionDate.Format("02/01/2006"))
	case calc.PrescriptionExpired:
		description = fmt.Sprintf("La deuda con %s prescribió el %s; evaluar oponer la defensa",
			debt.CurrentCreditor, debt.PrescriptionDate.Format("02/01/2006"))
	default:
		return nil
	}

	return r.createIfAbsent(ctx, &domain.Alert{
		ID:          uuid.New(),
		CaseID:      debt.CaseID,
		DebtID:      &debt.ID,
		Category:    domain.AlertPrescriptionApproaching,
		TriggerDate: r.now(),
		Description: description,
		Priority:    domain.AlertPriorityCritical,
		Status:      domain.AlertStatusPending,
		CreatedAt:   r.now(),
	})
}

// mediationRule raises a critical alert dated at the hearing when a debt has
// a mediation hearing scheduled.
func (r *AlertRules) mediationRule(ctx context.Context, debt *domain.DebtRecord) error {
	if debt.MediationHearing == nil {
		return nil
	}

	return r.createIfAbsent(ctx, &domain.Alert{
		ID:          uuid.New(),
		CaseID:      debt.CaseID,
		DebtID:      &debt.ID,
		Category:    domain.AlertMediationHearing,
		TriggerDate: *debt.MediationHearing,
		Description: fmt.Sprintf("Audiencia de mediación con %s el %s",
			debt.CurrentCreditor, debt.MediationHearing.Format("02/01/2006")),
		Priority:  domain.AlertPriorityCritical,
		Status:    domain.AlertStatusPending,
		CreatedAt: r.now(),
	})
}

// EvaluateInhibition raises a case-level alert when the debtor has an active
// general asset inhibition. Called when an asset is recorded.
func (r *AlertRules) EvaluateInhibition(ctx context.Context, c *domain.Case) error {
	if c.InhibitionStatus != domain.InhibitionActive {
		return nil
	}

	description := "El cliente registra inhibición general de bienes vigente"
	if c.InhibitionCreditor != nil {
		description = fmt.Sprintf("%s, trabada por %s", description, *c.InhibitionCreditor)
	}

	return r.createIfAbsent(ctx, &domain.Alert{
		ID:          uuid.New(),
		CaseID:      c.ID,
		Category:    domain.AlertInhibitionActive,
		TriggerDate: r.now(),
		Description: description,
		Priority:    domain.AlertPriorityHigh,
		Status:      domain.AlertStatusPending,
		CreatedAt:   r.now(),
	})
}

// EvaluateIntervention raises a medium-priority alert assigned to the author
// when an intervention requires follow-up on a given date.
func (r *AlertRules) EvaluateIntervention(ctx context.Context, intervention *domain.Intervention) error {
	if !intervention.RequiresFollowUp || intervention.FollowUpDate == nil {
		return nil
	}

	return r.createIfAbsent(ctx, &domain.Alert{
		ID:          uuid.New(),
		CaseID:      intervention.CaseID,
		DebtID:      intervention.DebtID,
		Category:    domain.AlertFollowUp,
		TriggerDate: *intervention.FollowUpDate,
		Description: fmt.Sprintf("Seguimiento pendiente: %s", intervention.Description),
		Priority:    domain.AlertPriorityMedium,
		Status:      domain.AlertStatusPending,
		AssigneeID:  &intervention.AuthorID,
		CreatedAt:   r.now(),
	})
}

// EvaluateFee raises an alert when a fee is due within a week: critical at
// two days or less, high otherwise.
func (r *AlertRules) EvaluateFee(ctx context.Context, fee *domain.Fee) error {
	if fee.DueDate == nil {
		return nil
	}

	daysUntilDue := calc.DaysUntil(r.now(), *fee.DueDate)
	if daysUntilDue > 7 {
		return nil
	}

	priority := domain.AlertPriorityHigh
	if daysUntilDue <= 2 {
		priority = domain.AlertPriorityCritical
	}

	return r.createIfAbsent(ctx, &domain.Alert{
		ID:          uuid.New(),
		CaseID:      fee.CaseID,
		Category:    domain.AlertFeeDue,
		TriggerDate: *fee.DueDate,
		Description: fmt.Sprintf("Honorarios de %s vencen el %s", fee.Stage, fee.DueDate.Format("02/01/2006")),
		Priority:    priority,
		Status:      domain.AlertStatusPending,
		CreatedAt:   r.now(),
	})
}

// createIfAbsent persists the alert unless an open alert of the same
// category already exists in the same (case, debt) scope.
func (r *AlertRules) createIfAbsent(ctx context.Context, alert *domain.Alert) error {
	existing, err := r.AlertRepo.FindPending(ctx, alert.CaseID, alert.DebtID, alert.Category)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if existing != nil {
		return nil
	}

	if err := r.AlertRepo.Create(ctx, alert); err != nil {
		return customError.WrapDatabaseError(err)
	}

	logrus.WithFields(logrus.Fields{
		"case_id":  alert.CaseID,
		"category": alert.Category,
		"priority": alert.Priority,
	}).Info("alert created")

	return nil
}
