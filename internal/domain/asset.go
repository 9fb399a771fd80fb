package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset kinds
const (
	AssetKindRealEstate        = "real_estate"
	AssetKindVehicle           = "vehicle"
	AssetKindBusiness          = "business"
	AssetKindReceivable        = "receivable"
	AssetKindRegistrableMovble = "registrable_movable"
	AssetKindOther             = "other"
)

// Clawback (fraudulent-conveyance) risk levels
const (
	ClawbackRiskNone   = "none"
	ClawbackRiskLow    = "low"
	ClawbackRiskMedium = "medium"
	ClawbackRiskHigh   = "high"
)

// Asset is one item in the client's patrimony inventory.
type Asset struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CaseID         uuid.UUID       `json:"case_id" db:"case_id"`
	Kind           string          `json:"kind" db:"kind"`
	Description    string          `json:"description" db:"description"`
	EstimatedValue decimal.Decimal `json:"estimated_value" db:"estimated_value"`
	IsRegistrable  bool            `json:"is_registrable" db:"is_registrable"`
	IsAttachable   bool            `json:"is_attachable" db:"is_attachable"`
	IsHomestead    bool            `json:"is_homestead" db:"is_homestead"`
	HasLien        bool            `json:"has_lien" db:"has_lien"`
	LienKind       *string         `json:"lien_kind,omitempty" db:"lien_kind"`
	HasCoDebtor    bool            `json:"has_co_debtor" db:"has_co_debtor"`
	CoDebtorName   *string         `json:"co_debtor_name,omitempty" db:"co_debtor_name"`
	ClawbackRisk   string          `json:"clawback_risk" db:"clawback_risk"`
	ClawbackReason *string         `json:"clawback_reason,omitempty" db:"clawback_reason"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type CreateAssetRequest struct {
	Kind           string          `json:"kind" validate:"required,oneof=real_estate vehicle business receivable registrable_movable other"`
	Description    string          `json:"description" validate:"required"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	IsRegistrable  bool            `json:"is_registrable"`
	IsAttachable   bool            `json:"is_attachable"`
	IsHomestead    bool            `json:"is_homestead"`
	HasLien        bool            `json:"has_lien"`
	LienKind       string          `json:"lien_kind"`
	HasCoDebtor    bool            `json:"has_co_debtor"`
	CoDebtorName   string          `json:"co_debtor_name"`
	ClawbackRisk   string          `json:"clawback_risk" validate:"omitempty,oneof=none low medium high"`
	ClawbackReason string          `json:"clawback_reason"`
	Notes          string          `json:"notes"`
}
