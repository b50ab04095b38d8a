package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusFailed     = "failed"
)

// Payment is one checkout attempt and its money flow. Rows are never
// deleted; status only moves forward (pending -> processing -> paid,
// pending|processing -> failed).
type Payment struct {
	ID              string          `gorm:"type:char(36);primaryKey"`
	CustomerID      string          `gorm:"type:varchar(64);not null;index:ix_payments_customer_id"`
	TotalUSDCents   int64           `gorm:"not null"`
	TotalGTQ        decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Currency        string          `gorm:"type:char(3);not null;default:'usd'"`
	Status          string          `gorm:"type:varchar(32);not null"`
	StripeSessionID *string         `gorm:"type:varchar(128)"`
	PaymentIntentID *string         `gorm:"type:varchar(128)"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (Payment) TableName() string { return "payments" }

// Receipt records a settled transaction. Immutable; at most one per payment,
// enforced by the unique index on payment_id.
type Receipt struct {
	ID         string          `gorm:"type:char(36);primaryKey"`
	PaymentID  string          `gorm:"type:char(36);not null;uniqueIndex:ux_receipts_payment_id"`
	CustomerID string          `gorm:"type:varchar(64);not null"`
	TotalUSD   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalGTQ   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Currency   string          `gorm:"type:char(3);not null"`
	CreatedAt  time.Time       `gorm:"not null"`

	Payment Payment `gorm:"foreignKey:PaymentID"`
}

func (Receipt) TableName() string { return "receipts" }
