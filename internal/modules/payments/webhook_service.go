package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProviderEvent is the journal of verified webhook deliveries. The unique
// (provider, event_id) key short-circuits exact redeliveries of an event we
// already processed.
type ProviderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Provider    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_events_provider_event,priority:1"`
	EventID     string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_events_provider_event,priority:2"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	PayloadJSON datatypes.JSON `gorm:"not null"`

	ReceivedAt  time.Time  `gorm:"not null"`
	ProcessedAt *time.Time
}

func (ProviderEvent) TableName() string { return "provider_events" }

// WebhookService applies verified provider events to the payment ledger.
// Delivery is at-least-once and unordered, so every transition is a
// conditional UPDATE guarded by the payment's current status; replaying any
// event sequence converges on the same final state.
type WebhookService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWebhookService(db *gorm.DB) *WebhookService {
	return &WebhookService{db: db, logger: slog.Default()}
}

func (s *WebhookService) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handle records and applies one event inside a single transaction. A non-nil
// return maps to a 5xx so the provider redelivers; correlation misses and
// unrecognized event types return nil (2xx) because redelivery cannot fix them.
func (s *WebhookService) Handle(ctx context.Context, providerName string, ev WebhookEvent, rawBody []byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		pe := ProviderEvent{
			ID:          uuid.NewString(),
			Provider:    providerName,
			EventID:     ev.EventID,
			EventType:   ev.Type,
			PayloadJSON: datatypes.JSON(rawBody),
			ReceivedAt:  now,
		}

		if err := tx.Create(&pe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// already received and applied; ack so the provider stops
				s.logger.InfoContext(ctx, "webhook event deduplicated",
					"provider", providerName, "event_id", ev.EventID, "type", ev.Type)
				return nil
			}
			return err
		}

		switch ev.Type {
		case EventSessionCompleted:
			if err := s.applySessionCompleted(ctx, tx, ev); err != nil {
				return err
			}
		case EventIntentSucceeded:
			if err := s.applyIntentSucceeded(ctx, tx, ev); err != nil {
				return err
			}
		case EventIntentFailed:
			if err := s.applyIntentFailed(ctx, tx, ev); err != nil {
				return err
			}
		default:
			// not our concern; ack so the provider does not retry
			s.logger.InfoContext(ctx, "webhook event ignored",
				"provider", providerName, "event_id", ev.EventID, "type", ev.Type)
		}

		processed := time.Now()
		return tx.Model(&ProviderEvent{}).
			Where("id = ?", pe.ID).
			Update("processed_at", &processed).Error
	})
}

// applySessionCompleted moves pending -> processing. The customer finished
// the hosted checkout UI; money has not necessarily moved yet.
func (s *WebhookService) applySessionCompleted(ctx context.Context, tx *gorm.DB, ev WebhookEvent) error {
	if ev.PaymentID == "" {
		return s.correlationMiss(ctx, ev, "event carries no payment id")
	}

	res := tx.Model(&Payment{}).
		Where("id = ? AND status = ?", ev.PaymentID, StatusPending).
		Updates(map[string]any{
			"status":     StatusProcessing,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// either the payment is already past pending (fine) or it does not exist
		var cnt int64
		if err := tx.Model(&Payment{}).Where("id = ?", ev.PaymentID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return s.correlationMiss(ctx, ev, "no payment for session metadata")
		}
	}
	return nil
}

// applyIntentSucceeded is the money-settlement transition and the
// duplicate-delivery guard: only the delivery whose conditional UPDATE lands
// flips the payment to paid and writes the one Receipt. The single UPDATE
// serializes concurrent deliveries on the payment row; the receipts unique
// index on payment_id is the backstop.
func (s *WebhookService) applyIntentSucceeded(ctx context.Context, tx *gorm.DB, ev WebhookEvent) error {
	if ev.PaymentID == "" {
		return s.correlationMiss(ctx, ev, "event carries no payment id")
	}

	var p Payment
	if err := tx.First(&p, "id = ?", ev.PaymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.correlationMiss(ctx, ev, "no payment for intent metadata")
		}
		return err
	}

	if p.Status == StatusPaid {
		return nil
	}

	now := time.Now()
	res := tx.Model(&Payment{}).
		Where("id = ? AND status <> ?", p.ID, StatusPaid).
		Updates(map[string]any{
			"status":            StatusPaid,
			"payment_intent_id": ev.IntentID,
			"updated_at":        now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race to another delivery; it owns the receipt
		return nil
	}

	return tx.Create(&Receipt{
		ID:         uuid.NewString(),
		PaymentID:  p.ID,
		CustomerID: p.CustomerID,
		TotalUSD:   centsToUSD(p.TotalUSDCents),
		TotalGTQ:   p.TotalGTQ,
		Currency:   p.Currency,
		CreatedAt:  now,
	}).Error
}

// applyIntentFailed moves the payment to failed unless it already settled.
// A failed event arriving after paid is stale and must not un-book revenue.
func (s *WebhookService) applyIntentFailed(ctx context.Context, tx *gorm.DB, ev WebhookEvent) error {
	if ev.PaymentID == "" {
		return s.correlationMiss(ctx, ev, "event carries no payment id")
	}

	res := tx.Model(&Payment{}).
		Where("id = ? AND status <> ?", ev.PaymentID, StatusPaid).
		Updates(map[string]any{
			"status":            StatusFailed,
			"payment_intent_id": ev.IntentID,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var cnt int64
		if err := tx.Model(&Payment{}).Where("id = ?", ev.PaymentID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return s.correlationMiss(ctx, ev, "no payment for intent metadata")
		}
		s.logger.WarnContext(ctx, "payment_failed event after paid, ignored",
			"payment_id", ev.PaymentID, "event_id", ev.EventID)
	}
	return nil
}

// correlationMiss logs and swallows an unresolvable event: the provider would
// retry on a 5xx forever and no retry can make the payment appear.
func (s *WebhookService) correlationMiss(ctx context.Context, ev WebhookEvent, reason string) error {
	s.logger.WarnContext(ctx, "webhook correlation miss",
		"event_id", ev.EventID, "type", ev.Type, "payment_id", ev.PaymentID, "reason", reason)
	return nil
}
