package service

import (
	"context"
)

// Loyalty event types carried in LoyaltyEvent.Type.
const (
	EventParticipationModerated = "participation.moderated"
	EventPointsAwarded          = "points.awarded"
	EventPointsAdjusted         = "points.adjusted"
	EventRedemptionRequested    = "redemption.requested"
	EventRedemptionFinalized    = "redemption.finalized"
)

// LoyaltyEvent is the payload published for balance and moderation changes.
// It replaces the original client's realtime change-feed subscription: the
// worker turns these into push notifications instead of the client polling.
type LoyaltyEvent struct {
	RequestID   string `json:"request_id,omitempty"` // For distributed tracing
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	Amount      int    `json:"amount,omitempty"`  // Signed point delta, when the event moves points.
	Balance     int    `json:"balance,omitempty"` // Balance after the change, when known.
	ReferenceID string `json:"reference_id,omitempty"`
	Title       string `json:"title,omitempty"` // Human-readable subject (mission title, item name).
	Detail      string `json:"detail,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishLoyaltyEvent publishes a loyalty event for async processing
	PublishLoyaltyEvent(ctx context.Context, event *LoyaltyEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
