package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserDevice is a device registered for push notifications.
// Moderation and redemption results are pushed to every active device of a user.
type UserDevice struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FCMToken  string
	DeviceID  string
	Platform  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
