package models

import (
	"time"
)

// CartSlot is one persisted cart snapshot. There is exactly one row per
// storage key (cart_guest_<session> or cart_user_<userKey>) and the row is
// fully replaced on every save.
type CartSlot struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Items     []byte    `gorm:"type:jsonb" json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}
