package cart

import (
	"encoding/json"
	"log"

	"storefront-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotStore persists cart snapshots in the cart_slots table, one JSON blob
// per storage key. Persistence here is advisory: every method fails soft so
// a storage problem can never block a cart operation.
type SlotStore struct {
	DB *gorm.DB
}

func NewSlotStore(db *gorm.DB) *SlotStore {
	return &SlotStore{DB: db}
}

// Load reads the snapshot stored under key. A missing row, a database error
// or a malformed blob all yield an empty cart.
func (s *SlotStore) Load(key string) Items {
	var slot models.CartSlot
	if err := s.DB.Where("key = ?", key).First(&slot).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("cart: failed to load slot %s: %v", key, err)
		}
		return nil
	}

	var items Items
	if err := json.Unmarshal(slot.Items, &items); err != nil {
		log.Printf("cart: discarding malformed slot %s: %v", key, err)
		return nil
	}
	return normalize(items)
}

// Save upserts the snapshot under key. Errors are logged and swallowed.
func (s *SlotStore) Save(key string, items Items) {
	if items == nil {
		items = Items{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		log.Printf("cart: failed to encode slot %s: %v", key, err)
		return
	}

	slot := models.CartSlot{Key: key, Items: blob}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		log.Printf("cart: failed to save slot %s: %v", key, err)
	}
}

// Clear deletes the slot for key, best-effort.
func (s *SlotStore) Clear(key string) {
	if err := s.DB.Where("key = ?", key).Delete(&models.CartSlot{}).Error; err != nil {
		log.Printf("cart: failed to clear slot %s: %v", key, err)
	}
}
