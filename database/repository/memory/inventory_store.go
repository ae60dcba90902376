package memoryRepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	inventoryRepo "experiencehub/database/repository/inventory"
	"experiencehub/models"
)

// InventoryStore keeps slot counters in process memory. A single mutex makes
// every conditional update atomic with respect to the others.
type InventoryStore struct {
	mu    sync.RWMutex
	slots map[models.SlotKey]*models.SlotInventory
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		slots: make(map[models.SlotKey]*models.SlotInventory),
	}
}

func (s *InventoryStore) CreateMany(_ context.Context, slots []models.SlotInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.UpdatedAt = now
		stored := slot
		s.slots[slot.Key()] = &stored
	}
	return nil
}

func (s *InventoryStore) ListByExperience(_ context.Context, experienceID string) ([]models.SlotInventory, error) {
	return s.filter(func(slot *models.SlotInventory) bool {
		return slot.ExperienceID == experienceID
	}), nil
}

func (s *InventoryStore) ListByExperienceAndDate(_ context.Context, experienceID, date string) ([]models.SlotInventory, error) {
	return s.filter(func(slot *models.SlotInventory) bool {
		return slot.ExperienceID == experienceID && slot.Date == date
	}), nil
}

// filter returns copies ordered by date then position, like the Mongo store.
func (s *InventoryStore) filter(match func(*models.SlotInventory) bool) []models.SlotInventory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.SlotInventory, 0)
	for _, slot := range s.slots {
		if match(slot) {
			result = append(result, *slot)
		}
	}
	sortSlots(result)
	return result
}

func (s *InventoryStore) Get(_ context.Context, key models.SlotKey) (*models.SlotInventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[key]
	if !ok {
		return nil, inventoryRepo.ErrSlotNotFound
	}
	out := *slot
	return &out, nil
}

func (s *InventoryStore) DecrementIfAvailable(_ context.Context, key models.SlotKey, units int) (*models.SlotInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[key]
	if !ok {
		return nil, inventoryRepo.ErrSlotNotFound
	}
	if slot.AvailableUnits < units {
		return nil, inventoryRepo.ErrInsufficientUnits
	}
	slot.AvailableUnits -= units
	slot.Version++
	slot.UpdatedAt = time.Now().UTC()
	out := *slot
	return &out, nil
}

func (s *InventoryStore) Increment(_ context.Context, key models.SlotKey, units int) (*models.SlotInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[key]
	if !ok {
		return nil, inventoryRepo.ErrSlotNotFound
	}
	if slot.AvailableUnits+units > slot.TotalUnits {
		return nil, inventoryRepo.ErrCapacityExceeded
	}
	slot.AvailableUnits += units
	slot.Version++
	slot.UpdatedAt = time.Now().UTC()
	out := *slot
	return &out, nil
}

func (s *InventoryStore) DeleteByExperience(_ context.Context, experienceID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.slots {
		if key.ExperienceID == experienceID {
			delete(s.slots, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InventoryStore) DeleteSlot(_ context.Context, key models.SlotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[key]; !ok {
		return inventoryRepo.ErrSlotNotFound
	}
	delete(s.slots, key)
	return nil
}
