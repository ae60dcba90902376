package memoryRepo

import (
	"context"
	"sync"
	"time"

	experienceRepo "experiencehub/database/repository/experience"
	"experiencehub/models"
)

type ExperienceStore struct {
	mu          sync.RWMutex
	experiences map[string]*models.Experience
}

func NewExperienceStore() *ExperienceStore {
	return &ExperienceStore{
		experiences: make(map[string]*models.Experience),
	}
}

func (s *ExperienceStore) Create(_ context.Context, experience *models.Experience) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *experience
	stored.AvailabilityCalendar = nil
	s.experiences[experience.ID] = &stored
	return nil
}

func (s *ExperienceStore) GetByID(_ context.Context, id string) (*models.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.experiences[id]
	if !ok {
		return nil, experienceRepo.ErrExperienceNotFound
	}
	out := *e
	return &out, nil
}

func (s *ExperienceStore) List(_ context.Context) ([]models.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Experience, 0, len(s.experiences))
	for _, e := range s.experiences {
		result = append(result, *e)
	}
	sortExperiences(result)
	return result, nil
}

func (s *ExperienceStore) UpdateDetails(_ context.Context, id string, details models.ExperienceDetails) (*models.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.experiences[id]
	if !ok {
		return nil, experienceRepo.ErrExperienceNotFound
	}
	details.Apply(e)
	e.UpdatedAt = time.Now().UTC()
	out := *e
	return &out, nil
}

func (s *ExperienceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.experiences[id]; !ok {
		return experienceRepo.ErrExperienceNotFound
	}
	delete(s.experiences, id)
	return nil
}
