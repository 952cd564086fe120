package waveforms

import (
	"context"
	"errors"
	"sync"

	"github.com/killallgit/jamboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements WaveformRepository
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new waveform repository
func NewRepository(db *gorm.DB) WaveformRepository {
	return &repository{db: db}
}

// GetByClipID retrieves waveform by clip ID
func (r *repository) GetByClipID(ctx context.Context, clipID string) (*models.Waveform, error) {
	var waveform models.Waveform
	err := r.db.WithContext(ctx).
		Where("clip_id = ?", clipID).
		First(&waveform).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWaveformNotFound
		}
		return nil, err
	}

	return &waveform, nil
}

// Save upserts a waveform keyed by clip ID
func (r *repository) Save(ctx context.Context, waveform *models.Waveform) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clip_id"}},
		UpdateAll: true,
	}).Create(waveform).Error
}

// Delete removes a waveform by clip ID; a missing row is not an error
func (r *repository) Delete(ctx context.Context, clipID string) error {
	return r.db.WithContext(ctx).
		Where("clip_id = ?", clipID).
		Delete(&models.Waveform{}).Error
}

// memoryRepository keeps waveforms for the lifetime of the process
type memoryRepository struct {
	mu        sync.RWMutex
	waveforms map[string]models.Waveform
}

// NewMemoryRepository creates a repository for instances without a database
func NewMemoryRepository() WaveformRepository {
	return &memoryRepository{waveforms: make(map[string]models.Waveform)}
}

func (m *memoryRepository) GetByClipID(_ context.Context, clipID string) (*models.Waveform, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.waveforms[clipID]
	if !ok {
		return nil, ErrWaveformNotFound
	}
	return &w, nil
}

func (m *memoryRepository) Save(_ context.Context, waveform *models.Waveform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waveforms[waveform.ClipID] = *waveform
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, clipID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.waveforms, clipID)
	return nil
}
