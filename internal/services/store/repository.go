package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/jamboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements Store on a gorm table of key/value rows
type repository struct {
	db    *gorm.DB
	quota int64
}

// NewRepository creates a gorm-backed store. A quota of zero disables the limit.
// The kv_records table must already be migrated.
func NewRepository(db *gorm.DB, quota int64) Store {
	return &repository{db: db, quota: quota}
}

// Get retrieves a value by key
func (r *repository) Get(ctx context.Context, key string) (string, bool, error) {
	var rec models.Record
	err := r.db.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return rec.Value, true, nil
}

// Set upserts a value, checking the quota inside the same transaction
func (r *repository) Set(ctx context.Context, key, value string) error {
	rec := models.Record{Key: key, Value: value}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.quota > 0 {
			others, err := footprint(tx, key)
			if err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
			if others+rec.Size() > r.quota {
				return fmt.Errorf("set %s (%d bytes, %d in use, quota %d): %w",
					key, rec.Size(), others, r.quota, ErrQuotaExceeded)
			}
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"record_value", "updated_at"}),
		}).Create(&rec).Error
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes a value by key
func (r *repository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("record_key = ?", key).Delete(&models.Record{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Usage returns the byte footprint of every stored record
func (r *repository) Usage(ctx context.Context) (int64, error) {
	return footprint(r.db.WithContext(ctx), "")
}

// footprint sums key and value bytes for all rows except the given key
func footprint(tx *gorm.DB, except string) (int64, error) {
	var total int64
	err := tx.Model(&models.Record{}).
		Select("COALESCE(SUM(LENGTH(CAST(record_key AS BLOB)) + LENGTH(CAST(record_value AS BLOB))), 0)").
		Where("record_key <> ?", except).
		Scan(&total).Error
	return total, err
}
