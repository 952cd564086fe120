package models

import "time"

// Record is one entry of the persistent key-value store
type Record struct {
	Key       string    `json:"key" gorm:"primaryKey;column:record_key;size:128"`
	Value     string    `json:"value" gorm:"column:record_value;type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Record model
func (Record) TableName() string {
	return "kv_records"
}

// Size is the stored footprint of the record, key plus value
func (r Record) Size() int64 {
	return int64(len(r.Key) + len(r.Value))
}
