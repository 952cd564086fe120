package models

import (
	"encoding/json"
	"time"
)

// Waveform caches the peak data of a clip's audio. PeaksData holds the
// JSON-encoded []float32, Duration is in seconds.
type Waveform struct {
	ClipID     string    `json:"clipId" gorm:"primaryKey;size:64"`
	PeaksData  []byte    `json:"-" gorm:"type:blob;not null"`
	Duration   float64   `json:"duration" gorm:"not null"`
	Resolution int       `json:"resolution" gorm:"not null"`
	SampleRate int       `json:"sampleRate,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (Waveform) TableName() string {
	return "waveforms"
}

// Peaks returns the decoded peaks data
func (w *Waveform) Peaks() ([]float32, error) {
	var peaks []float32
	if err := json.Unmarshal(w.PeaksData, &peaks); err != nil {
		return nil, err
	}
	return peaks, nil
}

// SetPeaks encodes and sets the peaks data
func (w *Waveform) SetPeaks(peaks []float32) error {
	data, err := json.Marshal(peaks)
	if err != nil {
		return err
	}
	w.PeaksData = data
	w.Resolution = len(peaks)
	return nil
}
