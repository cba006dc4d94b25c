package models

import (
	"time"

	"github.com/RMahshie/poreview/internal/signal"
)

// Read status values
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Read represents one sequencing read and the location of its raw signal (for internal use)
type Read struct {
	ID                string     `json:"id" yaml:"id"`
	FilePath          string     `json:"file_path" yaml:"file_path"`
	ReadNumber        int        `json:"read_number" yaml:"read_number"`
	Channel           int        `json:"channel" yaml:"channel"`
	SampleCount       int        `json:"sample_count" yaml:"sample_count"`
	SampleRate        int        `json:"sample_rate" yaml:"sample_rate"`
	CalibrationOffset float64    `json:"calibration_offset" yaml:"calibration_offset"`
	CalibrationScale  float64    `json:"calibration_scale" yaml:"calibration_scale"`
	Status            string     `json:"status" yaml:"status"`
	Progress          int        `json:"progress" yaml:"progress"`
	SignalS3Key       *string    `json:"signal_s3_key,omitempty" yaml:"signal_s3_key,omitempty"`
	ErrorMsg          *string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" yaml:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// SignalSummary holds statistics computed once at ingest time
type SignalSummary struct {
	ID        string         `json:"id" yaml:"id"`
	ReadID    string         `json:"read_id" yaml:"read_id"`
	Raw       signal.Summary `json:"raw" doc:"Statistics of the raw ADC signal" yaml:"raw"`
	PA        signal.Summary `json:"pa" doc:"Statistics of the calibrated pA signal" yaml:"pa"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// FileReads groups the read IDs stored in one source file
type FileReads struct {
	FilePath string   `json:"file_path" doc:"Source POD5 file"`
	ReadIDs  []string `json:"read_ids" doc:"Read IDs contained in the file"`
}
