package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/poreview/internal/repository"
	"github.com/RMahshie/poreview/internal/signal"
	"github.com/RMahshie/poreview/internal/storage"
	"github.com/RMahshie/poreview/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotIngested is returned when a read's signal is requested before ingest completed
var ErrNotIngested = errors.New("read signal not ingested")

type ProcessingService interface {
	IngestRead(ctx context.Context, readID uuid.UUID) error
	LoadSignal(ctx context.Context, readID uuid.UUID, inPA bool) (*models.Read, []float64, error)
}

type processingService struct {
	s3         storage.S3Service
	signals    *storage.SignalStore
	repository repository.ReadRepository
}

func NewProcessingService(s3Service storage.S3Service, signals *storage.SignalStore, repo repository.ReadRepository) ProcessingService {
	return &processingService{
		s3:         s3Service,
		signals:    signals,
		repository: repo,
	}
}

// IngestRead downloads, decodes and summarises an uploaded signal. Failures
// of the upload itself mark the read failed and return nil; repository
// failures are returned.
func (s *processingService) IngestRead(ctx context.Context, readID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, readID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get read details
	read, err := s.repository.GetByID(ctx, readID)
	if err != nil {
		return err
	}
	if read.SignalS3Key == nil {
		return s.repository.UpdateError(ctx, readID, "Read has no uploaded signal")
	}

	// Step 3: Download from S3
	if err := s.repository.UpdateStatus(ctx, readID, models.StatusProcessing, 20); err != nil {
		return err
	}
	data, err := s.s3.DownloadFile(ctx, *read.SignalS3Key)
	if err != nil {
		log.Error().Err(err).Str("readID", read.ID).Msg("Signal download failed")
		return s.repository.UpdateError(ctx, readID, "Failed to download signal")
	}

	// Step 4: Decode and verify
	if err := s.repository.UpdateStatus(ctx, readID, models.StatusProcessing, 50); err != nil {
		return err
	}
	adc, err := signal.DecodeADC(data)
	if err != nil {
		return s.repository.UpdateError(ctx, readID, fmt.Sprintf("Invalid signal blob: %v", err))
	}
	if read.SampleCount > 0 && len(adc) != read.SampleCount {
		return s.repository.UpdateError(ctx, readID,
			fmt.Sprintf("Signal has %d samples, expected %d", len(adc), read.SampleCount))
	}

	// Step 5: Summarise raw and calibrated signal
	if err := s.repository.UpdateStatus(ctx, readID, models.StatusProcessing, 80); err != nil {
		return err
	}
	summary := &models.SignalSummary{
		ID:        uuid.New().String(),
		ReadID:    read.ID,
		Raw:       signal.Summarize(adc),
		PA:        signal.Summarize(signal.Calibrate(adc, read.CalibrationOffset, read.CalibrationScale)),
		CreatedAt: time.Now(),
	}

	// Step 6: Store summary
	if err := s.repository.UpdateStatus(ctx, readID, models.StatusProcessing, 90); err != nil {
		return err
	}
	if err := s.repository.StoreSummary(ctx, summary); err != nil {
		return err
	}
	s.signals.Put(*read.SignalS3Key, adc)

	// Step 7: Mark complete
	if err := s.repository.UpdateStatus(ctx, readID, models.StatusCompleted, 100); err != nil {
		return err
	}

	log.Info().Str("readID", read.ID).Int("samples", len(adc)).Msg("Read ingested")
	return nil
}

// LoadSignal returns the full signal of an ingested read, in raw ADC counts
// or calibrated pA. The returned slice is owned by the caller.
func (s *processingService) LoadSignal(ctx context.Context, readID uuid.UUID, inPA bool) (*models.Read, []float64, error) {
	read, err := s.repository.GetByID(ctx, readID)
	if err != nil {
		return nil, nil, err
	}
	if read.Status != models.StatusCompleted || read.SignalS3Key == nil {
		return read, nil, fmt.Errorf("read %s is %s: %w", read.ID, read.Status, ErrNotIngested)
	}

	adc, err := s.signals.Load(ctx, *read.SignalS3Key)
	if err != nil {
		return read, nil, err
	}

	if inPA {
		return read, signal.Calibrate(adc, read.CalibrationOffset, read.CalibrationScale), nil
	}
	return read, signal.Float64s(adc), nil
}
