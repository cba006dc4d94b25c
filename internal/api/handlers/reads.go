package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/RMahshie/poreview/internal/config"
	"github.com/RMahshie/poreview/internal/export"
	"github.com/RMahshie/poreview/internal/processing"
	"github.com/RMahshie/poreview/internal/repository"
	"github.com/RMahshie/poreview/internal/signal"
	"github.com/RMahshie/poreview/internal/storage"
	"github.com/RMahshie/poreview/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxSignalBytes bounds a single uploaded signal blob (512 Mi samples)
const MaxSignalBytes = 1 << 30

// uploadExpiry matches the lifetime of pre-signed upload URLs
const uploadExpiry = 15 * time.Minute

// ReadHandler handles read-related HTTP requests
type ReadHandler struct {
	repo          repository.ReadRepository
	s3Service     storage.S3Service
	signals       *storage.SignalStore
	processingSvc processing.ProcessingService
	cfg           config.SignalConfig
}

// NewReadHandler creates a new read handler
func NewReadHandler(repo repository.ReadRepository, s3Service storage.S3Service, signals *storage.SignalStore, processingSvc processing.ProcessingService, cfg config.SignalConfig) *ReadHandler {
	return &ReadHandler{
		repo:          repo,
		s3Service:     s3Service,
		signals:       signals,
		processingSvc: processingSvc,
		cfg:           cfg,
	}
}

// CreateRead registers a read and returns an upload URL for its signal blob
func (h *ReadHandler) CreateRead(ctx context.Context, req *models.CreateReadRequest) (*models.CreateReadResponse, error) {
	body := req.Body
	log.Info().Str("readID", body.ReadID).Str("filePath", body.FilePath).Int64("fileSize", body.FileSize).Msg("Creating new read")

	readID, err := uuid.Parse(body.ReadID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid read ID", err)
	}

	if body.FileSize%2 != 0 {
		return nil, huma.Error400BadRequest("Signal blob must hold whole 16-bit samples", nil)
	}
	if body.FileSize > MaxSignalBytes {
		return nil, huma.Error400BadRequest("Signal blob too large", nil)
	}
	if body.SampleCount > 0 && body.FileSize != 2*int64(body.SampleCount) {
		return nil, huma.Error400BadRequest(
			fmt.Sprintf("File size %d does not match %d samples", body.FileSize, body.SampleCount), nil)
	}
	if body.CalibrationScale == 0 {
		return nil, huma.Error400BadRequest("Calibration scale must be non-zero", nil)
	}

	if _, err := h.repo.GetByID(ctx, readID); err == nil {
		return nil, huma.Error409Conflict("Read already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error500InternalServerError("Failed to check read", err)
	}

	signalKey := fmt.Sprintf("signals/%s.bin", readID)

	log.Info().Str("signalKey", signalKey).Str("mimeType", body.MimeType).Msg("Generating S3 upload URL")
	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, signalKey, body.MimeType)
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Signal format not supported", err)
		}
		return nil, huma.Error500InternalServerError("Failed to prepare upload", err)
	}

	read := &models.Read{
		ID:                readID.String(),
		FilePath:          body.FilePath,
		ReadNumber:        body.ReadNumber,
		Channel:           body.Channel,
		SampleCount:       body.SampleCount,
		SampleRate:        body.SampleRate,
		CalibrationOffset: body.CalibrationOffset,
		CalibrationScale:  body.CalibrationScale,
		Status:            models.StatusPending,
		SignalS3Key:       &signalKey,
	}
	if err := h.repo.Create(ctx, read); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create read", err)
	}

	log.Info().Str("readID", read.ID).Msg("Read created, returning upload URL to client")
	return &models.CreateReadResponse{
		Body: models.CreateReadResponseBody{
			ID:        read.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(uploadExpiry.Seconds()),
		},
	}, nil
}

// ListReads returns the file to read ID mapping of the navigator
func (h *ReadHandler) ListReads(ctx context.Context, req *models.ListReadsRequest) (*models.ListReadsResponse, error) {
	filter := repository.ListFilter{
		Search: strings.TrimSpace(req.Search),
		IDs:    splitIDs(req.IDs),
		Order:  repository.SortOrder(req.Order),
		Level:  repository.SortLevel(req.Level),
	}

	files, err := h.repo.ListByFile(ctx, filter)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list reads", err)
	}

	resp := &models.ListReadsResponse{}
	resp.Body.Files = files
	if resp.Body.Files == nil {
		resp.Body.Files = []models.FileReads{}
	}
	return resp, nil
}

// GetRead returns a read's metadata and, once ingested, its signal summary
func (h *ReadHandler) GetRead(ctx context.Context, req *models.GetReadRequest) (*models.GetReadResponse, error) {
	readID, read, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	summary, err := h.repo.GetSummary(ctx, readID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error500InternalServerError("Failed to get signal summary", err)
	}

	return &models.GetReadResponse{
		Body: models.GetReadResponseBody{Read: read, Summary: summary},
	}, nil
}

// GetReadStatus returns the current ingest status of a read
func (h *ReadHandler) GetReadStatus(ctx context.Context, req *models.GetReadStatusRequest) (*models.GetReadStatusResponse, error) {
	_, read, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	message := statusMessage(read.Status, read.Progress)
	if read.Status == models.StatusFailed && read.ErrorMsg != nil {
		message = *read.ErrorMsg
	}

	return &models.GetReadStatusResponse{
		Body: models.GetReadStatusResponseBody{
			ID:       read.ID,
			Status:   read.Status,
			Progress: read.Progress,
			Message:  message,
		},
	}, nil
}

// StartIngest starts ingesting an uploaded signal in the background
func (h *ReadHandler) StartIngest(ctx context.Context, req *models.StartIngestRequest) (*models.MessageResponse, error) {
	log.Info().Str("readID", req.ID).Msg("Ingest start request received")
	readID, read, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if read.Status == models.StatusProcessing {
		return nil, huma.Error409Conflict("Ingest already in progress", nil)
	}

	// Start ingest in background (don't wait for completion)
	go func() {
		if err := h.processingSvc.IngestRead(context.Background(), readID); err != nil {
			log.Error().Err(err).Str("readID", readID.String()).Msg("Ingest failed")
			h.repo.UpdateError(context.Background(), readID, fmt.Sprintf("Ingest failed: %v", err))
		}
	}()

	resp := &models.MessageResponse{}
	resp.Body.Message = "Ingest started successfully"
	return resp, nil
}

// DeleteRead removes a read, its summary and its stored signal
func (h *ReadHandler) DeleteRead(ctx context.Context, req *models.DeleteReadRequest) (*models.MessageResponse, error) {
	readID, read, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if read.SignalS3Key != nil {
		if err := h.signals.Delete(ctx, *read.SignalS3Key); err != nil {
			return nil, huma.Error500InternalServerError("Failed to delete signal", err)
		}
	}
	if err := h.repo.Delete(ctx, readID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Read not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to delete read", err)
	}

	log.Info().Str("readID", read.ID).Msg("Read deleted")
	resp := &models.MessageResponse{}
	resp.Body.Message = "Read deleted"
	return resp, nil
}

// DownloadRead returns a pre-signed URL of a read's raw signal blob
func (h *ReadHandler) DownloadRead(ctx context.Context, req *models.DownloadReadRequest) (*models.DownloadReadResponse, error) {
	_, read, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if read.Status != models.StatusCompleted || read.SignalS3Key == nil {
		return nil, huma.Error409Conflict("Read signal not yet ingested", nil)
	}

	url, err := h.signals.DownloadURL(ctx, *read.SignalS3Key)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to prepare download", err)
	}

	resp := &models.DownloadReadResponse{}
	resp.Body.ID = read.ID
	resp.Body.DownloadURL = url
	resp.Body.ExpiresIn = int(storage.DownloadURLExpiry.Seconds())
	return resp, nil
}

// UploadSignal stores a signal blob sent in the request body
func (h *ReadHandler) UploadSignal(ctx context.Context, req *models.UploadSignalRequest) (*models.MessageResponse, error) {
	_, read, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if read.Status == models.StatusProcessing {
		return nil, huma.Error409Conflict("Ingest in progress", nil)
	}
	if read.SignalS3Key == nil {
		return nil, huma.Error409Conflict("Read has no signal location", nil)
	}

	size := len(req.RawBody)
	if size == 0 || size%2 != 0 {
		return nil, huma.Error400BadRequest("Signal blob must hold whole 16-bit samples", nil)
	}
	if read.SampleCount > 0 && size != 2*read.SampleCount {
		return nil, huma.Error400BadRequest(
			fmt.Sprintf("Blob size %d does not match %d samples", size, read.SampleCount), nil)
	}

	if err := h.signals.Upload(ctx, *read.SignalS3Key, req.RawBody); err != nil {
		return nil, huma.Error500InternalServerError("Failed to store signal", err)
	}

	log.Info().Str("readID", read.ID).Int("bytes", size).Msg("Signal uploaded")
	resp := &models.MessageResponse{}
	resp.Body.Message = "Signal uploaded"
	return resp, nil
}

// GetSignalPage returns one page of the full-resolution signal
func (h *ReadHandler) GetSignalPage(ctx context.Context, req *models.GetSignalPageRequest) (*models.GetSignalPageResponse, error) {
	readID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid read ID", err)
	}

	read, values, err := h.processingSvc.LoadSignal(ctx, readID, req.PA)
	if err != nil {
		return nil, loadError(err)
	}

	size := req.Size
	if size == 0 {
		size = h.cfg.ChunkSize
	}
	page, err := signal.Chunk(values, req.Page, size, req.Columns)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid page request", err)
	}

	resp := &models.GetSignalPageResponse{}
	resp.Body.ReadID = read.ID
	resp.Body.InPA = req.PA
	resp.Body.Page = page
	return resp, nil
}

// ExportRead returns the complete signal of a read as a file download
func (h *ReadHandler) ExportRead(ctx context.Context, req *models.ExportReadRequest) (*models.FileResponse, error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest("Unsupported export format", err)
	}
	readID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid read ID", err)
	}

	read, values, err := h.processingSvc.LoadSignal(ctx, readID, req.PA)
	if err != nil {
		return nil, loadError(err)
	}

	var buf bytes.Buffer
	doc := export.Document{
		ReadID:      read.ID,
		FilePath:    read.FilePath,
		InPA:        req.PA,
		SampleCount: len(values),
		Metadata:    read,
		Signal:      values,
	}
	if err := export.Write(&buf, format, doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to export signal", err)
	}

	log.Info().Str("readID", read.ID).Str("format", string(format)).Int("samples", len(values)).Msg("Signal exported")
	return &models.FileResponse{
		ContentType:        format.ContentType(),
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", read.ID+format.Extension()),
		Body:               buf.Bytes(),
	}, nil
}

// splitIDs parses a comma or whitespace separated read ID list
func splitIDs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// lookup parses a read ID and fetches the read, mapping failures to HTTP errors
func (h *ReadHandler) lookup(ctx context.Context, id string) (uuid.UUID, *models.Read, error) {
	readID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, huma.Error400BadRequest("Invalid read ID", err)
	}
	read, err := h.repo.GetByID(ctx, readID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return readID, nil, huma.Error404NotFound("Read not found", err)
		}
		return readID, nil, huma.Error500InternalServerError("Failed to get read", err)
	}
	return readID, read, nil
}

// loadError maps LoadSignal failures to HTTP errors
func loadError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound("Read not found", err)
	case errors.Is(err, processing.ErrNotIngested):
		return huma.Error409Conflict("Read signal not yet ingested", err)
	}
	return huma.Error500InternalServerError("Failed to load signal", err)
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Waiting for signal upload..."
	case models.StatusProcessing:
		if progress < 20 {
			return "Starting ingest..."
		} else if progress < 50 {
			return "Downloading signal..."
		} else if progress < 80 {
			return "Decoding signal..."
		} else {
			return "Computing signal summary..."
		}
	case models.StatusCompleted:
		return "Signal ready"
	case models.StatusFailed:
		return "Ingest failed. Please upload the signal again."
	default:
		return "Unknown status"
	}
}
