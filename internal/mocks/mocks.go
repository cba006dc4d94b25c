// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/RMahshie/poreview/internal/repository"
	"github.com/RMahshie/poreview/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReadRepository implements repository.ReadRepository for testing
type MockReadRepository struct {
	mock.Mock
}

func (m *MockReadRepository) Create(ctx context.Context, read *models.Read) error {
	args := m.Called(ctx, read)
	return args.Error(0)
}

func (m *MockReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Read, error) {
	args := m.Called(ctx, id)
	read, _ := args.Get(0).(*models.Read)
	return read, args.Error(1)
}

func (m *MockReadRepository) ListByFile(ctx context.Context, filter repository.ListFilter) ([]models.FileReads, error) {
	args := m.Called(ctx, filter)
	files, _ := args.Get(0).([]models.FileReads)
	return files, args.Error(1)
}

func (m *MockReadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockReadRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockReadRepository) StoreSummary(ctx context.Context, summary *models.SignalSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockReadRepository) GetSummary(ctx context.Context, readID uuid.UUID) (*models.SignalSummary, error) {
	args := m.Called(ctx, readID)
	summary, _ := args.Get(0).(*models.SignalSummary)
	return summary, args.Error(1)
}

func (m *MockReadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProcessingService implements processing.ProcessingService for testing
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) IngestRead(ctx context.Context, readID uuid.UUID) error {
	args := m.Called(ctx, readID)
	return args.Error(0)
}

func (m *MockProcessingService) LoadSignal(ctx context.Context, readID uuid.UUID, inPA bool) (*models.Read, []float64, error) {
	args := m.Called(ctx, readID, inPA)
	read, _ := args.Get(0).(*models.Read)
	values, _ := args.Get(1).([]float64)
	return read, values, args.Error(2)
}
