package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/poreview/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a read or summary does not exist
var ErrNotFound = errors.New("not found")

// SortOrder of the file navigator listing
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// SortLevel selects which level of the listing the order applies to
type SortLevel string

const (
	SortFiles SortLevel = "files"
	SortReads SortLevel = "reads"
	SortAll   SortLevel = "all"
)

// ListFilter controls ListByFile
type ListFilter struct {
	Search string   // read ID prefix
	IDs    []string // restrict to these reads when non-empty
	Order  SortOrder
	Level  SortLevel
}

// ReadRepository defines the interface for read data operations
type ReadRepository interface {
	Create(ctx context.Context, read *models.Read) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Read, error)
	ListByFile(ctx context.Context, filter ListFilter) ([]models.FileReads, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreSummary(ctx context.Context, summary *models.SignalSummary) error
	GetSummary(ctx context.Context, readID uuid.UUID) (*models.SignalSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
