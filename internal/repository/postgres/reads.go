package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/RMahshie/poreview/internal/repository"
	"github.com/RMahshie/poreview/internal/signal"
	"github.com/RMahshie/poreview/pkg/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresReadRepository implements ReadRepository for PostgreSQL
type PostgresReadRepository struct {
	db *sql.DB
}

// NewPostgresReadRepository creates a new PostgreSQL read repository
func NewPostgresReadRepository(db *sql.DB) repository.ReadRepository {
	return &PostgresReadRepository{db: db}
}

const readColumns = `id, file_path, read_number, channel, sample_count, sample_rate,
	calibration_offset, calibration_scale, status, progress, signal_s3_key,
	error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRead(row rowScanner) (*models.Read, error) {
	var read models.Read
	var signalKey, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&read.ID,
		&read.FilePath,
		&read.ReadNumber,
		&read.Channel,
		&read.SampleCount,
		&read.SampleRate,
		&read.CalibrationOffset,
		&read.CalibrationScale,
		&read.Status,
		&read.Progress,
		&signalKey,
		&errorMsg,
		&read.CreatedAt,
		&read.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if signalKey.Valid {
		read.SignalS3Key = &signalKey.String
	}
	if errorMsg.Valid {
		read.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		read.CompletedAt = &completedAt.Time
	}
	return &read, nil
}

// Create inserts a new read record
func (r *PostgresReadRepository) Create(ctx context.Context, read *models.Read) error {
	if read.ID == "" {
		read.ID = uuid.New().String()
	}
	if read.Status == "" {
		read.Status = models.StatusPending
	}

	query := `
		INSERT INTO reads (id, file_path, read_number, channel, sample_count, sample_rate,
			calibration_offset, calibration_scale, status, progress, signal_s3_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		read.ID,
		read.FilePath,
		read.ReadNumber,
		read.Channel,
		read.SampleCount,
		read.SampleRate,
		read.CalibrationOffset,
		read.CalibrationScale,
		read.Status,
		read.Progress,
		read.SignalS3Key).Scan(&read.CreatedAt, &read.UpdatedAt)
}

// GetByID retrieves a read by ID
func (r *PostgresReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Read, error) {
	query := `SELECT ` + readColumns + ` FROM reads WHERE id = $1`

	read, err := scanRead(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", id, repository.ErrNotFound)
	}
	return read, err
}

// ListByFile returns the read IDs of every file. Search keeps reads whose ID
// starts with it; IDs, when set, keeps only the listed reads. Both apply
// together.
func (r *PostgresReadRepository) ListByFile(ctx context.Context, filter repository.ListFilter) ([]models.FileReads, error) {
	fileDir, readDir := orderDirections(filter)
	query := `
		SELECT file_path, id::text
		FROM reads
		WHERE ($1::text = '' OR id::text LIKE $2 ESCAPE '\')
		  AND (cardinality($3::text[]) = 0 OR id::text = ANY($3::text[]))
		ORDER BY file_path ` + fileDir + `, id::text ` + readDir

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	ids := make([]string, 0, len(filter.IDs))
	for _, id := range filter.IDs {
		ids = append(ids, strings.ToLower(strings.TrimSpace(id)))
	}

	rows, err := r.db.QueryContext(ctx, query, search, escapeLike(search)+"%", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.FileReads
	for rows.Next() {
		var path, id string
		if err := rows.Scan(&path, &id); err != nil {
			return nil, err
		}
		if n := len(files); n == 0 || files[n-1].FilePath != path {
			files = append(files, models.FileReads{FilePath: path})
		}
		last := &files[len(files)-1]
		last.ReadIDs = append(last.ReadIDs, id)
	}
	return files, rows.Err()
}

// escapeLike quotes the LIKE wildcards of s so it matches literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// orderDirections maps the filter onto SQL sort directions for the file and
// read columns. Only the selected level follows the requested order.
func orderDirections(filter repository.ListFilter) (string, string) {
	dir := "ASC"
	if filter.Order == repository.SortDescending {
		dir = "DESC"
	}
	switch filter.Level {
	case repository.SortFiles:
		return dir, "ASC"
	case repository.SortReads:
		return "ASC", dir
	default:
		return dir, dir
	}
}

// UpdateStatus updates the status and progress of a read
func (r *PostgresReadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE reads
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks a read failed with an error message
func (r *PostgresReadRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE reads
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreSummary stores the signal statistics of a read, replacing earlier ones
func (r *PostgresReadRepository) StoreSummary(ctx context.Context, summary *models.SignalSummary) error {
	raw, err := json.Marshal(summary.Raw)
	if err != nil {
		return fmt.Errorf("failed to marshal raw summary: %w", err)
	}
	pa, err := json.Marshal(summary.PA)
	if err != nil {
		return fmt.Errorf("failed to marshal pA summary: %w", err)
	}

	query := `
		INSERT INTO signal_summaries (id, read_id, raw, pa, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (read_id) DO UPDATE SET raw = EXCLUDED.raw, pa = EXCLUDED.pa, created_at = EXCLUDED.created_at`

	_, err = r.db.ExecContext(ctx, query,
		summary.ID,
		summary.ReadID,
		string(raw),
		string(pa),
		summary.CreatedAt)
	return err
}

// GetSummary retrieves the signal statistics of a read
func (r *PostgresReadRepository) GetSummary(ctx context.Context, readID uuid.UUID) (*models.SignalSummary, error) {
	query := `
		SELECT id, read_id, raw, pa, created_at
		FROM signal_summaries
		WHERE read_id = $1`

	var summary models.SignalSummary
	var raw, pa []byte
	err := r.db.QueryRowContext(ctx, query, readID).Scan(
		&summary.ID,
		&summary.ReadID,
		&raw,
		&pa,
		&summary.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summary of read %s: %w", readID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalSummary(raw, &summary.Raw); err != nil {
		return nil, err
	}
	if err := unmarshalSummary(pa, &summary.PA); err != nil {
		return nil, err
	}
	return &summary, nil
}

func unmarshalSummary(data []byte, into *signal.Summary) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return nil
}

// Delete removes a read and, through the foreign key, its summary
func (r *PostgresReadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("read %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
