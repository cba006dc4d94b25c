package processing

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/RMahshie/poreview/internal/repository/postgres"
	"github.com/RMahshie/poreview/internal/signal"
	"github.com/RMahshie/poreview/internal/storage"
	"github.com/RMahshie/poreview/pkg/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	minioContainer    testcontainers.Container
	dbURL             string
	minioURL          string
	bucketName        string
	minioClient       *minio.Client
}

// SetupIntegrationTest sets up PostgreSQL and MinIO containers for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()

	ctx := context.Background()

	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("poreview_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		tcminio.WithUsername(minioUser),
		tcminio.WithPassword(minioPassword),
	)
	require.NoError(t, err)

	minioURL, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := minio.New(minioURL, &minio.Options{
		Creds:  credentials.NewStaticV4(minioUser, minioPassword, ""),
		Secure: false,
	})
	require.NoError(t, err)

	bucketName := "poreview-test-" + uuid.New().String()[:8]
	require.NoError(t, client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}))

	return &TestContainer{
		postgresContainer: pg,
		minioContainer:    minioContainer,
		dbURL:             dbURL,
		minioURL:          minioURL,
		bucketName:        bucketName,
		minioClient:       client,
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.minioContainer != nil {
		require.NoError(t, tc.minioContainer.Terminate(ctx))
	}
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(ctx))
	}
}

func (tc *TestContainer) newService(t *testing.T) (ProcessingService, *sql.DB, storage.S3Service) {
	t.Helper()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, postgres.Migrate(context.Background(), db))

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: minioUser,
		SecretKey: minioPassword,
	})
	require.NoError(t, err)

	store, err := storage.NewSignalStore(s3Service, 8)
	require.NoError(t, err)

	return NewProcessingService(s3Service, store, postgres.NewPostgresReadRepository(db)), db, s3Service
}

func sineTrace(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(500 + 200*math.Sin(2*math.Pi*float64(i)/4000))
	}
	return out
}

// TestIngestPipeline_Integration tests ingest and reload of a real signal
func TestIngestPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()
	svc, db, s3Service := tc.newService(t)
	repo := postgres.NewPostgresReadRepository(db)

	adc := sineTrace(120000)
	blob := signal.EncodeADC(adc)
	key := "signals/" + uuid.New().String() + ".bin"
	require.NoError(t, s3Service.UploadFile(ctx, key, blob))

	info, err := tc.minioClient.StatObject(ctx, tc.bucketName, key, minio.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(blob)), info.Size)
	assert.Equal(t, signal.BlobContentType, info.ContentType)

	read := &models.Read{
		FilePath:          "run/batch_0.pod5",
		SampleCount:       len(adc),
		CalibrationOffset: 10,
		CalibrationScale:  0.2,
		SignalS3Key:       &key,
	}
	require.NoError(t, repo.Create(ctx, read))
	readID := uuid.MustParse(read.ID)

	require.NoError(t, svc.IngestRead(ctx, readID))

	got, err := repo.GetByID(ctx, readID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.NotNil(t, got.CompletedAt)

	summary, err := repo.GetSummary(ctx, readID)
	require.NoError(t, err)
	assert.Equal(t, len(adc), summary.Raw.Count)
	assert.InDelta(t, 500, summary.Raw.Mean, 1)
	assert.InDelta(t, (500+10)*0.2, summary.PA.Mean, 0.5)

	_, pa, err := svc.LoadSignal(ctx, readID, true)
	require.NoError(t, err)
	require.Len(t, pa, len(adc))

	ds, err := signal.Downsample(pa, 10000)
	require.NoError(t, err)
	assert.Len(t, ds.Values, 10000)
	assert.Equal(t, 12, ds.BinWidth)

	// the pre-signed download URL serves the stored blob unchanged
	url, err := s3Service.GenerateDownloadURL(ctx, key)
	require.NoError(t, err)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	downloaded, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(blob, downloaded))
}

// TestIngestPipelineFailure_Integration tests error handling in the pipeline
func TestIngestPipelineFailure_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()
	svc, db, _ := tc.newService(t)
	repo := postgres.NewPostgresReadRepository(db)

	missingKey := "signals/non-existent.bin"
	read := &models.Read{FilePath: "run/batch_0.pod5", CalibrationScale: 1, SignalS3Key: &missingKey}
	require.NoError(t, repo.Create(ctx, read))
	readID := uuid.MustParse(read.ID)

	// IngestRead itself shouldn't error, but status should be failed
	require.NoError(t, svc.IngestRead(ctx, readID))

	got, err := repo.GetByID(ctx, readID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)

	_, _, err = svc.LoadSignal(ctx, readID, false)
	assert.ErrorIs(t, err, ErrNotIngested)
}
