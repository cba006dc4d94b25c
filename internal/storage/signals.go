package storage

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/poreview/internal/signal"
)

// SignalStore loads decoded ADC signals, keeping recently used ones in memory.
// Cached slices are shared between callers and must not be modified.
type SignalStore struct {
	s3    S3Service
	cache *lru.Cache
}

// NewSignalStore wraps s3Service with an LRU cache of size decoded signals
func NewSignalStore(s3Service S3Service, size int) (*SignalStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create signal cache: %w", err)
	}
	return &SignalStore{s3: s3Service, cache: cache}, nil
}

// Load returns the ADC signal stored under key
func (s *SignalStore) Load(ctx context.Context, key string) ([]int16, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]int16), nil
	}

	data, err := s.s3.DownloadFile(ctx, key)
	if err != nil {
		return nil, err
	}
	adc, err := signal.DecodeADC(data)
	if err != nil {
		return nil, fmt.Errorf("signal %s: %w", key, err)
	}

	s.cache.Add(key, adc)
	log.Debug().Str("key", key).Int("samples", len(adc)).Msg("Cached decoded signal")
	return adc, nil
}

// Put caches an already decoded signal
func (s *SignalStore) Put(key string, adc []int16) {
	s.cache.Add(key, adc)
}

// Delete removes the blob and any cached copy
func (s *SignalStore) Delete(ctx context.Context, key string) error {
	s.cache.Remove(key)
	return s.s3.DeleteFile(ctx, key)
}

// Upload stores a raw blob under key, replacing any cached copy
func (s *SignalStore) Upload(ctx context.Context, key string, data []byte) error {
	if len(data)%2 != 0 {
		return fmt.Errorf("signal %s: %w %d", key, signal.ErrOddLength, len(data))
	}
	if err := s.s3.UploadFile(ctx, key, data); err != nil {
		return err
	}
	s.cache.Remove(key)
	return nil
}

// DownloadURL returns a pre-signed URL for the raw blob
func (s *SignalStore) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.s3.GenerateDownloadURL(ctx, key)
}
