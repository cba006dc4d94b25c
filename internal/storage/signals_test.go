package storage

import (
	"context"
	"testing"

	"github.com/RMahshie/poreview/internal/mocks"
	"github.com/RMahshie/poreview/internal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignalStore_LoadCaches(t *testing.T) {
	mockS3 := &mocks.MockS3Service{}
	mockS3.On("DownloadFile", mock.Anything, "signals/a.bin").
		Return(signal.EncodeADC([]int16{1, -2, 3}), nil).Once()

	store, err := NewSignalStore(mockS3, 4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		adc, err := store.Load(context.Background(), "signals/a.bin")
		require.NoError(t, err)
		assert.Equal(t, []int16{1, -2, 3}, adc)
	}
	mockS3.AssertExpectations(t)
}

func TestSignalStore_LoadErrors(t *testing.T) {
	mockS3 := &mocks.MockS3Service{}
	mockS3.On("DownloadFile", mock.Anything, "missing").Return(nil, assert.AnError)
	mockS3.On("DownloadFile", mock.Anything, "odd").Return([]byte{1, 2, 3}, nil)

	store, err := NewSignalStore(mockS3, 4)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = store.Load(context.Background(), "odd")
	assert.Error(t, err)
}

func TestSignalStore_DeleteEvicts(t *testing.T) {
	mockS3 := &mocks.MockS3Service{}
	mockS3.On("DeleteFile", mock.Anything, "k").Return(nil)
	mockS3.On("DownloadFile", mock.Anything, "k").Return(signal.EncodeADC([]int16{9}), nil).Once()

	store, err := NewSignalStore(mockS3, 4)
	require.NoError(t, err)
	store.Put("k", []int16{1})

	adc, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []int16{1}, adc)

	require.NoError(t, store.Delete(context.Background(), "k"))

	adc, err = store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []int16{9}, adc)
	mockS3.AssertExpectations(t)
}

func TestNewSignalStore_InvalidSize(t *testing.T) {
	_, err := NewSignalStore(&mocks.MockS3Service{}, 0)
	assert.Error(t, err)
}

func TestValidateContentType(t *testing.T) {
	s := &s3Service{}
	assert.NoError(t, s.validateContentType("application/octet-stream"))
	assert.Error(t, s.validateContentType("audio/wav"))
}

func TestSignalStore_Upload(t *testing.T) {
	mockS3 := &mocks.MockS3Service{}
	blob := signal.EncodeADC([]int16{7, 8})
	mockS3.On("UploadFile", mock.Anything, "k", blob).Return(nil).Once()
	mockS3.On("DownloadFile", mock.Anything, "k").Return(blob, nil).Once()

	store, err := NewSignalStore(mockS3, 4)
	require.NoError(t, err)
	store.Put("k", []int16{1})

	require.NoError(t, store.Upload(context.Background(), "k", blob))

	// the stale cached copy is gone
	adc, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []int16{7, 8}, adc)

	err = store.Upload(context.Background(), "k", []byte{1, 2, 3})
	assert.ErrorIs(t, err, signal.ErrOddLength)
	mockS3.AssertExpectations(t)
}

func TestSignalStore_DownloadURL(t *testing.T) {
	mockS3 := &mocks.MockS3Service{}
	mockS3.On("GenerateDownloadURL", mock.Anything, "k").Return("https://s3.example.com/k", nil)

	store, err := NewSignalStore(mockS3, 4)
	require.NoError(t, err)

	url, err := store.DownloadURL(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/k", url)
}
