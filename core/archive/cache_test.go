package archive

import (
	"bytes"
	"context"
	"io"
	"testing"

	"verbena/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func objectBody(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(s)))
}

// A present archive object decodes into the snapshot and loads only once.
func TestCacheLoadOnce(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "verbena", "archive/events.json", mock.Anything).
		Return(objectBody(`{
			"years": {"2024": {"orquestaCount": {"Los Melodicos": 3}}},
			"events": [{"id": "ev-1", "day": "2024-08-15", "municipio": "La Laguna"}]
		}`), nil).
		Once()

	cache := NewCache(client, "verbena", DefaultConfig())

	snap, err := cache.Load(context.Background())
	assert.NoError(t, err)
	assert.True(t, snap.HasYear(2024))
	assert.False(t, snap.HasYear(2023))
	assert.Len(t, snap.Events, 1)
	assert.Equal(t, 3, snap.Years["2024"].OrquestaCount["Los Melodicos"])

	// Second call is served from memory; the Once expectation above would
	// fail on a repeated fetch.
	again, err := cache.Load(context.Background())
	assert.NoError(t, err)
	assert.Same(t, snap, again)
	client.AssertExpectations(t)
}

// A missing archive object yields an empty snapshot, not an error.
func TestCacheLoadMissingObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "verbena", "archive/events.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	cache := NewCache(client, "verbena", DefaultConfig())

	snap, err := cache.Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, snap.Events)
	assert.Empty(t, snap.Years)
	assert.False(t, snap.HasYear(2024))
}

// Storage failures other than a missing key propagate.
func TestCacheLoadStorageError(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "verbena", "archive/events.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "AccessDenied"})

	cache := NewCache(client, "verbena", DefaultConfig())

	_, err := cache.Load(context.Background())
	assert.Error(t, err)
}

// Per-year objects decode independently; an unarchived year returns nil.
func TestCacheLoadYear(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "verbena", "archive/years/2024.json", mock.Anything).
		Return(objectBody(`{"year": 2024, "events": [{"id": "ev-1"}, {"id": "ev-2"}]}`), nil)
	client.On("GetObject", mock.Anything, "verbena", "archive/years/2023.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	cache := NewCache(client, "verbena", DefaultConfig())

	ya, err := cache.LoadYear(context.Background(), 2024)
	assert.NoError(t, err)
	assert.Equal(t, 2024, ya.Year)
	assert.Len(t, ya.Events, 2)

	missing, err := cache.LoadYear(context.Background(), 2023)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

// Corrupt archive content surfaces as a decode error.
func TestCacheLoadCorrupt(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "verbena", "archive/events.json", mock.Anything).
		Return(objectBody(`{not json`), nil)

	cache := NewCache(client, "verbena", DefaultConfig())

	_, err := cache.Load(context.Background())
	assert.Error(t, err)
}
