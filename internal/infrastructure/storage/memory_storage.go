package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	documentapp "github.com/dansever/estait-app-sub000/internal/application/document"
)

// Ensure MemoryObjectStorage implements ObjectStorage
var _ documentapp.ObjectStorage = (*MemoryObjectStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStorage keeps objects in process memory. Used in development
// and tests where no S3-compatible store is running.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	pending map[string]string

	// BaseURL prefixes the generated upload and download URLs
	BaseURL string
	// AssumeUploaded makes keys handed out by GenerateUploadURL count as
	// existing, since nothing can PUT to the fake URL
	AssumeUploaded bool
	now            func() time.Time
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects:        make(map[string]memoryObject),
		pending:        make(map[string]string),
		BaseURL:        "http://localhost:8080/_storage",
		AssumeUploaded: true,
		now:            time.Now,
	}
}

// GenerateUploadURL registers the key as pending and returns a fake PUT URL
func (s *MemoryObjectStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	s.mu.Lock()
	s.pending[storageKey] = contentType
	s.mu.Unlock()

	expiresAt := s.now().Add(expiresIn)
	return s.url("upload", storageKey, expiresAt), expiresAt, nil
}

// GenerateDownloadURL returns a fake GET URL
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := s.now().Add(expiresIn)
	return s.url("download", storageKey, expiresAt), expiresAt, nil
}

func (s *MemoryObjectStorage) url(action, storageKey string, expiresAt time.Time) string {
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return s.BaseURL + "/" + action + "/" + storageKey + "?" + q.Encode()
}

// HeadObject reports stored objects, plus pending keys when AssumeUploaded is set
func (s *MemoryObjectStorage) HeadObject(_ context.Context, storageKey string) (int64, bool, error) {
	if storageKey == "" {
		return 0, false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if obj, ok := s.objects[storageKey]; ok {
		return int64(len(obj.data)), true, nil
	}
	if _, ok := s.pending[storageKey]; ok && s.AssumeUploaded {
		return 0, true, nil
	}
	return 0, false, nil
}

// Upload stores a copy of data
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	delete(s.pending, storageKey)
	return nil
}

// DeleteObject removes the object; missing keys are ignored
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	delete(s.pending, storageKey)
	return nil
}

// Object returns a stored object's bytes and content type
func (s *MemoryObjectStorage) Object(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}
