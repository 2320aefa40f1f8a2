package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/adamgokit/slices"
)

var _ ObjectStore = &MemoryStore{}

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

/*
MemoryStore keeps objects in process memory. It backs local development
without S3 and the test suites. URLs point at BaseURL, which the website
serves through its media route.
*/
type MemoryStore struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		objects: map[string]memoryObject{},
		now:     time.Now,
	}
}

/*
SetClock replaces the clock used to stamp objects. Tests use this to create
old objects.
*/
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

func (s *MemoryStore) Put(key string, body io.Reader) error {
	data, err := io.ReadAll(body)

	if err != nil {
		return fmt.Errorf("error reading body for '%s': %w", key, err)
	}

	s.store(key, data, http.DetectContentType(data))
	return nil
}

func (s *MemoryStore) store(key string, data []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = memoryObject{
		data:         data,
		contentType:  contentType,
		lastModified: s.now(),
	}
}

func (s *MemoryStore) PutStream(key, contentType string) (io.WriteCloser, func() error, error) {
	reader, writer := io.Pipe()
	done := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(reader)

		if err == nil {
			s.store(key, data, contentType)
		}

		done <- err
	}()

	wait := func() error {
		return <-done
	}

	return writer, wait, nil
}

func (s *MemoryStore) Get(key string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]

	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}

	return Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

func (s *MemoryStore) URL(key string) (string, error) {
	return fmt.Sprintf("%s/%s", s.BaseURL, strings.TrimPrefix(key, "/")), nil
}

func (s *MemoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.objects, key)
	}

	return nil
}

func (s *MemoryStore) IsStale(key string, reference time.Time) (bool, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]

	if !ok {
		return false, false, nil
	}

	return true, obj.lastModified.Before(reference), nil
}

func (s *MemoryStore) List(prefix string, extensions ...string) ([]StoredObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []StoredObject{}

	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		if len(extensions) > 0 && !slices.IsInSlice(strings.ToLower(filepath.Ext(key)), extensions) {
			continue
		}

		result = append(result, StoredObject{
			Key:          key,
			Url:          fmt.Sprintf("%s/%s", s.BaseURL, key),
			LastModified: obj.lastModified,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result, nil
}

func (s *MemoryStore) EnsureBucket(region string) error {
	return nil
}
