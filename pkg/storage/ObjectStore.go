package storage

import (
	"fmt"
	"io"
	"time"
)

var (
	ErrObjectNotFound = fmt.Errorf("object not found")
)

type StoredObject struct {
	Key          string
	Url          string
	LastModified time.Time
}

type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

/*
ObjectStore is everything the site needs from blob storage. Keys are always
relative to the store's bucket.
*/
type ObjectStore interface {
	Put(key string, body io.Reader) error
	PutStream(key, contentType string) (io.WriteCloser, func() error, error)
	Get(key string) (Object, error)
	URL(key string) (string, error)
	Delete(keys ...string) error
	IsStale(key string, reference time.Time) (exists bool, stale bool, err error)
	List(prefix string, extensions ...string) ([]StoredObject, error)
	EnsureBucket(region string) error
}
