package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/geturloptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/s3/putoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3StoreConfig struct {
	Bucket        string
	Client        s3.S3Client
	UrlExpiration time.Duration
}

var _ ObjectStore = S3Store{}

type S3Store struct {
	bucket        string
	client        s3.S3Client
	urlExpiration time.Duration
}

func NewS3Store(config S3StoreConfig) S3Store {
	if config.UrlExpiration <= 0 {
		config.UrlExpiration = time.Minute * 30
	}

	return S3Store{
		bucket:        config.Bucket,
		client:        config.Client,
		urlExpiration: config.UrlExpiration,
	}
}

func (s S3Store) Put(key string, body io.Reader) error {
	if _, err := s.client.Put(s.bucket, key, body); err != nil {
		return fmt.Errorf("error putting '%s' into bucket '%s': %w", key, s.bucket, err)
	}

	return nil
}

func (s S3Store) PutStream(key, contentType string) (io.WriteCloser, func() error, error) {
	stream, err := s.client.PutStream(s.bucket, key, putoptions.WithContentType(contentType))

	if err != nil {
		return nil, nil, fmt.Errorf("error opening upload stream for '%s': %w", key, err)
	}

	wait := func() error {
		_, err := stream.Wait()
		return err
	}

	return stream.Writer, wait, nil
}

func (s S3Store) Get(key string) (Object, error) {
	object, err := s.client.Get(s.bucket, key)

	if err != nil {
		return Object{}, fmt.Errorf("error getting '%s' from bucket '%s': %w", key, s.bucket, err)
	}

	return Object{
		Body:        object.Body,
		ContentType: object.ContentType,
		Size:        int64(object.Size),
	}, nil
}

func (s S3Store) URL(key string) (string, error) {
	return s.client.GetUrl(s.bucket, key)
}

func (s S3Store) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if _, err := s.client.Delete(s.bucket, keys); err != nil {
		return fmt.Errorf("error deleting %d objects from bucket '%s': %w", len(keys), s.bucket, err)
	}

	return nil
}

/*
IsStale reports whether key exists and, if so, whether it was last modified
before reference.
*/
func (s S3Store) IsStale(key string, reference time.Time) (bool, bool, error) {
	stat, err := s.client.StatObject(s.bucket, key)

	if err != nil {
		return false, false, fmt.Errorf("error retrieving metadata for '%s': %w", key, err)
	}

	if stat == nil {
		return false, false, nil
	}

	return true, stat.LastModified.Before(reference), nil
}

/*
List returns every object under prefix, with signed URLs. When extensions are
given, only keys ending in one of them (case-insensitive) are returned.
*/
func (s S3Store) List(prefix string, extensions ...string) ([]StoredObject, error) {
	var (
		err      error
		response s3.ListResponse
	)

	if len(extensions) > 0 {
		response, err = s.client.List(
			s.bucket,
			prefix,
			listoptions.WithGetUrls(),
			listoptions.WithGetAll(),
			listoptions.WithFilter(func(obj types.Object) bool {
				ext := strings.ToLower(filepath.Ext(aws.ToString(obj.Key)))
				return slices.IsInSlice(ext, extensions)
			}),
			listoptions.WithGetUrlOptions(
				geturloptions.WithExpiration(s.urlExpiration),
			),
		)
	} else {
		response, err = s.client.List(
			s.bucket,
			prefix,
			listoptions.WithGetUrls(),
			listoptions.WithGetAll(),
			listoptions.WithGetUrlOptions(
				geturloptions.WithExpiration(s.urlExpiration),
			),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("error listing '%s' in bucket '%s': %w", prefix, s.bucket, err)
	}

	result := make([]StoredObject, 0, len(response.Objects))

	for _, obj := range response.Objects {
		result = append(result, StoredObject{
			Key:          obj.Key,
			Url:          obj.Url,
			LastModified: obj.LastModified,
		})
	}

	return result, nil
}

func (s S3Store) EnsureBucket(region string) error {
	exists, err := s.client.BucketExists(s.bucket)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	if err = s.client.CreateBucket(s.bucket, createbucketoptions.WithRegion(region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}
