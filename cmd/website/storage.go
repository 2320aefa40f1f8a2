package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/studiosite/pkg/storage"
)

const (
	storageDriverMemory = "memory"
	storageDriverS3     = "s3"
)

/*
setupStorage picks the object store from STORAGE_DRIVER. The memory driver
keeps everything in process and is meant for local work without LocalStack.
*/
func setupStorage() storage.ObjectStore {
	var (
		err error
	)

	if config.StorageDriver == storageDriverMemory {
		slog.Warn("using in-memory object storage. uploads are lost on restart")
		return storage.NewMemoryStore(config.MediaBaseURL)
	}

	if config.StorageDriver != storageDriverS3 {
		panic(fmt.Sprintf("unknown storage driver '%s'", config.StorageDriver))
	}

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	return storage.NewS3Store(storage.S3StoreConfig{
		Bucket:        config.AwsBucket,
		Client:        s3Client,
		UrlExpiration: time.Hour,
	})
}
