package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/modelcompat"
	"github.com/hupe1980/modelcompat/blobstore"
	"github.com/hupe1980/modelcompat/blobstore/httpstore"
	"github.com/hupe1980/modelcompat/blobstore/minio"
	"github.com/hupe1980/modelcompat/blobstore/s3"
	"github.com/hupe1980/modelcompat/catalog"
	"github.com/hupe1980/modelcompat/catalog/dynamodb"
	"github.com/hupe1980/modelcompat/config"
	"github.com/hupe1980/modelcompat/resource"
	"github.com/hupe1980/modelcompat/snapshot"
)

func newLogger(w io.Writer, cfg config.LogConfig) (*modelcompat.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return modelcompat.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return modelcompat.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func newResourceController(cfg config.Config) *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:     cfg.Cache.MemoryLimitBytes,
		MaxConcurrentFetches: cfg.Fetch.MaxConcurrent,
		FetchesPerSecond:     cfg.Fetch.PerSecond,
		FetchBurst:           cfg.Fetch.Burst,
	})
}

// newStore opens the blob store holding the catalog and snapshots.
func newStore(ctx context.Context, cfg config.SourceConfig) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case config.SourceLocal:
		return blobstore.NewLocalStore(cfg.Path), nil
	case config.SourceHTTP:
		var opts []httpstore.Option
		for k, v := range cfg.Headers {
			opts = append(opts, httpstore.WithHeader(k, v))
		}
		return httpstore.New(cfg.URL, opts...)
	case config.SourceS3:
		opts := []s3.Option{s3.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		if cfg.PathStyle {
			opts = append(opts, s3.WithPathStyle())
		}
		return s3.New(ctx, cfg.Bucket, opts...)
	case config.SourceMinIO:
		return minio.New(minio.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

func newCatalogSource(ctx context.Context, cfg config.CatalogConfig, store blobstore.Reader) (catalog.Source, error) {
	switch cfg.Kind {
	case config.CatalogBlob:
		return catalog.NewBlobSource(store, cfg.Name), nil
	case config.CatalogDynamoDB:
		return dynamodb.New(ctx, cfg.Table, cfg.Name, cfg.Region)
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", cfg.Kind)
	}
}

// newExplorer wires the configured store, cache, catalog source and limits
// into an Explorer.
func (a *app) newExplorer(ctx context.Context, optFns ...modelcompat.Option) (*modelcompat.Explorer, error) {
	store, err := newStore(ctx, a.cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	rc := newResourceController(a.cfg)

	var reader blobstore.Reader = store
	if a.cfg.Cache.CapacityBytes > 0 {
		reader = blobstore.NewCachingStore(store, a.cfg.Cache.CapacityBytes, rc)
	}

	src, err := newCatalogSource(ctx, a.cfg.Catalog, reader)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	opts := append([]modelcompat.Option{
		modelcompat.WithLogger(a.logger),
		modelcompat.WithResourceController(rc),
	}, optFns...)

	return modelcompat.New(ctx, src, snapshot.NewBlobLoader(reader), opts...)
}
