package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/seekfs/seekfs/cmd/seekfs/internal/config"
	"github.com/seekfs/seekfs/pkg/blob"
	"github.com/seekfs/seekfs/pkg/embed"
	"github.com/seekfs/seekfs/pkg/kv"
	"github.com/seekfs/seekfs/pkg/search"
	"github.com/seekfs/seekfs/pkg/vecstore"
)

// snapshotKey is the object name of the vector index snapshot within
// the snapshot store.
const snapshotKey = "index.msgpack"

// app bundles the storage and search components one command run needs.
type app struct {
	cfg   *config.Config
	store kv.Store
	vec   *vecstore.Flat
	svc   *search.Service
}

// buildApp opens the stores and assembles the search service from the
// configuration file. Call close when done; it flushes the vector
// snapshot and closes the record database.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	store, err := kv.NewBadger(kv.BadgerOptions{
		Dir: filepath.Join(cfg.DataDir, "records"),
	})
	if err != nil {
		return nil, err
	}

	snapshots, err := newSnapshotStore(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	vec, err := vecstore.Open(ctx, snapshots, snapshotKey)
	if err != nil {
		store.Close()
		return nil, err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	svc, err := search.New(search.Config{
		Store:        store,
		Vec:          vec,
		Embedder:     embedder,
		Root:         cfg.Root,
		ChunkSize:    cfg.ChunkSize,
		SnippetLimit: cfg.SnippetLimit,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	slog.Debug("app assembled",
		"data_dir", cfg.DataDir,
		"embedder", cfg.Embedder.Kind,
		"snapshot", cfg.Snapshot.Backend,
		"vectors", vec.Len())
	return &app{cfg: cfg, store: store, vec: vec, svc: svc}, nil
}

func (a *app) close() {
	if err := a.vec.Close(); err != nil {
		slog.Warn("vector snapshot flush failed", "error", err)
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("record store close failed", "error", err)
	}
}

func newEmbedder(cfg *config.Config) (embed.Embedder, error) {
	switch cfg.Embedder.Kind {
	case config.EmbedderHash:
		return embed.NewHash(cfg.Embedder.Dimension), nil
	case config.EmbedderOpenAI:
		var opts []embed.Option
		if cfg.Embedder.Model != "" {
			opts = append(opts, embed.WithModel(cfg.Embedder.Model))
		}
		if cfg.Embedder.Dimension > 0 {
			opts = append(opts, embed.WithDimension(cfg.Embedder.Dimension))
		}
		if cfg.Embedder.BaseURL != "" {
			opts = append(opts, embed.WithBaseURL(cfg.Embedder.BaseURL))
		}
		return embed.NewOpenAI(cfg.Embedder.APIKey, opts...), nil
	default:
		return nil, fmt.Errorf("unknown embedder kind %q", cfg.Embedder.Kind)
	}
}

func newSnapshotStore(cfg *config.Config) (blob.Store, error) {
	switch cfg.Snapshot.Backend {
	case config.SnapshotLocal:
		return blob.NewDir(filepath.Join(cfg.DataDir, "vectors"))
	case config.SnapshotS3:
		client := s3.New(s3.Options{
			Region: cfg.Snapshot.Region,
			Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.Snapshot.AccessKey,
					SecretAccessKey: cfg.Snapshot.SecretKey,
				}, nil
			}),
			BaseEndpoint: endpointOrNil(cfg.Snapshot.Endpoint),
		})
		return blob.NewS3(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}

func endpointOrNil(endpoint string) *string {
	if endpoint == "" {
		return nil
	}
	return &endpoint
}
