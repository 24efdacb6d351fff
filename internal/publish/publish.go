package publish

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/forkscope/forkscope/pkg/config"
)

// maxUploads bounds concurrent Put calls per run.
const maxUploads = 4

// Target is a parsed publish destination.
type Target struct {
	Scheme string // "s3", "gs" or "file"
	Bucket string // empty for file
	Prefix string // key prefix, or the base directory for file
}

// ParseTarget parses s3://bucket/prefix, gs://bucket/prefix, or a plain
// directory path.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("empty publish target")
	}
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Target{Scheme: "file", Prefix: raw}, nil
	}
	switch scheme {
	case "s3", "gs":
	case "file":
		if rest == "" {
			return Target{}, fmt.Errorf("publish target %q has no path", raw)
		}
		return Target{Scheme: "file", Prefix: rest}, nil
	default:
		return Target{}, fmt.Errorf("unsupported publish scheme %q (want s3, gs or a directory)", scheme)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, fmt.Errorf("publish target %q has no bucket", raw)
	}
	return Target{Scheme: scheme, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

func (t Target) String() string {
	if t.Scheme == "file" {
		return t.Prefix
	}
	if t.Prefix == "" {
		return t.Scheme + "://" + t.Bucket
	}
	return t.Scheme + "://" + t.Bucket + "/" + t.Prefix
}

// Artifact is one file produced by a run.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Publisher writes a run's artifacts under <prefix>/<run id>/.
type Publisher struct {
	store  Store
	target Target
	logger *zap.Logger
}

// New opens the store named by cfg.Target.
func New(ctx context.Context, cfg config.PublishConfig, logger *zap.Logger) (*Publisher, error) {
	target, err := ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	var store Store
	switch target.Scheme {
	case "s3":
		store, err = NewS3Store(ctx, S3Config{
			Bucket:    target.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case "gs":
		store, err = NewGCSStore(ctx, target.Bucket)
	default:
		store = NewLocalStore(target.Prefix)
	}
	if err != nil {
		return nil, err
	}
	return NewWithStore(store, target, logger), nil
}

// NewWithStore wraps an existing Store.
func NewWithStore(store Store, target Target, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{store: store, target: target, logger: logger.Named("publish")}
}

// NewRunID returns a fresh identifier for a scoring run.
func NewRunID() string {
	return uuid.NewString()
}

// Key returns the object key for an artifact of run runID.
func (p *Publisher) Key(runID, name string) string {
	if p.target.Scheme == "file" {
		return path.Join(runID, name)
	}
	return path.Join(p.target.Prefix, runID, name)
}

// Publish uploads all artifacts concurrently and returns their keys in
// input order. The first failure cancels the remaining uploads.
func (p *Publisher) Publish(ctx context.Context, runID string, artifacts []Artifact) ([]string, error) {
	if runID == "" {
		return nil, fmt.Errorf("publish: empty run id")
	}
	keys := make([]string, len(artifacts))
	for i, a := range artifacts {
		if a.Name == "" {
			return nil, fmt.Errorf("publish: artifact %d has no name", i)
		}
		keys[i] = p.Key(runID, a.Name)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxUploads)
	for i, a := range artifacts {
		i, a := i, a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.store.Put(ctx, keys[i], a.ContentType, a.Data); err != nil {
				return fmt.Errorf("publishing %s: %w", a.Name, err)
			}
			p.logger.Debug("artifact uploaded",
				zap.String("key", keys[i]),
				zap.Int("bytes", len(a.Data)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.logger.Info("run published",
		zap.String("run_id", runID),
		zap.String("target", p.target.String()),
		zap.Int("artifacts", len(artifacts)),
	)
	return keys, nil
}

// Close releases the store if it holds resources.
func (p *Publisher) Close() error {
	if c, ok := p.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
