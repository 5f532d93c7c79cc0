package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/modelcompat/blobstore"
	"github.com/hupe1980/modelcompat/model"
)

// Loader fetches one snapshot.
//
// Implementations report failures through the returned Snapshot's Err and
// must be safe for concurrent use.
type Loader interface {
	Load(ctx context.Context, sourceID string) model.Snapshot
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, sourceID string) model.Snapshot

// Load calls f(ctx, sourceID).
func (f LoaderFunc) Load(ctx context.Context, sourceID string) model.Snapshot {
	return f(ctx, sourceID)
}

// document is the snapshot wire format.
type document struct {
	Models []model.ModelRecord `json:"models"`
}

// Decode parses a snapshot document.
// A missing or null "models" field yields an empty list.
func Decode(data []byte) ([]model.ModelRecord, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Models == nil {
		return []model.ModelRecord{}, nil
	}
	return doc.Models, nil
}

// BlobLoader loads snapshots from a blob store, treating the source ID as
// the blob name.
type BlobLoader struct {
	store blobstore.Reader
}

var _ Loader = (*BlobLoader)(nil)

// NewBlobLoader creates a loader over store.
func NewBlobLoader(store blobstore.Reader) *BlobLoader {
	return &BlobLoader{store: store}
}

// Load reads, decompresses and decodes sourceID.
func (l *BlobLoader) Load(ctx context.Context, sourceID string) model.Snapshot {
	data, err := blobstore.ReadAll(ctx, l.store, sourceID)
	if err != nil {
		return model.Failed(sourceID, fmt.Errorf("read %s: %w", sourceID, err))
	}

	data, err = Decompress(data, CompressionFor(sourceID))
	if err != nil {
		return model.Failed(sourceID, fmt.Errorf("decompress %s: %w", sourceID, err))
	}

	models, err := Decode(data)
	if err != nil {
		return model.Failed(sourceID, fmt.Errorf("decode %s: %w", sourceID, err))
	}

	return model.Snapshot{SourceID: sourceID, Models: models}
}
