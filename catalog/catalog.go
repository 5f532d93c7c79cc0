package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/modelcompat/blobstore"
	"github.com/hupe1980/modelcompat/model"
)

// DefaultName is the conventional blob name of the catalog.
const DefaultName = "index.json"

// ErrUnknownVersion is returned when a selector matches no version.
var ErrUnknownVersion = errors.New("unknown version")

// Source loads a catalog.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Catalog is an ordered, read-only list of versions.
type Catalog struct {
	versions []model.VersionDescriptor
}

// New creates a catalog from versions in age order (oldest first).
func New(versions []model.VersionDescriptor) *Catalog {
	return &Catalog{versions: append([]model.VersionDescriptor(nil), versions...)}
}

// Decode parses a catalog document: a JSON array of version descriptors.
func Decode(data []byte) (*Catalog, error) {
	var versions []model.VersionDescriptor
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, err
	}
	for i, v := range versions {
		if v.SourceID == "" {
			return nil, fmt.Errorf("version %d (%s): missing data_file", i, v.DisplayName)
		}
	}
	return &Catalog{versions: versions}, nil
}

// Len returns the number of versions.
func (c *Catalog) Len() int {
	return len(c.versions)
}

// At returns the version at idx.
func (c *Catalog) At(idx int) (model.VersionDescriptor, bool) {
	if idx < 0 || idx >= len(c.versions) {
		return model.VersionDescriptor{}, false
	}
	return c.versions[idx], true
}

// Versions returns a copy of all versions in catalog order.
func (c *Catalog) Versions() []model.VersionDescriptor {
	return append([]model.VersionDescriptor(nil), c.versions...)
}

// Slice returns the versions in the inclusive range [lo, hi].
// The range must be valid.
func (c *Catalog) Slice(lo, hi int) []model.VersionDescriptor {
	return append([]model.VersionDescriptor(nil), c.versions[lo:hi+1]...)
}

// Resolve finds a version by index, version label or display name.
//
// Labels and names are matched case-insensitively; an index takes
// precedence when the selector is a number that is a valid position.
func (c *Catalog) Resolve(selector string) (int, error) {
	selector = strings.TrimSpace(selector)

	if idx, err := strconv.Atoi(selector); err == nil && idx >= 0 && idx < len(c.versions) {
		return idx, nil
	}

	for i, v := range c.versions {
		if strings.EqualFold(v.VersionLabel, selector) || strings.EqualFold(v.DisplayName, selector) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q", ErrUnknownVersion, selector)
}

// NormalizeRange orders the bounds of an inclusive index range.
func NormalizeRange(minIdx, maxIdx int) (int, int) {
	if minIdx > maxIdx {
		return maxIdx, minIdx
	}
	return minIdx, maxIdx
}

// BlobSource reads the catalog document from a blob store.
type BlobSource struct {
	store blobstore.Reader
	name  string
}

var _ Source = (*BlobSource)(nil)

// NewBlobSource creates a source reading name from store.
// An empty name uses DefaultName.
func NewBlobSource(store blobstore.Reader, name string) *BlobSource {
	if name == "" {
		name = DefaultName
	}
	return &BlobSource{store: store, name: name}
}

// Load reads and decodes the catalog.
func (s *BlobSource) Load(ctx context.Context) (*Catalog, error) {
	data, err := blobstore.ReadAll(ctx, s.store, s.name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.name, err)
	}
	return c, nil
}
