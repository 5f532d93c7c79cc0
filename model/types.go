package model

import (
	"fmt"
)

// CPUArchitecture is the processor architecture reported for a model.
//
// Only ArchARM64 is meaningful to the presentation layer; every other value
// is treated as Intel. The raw string is kept so exports stay faithful.
type CPUArchitecture string

// ArchARM64 marks Apple Silicon models.
const ArchARM64 CPUArchitecture = "arm64"

// IsAppleSilicon reports whether the architecture is arm64.
func (a CPUArchitecture) IsAppleSilicon() bool {
	return a == ArchARM64
}

// Label returns the human-readable architecture family.
func (a CPUArchitecture) Label() string {
	if a.IsAppleSilicon() {
		return "Apple Silicon"
	}
	return "Intel"
}

// VersionDescriptor describes one version of the catalog.
// Its identity is its position in the catalog.
type VersionDescriptor struct {
	DisplayName  string `json:"version_name"`
	VersionLabel string `json:"version_number"`
	SourceID     string `json:"data_file"`
}

// String returns "<display name> (<version label>)".
func (v VersionDescriptor) String() string {
	return fmt.Sprintf("%s (%s)", v.DisplayName, v.VersionLabel)
}

// ModelRecord is a single hardware model listed in a snapshot.
// Identifier is unique within a snapshot and joins records across snapshots.
type ModelRecord struct {
	Identifier      string          `json:"model_identifier"`
	ProductLine     string          `json:"product_line"`
	ShortName       string          `json:"short_name"`
	CPUArchitecture CPUArchitecture `json:"cpu_architecture"`
	ReleaseDate     string          `json:"release_date"` // YYYY-MM-DD
}

// Snapshot is the outcome of loading one data source.
//
// A failed load carries a non-nil Err and no models.
type Snapshot struct {
	SourceID string
	Models   []ModelRecord
	Err      error
}

// OK reports whether the snapshot loaded successfully.
func (s Snapshot) OK() bool {
	return s.Err == nil
}

// Failed returns a failure marker for sourceID.
func Failed(sourceID string, err error) Snapshot {
	if err == nil {
		err = fmt.Errorf("load %s: unknown failure", sourceID)
	}
	return Snapshot{SourceID: sourceID, Err: err}
}

// ResultSet is the sorted output of a set operation.
// It is always replaced, never mutated in place.
type ResultSet []ModelRecord

// Identifiers returns the identifiers of the result in order.
func (rs ResultSet) Identifiers() []string {
	ids := make([]string, len(rs))
	for i, m := range rs {
		ids[i] = m.Identifier
	}
	return ids
}
