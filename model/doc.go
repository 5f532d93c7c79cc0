// Package model defines the core types shared by every modelcompat package.
//
// # Catalog Types
//
//   - VersionDescriptor: one entry of the ordered version catalog
//
// # Snapshot Types
//
//   - ModelRecord: a hardware model as listed by one snapshot
//   - Snapshot: the outcome of loading one data source (models or a failure)
//   - ResultSet: the sorted output of a set operation
//   - Group: a run of records sharing a product line
//
// # Derived Fields
//
// Age computes the whole-year age of a model from its release date:
//
//	years, err := model.Age("2020-06-15", time.Now())
package model
