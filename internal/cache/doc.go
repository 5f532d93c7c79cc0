// Package cache provides an LRU cache for immutable blob contents.
//
// Snapshot and catalog files never change once published, so a blob cached
// under its name stays valid until it is overwritten or deleted through the
// owning store. Capacity is measured in bytes and, when a
// resource.Controller is supplied, every cached byte is also accounted
// against the controller's memory limit.
package cache
