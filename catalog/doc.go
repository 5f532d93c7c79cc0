// Package catalog holds the ordered list of versions that can be explored.
//
// A Catalog is loaded once at startup and never changes afterwards. Each
// version is identified by its position; lower positions are older.
package catalog
