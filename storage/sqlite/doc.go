// Package sqlite provides a relational implementation of
// storage.ChemicalRepository using the pure-Go modernc.org/sqlite driver.
//
// The table keeps the catalog's original Chinese column names so that
// exports of the source spreadsheet can be inspected with any SQLite client.
// Schema changes are applied from embedded, numbered migration files.
package sqlite
