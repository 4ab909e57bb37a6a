// Package dataset is the data-store collaborator. It runs SQL produced by the
// model against the retail dataset and renders results as markdown tables.
//
// Two drivers are supported: "sqlite3" (the default, a local file) and
// "postgres". A store opened with ReadOnly rejects obvious write statements
// up front and runs every query inside a read-only transaction.
package dataset
