// Package readings archives peripheral readings in the local SQLite
// store, one JSON payload per row. The bridge records everything it
// publishes and every LED command it applies, so the recent history is
// queryable offline regardless of broker state.
package readings
