// Package database manages the bridge's local SQLite store.
//
// The store is a flight-recorder for the bridge: every published
// sensor/joystick reading and every applied LED command is archived by
// the readings package (see internal/readings), so the recent history
// survives broker outages and restarts.
//
// Schema migrations are plain SQL files embedded into the binary by the
// top-level migrations package and applied in order on startup; see
// Migrate.
//
// # Usage
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
