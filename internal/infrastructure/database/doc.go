// Package database manages the SQLite connection for AquaMon Core.
//
// It wraps database/sql with connection setup (WAL mode, busy timeout,
// foreign keys), embedded schema migrations, and health checks.
//
// # Usage
//
//	db, err := database.Open(ctx, database.Config{Path: "data/aquamon.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are embedded via the migrations package and applied in
// version order, each in its own transaction.
package database
