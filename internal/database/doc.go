// Package database provides the local data access layer.
//
// The finance data itself lives behind the backend API. This package only
// persists what the web client owns: generated AI reports (sub-package
// reports) and the table backing the UI flash session.
//
//	db, err := database.NewDatabase("./fintrack.db", logger)
//	repo := reports.NewRepository(db.DB)
//	history, err := repo.ListForUser(ctx, userID, 10)
package database
