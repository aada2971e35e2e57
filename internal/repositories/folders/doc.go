// Package folders persists the folder tree.
//
// Repository is the contract used by the storage engine; SQLRepository
// implements it over a dbx.DBTX (*sql.DB or *sql.Tx) for both SQLite and
// PostgreSQL. A nil parent id addresses the root scope.
//
//	repo := folders.NewSQLRepository(tx, dbx.SQLite)
//	_ = repo.Insert(ctx, &models.Folder{ID: id, Name: "Contracts"})
//	children, _ := repo.ListByParent(ctx, &id)
package folders
