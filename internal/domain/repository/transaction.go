package repository

import "context"

// RepositoryFactory creates repository instances bound to one transaction.
type RepositoryFactory interface {
	NewBatchRepository() BatchRepository
}

// TransactionManager runs a unit of work inside a single database
// transaction. The callback receives a factory whose repositories all share
// that transaction; any returned error rolls the whole unit back.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
