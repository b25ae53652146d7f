package memory

import (
	"context"
	"fmt"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/repository/contract"
	"litsearch-be/internal/repository/unitofwork"
)

// unitOfWork buffers writes until Commit so tests observe the same
// all-or-nothing batch visibility as the SQL implementation.
type unitOfWork struct {
	store *Store
	open  bool

	pendingProcessed     []*entity.ProcessedResult
	pendingRelationships []*entity.DuplicateRelationship
	pendingSessions      []*entity.ProcessingSession
}

func NewUnitOfWork(store *Store) unitofwork.UnitOfWork {
	return &unitOfWork{store: store}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.open {
		return fmt.Errorf("transaction already started")
	}
	u.open = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.open {
		return fmt.Errorf("no transaction to commit")
	}
	u.open = false

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.store.CommitErr != nil {
		u.discard()
		return u.store.CommitErr
	}
	u.store.processed = append(u.store.processed, u.pendingProcessed...)
	u.store.relationships = append(u.store.relationships, u.pendingRelationships...)
	for _, s := range u.pendingSessions {
		u.store.sessions[s.Id] = s
	}
	u.discard()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.open {
		return fmt.Errorf("no transaction to rollback")
	}
	u.open = false
	u.discard()
	return nil
}

func (u *unitOfWork) discard() {
	u.pendingProcessed = nil
	u.pendingRelationships = nil
	u.pendingSessions = nil
}

func (u *unitOfWork) inTx() *unitOfWork {
	if u.open {
		return u
	}
	return nil
}

func (u *unitOfWork) RawResultRepository() contract.RawResultRepository {
	return &rawResultRepository{store: u.store}
}

func (u *unitOfWork) ProcessedResultRepository() contract.ProcessedResultRepository {
	return &processedResultRepository{store: u.store, uow: u.inTx()}
}

func (u *unitOfWork) DuplicateRelationshipRepository() contract.DuplicateRelationshipRepository {
	return &duplicateRelationshipRepository{store: u.store, uow: u.inTx()}
}

func (u *unitOfWork) ProcessingSessionRepository() contract.ProcessingSessionRepository {
	return &processingSessionRepository{store: u.store, uow: u.inTx()}
}

type repositoryFactory struct {
	store *Store
}

// NewRepositoryFactory returns an in-memory unitofwork.RepositoryFactory
// backed by the given store.
func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return NewUnitOfWork(f.store)
}
