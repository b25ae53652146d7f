package memory

import (
	"context"
	"sort"
	"strings"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/repository/contract"

	"github.com/google/uuid"
)

// rawResultRepository reads committed state; raw results are input to
// the pipeline and never written inside a run's transaction.
type rawResultRepository struct {
	store *Store
}

func (r *rawResultRepository) Create(ctx context.Context, result *entity.RawResult) error {
	r.store.SeedRawResults([]*entity.RawResult{result})
	return nil
}

func (r *rawResultRepository) CreateBatch(ctx context.Context, results []*entity.RawResult) error {
	r.store.SeedRawResults(results)
	return nil
}

func (r *rawResultRepository) FindPage(ctx context.Context, searchSessionId uuid.UUID, offset, limit int) ([]*entity.RawResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if r.store.FindPageErr != nil {
		return nil, r.store.FindPageErr
	}

	var session []*entity.RawResult
	for _, raw := range r.store.raw {
		if raw.SearchSessionId == searchSessionId {
			session = append(session, raw)
		}
	}
	if offset >= len(session) {
		return nil, nil
	}
	end := offset + limit
	if end > len(session) {
		end = len(session)
	}
	page := make([]*entity.RawResult, 0, end-offset)
	for _, raw := range session[offset:end] {
		cp := *raw
		page = append(page, &cp)
	}
	return page, nil
}

func (r *rawResultRepository) CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, raw := range r.store.raw {
		if raw.SearchSessionId == searchSessionId {
			count++
		}
	}
	return count, nil
}

type processedResultRepository struct {
	store *Store
	uow   *unitOfWork // nil outside a transaction
}

func (r *processedResultRepository) Create(ctx context.Context, result *entity.ProcessedResult) error {
	if result.Id == uuid.Nil {
		result.Id = uuid.New()
	}
	cp := *result
	if r.uow != nil {
		r.uow.pendingProcessed = append(r.uow.pendingProcessed, &cp)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.processed = append(r.store.processed, &cp)
	return nil
}

func (r *processedResultRepository) CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, p := range r.store.processed {
		if p.SearchSessionId == searchSessionId {
			count++
		}
	}
	return count, nil
}

func (r *processedResultRepository) FindBySession(ctx context.Context, searchSessionId uuid.UUID) ([]*entity.ProcessedResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.ProcessedResult
	for _, p := range r.store.processed {
		if p.SearchSessionId == searchSessionId {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *processedResultRepository) FindByRawResult(ctx context.Context, rawResultId uuid.UUID) (*entity.ProcessedResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.processed {
		if p.RawResultId == rawResultId {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *processedResultRepository) FindFiltered(ctx context.Context, searchSessionId uuid.UUID, filter contract.ResultFilter) ([]*entity.ProcessedResult, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.ProcessedResult
	for _, p := range r.store.processed {
		if p.SearchSessionId != searchSessionId {
			continue
		}
		if filter.Domain != "" && p.Domain != filter.Domain {
			continue
		}
		if filter.FileType != "" && p.FileType != filter.FileType {
			continue
		}
		if filter.Duplicate != nil && p.IsDuplicate != *filter.Duplicate {
			continue
		}
		if filter.MinQuality != nil && p.QualityScore < *filter.MinQuality {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	page := make([]*entity.ProcessedResult, 0, end-filter.Offset)
	for _, p := range matched[filter.Offset:end] {
		cp := *p
		page = append(page, &cp)
	}
	return page, total, nil
}

func (r *processedResultRepository) DomainGroups(ctx context.Context, searchSessionId uuid.UUID) ([]contract.DomainGroup, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range r.store.processed {
		if p.SearchSessionId == searchSessionId && p.Domain != "" {
			counts[p.Domain]++
		}
	}
	groups := make([]contract.DomainGroup, 0, len(counts))
	for domain, count := range counts {
		groups = append(groups, contract.DomainGroup{Domain: domain, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return strings.Compare(groups[i].Domain, groups[j].Domain) < 0
	})
	return groups, nil
}

type duplicateRelationshipRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *duplicateRelationshipRepository) Create(ctx context.Context, rel *entity.DuplicateRelationship) error {
	if rel.Id == uuid.Nil {
		rel.Id = uuid.New()
	}
	cp := *rel
	if r.uow != nil {
		r.uow.pendingRelationships = append(r.uow.pendingRelationships, &cp)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.relationships = append(r.store.relationships, &cp)
	return nil
}

func (r *duplicateRelationshipRepository) FindBySession(ctx context.Context, searchSessionId uuid.UUID) ([]*entity.DuplicateRelationship, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.DuplicateRelationship
	for _, rel := range r.store.relationships {
		if rel.SearchSessionId == searchSessionId {
			cp := *rel
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *duplicateRelationshipRepository) CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error) {
	rels, err := r.FindBySession(ctx, searchSessionId)
	if err != nil {
		return 0, err
	}
	return int64(len(rels)), nil
}

type processingSessionRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *processingSessionRepository) Create(ctx context.Context, session *entity.ProcessingSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	cp := *session
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[cp.Id] = &cp
	return nil
}

func (r *processingSessionRepository) Update(ctx context.Context, session *entity.ProcessingSession) error {
	cp := *session
	if r.uow != nil {
		r.uow.pendingSessions = append(r.uow.pendingSessions, &cp)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[cp.Id] = &cp
	return nil
}

func (r *processingSessionRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.ProcessingSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if s, ok := r.store.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *processingSessionRepository) FindBySearchSession(ctx context.Context, searchSessionId uuid.UUID) (*entity.ProcessingSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, s := range r.store.sessions {
		if s.SearchSessionId == searchSessionId {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}
