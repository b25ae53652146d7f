package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"litsearch-be/internal/config"
	"litsearch-be/internal/dto"
	"litsearch-be/internal/entity"
	"litsearch-be/internal/pkg/logger"
	"litsearch-be/internal/pkg/runlock"
	"litsearch-be/internal/pkg/serverutils"
	"litsearch-be/internal/repository/contract"
	"litsearch-be/internal/repository/unitofwork"
	"litsearch-be/pkg/dedup"
	"litsearch-be/pkg/metadata"
	"litsearch-be/pkg/taskqueue"
	"litsearch-be/pkg/urlnorm"
)

// TopicProcessSession is the task-queue topic carrying run requests.
const TopicProcessSession = "pipeline.process_session"

const defaultResultsLimit = 50

type processTaskPayload struct {
	ProcessingSessionId uuid.UUID `json:"processing_session_id"`
}

type IPipelineService interface {
	// Start begins (or resumes) processing for a search session. It is
	// idempotent: an active run is acknowledged, not duplicated.
	Start(ctx context.Context, searchSessionId uuid.UUID) (*dto.StartRunResponse, error)
	// Retry resumes a partial or failed run from its last committed
	// batch boundary.
	Retry(ctx context.Context, searchSessionId uuid.UUID) (*dto.StartRunResponse, error)
	// Cancel stops an active run at the next batch boundary.
	Cancel(ctx context.Context, searchSessionId uuid.UUID) error
	// Run executes the pipeline synchronously. Invoked by the queue
	// worker, exported so tests can drive it directly.
	Run(ctx context.Context, processingSessionId uuid.UUID) error

	Status(ctx context.Context, searchSessionId uuid.UUID) (*dto.RunStatusResponse, error)
	Results(ctx context.Context, searchSessionId uuid.UUID, query dto.ResultsQuery) (*dto.ResultsPageResponse, error)
	Duplicates(ctx context.Context, searchSessionId uuid.UUID) ([]dto.DuplicateRelationshipResponse, error)
	DomainGroups(ctx context.Context, searchSessionId uuid.UUID) ([]dto.DomainGroupResponse, error)
}

type PipelineService struct {
	factory   unitofwork.RepositoryFactory
	queue     taskqueue.Queue
	locker    runlock.Locker
	extractor *metadata.Extractor
	cache     *gocache.Cache
	sink      ProgressSink
	cfg       config.PipelineConfig
	log       logger.ILogger
	now       func() time.Time
}

func NewPipelineService(
	factory unitofwork.RepositoryFactory,
	queue taskqueue.Queue,
	locker runlock.Locker,
	cache *gocache.Cache,
	sink ProgressSink,
	cfg config.PipelineConfig,
	log logger.ILogger,
) *PipelineService {
	return &PipelineService{
		factory:   factory,
		queue:     queue,
		locker:    locker,
		extractor: metadata.NewExtractor(),
		cache:     cache,
		sink:      sink,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *PipelineService) Start(ctx context.Context, searchSessionId uuid.UUID) (*dto.StartRunResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	sessions := uow.ProcessingSessionRepository()

	session, err := sessions.FindBySearchSession(ctx, searchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to load processing session: %w", err)
	}

	if session != nil {
		switch {
		case session.Status == entity.StatusCompleted:
			// Re-running a finished session is a no-op.
			return &dto.StartRunResponse{ProcessingSessionId: session.Id, Status: session.Status}, nil
		case session.Status == entity.StatusPending,
			session.Status == entity.StatusInProgress:
			if !session.IsStalled(s.cfg.HeartbeatTimeout, s.now()) {
				return &dto.StartRunResponse{ProcessingSessionId: session.Id, Status: session.Status}, nil
			}
			// The previous run died without finalizing. Record the
			// failure and fall through to resume.
			session.Status = entity.StatusFailed
			if err := sessions.Update(ctx, session); err != nil {
				return nil, fmt.Errorf("failed to mark stalled session: %w", err)
			}
		}
		return s.enqueue(ctx, sessions, session)
	}

	total, err := uow.RawResultRepository().CountBySession(ctx, searchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to count raw results: %w", err)
	}
	if total == 0 {
		return nil, serverutils.NewBadRequest("search session has no results to process")
	}

	session = &entity.ProcessingSession{
		Id:              uuid.New(),
		SearchSessionId: searchSessionId,
		Status:          entity.StatusPending,
		CurrentStage:    entity.StageInitialization,
		TotalResults:    int(total),
		HeartbeatAt:     s.now(),
		CreatedAt:       s.now(),
	}
	if err := sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create processing session: %w", err)
	}
	return s.enqueue(ctx, sessions, session)
}

func (s *PipelineService) Retry(ctx context.Context, searchSessionId uuid.UUID) (*dto.StartRunResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	sessions := uow.ProcessingSessionRepository()

	session, err := sessions.FindBySearchSession(ctx, searchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to load processing session: %w", err)
	}
	if session == nil {
		return nil, serverutils.NewNotFound("no processing session for this search session")
	}
	if session.Status == entity.StatusCompleted {
		return nil, serverutils.NewConflict("processing already completed")
	}
	if !session.IsRetryable() {
		if session.IsStalled(s.cfg.HeartbeatTimeout, s.now()) {
			session.Status = entity.StatusFailed
			if err := sessions.Update(ctx, session); err != nil {
				return nil, fmt.Errorf("failed to mark stalled session: %w", err)
			}
		} else {
			return nil, serverutils.NewConflict("processing is still running")
		}
	}
	return s.enqueue(ctx, sessions, session)
}

// enqueue takes the run lock and submits the background task. The lock
// is released by the run itself.
func (s *PipelineService) enqueue(ctx context.Context, sessions contract.ProcessingSessionRepository, session *entity.ProcessingSession) (*dto.StartRunResponse, error) {
	acquired, err := s.locker.Acquire(ctx, session.SearchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		return nil, serverutils.NewConflict("another run is already processing this search session")
	}

	if session.Status != entity.StatusPending {
		session.Status = entity.StatusPending
		if err := sessions.Update(ctx, session); err != nil {
			_ = s.locker.Release(ctx, session.SearchSessionId)
			return nil, fmt.Errorf("failed to reset session for retry: %w", err)
		}
	}

	payload, err := json.Marshal(processTaskPayload{ProcessingSessionId: session.Id})
	if err != nil {
		_ = s.locker.Release(ctx, session.SearchSessionId)
		return nil, fmt.Errorf("failed to encode task payload: %w", err)
	}
	task := taskqueue.Task{ID: session.Id.String(), Payload: payload}
	if err := s.queue.Submit(ctx, TopicProcessSession, task); err != nil {
		_ = s.locker.Release(ctx, session.SearchSessionId)
		return nil, fmt.Errorf("failed to submit processing task: %w", err)
	}

	s.log.Info("pipeline", "run enqueued", map[string]interface{}{
		"processing_session_id": session.Id.String(),
		"search_session_id":     session.SearchSessionId.String(),
	})
	return &dto.StartRunResponse{ProcessingSessionId: session.Id, Status: session.Status}, nil
}

func (s *PipelineService) Cancel(ctx context.Context, searchSessionId uuid.UUID) error {
	uow := s.factory.NewUnitOfWork(ctx)
	session, err := uow.ProcessingSessionRepository().FindBySearchSession(ctx, searchSessionId)
	if err != nil {
		return fmt.Errorf("failed to load processing session: %w", err)
	}
	if session == nil {
		return serverutils.NewNotFound("no processing session for this search session")
	}
	if session.IsTerminal() {
		return serverutils.NewConflict("processing already finished")
	}
	if !s.queue.Cancel(session.Id.String()) {
		// The task never started or just finished; nothing to stop.
		return serverutils.NewConflict("no running task for this session")
	}
	s.log.Info("pipeline", "run cancelled", map[string]interface{}{
		"processing_session_id": session.Id.String(),
	})
	return nil
}

// Run drives one processing session to a terminal status. Committed
// batches survive any failure; a resume picks up at the next batch.
func (s *PipelineService) Run(ctx context.Context, processingSessionId uuid.UUID) (err error) {
	uow := s.factory.NewUnitOfWork(ctx)
	sessions := uow.ProcessingSessionRepository()

	session, loadErr := sessions.FindById(ctx, processingSessionId)
	if loadErr != nil {
		return fmt.Errorf("failed to load processing session: %w", loadErr)
	}
	if session == nil {
		return fmt.Errorf("processing session %s not found", processingSessionId)
	}

	// The lock was taken at enqueue time. Release with a fresh context
	// so cancellation cannot leave it held until TTL expiry.
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.locker.Release(releaseCtx, session.SearchSessionId)
	}()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("pipeline", "run panicked", map[string]interface{}{
				"processing_session_id": session.Id.String(),
				"panic":                 fmt.Sprintf("%v", r),
			})
			s.finalize(session, entity.StatusFailed)
			err = fmt.Errorf("run panicked: %v", r)
		}
	}()

	total, countErr := uow.RawResultRepository().CountBySession(ctx, session.SearchSessionId)
	if countErr != nil {
		s.finalize(session, entity.StatusFailed)
		return fmt.Errorf("failed to count raw results: %w", countErr)
	}

	now := s.now()
	session.Status = entity.StatusInProgress
	session.CurrentStage = entity.StageInitialization
	session.TotalResults = int(total)
	session.HeartbeatAt = now
	if session.StartedAt == nil {
		session.StartedAt = &now
	}
	if updateErr := sessions.Update(ctx, session); updateErr != nil {
		return fmt.Errorf("failed to mark session in progress: %w", updateErr)
	}
	s.publish(session)

	engine, rebuildErr := s.rebuildIndex(ctx, session.SearchSessionId)
	if rebuildErr != nil {
		s.finalize(session, entity.StatusFailed)
		return fmt.Errorf("failed to rebuild duplicate index: %w", rebuildErr)
	}

	// Resume from the last committed batch boundary. Batches commit
	// atomically, so the processed count is always a multiple of the
	// batch size of prior runs (or the tail).
	offset := session.ProcessedCount
	rawRepo := uow.RawResultRepository()

	for {
		select {
		case <-ctx.Done():
			s.log.Warn("pipeline", "run interrupted", map[string]interface{}{
				"processing_session_id": session.Id.String(),
				"processed":             session.ProcessedCount,
			})
			s.finalize(session, entity.StatusPartial)
			return nil
		default:
		}

		page, pageErr := rawRepo.FindPage(ctx, session.SearchSessionId, offset, s.cfg.BatchSize)
		if pageErr != nil {
			// A stage-fatal failure: the input set itself is unreadable.
			s.finalize(session, entity.StatusFailed)
			return fmt.Errorf("failed to fetch raw results: %w", pageErr)
		}
		if len(page) == 0 {
			break
		}

		batch := s.processBatch(session, engine, page)
		if commitErr := s.commitBatch(ctx, session, batch); commitErr != nil {
			s.finalize(session, entity.StatusFailed)
			return fmt.Errorf("failed to commit batch: %w", commitErr)
		}

		offset += len(page)
		s.publish(session)
		if refreshErr := s.locker.Refresh(ctx, session.SearchSessionId); refreshErr != nil {
			s.log.Warn("pipeline", "failed to refresh run lock", map[string]interface{}{
				"error": refreshErr.Error(),
			})
		}
	}

	status := entity.StatusCompleted
	if session.ErrorCount > 0 {
		status = entity.StatusPartial
	}
	s.finalize(session, status)
	return nil
}

// rebuildIndex replays committed processed results into a fresh dedup
// engine so a resumed run links against prior batches.
func (s *PipelineService) rebuildIndex(ctx context.Context, searchSessionId uuid.UUID) (*dedup.Engine, error) {
	cfg := dedup.DefaultConfig()
	cfg.TitleThreshold = s.cfg.TitleThreshold
	engine := dedup.NewEngine(cfg)

	uow := s.factory.NewUnitOfWork(ctx)
	prior, err := uow.ProcessedResultRepository().FindBySession(ctx, searchSessionId)
	if err != nil {
		return nil, err
	}
	for _, p := range prior {
		candidate := dedup.Candidate{
			ID:            p.Id,
			NormalizedURL: p.NormalizedURL,
			Domain:        p.Domain,
			Title:         p.Title,
			Snippet:       p.Snippet,
		}
		var match *dedup.Match
		if p.IsDuplicate && p.DuplicateOfId != nil {
			match = &dedup.Match{OriginalID: *p.DuplicateOfId}
		}
		engine.Add(candidate, match)
	}
	return engine, nil
}

// batchOutput is the staged write set of one batch. Session counters
// are not touched while processing; the deltas here are applied only
// when the batch commits, so a failed commit never moves the resume
// offset past uncommitted records.
type batchOutput struct {
	processed     []*entity.ProcessedResult
	relationships []*entity.DuplicateRelationship
	errors        []entity.ProcessingError
}

// processBatch runs one page of raw results through the stages. Stage
// order is fixed: normalization, extraction, deduplication, scoring.
// Per-record failures become error rows, never batch aborts.
func (s *PipelineService) processBatch(session *entity.ProcessingSession, engine *dedup.Engine, page []*entity.RawResult) *batchOutput {
	deadline := s.now().Add(s.cfg.BatchTimeout)
	out := &batchOutput{
		processed: make([]*entity.ProcessedResult, 0, len(page)),
	}

	// url_normalization
	session.CurrentStage = entity.StageURLNormalization
	for _, raw := range page {
		result := &entity.ProcessedResult{
			Id:              uuid.New(),
			RawResultId:     raw.Id,
			SearchSessionId: raw.SearchSessionId,
			Title:           raw.Title,
			Snippet:         raw.Snippet,
			OriginalURL:     raw.URL,
			CreatedAt:       s.now(),
		}
		out.processed = append(out.processed, result)
		if s.expired(deadline, out, raw, result) {
			continue
		}
		s.guard(out, raw, result, func() {
			if !urlnorm.Parseable(raw.URL) {
				s.recordError(out, raw, result, "url is not parseable")
				return
			}
			result.NormalizedURL = urlnorm.Normalize(raw.URL)
		})
	}

	// metadata_extraction
	session.CurrentStage = entity.StageMetadataExtraction
	for i, result := range out.processed {
		raw := page[i]
		if s.expired(deadline, out, raw, result) {
			continue
		}
		s.guard(out, raw, result, func() {
			md := s.extractor.Derive(metadata.Input{
				Title:         raw.Title,
				Snippet:       raw.Snippet,
				URL:           raw.URL,
				NormalizedURL: result.NormalizedURL,
			})
			result.Domain = md.Domain
			result.FileType = md.FileType
			result.SizeEstimate = md.SizeEstimate
			result.Language = md.Language
			result.PublicationDate = md.PublicationDate
		})
	}

	// deduplication
	session.CurrentStage = entity.StageDeduplication
	for i, result := range out.processed {
		raw := page[i]
		if s.expired(deadline, out, raw, result) {
			continue
		}
		s.guard(out, raw, result, func() {
			candidate := dedup.Candidate{
				ID:            result.Id,
				NormalizedURL: result.NormalizedURL,
				Domain:        result.Domain,
				Title:         result.Title,
				Snippet:       result.Snippet,
			}
			match, isDup := engine.Check(candidate)
			if isDup {
				original := match.OriginalID
				result.IsDuplicate = true
				result.DuplicateOfId = &original
				out.relationships = append(out.relationships, &entity.DuplicateRelationship{
					Id:                uuid.New(),
					SearchSessionId:   result.SearchSessionId,
					OriginalResultId:  original,
					DuplicateResultId: result.Id,
					DetectionMethod:   string(match.Method),
					SimilarityScore:   match.Similarity,
					Confidence:        string(match.Confidence),
					CreatedAt:         s.now(),
				})
				engine.Add(candidate, &match)
				return
			}
			engine.Add(candidate, nil)
		})
	}

	// quality_scoring
	session.CurrentStage = entity.StageQualityScoring
	for i, result := range out.processed {
		raw := page[i]
		if s.expired(deadline, out, raw, result) {
			continue
		}
		s.guard(out, raw, result, func() {
			result.QualityScore = s.extractor.Score(metadata.Input{
				Title:         raw.Title,
				Snippet:       raw.Snippet,
				URL:           raw.URL,
				NormalizedURL: result.NormalizedURL,
			}, metadata.Metadata{
				Domain:          result.Domain,
				FileType:        result.FileType,
				SizeEstimate:    result.SizeEstimate,
				Language:        result.Language,
				PublicationDate: result.PublicationDate,
			})
		})
	}

	return out
}

// guard runs one record's stage work, converting a panic into an error
// row so a single poisoned record cannot take down the batch.
func (s *PipelineService) guard(out *batchOutput, raw *entity.RawResult, result *entity.ProcessedResult, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.recordError(out, raw, result, fmt.Sprintf("record processing panicked: %v", r))
		}
	}()
	fn()
}

// expired marks a record as timed out when the batch exceeded its soft
// deadline. Remaining records still get rows, just with errors.
func (s *PipelineService) expired(deadline time.Time, out *batchOutput, raw *entity.RawResult, result *entity.ProcessedResult) bool {
	if s.now().Before(deadline) {
		return false
	}
	if result.ProcessingError == "" {
		s.recordError(out, raw, result, "batch deadline exceeded")
	}
	return true
}

func (s *PipelineService) recordError(out *batchOutput, raw *entity.RawResult, result *entity.ProcessedResult, msg string) {
	if result.ProcessingError != "" {
		return
	}
	result.ProcessingError = msg
	out.errors = append(out.errors, entity.ProcessingError{
		RawResultId: raw.Id,
		Position:    raw.Position,
		Message:     msg,
		OccurredAt:  s.now(),
	})
}

// commitBatch persists a batch's results, relationships, and the
// session's counters in a single transaction. Counter deltas are
// applied to the session here and rolled back with the batch: a failed
// commit leaves ProcessedCount at the last committed boundary, so a
// resume re-reads exactly the records that were lost.
func (s *PipelineService) commitBatch(ctx context.Context, session *entity.ProcessingSession, batch *batchOutput) error {
	// A cancellation arriving mid-batch must not lose finished work;
	// the run stops at the next boundary instead.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
	}

	snapshot := *session
	snapshot.RecentErrors = append([]entity.ProcessingError(nil), session.RecentErrors...)
	revert := func() { *session = snapshot }

	session.ProcessedCount += len(batch.processed)
	session.DuplicateCount += len(batch.relationships)
	for _, e := range batch.errors {
		session.RecordError(e)
	}
	session.HeartbeatAt = s.now()

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		revert()
		return err
	}

	for _, result := range batch.processed {
		if err := uow.ProcessedResultRepository().Create(ctx, result); err != nil {
			_ = uow.Rollback()
			revert()
			return err
		}
	}
	for _, rel := range batch.relationships {
		if err := uow.DuplicateRelationshipRepository().Create(ctx, rel); err != nil {
			_ = uow.Rollback()
			revert()
			return err
		}
	}

	if err := uow.ProcessingSessionRepository().Update(ctx, session); err != nil {
		_ = uow.Rollback()
		revert()
		return err
	}
	if err := uow.Commit(); err != nil {
		revert()
		return err
	}
	return nil
}

// finalize writes the terminal status with a background context so the
// outcome is recorded even when the run's context was cancelled.
func (s *PipelineService) finalize(session *entity.ProcessingSession, status string) {
	now := s.now()
	session.Status = status
	session.CurrentStage = entity.StageFinalization
	session.CompletedAt = &now
	session.HeartbeatAt = now

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.ProcessingSessionRepository().Update(ctx, session); err != nil {
		s.log.Error("pipeline", "failed to finalize session", map[string]interface{}{
			"processing_session_id": session.Id.String(),
			"status":                status,
			"error":                 err.Error(),
		})
		return
	}
	s.publish(session)
	s.log.Info("pipeline", "run finished", map[string]interface{}{
		"processing_session_id": session.Id.String(),
		"status":                status,
		"processed":             session.ProcessedCount,
		"duplicates":            session.DuplicateCount,
		"errors":                session.ErrorCount,
	})
}

func (s *PipelineService) publish(session *entity.ProcessingSession) {
	s.sink.Publish(Progress{
		ProcessingSessionId: session.Id,
		SearchSessionId:     session.SearchSessionId,
		Status:              session.Status,
		CurrentStage:        session.CurrentStage,
		TotalResults:        session.TotalResults,
		ProcessedCount:      session.ProcessedCount,
		DuplicateCount:      session.DuplicateCount,
		ErrorCount:          session.ErrorCount,
	})
}

func (s *PipelineService) Status(ctx context.Context, searchSessionId uuid.UUID) (*dto.RunStatusResponse, error) {
	key := statusCacheKey(searchSessionId)
	if cached, found := s.cache.Get(key); found {
		if resp, ok := cached.(*dto.RunStatusResponse); ok {
			return resp, nil
		}
	}

	uow := s.factory.NewUnitOfWork(ctx)
	session, err := uow.ProcessingSessionRepository().FindBySearchSession(ctx, searchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to load processing session: %w", err)
	}
	if session == nil {
		return nil, serverutils.NewNotFound("no processing session for this search session")
	}

	status := session.Status
	if session.IsStalled(s.cfg.HeartbeatTimeout, s.now()) {
		status = entity.StatusFailed
	}

	resp := &dto.RunStatusResponse{
		SessionId:       session.Id,
		SearchSessionId: session.SearchSessionId,
		Status:          status,
		CurrentStage:    session.CurrentStage,
		StageProgress:   progressFraction(session),
		TotalResults:    session.TotalResults,
		ProcessedCount:  session.ProcessedCount,
		DuplicateCount:  session.DuplicateCount,
		ErrorCount:      session.ErrorCount,
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
	}
	for _, e := range session.RecentErrors {
		resp.RecentErrors = append(resp.RecentErrors, dto.RunErrorEntry{
			RawResultId: e.RawResultId,
			Position:    e.Position,
			Message:     e.Message,
			OccurredAt:  e.OccurredAt,
		})
	}
	if eta := s.estimateCompletion(session); eta != nil {
		resp.EstimatedCompletion = eta
	}

	s.cache.Set(key, resp, s.cfg.StatusCacheTTL)
	return resp, nil
}

func progressFraction(session *entity.ProcessingSession) float64 {
	if session.TotalResults <= 0 {
		return 0
	}
	f := float64(session.ProcessedCount) / float64(session.TotalResults)
	if f > 1 {
		return 1
	}
	return f
}

// estimateCompletion extrapolates linearly from throughput so far.
func (s *PipelineService) estimateCompletion(session *entity.ProcessingSession) *time.Time {
	if session.Status != entity.StatusInProgress ||
		session.StartedAt == nil ||
		session.ProcessedCount == 0 ||
		session.TotalResults <= session.ProcessedCount {
		return nil
	}
	elapsed := s.now().Sub(*session.StartedAt)
	totalDuration := time.Duration(float64(elapsed) * float64(session.TotalResults) / float64(session.ProcessedCount))
	eta := session.StartedAt.Add(totalDuration)
	return &eta
}

func (s *PipelineService) Results(ctx context.Context, searchSessionId uuid.UUID, query dto.ResultsQuery) (*dto.ResultsPageResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultResultsLimit
	}

	uow := s.factory.NewUnitOfWork(ctx)
	results, total, err := uow.ProcessedResultRepository().FindFiltered(ctx, searchSessionId, contract.ResultFilter{
		Domain:     query.Domain,
		FileType:   query.FileType,
		Duplicate:  query.Duplicates,
		MinQuality: query.MinQuality,
		Limit:      limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list processed results: %w", err)
	}

	page := &dto.ResultsPageResponse{
		Total:   total,
		Limit:   limit,
		Offset:  query.Offset,
		Results: make([]dto.ProcessedResultResponse, 0, len(results)),
	}
	for _, r := range results {
		page.Results = append(page.Results, dto.ProcessedResultResponse{
			Id:              r.Id,
			RawResultId:     r.RawResultId,
			Title:           r.Title,
			Snippet:         r.Snippet,
			OriginalURL:     r.OriginalURL,
			NormalizedURL:   r.NormalizedURL,
			Domain:          r.Domain,
			FileType:        r.FileType,
			SizeEstimate:    r.SizeEstimate,
			Language:        r.Language,
			PublicationDate: r.PublicationDate,
			QualityScore:    r.QualityScore,
			IsDuplicate:     r.IsDuplicate,
			DuplicateOfId:   r.DuplicateOfId,
			ProcessingError: r.ProcessingError,
		})
	}
	return page, nil
}

func (s *PipelineService) Duplicates(ctx context.Context, searchSessionId uuid.UUID) ([]dto.DuplicateRelationshipResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	rels, err := uow.DuplicateRelationshipRepository().FindBySession(ctx, searchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to list duplicate relationships: %w", err)
	}
	out := make([]dto.DuplicateRelationshipResponse, 0, len(rels))
	for _, rel := range rels {
		out = append(out, dto.DuplicateRelationshipResponse{
			Id:                rel.Id,
			OriginalResultId:  rel.OriginalResultId,
			DuplicateResultId: rel.DuplicateResultId,
			DetectionMethod:   rel.DetectionMethod,
			SimilarityScore:   rel.SimilarityScore,
			Confidence:        rel.Confidence,
		})
	}
	return out, nil
}

func (s *PipelineService) DomainGroups(ctx context.Context, searchSessionId uuid.UUID) ([]dto.DomainGroupResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	groups, err := uow.ProcessedResultRepository().DomainGroups(ctx, searchSessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to group results by domain: %w", err)
	}
	out := make([]dto.DomainGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.DomainGroupResponse{Domain: g.Domain, Count: g.Count})
	}
	return out, nil
}
