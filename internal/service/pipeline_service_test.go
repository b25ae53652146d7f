package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litsearch-be/internal/config"
	"litsearch-be/internal/dto"
	"litsearch-be/internal/entity"
	"litsearch-be/internal/pkg/logger"
	"litsearch-be/internal/pkg/runlock"
	"litsearch-be/internal/pkg/serverutils"
	"litsearch-be/internal/repository/memory"
	"litsearch-be/pkg/taskqueue"
)

type fakeQueue struct {
	mu        sync.Mutex
	submitted []taskqueue.Task
	cancelled []string
}

func (q *fakeQueue) Submit(ctx context.Context, topic string, task taskqueue.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.submitted = append(q.submitted, task)
	return nil
}

func (q *fakeQueue) Subscribe(ctx context.Context, topic string, workers int, h taskqueue.Handler) error {
	return nil
}

func (q *fakeQueue) Cancel(taskID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelled = append(q.cancelled, taskID)
	return true
}

func (q *fakeQueue) Close() error { return nil }

func (q *fakeQueue) submitCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.submitted)
}

func newTestService(store *memory.Store) (*PipelineService, *fakeQueue) {
	queue := &fakeQueue{}
	cache := gocache.New(time.Second, time.Minute)
	cfg := config.PipelineConfig{
		BatchSize:        2,
		WorkerCount:      1,
		BatchTimeout:     time.Minute,
		HeartbeatTimeout: 5 * time.Minute,
		TitleThreshold:   0.95,
		StatusCacheTTL:   time.Second,
	}
	log := logger.NewNopLogger()
	sink := NewMultiSink(NewLogProgressSink(log), NewCacheInvalidationSink(cache))
	svc := NewPipelineService(
		memory.NewRepositoryFactory(store),
		queue,
		runlock.NoopLocker{},
		cache,
		sink,
		cfg,
		log,
	)
	return svc, queue
}

func dtoResultsQuery(duplicates *bool) dto.ResultsQuery {
	return dto.ResultsQuery{Duplicates: duplicates}
}

func seedRawResults(store *memory.Store, searchSessionId uuid.UUID, urls ...string) {
	results := make([]*entity.RawResult, 0, len(urls))
	for i, u := range urls {
		results = append(results, &entity.RawResult{
			Id:              uuid.New(),
			SearchSessionId: searchSessionId,
			QueryId:         uuid.New(),
			Title:           "Result " + string(rune('A'+i)),
			Snippet:         "Snippet describing result number " + string(rune('A'+i)),
			URL:             u,
			Position:        i + 1,
		})
	}
	store.SeedRawResults(results)
}

func TestRun_ProcessesAllResults(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/d",
		"https://example.com/e",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, status.Status)
	assert.Equal(t, 5, status.ProcessedCount)
	assert.Equal(t, 0, status.ErrorCount)
	assert.Equal(t, 1.0, status.StageProgress)

	processed := store.ProcessedResults()
	require.Len(t, processed, 5)
	for _, p := range processed {
		assert.GreaterOrEqual(t, p.QualityScore, 0.0)
		assert.LessOrEqual(t, p.QualityScore, 1.0)
		assert.NotEmpty(t, p.NormalizedURL)
	}
}

func TestRun_DetectsExactURLDuplicates(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	// Same document; the second URL only differs in tracking noise.
	seedRawResults(store, searchSessionId,
		"https://example.com/article",
		"http://www.example.com/article?utm_source=feed",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	rels := store.Relationships()
	require.Len(t, rels, 1)
	assert.Equal(t, entity.DetectionExactURL, rels[0].DetectionMethod)
	assert.Equal(t, entity.ConfidenceDefinite, rels[0].Confidence)
	assert.Equal(t, 1.0, rels[0].SimilarityScore)

	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, status.DuplicateCount)

	// The duplicate links at the first-seen record.
	var original, duplicate *entity.ProcessedResult
	for _, p := range store.ProcessedResults() {
		if p.IsDuplicate {
			duplicate = p
		} else {
			original = p
		}
	}
	require.NotNil(t, original)
	require.NotNil(t, duplicate)
	require.NotNil(t, duplicate.DuplicateOfId)
	assert.Equal(t, original.Id, *duplicate.DuplicateOfId)
}

func TestRun_MalformedURLBecomesErrorRow(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://example.com/ok",
		"not a url at all",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPartial, status.Status)
	assert.Equal(t, 2, status.ProcessedCount)
	assert.Equal(t, 1, status.ErrorCount)
	require.Len(t, status.RecentErrors, 1)
	assert.Equal(t, 2, status.RecentErrors[0].Position)

	// The failed record still gets a row, flagged instead of dropped.
	errored := 0
	for _, p := range store.ProcessedResults() {
		if p.ProcessingError != "" {
			errored++
		}
	}
	assert.Equal(t, 1, errored)
}

func TestStart_IsIdempotentWhileActive(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId, "https://example.com/a")

	svc, queue := newTestService(store)
	ctx := context.Background()

	first, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	second, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)

	assert.Equal(t, first.ProcessingSessionId, second.ProcessingSessionId)
	assert.Equal(t, 1, queue.submitCount())
}

func TestStart_RejectsEmptySession(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newTestService(store)

	_, err := svc.Start(context.Background(), uuid.New())
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestRetry_ResumesWithoutDuplicatingRows(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)

	// First attempt dies on its first commit; nothing is persisted.
	store.CommitErr = errors.New("connection reset")
	require.Error(t, svc.Run(ctx, resp.ProcessingSessionId))

	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, status.Status)
	assert.Empty(t, store.ProcessedResults())

	store.CommitErr = nil
	retryResp, err := svc.Retry(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, resp.ProcessingSessionId, retryResp.ProcessingSessionId)
	require.NoError(t, svc.Run(ctx, retryResp.ProcessingSessionId))

	status, err = svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, status.Status)
	assert.Equal(t, 3, status.ProcessedCount)
	assert.Len(t, store.ProcessedResults(), 3)
}

func TestRun_FailedCommitKeepsCountersAtCommittedBoundary(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/d",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)

	store.CommitErr = errors.New("connection reset")
	require.Error(t, svc.Run(ctx, resp.ProcessingSessionId))

	// Nothing committed, so the counters must not have moved: a
	// processed count ahead of the committed rows would make the resume
	// skip records.
	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, status.Status)
	assert.Equal(t, 0, status.ProcessedCount)
	assert.Equal(t, 0, status.ErrorCount)
	assert.Empty(t, store.ProcessedResults())

	store.CommitErr = nil
	retryResp, err := svc.Retry(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, retryResp.ProcessingSessionId))

	status, err = svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, status.Status)
	assert.Equal(t, 4, status.ProcessedCount)

	// Every raw result must have exactly one row after the resume.
	processed := store.ProcessedResults()
	require.Len(t, processed, 4)
	seen := make(map[uuid.UUID]bool)
	for _, p := range processed {
		assert.False(t, seen[p.RawResultId])
		seen[p.RawResultId] = true
	}
}

func TestRun_BatchDeadlineErrorsRemainingRecords(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	)

	svc, _ := newTestService(store)
	// Deadline already passed when the batch starts: every record in
	// every stage must be marked, not processed.
	svc.cfg.BatchTimeout = -time.Second
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPartial, status.Status)
	assert.Equal(t, 3, status.ProcessedCount)
	assert.Equal(t, 3, status.ErrorCount)

	processed := store.ProcessedResults()
	require.Len(t, processed, 3)
	for _, p := range processed {
		assert.Equal(t, "batch deadline exceeded", p.ProcessingError)
		assert.Empty(t, p.NormalizedURL)
	}
}

func TestStart_ResubmitsStalledPendingSession(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId, "https://example.com/a")

	svc, queue := newTestService(store)
	ctx := context.Background()

	_, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.Equal(t, 1, queue.submitCount())

	// The task is lost; the session sits pending past the heartbeat
	// timeout. Start must treat it as stalled and submit again.
	svc.now = func() time.Time {
		return time.Now().Add(10 * time.Minute)
	}
	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, resp.Status)
	assert.Equal(t, 2, queue.submitCount())
}

func TestRun_FailsWhenInputUnreadable(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId, "https://example.com/a")

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)

	store.FindPageErr = errors.New("relation does not exist")
	require.Error(t, svc.Run(ctx, resp.ProcessingSessionId))

	store.FindPageErr = nil
	status, err := svc.Status(ctx, searchSessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, status.Status)
}

func TestResults_FiltersByDuplicateFlag(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://example.com/a",
		"https://example.com/a?utm_medium=email",
		"https://example.com/b",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	onlyDuplicates := true
	page, err := svc.Results(ctx, searchSessionId, dtoResultsQuery(&onlyDuplicates))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsDuplicate)

	keepOriginals := false
	page, err = svc.Results(ctx, searchSessionId, dtoResultsQuery(&keepOriginals))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestDomainGroups_CountsPerDomain(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId,
		"https://alpha.org/one",
		"https://alpha.org/two",
		"https://beta.org/one",
	)

	svc, _ := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	groups, err := svc.DomainGroups(ctx, searchSessionId)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "alpha.org", groups[0].Domain)
	assert.Equal(t, int64(2), groups[0].Count)
}

func TestCancel_RejectsFinishedRun(t *testing.T) {
	store := memory.NewStore()
	searchSessionId := uuid.New()
	seedRawResults(store, searchSessionId, "https://example.com/a")

	svc, queue := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Start(ctx, searchSessionId)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, resp.ProcessingSessionId))

	err = svc.Cancel(ctx, searchSessionId)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
	assert.Empty(t, queue.cancelled)
}
