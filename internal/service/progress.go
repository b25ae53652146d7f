package service

import (
	"litsearch-be/internal/pkg/logger"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Progress is a point-in-time snapshot of a run, published after every
// committed batch.
type Progress struct {
	ProcessingSessionId uuid.UUID
	SearchSessionId     uuid.UUID
	Status              string
	CurrentStage        string
	TotalResults        int
	ProcessedCount      int
	DuplicateCount      int
	ErrorCount          int
}

// ProgressSink receives run progress. Implementations must be cheap
// and non-blocking; they run inside the batch loop.
type ProgressSink interface {
	Publish(p Progress)
}

type logProgressSink struct {
	log logger.ILogger
}

// NewLogProgressSink logs each progress snapshot.
func NewLogProgressSink(log logger.ILogger) ProgressSink {
	return &logProgressSink{log: log}
}

func (s *logProgressSink) Publish(p Progress) {
	s.log.Info("pipeline", "progress", map[string]interface{}{
		"processing_session_id": p.ProcessingSessionId.String(),
		"search_session_id":     p.SearchSessionId.String(),
		"status":                p.Status,
		"stage":                 p.CurrentStage,
		"processed":             p.ProcessedCount,
		"total":                 p.TotalResults,
		"duplicates":            p.DuplicateCount,
		"errors":                p.ErrorCount,
	})
}

type cacheInvalidationSink struct {
	cache *gocache.Cache
}

// NewCacheInvalidationSink drops the cached status entry whenever
// progress changes so pollers see fresh counters immediately.
func NewCacheInvalidationSink(cache *gocache.Cache) ProgressSink {
	return &cacheInvalidationSink{cache: cache}
}

func (s *cacheInvalidationSink) Publish(p Progress) {
	s.cache.Delete(statusCacheKey(p.SearchSessionId))
}

type multiSink struct {
	sinks []ProgressSink
}

// NewMultiSink fans progress out to every given sink.
func NewMultiSink(sinks ...ProgressSink) ProgressSink {
	return &multiSink{sinks: sinks}
}

func (s *multiSink) Publish(p Progress) {
	for _, sink := range s.sinks {
		sink.Publish(p)
	}
}

func statusCacheKey(searchSessionId uuid.UUID) string {
	return "pipeline:status:" + searchSessionId.String()
}
