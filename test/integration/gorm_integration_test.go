package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/repository/unitofwork"
	"litsearch-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.RawResultRepository())
	assert.NotNil(t, uow.ProcessedResultRepository())
	assert.NotNil(t, uow.DuplicateRelationshipRepository())
	assert.NotNil(t, uow.ProcessingSessionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Processing Session Repository", func(t *testing.T) {
		session, err := uow.ProcessingSessionRepository().FindBySearchSession(context.Background(), uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("Check Transactional Batch Write", func(t *testing.T) {
		searchSessionId := uuid.New()

		// Raw input lives outside the batch transaction.
		raw := &entity.RawResult{
			Id:              uuid.New(),
			SearchSessionId: searchSessionId,
			QueryId:         uuid.New(),
			Title:           "Integration Test Result",
			URL:             "https://example.org/integration",
			Snippet:         "A snippet for the integration test",
			Position:        1,
		}
		err := uow.RawResultRepository().Create(context.Background(), raw)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		txUow := uowFactory.NewUnitOfWork(ctx)
		err = txUow.Begin(ctx)
		assert.NoError(t, err)
		defer txUow.Rollback()

		processed := &entity.ProcessedResult{
			Id:              uuid.New(),
			RawResultId:     raw.Id,
			SearchSessionId: searchSessionId,
			Title:           raw.Title,
			Snippet:         raw.Snippet,
			OriginalURL:     raw.URL,
			NormalizedURL:   "https://example.org/integration",
			Domain:          "example.org",
			FileType:        "html",
			QualityScore:    0.7,
		}
		err = txUow.ProcessedResultRepository().Create(ctx, processed)
		assert.NoError(t, err)

		session := &entity.ProcessingSession{
			Id:              uuid.New(),
			SearchSessionId: searchSessionId,
			Status:          entity.StatusInProgress,
			CurrentStage:    entity.StageQualityScoring,
			TotalResults:    1,
			ProcessedCount:  1,
		}
		err = txUow.ProcessingSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		err = txUow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully committed processed result and session in Transaction")
	})
}
