package unitofwork_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/model"
	"reflective-notes-be/internal/repository/contract"
	"reflective-notes-be/internal/repository/unitofwork"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFactory(t *testing.T) unitofwork.RepositoryFactory {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.AllModels()...))
	return unitofwork.NewRepositoryFactory(db)
}

func TestHistoryRepository_Postgres(t *testing.T) {
	factory := openFactory(t)
	ctx := context.Background()
	userId := "it-" + uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.UserRepository().EnsureExists(ctx, userId))
	require.NoError(t, uow.UserRepository().EnsureExists(ctx, userId))
	note := &entity.HistoryNote{UserId: userId, Title: "First line", Content: "First line", CreatedOn: now, LastEdited: now}
	require.NoError(t, uow.HistoryRepository().Create(ctx, note))
	require.NoError(t, uow.Commit())

	repo := factory.NewUnitOfWork(ctx).HistoryRepository()
	t.Cleanup(func() { _ = repo.Delete(context.Background(), userId, note.Id) })

	t.Run("guarded update", func(t *testing.T) {
		later := now.Add(time.Second)
		require.NoError(t, repo.UpdateContent(ctx, &entity.HistoryNote{Id: note.Id, UserId: userId, Content: "First line\nmore", LastEdited: later}))

		err := repo.UpdateContent(ctx, &entity.HistoryNote{Id: note.Id, UserId: userId, Content: "stale", LastEdited: now})
		assert.True(t, errors.Is(err, annotate.ErrPersistenceConflict))

		got, err := repo.FindByID(ctx, userId, note.Id)
		require.NoError(t, err)
		assert.Equal(t, "First line\nmore", got.Content)
		assert.Equal(t, "First line", got.Title)
	})

	t.Run("rename and list", func(t *testing.T) {
		require.NoError(t, repo.Rename(ctx, userId, note.Id, "Renamed"))
		assert.ErrorIs(t, repo.Rename(ctx, "someone-else", note.Id, "x"), contract.ErrRecordNotFound)

		notes, err := repo.ListByUser(ctx, userId, contract.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Renamed", notes[0].Title)
	})
}
