package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

var proposalColumns = []string{"id", "name", "data", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPostgresRepository(db, testClock())
	ids := []string{"p1", "p2", "p3"}
	repo.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	return repo, mock
}

func docJSON(t *testing.T, title string) []byte {
	raw, err := json.Marshal(sampleDoc(title))
	require.NoError(t, err)
	return raw
}

func TestPostgresRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_proposals")).
		WithArgs("p1", "Acme", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	doc := sampleDoc("Acme")
	saved, err := repo.Save(context.Background(), "Acme", doc)
	require.NoError(t, err)
	assert.Equal(t, "p1", saved.ID)
	assert.Equal(t, *doc, saved.Data)
	assert.True(t, saved.CreatedAt.Equal(saved.UpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveRetriesOnDuplicateID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_proposals")).
		WithArgs("p1", "dup", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_proposals")).
		WithArgs("p2", "dup", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	saved, err := repo.Save(context.Background(), "dup", sampleDoc("dup"))
	require.NoError(t, err)
	assert.Equal(t, "p2", saved.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetOne(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_proposals")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(proposalColumns).
			AddRow("p1", "Acme", docJSON(t, "Acme"), created, created))

	got, err := repo.GetOne(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Data.DocumentTitle)
	assert.True(t, got.CreatedAt.Equal(created))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetOneMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_proposals")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(proposalColumns))

	got, err := repo.GetOne(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetAllSkipsMalformedRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq ASC")).
		WillReturnRows(sqlmock.NewRows(proposalColumns).
			AddRow("p1", "first", docJSON(t, "first"), ts, ts).
			AddRow("p2", "broken", []byte("{oops"), ts, ts).
			AddRow("p3", "third", docJSON(t, "third"), ts, ts))

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p3", all[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(proposalColumns).
			AddRow("p1", "old", docJSON(t, "old"), created, created))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE saved_proposals")).
		WithArgs("p1", "new", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	name := "new"
	got, err := repo.Update(context.Background(), "p1", domain.SavedProposalUpdate{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "old", got.Data.DocumentTitle)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(proposalColumns))
	mock.ExpectRollback()

	name := "x"
	got, err := repo.Update(context.Background(), "nope", domain.SavedProposalUpdate{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteOne(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_proposals WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_proposals WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteOne(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteOne(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ClearAllAndSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS saved_proposals")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_proposals;")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.ClearAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
