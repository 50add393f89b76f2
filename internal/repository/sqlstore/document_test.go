package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

var documentRowColumns = []string{"id", "titulo", "archivo_url", "size", "content_type", "created_at"}

func TestDocumentStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          "doc-1",
		Title:       "Playbook",
		StorageKey:  "op-1/doc.pdf",
		Size:        123,
		ContentType: "application/pdf",
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(documentRowColumns).
		AddRow(doc.ID, doc.Title, doc.StorageKey, doc.Size, doc.ContentType, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO libro_pdf").
		WithArgs(doc.ID, doc.Title, doc.StorageKey, doc.Size, doc.ContentType, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, "op-1/doc.pdf", result.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentStore(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns).
			AddRow("doc-1", "Playbook", "op/doc.pdf", 100, "application/pdf", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM libro_pdf WHERE id = ?").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "Playbook", doc.Title)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM libro_pdf WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentStore(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM libro_pdf").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM libro_pdf ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow("doc-1", "Playbook", "op/doc.pdf", 100, "application/pdf", time.Now()))

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_UpdateTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentStore(db)

	mock.ExpectQuery("UPDATE libro_pdf SET titulo").
		WithArgs("doc-1", "New title").
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow("doc-1", "New title", "op/doc.pdf", 100, "application/pdf", time.Now()))

	doc, err := repo.UpdateTitle(context.Background(), "doc-1", "New title")

	assert.NoError(t, err)
	assert.Equal(t, "New title", doc.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentStore(db)

	mock.ExpectExec("DELETE FROM libro_pdf WHERE id = ?").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(context.Background(), "doc-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
