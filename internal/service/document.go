package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"securedoc/internal/model"
	"securedoc/internal/repository"
	"securedoc/internal/storage"
)

const pdfContentType = "application/pdf"

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// UploadInput describes one uploaded file.
type UploadInput struct {
	Title            string
	OriginalFilename string
	Size             int64
}

// DocumentService defines the operator use cases for gated documents.
type DocumentService interface {
	// Upload stores a PDF under the operator's prefix, saves its metadata, and
	// removes the object again if the metadata insert fails.
	Upload(ctx context.Context, op model.Operator, r io.Reader, in UploadInput) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// UpdateTitle renames a document. The title is the only editable field.
	UpdateTitle(ctx context.Context, id, title string) (*model.Document, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	rec      Recorder
	log      *slog.Logger
	maxBytes int64
}

// NewDocumentService constructs a new DocumentService. maxBytes <= 0 disables the size check.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, rec Recorder, log *slog.Logger, maxBytes int64) DocumentService {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &documentService{
		store:    store,
		repo:     repo,
		rec:      rec,
		log:      log.With("component", "documents"),
		maxBytes: maxBytes,
	}
}

func (s *documentService) Upload(ctx context.Context, op model.Operator, r io.Reader, in UploadInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	// Sniff the real type; the declared one is whatever the browser claimed.
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if http.DetectContentType(head) != pdfContentType {
		return nil, ErrUnsupportedType
	}
	body := io.MultiReader(bytes.NewReader(head), r)

	key := ObjectKey(op.Subject, uuid.NewString())

	objInfo, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: pdfContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload to storage: %w", ErrUploadFailure, err)
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		Title:       title,
		StorageKey:  objInfo.Key,
		Size:        objInfo.Size,
		ContentType: pdfContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		delErr := compensate(ctx, s.log, s.rec, SagaUploadRevert, func(ctx context.Context) error {
			return s.store.Delete(ctx, objInfo.Key)
		}, "storage_key", objInfo.Key)
		if delErr != nil {
			return nil, fmt.Errorf("%w: db save failed: %w; rollback delete failed: %v", ErrUploadFailure, err, delErr)
		}
		return nil, fmt.Errorf("%w: db save failed: %w", ErrUploadFailure, err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) UpdateTitle(ctx context.Context, id, title string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	doc, err := s.repo.UpdateTitle(ctx, id, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Storage first: if it fails the row stays and still points at the object.
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey places a document under its operator's prefix: {operator}/{name}.pdf.
func ObjectKey(operator, name string) string {
	prefix := unsafeKeyChars.ReplaceAllString(operator, "_")
	prefix = strings.Trim(prefix, "._")
	if prefix == "" {
		prefix = "shared"
	}
	return path.Join(prefix, name+".pdf")
}
