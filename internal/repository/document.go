package repository

import (
	"context"

	"securedoc/internal/model"
)

// DocumentRepository defines data access for gated documents (libro_pdf).
// No business logic here, only persistence.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateTitle changes only the title of a document.
	UpdateTitle(ctx context.Context, id, title string) (*model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
