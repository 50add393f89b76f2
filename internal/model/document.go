package model

import "time"

// Document is a gated file (a PDF) kept in object storage.
// StorageKey is the object key inside the documents bucket; it is resolved to a
// public URL by the viewer and never exposed to visitors as-is.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StorageKey  string    `json:"storage_key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
