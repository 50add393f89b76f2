package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"securedoc/internal/config"
	"securedoc/internal/service"
	"securedoc/internal/storage"
)

const (
	presignTTL = 15 * time.Minute
	// a server that ignores Range sends the whole file; stop reading early.
	probeDrainBytes = 4 << 10
)

var errEmptyKey = errors.New("empty storage key")

// View is everything the viewer page needs. The overlays it drives are a
// deterrent for casual copying, not a security boundary: whoever holds the
// public URL can fetch the file.
type View struct {
	Title     string `json:"title"`
	Email     string `json:"email"`
	PublicURL string `json:"public_url"`
	EmbedURL  string `json:"embed_url"`
	Watermark string `json:"watermark"`
}

// Presenter resolves documents to fetchable URLs and wraps them for the embed.
type Presenter struct {
	store      storage.Storage
	publicBase string
	bucket     string
	embedBase  string
	probe      *http.Client
}

// NewPresenter builds a Presenter. When the probe is enabled, every
// Present call first checks the document URL answers.
func NewPresenter(sc config.StorageConfig, vc config.ViewerConfig, store storage.Storage) *Presenter {
	p := &Presenter{
		store:      store,
		publicBase: strings.TrimRight(sc.PublicBaseURL, "/"),
		bucket:     sc.PublicBucket,
		embedBase:  vc.EmbedBaseURL,
	}
	if p.bucket == "" {
		p.bucket = "secure-books"
	}
	if vc.ProbeEnabled {
		p.probe = &http.Client{
			Timeout:   vc.ProbeTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return p
}

// Present turns a verified validation into a View.
func (p *Presenter) Present(ctx context.Context, v *service.Validation) (*View, error) {
	public, err := p.PublicURL(ctx, v.Document.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve url: %w", service.ErrViewerLoadFailure, err)
	}
	if err := p.reachable(ctx, public); err != nil {
		return nil, err
	}
	return &View{
		Title:     v.Document.Title,
		Email:     v.AuthorizedEmail,
		PublicURL: public,
		EmbedURL:  EmbedURL(p.embedBase, public),
		Watermark: Watermark(v.AuthorizedEmail),
	}, nil
}

// PublicURL returns {base}/storage/v1/object/public/{bucket}/{key}. Without a
// public base the store is asked for a short-lived presigned URL instead.
func (p *Presenter) PublicURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	if p.publicBase == "" {
		return p.store.PresignGet(ctx, key, presignTTL)
	}
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return p.publicBase + "/storage/v1/object/public/" + url.PathEscape(p.bucket) + "/" + strings.Join(segments, "/"), nil
}

// reachable asks for the first byte of the document. A presigned URL is
// signed for GET only, so the probe never uses HEAD. There is no retry; the
// visitor reloads.
func (p *Presenter) reachable(ctx context.Context, target string) error {
	if p.probe == nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrViewerLoadFailure, err)
	}
	req.Header.Set("Range", "bytes=0-0")
	resp, err := p.probe.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrViewerLoadFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, probeDrainBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: document answered %d", service.ErrViewerLoadFailure, resp.StatusCode)
	}
	return nil
}

// EmbedURL wraps a document URL for the third-party viewer.
func EmbedURL(base, documentURL string) string {
	return base + "?url=" + url.QueryEscape(documentURL) + "&embedded=true"
}

// Watermark is the text tiled over the document.
func Watermark(email string) string {
	return "Confidential · " + email
}
