package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"nameplate/internal/cache"
	"nameplate/internal/domain"
	"nameplate/internal/export"
	"nameplate/internal/infra/logging"
	"nameplate/internal/labels"
	"nameplate/internal/notify"
	"nameplate/internal/storage"
)

// Renderer produces the two artifacts of an export.
type Renderer interface {
	Spreadsheet(order *domain.OrderRequest) (export.Artifact, error)
	Document(ctx context.Context, order *domain.OrderRequest, format domain.Format) (export.Artifact, error)
}

// Exporter runs an order through validation, rendering, upload and notification.
type Exporter struct {
	Renderer Renderer
	// Store is nil when storage credentials are missing; exports then fail with
	// ErrConfiguration before rendering.
	Store    storage.Store
	Notifier notify.Notifier
	Cache    *cache.Artifacts

	Prefix           string
	MaxLabels        int
	MaxArtifactBytes int
	Now              func() time.Time
}

// Artifacts is the rendered output of one order. Document is empty for the
// tabular format.
type Artifacts struct {
	Spreadsheet export.Artifact
	Document    export.Artifact
}

// Prepare validates and normalizes order in place.
func (e *Exporter) Prepare(order *domain.OrderRequest) error {
	if order == nil {
		return fmt.Errorf("%w: empty request", domain.ErrValidation)
	}
	if err := order.Validate(); err != nil {
		return err
	}
	order.Normalize()
	if e.MaxLabels > 0 && order.TotalLabels() > e.MaxLabels {
		return fmt.Errorf("%w: %d labels exceed the limit of %d", domain.ErrTooLarge, order.TotalLabels(), e.MaxLabels)
	}
	return nil
}

// Render builds both artifacts concurrently. order must be prepared.
func (e *Exporter) Render(ctx context.Context, order *domain.OrderRequest, format domain.Format) (Artifacts, error) {
	var out Artifacts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a, err := e.cached(gctx, order, "spreadsheet", func() (export.Artifact, error) {
			return e.Renderer.Spreadsheet(order)
		}, export.Artifact{Kind: export.KindSpreadsheet, Ext: "xlsx", ContentType: export.ContentTypeXLSX})
		out.Spreadsheet = a
		return err
	})
	if format != domain.FormatTabular {
		g.Go(func() error {
			tmpl := export.Artifact{Kind: export.KindDocument, Ext: "pdf", ContentType: export.ContentTypePDF}
			if format == domain.FormatPreview {
				tmpl.Ext, tmpl.ContentType = "html", export.ContentTypeHTML
			}
			a, err := e.cached(gctx, order, "document:"+string(format), func() (export.Artifact, error) {
				return e.Renderer.Document(gctx, order, format)
			}, tmpl)
			out.Document = a
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Artifacts{}, err
	}

	for _, a := range []export.Artifact{out.Spreadsheet, out.Document} {
		if e.MaxArtifactBytes > 0 && len(a.Body) > e.MaxArtifactBytes {
			return Artifacts{}, fmt.Errorf("%w: %s artifact is %d bytes", domain.ErrTooLarge, a.Ext, len(a.Body))
		}
	}
	return out, nil
}

// cached serves a body from the artifact cache, rendering and storing it on a miss.
// meta describes the artifact a cache hit stands for.
func (e *Exporter) cached(ctx context.Context, order *domain.OrderRequest, kind string, render func() (export.Artifact, error), meta export.Artifact) (export.Artifact, error) {
	key := cache.Key(order, kind)
	if body := e.Cache.Get(ctx, key); body != nil {
		meta.Body = body
		return meta, nil
	}
	a, err := render()
	if err != nil {
		return export.Artifact{}, err
	}
	e.Cache.Set(ctx, key, a.Body)
	return a, nil
}

// Export renders order, uploads the artifacts and notifies the webhook. Upload
// failures abort before notification; notification failures are only logged.
func (e *Exporter) Export(ctx context.Context, order *domain.OrderRequest, format domain.Format) (domain.Result, error) {
	if err := e.Prepare(order); err != nil {
		return domain.Result{}, err
	}
	if e.Store == nil || e.Renderer == nil {
		return domain.Result{}, fmt.Errorf("%w: artifact storage is not configured", domain.ErrConfiguration)
	}

	arts, err := e.Render(ctx, order, format)
	if err != nil {
		return domain.Result{}, err
	}

	sheetURL, docURL, err := e.upload(ctx, order.RefID, arts)
	if err != nil {
		return domain.Result{}, err
	}

	if e.Notifier != nil {
		summary := labels.Summarize(order, sheetURL, docURL)
		if err := e.Notifier.Notify(ctx, summary); err != nil {
			logging.Warn("Order notification failed", "ref_id", order.RefID, "error", err)
		} else {
			logging.Info("Order notification sent", "ref_id", order.RefID)
		}
	}

	return domain.Result{
		RefID:          order.RefID,
		SpreadsheetURL: sheetURL,
		DocumentURL:    docURL,
		TotalLabels:    order.TotalLabels(),
	}, nil
}

func (e *Exporter) upload(ctx context.Context, refID string, arts Artifacts) (sheetURL, docURL string, err error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	ts := now()

	g, gctx := errgroup.WithContext(ctx)
	put := func(a export.Artifact, dst *string) {
		g.Go(func() error {
			key := storage.ObjectKey(e.Prefix, refID, a.Ext, ts)
			url, err := e.Store.Put(gctx, key, a.ContentType, a.Body)
			if err != nil {
				logging.Error("Artifact upload failed", "ref_id", refID, "key", key, "error", err)
				return fmt.Errorf("%w: %s: %v", domain.ErrUpload, key, err)
			}
			logging.Info("Artifact uploaded", "ref_id", refID, "key", key, "bytes", len(a.Body))
			*dst = url
			return nil
		})
	}
	put(arts.Spreadsheet, &sheetURL)
	if len(arts.Document.Body) > 0 {
		put(arts.Document, &docURL)
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return sheetURL, docURL, nil
}

// IsClientError reports whether err is caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrTooLarge)
}
