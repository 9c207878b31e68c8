package chrome

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"nameplate/internal/config"
	"nameplate/internal/infra/logging"
)

// Printer prints HTML pages to PDF with headless Chrome. With a positive
// pdf.chrome_pool_size it reuses a lazily created Pool, otherwise it starts a
// browser per call.
type Printer struct {
	cfg config.Config
	// render prints one page in an acquired tab.
	render func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error)

	mu      sync.Mutex
	pool    *Pool
	poolErr error
}

func NewPrinter(cfg config.Config) *Printer {
	return &Printer{cfg: cfg, render: printInTab}
}

func (p *Printer) getPool() (*Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.PDF.ChromePoolSize <= 0 {
		return nil, nil
	}
	if p.pool != nil {
		return p.pool, nil
	}
	pool, err := NewPool(p.cfg)
	if err != nil {
		p.poolErr = err
		return nil, err
	}
	p.pool = pool
	return p.pool, nil
}

// PrintHTML renders html on a page of the given size in inches. The document
// carries its own margins, so Chrome's are zero.
func (p *Printer) PrintHTML(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
	pool, err := p.getPool()
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(p.cfg.PDF.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if pool == nil {
		return printWithFreshBrowser(ctx, html, paper, p.cfg, timeout)
	}

	runOnce := func() ([]byte, error) {
		acquireCtx, acquireCancel := context.WithTimeout(ctx, 5*time.Second)
		defer acquireCancel()

		tab, err := pool.Acquire(acquireCtx)
		if err != nil {
			return nil, err
		}

		tabCtx, cancel := context.WithTimeout(tab.Ctx, timeout)
		buf, renderErr := p.render(tabCtx, html, paper)
		cancel()

		pool.Release(tab, renderErr)
		return buf, renderErr
	}

	buf, err := runOnce()
	if err != nil && IsSessionInterrupted(err) && ctx.Err() == nil {
		logging.Warn("Chrome session interrupted; restarting pool and retrying once", "error", err)
		_ = pool.Restart()
		return runOnce()
	}
	return buf, err
}

// Stats reports the pool state, or a disabled snapshot when no pool is configured.
func (p *Printer) Stats() (Stats, error) {
	pool, err := p.getPool()
	if err != nil {
		return Stats{}, err
	}
	if pool == nil {
		return Stats{
			PoolSizeConf: p.cfg.PDF.ChromePoolSize,
			TimeoutSecs:  p.cfg.PDF.TimeoutSecs,
		}, nil
	}
	return pool.Stats(p.cfg.PDF.TimeoutSecs), nil
}

// Close stops the pooled browser, if any.
func (p *Printer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
	}
}

func printWithFreshBrowser(ctx context.Context, html string, paper config.PaperSize, cfg config.Config, timeout time.Duration) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "chromedata-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp profile dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(cfg, tmpDir)...)
	defer allocCancel()
	chromeCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	chromeCtx, cancelTimeout := context.WithTimeout(chromeCtx, timeout)
	defer cancelTimeout()

	return printInTab(chromeCtx, html, paper)
}

func printInTab(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paper.Width).
				WithPaperHeight(paper.Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
