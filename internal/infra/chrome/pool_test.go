package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nameplate/internal/config"
)

var letter = config.PaperSize{Width: 8.5, Height: 11}

// pooledPrinter returns a printer whose pool never launches a real browser: the
// allocator starts lazily and render is replaced by fn.
func pooledPrinter(t *testing.T, size int, fn func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error)) *Printer {
	t.Helper()
	var cfg config.Config
	cfg.PDF.ChromePoolSize = size
	cfg.PDF.ChromePath = "/bin/true"
	cfg.PDF.UserDataDir = t.TempDir()
	cfg.PDF.TimeoutSecs = 1
	p := NewPrinter(cfg)
	p.render = fn
	t.Cleanup(p.Close)
	return p
}

func TestPrintHTML_HoldsOneSlotPerRender(t *testing.T) {
	var p *Printer
	p = pooledPrinter(t, 2, func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
		st, err := p.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, st.InUse)
		assert.Equal(t, letter, paper)
		return []byte("%PDF " + html), nil
	})

	out, err := p.PrintHTML(context.Background(), "<p>card</p>", letter)
	require.NoError(t, err)
	assert.Equal(t, "%PDF <p>card</p>", string(out))

	st, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Idle)
	assert.Zero(t, st.Restarts)
}

func TestPrintHTML_RestartsBrowserAndRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	p := pooledPrinter(t, 1, func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("websocket: close 1006 (abnormal closure)")
		}
		return []byte("%PDF"), nil
	})
	before, err := p.Stats()
	require.NoError(t, err)

	out, err := p.PrintHTML(context.Background(), "<p/>", letter)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out))
	assert.EqualValues(t, 2, calls.Load())

	after, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, after.Restarts)
	assert.False(t, after.LastRestart.IsZero())
	assert.NotEqual(t, before.ProfileDir, after.ProfileDir)
	assert.NoDirExists(t, before.ProfileDir)
	assert.Equal(t, 1, after.Idle)
}

func TestPrintHTML_GivesUpAfterSecondInterruption(t *testing.T) {
	var calls atomic.Int32
	p := pooledPrinter(t, 1, func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
		calls.Add(1)
		return nil, fmt.Errorf("print: %w", errors.New("target closed"))
	})

	_, err := p.PrintHTML(context.Background(), "<p/>", letter)
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())

	st, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Restarts)
	assert.Equal(t, 1, st.Idle)
}

func TestPrintHTML_RenderErrorKeepsBrowser(t *testing.T) {
	var calls atomic.Int32
	p := pooledPrinter(t, 1, func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
		calls.Add(1)
		return nil, errors.New("invalid paper size")
	})

	_, err := p.PrintHTML(context.Background(), "<p/>", config.PaperSize{})
	require.EqualError(t, err, "invalid paper size")
	assert.EqualValues(t, 1, calls.Load())

	st, err := p.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.Restarts)
	assert.Equal(t, 1, st.Idle)
}

func TestPrintHTML_CanceledWhileAllSlotsBusy(t *testing.T) {
	p := pooledPrinter(t, 1, func(ctx context.Context, html string, paper config.PaperSize) ([]byte, error) {
		t.Fatal("render must not run without a free slot")
		return nil, nil
	})
	pool, err := p.getPool()
	require.NoError(t, err)
	tab, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer pool.Release(tab, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.PrintHTML(ctx, "<p/>", letter)
	assert.ErrorIs(t, err, context.Canceled)

	st, err := p.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.Restarts)
}

func TestPrinterStats_DisabledWithoutPoolSize(t *testing.T) {
	p := pooledPrinter(t, 0, nil)
	st, err := p.Stats()
	require.NoError(t, err)
	assert.False(t, st.Enabled)
	assert.Zero(t, st.Capacity)
	assert.Equal(t, 1, st.TimeoutSecs)
	assert.Nil(t, p.pool)
}

func TestPrinterStats_CreatesPoolOnce(t *testing.T) {
	p := pooledPrinter(t, 2, nil)
	assert.Nil(t, p.pool)

	st, err := p.Stats()
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.Equal(t, 2, st.Capacity)
	assert.Equal(t, 2, st.PoolSizeConf)
	assert.DirExists(t, st.ProfileDir)

	first := p.pool
	_, err = p.Stats()
	require.NoError(t, err)
	assert.Same(t, first, p.pool)
}

func TestPrinterStats_ProfileBaseUnusable(t *testing.T) {
	p := pooledPrinter(t, 1, nil)
	p.cfg.PDF.UserDataDir = "/dev/null/chrome"

	_, err := p.Stats()
	require.Error(t, err)
	_, err = p.PrintHTML(context.Background(), "<p/>", letter)
	require.Error(t, err)
	assert.Nil(t, p.pool)
}

func TestPrinterClose_StopsPoolAndRemovesProfile(t *testing.T) {
	p := pooledPrinter(t, 1, nil)
	st, err := p.Stats()
	require.NoError(t, err)
	require.DirExists(t, st.ProfileDir)

	p.Close()
	p.Close()
	_, err = os.Stat(st.ProfileDir)
	assert.True(t, os.IsNotExist(err))

	after, err := p.Stats()
	require.NoError(t, err)
	assert.False(t, after.Enabled)
	_, err = p.pool.Acquire(context.Background())
	assert.ErrorIs(t, err, errPoolClosed)
	assert.ErrorIs(t, p.pool.Restart(), errPoolClosed)
}

func TestNewPool_RejectsNonPositiveSize(t *testing.T) {
	var cfg config.Config
	_, err := NewPool(cfg)
	assert.Error(t, err)
}

func TestAllocatorOptions_ExtendDefaults(t *testing.T) {
	var cfg config.Config
	base := len(AllocatorOptions(cfg, t.TempDir()))

	cfg.PDF.ChromePath = "/usr/bin/chromium"
	cfg.PDF.ChromeNoSandbox = true
	assert.Equal(t, base+2, len(AllocatorOptions(cfg, t.TempDir())))
}

func TestIsSessionInterrupted(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, true},
		{fmt.Errorf("acquire: %w", context.DeadlineExceeded), true},
		{errors.New("Target Closed"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("read: connection reset by peer"), true},
		{errors.New("session closed"), true},
		{errors.New("invalid paper size"), false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsSessionInterrupted(tc.err), "%v", tc.err)
	}
}
