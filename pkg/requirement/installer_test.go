package requirement

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records pip invocations and answers site-dir discovery.
type fakeRunner struct {
	mu        sync.Mutex
	installs  [][]string
	siteDirs  []string
	installFn func(ctx context.Context, args []string) error
}

func (f *fakeRunner) Run(ctx context.Context, _ string, args ...string) ([]byte, error) {
	if len(args) > 0 && args[0] == "-c" {
		return []byte(strings.Join(f.siteDirs, "\n") + "\n"), nil
	}
	f.mu.Lock()
	f.installs = append(f.installs, args)
	f.mu.Unlock()
	if f.installFn != nil {
		return nil, f.installFn(ctx, args)
	}
	return nil, nil
}

func (f *fakeRunner) installCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.installs)
}

func newTestInstaller(r Runner, mutate func(*Options)) *Installer {
	opts := NewOptions()
	opts.DiscoverSiteDirs = false
	if mutate != nil {
		mutate(opts)
	}
	return NewInstaller(opts, WithRunner(r))
}

func TestInstaller_AlreadyInTarget(t *testing.T) {
	lib := writeDists(t, "pyserial-2.7.dist-info")
	r := &fakeRunner{}
	i := newTestInstaller(r, nil)

	assert.True(t, i.EnsureInstalled(context.Background(), "pyserial==2.7", lib))
	assert.Equal(t, 0, r.installCount())
}

func TestInstaller_AlreadyInSiteDirs(t *testing.T) {
	site := writeDists(t, "phue-0.8.dist-info")

	t.Run("configured", func(t *testing.T) {
		r := &fakeRunner{}
		i := newTestInstaller(r, func(o *Options) { o.SiteDirs = []string{site} })
		assert.True(t, i.EnsureInstalled(context.Background(), "phue>=0.8", ""))
		assert.Equal(t, 0, r.installCount())
	})

	t.Run("discovered", func(t *testing.T) {
		r := &fakeRunner{siteDirs: []string{site}}
		i := newTestInstaller(r, func(o *Options) { o.DiscoverSiteDirs = true })
		assert.True(t, i.EnsureInstalled(context.Background(), "phue>=0.8", ""))
		assert.Equal(t, 0, r.installCount())
	})
}

func TestInstaller_InstallArgs(t *testing.T) {
	r := &fakeRunner{}
	i := newTestInstaller(r, nil)
	target := t.TempDir()

	require.True(t, i.EnsureInstalled(context.Background(), "pyserial==2.7", target))
	require.Equal(t, 1, r.installCount())

	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"-m", "pip", "install", "--quiet", "pyserial==2.7", "--upgrade", "--target", abs},
		r.installs[0])
}

func TestInstaller_NoUpgradeNoTarget(t *testing.T) {
	r := &fakeRunner{}
	i := newTestInstaller(r, func(o *Options) { o.Upgrade = false })

	require.True(t, i.EnsureInstalled(context.Background(), "pyserial", ""))
	assert.Equal(t, []string{"-m", "pip", "install", "--quiet", "pyserial"}, r.installs[0])
}

func TestInstaller_InstallFailure(t *testing.T) {
	r := &fakeRunner{installFn: func(context.Context, []string) error { return errors.New("exit status 1") }}
	i := newTestInstaller(r, nil)

	assert.False(t, i.EnsureInstalled(context.Background(), "doesnotexist==1.0", t.TempDir()))
	assert.Equal(t, 1, r.installCount())
}

func TestInstaller_URLSpecifier(t *testing.T) {
	lib := writeDists(t, "pywink-0.1.dist-info")
	r := &fakeRunner{}
	i := newTestInstaller(r, nil)

	assert.True(t, i.EnsureInstalled(context.Background(), "https://example.com/pywink.zip#pywink==0.1", lib))
	assert.Equal(t, 0, r.installCount())
}

func TestInstaller_UnparseableStillInstalls(t *testing.T) {
	r := &fakeRunner{}
	i := newTestInstaller(r, nil)

	assert.True(t, i.EnsureInstalled(context.Background(), "https://example.com/pkg.zip", ""))
	assert.Equal(t, 1, r.installCount())
}

func TestInstaller_Timeout(t *testing.T) {
	r := &fakeRunner{installFn: func(ctx context.Context, _ []string) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	i := newTestInstaller(r, func(o *Options) { o.Timeout = 20 * time.Millisecond })

	assert.False(t, i.EnsureInstalled(context.Background(), "slowpkg", ""))
}

func TestInstaller_ConcurrentDedup(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32
	lib := t.TempDir()
	r := &fakeRunner{installFn: func(context.Context, []string) error {
		started.Add(1)
		<-release
		return os.Mkdir(filepath.Join(lib, "pyserial-2.7.dist-info"), 0o755)
	}}
	i := newTestInstaller(r, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for n := 0; n < callers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = i.EnsureInstalled(context.Background(), "pyserial==2.7", lib)
		}(n)
	}

	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Give the other callers time to join the singleflight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, r.installCount())
	for _, ok := range results {
		assert.True(t, ok)
	}
}

func TestInstaller_SerializesDifferentSpecs(t *testing.T) {
	var running, maxRunning atomic.Int32
	r := &fakeRunner{installFn: func(context.Context, []string) error {
		cur := running.Add(1)
		for {
			old := maxRunning.Load()
			if cur <= old || maxRunning.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	}}
	i := newTestInstaller(r, nil)

	var wg sync.WaitGroup
	for _, spec := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(spec string) {
			defer wg.Done()
			i.EnsureInstalled(context.Background(), spec, "")
		}(spec)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Equal(t, 4, r.installCount())
}

func TestOptions_Validate(t *testing.T) {
	o := NewOptions()
	assert.NoError(t, o.Validate())
	o.Timeout = -time.Second
	assert.Error(t, o.Validate())
	o.Timeout = 0
	o.Python = ""
	assert.Error(t, o.Validate())
}
