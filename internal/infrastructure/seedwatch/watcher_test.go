package seedwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const capreseSeed = `
vocabulary: [tomato, basil, mozzarella]
complementary_pairs:
  - [tomato, basil]
  - [basil, mozzarella]
`

type recordingReloader struct {
	mu    sync.Mutex
	seeds []ingredient.Seed
}

func (r *recordingReloader) Reload(ctx context.Context, seed ingredient.Seed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seeds = append(r.seeds, seed)
	return nil
}

func (r *recordingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seeds)
}

// WatcherTestSuite drives the watcher against a real temp directory
type WatcherTestSuite struct {
	suite.Suite
	path     string
	reloader *recordingReloader
	watcher  *Watcher
	results  chan error
}

func (suite *WatcherTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "seed.yaml")
	require.NoError(suite.T(), os.WriteFile(suite.path, []byte(capreseSeed), 0o644))

	suite.reloader = &recordingReloader{}
	suite.results = make(chan error, 16)

	w, err := NewWatcher(suite.path, suite.reloader, 100*time.Millisecond, zap.NewNop())
	require.NoError(suite.T(), err)
	w.reloaded = func(err error) { suite.results <- err }
	suite.watcher = w

	require.NoError(suite.T(), w.Start(context.Background()))
}

func (suite *WatcherTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.watcher.Stop())
}

func (suite *WatcherTestSuite) waitForReload() error {
	select {
	case err := <-suite.results:
		return err
	case <-time.After(5 * time.Second):
		suite.T().Fatal("timed out waiting for reload")
		return nil
	}
}

func (suite *WatcherTestSuite) TestReload() {
	suite.Run("ValidEdit_ShouldReloadGraph", func() {
		// Act
		require.NoError(suite.T(), os.WriteFile(suite.path, []byte(capreseSeed+"  - [tomato, mozzarella]\n"), 0o644))

		// Assert
		require.NoError(suite.T(), suite.waitForReload())
		assert.Equal(suite.T(), 1, suite.reloader.count())
		assert.Len(suite.T(), suite.reloader.seeds[0].ComplementaryPairs, 3)
	})

	suite.Run("InvalidEdit_ShouldKeepCurrentGraph", func() {
		before := suite.reloader.count()

		require.NoError(suite.T(), os.WriteFile(suite.path, []byte("vocabulary: []\n"), 0o644))

		assert.Error(suite.T(), suite.waitForReload())
		assert.Equal(suite.T(), before, suite.reloader.count())
	})
}

func (suite *WatcherTestSuite) TestUnrelatedFiles() {
	suite.Run("SiblingFile_ShouldBeIgnored", func() {
		sibling := filepath.Join(filepath.Dir(suite.path), "notes.txt")
		require.NoError(suite.T(), os.WriteFile(sibling, []byte("hello"), 0o644))

		select {
		case <-suite.results:
			suite.T().Fatal("unexpected reload")
		case <-time.After(200 * time.Millisecond):
		}
		assert.Zero(suite.T(), suite.reloader.count())
	})
}

func TestNewWatcher(t *testing.T) {
	t.Run("EmptyPath_ShouldFail", func(t *testing.T) {
		_, err := NewWatcher("", &recordingReloader{}, 0, zap.NewNop())

		assert.Error(t, err)
	})

	t.Run("ZeroDebounce_ShouldUseDefault", func(t *testing.T) {
		w, err := NewWatcher("seed.yaml", &recordingReloader{}, 0, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, DefaultDebounce, w.debounce)
		assert.True(t, filepath.IsAbs(w.path))
	})

	t.Run("StopBeforeStart_ShouldBeNoop", func(t *testing.T) {
		w, err := NewWatcher("seed.yaml", &recordingReloader{}, 0, zap.NewNop())
		require.NoError(t, err)

		assert.NoError(t, w.Stop())
	})
}

func TestWatcherTestSuite(t *testing.T) {
	suite.Run(t, new(WatcherTestSuite))
}
