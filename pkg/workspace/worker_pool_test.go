package workspace

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/docs"
	"github.com/gnana997/propdoc/pkg/util"
)

// fakeDocument returns one Documentation named after the file, and fails
// for file names containing "bad".
func fakeDocument(path string) ([]*docs.Documentation, error) {
	if strings.Contains(filepath.Base(path), "bad") {
		return nil, errors.Newf("cannot document %s", path)
	}
	d := docs.New()
	d.DisplayName = path
	d.FilePath = path
	return []*docs.Documentation{d}, nil
}

func TestWorkerPool_Basic(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 4, fakeDocument, util.NopLogger())
	pool.Start()
	defer pool.Stop()

	files := []string{"one.ts", "bad.ts", "two.ts"}
	for i, file := range files {
		require.NoError(t, pool.Submit(FileJob{FilePath: file, JobID: i}))
	}
	pool.FinishSubmitting()

	results := map[int]FileResult{}
	var failures []FileError
	for i := 0; i < len(files); i++ {
		select {
		case r := <-pool.Results():
			results[r.JobID] = r
		case e := <-pool.Errors():
			failures = append(failures, e)
		}
	}

	require.Len(t, results, 2)
	assert.Equal(t, "one.ts", results[0].Docs[0].DisplayName)
	assert.Equal(t, "two.ts", results[2].Docs[0].DisplayName)
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.ts", failures[0].FilePath)

	stats := pool.GetStats()
	assert.Equal(t, int64(3), stats.JobsSubmitted)
	assert.Equal(t, int64(2), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsFailed)
	assert.Equal(t, 4, stats.NumWorkers)
}

func TestWorkerPool_SubmitAfterFinish(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, fakeDocument, util.NopLogger())
	pool.Start()
	defer pool.Stop()

	pool.FinishSubmitting()
	pool.FinishSubmitting()

	err := pool.Submit(FileJob{FilePath: "late.ts"})
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestWorkerPool_StopIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2, fakeDocument, util.NopLogger())
	pool.Start()
	pool.Stop()
	pool.Stop()

	_, ok := <-pool.Results()
	assert.False(t, ok)
	assert.ErrorIs(t, pool.Submit(FileJob{FilePath: "x.ts"}), ErrPoolStopped)
}

func TestWorkerPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool(ctx, 1, fakeDocument, util.NopLogger())
	pool.Start()
	defer pool.Stop()

	err := pool.Submit(FileJob{FilePath: "x.ts"})
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestWorkerPool_DefaultWorkerCount(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0, fakeDocument, nil)
	assert.Equal(t, util.GetOptimalPoolSize(), pool.GetStats().NumWorkers)
}
