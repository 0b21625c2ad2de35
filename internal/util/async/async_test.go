package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllSucceed(t *testing.T) {
	t.Parallel()
	var count atomic.Int32
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "c", Func: func(context.Context) error { count.Add(1); return nil }},
	}

	results := Run(context.Background(), tasks, 2)
	require.Len(t, results, 3)
	assert.Equal(t, int32(3), count.Load())
	for i, res := range results {
		assert.Equal(t, tasks[i].Name, res.Name)
		assert.NoError(t, res.Err)
	}
}

func TestRun_PartialFailureRunsEverything(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	var count atomic.Int32
	tasks := []Task{
		{Name: "ok", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "bad", Func: func(context.Context) error { count.Add(1); return boom }},
		{Name: "also-ok", Func: func(context.Context) error { count.Add(1); return nil }},
	}

	results := Run(context.Background(), tasks, 0)
	assert.Equal(t, int32(3), count.Load())
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
}

func TestRun_RespectsLimit(t *testing.T) {
	t.Parallel()
	var running, peak atomic.Int32
	task := Task{Name: "n", Func: func(context.Context) error {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	}}

	Run(context.Background(), []Task{task, task, task, task, task, task}, 2)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Run(context.Background(), nil, 4))
}
