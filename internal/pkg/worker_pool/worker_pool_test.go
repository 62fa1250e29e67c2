package worker_pool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 3, false, log.New())

	go func() {
		defer pool.Close()
		for i := 0; i < 20; i++ {
			n := i
			assert.NoError(t, pool.Submit(fmt.Sprintf("task-%d", n), func(ctx context.Context) (any, error) {
				return n * n, nil
			}))
		}
	}()

	sum := 0
	count := 0
	for res := range pool.ResultsCh {
		assert.NoError(t, res.Err)
		sum += res.Result.(int)
		count++
	}

	assert.Equal(t, 20, count)
	assert.Equal(t, 2470, sum)
}

func TestWorkerPool_ReportsTaskErrors(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2, false, log.New())
	boom := errors.New("boom")

	go func() {
		defer pool.Close()
		_ = pool.Submit("ok", func(ctx context.Context) (any, error) { return "fine", nil })
		_ = pool.Submit("bad", func(ctx context.Context) (any, error) { return nil, boom })
	}()

	errs := map[string]error{}
	for res := range pool.ResultsCh {
		errs[res.ID] = res.Err
	}

	assert.NoError(t, errs["ok"])
	assert.ErrorIs(t, errs["bad"], boom)
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, false, log.New())
	pool.Close()
	pool.Close()

	err := pool.Submit("late", func(ctx context.Context) (any, error) { return nil, nil })
	assert.Error(t, err)

	for range pool.ResultsCh {
		t.Fatal("no results expected")
	}
}
