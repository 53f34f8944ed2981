package task

import (
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRunnerRunsSubmittedTasks(t *testing.T) {
	r := NewRunner(4)

	var ran int64
	for i := 0; i < 20; i++ {
		r.Submit(func() error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}

	r.Shutdown()
	assert.Equal(t, int64(20), atomic.LoadInt64(&ran))
}

func TestRunnerSurvivesFailingTasks(t *testing.T) {
	r := NewRunner(2)

	var ran int64
	r.Submit(func() error {
		return errors.New("boom")
	})
	r.Submit(func() error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	r.Shutdown()
	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestRunnerSubmitAfterShutdownIsDropped(t *testing.T) {
	r := NewRunner(1)
	r.Shutdown()

	assert.NotPanics(t, func() {
		r.Submit(func() error { return nil })
	})
}
