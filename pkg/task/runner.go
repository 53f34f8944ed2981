package task

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Runner is a shared pool of workers for the asynchronous side-effect
// tasks spawned by connection lifecycles: contact notification, mailbox
// drain and mailbox spooling. Tasks fail independently; a failed task is
// logged and never retried.
type Runner struct {
	tasks    chan func() error
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewRunner starts a Runner with the given number of workers.
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = 16
	}

	r := &Runner{
		tasks: make(chan func() error, 256),
	}

	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}

	return r
}

// Submit dispatches a task to the pool. It blocks only when the task
// buffer is full.
func (r *Runner) Submit(fn func() error) {
	defer func() {
		// A submit racing Shutdown must not take the caller down.
		if recover() != nil {
			log.Warn("task: submit after shutdown dropped")
		}
	}()

	r.tasks <- fn
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
func (r *Runner) Shutdown() {
	r.stopOnce.Do(func() {
		close(r.tasks)
	})
	r.wg.Wait()
}

func (r *Runner) worker() {
	defer r.wg.Done()

	for fn := range r.tasks {
		if err := fn(); err != nil {
			log.Errorf("task: failed: %v", err)
		}
	}
}
