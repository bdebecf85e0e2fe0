package worker

import (
	"sync"
	"time"

	"github.com/chad-area/area/logger"
	"go.uber.org/zap"
)

// PollWorker runs fn immediately at start, then re-runs it on a fixed
// interval. The next run is only scheduled once the current one has fully
// completed, so a slow cycle can never overlap itself.
type PollWorker struct {
	name     string
	interval time.Duration
	stop     chan struct{}
	wg       *sync.WaitGroup
	fn       func()
}

func NewPollWorker(name string, interval time.Duration, fn func(), wg *sync.WaitGroup) *PollWorker {
	return &PollWorker{
		name:     name,
		interval: interval,
		stop:     make(chan struct{}),
		wg:       wg,
		fn:       fn,
	}
}

func (pw *PollWorker) Start() {
	pw.wg.Add(1)
	go func() {
		defer pw.wg.Done()
		pw.fn()
		for {
			select {
			case <-time.After(pw.interval):
				pw.fn()
			case <-pw.stop:
				logger.Info("stopping poll worker", zap.String("worker", pw.name))
				return
			}
		}
	}()
	logger.Info("poll worker started", zap.String("worker", pw.name), zap.Duration("interval", pw.interval))
}

func (pw *PollWorker) Stop() {
	close(pw.stop)
}
