package upstream

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces out calls per host so a burst of banner requests does
// not hammer the data provider.
type RateLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	hosts    map[string]*hostQueue
}

type hostQueue struct {
	pending chan *limitedCall
	ticker  *time.Ticker
	done    chan struct{}
}

type limitedCall struct {
	ctx    context.Context
	fn     func() (any, error)
	result chan callResult
}

type callResult struct {
	value any
	err   error
}

func NewRateLimiter(rps int) *RateLimiter {
	if rps <= 0 {
		rps = 5
	}
	return &RateLimiter{
		interval: time.Second / time.Duration(rps),
		hosts:    make(map[string]*hostQueue),
	}
}

// Do queues fn for host and waits for its turn or context cancellation.
func (rl *RateLimiter) Do(ctx context.Context, host string, fn func() (any, error)) (any, error) {
	hq := rl.queueFor(host)

	call := &limitedCall{
		ctx:    ctx,
		fn:     fn,
		result: make(chan callResult, 1),
	}

	select {
	case hq.pending <- call:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-call.result:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (rl *RateLimiter) queueFor(host string) *hostQueue {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if hq, ok := rl.hosts[host]; ok {
		return hq
	}

	hq := &hostQueue{
		pending: make(chan *limitedCall, 64),
		ticker:  time.NewTicker(rl.interval),
		done:    make(chan struct{}),
	}
	rl.hosts[host] = hq
	go rl.drain(hq)
	return hq
}

func (rl *RateLimiter) drain(hq *hostQueue) {
	for {
		select {
		case <-hq.ticker.C:
			select {
			case call := <-hq.pending:
				if call.ctx.Err() != nil {
					call.result <- callResult{err: call.ctx.Err()}
					continue
				}
				value, err := call.fn()
				call.result <- callResult{value: value, err: err}
			default:
			}
		case <-hq.done:
			hq.ticker.Stop()
			return
		}
	}
}

// Close stops all host workers.
func (rl *RateLimiter) Close() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for _, hq := range rl.hosts {
		close(hq.done)
	}
	rl.hosts = make(map[string]*hostQueue)
}
