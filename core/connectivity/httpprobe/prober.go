// Package httpprobe implements a network status source that infers
// connectivity from periodic HTTP reachability checks against a well-known
// endpoint.
package httpprobe

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultInterval = 5 * time.Second
	defaultTimeout  = 3 * time.Second
)

// Prober polls one URL and reports reachability edges to a callback. Level
// repeats are suppressed; the callback only sees transitions.
type Prober struct {
	url      string
	interval time.Duration
	client   *http.Client

	startOnce sync.Once
	started   atomic.Bool
	endOnce   sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

type Option func(*Prober)

// WithInterval sets the time between probes.
func WithInterval(interval time.Duration) Option {
	return func(p *Prober) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithTimeout bounds a single probe request.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.client.Timeout = timeout
		}
	}
}

func NewProber(url string, opts ...Option) *Prober {
	prober := &Prober{
		url:      url,
		interval: defaultInterval,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(prober)
	}

	return prober
}

// Watch starts probing and reports connectivity edges to onChange until ctx
// is done or Close is called. The first probe result is always reported so
// the consumer starts from an observed state rather than an assumed one.
// It is safe to call more than once; only the first call starts anything.
func (p *Prober) Watch(ctx context.Context, onChange func(connected bool)) {
	if p == nil || onChange == nil {
		return
	}

	p.startOnce.Do(func() {
		p.started.Store(true)
		go func() {
			defer close(p.done)

			ticker := time.NewTicker(p.interval)
			defer ticker.Stop()

			reported := false
			connected := false
			for {
				observed := p.probe(ctx)
				if !reported || observed != connected {
					reported = true
					connected = observed
					onChange(connected)
				}

				select {
				case <-ctx.Done():
					return
				case <-p.closeCh:
					return
				case <-ticker.C:
				}
			}
		}()
	})
}

func (p *Prober) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}

// Close stops the probe loop and waits for it to exit.
func (p *Prober) Close() error {
	if p == nil {
		return nil
	}

	p.endOnce.Do(func() { close(p.closeCh) })
	if !p.started.Load() {
		return nil
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(p.client.Timeout + p.interval):
		return fmt.Errorf("timed out waiting for probe loop to stop")
	}
}
