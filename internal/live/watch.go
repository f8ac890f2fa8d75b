package live

import (
	"context"
	"sync"
)

// Snapshot is one delivery of a projection. Err is set when the reload
// failed; the projection keeps running and retries on the next change.
type Snapshot[T any] struct {
	Value   T
	Err     error
	Version uint64
}

// Projection is a running standing query.
type Projection[T any] struct {
	C <-chan Snapshot[T]

	sub  *Subscription
	stop context.CancelFunc
	done chan struct{}
	once sync.Once
}

// Watch runs load once immediately and again after every change touching
// tables, delivering each result on the returned projection's channel. The
// channel is closed after Close or when ctx ends.
func Watch[T any](ctx context.Context, hub *Hub, load func(context.Context) (T, error), tables ...string) *Projection[T] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Snapshot[T])
	p := &Projection[T]{
		C:    out,
		sub:  hub.Subscribe(tables...),
		stop: cancel,
		done: make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		defer close(out)
		defer p.sub.Close()

		var version uint64
		for {
			version++
			v, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Snapshot[T]{Value: v, Err: err, Version: version}:
			case <-ctx.Done():
				return
			}

			select {
			case <-p.sub.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}

// Close stops the projection and waits for its goroutine to exit.
func (p *Projection[T]) Close() {
	p.once.Do(func() {
		p.stop()
		<-p.done
	})
}
