// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
)

type feedEvent struct {
	feed  *event.Feed
	value any
}

// publisher delivers feed events in order from its own goroutine, so a slow
// subscriber never holds up state transitions.
type publisher struct {
	mu    sync.Mutex
	queue []feedEvent
	wake  chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

func newPublisher() *publisher {
	p := &publisher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *publisher) send(feed *event.Feed, value any) {
	p.mu.Lock()
	p.queue = append(p.queue, feedEvent{feed, value})
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *publisher) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}
		p.mu.Lock()
		events := p.queue
		p.queue = nil
		p.mu.Unlock()

		for _, ev := range events {
			ev.feed.Send(ev.value)
		}
	}
}

// close stops delivery. Subscriptions must be closed first so a pending Send returns.
func (p *publisher) close() {
	p.once.Do(func() { close(p.done) })
	p.wg.Wait()
}
