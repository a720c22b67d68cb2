// internal/desk/notifier.go
package desk

import "sync"

// FanoutNotifier is a LayoutNotifier that delivers Notify calls to every
// registered subscriber. It stands in for the browser mutation observer:
// whatever watches the console layout calls Notify, subscribers re-check.
type FanoutNotifier struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func()
}

// NewFanoutNotifier creates an empty notifier.
func NewFanoutNotifier() *FanoutNotifier {
	return &FanoutNotifier{subscribers: make(map[int]func())}
}

// OnLayoutChange registers fn and returns its unsubscribe function.
func (n *FanoutNotifier) OnLayoutChange(fn func()) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

// Notify invokes every subscriber.
func (n *FanoutNotifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
