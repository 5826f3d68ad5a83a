// Package observe provides explicit observer registries: a Value that caches
// its latest state for late subscribers, and a Signal that broadcasts
// payload-free notifications.
//
// Registries are not synchronized; use them from a single dispatch context.
package observe

// Token identifies a subscription.
type Token uint64

type registry[T any] struct {
	next     Token
	handlers map[Token]func(T)
	order    []Token
}

func (r *registry[T]) add(fn func(T)) Token {
	if r.handlers == nil {
		r.handlers = make(map[Token]func(T))
	}
	r.next++
	r.handlers[r.next] = fn
	r.order = append(r.order, r.next)

	return r.next
}

func (r *registry[T]) remove(tok Token) bool {
	if _, ok := r.handlers[tok]; !ok {
		return false
	}
	delete(r.handlers, tok)
	for i, t := range r.order {
		if t == tok {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return true
}

// notify calls handlers in subscription order. Handlers removed during the
// walk are skipped; handlers added during it wait for the next one.
func (r *registry[T]) notify(v T) {
	snapshot := append([]Token(nil), r.order...)
	for _, tok := range snapshot {
		if fn, ok := r.handlers[tok]; ok {
			fn(v)
		}
	}
}

func (r *registry[T]) len() int {
	return len(r.order)
}

// Value holds the latest published T and notifies subscribers on change.
type Value[T any] struct {
	latest T
	set    bool
	subs   registry[T]
}

// Set stores v and notifies every subscriber.
func (v *Value[T]) Set(val T) {
	v.latest = val
	v.set = true
	v.subs.notify(val)
}

// Latest returns the most recently set value and whether one was set.
func (v *Value[T]) Latest() (T, bool) {
	return v.latest, v.set
}

// Subscribe registers fn for future changes.
func (v *Value[T]) Subscribe(fn func(T)) Token {
	return v.subs.add(fn)
}

// Unsubscribe removes a subscription and reports whether it existed.
func (v *Value[T]) Unsubscribe(tok Token) bool {
	return v.subs.remove(tok)
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	return v.subs.len()
}

// Signal broadcasts a notification to every subscriber.
type Signal struct {
	subs registry[struct{}]
}

// Subscribe registers fn for every Emit.
func (s *Signal) Subscribe(fn func()) Token {
	return s.subs.add(func(struct{}) { fn() })
}

// Unsubscribe removes a subscription and reports whether it existed.
func (s *Signal) Unsubscribe(tok Token) bool {
	return s.subs.remove(tok)
}

// Emit notifies every subscriber.
func (s *Signal) Emit() {
	s.subs.notify(struct{}{})
}

// Subscribers returns the number of live subscriptions.
func (s *Signal) Subscribers() int {
	return s.subs.len()
}
