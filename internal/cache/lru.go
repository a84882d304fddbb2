package cache

// node is an element of the recency list. The most recently used node sits
// right after the sentinel.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// list is a circular doubly linked list with a sentinel root.
type list[K comparable, V any] struct {
	root node[K, V]
	len  int
}

func (l *list[K, V]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

func (l *list[K, V]) pushFront(n *node[K, V]) {
	n.prev = &l.root
	n.next = l.root.next
	l.root.next.prev = n
	l.root.next = n
	l.len++
}

func (l *list[K, V]) remove(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	l.len--
}

func (l *list[K, V]) moveToFront(n *node[K, V]) {
	if l.root.next == n {
		return
	}
	l.remove(n)
	l.pushFront(n)
}

// back returns the least recently used node, or nil when empty.
func (l *list[K, V]) back() *node[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}
