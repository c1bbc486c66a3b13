package cache

// orderNode is a node in a singly-linked insertion-order list.
type orderNode[K comparable] struct {
	key  K
	next *orderNode[K]
}

// orderList records keys in insertion order.
// The list is not thread-safe; callers must handle synchronization.
//
// The head is the oldest insertion, the tail the newest.
type orderList[K comparable] struct {
	head *orderNode[K]
	tail *orderNode[K]
}

// PushBack appends a key as the newest entry.
func (l *orderList[K]) PushBack(key K) {
	node := &orderNode[K]{key: key}
	if l.tail == nil {
		l.head = node
	} else {
		l.tail.next = node
	}
	l.tail = node
}

// PopFront removes and returns the oldest key.
// Returns zero value and false if the list is empty.
func (l *orderList[K]) PopFront() (K, bool) {
	node := l.head
	if node == nil {
		var zero K
		return zero, false
	}
	l.head = node.next
	if l.head == nil {
		l.tail = nil
	}
	return node.key, true
}

// Clear removes all nodes from the list.
func (l *orderList[K]) Clear() {
	l.head = nil
	l.tail = nil
}
