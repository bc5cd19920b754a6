package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/flow/errors"
)

// collectRange returns all btree items within [start, end) in the
// requested order. A nil start or end leaves that side unbounded.
func collectRange(bt *btree.BTree, start, end []byte, ascending bool) []*entry {
	var items []*entry
	collect := func(i btree.Item) bool {
		items = append(items, i.(*entry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(&entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(&entry{key: start}, collect)
	default:
		bt.AscendRange(&entry{key: start}, &entry{key: end}, collect)
	}

	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergedIterator combines the cached btree items with the iterator of the
// backing store. Cached values shadow the parent ones, cached deletes hide
// them.
type mergedIterator struct {
	items     []*entry
	idx       int
	parent    Iterator
	ascending bool

	// peeked parent entry, not yet returned
	pkey, pvalue []byte
	peeked       bool
	parentDone   bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []*entry, parent Iterator, ascending bool) *mergedIterator {
	return &mergedIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
}

// Next returns the next entry, or ErrIteratorDone once both sources are
// exhausted.
func (m *mergedIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}

		hasOwn := m.idx < len(m.items)
		if !hasOwn && !m.peeked {
			return nil, nil, errors.ErrIteratorDone
		}

		if !hasOwn {
			return m.popParent()
		}

		item := m.items[m.idx]
		if m.peeked {
			cmp := bytes.Compare(item.key, m.pkey)
			if !m.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				return m.popParent()
			}
			if cmp == 0 {
				// Cached entry shadows the parent one.
				m.peeked = false
			}
		}

		m.idx++
		if item.deleted {
			continue
		}
		return item.key, item.value, nil
	}
}

func (m *mergedIterator) peekParent() error {
	if m.peeked || m.parentDone {
		return nil
	}
	key, value, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.parentDone = true
			return nil
		}
		return err
	}
	m.pkey, m.pvalue, m.peeked = key, value, true
	return nil
}

func (m *mergedIterator) popParent() ([]byte, []byte, error) {
	m.peeked = false
	return m.pkey, m.pvalue, nil
}

// Release releases the parent iterator and drops the cached items.
func (m *mergedIterator) Release() {
	m.parent.Release()
	m.items = nil
}
