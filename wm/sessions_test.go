package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIgnoreSetDropsMatchingSequence(t *testing.T) {
	is := newIgnoreSet()
	is.Add(100)

	assert.True(t, is.Consume(100))
	// A second event with the same sequence number should not match -
	// the entry was consumed.
	assert.False(t, is.Consume(100))
}

func TestIgnoreSetPassesUnrelatedSequence(t *testing.T) {
	is := newIgnoreSet()
	is.Add(50)

	assert.False(t, is.Consume(200))
}

func TestIgnoreSetDropsStaleEntriesInOrder(t *testing.T) {
	is := newIgnoreSet()
	is.Add(10)
	is.Add(20)
	is.Add(30)

	// Consuming 25 should pop the stale 10 and 20, then fail to match
	// (30 remains on the heap, newer than 25).
	assert.False(t, is.Consume(25))
	assert.Equal(t, 1, is.h.Len())
	assert.True(t, is.Consume(30))
}

func TestIgnoreSetWrapsAroundSequenceSpace(t *testing.T) {
	is := newIgnoreSet()
	is.Add(65530)

	assert.True(t, is.Consume(65530))

	// A sequence number near the top of the 16-bit range should still
	// be considered "older" than one that has wrapped back to a small
	// value, not newer: consuming 2 pops 65534 as stale.
	is.Add(65534)
	assert.False(t, is.Consume(2))
	assert.Equal(t, 0, is.h.Len())
}

func TestIgnoreSetEmptyConsumesFalse(t *testing.T) {
	is := newIgnoreSet()
	assert.False(t, is.Consume(1))
}
