package melody

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketizeMajorityVote(t *testing.T) {
	b := NewBucketizer(nil)

	// 1 second at factor 4: chunk [1,0,1,0] means exactly 0.5, not a strict
	// majority; the trailing [1] is all errors.
	got := b.Bucketize([]int{1, 0, 1, 0, 1}, 1.0)
	assert.Equal(t, []int{0, 1}, got)
}

func TestBucketizeZeroDuration(t *testing.T) {
	b := NewBucketizer(nil)

	assert.Empty(t, b.Bucketize([]int{1, 1, 1}, 0))
}

func TestBucketizeEmptyFlags(t *testing.T) {
	b := NewBucketizer(nil)

	assert.Empty(t, b.Bucketize(nil, 2.0))
}

func TestBucketizeAllClean(t *testing.T) {
	b := NewBucketizer(nil)

	got := b.Bucketize([]int{0, 0, 0, 0, 0, 0, 0, 0}, 1.0)
	assert.Equal(t, []int{0, 0}, got)
}
