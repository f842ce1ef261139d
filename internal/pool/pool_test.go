package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taskana/TaskanaTestDataGenerator/internal/pool"
)

func TestTakeIsFIFO(t *testing.T) {
	p := pool.New(1, 2, 3, 4, 5)

	assert.Equal(t, []int{1, 2}, p.Take(2))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []int{3, 4, 5}, p.Take(3))
	assert.True(t, p.IsEmpty())
}

func TestTakeMoreThanAvailable(t *testing.T) {
	p := pool.New("a", "b")

	taken := p.Take(5)
	require.Len(t, taken, 2)
	assert.Equal(t, []string{"a", "b"}, taken)
	assert.True(t, p.IsEmpty())
	assert.Nil(t, p.Take(1))
}

func TestTakeDoesNotAliasPool(t *testing.T) {
	p := pool.New(1, 2, 3)
	taken := p.Take(1)
	taken = append(taken, 99)

	assert.Equal(t, []int{2, 3}, p.Remaining())
	assert.Equal(t, []int{1, 99}, taken)
}

func TestNilPool(t *testing.T) {
	var p *pool.Pool[int]

	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Take(3))
}

func TestAdd(t *testing.T) {
	p := pool.New[int]()
	p.Add(7)
	p.Add(8)

	assert.Equal(t, []int{7}, p.Take(1))
	assert.Equal(t, 1, p.Len())
}

func TestPeek(t *testing.T) {
	p := pool.New(1, 2, 3)

	assert.Equal(t, []int{1, 2}, p.Peek(2))
	assert.Equal(t, []int{1, 2, 3}, p.Peek(10))
	assert.Equal(t, 3, p.Len())
	assert.Nil(t, p.Peek(0))

	peeked := p.Peek(1)
	peeked[0] = 99
	assert.Equal(t, []int{1}, p.Take(1))

	var empty *pool.Pool[int]
	assert.Nil(t, empty.Peek(2))
}
