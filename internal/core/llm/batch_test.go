package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInBatchesSmallListSingleCall(t *testing.T) {
	calls := 0
	out := ProcessInBatches([]int{1, 2, 3}, 10, func(batch []int) ([]int, error) {
		calls++
		return batch, nil
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestProcessInBatchesSplits(t *testing.T) {
	items := make([]int, 120)
	for i := range items {
		items[i] = i
	}
	var sizes []int
	out := ProcessInBatches(items, 50, func(batch []int) ([]int, error) {
		sizes = append(sizes, len(batch))
		return batch, nil
	})
	assert.Equal(t, []int{50, 50, 20}, sizes)
	assert.Equal(t, items, out)
}

func TestProcessInBatchesKeepsOriginalsOnError(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	out := ProcessInBatches(items, 50, func(batch []int) ([]int, error) {
		if batch[0] == 50 {
			return nil, fmt.Errorf("boom")
		}
		doubled := make([]int, len(batch))
		for i, v := range batch {
			doubled[i] = v * 2
		}
		return doubled, nil
	})
	require.Len(t, out, 100)
	assert.Equal(t, 0, out[0])
	assert.Equal(t, 98, out[49])
	// Failed chunk kept as-is.
	assert.Equal(t, 50, out[50])
}

func TestProcessInBatchesEmpty(t *testing.T) {
	out := ProcessInBatches(nil, 50, func(batch []int) ([]int, error) {
		t.Fatal("processor should not run")
		return nil, nil
	})
	assert.Nil(t, out)
}

func TestShouldSplitBatch(t *testing.T) {
	small := []map[string]string{{"a": "b"}}
	assert.False(t, ShouldSplitBatch(small, 2000))

	big := make([]map[string]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		big = append(big, map[string]string{"Aliment": "un aliment avec un nom assez long"})
	}
	assert.True(t, ShouldSplitBatch(big, 2000))
}
