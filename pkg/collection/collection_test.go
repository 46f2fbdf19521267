package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/vastra/pkg/collection"
)

type row struct {
	Group string
	N     int64
}

func TestMapFilter(t *testing.T) {
	in := []int{1, 2, 3, 4}

	doubled := collection.Map(in, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6, 8}, doubled)

	even := collection.Filter(in, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
}

func TestGroupByKeepsInsertionOrderWithinGroups(t *testing.T) {
	rows := []row{{"a", 1}, {"b", 2}, {"a", 3}}

	grouped := collection.GroupBy(rows, func(r row) string { return r.Group })
	assert.Len(t, grouped, 2)
	assert.Equal(t, []row{{"a", 1}, {"a", 3}}, grouped["a"])
	assert.Equal(t, []row{{"b", 2}}, grouped["b"])
}

func TestSortBy(t *testing.T) {
	rows := []row{{"a", 3}, {"b", 1}, {"c", 2}}

	collection.SortBy(rows, func(x, y row) bool { return x.N < y.N })
	assert.Equal(t, int64(1), rows[0].N)
	assert.Equal(t, int64(3), rows[2].N)
}

func TestSumInt(t *testing.T) {
	rows := []row{{"a", 100}, {"b", 250}}
	assert.Equal(t, int64(350), collection.SumInt(rows, func(r row) int64 { return r.N }))
	assert.Equal(t, int64(0), collection.SumInt(nil, func(r row) int64 { return r.N }))
}

func TestUniqueAndKeyBy(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, collection.Unique([]int{1, 2, 1, 3, 2}))

	rows := []row{{"a", 1}, {"b", 2}, {"a", 3}}
	keyed := collection.KeyBy(rows, func(r row) string { return r.Group })
	// Last one wins on duplicate keys.
	assert.Equal(t, int64(3), keyed["a"].N)
}

func TestFirstContains(t *testing.T) {
	rows := []row{{"a", 1}, {"b", 2}}

	got, ok := collection.First(rows, func(r row) bool { return r.N > 1 })
	assert.True(t, ok)
	assert.Equal(t, "b", got.Group)

	_, ok = collection.First(rows, func(r row) bool { return r.N > 5 })
	assert.False(t, ok)

	assert.True(t, collection.Contains(rows, func(r row) bool { return r.Group == "a" }))
}

func TestReducePluck(t *testing.T) {
	rows := []row{{"a", 2}, {"b", 3}}

	product := collection.Reduce(rows, int64(1), func(acc int64, r row) int64 { return acc * r.N })
	assert.Equal(t, int64(6), product)

	groups := collection.Pluck(rows, func(r row) string { return r.Group })
	assert.Equal(t, []string{"a", "b"}, groups)
}
