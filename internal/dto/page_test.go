package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 20}, Pagination{}.Normalize(20, 100))
	assert.Equal(t, Pagination{Page: 3, Limit: 100}, Pagination{Page: 3, Limit: 500}.Normalize(20, 100))
	assert.Equal(t, Pagination{Page: 1, Limit: 7}, Pagination{Page: -2, Limit: 7}.Normalize(20, 100))
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 41, Pagination{Page: 1, Limit: 20})
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(41), page.Total)
	assert.Len(t, page.Data, 2)

	empty := NewPage[string](nil, 0, Pagination{Page: 1, Limit: 20})
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
}
