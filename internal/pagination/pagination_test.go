package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, PageSize: DefaultPageSize}},
		{"explicit", Params{Page: 3, PageSize: 10}, Params{Page: 3, PageSize: 10}},
		{"oversized page", Params{Page: 1, PageSize: 500}, Params{Page: 1, PageSize: MaxPageSize}},
		{"negative page", Params{Page: -2, PageSize: 5}, Params{Page: 1, PageSize: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestNewPage(t *testing.T) {
	p := Params{Page: 2, PageSize: 10}

	page := NewPage[int](nil, p, 21)

	assert.Equal(t, []int{}, page.Items)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, int64(21), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage([]string{}, Params{}.Normalize(), 0)
	assert.Equal(t, 0, page.TotalPages)
}
