package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Normalizes(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage int
		want          Params
	}{
		{"defaults", 0, 0, Params{Page: 1, PerPage: 20, Offset: 0}},
		{"third page", 3, 10, Params{Page: 3, PerPage: 10, Offset: 20}},
		{"capped", 2, 500, Params{Page: 2, PerPage: 100, Offset: 100}},
		{"negative", -4, -1, Params{Page: 1, PerPage: 20, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.page, tt.perPage))
		})
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sellers?page=2&per_page=5", nil)
	assert.Equal(t, Params{Page: 2, PerPage: 5, Offset: 5}, FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sellers?page=abc", nil)
	assert.Equal(t, DefaultParams(), FromRequest(req))
}

func TestNewResult(t *testing.T) {
	res := NewResult([]string{"a", "b"}, 5, New(2, 2))

	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_EmptyData(t *testing.T) {
	res := NewResult[string](nil, 0, DefaultParams())

	assert.NotNil(t, res.Data)
	assert.Equal(t, 0, res.TotalPages)
	assert.False(t, res.HasNext)
	assert.False(t, res.HasPrev)
}
