package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      OffsetRequest
		wantPage int
		wantSize int
	}{
		{name: "defaults", req: OffsetRequest{}, wantPage: 1, wantSize: PageDefaultSize},
		{name: "clamped", req: OffsetRequest{Page: 3, Size: 500}, wantPage: 3, wantSize: PageMaxSize},
		{name: "kept", req: OffsetRequest{Page: 2, Size: 10}, wantPage: 2, wantSize: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req

			require.NoError(t, req.Validate())

			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantSize, req.Size)
		})
	}
}

func TestOffsetRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, OffsetRequest{Page: 1, Size: 20}.Offset())
	assert.Equal(t, 40, OffsetRequest{Page: 3, Size: 20}.Offset())
}

func TestOffsetRequest_Validate_RejectsNegative(t *testing.T) {
	req := OffsetRequest{Page: -1}

	assert.ErrorIs(t, req.Validate(), ErrNegativePage)
}

func TestNewOffsetResult(t *testing.T) {
	first := NewOffsetResult([]int{1, 2}, 5, OffsetRequest{Page: 1, Size: 2})
	assert.Equal(t, 3, first.Pages)
	assert.True(t, first.HasMore)

	last := NewOffsetResult([]int{5}, 5, OffsetRequest{Page: 3, Size: 2})
	assert.False(t, last.HasMore)

	empty := NewOffsetResult[int](nil, 0, OffsetRequest{Page: 1, Size: 20})
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.Pages)
}
