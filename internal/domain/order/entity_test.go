package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
)

func TestNewComputesTotal(t *testing.T) {
	items := []cart.Entry{{ID: 1, Name: "A", Price: 45}, {ID: 2, Name: "B", Price: 72}}
	o := New("user-1", items, time.Now())

	assert.Equal(t, 117, o.Total)
	assert.Equal(t, []int{1, 2}, o.ItemIDs())
	require.NoError(t, o.Validate())

	// the order keeps its own copy of the entries
	items[0].Price = 10
	assert.Equal(t, 45, o.Items[0].Price)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, New("user-1", nil, time.Now()).Validate(), ErrEmpty)
	assert.Error(t, New("", []cart.Entry{{ID: 1, Price: 30}}, time.Now()).Validate())

	o := New("user-1", []cart.Entry{{ID: 1, Price: 30}}, time.Now())
	o.Total = 31
	assert.ErrorIs(t, o.Validate(), ErrTotalMismatch)
}
