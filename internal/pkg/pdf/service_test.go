package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/order"
)

func TestReceiptHTML(t *testing.T) {
	s := NewService(CompanyInfo{Name: "Fireplay", Email: "support@fireplay.example"})
	s.now = func() time.Time { return time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC) }

	o := order.New("u1", []cart.Entry{
		{ID: 1, Name: "Portal 2", Price: 45},
		{ID: 2, Name: "Hades & Friends", Price: 72},
	}, time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC))
	o.ID = "abc"

	html, err := s.ReceiptHTML(o, "ana@example.com")
	require.NoError(t, err)

	assert.Contains(t, html, "RCPT-abc")
	assert.Contains(t, html, "June 2, 2024")
	assert.Contains(t, html, "June 1, 2024 18:30 UTC")
	assert.Contains(t, html, "ana@example.com")
	assert.Contains(t, html, "Portal 2")
	assert.Contains(t, html, "Hades &amp; Friends")
	assert.Contains(t, html, "$117")
	assert.Contains(t, html, "support@fireplay.example")
}
