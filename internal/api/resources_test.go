package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeysCoverEveryFetchFilter(t *testing.T) {
	stores := NewStores(nil)

	// Every parameter a fetcher sends to the backend must show up in the
	// cache key, or two filters would share one entry.
	assert.Equal(t, "connections/pending/zone-1", stores.Connections.Key("pending", "zone-1").String())
	assert.Equal(t, "connections/all/all", stores.Connections.Key("", "").String())
	assert.Equal(t, "archive-requests/connection/pending", stores.Archives.Key("connection", "pending").String())
	assert.Equal(t, "archive-requests/all/all", stores.Archives.Key("", "").String())
	assert.Equal(t, "bills/2026-07/unpaid", stores.Billing.BillsKey("2026-07", "unpaid").String())
	assert.Equal(t, "payments/2026-07", stores.Billing.PaymentsKey("2026-07").String())
}
