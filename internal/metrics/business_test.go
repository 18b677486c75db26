package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOperationLine matches a metric line by name, a partial label pattern and value.
// The exporter adds otel scope labels, hence the loose match.
func assertOperationLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	assert.Regexp(t, name+`\{[^}]*`+labels+`[^}]*\} `+value, output)
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("biz_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "wallets", "wallet_unlock", "success")
	bm.RecordOperation(ctx, "wallets", "wallet_unlock", "error")
	bm.RecordOperation(ctx, "wallets", "wallet_unlock", "error")
	bm.RecordOperation(ctx, "media", "media_share", "success")
	bm.RecordDuration(ctx, "media", "media_share", 40*time.Millisecond, "success")
	bm.RecordDuration(ctx, "media", "media_share", 60*time.Millisecond, "success")

	output := scrape(t, provider)

	assertOperationLine(t, output, "biz_test_operations_total",
		`domain="wallets".*operation="wallet_unlock".*status="error"`, "2")
	assertOperationLine(t, output, "biz_test_operations_total",
		`domain="media".*operation="media_share".*status="success"`, "1")
	assertOperationLine(t, output, "biz_test_operation_duration_seconds_count",
		`domain="media".*operation="media_share".*status="success"`, "2")
	assertOperationLine(t, output, "biz_test_operation_duration_seconds_bucket",
		`domain="media".*le="0.05".*`, "1")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	m := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, m)

	m.RecordOperation(context.Background(), "wallets", "wallet_create", "success")
	m.RecordDuration(context.Background(), "media", "media_upload", time.Second, "error")
}
