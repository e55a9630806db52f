package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"homebase/internal/config"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TelemetryConfig{Enabled: false}, nil, Options{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(),
		config.TelemetryConfig{Enabled: true, ServiceName: "hb-test"}, nil, Options{Writer: &buf})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "unit-span")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "unit-span")
	assert.Contains(t, buf.String(), "hb-test")
}
