package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		raw          string
		wantEndpoint string
		wantInsecure bool
	}{
		{"http://otel:4318", "otel:4318", true},
		{"https://collector.example.com", "collector.example.com", false},
		{"otel:4318", "otel:4318", true},
	}
	for _, tt := range tests {
		endpoint, insecure := normalizeEndpoint(tt.raw)
		assert.Equal(t, tt.wantEndpoint, endpoint, tt.raw)
		assert.Equal(t, tt.wantInsecure, insecure, tt.raw)
	}
}
