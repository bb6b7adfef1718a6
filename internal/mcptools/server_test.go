//go:build cgo

package mcptools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCodeIntelMCPServer(t *testing.T) {
	svc := newTestService(t)
	server := NewCodeIntelMCPServer(svc)
	require.NotNil(t, server, "server should be constructed with all tools registered")
}
