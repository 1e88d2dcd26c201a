package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//nolint:paralleltest
func TestConfigure_LogFile(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Configure(context.Background(), LoggerConfig{Output: "discard"}, ""))
	})

	path := filepath.Join(t.TempDir(), "registration.log")

	require.NoError(t, Configure(context.Background(), LoggerConfig{Output: path, Level: "info"}, "test"))

	GetLogger("test.logging").Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "written to file")
	require.Contains(t, string(data), "app=test")
}

//nolint:paralleltest
func TestConfigure_UnopenableLogFile(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Configure(context.Background(), LoggerConfig{Output: "discard"}, ""))
	})

	require.NoError(t, Configure(context.Background(), LoggerConfig{Output: "discard"}, "before"))

	err := Configure(context.Background(), LoggerConfig{
		Output: filepath.Join(t.TempDir(), "missing", "dir", "registration.log"),
	}, "after")
	require.Error(t, err)

	require.Equal(t, "before", config.AppName)
}
