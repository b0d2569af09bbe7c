package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestFileOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.Format = "text"
	cfg.FilePath = filepath.Join(t.TempDir(), "nested", "smile.log")

	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("calibrated", "ticker", "SPX")
	l.Debug("hidden")

	data, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	require.Contains(t, string(data), "ticker=SPX")
	require.NotContains(t, string(data), "hidden")
}

func TestInit(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	require.NoError(t, Init(DefaultConfig()))
	require.Same(t, L(), slog.Default())
}
