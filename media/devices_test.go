package media

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"linguaroom/contract"
)

func TestRequestUserMedia(t *testing.T) {
	req := require.New(t)
	devices := NewStubDevices(logs.GetLoggerFromLevel(slog.LevelDebug))

	stream, err := devices.RequestUserMedia(context.Background(), true, true)
	req.NoError(err)
	req.Equal(contract.MediaCamera, stream.Kind)
	stream.Stop()
}

func TestRequestUserMedia_Denied(t *testing.T) {
	req := require.New(t)
	devices := NewStubDevices(logs.GetLoggerFromLevel(slog.LevelDebug))
	devices.DenyCamera = true

	stream, err := devices.RequestUserMedia(context.Background(), true, true)
	req.ErrorIs(err, ErrPermissionDenied)
	req.Nil(stream)
}

func TestRequestUserMedia_NoTracksRequested(t *testing.T) {
	req := require.New(t)
	devices := NewStubDevices(logs.GetLoggerFromLevel(slog.LevelDebug))

	_, err := devices.RequestUserMedia(context.Background(), false, false)
	req.ErrorIs(err, ErrDeviceUnavailable)
}

func TestRequestDisplayMedia(t *testing.T) {
	req := require.New(t)
	devices := NewStubDevices(logs.GetLoggerFromLevel(slog.LevelDebug))

	stream, err := devices.RequestDisplayMedia(context.Background())
	req.NoError(err)
	req.Equal(contract.MediaDisplay, stream.Kind)

	devices.DenyDisplay = true
	_, err = devices.RequestDisplayMedia(context.Background())
	req.ErrorIs(err, ErrPermissionDenied)
}

func TestLatencyHonoursContext(t *testing.T) {
	req := require.New(t)
	devices := NewStubDevices(logs.GetLoggerFromLevel(slog.LevelDebug))
	devices.Latency = 1 * time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := devices.RequestUserMedia(ctx, true, true)
	req.ErrorIs(err, context.Canceled)
}
