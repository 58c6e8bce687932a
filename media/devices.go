package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linguaroom/contract"
)

var (
	ErrPermissionDenied  = errors.New("permission denied by user")
	ErrDeviceUnavailable = errors.New("no capture device available")
)

// StubDevices stands in for the browser capture APIs. Acquisition either
// succeeds after an optional latency or fails the way a user denying the
// permission prompt would.
type StubDevices struct {
	DenyCamera  bool
	DenyDisplay bool
	Latency     time.Duration
	log         *slog.Logger
}

func NewStubDevices(log *slog.Logger) *StubDevices {
	return &StubDevices{log: log}
}

func (d *StubDevices) RequestUserMedia(ctx context.Context, video, audio bool) (*contract.MediaStream, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if d.DenyCamera {
		d.log.Debug("camera permission prompt denied")
		return nil, ErrPermissionDenied
	}
	if !video && !audio {
		return nil, ErrDeviceUnavailable
	}
	label := fmt.Sprintf("stub-camera (video=%t audio=%t)", video, audio)
	stream := contract.NewMediaStream(contract.MediaCamera, label, func() {
		d.log.Debug("camera stream stopped", "label", label)
	})
	return stream, nil
}

func (d *StubDevices) RequestDisplayMedia(ctx context.Context) (*contract.MediaStream, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if d.DenyDisplay {
		d.log.Debug("screen share prompt denied")
		return nil, ErrPermissionDenied
	}
	stream := contract.NewMediaStream(contract.MediaDisplay, "stub-display", func() {
		d.log.Debug("display stream stopped")
	})
	return stream, nil
}

// wait simulates the time the permission prompt stays on screen.
func (d *StubDevices) wait(ctx context.Context) error {
	if d.Latency <= 0 {
		return nil
	}
	timer := time.NewTimer(d.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
