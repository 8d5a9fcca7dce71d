package builtin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"
)

const (
	PermissionCamera    = "camera"
	PermissionBluetooth = "bluetooth"
)

const levelStep = 10

type DeviceState struct {
	Flashlight bool   `json:"flashlight"`
	Volume     int64  `json:"volume"`
	Brightness int64  `json:"brightness"`
	Wifi       bool   `json:"wifi"`
	Bluetooth  bool   `json:"bluetooth"`
	CameraMode string `json:"cameraMode"`
}

// Device is a simulated phone: handlers flip state here instead of calling
// into an OS.
type Device struct {
	mu          sync.Mutex
	state       DeviceState
	permissions map[string]bool
}

func NewDevice() *Device {
	return &Device{
		state: DeviceState{
			Volume:     50,
			Brightness: 50,
			Wifi:       true,
		},
		permissions: map[string]bool{
			PermissionCamera:    true,
			PermissionBluetooth: true,
		},
	}
}

// SetPermission grants or revokes a permission. Revoked permissions make the
// matching handlers fail with PermissionDenied.
func (d *Device) SetPermission(name string, granted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.permissions[name] = granted
}

func (d *Device) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Device) require(permission string) error {
	if !d.permissions[permission] {
		return capability.PermissionDenied(permission + " access is not granted")
	}
	return nil
}

func switchState(current bool, state string) (bool, bool) {
	switch strings.ToLower(state) {
	case "on":
		return true, true
	case "off":
		return false, true
	case "toggle":
		return !current, true
	}
	return current, false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func clampLevel(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (d *Device) Flashlight(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	state, err := capability.String(p, "state")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(PermissionCamera); err != nil {
		return entity.ExecutionResult{}, err
	}
	next, ok := switchState(d.state.Flashlight, state)
	if !ok {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Invalid flashlight state: %s", state)
	}
	d.state.Flashlight = next

	return entity.ExecutionResult{
		Success: true,
		Message: "Flashlight turned " + onOff(next),
		Data:    param.Params{"on": param.Bool(next)},
	}, nil
}

func (d *Device) Camera(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	action, err := capability.String(p, "action")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(PermissionCamera); err != nil {
		return entity.ExecutionResult{}, err
	}

	var message string
	switch strings.ToLower(action) {
	case "open":
		message = "Opening camera"
	case "photo":
		message = "Opening camera for a photo"
	case "video":
		message = "Opening camera in video mode"
	default:
		return entity.ExecutionResult{}, capability.ExecutionFailed("Invalid camera action: %s", action)
	}
	d.state.CameraMode = strings.ToLower(action)

	return entity.ExecutionResult{
		Success: true,
		Message: message,
		Data:    param.Params{"mode": param.String(d.state.CameraMode)},
	}, nil
}

func adjustLevel(noun string, current *int64, p param.Params) (entity.ExecutionResult, error) {
	if change, ok := capability.OptionalString(p, "change"); ok {
		switch strings.ToLower(change) {
		case "up":
			*current = clampLevel(*current + levelStep)
		case "down":
			*current = clampLevel(*current - levelStep)
		default:
			return entity.ExecutionResult{}, capability.ExecutionFailed("Invalid %s change: %s", strings.ToLower(noun), change)
		}
		return entity.ExecutionResult{
			Success: true,
			Message: fmt.Sprintf("%s turned %s to %d%%", noun, strings.ToLower(change), *current),
			Data:    param.Params{"level": param.Int(*current)},
		}, nil
	}

	if level, ok := capability.OptionalInt(p, "level"); ok {
		*current = clampLevel(level)
		return entity.ExecutionResult{
			Success: true,
			Message: fmt.Sprintf("%s set to %d%%", noun, *current),
			Data:    param.Params{"level": param.Int(*current)},
		}, nil
	}

	return entity.ExecutionResult{}, capability.MissingParameter("level or change")
}

func (d *Device) Volume(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return adjustLevel("Volume", &d.state.Volume, p)
}

func (d *Device) Brightness(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return adjustLevel("Brightness", &d.state.Brightness, p)
}

func (d *Device) Wifi(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	state, err := capability.String(p, "state")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	next, ok := switchState(d.state.Wifi, state)
	if !ok {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Invalid Wi-Fi state: %s", state)
	}
	d.state.Wifi = next

	return entity.ExecutionResult{
		Success: true,
		Message: "Wi-Fi turned " + onOff(next),
		Data:    param.Params{"on": param.Bool(next)},
	}, nil
}

func (d *Device) Bluetooth(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	state, err := capability.String(p, "state")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.require(PermissionBluetooth); err != nil {
		return entity.ExecutionResult{}, err
	}
	next, ok := switchState(d.state.Bluetooth, state)
	if !ok {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Invalid Bluetooth state: %s", state)
	}
	d.state.Bluetooth = next

	return entity.ExecutionResult{
		Success: true,
		Message: "Bluetooth turned " + onOff(next),
		Data:    param.Params{"on": param.Bool(next)},
	}, nil
}
