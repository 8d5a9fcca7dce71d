package builtin

import (
	"fmt"
	"time"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Set is the group of reference handlers one assistant session uses.
type Set struct {
	Calculator *Calculator
	Clock      *Clock
	Timers     *Timers
	Notebook   *Notebook
	Alarms     *Alarms
	Device     *Device
}

func NewSet(log *logrus.Logger, loc *time.Location) (*Set, error) {
	calc, err := NewCalculator()
	if err != nil {
		return nil, err
	}
	return &Set{
		Calculator: calc,
		Clock:      NewClock(loc, nil),
		Timers:     NewTimers(log),
		Notebook:   NewNotebook(utils.New()),
		Alarms:     NewAlarms(),
		Device:     NewDevice(),
	}, nil
}

// Register installs every reference handler. Kinds without one stay empty so
// embedders can plug in their own.
func (s *Set) Register(reg capability.IRegistry) error {
	handlers := map[entity.IntentKind]capability.Handler{
		entity.IntentCalculate:     s.Calculator,
		entity.IntentConvertUnits:  capability.HandlerFunc(ConvertUnits),
		entity.IntentGetDateTime:   s.Clock,
		entity.IntentStartTimer:    s.Timers,
		entity.IntentCreateNote:    s.Notebook,
		entity.IntentSetAlarm:      s.Alarms,
		entity.IntentSetFlashlight: capability.HandlerFunc(s.Device.Flashlight),
		entity.IntentOpenCamera:    capability.HandlerFunc(s.Device.Camera),
		entity.IntentSetVolume:     capability.HandlerFunc(s.Device.Volume),
		entity.IntentSetBrightness: capability.HandlerFunc(s.Device.Brightness),
		entity.IntentSetWifi:       capability.HandlerFunc(s.Device.Wifi),
		entity.IntentSetBluetooth:  capability.HandlerFunc(s.Device.Bluetooth),
	}

	for kind, h := range handlers {
		if err := reg.Register(kind, h); err != nil {
			return fmt.Errorf("register %s: %w", kind, err)
		}
	}
	return nil
}

func (s *Set) Close() {
	s.Timers.StopAll()
}
