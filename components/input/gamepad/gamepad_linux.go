//go:build linux

package gamepad

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/viamrobotics/evdev"
	goutils "go.viam.com/utils"

	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("gamepad")

func init() {
	resource.RegisterComponent(
		input.API,
		model,
		resource.Registration[input.Controller, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (input.Controller, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				return NewController(ctx, conf.ResourceName(), newConf, logger)
			},
		})
}

// Mapping maps evdev codes to controls.
type Mapping struct {
	Buttons map[evdev.KeyType]input.Control
	Axes    map[evdev.AbsoluteType]input.Control
}

var xboxMapping = Mapping{
	Buttons: map[evdev.KeyType]input.Control{
		evdev.BtnA:      input.ButtonSouth,
		evdev.BtnB:      input.ButtonEast,
		evdev.BtnX:      input.ButtonNorth,
		evdev.BtnY:      input.ButtonWest,
		evdev.BtnTL:     input.ButtonLT,
		evdev.BtnTR:     input.ButtonRT,
		evdev.BtnTL2:    input.ButtonLT2,
		evdev.BtnTR2:    input.ButtonRT2,
		evdev.BtnThumbL: input.ButtonLThumb,
		evdev.BtnThumbR: input.ButtonRThumb,
		evdev.BtnSelect: input.ButtonSelect,
		evdev.BtnStart:  input.ButtonStart,
		evdev.BtnMode:   input.ButtonMenu,
	},
	Axes: map[evdev.AbsoluteType]input.Control{
		evdev.AbsoluteX:     input.AbsoluteX,
		evdev.AbsoluteY:     input.AbsoluteY,
		evdev.AbsoluteZ:     input.AbsoluteZ,
		evdev.AbsoluteRX:    input.AbsoluteRX,
		evdev.AbsoluteRY:    input.AbsoluteRY,
		evdev.AbsoluteRZ:    input.AbsoluteRZ,
		evdev.AbsoluteHat0X: input.AbsoluteHat0X,
		evdev.AbsoluteHat0Y: input.AbsoluteHat0Y,
	},
}

// mappings holds the layouts for known device names.
var mappings = map[string]Mapping{
	"Microsoft X-Box 360 pad":  xboxMapping,
	"Xbox Wireless Controller": xboxMapping,
	"Logitech Gamepad F310":    xboxMapping,
}

// NewController opens the gamepad and starts reading its events.
func NewController(ctx context.Context, name resource.Name, conf *Config, logger golog.Logger) (input.Controller, error) {
	dev, mapping, err := openDevice(conf.DevFile, logger)
	if err != nil {
		return nil, err
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	g := &gamepad{
		Named:   name.AsNamed(),
		dev:     dev,
		mapping: mapping,
		state:   newPadState(conf.Deadzone),
		logger:  logger,
		cancel:  cancel,
	}
	g.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		g.eventDispatcher(cancelCtx)
	}, g.activeBackgroundWorkers.Done)
	return g, nil
}

func openDevice(devFile string, logger golog.Logger) (*evdev.Evdev, Mapping, error) {
	if devFile != "" {
		dev, err := evdev.OpenFile(devFile)
		if err != nil {
			return nil, Mapping{}, errors.Wrapf(err, "failed to open %s", devFile)
		}
		mapping, ok := mappings[dev.Name()]
		if !ok {
			logger.Infow("unknown gamepad, using the default mapping", "name", dev.Name())
			mapping = xboxMapping
		}
		return dev, mapping, nil
	}

	devs, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, Mapping{}, err
	}
	for _, n := range devs {
		dev, err := evdev.OpenFile(n)
		if err != nil {
			continue
		}
		if mapping, ok := mappings[dev.Name()]; ok {
			logger.Infow("found gamepad", "name", dev.Name(), "path", n)
			return dev, mapping, nil
		}
		goutils.UncheckedError(dev.Close())
	}
	return nil, Mapping{}, errors.New("no gamepad found (check permissions on /dev/input/event*)")
}

type gamepad struct {
	resource.Named

	dev     *evdev.Evdev
	mapping Mapping
	state   *padState
	logger  golog.Logger

	cancel                  func()
	activeBackgroundWorkers sync.WaitGroup
}

func (g *gamepad) eventDispatcher(ctx context.Context) {
	axisInfo := g.dev.AbsoluteTypes()
	evChan := g.dev.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case eventIn, ok := <-evChan:
			if !ok {
				g.logger.Warn("gamepad event stream closed")
				g.state.reset()
				return
			}
			if eventIn == nil {
				continue
			}
			switch eventIn.Event.Type {
			case evdev.EventKey:
				control, ok := g.mapping.Buttons[evdev.KeyType(eventIn.Event.Code)]
				if !ok {
					continue
				}
				g.state.setButton(control, eventIn.Event.Value != 0)
			case evdev.EventAbsolute:
				code := evdev.AbsoluteType(eventIn.Event.Code)
				control, ok := g.mapping.Axes[code]
				if !ok {
					continue
				}
				info := axisInfo[code]
				g.state.setAxis(control, eventIn.Event.Value, info.Min, info.Max)
			default:
			}
		}
	}
}

func (g *gamepad) Controls(ctx context.Context) ([]input.Control, error) {
	var out []input.Control
	for _, control := range g.mapping.Axes {
		out = append(out, control)
	}
	for _, control := range g.mapping.Buttons {
		out = append(out, control)
	}
	if _, ok := g.mapping.Axes[evdev.AbsoluteHat0X]; ok {
		out = append(out, input.ButtonDpadLeft, input.ButtonDpadRight)
	}
	if _, ok := g.mapping.Axes[evdev.AbsoluteHat0Y]; ok {
		out = append(out, input.ButtonDpadUp, input.ButtonDpadDown)
	}
	return out, nil
}

func (g *gamepad) Button(ctx context.Context, control input.Control) (bool, error) {
	return g.state.button(ctx, control)
}

func (g *gamepad) Axis(ctx context.Context, control input.Control) (float64, error) {
	return g.state.axis(ctx, control)
}

func (g *gamepad) Close(ctx context.Context) error {
	g.cancel()
	err := g.dev.Close()
	g.activeBackgroundWorkers.Wait()
	return err
}
