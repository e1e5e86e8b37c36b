// Package periph implements a board on top of the periph.io host GPIO drivers. Pins are
// looked up by their periph.io name (e.g. "GPIO17") or by an alias from the config.
package periph

import (
	"context"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/ironcladrobotics/puncherbot/components/board"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const (
	model = resource.Model("periph")

	defaultPWMFreqHz = 800
)

// A Config describes the configuration of a periph board.
type Config struct {
	// Pins maps friendly names to periph.io pin names.
	Pins             map[string]string `json:"pins,omitempty"`
	DefaultPWMFreqHz uint              `json:"default_pwm_freq_hz,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	for alias, pin := range conf.Pins {
		if pin == "" {
			return nil, resource.NewConfigValidationFieldRequiredError(path, "pins."+alias)
		}
	}
	return nil, nil
}

// lookupPin is swapped out by tests.
var lookupPin = gpioreg.ByName

func init() {
	resource.RegisterComponent(
		board.API,
		model,
		resource.Registration[board.Board, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (board.Board, error) {
				if _, err := host.Init(); err != nil {
					return nil, errors.Wrap(err, "failed to initialize periph host drivers")
				}
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				return newBoard(conf.ResourceName(), newConf, logger), nil
			},
		})
}

func newBoard(name resource.Name, conf *Config, logger golog.Logger) *periphBoard {
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	freq := conf.DefaultPWMFreqHz
	if freq == 0 {
		freq = defaultPWMFreqHz
	}
	return &periphBoard{
		Named:       name.AsNamed(),
		aliases:     conf.Pins,
		defaultFreq: physic.Hertz * physic.Frequency(freq),
		pwms:        map[string]pwmSetting{},
		logger:      logger,
		cancelCtx:   cancelCtx,
		cancelFunc:  cancelFunc,
	}
}

type pwmSetting struct {
	dutyCycle gpio.Duty
	frequency physic.Frequency
}

type periphBoard struct {
	resource.Named

	mu          sync.RWMutex
	aliases     map[string]string
	defaultFreq physic.Frequency
	pwms        map[string]pwmSetting
	logger      golog.Logger

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

func (b *periphBoard) getGPIOLine(name string) (gpio.PinIO, error) {
	pinName := name
	if mapped, ok := b.aliases[name]; ok {
		pinName = mapped
	}
	pin := lookupPin(pinName)
	if pin == nil {
		return nil, errors.Errorf("no global pin found for %q", pinName)
	}
	return pin, nil
}

// GPIOPinByName returns the pin with the given name or alias.
func (b *periphBoard) GPIOPinByName(name string) (board.GPIOPin, error) {
	pin, err := b.getGPIOLine(name)
	if err != nil {
		return nil, err
	}
	return gpioPin{b, pin, name}, nil
}

// Close stops every software PWM loop and drives those pins low.
func (b *periphBoard) Close(ctx context.Context) error {
	b.mu.Lock()
	b.cancelFunc()
	b.pwms = map[string]pwmSetting{}
	b.mu.Unlock()
	b.activeBackgroundWorkers.Wait()
	return nil
}

type gpioPin struct {
	b       *periphBoard
	pin     gpio.PinIO
	pinName string
}

func (gp gpioPin) Set(ctx context.Context, high bool) error {
	gp.b.mu.Lock()
	defer gp.b.mu.Unlock()

	delete(gp.b.pwms, gp.pinName)

	return gp.set(high)
}

func (gp gpioPin) set(high bool) error {
	l := gpio.Low
	if high {
		l = gpio.High
	}
	return gp.pin.Out(l)
}

func (gp gpioPin) Get(ctx context.Context) (bool, error) {
	return gp.pin.Read() == gpio.High, nil
}

func (gp gpioPin) PWM(ctx context.Context) (float64, error) {
	gp.b.mu.RLock()
	defer gp.b.mu.RUnlock()

	pwm, ok := gp.b.pwms[gp.pinName]
	if !ok {
		return 0, errors.Errorf("pin %q is not in pwm mode", gp.pinName)
	}
	return float64(pwm.dutyCycle) / float64(gpio.DutyMax), nil
}

// SetPWM tries hardware PWM first and falls back to a software loop.
func (gp gpioPin) SetPWM(ctx context.Context, dutyCyclePct float64) error {
	if dutyCyclePct < 0 || dutyCyclePct > 1 {
		return errors.Errorf("duty cycle %.3f must be within [0, 1]", dutyCyclePct)
	}
	gp.b.mu.Lock()
	defer gp.b.mu.Unlock()

	last, alreadySet := gp.b.pwms[gp.pinName]
	if last.frequency == 0 {
		last.frequency = gp.b.defaultFreq
	}
	last.dutyCycle = gpio.Duty(dutyCyclePct * float64(gpio.DutyMax))
	gp.b.pwms[gp.pinName] = last

	if err := gp.pin.PWM(last.dutyCycle, last.frequency); err == nil {
		return nil
	}
	if !alreadySet {
		gp.b.startSoftwarePWMLoop(gp)
	}
	return nil
}

func (gp gpioPin) PWMFreq(ctx context.Context) (uint, error) {
	gp.b.mu.RLock()
	defer gp.b.mu.RUnlock()

	return uint(gp.b.pwms[gp.pinName].frequency / physic.Hertz), nil
}

func (gp gpioPin) SetPWMFreq(ctx context.Context, freqHz uint) error {
	gp.b.mu.Lock()
	defer gp.b.mu.Unlock()

	last := gp.b.pwms[gp.pinName]
	last.frequency = physic.Hertz * physic.Frequency(freqHz)
	if freqHz == 0 {
		last.frequency = gp.b.defaultFreq
	}
	gp.b.pwms[gp.pinName] = last
	return nil
}

// expects to already have lock acquired.
func (b *periphBoard) startSoftwarePWMLoop(gp gpioPin) {
	b.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		b.softwarePWMLoop(b.cancelCtx, gp)
	}, b.activeBackgroundWorkers.Done)
}

func (b *periphBoard) softwarePWMLoop(ctx context.Context, gp gpioPin) {
	for {
		cont := func() bool {
			b.mu.RLock()
			setting, ok := b.pwms[gp.pinName]
			b.mu.RUnlock()
			if !ok {
				b.logger.Debugw("pwm setting deleted; stopping", "pin", gp.pinName)
				return false
			}

			period := setting.frequency.Period()
			onPeriod := time.Duration(float64(setting.dutyCycle) / float64(gpio.DutyMax) * float64(period))
			if onPeriod > 0 {
				if err := gp.set(true); err != nil {
					b.logger.Errorw("error setting pin", "pin", gp.pinName, "error", err)
					return true
				}
				if !goutils.SelectContextOrWait(ctx, onPeriod) {
					return false
				}
			}
			if err := gp.set(false); err != nil {
				b.logger.Errorw("error setting pin", "pin", gp.pinName, "error", err)
				return true
			}
			return goutils.SelectContextOrWait(ctx, period-onPeriod)
		}()
		if !cont {
			return
		}
	}
}
