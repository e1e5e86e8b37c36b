package puncher

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ironcladrobotics/puncherbot/resource"
)

// FirePolicy decides when a shot request counts as served.
type FirePolicy string

const (
	// SettleDelayFire clears the request as soon as the motor starts the shot, then ignores
	// the switch for the settle delay while the arm leaves it.
	SettleDelayFire = FirePolicy("settle_delay")
	// SwitchConfirmedFire keeps the request until the switch reports the arm has left.
	SwitchConfirmedFire = FirePolicy("switch_confirmed")
)

// Defaults for Config.
const (
	DefaultPollInterval = 10 * time.Millisecond
	DefaultSettleDelay  = 250 * time.Millisecond
)

// Config configures the puncher loop.
type Config struct {
	// Motor and LimitSwitch name the components the loop drives and reads.
	Motor       string `json:"motor"`
	LimitSwitch string `json:"limit_switch"`

	PollInterval time.Duration `json:"poll_interval,omitempty"`
	SettleDelay  time.Duration `json:"settle_delay,omitempty"`
	Policy       FirePolicy    `json:"policy,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Motor == "" {
		return resource.NewConfigValidationFieldRequiredError(path, "motor")
	}
	if conf.LimitSwitch == "" {
		return resource.NewConfigValidationFieldRequiredError(path, "limit_switch")
	}
	if _, err := conf.withDefaults(); err != nil {
		return resource.NewConfigValidationError(path, err)
	}
	return nil
}

func (conf Config) withDefaults() (Config, error) {
	if conf.PollInterval < 0 {
		return conf, errors.Errorf("poll_interval must not be negative, got %s", conf.PollInterval)
	}
	if conf.SettleDelay < 0 {
		return conf, errors.Errorf("settle_delay must not be negative, got %s", conf.SettleDelay)
	}
	if conf.PollInterval == 0 {
		conf.PollInterval = DefaultPollInterval
	}
	if conf.SettleDelay == 0 {
		conf.SettleDelay = DefaultSettleDelay
	}
	switch conf.Policy {
	case "":
		conf.Policy = SettleDelayFire
	case SettleDelayFire, SwitchConfirmedFire:
	default:
		return conf, errors.Errorf("unknown fire policy %q", conf.Policy)
	}
	return conf, nil
}
