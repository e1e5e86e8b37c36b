package teleop

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/resource"
)

// DriveMode picks which sticks drive the base.
type DriveMode string

// The drive modes.
const (
	// DriveTank drives each side from its own stick's Y axis.
	DriveTank = DriveMode("tank")
	// DriveArcadeSplit takes throttle from the left stick and turn from the right.
	DriveArcadeSplit = DriveMode("arcade_split")
	// DriveArcadeSingle takes both from the left stick.
	DriveArcadeSingle = DriveMode("arcade_single")
	// DriveArcadeFlipped takes throttle from the right stick and turn from the left.
	DriveArcadeFlipped = DriveMode("arcade_flipped")
)

// IntakePolicy picks how the intake buttons behave.
type IntakePolicy string

// The intake policies.
const (
	// IntakeHold spins the intake only while a direction button is held.
	IntakeHold = IntakePolicy("hold")
	// IntakeSticky latches the last direction pressed until the reset button.
	IntakeSticky = IntakePolicy("sticky")
)

// Debounce picks how toggle buttons are kept from firing on every frame of one press.
type Debounce string

// The debounce modes.
const (
	// DebounceEdge acts on the press only, and ignores a press within the cooldown of the
	// last one.
	DebounceEdge = Debounce("edge")
	// DebounceSleep acts while held and then waits out the cooldown before reading input
	// again.
	DebounceSleep = Debounce("sleep")
)

// An Action is something an operator button does.
type Action string

// The actions.
const (
	ActionFire           = Action("fire")
	ActionInstantFire    = Action("instant_fire")
	ActionIntakeForward  = Action("intake_forward")
	ActionIntakeBackward = Action("intake_backward")
	ActionIntakeReset    = Action("intake_reset")
	ActionGuideUp        = Action("guide_up")
	ActionGuideLeft      = Action("guide_left")
	ActionGuideRight     = Action("guide_right")
	ActionWallGuard      = Action("wall_guard")
	ActionClutch         = Action("clutch")
)

// DefaultButtons maps every action to its button when not configured.
var DefaultButtons = map[Action]input.Control{
	ActionFire:           input.ButtonRT,
	ActionInstantFire:    input.ButtonRT2,
	ActionIntakeForward:  input.ButtonLT,
	ActionIntakeBackward: input.ButtonLT2,
	ActionIntakeReset:    input.ButtonNorth,
	ActionGuideUp:        input.ButtonDpadUp,
	ActionGuideLeft:      input.ButtonDpadLeft,
	ActionGuideRight:     input.ButtonDpadRight,
	ActionWallGuard:      input.ButtonDpadDown,
	ActionClutch:         input.ButtonWest,
}

// Defaults for Config.
const (
	DefaultFrameInterval = 10 * time.Millisecond
	DefaultCooldown      = 250 * time.Millisecond
)

// Config configures the dispatcher. Component names are used when building from a robot.
type Config struct {
	Controller  string `json:"controller"`
	Base        string `json:"base"`
	IntakeLeft  string `json:"intake_left,omitempty"`
	IntakeRight string `json:"intake_right,omitempty"`
	GuideLeft   string `json:"guide_left,omitempty"`
	GuideRight  string `json:"guide_right,omitempty"`
	WallLeft    string `json:"wall_left,omitempty"`
	WallRight   string `json:"wall_right,omitempty"`
	ClutchLeft  string `json:"clutch_left,omitempty"`
	ClutchRight string `json:"clutch_right,omitempty"`

	FrameInterval time.Duration            `json:"frame_interval,omitempty"`
	Cooldown      time.Duration            `json:"cooldown,omitempty"`
	DriveMode     DriveMode                `json:"drive_mode,omitempty"`
	IntakePolicy  IntakePolicy             `json:"intake_policy,omitempty"`
	Debounce      Debounce                 `json:"debounce,omitempty"`
	Buttons       map[Action]input.Control `json:"buttons,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Controller == "" {
		return resource.NewConfigValidationFieldRequiredError(path, "controller")
	}
	if conf.Base == "" {
		return resource.NewConfigValidationFieldRequiredError(path, "base")
	}
	if _, err := conf.withDefaults(); err != nil {
		return resource.NewConfigValidationError(path, err)
	}
	return nil
}

func (conf Config) withDefaults() (Config, error) {
	if conf.FrameInterval < 0 || conf.Cooldown < 0 {
		return conf, errors.New("frame_interval and cooldown must not be negative")
	}
	if conf.FrameInterval == 0 {
		conf.FrameInterval = DefaultFrameInterval
	}
	if conf.Cooldown == 0 {
		conf.Cooldown = DefaultCooldown
	}

	switch conf.DriveMode {
	case "":
		conf.DriveMode = DriveTank
	case DriveTank, DriveArcadeSplit, DriveArcadeSingle, DriveArcadeFlipped:
	default:
		return conf, errors.Errorf("unknown drive_mode %q", conf.DriveMode)
	}
	switch conf.IntakePolicy {
	case "":
		conf.IntakePolicy = IntakeHold
	case IntakeHold, IntakeSticky:
	default:
		return conf, errors.Errorf("unknown intake_policy %q", conf.IntakePolicy)
	}
	switch conf.Debounce {
	case "":
		conf.Debounce = DebounceEdge
	case DebounceEdge, DebounceSleep:
	default:
		return conf, errors.Errorf("unknown debounce %q", conf.Debounce)
	}

	buttons := make(map[Action]input.Control, len(DefaultButtons))
	for action, control := range DefaultButtons {
		buttons[action] = control
	}
	for action, control := range conf.Buttons {
		if _, ok := DefaultButtons[action]; !ok {
			return conf, errors.Errorf("unknown action %q", action)
		}
		if control.IsAxis() {
			return conf, errors.Wrapf(input.NewNotButtonError(control), "action %q", action)
		}
		if !control.IsButton() {
			return conf, errors.Wrapf(input.NewUnknownControlError(control), "action %q", action)
		}
		buttons[action] = control
	}
	conf.Buttons = buttons
	return conf, nil
}
