// Package register registers all components
package register

import (
	// register components.
	_ "github.com/ironcladrobotics/puncherbot/components/base/fake"
	_ "github.com/ironcladrobotics/puncherbot/components/base/tank"
	_ "github.com/ironcladrobotics/puncherbot/components/board/fake"
	_ "github.com/ironcladrobotics/puncherbot/components/board/periph"
	_ "github.com/ironcladrobotics/puncherbot/components/input/fake"
	_ "github.com/ironcladrobotics/puncherbot/components/input/gamepad"
	_ "github.com/ironcladrobotics/puncherbot/components/limitswitch/fake"
	_ "github.com/ironcladrobotics/puncherbot/components/limitswitch/gpio"
	_ "github.com/ironcladrobotics/puncherbot/components/motor/fake"
	_ "github.com/ironcladrobotics/puncherbot/components/motor/gpio"
	_ "github.com/ironcladrobotics/puncherbot/components/solenoid/fake"
	_ "github.com/ironcladrobotics/puncherbot/components/solenoid/gpio"
)
