// Package config defines the structures to configure a robot and the services that drive it.
package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/components/limitswitch"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/components/solenoid"
	"github.com/ironcladrobotics/puncherbot/resource"
	"github.com/ironcladrobotics/puncherbot/services/autonomous"
	"github.com/ironcladrobotics/puncherbot/services/puncher"
	"github.com/ironcladrobotics/puncherbot/services/teleop"
)

// A Config describes the configuration of a robot.
type Config struct {
	ConfigFilePath string

	Components []resource.Config
	Puncher    puncher.Config
	Teleop     teleop.Config
	Autonomous autonomous.Config
}

// configData is the on-disk form. Service sections are decoded separately so they accept
// duration strings such as "250ms".
type configData struct {
	Components []resource.Config      `json:"components"`
	Puncher    map[string]interface{} `json:"puncher"`
	Teleop     map[string]interface{} `json:"teleop"`
	Autonomous map[string]interface{} `json:"autonomous"`
}

// Ensure ensures all parts of the config are valid and that every component a service names
// is configured with the right type.
func (c *Config) Ensure() error {
	names := lo.Map(c.Components, func(conf resource.Config, _ int) string { return conf.Name })
	if dupes := lo.FindDuplicates(names); len(dupes) != 0 {
		return errors.Errorf("components: names must be unique, found duplicates %v", dupes)
	}

	for idx := range c.Components {
		if err := c.Components[idx].Validate(fmt.Sprintf("%s.%d", "components", idx)); err != nil {
			return err
		}
	}

	if err := c.Puncher.Validate("puncher"); err != nil {
		return err
	}
	if err := c.Teleop.Validate("teleop"); err != nil {
		return err
	}

	type ref struct {
		field string
		name  string
		api   resource.API
	}
	refs := []ref{
		{"puncher.motor", c.Puncher.Motor, motor.API},
		{"puncher.limit_switch", c.Puncher.LimitSwitch, limitswitch.API},
		{"teleop.controller", c.Teleop.Controller, input.API},
		{"teleop.base", c.Teleop.Base, base.API},
		{"teleop.intake_left", c.Teleop.IntakeLeft, motor.API},
		{"teleop.intake_right", c.Teleop.IntakeRight, motor.API},
		{"teleop.guide_left", c.Teleop.GuideLeft, solenoid.API},
		{"teleop.guide_right", c.Teleop.GuideRight, solenoid.API},
		{"teleop.wall_left", c.Teleop.WallLeft, solenoid.API},
		{"teleop.wall_right", c.Teleop.WallRight, solenoid.API},
		{"teleop.clutch_left", c.Teleop.ClutchLeft, solenoid.API},
		{"teleop.clutch_right", c.Teleop.ClutchRight, solenoid.API},
		{"autonomous.base", c.Autonomous.Base, base.API},
	}
	for _, r := range refs {
		if r.name == "" {
			continue
		}
		if c.FindComponent(resource.NewName(r.api, r.name)) == nil {
			return errors.Errorf("%s: no %s component named %q", r.field, r.api, r.name)
		}
	}
	return nil
}

// FindComponent finds a particular component by name.
func (c *Config) FindComponent(name resource.Name) *resource.Config {
	conf, ok := lo.Find(c.Components, func(conf resource.Config) bool {
		return conf.ResourceName() == name
	})
	if !ok {
		return nil
	}
	return &conf
}
