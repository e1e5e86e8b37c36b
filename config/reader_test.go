package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	motorgpio "github.com/ironcladrobotics/puncherbot/components/motor/gpio"
	_ "github.com/ironcladrobotics/puncherbot/components/register"
	"github.com/ironcladrobotics/puncherbot/services/puncher"
	"github.com/ironcladrobotics/puncherbot/services/teleop"
)

func TestRead(t *testing.T) {
	logger := golog.NewTestLogger(t)
	t.Setenv("PUNCHER_DIR_PIN", "29")

	cfg, err := Read(context.Background(), "testdata/robot.json", logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "testdata/robot.json")
	test.That(t, cfg.Components, test.ShouldHaveLength, 11)

	punch := cfg.FindComponent(motor.Named("puncher"))
	test.That(t, punch, test.ShouldNotBeNil)
	punchConf, ok := punch.ConvertedAttributes.(*motorgpio.Config)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, punchConf.Pins.Direction, test.ShouldEqual, "29")
	test.That(t, punchConf.PWMFreq, test.ShouldEqual, 800)
	test.That(t, punch.ImplicitDependsOn, test.ShouldResemble, []string{"pi"})

	test.That(t, cfg.Puncher, test.ShouldResemble, puncher.Config{
		Motor:       "puncher",
		LimitSwitch: "limit",
		SettleDelay: 300 * time.Millisecond,
		Policy:      puncher.SwitchConfirmedFire,
	})
	test.That(t, cfg.Teleop.Cooldown, test.ShouldEqual, 200*time.Millisecond)
	test.That(t, cfg.Teleop.IntakePolicy, test.ShouldEqual, teleop.IntakeSticky)
	test.That(t, cfg.Teleop.Buttons, test.ShouldResemble, map[teleop.Action]input.Control{
		teleop.ActionFire: input.ButtonSouth,
	})
	test.That(t, cfg.Autonomous.Routine, test.ShouldEqual, "Win Point")
	test.That(t, cfg.Autonomous.Base, test.ShouldEqual, "drive")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(context.Background(), "testdata/nope.json", golog.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromReaderErrors(t *testing.T) {
	const valid = `{
		"components": [
			{"name": "pad", "type": "input_controller", "model": "fake"},
			{"name": "drive", "type": "base", "model": "fake"},
			{"name": "puncher", "type": "motor", "model": "fake"},
			{"name": "limit", "type": "limit_switch", "model": "fake"}
		],
		"puncher": {"motor": "puncher", "limit_switch": "limit"},
		"teleop": {"controller": "pad", "base": "drive"}
	}`
	logger := golog.NewTestLogger(t)
	_, err := FromReader(context.Background(), "", strings.NewReader(valid), logger)
	test.That(t, err, test.ShouldBeNil)

	for _, tc := range []struct {
		name   string
		old    string
		new    string
		errMsg string
	}{
		{"bad json", `"components"`, `components`, "json"},
		{
			"duplicate name",
			`{"name": "drive", "type": "base", "model": "fake"}`,
			`{"name": "pad", "type": "base", "model": "fake"}`,
			"duplicates [pad]",
		},
		{
			"unknown model",
			`"type": "base", "model": "fake"`,
			`"type": "base", "model": "hovercraft"`,
			"hovercraft",
		},
		{"unknown policy", `"limit_switch": "limit"}`, `"limit_switch": "limit", "policy": "race"}`, "race"},
		{"bad duration", `"limit_switch": "limit"}`, `"limit_switch": "limit", "settle_delay": "soon"}`, "settle_delay"},
		{"unknown field", `"base": "drive"}`, `"base": "drive", "turbo": true}`, "turbo"},
		{"missing motor", `"motor": "puncher"`, `"motor": ""`, "motor"},
		{"wrong type", `"limit_switch": "limit"}`, `"limit_switch": "puncher"}`, "puncher.limit_switch"},
		{"missing component", `"base": "drive"}`, `"base": "drive", "clutch_left": "clutch"}`, "teleop.clutch_left"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bad := strings.Replace(valid, tc.old, tc.new, 1)
			test.That(t, bad, test.ShouldNotEqual, valid)
			_, err := FromReader(context.Background(), "", strings.NewReader(bad), logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errMsg)
		})
	}
}
