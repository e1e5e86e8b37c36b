// Package main runs the robot: it builds the configured components, starts the puncher and
// enters the requested competition mode until it is told to quit.
package main

import (
	"context"
	"fmt"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/input"
	_ "github.com/ironcladrobotics/puncherbot/components/register"
	"github.com/ironcladrobotics/puncherbot/config"
	"github.com/ironcladrobotics/puncherbot/robot"
	"github.com/ironcladrobotics/puncherbot/services/autonomous"
	"github.com/ironcladrobotics/puncherbot/services/puncher"
	"github.com/ironcladrobotics/puncherbot/services/teleop"
)

var logger = golog.NewDevelopmentLogger("puncherbot")

func main() {
	utils.ContextualMainQuit(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"0,required,usage=robot config file"`
	Mode       string `flag:"mode,default=driver,usage=competition mode to enter: driver or autonomous or disabled"`
	Auton      string `flag:"auton,usage=autonomous routine to select"`
	Debug      bool   `flag:"debug,usage=enable debug logging"`
	ListAutons bool   `flag:"list-autons,usage=print the autonomous routines and exit"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger = golog.NewDebugLogger("puncherbot")
	}
	mode, err := robot.ParseMode(argsParsed.Mode)
	if err != nil {
		return err
	}

	cfg, err := config.Read(ctx, argsParsed.ConfigFile, logger)
	if err != nil {
		return err
	}
	if argsParsed.Auton != "" {
		cfg.Autonomous.Routine = argsParsed.Auton
	}
	if argsParsed.ListAutons {
		selector, err := newSelector(cfg.Autonomous)
		if err != nil {
			return err
		}
		fmt.Println(selector)
		return nil
	}

	myRobot, supervisor, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, supervisor.Close(context.Background()), myRobot.Close(context.Background()))
	}()

	if err := supervisor.Initialize(ctx); err != nil {
		return err
	}
	if err := supervisor.Enter(ctx, mode); err != nil {
		return err
	}
	utils.ContextMainReadyFunc(ctx)()

	select {
	case <-ctx.Done():
	case <-utils.ContextMainQuitSignal(ctx):
	}
	logger.Info("shutting down")
	return nil
}

// build constructs the robot and the supervisor that runs it.
func build(ctx context.Context, cfg *config.Config, logger golog.Logger) (_ *robot.Robot, _ *robot.Supervisor, err error) {
	myRobot, err := robot.New(ctx, cfg.Components, logger)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			err = multierr.Combine(err, myRobot.Close(ctx))
		}
	}()

	st := robot.NewState()
	punch, err := puncher.FromRobot(myRobot, st, cfg.Puncher, logger.Named("puncher"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build puncher")
	}

	deps, err := teleop.DepsFromRobot(myRobot, cfg.Teleop)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build teleop")
	}
	dispatcher, err := teleop.New(deps, st, cfg.Teleop, logger.Named("teleop"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build teleop")
	}

	selector, err := newSelector(cfg.Autonomous)
	if err != nil {
		return nil, nil, err
	}
	auton := &autonomous.Runner{Selector: selector, Logger: logger.Named("autonomous")}
	if cfg.Autonomous.Base != "" {
		if auton.Base, err = robot.ResourceFromRobot[base.Base](myRobot, base.Named(cfg.Autonomous.Base)); err != nil {
			return nil, nil, err
		}
	}

	initializers := []func(context.Context) error{punch.Prepare, dispatcher.Prepare}
	if screen, ok := deps.Controller.(input.Screen); ok {
		initializers = append(initializers, func(ctx context.Context) error {
			return selector.Show(ctx, screen)
		})
	}

	supervisor := robot.NewSupervisor(robot.SupervisorConfig{
		Puncher:      punch,
		Autonomous:   auton,
		Driver:       dispatcher,
		Initializers: initializers,
	}, logger.Named("supervisor"))
	return myRobot, supervisor, nil
}

func newSelector(conf autonomous.Config) (*autonomous.Selector, error) {
	selector := autonomous.NewSelector(autonomous.DefaultRoutines()...)
	if conf.Routine != "" {
		if err := selector.Select(conf.Routine); err != nil {
			return nil, err
		}
	}
	return selector, nil
}
