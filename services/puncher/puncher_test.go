package puncher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/ironcladrobotics/puncherbot/components/limitswitch"
	fakeswitch "github.com/ironcladrobotics/puncherbot/components/limitswitch/fake"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	fakemotor "github.com/ironcladrobotics/puncherbot/components/motor/fake"
	"github.com/ironcladrobotics/puncherbot/resource"
	"github.com/ironcladrobotics/puncherbot/robot"
	"github.com/ironcladrobotics/puncherbot/testutils/inject"
)

type harness struct {
	p  *Puncher
	m  *fakemotor.Motor
	sw *fakeswitch.Switch
	st *robot.State
}

func newHarness(t *testing.T, policy FirePolicy, opts ...Option) harness {
	t.Helper()
	logger := golog.NewTestLogger(t)
	m := fakemotor.NewMotor(motor.Named("puncher"), logger)
	sw := fakeswitch.NewSwitch(limitswitch.Named("limit"))
	sw.SetPressed(true)
	st := robot.NewState()
	p, err := New(m, sw, st, Config{Policy: policy}, logger, opts...)
	test.That(t, err, test.ShouldBeNil)
	return harness{p: p, m: m, sw: sw, st: st}
}

func TestConfig(t *testing.T) {
	conf, err := Config{}.withDefaults()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.PollInterval, test.ShouldEqual, 10*time.Millisecond)
	test.That(t, conf.SettleDelay, test.ShouldEqual, 250*time.Millisecond)
	test.That(t, conf.Policy, test.ShouldEqual, SettleDelayFire)

	_, err = Config{Policy: "race"}.withDefaults()
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Config{SettleDelay: -time.Second}.withDefaults()
	test.That(t, err, test.ShouldNotBeNil)

	full := Config{Motor: "puncher", LimitSwitch: "limit", Policy: SwitchConfirmedFire}
	test.That(t, full.Validate("puncher"), test.ShouldBeNil)
	noMotor := full
	noMotor.Motor = ""
	err = noMotor.Validate("puncher")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "motor")
	bad := full
	bad.Policy = "race"
	test.That(t, bad.Validate("puncher"), test.ShouldNotBeNil)

	_, err = New(nil, nil, nil, Config{}, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSettleDelayShot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, SettleDelayFire)

	test.That(t, h.p.step(ctx), test.ShouldEqual, DefaultPollInterval)
	test.That(t, h.p.State(), test.ShouldEqual, Idle)

	h.st.RequestShot()
	test.That(t, h.p.step(ctx), test.ShouldEqual, DefaultSettleDelay)
	test.That(t, h.p.State(), test.ShouldEqual, Firing)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)
	test.That(t, h.m.PowerPct(), test.ShouldEqual, -1.0)

	// the switch never left; the next poll after the settle delay stops the motor
	readsBefore := h.sw.Reads()
	test.That(t, h.p.step(ctx), test.ShouldEqual, DefaultPollInterval)
	test.That(t, h.sw.Reads(), test.ShouldEqual, readsBefore+1)
	test.That(t, h.p.State(), test.ShouldEqual, Idle)
	test.That(t, h.m.History(), test.ShouldResemble, []float64{0, -1, 0})
}

func TestFullCycle(t *testing.T) {
	for _, policy := range []FirePolicy{SettleDelayFire, SwitchConfirmedFire} {
		t.Run(string(policy), func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, policy)

			h.p.step(ctx)
			h.st.RequestShot()
			h.p.step(ctx)
			test.That(t, h.p.State(), test.ShouldEqual, Firing)

			// arm released
			h.sw.SetPressed(false)
			h.p.step(ctx)
			test.That(t, h.p.State(), test.ShouldEqual, Retracting)
			test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)
			h.p.step(ctx)
			test.That(t, h.p.State(), test.ShouldEqual, Retracting)
			test.That(t, h.m.PowerPct(), test.ShouldEqual, -1.0)

			// re-cocked
			h.sw.SetPressed(true)
			h.p.step(ctx)
			test.That(t, h.p.State(), test.ShouldEqual, Idle)
			test.That(t, h.m.PowerPct(), test.ShouldEqual, 0.0)
			test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)
			test.That(t, h.m.History(), test.ShouldResemble, []float64{0, -1, 0})
		})
	}
}

func TestSwitchConfirmedKeepsRequestUntilRelease(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, SwitchConfirmedFire)

	h.st.RequestShot()
	test.That(t, h.p.step(ctx), test.ShouldEqual, DefaultPollInterval)
	test.That(t, h.p.State(), test.ShouldEqual, Firing)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeTrue)

	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Firing)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeTrue)

	h.sw.SetPressed(false)
	h.p.step(ctx)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)
	test.That(t, h.p.State(), test.ShouldEqual, Retracting)
}

func TestRequestWhileRetractingFiresOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, SettleDelayFire)

	h.sw.SetPressed(false)
	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Retracting)

	// repeated requests collapse into one
	h.st.RequestShot()
	h.st.RequestShot()
	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Retracting)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeTrue)

	h.sw.SetPressed(true)
	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Firing)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)

	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Idle)
	test.That(t, h.m.History(), test.ShouldResemble, []float64{-1, 0})
}

func TestInstantFire(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, SettleDelayFire)

	h.st.InstantFire.Store(true)
	for _, pressed := range []bool{true, false, true} {
		h.sw.SetPressed(pressed)
		h.st.RequestShot()
		test.That(t, h.p.step(ctx), test.ShouldEqual, DefaultPollInterval)
		test.That(t, h.p.State(), test.ShouldEqual, InstantFire)
		test.That(t, h.m.PowerPct(), test.ShouldEqual, 1.0)
		test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)
	}
	test.That(t, h.m.History(), test.ShouldResemble, []float64{1})

	// back to normal arbitration from the switch
	h.st.InstantFire.Store(false)
	h.sw.SetPressed(false)
	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Retracting)
	test.That(t, h.m.PowerPct(), test.ShouldEqual, -1.0)
	h.sw.SetPressed(true)
	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Idle)
	test.That(t, h.m.PowerPct(), test.ShouldEqual, 0.0)
}

func TestWritesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, SettleDelayFire)
	for i := 0; i < 10; i++ {
		h.p.step(ctx)
	}
	test.That(t, h.m.History(), test.ShouldResemble, []float64{0})
}

func TestSuspendResume(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, SettleDelayFire)

	h.sw.SetPressed(false)
	h.p.step(ctx)
	test.That(t, h.m.PowerPct(), test.ShouldEqual, -1.0)

	h.p.Suspend()
	h.p.Suspend()
	test.That(t, h.p.State(), test.ShouldEqual, Suspended)
	test.That(t, h.m.PowerPct(), test.ShouldEqual, 0.0)
	h.st.RequestShot()
	h.p.step(ctx)
	test.That(t, h.p.State(), test.ShouldEqual, Suspended)
	test.That(t, h.m.PowerPct(), test.ShouldEqual, 0.0)

	h.p.Resume()
	test.That(t, h.p.State(), test.ShouldEqual, Idle)
	h.sw.SetPressed(true)
	h.st.ShotRequested.Store(false)
	h.m.ResetHistory()
	h.p.step(ctx)
	// the first write after resuming is forced even though the power did not change
	test.That(t, h.m.History(), test.ShouldResemble, []float64{0})
	test.That(t, h.p.State(), test.ShouldEqual, Idle)
}

func TestHardwareErrorsDoNotStopTheLoop(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	st := robot.NewState()

	var mu sync.Mutex
	var powers []float64
	failWrites := true
	m := &inject.Motor{}
	m.SetPowerFunc = func(ctx context.Context, powerPct float64) error {
		mu.Lock()
		defer mu.Unlock()
		if failWrites {
			return errors.New("motor unplugged")
		}
		powers = append(powers, powerPct)
		return nil
	}
	readErr := true
	sw := &inject.Switch{}
	sw.PressedFunc = func(ctx context.Context) (bool, error) {
		if readErr {
			return false, errors.New("switch unplugged")
		}
		return true, nil
	}

	p, err := New(m, sw, st, Config{}, logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, p.step(ctx), test.ShouldEqual, DefaultPollInterval)
	test.That(t, p.State(), test.ShouldEqual, Idle)

	readErr = false
	p.step(ctx)
	p.step(ctx)
	test.That(t, powers, test.ShouldBeEmpty)

	mu.Lock()
	failWrites = false
	mu.Unlock()
	p.step(ctx)
	test.That(t, powers, test.ShouldResemble, []float64{0})
}

func TestFailedFireKeepsRequest(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	st := robot.NewState()

	var powers []float64
	failWrites := true
	m := &inject.Motor{}
	m.SetPowerFunc = func(ctx context.Context, powerPct float64) error {
		if failWrites {
			return errors.New("motor unplugged")
		}
		powers = append(powers, powerPct)
		return nil
	}
	sw := fakeswitch.NewSwitch(limitswitch.Named("limit"))
	sw.SetPressed(true)

	p, err := New(m, sw, st, Config{Policy: SettleDelayFire}, logger)
	test.That(t, err, test.ShouldBeNil)

	st.RequestShot()
	test.That(t, p.step(ctx), test.ShouldEqual, DefaultPollInterval)
	test.That(t, st.ShotRequested.Load(), test.ShouldBeTrue)
	test.That(t, p.State(), test.ShouldNotEqual, Firing)

	failWrites = false
	test.That(t, p.step(ctx), test.ShouldEqual, DefaultSettleDelay)
	test.That(t, st.ShotRequested.Load(), test.ShouldBeFalse)
	test.That(t, p.State(), test.ShouldEqual, Firing)
	test.That(t, powers, test.ShouldResemble, []float64{-1})
}

func TestLoop(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	h := newHarness(t, SettleDelayFire, WithClock(mock))

	test.That(t, h.p.Policy(), test.ShouldEqual, SettleDelayFire)
	h.p.Start(ctx)
	h.p.Start(ctx)

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, h.m.History(), test.ShouldResemble, []float64{0})
	})

	h.st.RequestShot()
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(DefaultPollInterval)
		test.That(tb, h.p.State(), test.ShouldEqual, Firing)
	})
	test.That(t, h.m.PowerPct(), test.ShouldEqual, -1.0)
	test.That(t, h.st.ShotRequested.Load(), test.ShouldBeFalse)

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(DefaultSettleDelay)
		test.That(tb, h.p.State(), test.ShouldEqual, Idle)
	})
	test.That(t, h.m.PowerPct(), test.ShouldEqual, 0.0)

	test.That(t, h.p.Close(ctx), test.ShouldBeNil)
	test.That(t, h.p.Close(ctx), test.ShouldBeNil)
}

func TestCloseWithoutStart(t *testing.T) {
	h := newHarness(t, SettleDelayFire)
	test.That(t, h.p.Close(context.Background()), test.ShouldBeNil)
	h.p.Start(context.Background())
	test.That(t, h.m.History(), test.ShouldResemble, []float64{0})
}

func TestFromRobot(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := fakemotor.NewMotor(motor.Named("puncher"), logger)
	sw := fakeswitch.NewSwitch(limitswitch.Named("limit"))
	r := robot.FromResources(map[resource.Name]resource.Resource{m.Name(): m, sw.Name(): sw}, logger)

	p, err := FromRobot(r, robot.NewState(), Config{Motor: "puncher", LimitSwitch: "limit"}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Prepare(context.Background()), test.ShouldBeNil)
	test.That(t, m.BrakeMode(), test.ShouldEqual, motor.BrakeModeHold)

	_, err = FromRobot(r, robot.NewState(), Config{Motor: "limit", LimitSwitch: "limit"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = FromRobot(r, robot.NewState(), Config{Motor: "puncher", LimitSwitch: "nope"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
