// Package robot holds the robot's resources, the actuator state shared by its control loops,
// and the supervisor that runs those loops for each competition mode.
package robot

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/ironcladrobotics/puncherbot/resource"
)

// A Robot owns every configured component.
type Robot struct {
	mu        sync.Mutex
	resources map[resource.Name]resource.Resource
	// order is construction order; resources close in reverse.
	order  []resource.Name
	logger golog.Logger
}

// New constructs every component in dependency order. If any construction fails, the ones
// already built are closed.
func New(ctx context.Context, confs []resource.Config, logger golog.Logger) (_ *Robot, err error) {
	r := &Robot{resources: map[resource.Name]resource.Resource{}, logger: logger}
	defer func() {
		if err != nil {
			err = multierr.Combine(err, r.Close(ctx))
		}
	}()

	for i := range confs {
		if err := confs[i].Validate(fmt.Sprintf("components.%d", i)); err != nil {
			return nil, err
		}
	}
	ordered, err := sortByDependencies(confs)
	if err != nil {
		return nil, err
	}

	byShortName := map[string]resource.Name{}
	for _, conf := range confs {
		byShortName[conf.Name] = conf.ResourceName()
	}

	for _, conf := range ordered {
		deps := resource.Dependencies{}
		for _, dep := range conf.Dependencies() {
			name := byShortName[dep]
			deps[name] = r.resources[name]
		}
		res, err := r.newResource(ctx, deps, conf)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s", conf.ResourceName())
		}
		r.resources[conf.ResourceName()] = res
		r.order = append(r.order, conf.ResourceName())
		logger.Debugw("resource ready", "resource", conf.ResourceName(), "model", conf.Model)
	}
	return r, nil
}

func (r *Robot) newResource(ctx context.Context, deps resource.Dependencies, conf resource.Config) (res resource.Resource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(errors.Errorf("%v", r), "panic creating resource")
		}
	}()
	reg, ok := resource.LookupRegistration(conf.API, conf.Model)
	if !ok {
		return nil, resource.NewNotRegisteredError(conf.API, conf.Model)
	}
	return reg.Constructor(ctx, deps, conf, r.logger.Named(conf.ResourceName().String()))
}

// sortByDependencies orders configs so each comes after everything it depends on, keeping
// the config order otherwise.
func sortByDependencies(confs []resource.Config) ([]resource.Config, error) {
	dupes := lo.FindDuplicates(lo.Map(confs, func(conf resource.Config, _ int) string { return conf.Name }))
	if len(dupes) != 0 {
		return nil, errors.Errorf("component names must be unique, found duplicates %v", dupes)
	}
	byName := lo.KeyBy(confs, func(conf resource.Config) string { return conf.Name })

	const (
		unvisited = iota
		visiting
		done
	)
	marks := map[string]int{}
	var ordered []resource.Config
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch marks[name] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("circular dependency: %v", append(path, name))
		default:
		}
		conf, ok := byName[name]
		if !ok {
			return errors.Errorf("%s depends on %q, which is not configured", path[len(path)-1], name)
		}
		marks[name] = visiting
		for _, dep := range conf.Dependencies() {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		marks[name] = done
		ordered = append(ordered, conf)
		return nil
	}
	for _, conf := range confs {
		if err := visit(conf.Name, nil); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// FromResources creates a robot from already constructed resources. Used by tests.
func FromResources(resources map[resource.Name]resource.Resource, logger golog.Logger) *Robot {
	r := &Robot{resources: map[resource.Name]resource.Resource{}, logger: logger}
	for name, res := range resources {
		r.resources[name] = res
		r.order = append(r.order, name)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i].String() < r.order[j].String() })
	return r
}

// ResourceByName returns the named resource.
func (r *Robot) ResourceByName(name resource.Name) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[name]
	if !ok {
		return nil, resource.NewNotFoundError(name)
	}
	return res, nil
}

// ResourceNames returns the names of every resource, sorted.
func (r *Robot) ResourceNames() []resource.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := lo.Keys(r.resources)
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })
	return names
}

// Logger returns the robot's logger.
func (r *Robot) Logger() golog.Logger {
	return r.logger
}

// Close closes every resource, dependents first.
func (r *Robot) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if closeErr := r.resources[name].Close(ctx); closeErr != nil {
			err = multierr.Combine(err, errors.Wrapf(closeErr, "failed to close %s", name))
		}
		delete(r.resources, name)
	}
	r.order = nil
	return err
}

// ResourceFromRobot returns the named resource typed as T.
func ResourceFromRobot[T resource.Resource](r *Robot, name resource.Name) (T, error) {
	var zero T
	res, err := r.ResourceByName(name)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, resource.DependencyTypeError[T](name, res)
	}
	return typed, nil
}
