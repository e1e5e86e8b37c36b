package resource

import (
	"context"
	"sort"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// Create creates a resource (component/service) from a collection of dependencies and a given config.
type Create[ResourceT Resource] func(
	ctx context.Context,
	deps Dependencies,
	conf Config,
	logger golog.Logger,
) (ResourceT, error)

// AttributeMapConverter converts raw attributes to the resource's native config.
type AttributeMapConverter[ConfigT ConfigValidator] func(attributes map[string]interface{}) (ConfigT, error)

// A Registration stores construction info for a resource.
type Registration[ResourceT Resource, ConfigT ConfigValidator] struct {
	Constructor Create[ResourceT]

	// AttributeMapConverter is used to convert raw attributes to the resource's native config.
	AttributeMapConverter AttributeMapConverter[ConfigT]
}

// APIModel uniquely identifies a registration.
type APIModel struct {
	API   API
	Model Model
}

var (
	registryMu sync.RWMutex
	registry   = map[APIModel]Registration[Resource, ConfigValidator]{}
)

// RegisterComponent registers a model for a component and its construction info. If no
// AttributeMapConverter is given, attributes are decoded into ConfigT by their json tags.
func RegisterComponent[ResourceT Resource, ConfigT ConfigValidator](
	api API,
	model Model,
	reg Registration[ResourceT, ConfigT],
) {
	registryMu.Lock()
	defer registryMu.Unlock()

	apiModel := APIModel{api, model}
	if _, old := registry[apiModel]; old {
		panic(errors.Errorf("trying to register two resources with same api: %q, model: %q", api, model))
	}
	if reg.Constructor == nil {
		panic(errors.Errorf("cannot register a nil constructor for api: %q, model: %q", api, model))
	}

	converter := reg.AttributeMapConverter
	if converter == nil {
		converter = TransformAttributeMap[ConfigT]
	}
	registry[apiModel] = Registration[Resource, ConfigValidator]{
		Constructor: func(ctx context.Context, deps Dependencies, conf Config, logger golog.Logger) (Resource, error) {
			return reg.Constructor(ctx, deps, conf, logger)
		},
		AttributeMapConverter: func(attributes map[string]interface{}) (ConfigValidator, error) {
			return converter(attributes)
		},
	}
}

// DeregisterComponent removes a previously registered model. Used by tests.
func DeregisterComponent(api API, model Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, APIModel{api, model})
}

// LookupRegistration looks up a registration by the given API and model.
func LookupRegistration(api API, model Model) (Registration[Resource, ConfigValidator], bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	registration, ok := registry[APIModel{api, model}]
	return registration, ok
}

// RegisteredModels returns the sorted models registered for an API.
func RegisteredModels(api API) []Model {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var models []Model
	for apiModel := range registry {
		if apiModel.API == api {
			models = append(models, apiModel.Model)
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i] < models[j] })
	return models
}

// Dependencies are a set of resources that a resource requires for reconfiguration.
type Dependencies map[Name]Resource

// Lookup searches for a given dependency by name.
func (d Dependencies) Lookup(name Name) (Resource, error) {
	res, ok := d[name]
	if !ok {
		return nil, NewNotFoundError(name)
	}
	return res, nil
}

// FromDependencies returns a named resource from the given dependencies, typed as T.
func FromDependencies[T Resource](deps Dependencies, name Name) (T, error) {
	var zero T
	res, err := deps.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, DependencyTypeError[T](name, res)
	}
	return typed, nil
}
