package resource

import (
	"github.com/pkg/errors"
)

// NewNotFoundError is used when a resource is not found.
func NewNotFoundError(name Name) error {
	return errors.Errorf("resource %q not found", name)
}

// NewNotRegisteredError is used when no constructor is registered for an API and model.
func NewNotRegisteredError(api API, model Model) error {
	return errors.Errorf("no %s registered for model %q (known models: %v)", api, model, RegisteredModels(api))
}

// DependencyTypeError is used when a resource doesn't implement the expected interface.
func DependencyTypeError[T any](name Name, actual interface{}) error {
	return errors.Errorf("dependency %q should be an implementation of %T but it was a %T", name, *new(T), actual)
}

// NewConfigValidationFieldRequiredError is used when a required config field is missing.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return errors.Errorf("%s: %q is required", path, field)
}

// NewConfigValidationError is used when a config field holds an invalid value.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}
