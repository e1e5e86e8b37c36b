package resource

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"github.com/ironcladrobotics/puncherbot/utils"
)

// A Config describes the configuration of a resource.
type Config struct {
	Name      string   `json:"name"`
	API       API      `json:"type"`
	Model     Model    `json:"model"`
	DependsOn []string `json:"depends_on,omitempty"`

	Attributes          map[string]interface{} `json:"attributes,omitempty"`
	ConvertedAttributes ConfigValidator        `json:"-"`
	ImplicitDependsOn   []string               `json:"-"`
}

// A ConfigValidator validates a configuration and also
// returns dependencies that were implicitly discovered.
type ConfigValidator interface {
	Validate(path string) ([]string, error)
}

// NoNativeConfig is used for models that take no attributes.
type NoNativeConfig struct{}

// Validate always succeeds.
func (NoNativeConfig) Validate(path string) ([]string, error) {
	return nil, nil
}

// NativeConfig returns the native config from the given config via its
// converted attributes.
func NativeConfig[T any](conf Config) (T, error) {
	return utils.AssertType[T](conf.ConvertedAttributes)
}

// ResourceName returns the name of the resource this config describes.
func (conf *Config) ResourceName() Name {
	return NewName(conf.API, conf.Name)
}

// Dependencies returns the explicit and implicit dependencies of the resource.
func (conf *Config) Dependencies() []string {
	deps := make([]string, 0, len(conf.DependsOn)+len(conf.ImplicitDependsOn))
	deps = append(deps, conf.DependsOn...)
	deps = append(deps, conf.ImplicitDependsOn...)
	return deps
}

// Validate ensures all parts of the config are valid, converts the attributes
// through the model's registration, and records implicit dependencies.
func (conf *Config) Validate(path string) error {
	if conf.Name == "" {
		return NewConfigValidationFieldRequiredError(path, "name")
	}
	if conf.API == "" {
		return NewConfigValidationFieldRequiredError(path, "type")
	}
	if conf.Model == "" {
		return NewConfigValidationFieldRequiredError(path, "model")
	}

	reg, ok := LookupRegistration(conf.API, conf.Model)
	if !ok {
		return NewConfigValidationError(path, NewNotRegisteredError(conf.API, conf.Model))
	}
	if conf.ConvertedAttributes == nil && reg.AttributeMapConverter != nil {
		converted, err := reg.AttributeMapConverter(conf.Attributes)
		if err != nil {
			return NewConfigValidationError(path, err)
		}
		conf.ConvertedAttributes = converted
	}
	if conf.ConvertedAttributes == nil {
		return nil
	}
	deps, err := conf.ConvertedAttributes.Validate(path + ".attributes")
	if err != nil {
		return err
	}
	conf.ImplicitDependsOn = deps
	return nil
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format.
func TransformAttributeMap[T any](attributes map[string]interface{}) (T, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT == nil {
		// nothing to transform
		return out, nil
	}
	if toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	if err := DecodeJSONTagged(attributes, forResult); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeJSONTagged decodes a generic map into a json-tagged struct. Duration fields accept
// strings such as "250ms", and keys that do not map to a field are rejected.
func DecodeJSONTagged(from map[string]interface{}, to interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           to,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(from)
}
