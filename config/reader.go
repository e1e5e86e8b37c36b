package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ironcladrobotics/puncherbot/resource"
)

// Read reads a config from the given file. Environment variables in the file are expanded
// first.
func Read(
	ctx context.Context,
	filePath string,
	logger golog.Logger,
) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger golog.Logger,
) (*Config, error) {
	var data configData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}

	cfg := &Config{ConfigFilePath: originalPath, Components: data.Components}
	sections := []struct {
		name string
		from map[string]interface{}
		to   interface{}
	}{
		{"puncher", data.Puncher, &cfg.Puncher},
		{"teleop", data.Teleop, &cfg.Teleop},
		{"autonomous", data.Autonomous, &cfg.Autonomous},
	}
	for _, section := range sections {
		if err := resource.DecodeJSONTagged(section.from, section.to); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", section.name)
		}
	}

	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrap(err, "failed to process Config")
	}
	logger.Debugw("config read", "path", originalPath, "components", len(cfg.Components))
	return cfg, nil
}
