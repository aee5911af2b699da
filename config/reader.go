package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/tapsense/logging"
	"go.viam.com/tapsense/utils"
)

// Read reads a config from the given file. Environment variables in the file (`${VAR}`) are
// substituted before decoding.
func Read(ctx context.Context, filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", filePath)
	}
	logger.CDebugw(ctx, "read config file", "path", filePath, "bytes", len(buf))
	return fromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(ctx context.Context, originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	logger.CDebugw(ctx, "decoding config", "path", originalPath)
	return fromReader(originalPath, r)
}

func fromReader(originalPath string, r io.Reader) (*Config, error) {
	var raw utils.AttributeMap
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}

	cfg := &Config{}
	if _, err := utils.TransformAttributeMapToStruct(cfg, raw); err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = originalPath

	if err := cfg.Ensure(); err != nil {
		return nil, err
	}
	return cfg, nil
}
