package source

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/sourceflow/pkg/errors"
)

// LoadFile loads a sources configuration from a YAML or TOML file. The
// file's top-level mapping is the configuration itself: source keys mapped
// to definitions. The format is chosen by extension (.yaml/.yml/.toml).
func LoadFile(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".toml":
		return loadTOML(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported config format %q: use .yaml, .yml or .toml", filepath.Ext(path))
	}
}

func loadYAML(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load sources config %s", path)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse sources config %s", path)
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}

func loadTOML(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load sources config %s", path)
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}
