// Package config loads an ecc.Config from defaults, an optional YAML file and
// ECMODP_ environment variables.
package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

// EnvPrefix is the prefix of environment overrides, e.g. ECMODP_BITS.
const EnvPrefix = "ECMODP"

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are consulted.
func Load(path string) (*ecc.Config, error) {
	v := viper.New()
	setDefaults(v, ecc.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	conf := &ecc.Config{}
	if err := v.Unmarshal(conf, viper.DecodeHook(decodeHook())); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return finish(conf)
}

// Decode builds a config from a generic map such as decoded JSON, using the
// same keys and value syntax as the YAML file ("30s" for durations). Keys
// not present keep their default values.
func Decode(raw map[string]interface{}) (*ecc.Config, error) {
	conf := ecc.DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           conf,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "decoding config: %s", err)
	}
	return finish(conf)
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func finish(conf *ecc.Config) (*ecc.Config, error) {
	conf.HashFamily = strings.ToUpper(conf.HashFamily)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, d *ecc.Config) {
	v.SetDefault("bits", d.Bits)
	v.SetDefault("millerRabinRounds", d.MillerRabinRounds)
	v.SetDefault("maxAttempts", d.MaxAttempts)
	v.SetDefault("generationTimeout", d.GenerationTimeout)
	v.SetDefault("hashFamily", d.HashFamily)
	v.SetDefault("logging.spec", d.Logging.Spec)
	v.SetDefault("logging.format", d.Logging.Format)
}
