package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecmodp/pkg/session"
)

// writeYAML writes v to path, readable by the owner only since key files
// may carry the private scalar.
func writeYAML(path string, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding YAML")
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func readParams(path string) (session.ParamsTuple, error) {
	var t session.ParamsTuple
	err := readYAML(path, &t)
	return t, err
}

func readKey(path string) (session.KeyTuple, error) {
	var t session.KeyTuple
	err := readYAML(path, &t)
	return t, err
}

func readYAML(path string, v interface{}) error {
	in, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if err := yaml.Unmarshal(in, v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}
