package io

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drivetrain/pkg/errors"
	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// ReadOptions decodes a TOML tuning file over the default pass options.
func ReadOptions(r io.Reader) (scheme.Options, error) {
	opts := scheme.DefaultOptions()
	md, err := toml.NewDecoder(r).Decode(&opts)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode tuning")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errors.New(errors.ErrCodeInvalidConfig, "unknown tuning keys: %s", strings.Join(keys, ", "))
	}
	return opts, nil
}

// LoadOptions reads a tuning file. An empty path yields the defaults.
func LoadOptions(path string) (scheme.Options, error) {
	if path == "" {
		return scheme.DefaultOptions(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return scheme.DefaultOptions(), errors.Wrap(errors.ErrCodeFileNotFound, err, "tuning %s", path)
		}
		return scheme.DefaultOptions(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()
	return ReadOptions(f)
}

// WriteOptions encodes options as TOML, e.g. for `config show`.
func WriteOptions(w io.Writer, opts scheme.Options) error {
	if err := toml.NewEncoder(w).Encode(opts); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tuning")
	}
	return nil
}
