package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/drivetrain/pkg/errors"
	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// WriteScene encodes a scene as indented JSON.
func WriteScene(w io.Writer, sc *scheme.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// ReadScene decodes a scene written by WriteScene.
func ReadScene(r io.Reader) (*scheme.Scene, error) {
	var sc scheme.Scene
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	return &sc, nil
}

// ExportScene writes a scene to a JSON file at path.
func ExportScene(sc *scheme.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteScene(f, sc)
}

// ImportScene reads a scene file written by ExportScene.
func ImportScene(path string) (*scheme.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadScene(f)
}
