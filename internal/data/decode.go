package data

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// decodeStrict reads path into out. Keys that out does not declare are
// schema errors.
func decodeStrict(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse %s: %w: %v", path, ErrSchema, err)
	}
	return nil
}
