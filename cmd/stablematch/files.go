// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/stablematch/prefs"
)

// matchingDoc is the YAML form of a matching plus run statistics.
type matchingDoc struct {
	Matching   []prefs.Pair `yaml:"matching"`
	Strategy   string       `yaml:"strategy,omitempty"`
	Rounds     int          `yaml:"rounds,omitempty"`
	Proposals  int          `yaml:"proposals,omitempty"`
	Rejections int          `yaml:"rejections,omitempty"`
}

func readInstance(path string) (prefs.Instance, error) {
	var inst prefs.Instance
	if err := readYAML(path, &inst); err != nil {
		return inst, err
	}

	return inst, nil
}

func readMatching(path string) (prefs.Matching, error) {
	var doc matchingDoc
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}

	return prefs.FromPairs(doc.Matching), nil
}

func readYAML(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err = yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// writeYAML encodes v to path, or to w when path is empty or "-". A failing
// close of path is reported when encoding succeeded.
func writeYAML(w io.Writer, path string, v any) (err error) {
	if path != "" && path != "-" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("create %s: %w", path, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", path, cerr)
			}
		}()
		w = f
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return enc.Close()
}
