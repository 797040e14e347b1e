package config

import (
	"errors"
	"io/fs"
	"os"

	"go-drummer/sequencer"
)

// FactoryBank is the bank name Init writes the built-in patterns under
const FactoryBank = "factory"

// Init writes the default config and the factory pattern bank under
// ConfigDir so they can be edited. Files that already exist are left
// alone. It returns the paths it wrote.
func Init() ([]string, error) {
	var written []string

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if ok, err := missing(path); err != nil {
		return nil, err
	} else if ok {
		if err := DefaultConfig().Save(); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path, err = ResolvePatterns(FactoryBank)
	if err != nil {
		return written, err
	}
	if ok, err := missing(path); err != nil {
		return written, err
	} else if ok {
		if err := SavePatterns(path, FactoryBank, sequencer.DefaultPatterns()); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func missing(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, err
}
