package util

import (
	"fmt"
	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadFloatFromFile reads the whole file at the given path and parses its trimmed content as a float
func ReadFloatFromFile(path string) (value float64, err error) {
	path, err = homedir.Expand(path)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return 0, fmt.Errorf("file is empty: %s", path)
	}
	value, err = strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse content of %s: %w", path, err)
	}
	return value, nil
}

// WriteFloatToFileAtomic replaces the content of the given file with the given value,
// so readers never observe a partially written value.
func WriteFloatToFileAtomic(value float64, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	valueAsString := FormatDutyCycle(value)
	return atomic.WriteFile(path, strings.NewReader(valueAsString))
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
