package util

import (
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFloatFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(filePath, []byte("45000\n"), 0o644)
	assert.NoError(t, err)

	// WHEN
	result, err := ReadFloatFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 45000.0, result)
}

func TestReadFloatFromFile_Fraction(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(filePath, []byte(" 42.5 "), 0o644)
	assert.NoError(t, err)

	// WHEN
	result, err := ReadFloatFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 42.5, result)
}

func TestReadFloatFromFile_Empty(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(filePath, []byte("\n"), 0o644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadFloatFromFile(filePath)

	// THEN
	assert.Error(t, err)
}

func TestReadFloatFromFile_Garbage(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(filePath, []byte("hot"), 0o644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadFloatFromFile(filePath)

	// THEN
	assert.Error(t, err)
}

func TestReadFloatFromFile_Missing(t *testing.T) {
	// WHEN
	_, err := ReadFloatFromFile(filepath.Join(t.TempDir(), "does-not-exist"))

	// THEN
	assert.Error(t, err)
}

func TestWriteFloatToFileAtomic(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "pwm")

	// WHEN
	err := WriteFloatToFileAtomic(37.5, filePath)

	// THEN
	assert.NoError(t, err)
	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "37.5", string(data))

	// WHEN
	err = WriteFloatToFileAtomic(100, filePath)

	// THEN
	assert.NoError(t, err)
	data, err = os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "100", string(data))
}
