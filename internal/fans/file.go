package fans

import (
	"fmt"
	"github.com/markusressel/pwmfan/internal/util"
	"github.com/mitchellh/go-homedir"
	"os"
	"path/filepath"
	"sync"
)

// FileFan writes the duty cycle percentage to a file.
// Useful for dry runs and for fans driven by some other process.
type FileFan struct {
	Path string `json:"path"`

	mu        sync.Mutex
	open      bool
	released  bool
	dutyCycle float64
}

func NewFileFan(path string) *FileFan {
	return &FileFan{Path: path}
}

func (fan *FileFan) GetId() string {
	return "file:" + fan.Path
}

func (fan *FileFan) Open() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	path, err := homedir.Expand(fan.Path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fan %s: %s is not a directory", fan.GetId(), dir)
	}

	fan.open = true
	return nil
}

func (fan *FileFan) SetDutyCycle(percent float64) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.released {
		return ErrReleased
	}
	if !fan.open {
		return ErrNotOpen
	}

	percent = util.ClampDutyCycle(percent)
	err := util.WriteFloatToFileAtomic(percent, fan.Path)
	if err != nil {
		return fmt.Errorf("fan %s: unable to write duty cycle: %w", fan.GetId(), err)
	}
	fan.dutyCycle = percent
	return nil
}

func (fan *FileFan) GetDutyCycle() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.dutyCycle
}

func (fan *FileFan) Release() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.open = false
	fan.released = true
	return nil
}
