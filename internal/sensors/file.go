package sensors

import (
	"fmt"
	"github.com/markusressel/pwmfan/internal/util"
)

// milliDegreesPerDegree is the scale used by the kernel thermal zone interface
const milliDegreesPerDegree = 1000.0

// FileSensor reads a temperature in milli-degrees Celsius from a file,
// e.g. /sys/class/thermal/thermal_zone0/temp
type FileSensor struct {
	Path string `json:"path"`
}

func (sensor FileSensor) GetId() string {
	return SourceFile
}

// GetValue returns the current temperature in degrees Celsius
func (sensor FileSensor) GetValue() (float64, error) {
	value, err := util.ReadFloatFromFile(sensor.Path)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return value / milliDegreesPerDegree, nil
}
