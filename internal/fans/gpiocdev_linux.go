//go:build linux

package fans

import (
	"github.com/warthog618/go-gpiocdev"
)

// openLine requests the given line of the GPIO chip as an output, initially low
func openLine(chip string, offset int) (outputLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(gpioConsumer),
	)
	if err != nil {
		return nil, err
	}
	return line, nil
}
