//go:build !linux

package fans

import "errors"

func openLine(chip string, offset int) (outputLine, error) {
	return nil, errors.New("gpio character device is only supported on linux")
}
