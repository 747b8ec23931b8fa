package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGetWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(40)
	window.Append(50)
	window.Append(60)
	window.Append(70)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 60.0, avg)
}

func TestGetWindowAvg_Empty(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 0.0, avg)
}
