package capture

import (
	"strings"
	"testing"
)

func TestErrDeviceIndexOutOfRangeMessage(t *testing.T) {
	err := errDeviceIndexOutOfRange(5, 3)
	if !strings.Contains(err.Error(), "5") || !strings.Contains(err.Error(), "3") {
		t.Errorf("error message %q missing index/count", err.Error())
	}
}

func TestErrDeviceNameNotFoundMessage(t *testing.T) {
	err := errDeviceNameNotFound("usb mic")
	if !strings.Contains(err.Error(), "usb mic") {
		t.Errorf("error message %q missing device name", err.Error())
	}
}

func TestErrDeviceTypeMessage(t *testing.T) {
	err := errDeviceType(3.14)
	if !strings.Contains(err.Error(), "float64") {
		t.Errorf("error message %q missing the offending type", err.Error())
	}
}
