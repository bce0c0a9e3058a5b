package capture

import "fmt"

func errDeviceIndexOutOfRange(idx, count int) error {
	return fmt.Errorf("device index %d out of range (have %d devices)", idx, count)
}

func errDeviceNameNotFound(name string) error {
	return fmt.Errorf("could not find input device containing name: %s", name)
}

func errDeviceType(v any) error {
	return fmt.Errorf("audio.device must be int, string, or nil, got %T", v)
}
