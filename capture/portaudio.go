package capture

import (
	"strings"

	"github.com/gordonklaus/portaudio"

	"lyricsync/internal/apperr"
)

// PortAudioSource is the reference Capture implementation, grounded on
// media-luna's MicrophoneRecorder stream setup. Unlike the recorder it's
// modeled on, it owns no audio buffer itself — it only opens the device
// and forwards fixed-size blocks to the caller's callback, leaving
// buffering to liveaudio.RollingBuffer.
type PortAudioSource struct{}

// portAudioStream adapts *portaudio.Stream to the Stream interface.
type portAudioStream struct {
	stream *portaudio.Stream
}

func (s *portAudioStream) Stop() error {
	if err := s.stream.Stop(); err != nil {
		return apperr.Capture("stopping capture stream", err)
	}
	return s.stream.Close()
}

// Open resolves device (int index, name substring, or nil for default),
// opens a mono input stream at sampleRate with blockSize frames per
// buffer, and starts it immediately.
func (PortAudioSource) Open(sampleRate, blockSize int, device any, cb Callback) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, apperr.Capture("initializing portaudio", err)
	}

	dev, err := resolveDevice(device)
	if err != nil {
		portaudio.Terminate()
		return nil, apperr.Capture("resolving input device", err)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: blockSize,
	}

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		cb(in)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, apperr.Capture("opening audio stream", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, apperr.Capture("starting audio stream", err)
	}

	return &portAudioStream{stream: stream}, nil
}

// resolveDevice turns a device selector into a concrete device: nil means
// the platform default, an int is a device index, and a string is
// matched as a case-insensitive substring against every input-capable
// device's name.
func resolveDevice(device any) (*portaudio.DeviceInfo, error) {
	switch d := device.(type) {
	case nil:
		return portaudio.DefaultInputDevice()

	case int:
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		if d < 0 || d >= len(devices) {
			return nil, errDeviceIndexOutOfRange(d, len(devices))
		}
		return devices[d], nil

	case string:
		want := strings.ToLower(strings.TrimSpace(d))
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		for _, info := range devices {
			if info.MaxInputChannels > 0 && strings.Contains(strings.ToLower(info.Name), want) {
				return info, nil
			}
		}
		return nil, errDeviceNameNotFound(d)

	default:
		return nil, errDeviceType(device)
	}
}
