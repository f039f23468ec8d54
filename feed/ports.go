package feed

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.bug.st/serial"
)

// OpenPort opens a serial device carrying the touch panel's trace output.
func OpenPort(path string) (io.Reader, func(), error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: 115200,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open serial port %s: %w", path, err)
	}

	closer := func() {
		if err := port.Close(); err != nil {
			slog.Error("could not close serial port", "path", path, "error", err)
		}
	}

	// TODO make this configurable.
	port.SetReadTimeout(10 * time.Hour)

	return port, closer, nil
}

// ReadLines scans r line by line into a channel, closing it on EOF.
func ReadLines(r io.Reader) <-chan string {
	ch := make(chan string)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			slog.Error("trace read ended with error", "error", err)
		}
	}()

	return ch
}

// GetAvailableDevices lists serial ports that look like a touch panel
// bridge.
func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	result := make([]string, 0)

	for _, n := range names {
		if strings.Contains(n, "usbmodem") || strings.Contains(n, "ttyACM") {
			result = append(result, n)
		}
	}

	if len(result) == 0 {
		return names, nil
	}

	return result, nil
}
