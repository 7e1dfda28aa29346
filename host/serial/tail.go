package serial

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"potservo/core"
)

// Line is one debug line printed by the firmware
type Line struct {
	Received time.Time
	Text     string

	// Timing is set for "[TIMING] NAME clock=.. v1=.. v2=.." lines
	Timing *core.TimingEvent
}

// Tail reads newline-terminated debug output from r and calls fn for each
// non-empty line until r is exhausted, fn returns an error, or done closes.
// Read timeouts from the port are not treated as the end of the stream.
func Tail(r io.Reader, done <-chan struct{}, fn func(Line) error) error {
	reader := bufio.NewReader(r)
	var partial strings.Builder

	for {
		select {
		case <-done:
			return nil
		default:
		}

		chunk, err := reader.ReadString('\n')
		partial.WriteString(chunk)

		if strings.HasSuffix(chunk, "\n") {
			text := strings.TrimRight(partial.String(), "\r\n")
			partial.Reset()
			if text != "" {
				line := Line{Received: time.Now(), Text: text}
				if evt, ok := ParseTiming(text); ok {
					line.Timing = &evt
				}
				if ferr := fn(line); ferr != nil {
					return ferr
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrNoProgress) {
				// tarm/serial reports a read timeout as io.EOF with no data
				if isTimeoutReader(r) {
					continue
				}
				return nil
			}
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return err
		}
	}
}

// isTimeoutReader reports whether r is a serial port, whose empty reads
// mean "nothing yet" rather than end of stream.
func isTimeoutReader(r io.Reader) bool {
	_, ok := r.(Port)
	return ok
}

// ParseTiming decodes a timing ring dump line written by core.DumpTimingRing
func ParseTiming(text string) (core.TimingEvent, bool) {
	const prefix = "[TIMING] "
	if !strings.HasPrefix(text, prefix) {
		return core.TimingEvent{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) != 4 {
		return core.TimingEvent{}, false
	}

	evt := core.TimingEvent{EventType: eventCode(fields[0])}
	if evt.EventType == 0 {
		return core.TimingEvent{}, false
	}
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return core.TimingEvent{}, false
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return core.TimingEvent{}, false
		}
		switch key {
		case "clock":
			evt.Clock = uint32(n)
		case "v1":
			evt.Value1 = uint32(n)
		case "v2":
			evt.Value2 = uint32(n)
		default:
			return core.TimingEvent{}, false
		}
	}
	return evt, true
}

func eventCode(name string) uint8 {
	for code := uint8(core.EvtFrame); code <= core.EvtStall; code++ {
		if core.TimingEventName(code) == name {
			return code
		}
	}
	return 0
}
