package record

import (
	"bufio"
	"encoding/json"
	"io"
	"time"
)

type replayOpts struct {
	maxSleep time.Duration
}

// ReplayOpt changes options for playback.
type ReplayOpt func(*replayOpts)

// MaxSleep sets the maximum duration that Replay will sleep between events.
func MaxSleep(duration time.Duration) ReplayOpt {
	return func(r *replayOpts) {
		r.maxSleep = duration
	}
}

// Replay plays a recording to destination, pausing between events to mimic
// the original timing. Input events are dropped; only what the terminal
// displayed is reproduced.
func Replay(recording io.Reader, destination io.Writer, opts ...ReplayOpt) error {
	options := &replayOpts{
		maxSleep: 3 * time.Second,
	}
	for _, o := range opts {
		o(options)
	}

	source := newSource(recording)
	var prevSeconds float64
	first := true
	for {
		line, err := source.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if line.EventType != "o" {
			continue
		}

		if first {
			prevSeconds = line.TimeSeconds
			first = false
		}
		sleep := time.Duration((line.TimeSeconds - prevSeconds) * float64(time.Second))
		if sleep > options.maxSleep {
			sleep = options.maxSleep
		}
		if sleep > 0 {
			time.Sleep(sleep)
		}
		prevSeconds = line.TimeSeconds

		if _, err := io.WriteString(destination, line.EventData); err != nil {
			return err
		}
	}
}

type source struct {
	r         *bufio.Reader
	sawHeader bool
}

func newSource(r io.Reader) *source {
	return &source{r: bufio.NewReader(r)}
}

// next returns the next event line, skipping the header and blanks. It
// returns io.EOF when the recording is exhausted.
func (s *source) next() (*eventLine, error) {
	if !s.sawHeader {
		s.sawHeader = true
		if _, err := s.r.ReadBytes('\n'); err != nil {
			return nil, err
		}
	}

	for {
		raw, err := s.r.ReadBytes('\n')
		if err != nil {
			return nil, err
		}
		if len(raw) == 1 {
			continue
		}

		var line eventLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, err
		}
		return &line, nil
	}
}
