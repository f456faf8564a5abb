// Package record captures interactive sessions in the asciicast v2 format
// and plays them back.
//
// See: https://github.com/asciinema/asciinema/blob/develop/doc/asciicast-v2.md
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// FileExt holds the suggested file extension for recordings.
const FileExt = "cast"

func writeJSONLine(w io.Writer, structure interface{}) error {
	line, err := json.Marshal(structure)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", string(line))
	return err
}

// Recorder streams terminal I/O to a writer as asciicast events. The header
// is written with the first event so timestamps start at the first
// interaction.
type Recorder struct {
	mu          sync.Mutex
	out         io.Writer
	start       time.Time
	wroteHeader bool
	err         error
}

// NewRecorder returns a recorder writing asciicast lines to out.
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

// Input wraps in so everything read through it is recorded as terminal
// input.
func (r *Recorder) Input(in io.Reader) io.Reader {
	return &recordReader{recorder: r, wrapped: in}
}

// Output wraps out so everything written through it is recorded as terminal
// output.
func (r *Recorder) Output(out io.Writer) io.Writer {
	return &recordWriter{recorder: r, wrapped: out}
}

// Err reports the first failure encountered while recording. The session
// itself is never interrupted by recording failures.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) record(eventType string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.wroteHeader {
		r.wroteHeader = true
		r.start = time.Now()

		// Generic settings that should work to display most outputs.
		headerErr := writeJSONLine(r.out, map[string]interface{}{
			"version":   2,
			"width":     80,
			"height":    24,
			"timestamp": r.start.Unix(),
			"title":     "pjsh session",
			"env": map[string]interface{}{
				"TERM":  "xterm-256color",
				"SHELL": "/bin/pjsh",
			},
		})
		if headerErr != nil && r.err == nil {
			r.err = headerErr
		}
	}

	line := &eventLine{
		TimeSeconds: time.Since(r.start).Seconds(),
		EventType:   eventType,
		EventData:   string(data),
	}
	if err := writeJSONLine(r.out, line); err != nil && r.err == nil {
		r.err = err
	}
}

type recordReader struct {
	recorder *Recorder
	wrapped  io.Reader
}

func (rc *recordReader) Read(p []byte) (int, error) {
	amount, err := rc.wrapped.Read(p)
	if amount > 0 {
		rc.recorder.record("i", p[:amount])
	}
	return amount, err
}

type recordWriter struct {
	recorder *Recorder
	wrapped  io.Writer
}

func (rc *recordWriter) Write(p []byte) (int, error) {
	amount, err := rc.wrapped.Write(p)
	if amount > 0 {
		rc.recorder.record("o", p[:amount])
	}
	return amount, err
}

type eventLine struct {
	TimeSeconds float64
	EventType   string
	EventData   string
}

func (line *eventLine) UnmarshalJSON(data []byte) error {
	var v []interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if count := len(v); count != 3 {
		return fmt.Errorf("malformed line, expected 3 entries got %d", count)
	}

	var timeOk, typeOk, dataOk bool
	line.TimeSeconds, timeOk = v[0].(float64)
	line.EventType, typeOk = v[1].(string)
	line.EventData, dataOk = v[2].(string)

	if !timeOk || !typeOk || !dataOk {
		return fmt.Errorf("malformed data in line: %q", v)
	}

	return nil
}

func (line *eventLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{line.TimeSeconds, line.EventType, line.EventData})
}
