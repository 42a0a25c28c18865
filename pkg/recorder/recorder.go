package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

const (
	defaultFilePrefix = "dass_log"
	fileNameTimeForm  = "20060102_150405"
	rowTimeForm       = "2006-01-02 15:04:05.000"
)

// Recorder appends acquisition rows to a CSV file, one file per session.
// Every row is flushed before Append returns, so a crash between ticks
// loses at most the in-flight row.
type Recorder struct {
	mux    sync.Mutex
	logDir string
	path   string
	file   *os.File
	writer *csv.Writer
}

func New(logDir string) *Recorder {
	return &Recorder{logDir: logDir}
}

// Start opens a new log file and writes the header row. A non-empty
// stem names the file <stem>.csv; otherwise the name is synthesized
// from the current time. Channel names are captured here and stay in
// the header even if they are renamed mid-session.
func (r *Recorder) Start(channelNames []string, stem string) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if err := os.MkdirAll(r.logDir, 0755); err != nil {
		return err
	}

	name := sanitizeStem(stem)
	if name == "" {
		name = defaultFilePrefix + "_" + time.Now().Format(fileNameTimeForm)
	}
	path := filepath.Join(r.logDir, name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"Timestamp"}, channelNames...)); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}

	r.path = path
	r.file = f
	r.writer = w
	klog.V(2).InfoS("Started recording", "path", path, "channels", len(channelNames))
	return nil
}

// Append writes one timestamped row. Calling it when no file is open
// is a no-op, so the acquisition loop does not have to coordinate with
// a concurrent Stop.
func (r *Recorder) Append(values []float64) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if r.writer == nil {
		return nil
	}
	row := make([]string, 0, len(values)+1)
	row = append(row, time.Now().Format(rowTimeForm))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	if err := r.writer.Write(row); err != nil {
		return err
	}
	r.writer.Flush()
	return r.writer.Error()
}

// Stop flushes and closes the current file. Safe to call repeatedly or
// before Start.
func (r *Recorder) Stop() error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if r.file == nil {
		return nil
	}
	r.writer.Flush()
	err := r.writer.Error()
	if closeErr := r.file.Close(); err == nil {
		err = closeErr
	}
	klog.V(2).InfoS("Stopped recording", "path", r.path)
	r.file = nil
	r.writer = nil
	return err
}

// Path returns the file written by the current or most recent session.
func (r *Recorder) Path() string {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.path
}

// sanitizeStem strips directory components and characters that commonly
// break file names, and drops a user-typed .csv suffix so it is not
// doubled.
func sanitizeStem(stem string) string {
	stem = strings.TrimSpace(stem)
	stem = filepath.Base(stem)
	if stem == "." || stem == string(filepath.Separator) {
		return ""
	}
	stem = strings.TrimSuffix(stem, ".csv")
	var b strings.Builder
	for _, c := range stem {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
