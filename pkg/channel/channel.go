package channel

import (
	"fmt"
	"strconv"
	"sync"

	"dass/pkg/runtime/constant"
)

// Settings carries the display name and the conditioning coefficients of
// one channel. Coefficients are kept as strings so operators can type
// partial or invalid numbers without losing them; parsing happens at
// use-time in Condition.
type Settings struct {
	Name       string `json:"name"`
	Zero       string `json:"zero"`
	Multiplier string `json:"multiplier"`
	Gain       string `json:"gain"`
}

// Table holds the settings of a fixed number of channels. Names and
// coefficients may change at any time, including while an acquisition
// session is running. Reads always observe one complete previously
// written value.
type Table struct {
	mux      sync.RWMutex
	settings []Settings
}

func NewTable(count int) *Table {
	settings := make([]Settings, count)
	for i := range settings {
		settings[i] = Settings{
			Name:       fmt.Sprintf("Channel_%d", i+1),
			Zero:       "0",
			Multiplier: "1",
			Gain:       "1",
		}
	}
	return &Table{settings: settings}
}

func (t *Table) Count() int {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return len(t.settings)
}

// Names returns the current display names in channel order.
func (t *Table) Names() []string {
	t.mux.RLock()
	defer t.mux.RUnlock()
	names := make([]string, len(t.settings))
	for i, s := range t.settings {
		names[i] = s.Name
	}
	return names
}

func (t *Table) Get(index int) (Settings, error) {
	t.mux.RLock()
	defer t.mux.RUnlock()
	if index < 0 || index >= len(t.settings) {
		return Settings{}, constant.ErrNoSuchChannel
	}
	return t.settings[index], nil
}

func (t *Table) SetName(index int, name string) error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if index < 0 || index >= len(t.settings) {
		return constant.ErrNoSuchChannel
	}
	t.settings[index].Name = name
	return nil
}

func (t *Table) SetConditioning(index int, zero, multiplier, gain string) error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if index < 0 || index >= len(t.settings) {
		return constant.ErrNoSuchChannel
	}
	t.settings[index].Zero = zero
	t.settings[index].Multiplier = multiplier
	t.settings[index].Gain = gain
	return nil
}

// Apply copies settings into the table by position. Entries beyond the
// channel count are ignored; the count never changes after construction.
func (t *Table) Apply(settings []Settings) {
	t.mux.Lock()
	defer t.mux.Unlock()
	for i := range settings {
		if i >= len(t.settings) {
			break
		}
		t.settings[i] = settings[i]
	}
}

// Condition transforms a raw sample into engineering units using the
// channel's current coefficients, (raw + zero) * multiplier * gain.
// If any coefficient does not parse as a number the raw value is
// returned unchanged for this call only.
func (t *Table) Condition(index int, raw float64) float64 {
	s, err := t.Get(index)
	if err != nil {
		return raw
	}
	zero, err := strconv.ParseFloat(s.Zero, 64)
	if err != nil {
		return raw
	}
	multiplier, err := strconv.ParseFloat(s.Multiplier, 64)
	if err != nil {
		return raw
	}
	gain, err := strconv.ParseFloat(s.Gain, 64)
	if err != nil {
		return raw
	}
	return (raw + zero) * multiplier * gain
}

// Snapshot returns a copy of all channel settings in order.
func (t *Table) Snapshot() []Settings {
	t.mux.RLock()
	defer t.mux.RUnlock()
	settings := make([]Settings, len(t.settings))
	copy(settings, t.settings)
	return settings
}
