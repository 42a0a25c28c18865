package acquisition

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"dass/pkg/generic"
	"dass/pkg/journal"
	"dass/pkg/recorder"
	"dass/pkg/runtime"
	"dass/pkg/runtime/constant"
	"dass/pkg/series"
	"dass/pkg/transport"
	v1 "dass/pkg/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	endpoint  string
	registers map[uint16][]uint16
	failing   map[uint16]bool
}

func (f *fakeTransport) Connect(settings transport.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	f.endpoint = settings.Endpoint
	return nil
}

func (f *fakeTransport) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) Endpoint() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.endpoint
}

func (f *fakeTransport) ReadRegisters(address uint16, quantity uint16, slaveID uint8) ([]uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[address] {
		return nil, fmt.Errorf("read timeout at %d", address)
	}
	return f.registers[address], nil
}

func (f *fakeTransport) ReadCoils(address uint16, quantity uint16, slaveID uint8) ([]bool, error) {
	return nil, fmt.Errorf("coils not wired")
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	dir := t.TempDir()
	j, err := journal.Open(filepath.Join(dir, "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	m := NewManager(DefaultChannelCount, recorder.New(dir), j, make(chan struct{}), opts...)
	m.interval = 2 * time.Millisecond
	m.backoff = 2 * time.Millisecond
	return m
}

func attach(m *Manager, f *fakeTransport) {
	m.mu.Lock()
	m.transport = f
	m.transportType = generic.TransportTypeModbusRtu
	m.mu.Unlock()
}

func waitTicks(t *testing.T, m *Manager, n uint64) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for m.ticks.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d ticks, have %d", n, m.ticks.Load())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	m := newTestManager(t)

	status, err := m.Start("run1")
	require.NoError(t, err)
	assert.Equal(t, "running", status.State)
	assert.NotEmpty(t, status.SessionID)
	assert.Equal(t, DefaultChannelCount, status.ChannelCount)
	assert.Equal(t, "run1.csv", filepath.Base(status.LogFile))

	waitTicks(t, m, 5)
	m.Stop()

	final := m.Status()
	assert.Equal(t, "idle", final.State)
	assert.Empty(t, final.SessionID)
	assert.GreaterOrEqual(t, final.Ticks, uint64(5))
	assert.Zero(t, final.FailedTicks)

	f, err := os.Open(status.LogFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Timestamp", "Channel_1", "Channel_2", "Channel_3"}, rows[0])
	assert.Equal(t, int(final.Ticks), len(rows)-1)

	var prev time.Time
	for _, row := range rows[1:] {
		require.Len(t, row, 4)
		ts, err := time.Parse("2006-01-02 15:04:05.000", row[0])
		require.NoError(t, err)
		assert.False(t, ts.Before(prev), "timestamps must not decrease")
		prev = ts
	}

	expected := int(final.Ticks)
	if expected > series.Cap {
		expected = series.Cap
	}
	assert.Equal(t, expected, m.buffers[0].Len())

	deadline := time.Now().Add(2 * time.Second)
	for {
		events, err := m.journal.Recent(10)
		require.NoError(t, err)
		if len(events) == 2 {
			assert.Equal(t, journal.KindSessionStop, events[0].Kind)
			assert.Equal(t, journal.KindSessionStart, events[1].Kind)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("journal holds %d events, want 2", len(events))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartWhileRunning(t *testing.T) {
	m := newTestManager(t)

	status, err := m.Start("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(status.LogFile), "dass_log_"))

	_, err = m.Start("")
	assert.ErrorIs(t, err, constant.ErrAlreadyRunning)

	m.Stop()
}

func TestStopWhileIdle(t *testing.T) {
	m := newTestManager(t)
	m.Stop()
	assert.Equal(t, "idle", m.Status().State)

	_, err := m.Start("")
	require.NoError(t, err)
	m.Stop()
	m.Stop()
	assert.Equal(t, "idle", m.Status().State)
}

func TestScanPlanLockedWhileRunning(t *testing.T) {
	m := newTestManager(t)
	plan := []runtime.Binding{{Name: "Temp", SlaveID: 1, Address: 0, DataType: constant.INT16}}
	require.NoError(t, m.SetScanPlan(plan))

	_, err := m.Start("")
	require.NoError(t, err)
	assert.ErrorIs(t, m.SetScanPlan(plan), constant.ErrSessionRunning)
	m.Stop()

	require.NoError(t, m.SetScanPlan(nil))
	assert.Empty(t, m.ScanPlan())
}

func TestSetScanPlanValidation(t *testing.T) {
	m := newTestManager(t)
	err := m.SetScanPlan([]runtime.Binding{{Name: "", SlaveID: 9, Address: 0, DataType: constant.INT16}})
	assert.Error(t, err)
	assert.Empty(t, m.ScanPlan())
}

func TestConditionedTickFromTransport(t *testing.T) {
	m := newTestManager(t)
	attach(m, &fakeTransport{
		connected: true,
		endpoint:  "/dev/ttyUSB0",
		registers: map[uint16][]uint16{0: {0x41A0, 0x0000}}, // FLOAT32 20.0
	})
	require.NoError(t, m.SetScanPlan([]runtime.Binding{
		{Name: "Temp", SlaveID: 1, Address: 0, DataType: constant.FLOAT32},
	}))
	require.NoError(t, m.channels.SetConditioning(0, "-5", "2", "1"))

	status, err := m.Start("conditioned")
	require.NoError(t, err)
	waitTicks(t, m, 3)
	m.Stop()

	latest := m.LatestTick()
	require.Len(t, latest, 3)
	assert.Equal(t, 30.0, latest[0]) // (20 + -5) * 2 * 1
	assert.Equal(t, 0.0, latest[1])
	assert.Equal(t, 0.0, latest[2])

	snapshot, err := m.BufferSnapshot(0)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot)
	for _, v := range snapshot {
		assert.Equal(t, 30.0, v)
	}

	f, err := os.Open(status.LogFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, []string{"30", "0", "0"}, rows[1][1:])
}

func TestTickSurvivesReadFailure(t *testing.T) {
	m := newTestManager(t)
	attach(m, &fakeTransport{
		connected: true,
		failing:   map[uint16]bool{0: true},
		registers: map[uint16][]uint16{10: {0x0014}}, // INT16 20
	})
	require.NoError(t, m.SetScanPlan([]runtime.Binding{
		{Name: "Dead", SlaveID: 1, Address: 0, DataType: constant.INT16},
		{Name: "Live", SlaveID: 1, Address: 10, DataType: constant.INT16},
	}))

	_, err := m.Start("")
	require.NoError(t, err)
	waitTicks(t, m, 3)
	m.Stop()

	latest := m.LatestTick()
	require.Len(t, latest, 3)
	assert.Equal(t, 0.0, latest[0])
	assert.Equal(t, 20.0, latest[1])
	// a failed read is a data gap, not a tick failure
	assert.Zero(t, m.Status().FailedTicks)
}

func TestDisconnectStopsSession(t *testing.T) {
	m := newTestManager(t)
	f := &fakeTransport{connected: true, endpoint: "/dev/ttyUSB0"}
	attach(m, f)

	_, err := m.Start("")
	require.NoError(t, err)
	waitTicks(t, m, 1)

	m.Disconnect()
	assert.Equal(t, "idle", m.Status().State)
	assert.False(t, m.ConnectionStatus().Connected)
	assert.False(t, f.Connected())

	m.Disconnect()
}

func TestConnectRejections(t *testing.T) {
	m := newTestManager(t)

	err := m.Connect(&v1.ConnectRequest{TransportType: "opcua", Endpoint: "/dev/ttyUSB0", BaudRate: 9600})
	assert.ErrorIs(t, err, constant.ErrTransportType)

	attach(m, &fakeTransport{connected: true})
	err = m.Connect(&v1.ConnectRequest{TransportType: generic.TransportTypeSerial, Endpoint: "/dev/ttyUSB0", BaudRate: 9600})
	assert.ErrorIs(t, err, constant.ErrConnected)
}

func TestUpdateChannel(t *testing.T) {
	m := newTestManager(t)

	name := "Pressure"
	zero := "1.5"
	updated, err := m.UpdateChannel(1, &v1.ChannelSettings{Name: &name, Zero: &zero})
	require.NoError(t, err)
	assert.Equal(t, "Pressure", updated.Name)
	assert.Equal(t, "1.5", updated.Zero)
	assert.Equal(t, "1", updated.Multiplier)
	assert.Equal(t, "1", updated.Gain)

	gain := "2.5"
	updated, err = m.UpdateChannel(1, &v1.ChannelSettings{Gain: &gain})
	require.NoError(t, err)
	assert.Equal(t, "Pressure", updated.Name)
	assert.Equal(t, "2.5", updated.Gain)

	_, err = m.UpdateChannel(7, &v1.ChannelSettings{Name: &name})
	assert.ErrorIs(t, err, constant.ErrNoSuchChannel)
}

func TestBufferSnapshotRange(t *testing.T) {
	m := newTestManager(t)

	_, err := m.BufferSnapshot(-1)
	assert.ErrorIs(t, err, constant.ErrNoSuchChannel)
	_, err = m.BufferSnapshot(DefaultChannelCount)
	assert.ErrorIs(t, err, constant.ErrNoSuchChannel)

	values, err := m.BufferSnapshot(0)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestShutdownRunsClosersInReverse(t *testing.T) {
	var order []string
	m := newTestManager(t,
		WithCloser(runtime.LabeledCloser{Label: "journal", Closer: func(ctx context.Context) error {
			order = append(order, "journal")
			return nil
		}}),
		WithCloser(runtime.LabeledCloser{Label: "publisher", Closer: func(ctx context.Context) error {
			order = append(order, "publisher")
			return nil
		}}),
	)
	f := &fakeTransport{connected: true, endpoint: "/dev/ttyUSB0"}
	attach(m, f)
	_, err := m.Start("")
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"publisher", "journal"}, order)
	assert.Equal(t, "idle", m.Status().State)
	assert.False(t, f.Connected())
}

func TestShutdownAggregatesCloserErrors(t *testing.T) {
	m := newTestManager(t,
		WithCloser(runtime.LabeledCloser{Label: "broken", Closer: func(ctx context.Context) error {
			return fmt.Errorf("close failed")
		}}),
	)
	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}
