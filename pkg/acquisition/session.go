package acquisition

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"dass/pkg/channel"
	"dass/pkg/generic"
	"dass/pkg/journal"
	"dass/pkg/publish"
	"dass/pkg/recorder"
	"dass/pkg/runtime"
	"dass/pkg/runtime/constant"
	"dass/pkg/series"
	"dass/pkg/transport"
	"dass/pkg/utils/uuidutil"
	v1 "dass/pkg/v1"
	"go.uber.org/atomic"
	"k8s.io/klog/v2"
)

type Option func(*Manager)

// WithPublisher forwards every tick's conditioned vector to an MQTT
// broker in addition to the local consumers.
func WithPublisher(p *publish.Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

// WithCloser registers a dependency to close during Shutdown, after
// the session is stopped and the transport released. Closers run in
// reverse registration order.
func WithCloser(lc runtime.LabeledCloser) Option {
	return func(m *Manager) {
		m.closers = append(m.closers, lc)
	}
}

// Manager owns one acquisition session at a time: the transport, the
// scan plan, the channel table, the per-channel series buffers and the
// CSV recorder. The background loop produces; everything else consumes
// through snapshot accessors.
type Manager struct {
	mu sync.Mutex

	channels  *channel.Table
	buffers   []*series.Buffer
	recorder  *recorder.Recorder
	journal   *journal.Journal
	publisher *publish.Publisher

	transportType string
	transport     transport.Transport
	plan          []runtime.Binding

	running     *atomic.Bool
	sessionID   string
	startedAt   time.Time
	loopDone    chan struct{}
	ticks       *atomic.Uint64
	failedTicks *atomic.Uint64

	latestMu sync.Mutex
	latest   []float64

	interval time.Duration
	backoff  time.Duration

	stopCh  <-chan struct{}
	closers []runtime.LabeledCloser
}

func NewManager(channelCount int, rec *recorder.Recorder, j *journal.Journal, stop <-chan struct{}, opts ...Option) *Manager {
	m := &Manager{
		channels:    channel.NewTable(channelCount),
		buffers:     make([]*series.Buffer, channelCount),
		recorder:    rec,
		journal:     j,
		running:     atomic.NewBool(false),
		ticks:       atomic.NewUint64(0),
		failedTicks: atomic.NewUint64(0),
		interval:    tickInterval,
		backoff:     failureBackoff,
		stopCh:      stop,
	}
	for i := range m.buffers {
		m.buffers[i] = series.NewBuffer()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ListPorts enumerates candidate serial endpoints.
func (m *Manager) ListPorts() []string {
	return transport.ListAvailablePorts()
}

// Connect opens the physical link described by the request. Only one
// connection exists at a time; connecting while connected is rejected
// so an operator cannot silently orphan an open port.
func (m *Manager) Connect(req *v1.ConnectRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transport != nil && m.transport.Connected() {
		return constant.ErrConnected
	}
	build, ok := generic.TransportTypeMap[req.TransportType]
	if !ok {
		return constant.ErrTransportType
	}

	t := build()
	if err := t.Connect(connectionSettings(req)); err != nil {
		return err
	}
	m.transport = t
	m.transportType = req.TransportType
	m.journal.Record(journal.KindConnect, "", fmt.Sprintf("%s %s", req.TransportType, req.Endpoint))
	klog.V(1).InfoS("Connected", "transportType", req.TransportType, "endpoint", req.Endpoint, "baudRate", req.BaudRate)
	return nil
}

// Disconnect releases the transport. A running session is stopped
// first, the way closing the link from the panel always stopped the
// sweep. Idempotent.
func (m *Manager) Disconnect() {
	m.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transport == nil {
		return
	}
	endpoint := m.transport.Endpoint()
	m.transport.Disconnect()
	m.transport = nil
	m.transportType = ""
	m.journal.Record(journal.KindDisconnect, "", endpoint)
	klog.V(1).InfoS("Disconnected", "endpoint", endpoint)
}

func (m *Manager) ConnectionStatus() v1.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transport == nil {
		return v1.ConnectionStatus{}
	}
	return v1.ConnectionStatus{
		Connected:     m.transport.Connected(),
		TransportType: m.transportType,
		Endpoint:      m.transport.Endpoint(),
	}
}

// SetScanPlan replaces the ordered binding list. The plan is locked
// while a session is running; the loop additionally snapshots it at
// every tick, so an accepted edit can never tear a scan mid-tick.
func (m *Manager) SetScanPlan(bindings []runtime.Binding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running.Load() {
		return constant.ErrSessionRunning
	}
	if errs := runtime.ValidateBindings(bindings); len(errs) > 0 {
		return errs.ToAggregate()
	}
	m.plan = append([]runtime.Binding(nil), bindings...)
	m.journal.Record(journal.KindPlanReplace, "", strconv.Itoa(len(m.plan))+" bindings")
	klog.V(2).InfoS("Replaced scan plan", "bindings", len(m.plan))
	return nil
}

func (m *Manager) ScanPlan() []runtime.Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]runtime.Binding(nil), m.plan...)
}

func (m *Manager) Channels() []channel.Settings {
	return m.channels.Snapshot()
}

// ApplyChannels overwrites channel settings by position, e.g. from a
// stored profile. Safe at any time; the loop reads coefficients fresh
// on every tick.
func (m *Manager) ApplyChannels(settings []channel.Settings) {
	m.channels.Apply(settings)
}

// UpdateChannel applies a partial update to one channel; nil fields
// keep their current value. Allowed while running — the logger header
// keeps the names captured at start.
func (m *Manager) UpdateChannel(index int, settings *v1.ChannelSettings) (channel.Settings, error) {
	current, err := m.channels.Get(index)
	if err != nil {
		return channel.Settings{}, err
	}
	if settings.Name != nil {
		if err := m.channels.SetName(index, *settings.Name); err != nil {
			return channel.Settings{}, err
		}
	}
	zero, multiplier, gain := current.Zero, current.Multiplier, current.Gain
	if settings.Zero != nil {
		zero = *settings.Zero
	}
	if settings.Multiplier != nil {
		multiplier = *settings.Multiplier
	}
	if settings.Gain != nil {
		gain = *settings.Gain
	}
	if err := m.channels.SetConditioning(index, zero, multiplier, gain); err != nil {
		return channel.Settings{}, err
	}
	return m.channels.Get(index)
}

// Start transitions Idle -> Running: snapshot the channel names, open
// the log file, reset the buffers and launch the background loop.
// Starting while running is rejected, never queued.
func (m *Manager) Start(stem string) (v1.SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running.CompareAndSwap(false, true) {
		return v1.SessionStatus{}, constant.ErrAlreadyRunning
	}
	if err := m.recorder.Start(m.channels.Names(), stem); err != nil {
		m.running.Store(false)
		return v1.SessionStatus{}, err
	}
	for _, b := range m.buffers {
		b.Reset()
	}
	m.latestMu.Lock()
	m.latest = nil
	m.latestMu.Unlock()

	m.ticks.Store(0)
	m.failedTicks.Store(0)
	m.sessionID = uuidutil.UUID()
	m.startedAt = time.Now()
	m.loopDone = make(chan struct{})
	go m.loop(m.sessionID, m.loopDone)

	m.journal.Record(journal.KindSessionStart, m.sessionID, filepath.Base(m.recorder.Path()))
	klog.V(1).InfoS("Acquisition started", "sessionId", m.sessionID, "logFile", m.recorder.Path())
	return m.status(), nil
}

// Stop transitions Running -> Idle: clear the run flag, wait a bounded
// time for the loop to observe it, then close the log file. Stopping
// while idle is a no-op. The join wait runs outside the state lock so
// an in-flight tick can finish its transport read.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running.CompareAndSwap(true, false) {
		m.mu.Unlock()
		return
	}
	sessionID := m.sessionID
	done := m.loopDone
	m.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
		klog.V(1).InfoS("Acquisition loop did not exit in time", "sessionId", sessionID)
	}

	if err := m.recorder.Stop(); err != nil {
		klog.V(2).InfoS("Failed to close log file", "sessionId", sessionID, "err", err)
	}
	m.journal.Record(journal.KindSessionStop, sessionID, strconv.FormatUint(m.ticks.Load(), 10)+" ticks")
	klog.V(1).InfoS("Acquisition stopped", "sessionId", sessionID, "ticks", m.ticks.Load(), "failedTicks", m.failedTicks.Load())
}

func (m *Manager) Status() v1.SessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status()
}

func (m *Manager) status() v1.SessionStatus {
	status := v1.SessionStatus{
		State:        StateToString[Idle],
		ChannelCount: m.channels.Count(),
		Ticks:        m.ticks.Load(),
		FailedTicks:  m.failedTicks.Load(),
	}
	if m.running.Load() {
		status.State = StateToString[Running]
		status.SessionID = m.sessionID
		status.LogFile = m.recorder.Path()
		status.StartedAt = m.startedAt.Format(timeForm)
	}
	return status
}

// BufferSnapshot returns the channel's buffered samples in insertion
// order. Safe to call at any time, including mid-tick.
func (m *Manager) BufferSnapshot(index int) ([]float64, error) {
	if index < 0 || index >= len(m.buffers) {
		return nil, constant.ErrNoSuchChannel
	}
	return m.buffers[index].Snapshot(), nil
}

// LatestTick returns the most recently published conditioned vector,
// empty until the first tick of a session completes.
func (m *Manager) LatestTick() []float64 {
	m.latestMu.Lock()
	defer m.latestMu.Unlock()
	return append([]float64(nil), m.latest...)
}

// Shutdown stops the session, releases the transport and closes the
// registered dependencies in reverse order.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.Disconnect()

	var errs []string
	for i := len(m.closers); i > 0; i-- {
		lc := m.closers[i-1]
		if err := lc.Closer(ctx); err != nil {
			klog.V(2).InfoS("Failed to stop dependency service", "service", lc.Label, "err", err)
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to shutdown session manager: [%s]", strings.Join(errs, ","))
	}
	return nil
}

func connectionSettings(req *v1.ConnectRequest) transport.Settings {
	settings := transport.Settings{
		Endpoint: req.Endpoint,
		BaudRate: req.BaudRate,
		DataBits: transport.DefaultDataBits,
		Parity:   transport.DefaultParity,
		StopBits: transport.DefaultStopBits,
		Timeout:  defaultTransportTimeout,
	}
	if req.DataBits != 0 {
		settings.DataBits = req.DataBits
	}
	if parity, ok := constant.StringToParity[req.Parity]; ok {
		settings.Parity = parity
	}
	if stopBits, ok := constant.StringToStopBits[req.StopBits]; ok {
		settings.StopBits = stopBits
	}
	if req.TimeoutMs != 0 {
		settings.Timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	return settings
}
