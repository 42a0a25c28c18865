package acquisition

import (
	"fmt"
	"time"

	"dass/pkg/journal"
	"dass/pkg/runtime"
	"dass/pkg/transport"
	"k8s.io/klog/v2"
)

// loop is the single producer of a session. Ticks run strictly in
// sequence; a failed tick is journaled and backs the loop off without
// killing it. The loop owns the done channel it was born with, so a
// later session can never confuse an older Stop.
func (m *Manager) loop(sessionID string, done chan struct{}) {
	defer close(done)
	klog.V(2).InfoS("Acquisition loop started", "sessionId", sessionID)

	for m.running.Load() {
		interval := m.interval
		if err := m.tick(); err != nil {
			m.failedTicks.Inc()
			m.journal.Record(journal.KindTickFailure, sessionID, err.Error())
			klog.V(2).InfoS("Tick failed", "sessionId", sessionID, "err", err)
			interval = m.backoff
		}

		select {
		case <-m.stopCh:
			return
		case <-time.After(interval):
		}
	}
	klog.V(2).InfoS("Acquisition loop exited", "sessionId", sessionID, "ticks", m.ticks.Load())
}

// tick runs one scan cycle: read, condition, buffer, record, publish.
// A panic anywhere in the cycle is downgraded to a tick failure.
func (m *Manager) tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panic: %v", r)
		}
	}()

	raw := m.acquire()

	conditioned := make([]float64, len(raw))
	for i, v := range raw {
		conditioned[i] = m.channels.Condition(i, v)
	}
	for i, v := range conditioned {
		m.buffers[i].Push(v)
	}
	if err := m.recorder.Append(conditioned); err != nil {
		return err
	}
	m.publishTick(conditioned)
	m.ticks.Inc()
	return nil
}

// acquire produces the raw vector for one tick. Without a connected
// register transport and a scan plan it falls back to the stand-in
// generator, so the rest of the pipeline always sees real traffic.
func (m *Manager) acquire() []float64 {
	m.mu.Lock()
	plan := m.plan
	t := m.transport
	m.mu.Unlock()

	count := m.channels.Count()
	if t == nil || !t.Connected() || len(plan) == 0 {
		return standInVector(count)
	}
	reader, ok := t.(transport.RegisterReader)
	if !ok {
		return standInVector(count)
	}
	return assembleVector(executePlan(reader, plan), count)
}

// publishTick stores the vector as the latest sample and forwards it
// to the broker when one is configured.
func (m *Manager) publishTick(values []float64) {
	m.latestMu.Lock()
	m.latest = append([]float64(nil), values...)
	m.latestMu.Unlock()

	if m.publisher == nil {
		return
	}
	names := m.channels.Names()
	points := make([]runtime.PointData, 0, len(values))
	for i, v := range values {
		points = append(points, runtime.PointData{DataPointId: names[i], Value: v})
	}
	m.publisher.Publish(points)
}
