package publish

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"dass/pkg/runtime"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"k8s.io/klog/v2"
)

// Publisher forwards conditioned tick vectors to an MQTT broker as
// telemetry. Publishing is best effort: hand-offs go through a bounded
// queue and are dropped when the broker lags, so the acquisition loop
// is never held back by the network.
type Publisher struct {
	mux    sync.RWMutex
	closed bool

	client mqtt.Client
	topic  string
	queue  chan runtime.PublishData
	done   chan struct{}
}

func New(broker, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) || token.Error() != nil {
		client.Disconnect(0)
		if token.Error() != nil {
			return nil, token.Error()
		}
		return nil, fmt.Errorf("connect %s timed out", broker)
	}

	p := &Publisher{
		client: client,
		topic:  fmt.Sprintf("dass/v1/%s/telemetry", clientID),
		queue:  make(chan runtime.PublishData, queueSize),
		done:   make(chan struct{}),
	}
	go p.publishLoop()
	klog.V(2).InfoS("Connected to MQTT broker", "broker", broker, "topic", p.topic)
	return p, nil
}

// Publish queues one tick vector. Non-blocking; safe after Close.
func (p *Publisher) Publish(points []runtime.PointData) {
	p.mux.RLock()
	defer p.mux.RUnlock()
	if p.closed {
		return
	}
	data := runtime.PublishData{Payload: runtime.Payload{Data: []runtime.TimeSeriesData{{
		Timestamp: runtime.Time(time.Now().UTC()),
		Values:    points,
	}}}}
	select {
	case p.queue <- data:
	default:
		klog.V(3).InfoS("Dropped telemetry publish", "topic", p.topic)
	}
}

// Close drains the queue and disconnects from the broker. Idempotent.
func (p *Publisher) Close() error {
	p.mux.Lock()
	if p.closed {
		p.mux.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mux.Unlock()

	<-p.done
	p.client.Disconnect(2000)
	return nil
}

func (p *Publisher) publishLoop() {
	defer close(p.done)
	for data := range p.queue {
		marshal, _ := json.Marshal(data)
		token := p.client.Publish(p.topic, 1, false, marshal)
		if token.WaitTimeout(publishTimeout) && token.Error() == nil {
			klog.V(5).InfoS("Succeed to publish MQTT", "topic", p.topic, "data", data)
		} else {
			klog.V(1).InfoS("Failed to publish MQTT", "topic", p.topic, "err", token.Error())
		}
	}
}
