package options

import (
	"context"
	"path/filepath"
	"time"

	"dass/cmd/dass/config"
	"dass/pkg/acquisition"
	"dass/pkg/generic"
	baseoptions "dass/pkg/generic/options"
	"dass/pkg/journal"
	"dass/pkg/profile"
	"dass/pkg/publish"
	"dass/pkg/recorder"
	"dass/pkg/runtime"
	"dass/pkg/storage"
	"dass/pkg/utils/uuidutil"
	"github.com/spf13/pflag"
)

type Options struct {
	Port         string        `json:"port"`
	Wait         time.Duration `json:"graceful-timeout"`
	Channels     int           `json:"channels"`
	LogDir       string        `json:"log-dir"`
	JournalFile  string        `json:"journal-file"`
	MqttBroker   string        `json:"mqtt-broker"`
	MqttClientId string        `json:"mqtt-client-id"`
	baseoptions.BaseOptions
}

const (
	_defaultPort   = "32100"
	_defaultWait   = 15 * time.Second
	_defaultLogDir = "logs"
)

func NewDefaultOptions() *Options {
	return &Options{
		Port:        _defaultPort,
		Wait:        _defaultWait,
		Channels:    acquisition.DefaultChannelCount,
		LogDir:      _defaultLogDir,
		BaseOptions: baseoptions.NewDefaultBaseOptions(),
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Port, "port", "P", o.Port, "Port exposed")
	fs.DurationVar(&o.Wait, "graceful-timeout", o.Wait, "The duration for which the server gracefully wait for existing connections to finish - e.g. 15s or 1m")
	fs.IntVar(&o.Channels, "channels", o.Channels, "Number of acquisition channels")
	fs.StringVar(&o.LogDir, "log-dir", o.LogDir, "Directory acquisition CSV logs are written to")
	fs.StringVar(&o.JournalFile, "journal-file", o.JournalFile, "Path of the sqlite event journal, defaults to <log-dir>/events.db")
	fs.StringVar(&o.MqttBroker, "mqtt-broker", o.MqttBroker, "MQTT broker address, e.g. tcp://127.0.0.1:1883; when empty nothing is published")
	fs.StringVar(&o.MqttClientId, "mqtt-client-id", o.MqttClientId, "MQTT client id, defaults to a generated one")
}

func (o *Options) Config(stopCh <-chan struct{}) (*config.Config, error) {
	c := &config.Config{}

	journalFile := o.JournalFile
	if len(journalFile) == 0 {
		journalFile = filepath.Join(o.LogDir, "events.db")
	}
	j, err := journal.Open(journalFile)
	if err != nil {
		return nil, err
	}

	opts := []acquisition.Option{
		acquisition.WithCloser(runtime.LabeledCloser{Label: "event journal", Closer: func(ctx context.Context) error { return j.Close() }}),
	}
	if len(o.MqttBroker) != 0 {
		clientId := o.MqttClientId
		if len(clientId) == 0 {
			clientId = "dass-" + uuidutil.ShortUUID()
		}
		publisher, err := publish.New(o.MqttBroker, clientId)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			acquisition.WithPublisher(publisher),
			acquisition.WithCloser(runtime.LabeledCloser{Label: "mqtt publisher", Closer: func(ctx context.Context) error { return publisher.Close() }}),
		)
	}

	sessionMgr := acquisition.NewManager(o.Channels, recorder.New(o.LogDir), j, stopCh, opts...)

	store, _ := generic.NewStore(storage.StoreGroupToString[storage.StoreGroupProfile], storage.Profiles, profile.TypeObjectMap)
	profileMgr := profile.NewManager(store, sessionMgr, j)
	profileMgr.Init()

	c.SessionMgr = sessionMgr
	c.ProfileMgr = profileMgr
	c.Journal = j
	c.LogDir = o.LogDir

	return c, nil
}
