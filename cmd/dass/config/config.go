package config

import (
	"dass/pkg/acquisition"
	"dass/pkg/journal"
	"dass/pkg/profile"
)

type Config struct {
	SessionMgr *acquisition.Manager
	ProfileMgr *profile.Manager
	Journal    *journal.Journal
	LogDir     string
	CertFile   string
	KeyFile    string
}
