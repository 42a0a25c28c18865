package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	j, err := Open(path)
	assert.Nil(t, err)
	j.Record(KindConnect, "", "/dev/ttyUSB0")
	j.Record(KindSessionStart, "abc123", "")
	j.Record(KindSessionStop, "abc123", "")
	assert.Nil(t, j.Close())

	reopened, err := Open(path)
	assert.Nil(t, err)
	defer reopened.Close()

	events, err := reopened.Recent(0)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(events))
	assert.Equal(t, KindSessionStop, events[0].Kind)
	assert.Equal(t, KindSessionStart, events[1].Kind)
	assert.Equal(t, KindConnect, events[2].Kind)
	assert.Equal(t, "abc123", events[0].SessionID)
	assert.Equal(t, "/dev/ttyUSB0", events[2].Detail)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestRecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	j, err := Open(path)
	assert.Nil(t, err)
	for i := 0; i < 5; i++ {
		j.Record(KindTickFailure, "s", "read failed")
	}
	assert.Nil(t, j.Close())

	reopened, err := Open(path)
	assert.Nil(t, err)
	defer reopened.Close()

	events, err := reopened.Recent(2)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(events))
}

func TestCloseIdempotent(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "events.db"))
	assert.Nil(t, err)
	assert.Nil(t, j.Close())
	assert.Nil(t, j.Close())

	// Recording after close is a silent no-op.
	j.Record(KindConnect, "", "")
}
