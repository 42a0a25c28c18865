package channel

import (
	"testing"

	"dass/pkg/runtime/constant"

	"github.com/stretchr/testify/assert"
)

func TestNewTableDefaults(t *testing.T) {
	table := NewTable(3)
	assert.Equal(t, 3, table.Count())
	assert.Equal(t, []string{"Channel_1", "Channel_2", "Channel_3"}, table.Names())

	s, err := table.Get(0)
	assert.Nil(t, err)
	assert.Equal(t, Settings{Name: "Channel_1", Zero: "0", Multiplier: "1", Gain: "1"}, s)
}

func TestConditionIdentity(t *testing.T) {
	table := NewTable(1)
	assert.Equal(t, 42.5, table.Condition(0, 42.5))
}

func TestCondition(t *testing.T) {
	table := NewTable(1)
	err := table.SetConditioning(0, "-5", "2", "1")
	assert.Nil(t, err)
	assert.Equal(t, 30.0, table.Condition(0, 20.0))
}

func TestConditionFallback(t *testing.T) {
	table := NewTable(1)
	err := table.SetConditioning(0, "offset", "2", "1")
	assert.Nil(t, err)
	assert.Equal(t, 20.0, table.Condition(0, 20.0))
}

func TestChannelIndexOutOfRange(t *testing.T) {
	table := NewTable(2)

	_, err := table.Get(2)
	assert.Equal(t, constant.ErrNoSuchChannel, err)

	assert.Equal(t, constant.ErrNoSuchChannel, table.SetName(-1, "x"))
	assert.Equal(t, constant.ErrNoSuchChannel, table.SetConditioning(5, "0", "1", "1"))
}

func TestSetName(t *testing.T) {
	table := NewTable(2)
	assert.Nil(t, table.SetName(1, "Temp"))
	assert.Equal(t, []string{"Channel_1", "Temp"}, table.Names())
}

func TestApply(t *testing.T) {
	table := NewTable(2)
	table.Apply([]Settings{
		{Name: "Pressure", Zero: "1", Multiplier: "10", Gain: "0.5"},
		{Name: "Flow", Zero: "0", Multiplier: "1", Gain: "1"},
		{Name: "Ignored", Zero: "0", Multiplier: "1", Gain: "1"},
	})
	assert.Equal(t, 2, table.Count())
	assert.Equal(t, []string{"Pressure", "Flow"}, table.Names())
	assert.Equal(t, 30.0, table.Condition(0, 5.0))
}
