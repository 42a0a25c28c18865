package acquisition

import (
	"dass/pkg/decode"
	"dass/pkg/runtime"
	"dass/pkg/runtime/constant"
	"dass/pkg/transport"
	"k8s.io/klog/v2"
)

// ReadResult is one executed scan plan binding: the logical name and
// either the decoded value or the record that the read produced
// nothing. Absent results stay visible here so a transport failure is
// distinguishable from a hardware-reported zero; they collapse to 0.0
// only when the per-channel vector is assembled.
type ReadResult struct {
	Name  string
	Value float64
	OK    bool
}

// executePlan runs every binding once, in plan order. Each binding
// issues one register read sized to its decode type; transport errors
// and decoder rejections mark the result absent instead of
// propagating.
func executePlan(reader transport.RegisterReader, bindings []runtime.Binding) []ReadResult {
	results := make([]ReadResult, 0, len(bindings))
	for _, b := range bindings {
		result := ReadResult{Name: b.Name}
		quantity := uint16(constant.DataTypeWord[b.DataType])
		words, err := reader.ReadRegisters(b.Address, quantity, b.SlaveID)
		if err != nil {
			klog.V(4).InfoS("Failed to read binding",
				"name", b.Name, "slaveId", b.SlaveID, "address", b.Address, "err", err)
			results = append(results, result)
			continue
		}
		if value, ok := decode.Registers(b.DataType, words); ok {
			result.Value = value
			result.OK = true
		}
		results = append(results, result)
	}
	return results
}

// assembleVector maps scan results to channel positions: result k
// feeds channel k. Channels beyond the plan and absent results receive
// 0.0; extra results beyond the channel count are dropped.
func assembleVector(results []ReadResult, channelCount int) []float64 {
	vector := make([]float64, channelCount)
	for i := 0; i < len(results) && i < channelCount; i++ {
		if results[i].OK {
			vector[i] = results[i].Value
		}
	}
	return vector
}
