package constant

import (
	"encoding/json"
	"fmt"
)

type DataType int8

const (
	INT16 DataType = iota + 1
	UINT16
	INT32
	UINT32
	FLOAT32
)

var DataTypeToString = map[DataType]string{
	INT16:   "int16",
	UINT16:  "uint16",
	INT32:   "int32",
	UINT32:  "uint32",
	FLOAT32: "float32",
}

var StringToDataType = map[string]DataType{
	"int16":   INT16,
	"uint16":  UINT16,
	"int32":   INT32,
	"uint32":  UINT32,
	"float32": FLOAT32,
}

// DataTypeWord is the number of 16-bit registers one value of the type
// occupies on the wire.
var DataTypeWord = map[DataType]uint{
	INT16:   1,
	UINT16:  1,
	INT32:   2,
	UINT32:  2,
	FLOAT32: 2,
}

func (dt DataType) MarshalJSON() ([]byte, error) {
	if s, ok := DataTypeToString[dt]; ok {
		return json.Marshal(s)
	}
	return nil, fmt.Errorf("unknown data type %d", dt)
}

func (dt *DataType) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}

	v, ok := StringToDataType[s]
	if !ok {
		return fmt.Errorf("unknown data type %s", s)
	}
	*dt = v
	return nil
}
