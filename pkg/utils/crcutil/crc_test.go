package crcutil

import "testing"

func TestCheckCrc16sum(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want uint16
	}{
		{
			name: "readHoldingRegistersRequest",
			data: []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A},
			want: 0xC5CD,
		},
		{
			name: "registerPayload",
			data: []byte{0x01, 0x03, 0x14, 0x00, 0x90, 0x00, 0x00, 0x00, 0x00, 0x01, 0x4D, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x09, 0x00, 0x00, 0x00, 0x00},
			want: 0x7F04,
		},
		{
			name: "readCoilsRequest",
			data: []byte{0x02, 0x01, 0x00, 0x00, 0x00, 0x08},
			want: 0x3DFF,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckCrc16sum(tc.data); got != tc.want {
				t.Errorf("CheckCrc16sum(% X) = %04X, want %04X", tc.data, got, tc.want)
			}
		})
	}
}
