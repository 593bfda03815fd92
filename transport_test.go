/*******************************************************************************
*   (c) 2018 - 2023 Zondax AG
*
*  Licensed under the Apache License, Version 2.0 (the "License");
*  you may not use this file except in compliance with the License.
*  You may obtain a copy of the License at
*
*      http://www.apache.org/licenses/LICENSE-2.0
*
*  Unless required by applicable law or agreed to in writing, software
*  distributed under the License is distributed on an "AS IS" BASIS,
*  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
*  See the License for the specific language governing permissions and
*  limitations under the License.
********************************************************************************/

package ledger_avax_go

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	reply []byte
	err   error
	last  []byte
}

func (d *fakeDevice) Exchange(command []byte) ([]byte, error) {
	d.last = append([]byte(nil), command...)
	if d.err != nil {
		return nil, d.err
	}
	return append([]byte(nil), d.reply...), nil
}

func Test_DeviceTransport_RestoresStatusWord(t *testing.T) {
	device := &fakeDevice{reply: []byte{0xAA, 0xBB}}
	transport := &ledgerDeviceTransport{device: device}

	raw, err := transport.Send(INS_GET_VERSION, 0x00, 0x00, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0x90, 0x00}, raw)
	assert.Equal(t, []byte{CLA, INS_GET_VERSION, 0x00, 0x00, 0x01, 0x01}, device.last)
}

func Test_DeviceTransport_MapsApduCodesToRejections(t *testing.T) {
	tests := []struct {
		message string
		wantSW  uint16
	}{
		{"[APDU_CODE_CONDITIONS_NOT_SATISFIED] Conditions of use not satisfied", 0x6985},
		{"[APDU_CODE_CLA_NOT_SUPPORTED] CLA not supported", 0x6e00},
		{"[APDU_CODE_BAD_KEY_HANDLE] The parameters in the data field are incorrect", 0x6a80},
		{"[APDU_CODE_DATA_INVALID] Referenced data reversibly blocked (invalidated)", 0x6984},
	}

	for _, tc := range tests {
		device := &fakeDevice{err: errors.New(tc.message)}
		transport := &ledgerDeviceTransport{device: device}

		_, err := transport.Send(INS_SIGN_HASH, 0x00, 0x00, nil)
		var rejected *DeviceRejectedError
		require.ErrorAs(t, err, &rejected, tc.message)
		assert.Equal(t, tc.wantSW, rejected.SW)
	}
}

func Test_DeviceTransport_IOFailureStaysTransportError(t *testing.T) {
	for _, message := range []string{
		"hid: device disconnected",
		"[APDU_CODE_NOT_A_REAL_TAG] something new",
		"[truncated",
	} {
		device := &fakeDevice{err: errors.New(message)}
		transport := &ledgerDeviceTransport{device: device}

		_, err := transport.Send(INS_GET_VERSION, 0x00, 0x00, nil)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr, message)
	}
}

func Test_DeviceTransport_OversizedPayload(t *testing.T) {
	device := &fakeDevice{}
	transport := &ledgerDeviceTransport{device: device}

	_, err := transport.Send(INS_SIGN, 0x00, 0x00, make([]byte, MAX_FRAME_SIZE+1))

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Nil(t, device.last, "an oversized frame must never reach the device")
}
