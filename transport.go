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
	"strings"

	"github.com/rs/zerolog"
	ledger_go "github.com/zondax/ledger-go"
)

// Transport moves one frame to the device and returns the raw reply,
// including the trailing status word. The channel is half-duplex and
// single-session: Send blocks until the full response is available, and
// callers must never have more than one frame outstanding.
type Transport interface {
	Send(ins, p1, p2 byte, payload []byte) ([]byte, error)
}

// Middleware wraps a Transport. Middlewares are installed once at
// construction and apply uniformly to every operation of the client.
type Middleware func(Transport) Transport

// exchange validates the frame size, traces it, and sends it. The raw
// response (status word included) is returned untouched.
func exchange(t Transport, log zerolog.Logger, f Frame) ([]byte, error) {
	if len(f.Payload) > MAX_FRAME_SIZE {
		return nil, &EncodingError{Reason: "frame payload exceeds MAX_FRAME_SIZE, chunking required"}
	}

	log.Trace().
		Uint8("ins", f.Ins).
		Uint8("p1", f.P1).
		Uint8("p2", f.P2).
		Int("payload_len", len(f.Payload)).
		Msg("apdu exchange")

	return t.Send(f.Ins, f.P1, f.P2, f.Payload)
}

// exchanger is the slice of ledger-go's device surface the adapter
// needs.
type exchanger interface {
	Exchange(command []byte) ([]byte, error)
}

// ledgerDeviceTransport adapts a zondax/ledger-go HID device to the
// Transport interface.
type ledgerDeviceTransport struct {
	device exchanger
}

// NewLedgerDeviceTransport wraps an already connected ledger-go device.
func NewLedgerDeviceTransport(device ledger_go.LedgerDevice) Transport {
	return &ledgerDeviceTransport{device: device}
}

// ledger-go validates status words internally and reports rejections as
// errors tagged with an APDU code name. Mapping the known tags back to
// their status words keeps rejections typed the same over every
// transport.
var apduCodeStatusWord = map[string]uint16{
	"APDU_CODE_EXECUTION_ERROR":          0x6400,
	"APDU_CODE_WRONG_LENGTH":             0x6700,
	"APDU_CODE_EMPTY_BUFFER":             0x6982,
	"APDU_CODE_OUTPUT_BUFFER_TOO_SMALL":  0x6983,
	"APDU_CODE_DATA_INVALID":             0x6984,
	"APDU_CODE_CONDITIONS_NOT_SATISFIED": 0x6985,
	"APDU_CODE_COMMAND_NOT_ALLOWED":      0x6986,
	"APDU_CODE_BAD_KEY_HANDLE":           0x6a80,
	"APDU_CODE_INVALIDP1P2":              0x6b00,
	"APDU_CODE_INS_NOT_SUPPORTED":        0x6d00,
	"APDU_CODE_CLA_NOT_SUPPORTED":        0x6e00,
	"APDU_CODE_UNKNOWN":                  0x6f00,
	"APDU_CODE_SIGN_VERIFY_ERROR":        0x6f01,
}

func rejectionFromExchangeError(err error) (*DeviceRejectedError, bool) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "[APDU_CODE_") {
		return nil, false
	}
	end := strings.IndexByte(msg, ']')
	if end < 0 {
		return nil, false
	}
	sw, ok := apduCodeStatusWord[msg[1:end]]
	if !ok {
		return nil, false
	}
	return &DeviceRejectedError{SW: sw}, true
}

func (t *ledgerDeviceTransport) Send(ins, p1, p2 byte, payload []byte) ([]byte, error) {
	apdu, err := Frame{Ins: ins, P1: p1, P2: p2, Payload: payload}.Bytes()
	if err != nil {
		return nil, err
	}

	response, err := t.device.Exchange(apdu)
	if err != nil {
		if rejected, ok := rejectionFromExchangeError(err); ok {
			return nil, rejected
		}
		return nil, &TransportError{Err: err}
	}

	// ledger-go strips the success status word; restore it so the
	// parsing layer always sees the full wire form.
	return append(response, 0x90, 0x00), nil
}
