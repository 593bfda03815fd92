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

import "fmt"

// InvalidInputError reports caller-supplied data that violates a
// precondition. It is always raised before any frame is sent, so no
// partial device session can result from it.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// EncodingError reports an internal invariant violation while building
// wire bytes. It indicates a caller bug, never a device fault.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "encoding error: " + e.Reason
}

// IntegrityError means the device echoed a hash or digest that does not
// match the host-computed value. It is security relevant: the partial
// session must be assumed poisoned and the operation is never retried
// automatically.
type IntegrityError struct {
	Expected []byte
	Got      []byte
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: device echoed %x, expected %x", e.Got, e.Expected)
}

// DeviceRejectedError carries the raw non-success status word returned
// by the device.
type DeviceRejectedError struct {
	SW uint16
}

func (e *DeviceRejectedError) Error() string {
	if msg, ok := ledgerErrorMessage[LedgerError(e.SW)]; ok {
		return fmt.Sprintf("device rejected command: %s (0x%04x)", msg, e.SW)
	}
	return fmt.Sprintf("device rejected command: 0x%04x", e.SW)
}

// TransportError wraps a failure of the underlying channel (disconnect,
// timeout). It is propagated unmodified; this layer does not retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
