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

// Frame is one APDU exchanged with the device: instruction, two
// parameter bytes and a payload of at most MAX_FRAME_SIZE bytes.
type Frame struct {
	Ins     byte
	P1      byte
	P2      byte
	Payload []byte
}

// Bytes serializes the frame as [CLA, INS, P1, P2, LEN, payload...].
// Payloads over MAX_FRAME_SIZE must be chunked by the caller first;
// hitting the limit here is a programmer error.
func (f Frame) Bytes() ([]byte, error) {
	if len(f.Payload) > MAX_FRAME_SIZE {
		return nil, &EncodingError{Reason: fmt.Sprintf("frame payload is %d bytes, limit is %d", len(f.Payload), MAX_FRAME_SIZE)}
	}

	out := make([]byte, 0, 5+len(f.Payload))
	out = append(out, CLA, f.Ins, f.P1, f.P2, byte(len(f.Payload)))
	return append(out, f.Payload...), nil
}
