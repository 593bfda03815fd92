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

// Chunk is one slice of a payload too large for a single frame. Last
// marks the chunk that completes the transfer.
type Chunk struct {
	Data []byte
	Last bool
}

// SplitChunks partitions payload into in-order chunks of at most maxSize
// bytes. An empty payload still yields one empty final chunk, so
// operations that need at least one frame terminate correctly. The
// result is recomputable from the same inputs; sending it is not
// idempotent. A non-positive maxSize falls back to MAX_FRAME_SIZE.
func SplitChunks(payload []byte, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = MAX_FRAME_SIZE
	}
	if len(payload) == 0 {
		return []Chunk{{Data: []byte{}, Last: true}}
	}

	chunks := make([]Chunk, 0, (len(payload)+maxSize-1)/maxSize)
	for i := 0; i < len(payload); i += maxSize {
		end := i + maxSize
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, Chunk{Data: payload[i:end], Last: end == len(payload)})
	}
	return chunks
}
