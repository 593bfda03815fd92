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
	"bytes"

	sha256 "github.com/minio/sha256-simd"
	"github.com/rs/zerolog"
)

type signingState int

const (
	stateInit signingState = iota
	statePreambleSent
	statePayloadStreaming
	stateAwaitingHashEcho
	stateCollecting
	stateDone
	stateFailed
)

// signingSession drives one multi-round signing exchange. The device
// keeps implicit session state between frames, so a session that fails
// or is abandoned partway leaves the device in a partial state: the
// caller must reselect the app before issuing further operations.
type signingSession struct {
	transport Transport
	log       zerolog.Logger
	state     signingState
}

func newSigningSession(transport Transport, log zerolog.Logger) *signingSession {
	return &signingSession{transport: transport, log: log, state: stateInit}
}

// exchange sends one frame and validates the status word. Any failure
// moves the session to its terminal failed state.
func (s *signingSession) exchange(f Frame) ([]byte, error) {
	raw, err := exchange(s.transport, s.log, f)
	if err != nil {
		s.state = stateFailed
		return nil, err
	}
	data, err := checkStatus(raw)
	if err != nil {
		s.state = stateFailed
		return nil, err
	}
	return data, nil
}

func (s *signingSession) fail(err error) error {
	s.state = stateFailed
	return err
}

// signHash runs the hash-signing round: a single preamble carrying the
// suffix count, the 32-byte hash and the prefix path. The device echoes
// the hash back; only an exact match lets collection start.
func (s *signingSession) signHash(prefix Path, suffixes []Path, hash []byte) (*ResponseSign, error) {
	if len(hash) != HASH_LEN {
		return nil, s.fail(&InvalidInputError{Reason: "hash must be exactly 32 bytes"})
	}
	if err := validateSuffixes(suffixes); err != nil {
		return nil, s.fail(err)
	}

	prefixBuf, err := prefix.Encode()
	if err != nil {
		return nil, s.fail(err)
	}

	payload := make([]byte, 0, 1+HASH_LEN+len(prefixBuf))
	payload = append(payload, byte(len(suffixes)))
	payload = append(payload, hash...)
	payload = append(payload, prefixBuf...)

	s.state = statePreambleSent
	response, err := s.exchange(Frame{Ins: INS_SIGN_HASH, P1: FIRST_MESSAGE, P2: 0x00, Payload: payload})
	if err != nil {
		return nil, err
	}

	s.state = stateAwaitingHashEcho
	if len(response) < HASH_LEN || !bytes.Equal(response[:HASH_LEN], hash) {
		return nil, s.fail(&IntegrityError{Expected: hash, Got: response})
	}

	return s.collect(INS_SIGN_HASH, suffixes, hash)
}

// signTransaction runs the transaction-signing round: preamble with
// suffix count, prefix path and optional change path, then the payload
// streamed in chunks. The final chunk's response carries the digest the
// device computed; it must match the host-side digest of the same
// bytes before any signature is requested.
func (s *signingSession) signTransaction(prefix Path, suffixes []Path, payload []byte, changePath Path) (*ResponseSign, error) {
	if err := validateSuffixes(suffixes); err != nil {
		return nil, s.fail(err)
	}

	prefixBuf, err := prefix.Encode()
	if err != nil {
		return nil, s.fail(err)
	}

	preamble := make([]byte, 0, 1+len(prefixBuf))
	preamble = append(preamble, byte(len(suffixes)))
	preamble = append(preamble, prefixBuf...)
	p2 := byte(P2_NO_CHANGE_PATH)
	if changePath != nil {
		changeBuf, err := changePath.Encode()
		if err != nil {
			return nil, s.fail(err)
		}
		preamble = append(preamble, changeBuf...)
		p2 = P2_HAS_CHANGE_PATH
	}

	s.state = statePreambleSent
	if _, err := s.exchange(Frame{Ins: INS_SIGN, P1: PAYLOAD_INIT, P2: p2, Payload: preamble}); err != nil {
		return nil, err
	}

	digest := sha256.Sum256(payload)

	s.state = statePayloadStreaming
	var echoed []byte
	for _, chunk := range SplitChunks(payload, MAX_FRAME_SIZE) {
		p1 := byte(PAYLOAD_ADD)
		if chunk.Last {
			p1 = PAYLOAD_LAST
		}
		response, err := s.exchange(Frame{Ins: INS_SIGN, P1: p1, P2: 0x00, Payload: chunk.Data})
		if err != nil {
			return nil, err
		}
		if chunk.Last {
			echoed = response
		}
	}

	s.state = stateAwaitingHashEcho
	if len(echoed) < HASH_LEN || !bytes.Equal(echoed[:HASH_LEN], digest[:]) {
		return nil, s.fail(&IntegrityError{Expected: digest[:], Got: echoed})
	}

	return s.collect(INS_SIGN, suffixes, digest[:])
}

// collect requests one signature per suffix, in request order. The last
// suffix is flagged so the device can close the session. The result is
// keyed by each suffix's canonical string form.
func (s *signingSession) collect(ins byte, suffixes []Path, hash []byte) (*ResponseSign, error) {
	s.state = stateCollecting

	result := &ResponseSign{
		Hash:      hash,
		Paths:     make([]string, 0, len(suffixes)),
		Signature: make(map[string][]byte, len(suffixes)),
	}

	for idx, suffix := range suffixes {
		suffixBuf, err := suffix.Encode()
		if err != nil {
			return nil, s.fail(err)
		}

		p1 := byte(LAST_MESSAGE)
		if idx < len(suffixes)-1 {
			p1 = NEXT_MESSAGE
		}

		response, err := s.exchange(Frame{Ins: ins, P1: p1, P2: 0x00, Payload: suffixBuf})
		if err != nil {
			return nil, err
		}

		key := suffix.String()
		result.Paths = append(result.Paths, key)
		result.Signature[key] = response
	}

	s.state = stateDone
	return result, nil
}

// validateSuffixes rejects bad suffix lists before any frame is sent:
// the count must fit the preamble's count byte and canonical forms must
// be unique so the result map has one entry per request entry.
func validateSuffixes(suffixes []Path) error {
	if len(suffixes) == 0 {
		return &InvalidInputError{Reason: "at least one signing path is required"}
	}
	if len(suffixes) > 255 {
		return &InvalidInputError{Reason: "more than 255 signing paths"}
	}

	seen := make(map[string]struct{}, len(suffixes))
	for _, suffix := range suffixes {
		key := suffix.String()
		if _, dup := seen[key]; dup {
			return &InvalidInputError{Reason: "duplicate signing path " + key}
		}
		seen[key] = struct{}{}
	}
	return nil
}
