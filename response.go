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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// TrimMode selects whether a response buffer still carries its trailing
// status word when handed to a parser. Operations that validate and
// strip the status word up front use StatusStripped; parsers fed the
// raw wire buffer use StatusInclusive.
type TrimMode int

const (
	StatusStripped TrimMode = iota
	StatusInclusive
)

// SplitStatusWord separates a raw response into its data bytes and the
// trailing 2-byte status word.
func SplitStatusWord(response []byte) ([]byte, uint16, error) {
	if len(response) < 2 {
		return nil, 0, &TransportError{Err: errors.New("response shorter than a status word")}
	}
	sw := binary.BigEndian.Uint16(response[len(response)-2:])
	return response[:len(response)-2], sw, nil
}

// checkStatus strips the status word and converts any non-success value
// into a DeviceRejectedError carrying the raw word.
func checkStatus(response []byte) ([]byte, error) {
	data, sw, err := SplitStatusWord(response)
	if err != nil {
		return nil, err
	}
	if sw != SW_OK {
		return nil, &DeviceRejectedError{SW: sw}
	}
	return data, nil
}

// ParseAddrResponse extracts the public key from an address response:
// one length byte followed by that many key bytes.
func ParseAddrResponse(data []byte, mode TrimMode) (*ResponseAddr, error) {
	if mode == StatusInclusive {
		var err error
		data, err = checkStatus(data)
		if err != nil {
			return nil, err
		}
	}

	if len(data) < 1 {
		return nil, &TransportError{Err: errors.New("empty address response")}
	}
	keyLen := int(data[0])
	if len(data) < 1+keyLen {
		return nil, &TransportError{Err: fmt.Errorf("address response truncated: want %d key bytes, have %d", keyLen, len(data)-1)}
	}

	return &ResponseAddr{PublicKey: append([]byte(nil), data[1:1+keyLen]...)}, nil
}

// ParseXPubResponse extracts the public key and chain code from an
// extended public key response: [keyLen, key..., chainLen, chain...].
func ParseXPubResponse(data []byte) (*ResponseXPub, error) {
	if len(data) < 1 {
		return nil, &TransportError{Err: errors.New("empty extended key response")}
	}
	keyLen := int(data[0])
	if len(data) < 2+keyLen {
		return nil, &TransportError{Err: errors.New("extended key response truncated before chain code")}
	}
	chainLen := int(data[1+keyLen])
	if len(data) < 2+keyLen+chainLen {
		return nil, &TransportError{Err: errors.New("extended key response truncated inside chain code")}
	}

	return &ResponseXPub{
		PublicKey: append([]byte(nil), data[1:1+keyLen]...),
		ChainCode: append([]byte(nil), data[2+keyLen:2+keyLen+chainLen]...),
	}, nil
}

// ParseAppInfo decodes a version/config response: three raw version
// bytes, then two zero-terminated runs holding the build identifier and
// the product name. Whatever follows the second terminator should be
// the success status word; firmware padding varies across releases, so
// a mismatch there is logged and the parse still succeeds.
func ParseAppInfo(raw []byte, log zerolog.Logger) (*AppInfo, error) {
	if len(raw) < 3 {
		return nil, &TransportError{Err: errors.New("version response shorter than 3 bytes")}
	}

	info := &AppInfo{
		Version: VersionInfo{Major: raw[0], Minor: raw[1], Patch: raw[2]},
	}

	var rest []byte
	info.Commit, rest = readZeroTerminated(raw[3:])
	info.Name, rest = readZeroTerminated(rest)

	if !bytes.Equal(rest, []byte{0x90, 0x00}) {
		log.Warn().
			Hex("trailer", rest).
			Str("version", info.Version.String()).
			Msg("version response trailer is not the success status word")
	}

	return info, nil
}

// readZeroTerminated returns the run up to (not including) the first
// zero byte, and whatever follows the terminator. A missing terminator
// consumes the whole buffer.
func readZeroTerminated(buf []byte) (string, []byte) {
	idx := bytes.IndexByte(buf, 0)
	if idx < 0 {
		return string(buf), nil
	}
	return string(buf[:idx]), buf[idx+1:]
}

// ParseWalletID extracts the wallet identifier. In this protocol
// revision the identifier is everything before the trailing status
// word; it is not a fixed 32-byte read.
func ParseWalletID(data []byte) (WalletID, error) {
	if len(data) == 0 {
		return nil, &TransportError{Err: errors.New("empty wallet id response")}
	}
	return WalletID(append([]byte(nil), data...)), nil
}
