/*******************************************************************************
*   (c) 2018 - 2022 ZondaX AG
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
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Path is an ordered sequence of BIP32 child indexes. Hardened children
// carry bit 31 set in the value itself; there is no separate flag.
type Path []uint32

// ParsePath parses an absolute path such as "m/44'/9000'/0'/0/0" or a
// bare suffix such as "0/3". A "'" suffix marks a hardened child.
func ParsePath(path string) (Path, error) {
	components := strings.Split(path, "/")
	if len(components) > 0 && components[0] == "m" {
		components = components[1:]
	}
	if len(components) == 0 || components[0] == "" {
		return nil, &InvalidInputError{Reason: "empty derivation path"}
	}

	out := make(Path, 0, len(components))
	for _, child := range components {
		var value uint32
		if strings.HasSuffix(child, "'") {
			value = HARDENED
			child = child[:len(child)-1]
		}

		childNumber, err := strconv.ParseUint(child, 10, 32)
		if err != nil {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("path component %q is not a number", child)}
		}
		if childNumber >= HARDENED {
			return nil, &InvalidInputError{Reason: "child value bigger or equal to 0x80000000"}
		}

		out = append(out, value+uint32(childNumber))
	}

	return out, nil
}

// String renders the canonical text form, the inverse of ParsePath for
// suffix paths. It is the key form used in signature maps.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, segment := range p {
		if segment >= HARDENED {
			parts[i] = strconv.FormatUint(uint64(segment-HARDENED), 10) + "'"
		} else {
			parts[i] = strconv.FormatUint(uint64(segment), 10)
		}
	}
	return strings.Join(parts, "/")
}

// Encode serializes the path into wire form: one length byte followed by
// each segment as a 4-byte big-endian integer. The segment count must
// fit in the length byte.
func (p Path) Encode() ([]byte, error) {
	if len(p) == 0 {
		return nil, &EncodingError{Reason: "path has no segments"}
	}
	if len(p) > 255 {
		return nil, &EncodingError{Reason: fmt.Sprintf("path has %d segments, limit is 255", len(p))}
	}

	buf := make([]byte, 1+4*len(p))
	buf[0] = byte(len(p))
	for i, segment := range p {
		binary.BigEndian.PutUint32(buf[1+4*i:1+4*(i+1)], segment)
	}
	return buf, nil
}

// DecodePath is the exact inverse of Encode. The protocol never reads
// paths off the wire; this exists so encoding stays testable.
func DecodePath(buf []byte) (Path, error) {
	if len(buf) < 1 {
		return nil, &EncodingError{Reason: "path buffer is empty"}
	}
	count := int(buf[0])
	if count == 0 {
		return nil, &EncodingError{Reason: "path has no segments"}
	}
	if len(buf) != 1+4*count {
		return nil, &EncodingError{Reason: fmt.Sprintf("path buffer is %d bytes, want %d for %d segments", len(buf), 1+4*count, count)}
	}

	out := make(Path, count)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(buf[1+4*i : 1+4*(i+1)])
	}
	return out, nil
}
