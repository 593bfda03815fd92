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
	"fmt"

	"github.com/mr-tron/base58"
)

// CheckVersion compares the found version with the required minimum
func CheckVersion(ver VersionInfo, req VersionInfo) error {
	if ver.Major != req.Major {
		if ver.Major > req.Major {
			return nil
		}
		return &VersionRequiredError{Found: ver, Required: req}
	}

	if ver.Minor != req.Minor {
		if ver.Minor > req.Minor {
			return nil
		}
		return &VersionRequiredError{Found: ver, Required: req}
	}

	if ver.Patch >= req.Patch {
		return nil
	}
	return &VersionRequiredError{Found: ver, Required: req}
}

// SerializeHrp serializes a human-readable address prefix into length-
// prefixed wire form. An empty hrp serializes as a lone zero byte.
func SerializeHrp(hrp string) ([]byte, error) {
	if hrp == "" {
		return []byte{0}, nil
	}

	if len(hrp) > MAX_HRP_LEN {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("hrp is %d bytes, limit is %d", len(hrp), MAX_HRP_LEN)}
	}

	buf := make([]byte, 0, 1+len(hrp))
	buf = append(buf, byte(len(hrp)))
	for _, c := range hrp {
		if c < 33 || c > 126 {
			return nil, &InvalidInputError{Reason: "all characters in the hrp must be in the [33, 126] range"}
		}
		buf = append(buf, byte(c))
	}

	return buf, nil
}

// SerializeChainID serializes a base58-encoded chain ID into length-
// prefixed wire form. A 36-byte decoding carries a 4-byte checksum that
// gets chopped off; anything that is not 32 bytes after that is
// rejected. An empty chain ID serializes as a lone zero byte.
func SerializeChainID(chainID string) ([]byte, error) {
	if chainID == "" {
		return []byte{0}, nil
	}

	decoded, err := base58.Decode(chainID)
	if err != nil {
		return nil, &InvalidInputError{Reason: "chain id is not valid base58: " + err.Error()}
	}

	if len(decoded) == 36 {
		decoded = decoded[:32]
	} else if len(decoded) != 32 {
		return nil, &InvalidInputError{Reason: "chain id was not 32 bytes long (encoded with base58)"}
	}

	return append([]byte{byte(len(decoded))}, decoded...), nil
}
