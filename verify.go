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
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// VerifySignature checks that the given public key created signature
// over hash. The public key should be in compressed (33 bytes) or
// uncompressed (65 bytes) format. The signature should have the 64 byte
// [R || S] format.
func VerifySignature(pubkey, hash, signature []byte) bool {
	if len(signature) != 64 {
		return false
	}
	var r, s btcec.ModNScalar
	if r.SetByteSlice(signature[:32]) {
		return false // overflow
	}
	if s.SetByteSlice(signature[32:]) {
		return false
	}
	sig := ecdsa.NewSignature(&r, &s)
	key, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	// Reject malleable signatures. libsecp256k1 does this check but btcec doesn't.
	if s.IsOverHalfOrder() {
		return false
	}
	return sig.Verify(hash, key)
}

// VerifyMultipleSignatures re-derives each signing key from the device
// and checks every collected signature over messageHash. Device
// signatures end with a recovery byte, which is dropped before
// verification.
func (app *LedgerAvax) VerifyMultipleSignatures(response *ResponseSign, messageHash []byte, rootPath string, hrp string, chainID string) error {
	if response == nil || len(response.Signature) != len(response.Paths) {
		return errors.New("sizes of signatures and paths don't match")
	}

	for _, suffix := range response.Paths {
		path := fmt.Sprintf("%s/%s", rootPath, suffix)

		addr, err := app.GetPubKey(path, false, hrp, chainID)
		if err != nil {
			return fmt.Errorf("error getting the pubkey for %s: %w", path, err)
		}

		signature := response.Signature[suffix]
		if len(signature) < 65 {
			return fmt.Errorf("signature for %s is too short", suffix)
		}
		if !VerifySignature(addr.PublicKey, messageHash, signature[:64]) {
			return fmt.Errorf("signature for %s does not verify", suffix)
		}
	}
	return nil
}
