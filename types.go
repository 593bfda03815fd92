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

// Wire constants, pinned to the v0.x instruction table of the Avax app.
// The app build identifier is folded into the version response; there is
// no separate opcode for it in this revision.
const (
	CLA = 0x80

	INS_GET_VERSION             = 0x00
	INS_WALLET_ID               = 0x01
	INS_GET_ADDR                = 0x02
	INS_GET_EXTENDED_PUBLIC_KEY = 0x03
	INS_SIGN_HASH               = 0x04
	INS_SIGN                    = 0x05

	// MAX_FRAME_SIZE is the largest payload a single APDU may carry.
	// Anything longer must go through SplitChunks.
	MAX_FRAME_SIZE = 230

	HASH_LEN    = 32
	MAX_HRP_LEN = 24

	// P1 roles for the transaction payload stream.
	PAYLOAD_INIT = 0x00
	PAYLOAD_ADD  = 0x01
	PAYLOAD_LAST = 0x02

	// P1 roles for preamble and signature collection. NEXT and LAST are
	// distinct so the device can tell "more suffixes coming" from "this
	// completes the round".
	FIRST_MESSAGE = 0x00
	LAST_MESSAGE  = 0x02
	NEXT_MESSAGE  = 0x03

	P1_ONLY_RETRIEVE          = 0x00
	P1_SHOW_ADDRESS_IN_DEVICE = 0x01

	P2_NO_CHANGE_PATH  = 0x00
	P2_HAS_CHANGE_PATH = 0x01

	HARDENED = 0x80000000

	// SW_OK is the success status word trailing every response.
	SW_OK = 0x9000
)

type LedgerError int

const (
	NoErrors                LedgerError = 0x9000
	DeviceIsBusy            LedgerError = 0x9001
	ErrorDerivingKeys       LedgerError = 0x6802
	ExecutionError          LedgerError = 0x6400
	WrongLength             LedgerError = 0x6700
	EmptyBuffer             LedgerError = 0x6982
	OutputBufferTooSmall    LedgerError = 0x6983
	DataIsInvalid           LedgerError = 0x6a80
	ConditionsNotSatisfied  LedgerError = 0x6985
	TransactionRejected     LedgerError = 0x6986
	BadKeyHandle            LedgerError = 0x6a81
	InvalidP1P2             LedgerError = 0x6b00
	InstructionNotSupported LedgerError = 0x6d00
	ClaNotSupported         LedgerError = 0x6e00
	AppDoesNotSeemToBeOpen  LedgerError = 0x6e01
	UnknownError            LedgerError = 0x6f00
	SignVerifyError         LedgerError = 0x6f01
)

var ledgerErrorMessage = map[LedgerError]string{
	NoErrors:                "no errors",
	DeviceIsBusy:            "device is busy",
	ErrorDerivingKeys:       "error deriving keys",
	ExecutionError:          "execution error",
	WrongLength:             "wrong length",
	EmptyBuffer:             "empty buffer",
	OutputBufferTooSmall:    "output buffer too small",
	DataIsInvalid:           "data is invalid",
	ConditionsNotSatisfied:  "conditions not satisfied",
	TransactionRejected:     "transaction rejected",
	BadKeyHandle:            "bad key handle",
	InvalidP1P2:             "invalid P1/P2",
	InstructionNotSupported: "instruction not supported",
	ClaNotSupported:         "CLA not supported",
	AppDoesNotSeemToBeOpen:  "app does not seem to be open",
	UnknownError:            "unknown error",
	SignVerifyError:         "signature verification error",
}

// VersionInfo contains the app version reported by the device
type VersionInfo struct {
	Major uint8
	Minor uint8
	Patch uint8
}

func (c VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", c.Major, c.Minor, c.Patch)
}

// AppInfo is the full version/config response: the app version plus the
// build identifier and product name embedded in the same reply.
type AppInfo struct {
	Version VersionInfo
	Commit  string
	Name    string
}

type VersionRequiredError struct {
	Found    VersionInfo
	Required VersionInfo
}

func (e VersionRequiredError) Error() string {
	return fmt.Sprintf("App Version required %s - Version found: %s", e.Required, e.Found)
}

// ResponseAddr carries the raw public key for a derived address
type ResponseAddr struct {
	PublicKey []byte
}

// ResponseXPub carries an extended public key: the key and its chain code
type ResponseXPub struct {
	PublicKey []byte
	ChainCode []byte
}

// WalletID identifies a physical device/seed pair
type WalletID []byte

// ResponseSign holds the signatures produced by one signing round.
// Paths preserves request order; Signature is keyed by each suffix's
// canonical string form. Insertion order matching request order is part
// of the contract, not an implementation detail.
type ResponseSign struct {
	Hash      []byte
	Paths     []string
	Signature map[string][]byte
}
