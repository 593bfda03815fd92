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
	"io"
	"sync"

	"github.com/rs/zerolog"
	ledger_go "github.com/zondax/ledger-go"
)

// minAppVersion is the oldest app release speaking the pinned wire
// revision.
var minAppVersion = VersionInfo{Major: 0, Minor: 6, Patch: 0}

// LedgerAvax talks to the Avax app over an injected transport. All
// operations are serialized on an internal mutex: the channel is
// half-duplex and the device keeps per-operation session state, so two
// operations must never interleave. If a multi-frame operation is
// abandoned partway, the device session is poisoned and the caller must
// reselect the app before retrying.
type LedgerAvax struct {
	mtx       sync.Mutex
	transport Transport
	log       zerolog.Logger
	closer    io.Closer
	version   VersionInfo
}

// Option configures a LedgerAvax at construction time.
type Option func(*LedgerAvax)

// WithLogger installs a diagnostics logger. Without it, warnings and
// frame traces are dropped.
func WithLogger(log zerolog.Logger) Option {
	return func(app *LedgerAvax) {
		app.log = log
	}
}

// WithMiddleware wraps the transport. Middlewares apply uniformly to
// every public operation and are composed in the order given.
func WithMiddleware(mw Middleware) Option {
	return func(app *LedgerAvax) {
		app.transport = mw(app.transport)
	}
}

// NewLedgerAvax builds a client over any Transport.
func NewLedgerAvax(transport Transport, opts ...Option) *LedgerAvax {
	app := &LedgerAvax{
		transport: transport,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// FindLedgerAvaxApp connects to the first HID-attached Ledger, checks
// that the Avax app is open and recent enough, and returns a ready
// client.
func FindLedgerAvaxApp(opts ...Option) (_ *LedgerAvax, rerr error) {
	ledgerAdmin := ledger_go.NewLedgerAdmin()
	ledgerAPI, err := ledgerAdmin.Connect(0)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rerr != nil {
			ledgerAPI.Close()
		}
	}()

	app := NewLedgerAvax(NewLedgerDeviceTransport(ledgerAPI), opts...)
	app.closer = ledgerAPI

	info, err := app.GetVersion()
	if err != nil {
		var rejected *DeviceRejectedError
		if errors.As(err, &rejected) && rejected.SW == uint16(ClaNotSupported) {
			err = fmt.Errorf("are you sure the Avalanche app is open? %w", err)
		}
		return nil, err
	}

	if err := CheckVersion(info.Version, minAppVersion); err != nil {
		return nil, err
	}

	return app, nil
}

// Close releases the underlying device, if this client owns one.
func (app *LedgerAvax) Close() error {
	if app.closer == nil {
		return nil
	}
	return app.closer.Close()
}

// GetVersion queries app version, build identifier and product name.
// Malformed trailers only produce a diagnostic, never a failure.
func (app *LedgerAvax) GetVersion() (*AppInfo, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	raw, err := exchange(app.transport, app.log, Frame{Ins: INS_GET_VERSION})
	if err != nil {
		return nil, err
	}
	if _, err := checkStatus(raw); err != nil {
		return nil, err
	}

	info, err := ParseAppInfo(raw, app.log)
	if err != nil {
		return nil, err
	}

	app.version = info.Version
	return info, nil
}

// CheckVersion returns nil if the app on the device is at least req.
// The version cached by the last GetVersion call is reused; a fresh
// client queries the device once.
func (app *LedgerAvax) CheckVersion(req VersionInfo) error {
	app.mtx.Lock()
	cached := app.version
	app.mtx.Unlock()

	if cached == (VersionInfo{}) {
		info, err := app.GetVersion()
		if err != nil {
			return err
		}
		cached = info.Version
	}

	return CheckVersion(cached, req)
}

// GetWalletID returns the identifier of the seed loaded on the device.
func (app *LedgerAvax) GetWalletID() (WalletID, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	raw, err := exchange(app.transport, app.log, Frame{Ins: INS_WALLET_ID})
	if err != nil {
		return nil, err
	}
	data, err := checkStatus(raw)
	if err != nil {
		return nil, err
	}

	return ParseWalletID(data)
}

// GetPubKey derives the public key for path. With show set, the device
// displays the address for confirmation. hrp is the human-readable
// address prefix (at most 24 bytes); chainID selects the chain the
// device renders the address for and may be empty.
func (app *LedgerAvax) GetPubKey(path string, show bool, hrp string, chainID string) (*ResponseAddr, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if len(hrp) > MAX_HRP_LEN {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("hrp is %d bytes, limit is %d", len(hrp), MAX_HRP_LEN)}
	}

	serializedHRP, err := SerializeHrp(hrp)
	if err != nil {
		return nil, err
	}

	serializedChainID, err := SerializeChainID(chainID)
	if err != nil {
		return nil, err
	}

	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	serializedPath, err := parsed.Encode()
	if err != nil {
		return nil, err
	}

	p1 := byte(P1_ONLY_RETRIEVE)
	if show {
		p1 = P1_SHOW_ADDRESS_IN_DEVICE
	}

	payload := make([]byte, 0, len(serializedHRP)+len(serializedChainID)+len(serializedPath))
	payload = append(payload, serializedHRP...)
	payload = append(payload, serializedChainID...)
	payload = append(payload, serializedPath...)

	raw, err := exchange(app.transport, app.log, Frame{Ins: INS_GET_ADDR, P1: p1, Payload: payload})
	if err != nil {
		return nil, err
	}
	data, err := checkStatus(raw)
	if err != nil {
		return nil, err
	}

	return ParseAddrResponse(data, StatusStripped)
}

// GetExtPubKey derives the extended public key (key plus chain code)
// for path.
func (app *LedgerAvax) GetExtPubKey(path string) (*ResponseXPub, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	serializedPath, err := parsed.Encode()
	if err != nil {
		return nil, err
	}

	raw, err := exchange(app.transport, app.log, Frame{Ins: INS_GET_EXTENDED_PUBLIC_KEY, Payload: serializedPath})
	if err != nil {
		return nil, err
	}
	data, err := checkStatus(raw)
	if err != nil {
		return nil, err
	}

	return ParseXPubResponse(data)
}

// SignHash asks the device to sign the 32-byte hash once per suffix
// path under pathPrefix. The device echoes the hash back before any
// signature is produced; a mismatch aborts with an IntegrityError and
// no signature request is sent.
func (app *LedgerAvax) SignHash(pathPrefix string, signingPaths []string, hash []byte) (*ResponseSign, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	prefix, suffixes, err := parseSigningPaths(pathPrefix, signingPaths)
	if err != nil {
		return nil, err
	}

	session := newSigningSession(app.transport, app.log)
	return session.signHash(prefix, suffixes, hash)
}

// Sign streams the transaction to the device and collects one
// signature per suffix path under pathPrefix. changePath may be empty.
// The returned Hash is the transaction digest both sides computed.
func (app *LedgerAvax) Sign(pathPrefix string, signingPaths []string, transaction []byte, changePath string) (*ResponseSign, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	prefix, suffixes, err := parseSigningPaths(pathPrefix, signingPaths)
	if err != nil {
		return nil, err
	}

	var change Path
	if changePath != "" {
		change, err = ParsePath(changePath)
		if err != nil {
			return nil, err
		}
	}

	session := newSigningSession(app.transport, app.log)
	return session.signTransaction(prefix, suffixes, transaction, change)
}

func parseSigningPaths(pathPrefix string, signingPaths []string) (Path, []Path, error) {
	prefix, err := ParsePath(pathPrefix)
	if err != nil {
		return nil, nil, err
	}

	suffixes := make([]Path, 0, len(signingPaths))
	for _, raw := range signingPaths {
		suffix, err := ParsePath(raw)
		if err != nil {
			return nil, nil, err
		}
		suffixes = append(suffixes, suffix)
	}

	return prefix, suffixes, nil
}
