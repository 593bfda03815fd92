/*******************************************************************************
*   (c) 2018 - 2022 Zondax AG
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PrintVersion(t *testing.T) {
	reqVersion := VersionInfo{1, 2, 3}
	s := fmt.Sprintf("%v", reqVersion)
	assert.Equal(t, "1.2.3", s)
}

func Test_CheckVersion(t *testing.T) {
	required := VersionInfo{0, 6, 0}

	assert.NoError(t, CheckVersion(VersionInfo{0, 6, 0}, required))
	assert.NoError(t, CheckVersion(VersionInfo{0, 6, 5}, required))
	assert.NoError(t, CheckVersion(VersionInfo{0, 7, 0}, required))
	assert.NoError(t, CheckVersion(VersionInfo{1, 0, 0}, required))

	err := CheckVersion(VersionInfo{0, 5, 9}, required)
	require.Error(t, err)
	var verErr *VersionRequiredError
	assert.ErrorAs(t, err, &verErr)
}

func Test_SerializeHrp(t *testing.T) {
	hrp := "zemu"
	expected := []byte{0x04, 0x7a, 0x65, 0x6d, 0x75}

	serialized, err := SerializeHrp(hrp)
	require.NoError(t, err)
	assert.Equal(t, expected, serialized)
}

func Test_SerializeHrp_Empty(t *testing.T) {
	serialized, err := SerializeHrp("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, serialized)
}

func Test_SerializeHrp_TooLong(t *testing.T) {
	_, err := SerializeHrp("a-prefix-longer-than-24-bytes")
	require.Error(t, err)

	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func Test_SerializeHrp_BadCharacters(t *testing.T) {
	_, err := SerializeHrp("has space")
	assert.Error(t, err)
}

func Test_SerializeChainID(t *testing.T) {
	chainID := "3qbR1eZRqXUWroWKKYhbDmR3FfqTHfqSU8zZSxtANzYh"
	expected := []byte{
		0x20,
		0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
		0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
		0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
		0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	}

	serialized, err := SerializeChainID(chainID)
	require.NoError(t, err)
	assert.Equal(t, expected, serialized)
}

func Test_SerializeChainID_Empty(t *testing.T) {
	serialized, err := SerializeChainID("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, serialized)
}

func Test_SerializeChainID_WrongLength(t *testing.T) {
	_, err := SerializeChainID("3qbR1eZRqXUW")
	assert.Error(t, err)
}
