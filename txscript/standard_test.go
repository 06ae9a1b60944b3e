// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

// TestIsPayToScriptHash ensures the IsPayToScriptHash function returns the
// expected results for all the scripts in the tests.
func TestIsPayToScriptHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		expected bool
	}{
		{
			name: "standard p2sh",
			script: hexToBytes("a914433ec2ac1ffa1b7b7d027f564529c57" +
				"197f9ae8887"),
			expected: true,
		},
		{
			name: "p2sh pushed with pushdata1",
			script: hexToBytes("a94c14da1745e9b549bd0bfa1a5699" +
				"71c77eba30cd5a4b87"),
			expected: false,
		},
		{
			name:     "p2sh script hash only",
			script:   hexToBytes("a914da1745e9b549bd0bfa1a569971c77eba30cd5a4b"),
			expected: false,
		},
		{
			name: "trailing opcode",
			script: hexToBytes("a914da1745e9b549bd0bfa1a569971c77eb" +
				"a30cd5a4b8761"),
			expected: false,
		},
		{
			name:     "p2pkh",
			script:   hexToBytes("76a914da1745e9b549bd0bfa1a569971c77eba30cd5a4b88ac"),
			expected: false,
		},
		{
			name:     "empty script",
			script:   nil,
			expected: false,
		},
	}

	for _, test := range tests {
		if got := IsPayToScriptHash(test.script); got != test.expected {
			t.Errorf("%s: got %v, want %v", test.name, got,
				test.expected)
		}
	}
}

// TestIsPayToWitnessPubKeyHash ensures the IsPayToWitnessPubKeyHash function
// returns the expected results for all the scripts in the tests.
func TestIsPayToWitnessPubKeyHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		expected bool
	}{
		{
			name: "v0 p2wkh",
			script: hexToBytes("00149445e8b825f1a17d5e09194854" +
				"5c90654096db68"),
			expected: true,
		},
		{
			name: "v0 p2wsh is not p2wkh",
			script: hexToBytes("0020000102030405060708090a0b0c0d0e0" +
				"f000102030405060708090a0b0c0d0e0f"),
			expected: false,
		},
		{
			name: "v1 program is not v0 p2wkh",
			script: hexToBytes("51149445e8b825f1a17d5e09194854" +
				"5c90654096db68"),
			expected: false,
		},
		{
			name:     "truncated program",
			script:   hexToBytes("00139445e8b825f1a17d5e091948545c906540"),
			expected: false,
		},
		{
			name:     "empty script",
			script:   nil,
			expected: false,
		},
	}

	for _, test := range tests {
		got := IsPayToWitnessPubKeyHash(test.script)
		if got != test.expected {
			t.Errorf("%s: got %v, want %v", test.name, got,
				test.expected)
		}
	}
}

// TestIsPayToWitnessScriptHash ensures the IsPayToWitnessScriptHash function
// returns the expected results for all the scripts in the tests.
func TestIsPayToWitnessScriptHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		expected bool
	}{
		{
			name: "v0 p2wsh",
			script: hexToBytes("0020000102030405060708090a0b0c0d0e0" +
				"f000102030405060708090a0b0c0d0e0f"),
			expected: true,
		},
		{
			name: "v0 p2wkh is not p2wsh",
			script: hexToBytes("00149445e8b825f1a17d5e09194854" +
				"5c90654096db68"),
			expected: false,
		},
		{
			name:     "empty script",
			script:   nil,
			expected: false,
		},
	}

	for _, test := range tests {
		got := IsPayToWitnessScriptHash(test.script)
		if got != test.expected {
			t.Errorf("%s: got %v, want %v", test.name, got,
				test.expected)
		}
	}
}

// TestIsWitnessProgram ensures the IsWitnessProgram function distinguishes
// witness programs from other scripts and that ExtractWitnessProgramInfo
// returns the component parts.
func TestIsWitnessProgram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		script    []byte
		isProgram bool
		version   int
		program   []byte
	}{
		{
			name: "v0 p2wkh",
			script: hexToBytes("00149445e8b825f1a17d5e09194854" +
				"5c90654096db68"),
			isProgram: true,
			version:   0,
			program: hexToBytes("9445e8b825f1a17d5e091948545c9065" +
				"4096db68"),
		},
		{
			name: "v0 p2wsh",
			script: hexToBytes("0020000102030405060708090a0b0c0d0e0" +
				"f000102030405060708090a0b0c0d0e0f"),
			isProgram: true,
			version:   0,
			program: hexToBytes("000102030405060708090a0b0c0d0e0f00" +
				"0102030405060708090a0b0c0d0e0f"),
		},
		{
			name:      "v1 40 byte program",
			script:    append([]byte{OP_1, OP_DATA_40}, bytes.Repeat([]byte{0xaa}, 40)...),
			isProgram: true,
			version:   1,
			program:   bytes.Repeat([]byte{0xaa}, 40),
		},
		{
			name:      "program data too short",
			script:    []byte{OP_0, OP_DATA_1, 0x01},
			isProgram: false,
		},
		{
			name: "non-canonical program push",
			script: append([]byte{OP_0, OP_PUSHDATA1, 0x14},
				bytes.Repeat([]byte{0xaa}, 20)...),
			isProgram: false,
		},
		{
			name: "p2sh is not a witness program",
			script: hexToBytes("a914433ec2ac1ffa1b7b7d027f564529c57" +
				"197f9ae8887"),
			isProgram: false,
		},
	}

	for _, test := range tests {
		if got := IsWitnessProgram(test.script); got != test.isProgram {
			t.Errorf("%s: IsWitnessProgram got %v, want %v",
				test.name, got, test.isProgram)
			continue
		}
		if !test.isProgram {
			continue
		}

		version, program, err := ExtractWitnessProgramInfo(test.script)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if version != test.version {
			t.Errorf("%s: got version %d, want %d", test.name,
				version, test.version)
		}
		if !bytes.Equal(program, test.program) {
			t.Errorf("%s: got program %x, want %x", test.name,
				program, test.program)
		}
	}
}

// TestExtractWitnessProgramInfoErr ensures attempting to extract the details
// from a non witness program script fails.
func TestExtractWitnessProgramInfoErr(t *testing.T) {
	t.Parallel()

	script := hexToBytes("76a914da1745e9b549bd0bfa1a569971c77eba30cd5a4b88ac")
	_, _, err := ExtractWitnessProgramInfo(script)
	if err == nil {
		t.Fatal("expected error for non witness program script")
	}
}
