// Copyright (c) 2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"
	"testing"
)

// TestScriptTokenizer ensures a wide variety of behavior provided by the script
// tokenizer performs as expected.
func TestScriptTokenizer(t *testing.T) {
	type expectedResult struct {
		op    byte   // expected parsed opcode
		data  []byte // expected parsed data
		index int32  // expected index into raw script after parsing token
	}

	type tokenizerTest struct {
		name     string           // test description
		script   []byte           // the script to tokenize
		expected []expectedResult // the expected info after parsing each token
		finalIdx int32            // the expected final byte index
		err      error            // expected error
	}

	// Add both positive and negative tests for OP_DATA_1 through OP_DATA_75.
	const numTestsHint = 100 // Make prealloc linter happy.
	tests := make([]tokenizerTest, 0, numTestsHint)
	for op := byte(OP_DATA_1); op < OP_DATA_75; op++ {
		data := bytes.Repeat([]byte{0x01}, int(op))
		tests = append(tests, tokenizerTest{
			name:     fmt.Sprintf("OP_DATA_%d", op),
			script:   append([]byte{op}, data...),
			expected: []expectedResult{{op, data, 1 + int32(op)}},
			finalIdx: 1 + int32(op),
			err:      nil,
		})

		// Create test that provides one less byte than the data push requires.
		tests = append(tests, tokenizerTest{
			name:     fmt.Sprintf("short OP_DATA_%d", op),
			script:   append([]byte{op}, data[1:]...),
			expected: nil,
			finalIdx: 0,
			err:      scriptError(ErrMalformedPush, ""),
		})
	}

	// Add both positive and negative tests for OP_PUSHDATA{1,2,4}.
	data := bytes.Repeat([]byte{0x01}, 76)
	tests = append(tests, []tokenizerTest{{
		name:     "OP_PUSHDATA1",
		script:   append([]byte{OP_PUSHDATA1, 0x4c}, data...),
		expected: []expectedResult{{OP_PUSHDATA1, data, 2 + int32(len(data))}},
		finalIdx: 2 + int32(len(data)),
		err:      nil,
	}, {
		name:     "OP_PUSHDATA1 no data length",
		script:   []byte{OP_PUSHDATA1},
		expected: nil,
		finalIdx: 0,
		err:      scriptError(ErrMalformedPush, ""),
	}, {
		name:     "OP_PUSHDATA1 short data by 1 byte",
		script:   append([]byte{OP_PUSHDATA1, 0x4c}, data[1:]...),
		expected: nil,
		finalIdx: 0,
		err:      scriptError(ErrMalformedPush, ""),
	}, {
		name:     "OP_PUSHDATA2",
		script:   append([]byte{OP_PUSHDATA2, 0x4c, 0x00}, data...),
		expected: []expectedResult{{OP_PUSHDATA2, data, 3 + int32(len(data))}},
		finalIdx: 3 + int32(len(data)),
		err:      nil,
	}, {
		name:     "OP_PUSHDATA2 no data length",
		script:   []byte{OP_PUSHDATA2},
		expected: nil,
		finalIdx: 0,
		err:      scriptError(ErrMalformedPush, ""),
	}, {
		name:     "OP_PUSHDATA2 short data by 1 byte",
		script:   append([]byte{OP_PUSHDATA2, 0x4c, 0x00}, data[1:]...),
		expected: nil,
		finalIdx: 0,
		err:      scriptError(ErrMalformedPush, ""),
	}, {
		name:     "OP_PUSHDATA4",
		script:   append([]byte{OP_PUSHDATA4, 0x4c, 0x00, 0x00, 0x00}, data...),
		expected: []expectedResult{{OP_PUSHDATA4, data, 5 + int32(len(data))}},
		finalIdx: 5 + int32(len(data)),
		err:      nil,
	}, {
		name:     "OP_PUSHDATA4 no data length",
		script:   []byte{OP_PUSHDATA4},
		expected: nil,
		finalIdx: 0,
		err:      scriptError(ErrMalformedPush, ""),
	}, {
		name:     "OP_PUSHDATA4 short data by 1 byte",
		script:   append([]byte{OP_PUSHDATA4, 0x4c, 0x00, 0x00, 0x00}, data[1:]...),
		expected: nil,
		finalIdx: 0,
		err:      scriptError(ErrMalformedPush, ""),
	}}...)

	// Add tests for OP_0, and OP_1 through OP_16 (small integers/true/false).
	opcodes := []byte{OP_0}
	for op := byte(OP_1); op < OP_16; op++ {
		opcodes = append(opcodes, op)
	}
	for _, op := range opcodes {
		tests = append(tests, tokenizerTest{
			name:     fmt.Sprintf("OP_%d", op),
			script:   []byte{op},
			expected: []expectedResult{{op, nil, 1}},
			finalIdx: 1,
			err:      nil,
		})
	}

	// Add various positive and negative tests for multi-opcode scripts.
	tests = append(tests, []tokenizerTest{{
		name:   "pay-to-pubkey-hash",
		script: hexToBytes("76a914045b752093ee2d1c9ca06b94a51a54f85a5d6e4688ac"),
		expected: []expectedResult{
			{OP_DUP, nil, 1}, {OP_HASH160, nil, 2},
			{OP_DATA_20, hexToBytes("045b752093ee2d1c9ca06b94a51a54f85a5d6e46"), 23},
			{OP_EQUALVERIFY, nil, 24}, {OP_CHECKSIG, nil, 25},
		},
		finalIdx: 25,
		err:      nil,
	}, {
		name:   "almost pay-to-pubkey-hash (short data)",
		script: hexToBytes("76a914045b752093ee2d1c9ca06b94a51a54f85a"),
		expected: []expectedResult{
			{OP_DUP, nil, 1}, {OP_HASH160, nil, 2},
		},
		finalIdx: 2,
		err:      scriptError(ErrMalformedPush, ""),
	}, {
		name:   "almost pay-to-pubkey-hash (overlapped data)",
		script: hexToBytes("76a914045b752093ee2d1c9ca06b94a51a54f85a5d6e87ac"),
		expected: []expectedResult{
			{OP_DUP, nil, 1}, {OP_HASH160, nil, 2},
			{OP_DATA_20, hexToBytes("045b752093ee2d1c9ca06b94a51a54f85a5d6e87"), 23},
			{OP_CHECKSIG, nil, 24},
		},
		finalIdx: 24,
		err:      nil,
	}, {
		name:   "pay-to-script-hash",
		script: hexToBytes("a914da1745e9b549bd0bfa1a569971c77eba30cd5a4b87"),
		expected: []expectedResult{
			{OP_HASH160, nil, 1},
			{OP_DATA_20, hexToBytes("da1745e9b549bd0bfa1a569971c77eba30cd5a4b"), 22},
			{OP_EQUAL, nil, 23},
		},
		finalIdx: 23,
		err:      nil,
	}}...)

nextTest:
	for _, test := range tests {
		tokenizer := MakeScriptTokenizer(0, test.script)
		var numParsedTokens int
		for tokenizer.Next() {
			// Ensure the opcode and data are the expected values.
			if numParsedTokens >= len(test.expected) {
				t.Errorf("%q: unexpected token %d", test.name,
					numParsedTokens)
				continue nextTest
			}
			expected := &test.expected[numParsedTokens]
			if tokenizer.Opcode() != expected.op {
				t.Errorf("%q: unexpected opcode -- got %d, want %d",
					test.name, tokenizer.Opcode(), expected.op)
				continue nextTest
			}
			if !bytes.Equal(tokenizer.Data(), expected.data) {
				t.Errorf("%q: unexpected data -- got %x, want %x",
					test.name, tokenizer.Data(), expected.data)
				continue nextTest
			}
			if tokenizer.ByteIndex() != expected.index {
				t.Errorf("%q: unexpected byte index -- got %d, want %d",
					test.name, tokenizer.ByteIndex(), expected.index)
				continue nextTest
			}

			numParsedTokens++
		}

		// Ensure the tokenizer claims it is done.  This should be the case
		// regardless of whether or not there was a parse error.
		if !tokenizer.Done() {
			t.Errorf("%q: tokenizer claims it is not done", test.name)
			continue
		}

		// Ensure the error is as expected.
		if test.err == nil && tokenizer.Err() != nil {
			t.Errorf("%q: unexpected tokenizer err -- got %v, want nil",
				test.name, tokenizer.Err())
			continue
		} else if test.err != nil {
			if !IsErrorCode(tokenizer.Err(), test.err.(Error).ErrorCode) {
				t.Errorf("%q: unexpected tokenizer err -- got %v, want %v",
					test.name, tokenizer.Err(),
					test.err.(Error).ErrorCode)
				continue
			}
		}

		// Ensure the final index is the expected value.
		if tokenizer.ByteIndex() != test.finalIdx {
			t.Errorf("%q: unexpected final byte index -- got %d, want %d",
				test.name, tokenizer.ByteIndex(), test.finalIdx)
			continue
		}
	}
}

// TestScriptTokenizerUnsupportedVersion ensures the tokenizer fails
// immediately with an unsupported script version.
func TestScriptTokenizerUnsupportedVersion(t *testing.T) {
	const scriptVersion = 65535
	tokenizer := MakeScriptTokenizer(scriptVersion, []byte{OP_0})
	if tokenizer.Next() {
		t.Fatal("tokenizer produced a token for an unsupported version")
	}
	if !IsErrorCode(tokenizer.Err(), ErrUnsupportedScriptVersion) {
		t.Fatalf("unexpected error: %v", tokenizer.Err())
	}
}
