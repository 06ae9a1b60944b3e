// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

// TestAssembleScript ensures the mnemonics understood by the script assembler
// produce the expected raw scripts in strict mode.
func TestAssembleScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   string
		expected []byte
		valid    bool
	}{
		{
			name:     "empty",
			script:   "",
			expected: nil,
			valid:    true,
		},
		{
			name:     "small numbers use the small int opcodes",
			script:   "0 1 16",
			expected: []byte{OP_0, OP_1, OP_16},
			valid:    true,
		},
		{
			name:     "negative one",
			script:   "-1",
			expected: []byte{OP_1NEGATE},
			valid:    true,
		},
		{
			name:     "larger numbers become data pushes",
			script:   "17 1000",
			expected: []byte{OP_DATA_1, 0x11, OP_DATA_2, 0xe8, 0x03},
			valid:    true,
		},
		{
			name:     "opcode names with and without the OP_ prefix",
			script:   "DUP OP_HASH160 EQUALVERIFY CHECKSIG",
			expected: []byte{OP_DUP, OP_HASH160, OP_EQUALVERIFY, OP_CHECKSIG},
			valid:    true,
		},
		{
			name:     "OP_TRUE and OP_FALSE aliases",
			script:   "TRUE FALSE",
			expected: []byte{OP_TRUE, OP_FALSE},
			valid:    true,
		},
		{
			name:     "hex is spliced in without any checks",
			script:   "0x02 0x01",
			expected: []byte{0x02, 0x01},
			valid:    true,
		},
		{
			name:     "quoted strings are pushed as data",
			script:   "'abc' EQUAL",
			expected: []byte{OP_DATA_3, 'a', 'b', 'c', OP_EQUAL},
			valid:    true,
		},
		{
			name:   "unknown token",
			script: "NOP BOGUS",
			valid:  false,
		},
		{
			name:   "odd length hex",
			script: "0x001",
			valid:  false,
		},
	}

	for _, test := range tests {
		script, err := AssembleScript(test.script, true)
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !test.valid {
			if err == nil {
				t.Errorf("%s: assembly succeeded when it should "+
					"have failed", test.name)
			}
			continue
		}
		if !bytes.Equal(script, test.expected) {
			t.Errorf("%s: wrong script - got %x, want %x", test.name,
				script, test.expected)
		}
	}
}

// TestAssembleScriptNonStrict ensures the forgiving assembly mode drops
// unknown tokens and tolerates pushes that exceed the canonical element size.
func TestAssembleScriptNonStrict(t *testing.T) {
	t.Parallel()

	// Unknown tokens are silently dropped so deliberately invalid scripts
	// can still be constructed around them.
	script, err := AssembleScript("1 BOGUS 2 ADD", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []byte{OP_1, OP_2, OP_ADD}
	if !bytes.Equal(script, expected) {
		t.Fatalf("wrong script - got %x, want %x", script, expected)
	}

	// A quoted push bigger than the max element size assembles in the
	// forgiving mode, but not in strict mode.
	var buf bytes.Buffer
	buf.WriteByte('\'')
	for i := 0; i < MaxScriptElementSize+1; i++ {
		buf.WriteByte('a')
	}
	buf.WriteByte('\'')
	if _, err := AssembleScript(buf.String(), false); err != nil {
		t.Fatalf("oversized push failed in non-strict mode: %v", err)
	}
	if _, err := AssembleScript(buf.String(), true); err == nil {
		t.Fatal("oversized push succeeded in strict mode")
	}
}

// TestAssembleScriptRoundTrip ensures assembled scripts tokenize back into
// the opcode sequence named by the source mnemonics.
func TestAssembleScriptRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script  string
		opcodes []byte
	}{
		{"IF 1 ELSE 0 ENDIF", []byte{OP_IF, OP_1, OP_ELSE, OP_0, OP_ENDIF}},
		{"'data' SHA256", []byte{OP_DATA_4, OP_SHA256}},
		{"2 3 MIN 2 EQUAL", []byte{OP_2, OP_3, OP_MIN, OP_2, OP_EQUAL}},
		{"1000 1000 NUMEQUAL", []byte{OP_DATA_2, OP_DATA_2, OP_NUMEQUAL}},
	}

	for _, test := range tests {
		script, err := AssembleScript(test.script, true)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.script, err)
			continue
		}

		var opcodes []byte
		tokenizer := MakeScriptTokenizer(0, script)
		for tokenizer.Next() {
			opcodes = append(opcodes, tokenizer.Opcode())
		}
		if err := tokenizer.Err(); err != nil {
			t.Errorf("%q: tokenizer error: %v", test.script, err)
			continue
		}
		if !bytes.Equal(opcodes, test.opcodes) {
			t.Errorf("%q: wrong opcodes - got %x, want %x",
				test.script, opcodes, test.opcodes)
		}
	}
}
