// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseHex parses hex-encoded bytes out of the passed token when it carries
// the 0x prefix.
func parseHex(tok string) ([]byte, error) {
	if !strings.HasPrefix(tok, "0x") {
		return nil, errors.New("not a hex number")
	}
	return hex.DecodeString(tok[2:])
}

// shortFormOps holds a map of opcode names to values for use in short form
// parsing.  It is declared here so it only needs to be created once.
var shortFormOps map[string]byte

// AssembleScript parses a string of whitespace-separated mnemonics describing
// a script and returns the raw serialized script.
//
// The format used for these mnemonics is as follows:
//   - Opcodes other than the push opcodes and unknown are present as either
//     OP_NAME or just NAME
//   - Plain numbers are made into push operations
//   - Numbers beginning with 0x are inserted into the []byte as-is (so the
//     caller can create and test scripts which violate the canonical push
//     encoding or exceed the builder limits)
//   - Single quoted strings are pushed as data
//   - Anything else is an error
//
// When strict is set, quoted data pushes are limited to the canonical
// maximum element size and unknown tokens fail the conversion.  Otherwise,
// over-length pushes are tolerated and unknown tokens are dropped, which
// allows building deliberately invalid scripts.
func AssembleScript(script string, strict bool) ([]byte, error) {
	// Only create the short form opcode map once.
	if shortFormOps == nil {
		ops := make(map[string]byte)
		for opcodeName, opcodeValue := range OpcodeByName {
			if strings.Contains(opcodeName, "OP_UNKNOWN") {
				continue
			}
			ops[opcodeName] = opcodeValue

			// The opcodes named OP_# can't have the OP_ prefix
			// stripped or they would conflict with the plain
			// numbers.  Also, since OP_FALSE and OP_TRUE are
			// aliases for the OP_0, and OP_1, respectively, they
			// have the same value, so detect those by name and
			// allow them.
			if (opcodeName == "OP_FALSE" || opcodeName == "OP_TRUE") ||
				(opcodeValue != OP_0 && (opcodeValue < OP_1 ||
					opcodeValue > OP_16)) {

				ops[strings.TrimPrefix(opcodeName, "OP_")] = opcodeValue
			}
		}
		shortFormOps = ops
	}

	builder := NewScriptBuilder()

	// Split only does one separator so convert all \n and tab into space.
	script = strings.Replace(script, "\n", " ", -1)
	script = strings.Replace(script, "\t", " ", -1)
	tokens := strings.Split(script, " ")

	for _, tok := range tokens {
		if len(tok) == 0 {
			continue
		}

		// If the token is a plain number, make a push of that number.
		if num, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(num)
			continue
		} else if bts, err := parseHex(tok); err == nil {
			// Concatenate the bytes manually since callers
			// intentionally create scripts that are too large and
			// would cause the builder to error otherwise.
			if builder.err == nil {
				builder.script = append(builder.script, bts...)
			}
		} else if len(tok) >= 2 &&
			tok[0] == '\'' && tok[len(tok)-1] == '\'' {

			if strict {
				builder.AddData([]byte(tok[1 : len(tok)-1]))
			} else {
				builder.AddFullData([]byte(tok[1 : len(tok)-1]))
			}
		} else if opcode, ok := shortFormOps[tok]; ok {
			builder.AddOp(opcode)
		} else if strict {
			return nil, fmt.Errorf("bad token %q", tok)
		}
	}
	return builder.Script()
}
