// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestCalcSignatureHashSingleBug ensures calculating a SigHashSingle signature
// hash for an input index that does not have a corresponding output returns
// the buggy hash of one that is part of consensus due to the original Satoshi
// client implementation.
func TestCalcSignatureHashSingleBug(t *testing.T) {
	t.Parallel()

	// Transaction with more inputs than outputs.
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 1},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{
		Value:    5000,
		PkScript: mustAssemble("DUP HASH160"),
	})

	// The signature hash of one encoded as a little endian uint256.
	expected := make([]byte, 32)
	expected[0] = 0x01

	script := mustAssemble("NOP")
	hash, err := CalcSignatureHash(script, SigHashSingle, tx, 1)
	require.NoError(t, err)
	require.Equal(t, expected, hash)

	// The bug must not trigger when a corresponding output exists.
	hash, err = CalcSignatureHash(script, SigHashSingle, tx, 0)
	require.NoError(t, err)
	require.NotEqual(t, expected, hash)
}

// TestCalcSignatureHashParseFailure ensures attempting to calculate a
// signature hash for a script that fails to parse returns the expected error.
func TestCalcSignatureHashParseFailure(t *testing.T) {
	t.Parallel()

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{Sequence: wire.MaxTxInSequenceNum})
	tx.AddTxOut(&wire.TxOut{Value: 5000})

	// Truncated data push.
	script := []byte{OP_DATA_5, 0x01}
	_, err := CalcSignatureHash(script, SigHashAll, tx, 0)
	require.True(t, IsErrorCode(err, ErrMalformedPush), "got %v", err)

	_, err = CalcWitnessSigHash(script, nil, SigHashAll, tx, 0, 0)
	require.True(t, IsErrorCode(err, ErrMalformedPush), "got %v", err)
}

// TestCalcWitnessSigHash ensures the BIP0143 signature hash calculation
// produces the expected digest for the native pay-to-witness-pubkey-hash
// example from the proposal.
func TestCalcWitnessSigHash(t *testing.T) {
	t.Parallel()

	// Unsigned transaction from the BIP0143 native P2WPKH example.
	txHex := "0100000002fff7f7881a8099afa6940d42d1e7f6362bec38171ea3edf4" +
		"33541db4e4ad969f0000000000eeffffffef51e1b804cc89d182d27965" +
		"5c3aa89e815b1b309fe287d9b2b55d57b90ec68a0100000000ffffffff" +
		"02202cb206000000001976a9148280b37df378db99f66f85c95a783a76" +
		"ac7a6d5988ac9093510d000000001976a9143bde42dbee7e4dbe6a21b2" +
		"d50ce2f0167faa815988ac11000000"
	var tx wire.MsgTx
	err := tx.Deserialize(bytes.NewReader(hexToBytes(txHex)))
	require.NoError(t, err)

	// The second input spends a native witness v0 keyhash output, so the
	// script code is the usual pay-to-pubkey-hash script constructed from
	// the witness program.
	scriptCode := hexToBytes("76a9141d0f172a0ecb48aee1be1f2687d2963ae33f" +
		"71a188ac")
	const inputAmount = 600000000

	sigHashes := NewTxSigHashes(&tx)
	hash, err := CalcWitnessSigHash(scriptCode, sigHashes, SigHashAll, &tx,
		1, inputAmount)
	require.NoError(t, err)

	expected := hexToBytes("c37af31116d1b27caf68aae9e3ac82f1477929014d5b" +
		"917657d0eb49478cb670")
	require.Equal(t, expected, hash)
}
