// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcconsensus

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/btcsuite/btcconsensus/txscript"
)

// VerifyFlags is a bitmask defining which additional validation rules are
// applied on top of the base consensus rules when verifying a script.  The
// bit layout is stable and safe to serialize across process boundaries.
type VerifyFlags uint32

const (
	// VerifyNone applies the base consensus rules only.
	VerifyNone VerifyFlags = 0

	// VerifyP2SH enables BIP16 pay-to-script-hash evaluation.
	VerifyP2SH VerifyFlags = 1 << 0

	// VerifyStrictEnc requires strict signature, public key, and hash
	// type encodings.
	VerifyStrictEnc VerifyFlags = 1 << 1

	// VerifyDERSig requires signatures to comply with the DER format.
	VerifyDERSig VerifyFlags = 1 << 2

	// VerifyLowS requires the S value of signatures to be at most half
	// the curve order.
	VerifyLowS VerifyFlags = 1 << 3

	// VerifyNullDummy requires the extra multisig stack item to be empty.
	VerifyNullDummy VerifyFlags = 1 << 4

	// VerifySigPushOnly requires signature scripts to only contain data
	// pushes.
	VerifySigPushOnly VerifyFlags = 1 << 5

	// VerifyMinimalData requires data pushes to use the minimal possible
	// encoding.
	VerifyMinimalData VerifyFlags = 1 << 6

	// VerifyDiscourageUpgradableNops fails scripts which execute the
	// upgradable NOP opcodes.
	VerifyDiscourageUpgradableNops VerifyFlags = 1 << 7

	// VerifyCleanStack requires exactly one stack element to remain after
	// evaluation.
	VerifyCleanStack VerifyFlags = 1 << 8

	// VerifyCheckLockTimeVerify enables BIP65 OP_CHECKLOCKTIMEVERIFY.
	VerifyCheckLockTimeVerify VerifyFlags = 1 << 9

	// VerifyCheckSequenceVerify enables BIP112 OP_CHECKSEQUENCEVERIFY.
	VerifyCheckSequenceVerify VerifyFlags = 1 << 10

	// VerifyWitness enables segregated witness program validation.
	VerifyWitness VerifyFlags = 1 << 11

	// VerifyDiscourageUpgradableWitnessProgram fails scripts spending
	// witness programs with unknown versions.
	VerifyDiscourageUpgradableWitnessProgram VerifyFlags = 1 << 12

	// VerifyMinimalIf restricts OP_IF and OP_NOTIF operands within
	// version 0 witness programs to an empty vector or [0x01].
	VerifyMinimalIf VerifyFlags = 1 << 13

	// VerifyNullFail requires signatures to be empty when a checksig
	// operation fails.
	VerifyNullFail VerifyFlags = 1 << 14

	// VerifyWitnessPubKeyType requires public keys used within witness
	// execution to be serialized in the compressed format.
	VerifyWitnessPubKeyType VerifyFlags = 1 << 15
)

// scriptFlags converts the external flag bits into the flag representation
// used by the script engine.
func (flags VerifyFlags) scriptFlags() txscript.ScriptFlags {
	conversions := []struct {
		verify VerifyFlags
		script txscript.ScriptFlags
	}{
		{VerifyP2SH, txscript.ScriptBip16},
		{VerifyStrictEnc, txscript.ScriptVerifyStrictEncoding},
		{VerifyDERSig, txscript.ScriptVerifyDERSignatures},
		{VerifyLowS, txscript.ScriptVerifyLowS},
		{VerifyNullDummy, txscript.ScriptStrictMultiSig},
		{VerifySigPushOnly, txscript.ScriptVerifySigPushOnly},
		{VerifyMinimalData, txscript.ScriptVerifyMinimalData},
		{VerifyDiscourageUpgradableNops, txscript.ScriptDiscourageUpgradableNops},
		{VerifyCleanStack, txscript.ScriptVerifyCleanStack},
		{VerifyCheckLockTimeVerify, txscript.ScriptVerifyCheckLockTimeVerify},
		{VerifyCheckSequenceVerify, txscript.ScriptVerifyCheckSequenceVerify},
		{VerifyWitness, txscript.ScriptVerifyWitness},
		{VerifyDiscourageUpgradableWitnessProgram,
			txscript.ScriptVerifyDiscourageUpgradeableWitnessProgram},
		{VerifyMinimalIf, txscript.ScriptVerifyMinimalIf},
		{VerifyNullFail, txscript.ScriptVerifyNullFail},
		{VerifyWitnessPubKeyType, txscript.ScriptVerifyWitnessPubKeyType},
	}

	var sf txscript.ScriptFlags
	for _, conv := range conversions {
		if flags&conv.verify == conv.verify {
			sf |= conv.script
		}
	}
	return sf
}

// VerifyResult is the closed set of outcomes script verification can produce.
// Callers must treat any value other than ResultEvalTrue as a failed
// verification.
type VerifyResult byte

const (
	// ResultEvalTrue indicates the script verified successfully.
	ResultEvalTrue VerifyResult = iota

	// ResultEvalFalse indicates the script evaluated to false or failed
	// for any reason other than the more specific results below.
	ResultEvalFalse

	// ResultEqualVerify indicates evaluation failed due to a failing
	// OP_EQUALVERIFY, which most commonly means the public key of a
	// pay-to-pubkey-hash spend did not hash to the expected value.
	ResultEqualVerify

	// ResultTxInvalid indicates the transaction failed to deserialize.
	ResultTxInvalid

	// ResultTxInputInvalid indicates the requested input index does not
	// exist in the deserialized transaction.
	ResultTxInputInvalid

	// ResultValueOverflow indicates the previous output value exceeds the
	// maximum number of satoshi allowed to exist.
	ResultValueOverflow

	// ResultTxSizeInvalid indicates the serialized size of the
	// deserialized transaction does not match the length of the provided
	// buffer.
	ResultTxSizeInvalid
)

// resultStrings maps each verification result to a human-readable name.
var resultStrings = map[VerifyResult]string{
	ResultEvalTrue:       "ResultEvalTrue",
	ResultEvalFalse:      "ResultEvalFalse",
	ResultEqualVerify:    "ResultEqualVerify",
	ResultTxInvalid:      "ResultTxInvalid",
	ResultTxInputInvalid: "ResultTxInputInvalid",
	ResultValueOverflow:  "ResultValueOverflow",
	ResultTxSizeInvalid:  "ResultTxSizeInvalid",
}

// String returns the result as a human-readable string.
func (r VerifyResult) String() string {
	if s, ok := resultStrings[r]; ok {
		return s
	}
	return "Unknown VerifyResult"
}

// PrevOutput describes the previous transaction output being spent by the
// input under verification.
type PrevOutput struct {
	// PkScript is the public key script of the output.
	PkScript []byte

	// Value is the amount of the output in satoshi.
	Value uint64
}

// executionResult collapses the outcome of an engine run into the closed
// result set.
func executionResult(err error) VerifyResult {
	switch {
	case err == nil:
		return ResultEvalTrue
	case txscript.IsErrorCode(err, txscript.ErrEqualVerify):
		return ResultEqualVerify
	default:
		return ResultEvalFalse
	}
}

// VerifyScript verifies the input of the serialized transaction identified by
// inputIndex against the previous output it spends and returns one of the
// closed set of results.  Verification is stateless: equal arguments always
// produce an equal result.
//
// The flags alter the rules applied on top of the base consensus rules and
// must match the validation context of the block or mempool the transaction
// is being considered for.
func VerifyScript(txBytes []byte, prevOut PrevOutput, inputIndex uint32,
	flags VerifyFlags) VerifyResult {

	// The amount gate intentionally comes before deserialization so that
	// an absurd value is reported as such even when paired with an
	// undecodable transaction.
	if prevOut.Value > uint64(btcutil.MaxSatoshi) {
		return ResultValueOverflow
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		return ResultTxInvalid
	}

	if inputIndex >= uint32(len(tx.TxIn)) {
		return ResultTxInputInvalid
	}

	// Deserialization stops after a single well-formed transaction, so
	// trailing garbage or an internally inconsistent encoding shows up as
	// a size mismatch rather than a decode error.
	if tx.SerializeSize() != len(txBytes) {
		return ResultTxSizeInvalid
	}

	vm, err := txscript.NewEngine(prevOut.PkScript, &tx, int(inputIndex),
		flags.scriptFlags(), nil, nil, int64(prevOut.Value))
	if err != nil {
		return executionResult(err)
	}

	return executionResult(vm.Execute())
}

// createSpendingTx generates a basic spending transaction given the passed
// signature, witness and public key scripts.
func createSpendingTx(witness wire.TxWitness, sigScript, pkScript []byte,
	outputValue int64) *wire.MsgTx {

	coinbaseTx := wire.NewMsgTx(wire.TxVersion)

	outPoint := wire.NewOutPoint(&chainhash.Hash{}, ^uint32(0))
	txIn := wire.NewTxIn(outPoint, []byte{txscript.OP_0, txscript.OP_0}, nil)
	txOut := wire.NewTxOut(outputValue, pkScript)
	coinbaseTx.AddTxIn(txIn)
	coinbaseTx.AddTxOut(txOut)

	spendingTx := wire.NewMsgTx(wire.TxVersion)
	coinbaseTxSha := coinbaseTx.TxHash()
	outPoint = wire.NewOutPoint(&coinbaseTxSha, 0)
	txIn = wire.NewTxIn(outPoint, sigScript, witness)
	txOut = wire.NewTxOut(outputValue, nil)

	spendingTx.AddTxIn(txIn)
	spendingTx.AddTxOut(txOut)

	return spendingTx
}

// VerifyUnsignedScript verifies a signature script and witness against a
// previous output without requiring a caller-provided transaction.  A
// canonical transaction spending the output is synthesized internally, which
// makes the operation useful for exercising scripts that do not contain
// signature checks.
func VerifyUnsignedScript(prevOut PrevOutput, sigScript []byte,
	witness wire.TxWitness, flags VerifyFlags) VerifyResult {

	if prevOut.Value > uint64(btcutil.MaxSatoshi) {
		return ResultValueOverflow
	}

	tx := createSpendingTx(witness, sigScript, prevOut.PkScript,
		int64(prevOut.Value))

	vm, err := txscript.NewEngine(prevOut.PkScript, tx, 0,
		flags.scriptFlags(), nil, nil, int64(prevOut.Value))
	if err != nil {
		return executionResult(err)
	}

	return executionResult(vm.Execute())
}

// MnemonicToData converts a white-space separated script mnemonic such as
// "OP_DUP OP_HASH160 0x14 0x89abcdefabba... OP_EQUALVERIFY OP_CHECKSIG" into
// the raw script bytes it describes.  When strict is set, unknown tokens and
// over-length data pushes fail the conversion; otherwise unknown tokens are
// dropped and over-length pushes are kept, allowing deliberately invalid
// scripts to be constructed for testing.
func MnemonicToData(text string, strict bool) ([]byte, error) {
	return txscript.AssembleScript(text, strict)
}
