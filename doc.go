// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package btcconsensus provides a deterministic, self-contained interface for
verifying bitcoin transaction scripts.

The package exposes a small surface on purpose.  VerifyScript checks a single
input of a serialized transaction against the previous output it spends and
reports one of a closed set of results, so callers embedding the package in
consensus-critical code never have to interpret free-form errors.
VerifyUnsignedScript synthesizes a canonical spending transaction internally,
which is convenient for exercising scripts that contain no signature checks.
MnemonicToData converts human-readable script mnemonics into raw script bytes.

Verification is stateless and context-free: equal arguments always produce
equal results regardless of chain state, time, or prior calls.  The rules
applied on top of the base consensus rules are selected with VerifyFlags,
mirroring the script verification flag soft-fork deployments on the bitcoin
network.

The underlying virtual machine lives in the txscript subpackage and may be
used directly when finer-grained control or error detail is required.
*/
package btcconsensus
