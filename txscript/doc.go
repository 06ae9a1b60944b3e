// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the bitcoin transaction script language.

A complete script engine capable of executing all opcodes the bitcoin wiki
describes as valid is provided, along with the ability to verify transaction
signatures against both base (BIP16 pay-to-script-hash included) and version 0
segregated witness outputs.

# Bitcoin Scripts

Bitcoin provides a stack-based, FORTH-like language for the scripts in the
bitcoin transactions.  This language is not turing complete although it is
still fairly powerful.  A description of the language can be found at
https://en.bitcoin.it/wiki/Script

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted txscript.Error while still providing rich
error messages with contextual information.  A convenience function named
IsErrorCode is also provided to allow callers to easily check for a specific
error code.
*/
package txscript
