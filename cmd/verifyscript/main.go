// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/btcsuite/btcconsensus"
)

// realMain performs the verification described by the command line options
// and returns the exit code for the process.
func realMain() int {
	cfg, err := loadConfig()
	if err != nil {
		return 1
	}

	if cfg.LogFile != "" {
		initLogRotator(cfg.LogFile)
		defer logRotator.Close()
	}
	setLogLevel(cfg.DebugLevel)

	verifyFlags, err := parseVerifyFlags(cfg.Flags)
	if err != nil {
		log.Errorf("Invalid flags: %v", err)
		return 1
	}

	// The previous output script is given either directly as hex or as a
	// mnemonic string which is assembled first.
	var pkScript []byte
	switch {
	case cfg.Script != "":
		pkScript, err = hex.DecodeString(cfg.Script)
		if err != nil {
			log.Errorf("Invalid script hex: %v", err)
			return 1
		}

	case cfg.Mnemonic != "":
		pkScript, err = btcconsensus.MnemonicToData(cfg.Mnemonic, true)
		if err != nil {
			log.Errorf("Invalid script mnemonic: %v", err)
			return 1
		}
	}

	prevOut := btcconsensus.PrevOutput{
		PkScript: pkScript,
		Value:    cfg.Value,
	}

	var result btcconsensus.VerifyResult
	if cfg.Tx != "" {
		txBytes, err := hex.DecodeString(cfg.Tx)
		if err != nil {
			log.Errorf("Invalid transaction hex: %v", err)
			return 1
		}

		result = btcconsensus.VerifyScript(txBytes, prevOut, cfg.Index,
			verifyFlags)
	} else {
		var sigScript []byte
		if cfg.SigScript != "" {
			sigScript, err = btcconsensus.MnemonicToData(
				cfg.SigScript, true,
			)
			if err != nil {
				log.Errorf("Invalid sigscript mnemonic: %v", err)
				return 1
			}
		}

		result = btcconsensus.VerifyUnsignedScript(prevOut, sigScript,
			nil, verifyFlags)
	}

	fmt.Println(result)
	if result != btcconsensus.ResultEvalTrue {
		return 1
	}
	return 0
}

func main() {
	os.Exit(realMain())
}
