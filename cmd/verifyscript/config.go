// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/btcsuite/btcconsensus"
)

const (
	defaultDebugLevel = "info"
)

// config defines the configuration options for verifyscript.
//
// See loadConfig for details on the configuration load process.
type config struct {
	Tx         string `short:"t" long:"tx" description:"Hex-encoded serialized transaction containing the input to verify"`
	Script     string `short:"s" long:"script" description:"Hex-encoded previous output script"`
	Mnemonic   string `short:"m" long:"mnemonic" description:"Previous output script as a mnemonic string (alternative to --script)"`
	SigScript  string `long:"sigscript" description:"Signature script mnemonic for unsigned verification (used when --tx is omitted)"`
	Value      uint64 `short:"v" long:"value" description:"Value of the previous output in satoshi"`
	Index      uint32 `short:"i" long:"index" description:"Index of the transaction input to verify"`
	Flags      string `short:"f" long:"flags" description:"Comma-separated verification flags (e.g. p2sh,dersig,witness)"`
	LogFile    string `long:"logfile" description:"Write logs to this file with rotation"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
}

// flagsByName maps the textual flag names accepted on the command line to the
// corresponding verification flag bits.
var flagsByName = map[string]btcconsensus.VerifyFlags{
	"none":                                  btcconsensus.VerifyNone,
	"p2sh":                                  btcconsensus.VerifyP2SH,
	"strictenc":                             btcconsensus.VerifyStrictEnc,
	"dersig":                                btcconsensus.VerifyDERSig,
	"low_s":                                 btcconsensus.VerifyLowS,
	"nulldummy":                             btcconsensus.VerifyNullDummy,
	"sigpushonly":                           btcconsensus.VerifySigPushOnly,
	"minimaldata":                           btcconsensus.VerifyMinimalData,
	"discourage_upgradable_nops":            btcconsensus.VerifyDiscourageUpgradableNops,
	"cleanstack":                            btcconsensus.VerifyCleanStack,
	"checklocktimeverify":                   btcconsensus.VerifyCheckLockTimeVerify,
	"checksequenceverify":                   btcconsensus.VerifyCheckSequenceVerify,
	"witness":                               btcconsensus.VerifyWitness,
	"discourage_upgradable_witness_program": btcconsensus.VerifyDiscourageUpgradableWitnessProgram,
	"minimal_if":                            btcconsensus.VerifyMinimalIf,
	"nullfail":                              btcconsensus.VerifyNullFail,
	"witness_pubkeytype":                    btcconsensus.VerifyWitnessPubKeyType,
}

// parseVerifyFlags converts a comma-separated list of flag names into the
// combined flag bits.
func parseVerifyFlags(s string) (btcconsensus.VerifyFlags, error) {
	combined := btcconsensus.VerifyNone
	if s == "" {
		return combined, nil
	}

	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		flag, ok := flagsByName[name]
		if !ok {
			return 0, fmt.Errorf("unknown verification flag %q", name)
		}
		combined |= flag
	}
	return combined, nil
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	cfg := config{
		DebugLevel: defaultDebugLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	if cfg.Script == "" && cfg.Mnemonic == "" {
		err := fmt.Errorf("one of --script or --mnemonic is required")
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}
	if cfg.Script != "" && cfg.Mnemonic != "" {
		err := fmt.Errorf("--script and --mnemonic are mutually exclusive")
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}

	return &cfg, nil
}
