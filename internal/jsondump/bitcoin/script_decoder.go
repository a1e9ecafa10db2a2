package bitcoin

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
)

// ScriptDecoder resolves a single human-readable address from an output script.
type ScriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder initializes a decoder using the params of the provided network.
func NewScriptDecoder(network string) (*ScriptDecoder, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &ScriptDecoder{params: params}, nil
}

// Address returns the address paid by pkScript. Scripts that do not pay to a
// single address (multisig, nulldata, non-standard, unparsable) yield no address.
func (d *ScriptDecoder) Address(pkScript []byte) model.Address {
	class, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, d.params)
	if err != nil || len(addrs) != 1 {
		return model.NoAddress()
	}

	switch class {
	case txscript.PubKeyTy,
		txscript.PubKeyHashTy,
		txscript.ScriptHashTy,
		txscript.WitnessV0PubKeyHashTy,
		txscript.WitnessV0ScriptHashTy,
		txscript.WitnessV1TaprootTy:
		return model.SomeAddress(addrs[0].EncodeAddress())
	default:
		return model.NoAddress()
	}
}

// ChainParams maps a network name to its chain parameters.
func ChainParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}
