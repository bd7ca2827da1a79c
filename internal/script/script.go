// Package script supplies a real implementation of script execution
// rather than stubbing it out: Run executes the input/output script pair
// through btcsuite/btcd/txscript.
package script

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/blocktreedb/chainvalidator/internal/model"
	"github.com/blocktreedb/chainvalidator/pkg/safe"
)

// Engine runs sig/pub script pairs against a chain parameter set. It is
// stateless and safe for concurrent use.
type Engine struct {
	params *chaincfg.Params
}

// New constructs an Engine for the given network parameters.
func New(params *chaincfg.Params) *Engine {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &Engine{params: params}
}

// Run evaluates whether sigScript (from the spending input) satisfies
// pubScript (locking the previous output) in the context of tx's
// inputIndex-th input.
func (e *Engine) Run(sigScript, pubScript model.Script, tx model.Transaction, inputIndex int) (bool, error) {
	msgTx, err := toWireTx(tx)
	if err != nil {
		return false, fmt.Errorf("convert transaction: %w", err)
	}
	if inputIndex < 0 || inputIndex >= len(msgTx.TxIn) {
		return false, fmt.Errorf("input index %d out of range", inputIndex)
	}

	sigBytes, err := toRawScript(sigScript)
	if err != nil {
		return false, fmt.Errorf("build sig script: %w", err)
	}
	msgTx.TxIn[inputIndex].SignatureScript = sigBytes

	pubBytes, err := toRawScript(pubScript)
	if err != nil {
		return false, fmt.Errorf("build pub script: %w", err)
	}

	prevOut := wire.NewTxOut(0, pubBytes)
	vm, err := txscript.NewEngine(
		prevOut.PkScript, msgTx, inputIndex,
		txscript.StandardVerifyFlags, nil, nil, prevOut.Value, nil,
	)
	if err != nil {
		return false, nil
	}

	if err := vm.Execute(); err != nil {
		return false, nil
	}
	return true, nil
}

// toRawScript serializes a model.Script's ordered opcode/data pairs into
// the raw script byte string txscript operates on.
func toRawScript(s model.Script) ([]byte, error) {
	builder := txscript.NewScriptBuilder()
	for _, op := range s.Ops {
		if len(op.Data) > 0 {
			builder.AddData(op.Data)
			continue
		}
		builder.AddOp(op.OpCode)
	}
	return builder.Script()
}

// toWireTx converts a materialized transaction (and its inputs/outputs,
// not yet including the script under test) into a wire.MsgTx so
// txscript can execute against it.
func toWireTx(tx model.Transaction) (*wire.MsgTx, error) {
	version, err := safe.Uint32(tx.Version)
	if err != nil {
		return nil, fmt.Errorf("transaction version: %w", err)
	}
	msgTx := wire.NewMsgTx(int32(version))
	msgTx.LockTime = tx.LockTime

	for _, in := range tx.Inputs {
		hash, err := chainhash.NewHash(in.PreviousOutputHash[:])
		if err != nil {
			return nil, fmt.Errorf("previous output hash: %w", err)
		}
		outPoint := wire.NewOutPoint(hash, in.PreviousOutputIndex)
		txIn := wire.NewTxIn(outPoint, nil, nil)
		txIn.Sequence = in.Sequence
		msgTx.AddTxIn(txIn)
	}

	for _, out := range tx.Outputs {
		pkScript, err := toRawScript(out.Script)
		if err != nil {
			return nil, fmt.Errorf("output script: %w", err)
		}
		msgTx.AddTxOut(wire.NewTxOut(out.Value, pkScript))
	}

	return msgTx, nil
}
