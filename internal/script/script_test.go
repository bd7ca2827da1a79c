package script

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

func trueScript() model.Script {
	return model.Script{Ops: []model.Operation{{OpCode: txscript.OP_TRUE}}}
}

func emptyScript() model.Script {
	return model.Script{}
}

func txWithOneInput() model.Transaction {
	return model.Transaction{
		Version: 1,
		Inputs: []model.Input{
			{PreviousOutputHash: [32]byte{1}, PreviousOutputIndex: 0},
		},
	}
}

func TestRunAcceptsTrivialTrueScript(t *testing.T) {
	e := New(nil)
	ok, err := e.Run(emptyScript(), trueScript(), txWithOneInput(), 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRunRejectsFalseScript(t *testing.T) {
	falseScript := model.Script{Ops: []model.Operation{{OpCode: txscript.OP_FALSE}}}

	e := New(nil)
	ok, err := e.Run(emptyScript(), falseScript, txWithOneInput(), 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRunRejectsOutOfRangeInputIndex(t *testing.T) {
	e := New(nil)
	_, err := e.Run(emptyScript(), trueScript(), txWithOneInput(), 5)
	require.Error(t, err)
}

func TestToRawScriptBuildsDataPush(t *testing.T) {
	s := model.Script{Ops: []model.Operation{{Data: []byte("hello")}}}
	raw, err := toRawScript(s)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
}

func TestToWireTxConvertsInputsAndOutputs(t *testing.T) {
	tx := model.Transaction{
		Version:  1,
		LockTime: 42,
		Inputs: []model.Input{
			{PreviousOutputHash: [32]byte{7}, PreviousOutputIndex: 3, Sequence: 0xffffffff},
		},
		Outputs: []model.Output{
			{Value: 1000, Script: trueScript()},
		},
	}

	msgTx, err := toWireTx(tx)
	require.NoError(t, err)
	require.Len(t, msgTx.TxIn, 1)
	require.Len(t, msgTx.TxOut, 1)
	require.Equal(t, uint32(42), msgTx.LockTime)
	require.Equal(t, uint32(3), msgTx.TxIn[0].PreviousOutPoint.Index)
	require.EqualValues(t, 1000, msgTx.TxOut[0].Value)
}
