package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/base-org/rip7755-inbox/core"
	"github.com/base-org/rip7755-inbox/programs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true)))
}

var (
	inboxAddr  = common.HexToAddress("0x7755000000000000000000000000000000007755")
	callerAddr = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	fillerAddr = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	targetAddr = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

func fixtureConfig(t *testing.T, fx *Fixture) core.Config {
	t.Helper()
	cfg := core.DefaultConfig
	require.NotNil(t, fx.Inbox)
	mergeConfig(&cfg, fx.Inbox)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestDecodeFixtureFormats(t *testing.T) {
	fromTOML, err := loadFixture(filepath.Join("testdata", "transfer.toml"))
	require.NoError(t, err)
	fromYAML, err := loadFixture(filepath.Join("testdata", "transfer.yaml"))
	require.NoError(t, err)

	require.Equal(t, fromTOML.Request.CrossChainRequest().Hash(), fromYAML.Request.CrossChainRequest().Hash())
	require.Equal(t, fromTOML.Inbox, fromYAML.Inbox)
	require.Equal(t, fromTOML.Block, fromYAML.Block)
	require.Equal(t, fromTOML.Filler, fromYAML.Filler)
	require.Equal(t, callerAddr, fromTOML.Caller)
	require.Equal(t, []common.Address{targetAddr}, fromTOML.RemainingAccounts)
	require.Equal(t, uint64(103), fromTOML.Inbox.ChainID)

	req := fromTOML.Request.CrossChainRequest()
	require.Len(t, req.Calls, 1)
	require.True(t, req.Calls[0].IsTransfer())
	require.Equal(t, uint64(100), req.Calls[0].Value)

	msg := fromTOML.Message()
	require.Equal(t, req.Hash(), msg.RequestHash)
	require.Equal(t, fillerAddr, msg.Filler)

	_, err = decodeFixture("fixture.txt", nil)
	require.Error(t, err)
	_, err = decodeFixture("fixture.yaml", []byte("unknown_field: 1\n"))
	require.Error(t, err)
}

func TestFixturePrecheckEntry(t *testing.T) {
	fx, err := loadFixture(filepath.Join("testdata", "precheck.yaml"))
	require.NoError(t, err)

	req := fx.Request.CrossChainRequest()
	require.Len(t, req.ExtraData, 1)
	target, err := core.PrecheckTarget(req)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xa1"), target)
}

func TestSimulateTransfer(t *testing.T) {
	fx, err := loadFixture(filepath.Join("testdata", "transfer.toml"))
	require.NoError(t, err)

	sim, err := simulate(fixtureConfig(t, fx), fx, true)
	require.NoError(t, err)
	require.Len(t, sim.attempts, 2)
	require.NoError(t, sim.attempts[0].err)
	require.ErrorIs(t, sim.attempts[1].err, core.ErrAlreadyFulfilled)
	require.True(t, sim.fulfilled())

	require.NotNil(t, sim.record)
	require.Equal(t, fillerAddr, sim.record.Filler)
	require.Equal(t, uint64(1700000123), sim.record.Timestamp)
	require.Equal(t, core.FulfillmentInfoAddress(inboxAddr, sim.hash), sim.escrow)

	balances := make(map[common.Address]uint64)
	for _, b := range sim.balances {
		balances[b.addr] = b.value.Uint64()
	}
	require.Equal(t, uint64(900), balances[callerAddr])
	require.Zero(t, balances[sim.escrow])

	var out bytes.Buffer
	sim.print(&out)
	require.Contains(t, out.String(), sim.hash.Hex())
	require.Contains(t, out.String(), "FULFILLED")
	require.Contains(t, out.String(), "REJECTED")
}

func TestSimulatePrecheckVeto(t *testing.T) {
	fx, err := loadFixture(filepath.Join("testdata", "precheck.yaml"))
	require.NoError(t, err)
	cfg := fixtureConfig(t, fx)

	sim, err := simulate(cfg, fx, false)
	require.NoError(t, err)
	require.ErrorIs(t, sim.attempts[0].err, programs.ErrPrecheckFailed)
	require.False(t, sim.fulfilled())
	require.Nil(t, sim.record)

	fx.Request.RewardAmount = 0
	sim, err = simulate(cfg, fx, false)
	require.NoError(t, err)
	require.NoError(t, sim.attempts[0].err)
	require.NotNil(t, sim.record)
	require.Equal(t, callerAddr, sim.record.Filler)
}

func TestSimulateUnknownProgram(t *testing.T) {
	fx, err := loadFixture(filepath.Join("testdata", "transfer.toml"))
	require.NoError(t, err)
	fx.Accounts = append(fx.Accounts, AccountFixture{Address: targetAddr, Program: "nope"})

	_, err = simulate(fixtureConfig(t, fx), fx, false)
	require.ErrorContains(t, err, "nope")
}

func TestHashFixtures(t *testing.T) {
	files := []string{
		filepath.Join("testdata", "precheck.yaml"),
		filepath.Join("testdata", "transfer.toml"),
		filepath.Join("testdata", "transfer.yaml"),
	}
	hashes, err := hashFixtures(files, 2)
	require.NoError(t, err)
	require.Len(t, hashes, 3)
	require.NotEqual(t, hashes[0], hashes[1])
	require.Equal(t, hashes[1], hashes[2])

	_, err = hashFixtures(append(files, "missing.toml"), 0)
	require.Error(t, err)
}

func TestMergeConfig(t *testing.T) {
	cfg := core.DefaultConfig
	mergeConfig(&cfg, &core.Config{Address: inboxAddr})
	require.Equal(t, core.DefaultConfig.ChainID, cfg.ChainID)
	require.Equal(t, inboxAddr, cfg.Address)
	require.Equal(t, core.DefaultPrecheckDiscriminator, cfg.PrecheckDiscriminator)

	mergeConfig(&cfg, &core.Config{ChainID: 8453, PrecheckDiscriminator: core.Discriminator{1}})
	require.Equal(t, uint64(8453), cfg.ChainID)
	require.Equal(t, core.Discriminator{1}, cfg.PrecheckDiscriminator)
}
