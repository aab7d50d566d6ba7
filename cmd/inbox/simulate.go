package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/base-org/rip7755-inbox/core"
	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/base-org/rip7755-inbox/core/vm"
	"github.com/base-org/rip7755-inbox/programs"
	"github.com/base-org/rip7755-inbox/tracing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	gethtracing "github.com/ethereum/go-ethereum/core/tracing"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/naoina/toml"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var simulateCommand = &cli.Command{
	Name:      "simulate",
	Usage:     "Fulfill a request fixture against an in-memory state",
	ArgsUsage: "<fixture>",
	Flags: []cli.Flag{
		ConfigFileFlag,
		ChainIDFlag,
		InboxAddressFlag,
		ReplayFlag,
	},
	Action: runSimulate,
}

// attempt is the outcome of one fulfillment submission.
type attempt struct {
	info *types.FulfillmentInfo
	err  error
}

// simulation is the result of running a fixture.
type simulation struct {
	hash     common.Hash
	escrow   common.Address
	attempts []attempt
	record   *types.FulfillmentInfo
	balances []balance
}

type balance struct {
	addr  common.Address
	label string
	value *uint256.Int
}

// nativeProgram resolves the native programs a fixture can install by name.
func nativeProgram(name string, cfg *core.Config) (vm.Program, error) {
	switch name {
	case "no-reward-precheck":
		return &programs.NoRewardPrecheck{Discriminator: cfg.PrecheckDiscriminator}, nil
	case "call-target":
		return programs.CallTarget{}, nil
	case "reject":
		return programs.Reject, nil
	}
	return nil, fmt.Errorf("unknown native program %q", name)
}

// loadConfig assembles the inbox configuration: defaults, then the config
// file, then the fixture's inbox section, then command line flags.
func loadConfig(ctx *cli.Context, fx *Fixture) (core.Config, error) {
	cfg := core.DefaultConfig
	if file := ctx.String(ConfigFileFlag.Name); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", file, err)
		}
	}
	if fx.Inbox != nil {
		mergeConfig(&cfg, fx.Inbox)
	}
	if ctx.IsSet(ChainIDFlag.Name) {
		cfg.ChainID = ctx.Uint64(ChainIDFlag.Name)
	}
	if ctx.IsSet(InboxAddressFlag.Name) {
		addr := ctx.String(InboxAddressFlag.Name)
		if !common.IsHexAddress(addr) {
			return cfg, fmt.Errorf("invalid inbox address %q", addr)
		}
		cfg.Address = common.HexToAddress(addr)
	}
	return cfg, cfg.Validate()
}

// mergeConfig copies the fields set in override onto cfg.
func mergeConfig(cfg, override *core.Config) {
	if override.ChainID != 0 {
		cfg.ChainID = override.ChainID
	}
	if override.Address != (common.Address{}) {
		cfg.Address = override.Address
	}
	if override.PrecheckDiscriminator != (core.Discriminator{}) {
		cfg.PrecheckDiscriminator = override.PrecheckDiscriminator
	}
}

// simulate seeds a fresh state from the fixture and submits its fulfillment,
// twice if replay is set.
func simulate(cfg core.Config, fx *Fixture, replay bool) (*simulation, error) {
	statedb, err := state.New(gethtypes.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, err
	}
	native := vm.NewNativeInvoker(statedb)
	for _, acc := range fx.Accounts {
		if acc.Balance > 0 {
			statedb.AddBalance(acc.Address, uint256.NewInt(acc.Balance), gethtracing.BalanceChangeUnspecified)
		}
		if len(acc.Code) > 0 {
			statedb.SetCode(acc.Address, acc.Code)
		}
		if acc.Program != "" {
			p, err := nativeProgram(acc.Program, &cfg)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", acc.Address.Hex(), err)
			}
			native.Register(acc.Address, p)
		}
	}
	evm := vm.NewEVMInvoker(statedb, vm.EVMConfig{BlockNumber: fx.Block.Number, Time: fx.Block.Time})

	hooks := &tracing.Hooks{
		OnCall: func(index int, call *types.Call, accounts []types.AccountMeta) {
			log.Debug("Routing call", "index", index, "to", call.To, "transfer", call.IsTransfer(), "accounts", accounts)
		},
		OnBalanceChange: func(addr common.Address, prev, new *uint256.Int, reason tracing.BalanceChangeReason) {
			log.Debug("Balance changed", "addr", addr, "prev", prev, "new", new, "reason", reason)
		},
	}
	inbox, err := core.NewInbox(&cfg, statedb, vm.NewDispatcher(native, evm), hooks)
	if err != nil {
		return nil, err
	}

	var (
		blockCtx = core.BlockContext{Number: fx.Block.Number, Time: fx.Block.Time}
		msg      = fx.Message()
		hash     = msg.Request.Hash()
		sim      = &simulation{hash: hash, escrow: core.FulfillmentInfoAddress(cfg.Address, hash)}
	)
	rounds := 1
	if replay {
		rounds = 2
	}
	for i := 0; i < rounds; i++ {
		info, err := inbox.Fulfill(blockCtx, msg)
		sim.attempts = append(sim.attempts, attempt{info: info, err: err})
	}
	sim.record, _ = inbox.Status(hash)

	sim.balances = append(sim.balances, balance{addr: fx.Caller, label: "caller"})
	for _, acc := range fx.Accounts {
		if acc.Address == fx.Caller {
			continue
		}
		label := acc.Program
		if len(acc.Code) > 0 {
			label = "contract"
		}
		sim.balances = append(sim.balances, balance{addr: acc.Address, label: label})
	}
	sim.balances = append(sim.balances, balance{addr: sim.escrow, label: "escrow"})
	for i := range sim.balances {
		sim.balances[i].value = statedb.GetBalance(sim.balances[i].addr).Clone()
	}
	return sim, nil
}

func runSimulate(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return errors.New("simulate takes exactly one fixture")
	}
	fx, err := loadFixture(ctx.Args().First())
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, fx)
	if err != nil {
		return err
	}
	sim, err := simulate(cfg, fx, ctx.Bool(ReplayFlag.Name))
	if err != nil {
		return err
	}
	sim.print(os.Stdout)
	if !sim.fulfilled() {
		return errors.New("request not fulfilled")
	}
	return nil
}

func (s *simulation) print(w io.Writer) {
	var (
		ok   = color.New(color.FgGreen, color.Bold).SprintFunc()
		fail = color.New(color.FgRed, color.Bold).SprintFunc()
	)
	fmt.Fprintf(w, "request  %s\n", s.hash.Hex())
	fmt.Fprintf(w, "escrow   %s\n", s.escrow.Hex())
	for i, a := range s.attempts {
		if a.err != nil {
			fmt.Fprintf(w, "attempt %d: %s %v\n", i+1, fail("REJECTED"), a.err)
			continue
		}
		fmt.Fprintf(w, "attempt %d: %s\n", i+1, ok("FULFILLED"))
	}
	if s.record != nil {
		fmt.Fprintf(w, "record   filler=%s timestamp=%d\n", s.record.Filler.Hex(), s.record.Timestamp)
	} else {
		fmt.Fprintln(w, "record   none")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Account", "Role", "Balance"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, b := range s.balances {
		table.Append([]string{b.addr.Hex(), b.label, b.value.Dec()})
	}
	table.Render()
}

// fulfilled reports whether any attempt succeeded.
func (s *simulation) fulfilled() bool {
	for _, a := range s.attempts {
		if a.err == nil {
			return true
		}
	}
	return false
}
