package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/fuel-go/fvm/fvm/interpreter"
	"github.com/fuel-go/fvm/fvm/params"
	"github.com/fuel-go/fvm/fvm/storage"
)

var OutFilePerm = os.FileMode(0o755)

// ParseContract parses an id=path deployment.
func ParseContract(s string) (common.Hash, string, error) {
	id, path, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return common.Hash{}, "", fmt.Errorf("expected id=path, got %q", s)
	}
	if !isHex(id) {
		return common.Hash{}, "", fmt.Errorf("invalid contract id %q", id)
	}
	return common.HexToHash(id), path, nil
}

// ParseBreakpoint parses "offset" in the script or "id:offset" in a contract.
func ParseBreakpoint(s string) (interpreter.Breakpoint, error) {
	var bp interpreter.Breakpoint
	offset := s
	if id, rest, ok := strings.Cut(s, ":"); ok {
		if !isHex(id) {
			return bp, fmt.Errorf("invalid contract id %q", id)
		}
		bp.ContractID = common.HexToHash(id)
		offset = rest
	}
	pc, err := strconv.ParseUint(offset, 0, 64)
	if err != nil {
		return bp, fmt.Errorf("invalid breakpoint offset %q: %w", offset, err)
	}
	if pc%params.InstructionSize != 0 {
		return bp, fmt.Errorf("breakpoint offset %d is not instruction aligned", pc)
	}
	bp.PC = pc
	return bp, nil
}

func isHex(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" || len(s) > 64 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func loadParams(path string) (*params.Params, error) {
	if path == "" {
		return params.Default(), nil
	}
	return params.LoadTOML(path)
}

func openDB(path string) (*storage.Database, error) {
	if path == "" {
		return storage.NewMemory(), nil
	}
	return storage.NewLevelDB(path, false)
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPUFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	lvl, err := ParseLevel(ctx.String(LogLevelFlag.Name))
	if err != nil {
		return err
	}
	l := Logger(os.Stderr, lvl)
	logData := &LoggingWriter{Name: "program log data", Log: l}

	p, err := loadParams(ctx.Path(RunParamsFlag.Name))
	if err != nil {
		return err
	}
	asText := ctx.Bool(RunAsmFlag.Name)
	code, err := LoadProgram(ctx.Path(RunInputFlag.Name), asText)
	if err != nil {
		return err
	}
	var tx []byte
	if txPath := ctx.Path(RunTxFlag.Name); txPath != "" {
		if tx, err = os.ReadFile(txPath); err != nil {
			return fmt.Errorf("failed to read transaction: %w", err)
		}
	}

	db, err := openDB(ctx.Path(RunDBFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("failed to close storage", "err", err)
		}
	}()
	for _, c := range ctx.StringSlice(RunContractFlag.Name) {
		id, path, err := ParseContract(c)
		if err != nil {
			return err
		}
		contractCode, err := LoadProgram(path, asText)
		if err != nil {
			return err
		}
		db.DeployContract(id, contractCode)
		l.Info("deployed contract", "id", id, "size", len(contractCode))
	}

	opts := []interpreter.Option{interpreter.WithStorage(db), interpreter.WithLogger(l)}
	if ctx.Bool(RunTraceFlag.Name) {
		opts = append(opts, interpreter.WithTracing())
	}
	if ctx.Bool(RunPredicateFlag.Name) {
		opts = append(opts, interpreter.AsPredicate(ctx.Uint64(RunPredicateIndexFlag.Name)))
	}
	vm := interpreter.New(p, opts...)
	for _, b := range ctx.StringSlice(RunBreakFlag.Name) {
		bp, err := ParseBreakpoint(b)
		if err != nil {
			return err
		}
		vm.SetBreakpoint(bp)
	}

	load := interpreter.Init{
		TxID:     interpreter.DefaultCrypto{}.Sha256(tx),
		Tx:       tx,
		Code:     code,
		GasLimit: ctx.Uint64(RunGasFlag.Name),
	}
	if coins := ctx.Uint64(RunCoinsFlag.Name); coins > 0 {
		load.Balances = map[common.Hash]uint64{p.BaseAssetID: coins}
	}
	if err := vm.Load(load); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	stopAt := ctx.Generic(RunStopAtFlag.Name).(*StepMatcherFlag).Matcher()
	snapshotAt := ctx.Generic(RunSnapshotAtFlag.Name).(*StepMatcherFlag).Matcher()
	infoAt := ctx.Generic(RunInfoAtFlag.Name).(*StepMatcherFlag).Matcher()
	snapshotFmt := ctx.String(RunSnapshotFmtFlag.Name)

	start := time.Now()
	for !vm.State().Terminal() {
		step := vm.Steps()
		if step%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Context.Err(); err != nil {
				return err
			}
		}

		if infoAt(vm) {
			delta := time.Since(start)
			regs := vm.Registers()
			l.Info("processing",
				"step", step,
				"pc", HexU64(regs[params.RegPC]),
				"insn", HexU32(vm.Instr()),
				"ips", float64(step)/(float64(delta)/float64(time.Second)),
				"depth", vm.Depth(),
				"gas", vm.GasUsed(),
				"pages", vm.Memory().PageCount(),
				"mem", vm.Memory().Usage(),
			)
		}

		if stopAt(vm) {
			break
		}

		if snapshotAt(vm) {
			if err := jsonutil.WriteJSON(fmt.Sprintf(snapshotFmt, step), vm.Snapshot(), OutFilePerm); err != nil {
				return fmt.Errorf("failed to write state snapshot: %w", err)
			}
		}

		seen := len(vm.Receipts())
		if err := vm.Step(); err != nil {
			return fmt.Errorf("failed at step %d (pc: %x): %w", step, vm.Registers()[params.RegPC], err)
		}
		for _, r := range vm.Receipts()[seen:] {
			if r.Kind == interpreter.ReceiptLogData {
				_, _ = logData.Write(r.Data)
			}
		}
		if st := vm.State(); st != nil && st.Kind == interpreter.StateDebug {
			l.Info("breakpoint", "contract", st.Breakpoint.ContractID, "offset", HexU64(st.Breakpoint.PC), "step", vm.Steps())
			if err := jsonutil.WriteJSON(fmt.Sprintf(snapshotFmt, vm.Steps()), vm.Snapshot(), OutFilePerm); err != nil {
				return fmt.Errorf("failed to write breakpoint snapshot: %w", err)
			}
		}
	}

	st := vm.State()
	if st.Terminal() {
		l.Info("program finished", "result", st, "steps", vm.Steps(), "gas", vm.GasUsed(), "receipts", len(vm.Receipts()))
		if st.Kind != interpreter.StateRevert && ctx.Path(RunDBFlag.Name) != "" {
			if err := db.Commit(); err != nil {
				return fmt.Errorf("failed to commit storage: %w", err)
			}
		}
	} else {
		l.Info("stopped", "steps", vm.Steps(), "gas", vm.GasUsed())
	}

	if err := jsonutil.WriteJSON(ctx.Path(RunOutputFlag.Name), vm.Snapshot(), OutFilePerm); err != nil {
		return fmt.Errorf("failed to write state output: %w", err)
	}
	if err := jsonutil.WriteJSON(ctx.Path(RunReceiptsFlag.Name), vm.Receipts(), OutFilePerm); err != nil {
		return fmt.Errorf("failed to write receipts: %w", err)
	}
	return nil
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run a script against contract storage",
	Description: "Run a script against contract storage. See flags to deploy contracts, output snapshots, or stop early.",
	Action:      Run,
	Flags: []cli.Flag{
		LogLevelFlag,
		RunInputFlag,
		RunAsmFlag,
		RunTxFlag,
		RunGasFlag,
		RunCoinsFlag,
		RunParamsFlag,
		RunDBFlag,
		RunContractFlag,
		RunPredicateFlag,
		RunPredicateIndexFlag,
		RunBreakFlag,
		RunTraceFlag,
		RunOutputFlag,
		RunReceiptsFlag,
		RunSnapshotAtFlag,
		RunSnapshotFmtFlag,
		RunStopAtFlag,
		RunInfoAtFlag,
		RunPProfCPUFlag,
	},
}
