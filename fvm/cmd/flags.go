package cmd

import (
	"github.com/urfave/cli/v2"
)

var (
	LogLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "Log level: trace, debug, info, warn, error or crit",
		Value: "info",
	}

	RunInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "path of the script bytecode",
		TakesFile: true,
		Required:  true,
	}
	RunAsmFlag = &cli.BoolFlag{
		Name:  "asm",
		Usage: "treat the input and contract files as assembler text",
	}
	RunTxFlag = &cli.PathFlag{
		Name:      "tx",
		Usage:     "path of the raw transaction bytes placed in VM memory",
		TakesFile: true,
	}
	RunGasFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "gas limit of the script",
		Value: 1_000_000,
	}
	RunCoinsFlag = &cli.Uint64Flag{
		Name:  "coins",
		Usage: "free balance of the base asset available to the script",
	}
	RunParamsFlag = &cli.PathFlag{
		Name:      "params",
		Usage:     "TOML file with VM parameters, defaults are used when empty",
		TakesFile: true,
	}
	RunDBFlag = &cli.PathFlag{
		Name:  "db",
		Usage: "leveldb directory for contract storage; state is committed when the script succeeds. In-memory when empty",
	}
	RunContractFlag = &cli.StringSliceFlag{
		Name:  "contract",
		Usage: "deploy a contract before running, as id=path",
	}
	RunPredicateFlag = &cli.BoolFlag{
		Name:  "predicate",
		Usage: "run the input as a predicate",
	}
	RunPredicateIndexFlag = &cli.Uint64Flag{
		Name:  "predicate.index",
		Usage: "input index reported by GM in predicate mode",
	}
	RunBreakFlag = &cli.StringSliceFlag{
		Name:  "break",
		Usage: "set a breakpoint at a script offset, or at id:offset inside a contract",
	}
	RunTraceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "log every executed instruction at trace level",
	}
	RunOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "path of the final VM state JSON, '-' for stdout",
		TakesFile: true,
	}
	RunReceiptsFlag = &cli.PathFlag{
		Name:      "receipts",
		Usage:     "path of the receipts JSON, '-' for stdout",
		TakesFile: true,
	}
	RunSnapshotAtFlag = &cli.GenericFlag{
		Name:  "snapshot-at",
		Usage: "step pattern to output a state snapshot at: never, always, =123 at exactly step 123, %123 for every 123 steps",
		Value: new(StepMatcherFlag),
	}
	RunSnapshotFmtFlag = &cli.StringFlag{
		Name:  "snapshot-fmt",
		Usage: "format for snapshot output file names",
		Value: "state-%d.json",
	}
	RunStopAtFlag = &cli.GenericFlag{
		Name:  "stop-at",
		Usage: "step pattern to stop at: never (default), always, =123 at exactly step 123, %123 for every 123 steps",
		Value: new(StepMatcherFlag),
	}
	RunInfoAtFlag = &cli.GenericFlag{
		Name:  "info-at",
		Usage: "step pattern to print info at: never (default), always, =123 at exactly step 123, %123 for every 123 steps",
		Value: MustStepMatcherFlag("%100000"),
	}
	RunPProfCPUFlag = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "enable pprof cpu profiling",
	}

	AsmInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "path of the assembler text",
		TakesFile: true,
		Required:  true,
	}
	AsmOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "path of the bytecode output",
		TakesFile: true,
		Required:  true,
	}

	DisasmInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "path of the bytecode",
		TakesFile: true,
		Required:  true,
	}

	WitnessInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "path of the JSON VM state",
		TakesFile: true,
		Required:  true,
	}
	WitnessOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "path to write the witness JSON to, '-' for stdout",
		TakesFile: true,
	}
)
