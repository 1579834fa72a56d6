package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/fuel-go/fvm/fvm/asm"
	"github.com/fuel-go/fvm/fvm/params"
	"github.com/fuel-go/fvm/fvm/storage"
)

type Option func(in *Interpreter)

func WithStorage(s Storage) Option {
	return func(in *Interpreter) { in.storage = s }
}

func WithCrypto(c Crypto) Option {
	return func(in *Interpreter) { in.crypto = c }
}

func WithLogger(l log.Logger) Option {
	return func(in *Interpreter) { in.log = l }
}

// WithTracing logs every executed instruction at trace level.
func WithTracing() Option {
	return func(in *Interpreter) { in.tracing = true }
}

func WithTransaction(tx Transaction) Option {
	return func(in *Interpreter) { in.tx = tx }
}

// AsPredicate runs the program as the predicate of input index. Contract instructions
// are rejected.
func AsPredicate(index uint64) Option {
	return func(in *Interpreter) {
		in.predicate = true
		in.predicateIndex = index
	}
}

type Interpreter struct {
	params   *params.Params
	gasTable [256]uint64
	storage  Storage
	crypto   Crypto
	tx       Transaction
	log      log.Logger
	tracing  bool

	predicate      bool
	predicateIndex uint64

	regs     Registers
	mem      *Memory
	frames   []*CallFrame
	receipts []Receipt
	// free balances of the external context, spent by CALL and TR
	balances map[common.Hash]uint64
	txID     common.Hash
	gasLimit uint64

	loaded bool
	steps  uint64
	state  *ProgramState
	// err is the halt or bug that stopped execution, if any
	err error

	breakpoints map[Breakpoint]struct{}
	// resume skips the breakpoint at the current instruction once
	resume bool
}

// New creates an interpreter. The default storage is an empty in-memory database.
func New(p *params.Params, opts ...Option) *Interpreter {
	in := &Interpreter{
		params:      p,
		gasTable:    compileGasTable(&p.Gas),
		crypto:      DefaultCrypto{},
		log:         log.Root(),
		mem:         NewMemory(),
		balances:    make(map[common.Hash]uint64),
		breakpoints: make(map[Breakpoint]struct{}),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.storage == nil {
		in.storage = storage.NewMemory()
	}
	return in
}

// Init is the input of a program run.
type Init struct {
	TxID     common.Hash
	Tx       []byte
	Code     []byte
	GasLimit uint64
	// Balances are the coins the script may forward, by asset id.
	Balances map[common.Hash]uint64
}

var ErrProgramTooLarge = errors.New("program does not fit in VM memory")

// Load lays out the transaction and code in memory and resets all registers.
//
//	[0, 32)   transaction id
//	[32, 64)  base asset id
//	[64, ..)  serialized transaction
//	code at the next word boundary
func (in *Interpreter) Load(init Init) error {
	codeStart := padWord(params.TxOffset + uint64(len(init.Tx)))
	codeEnd := codeStart + padWord(uint64(len(init.Code)))
	if codeEnd >= params.VMMaxRAM {
		return fmt.Errorf("%w: %d bytes", ErrProgramTooLarge, codeEnd)
	}

	in.mem = NewMemory()
	in.mem.Write(params.TxIDOffset, init.TxID[:])
	in.mem.Write(params.BaseAssetIDOffset, in.params.BaseAssetID[:])
	in.mem.Write(params.TxOffset, init.Tx)
	in.mem.Write(codeStart, init.Code)

	in.regs = Registers{}
	in.regs[params.RegOne] = 1
	in.regs[params.RegIS] = codeStart
	in.regs[params.RegPC] = codeStart
	in.regs[params.RegSSP] = codeEnd
	in.regs[params.RegSP] = codeEnd
	in.regs[params.RegHP] = params.VMMaxRAM
	in.regs[params.RegGGAS] = init.GasLimit
	in.regs[params.RegCGAS] = init.GasLimit

	in.balances = make(map[common.Hash]uint64, len(init.Balances))
	for k, v := range init.Balances {
		in.balances[k] = v
	}
	in.frames = nil
	in.receipts = nil
	in.txID = init.TxID
	in.gasLimit = init.GasLimit
	in.steps = 0
	in.state = nil
	in.err = nil
	in.resume = false
	in.loaded = true
	in.log.Debug("loaded program", "code", len(init.Code), "tx", len(init.Tx), "gas", init.GasLimit, "predicate", in.predicate)
	return nil
}

// Step executes one instruction. VM panics are absorbed into receipts and state; the
// returned error is only set when the host failed or the interpreter hit a bug.
func (in *Interpreter) Step() (err error) {
	if !in.loaded {
		return ErrNotLoaded
	}
	if in.err != nil {
		return in.err
	}
	if in.state != nil {
		if in.state.Kind != StateDebug {
			return ErrNotRunning
		}
		in.state = nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBug, r)
		}
		if err != nil {
			in.err = err
		}
	}()

	pc := in.regs[params.RegPC]
	if len(in.breakpoints) > 0 && !in.resume {
		bp := Breakpoint{ContractID: in.contractID(), PC: pc - in.regs[params.RegIS]}
		if _, ok := in.breakpoints[bp]; ok {
			in.state = &ProgramState{Kind: StateDebug, Breakpoint: &bp}
			in.resume = true
			return nil
		}
	}
	in.resume = false
	in.steps++

	word, err := in.execute(pc)
	if err == nil {
		return nil
	}
	var perr *PanicError
	if errors.As(err, &perr) {
		return in.handlePanic(perr.Reason, word)
	}
	return err
}

// execute runs the instruction at pc. It returns the fetched word for panic reporting.
func (in *Interpreter) execute(pc uint64) (uint32, error) {
	if pc < in.regs[params.RegIS] || pc+params.InstructionSize > in.regs[params.RegSSP] {
		return 0, vmPanic(PanicMemoryOverflow)
	}
	var b [params.InstructionSize]byte
	in.mem.Read(pc, b[:])
	word, _ := asm.FromBytes(b[:])

	ins, err := asm.ParseInstruction(word)
	switch {
	case errors.Is(err, asm.ErrInvalidOpcode):
		return word, vmPanic(PanicInvalidOpcode)
	case err != nil:
		return word, vmPanic(PanicInvalidImmediateValue)
	}
	info := ins.Info()
	d := ins.Decoded()
	for i := 0; i < info.Shape.Len(); i++ {
		if info.WritesSlot(i) {
			if err := checkWritable(d.Reg(i)); err != nil {
				return word, err
			}
		}
	}
	if in.predicate && info.Contract {
		return word, vmPanic(PanicContractInstructionNotAllowed)
	}
	if err := in.chargeGas(in.gasTable[d.Op]); err != nil {
		return word, err
	}
	if in.tracing {
		in.log.Trace("step", "pc", pc, "ins", ins, "depth", len(in.frames), "cgas", in.regs[params.RegCGAS])
	}

	op := jumpTable[d.Op]
	if err := op.execute(in, d); err != nil {
		return word, err
	}
	if !op.jumps {
		in.regs[params.RegPC] += params.InstructionSize
	}
	return word, nil
}

// handlePanic records a panic receipt. A panic in the external context ends the program
// with a Revert state; inside a call it unwinds that frame only.
func (in *Interpreter) handlePanic(reason PanicReason, word uint32) error {
	in.pushReceipt(Receipt{Kind: ReceiptPanic, ID: in.contractID(), Reason: reason, Instruction: word})
	in.log.Debug("vm panic", "reason", reason, "ins", fmt.Sprintf("%08x", word), "depth", len(in.frames))
	if len(in.frames) == 0 {
		in.state = &ProgramState{Kind: StateRevert, Value: PanicInstruction(reason, word)}
		return nil
	}
	return in.revertFrame(0)
}

// Run steps until the program ends, a breakpoint is hit, or ctx is done.
func (in *Interpreter) Run(ctx context.Context) (*ProgramState, error) {
	for {
		// ctx.Err takes a lock, check it only every so often
		if in.steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := in.Step(); err != nil {
			return nil, err
		}
		if in.state != nil {
			return in.state, nil
		}
	}
}

// State is the terminal or debug state, nil while running.
func (in *Interpreter) State() *ProgramState { return in.state }

func (in *Interpreter) Registers() Registers { return in.regs }

func (in *Interpreter) Memory() *Memory { return in.mem }

func (in *Interpreter) Steps() uint64 { return in.steps }

func (in *Interpreter) TxID() common.Hash { return in.txID }

// Balance is the remaining free balance of the external context.
func (in *Interpreter) Balance(asset common.Hash) uint64 { return in.balances[asset] }

// Instr returns the instruction word at $pc, or 0 when $pc is outside the code.
func (in *Interpreter) Instr() uint32 {
	pc := in.regs[params.RegPC]
	if pc < in.regs[params.RegIS] || pc+params.InstructionSize > in.regs[params.RegSSP] {
		return 0
	}
	var b [params.InstructionSize]byte
	in.mem.Read(pc, b[:])
	w, _ := asm.FromBytes(b[:])
	return w
}

type Breakpoint struct {
	ContractID common.Hash `json:"contractId"`
	// PC is relative to $is of the contract code
	PC uint64 `json:"pc"`
}

func (in *Interpreter) SetBreakpoint(bp Breakpoint) {
	in.breakpoints[bp] = struct{}{}
}

func (in *Interpreter) RemoveBreakpoint(bp Breakpoint) {
	delete(in.breakpoints, bp)
}

type StateKind uint8

const (
	StateReturn StateKind = iota
	StateReturnData
	StateRevert
	StateDebug
)

var stateKindNames = [...]string{
	StateReturn:     "return",
	StateReturnData: "return_data",
	StateRevert:     "revert",
	StateDebug:      "debug",
}

func (k StateKind) String() string {
	if int(k) < len(stateKindNames) {
		return stateKindNames[k]
	}
	return fmt.Sprintf("StateKind(%d)", uint8(k))
}

func (k StateKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StateKind) UnmarshalText(text []byte) error {
	for i, n := range stateKindNames {
		if n == string(text) {
			*k = StateKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state kind %q", text)
}

// ProgramState is how a program stopped. Value is set for return and revert, Digest
// for return_data and Breakpoint for debug.
type ProgramState struct {
	Kind       StateKind   `json:"kind"`
	Value      uint64      `json:"value,omitempty"`
	Digest     common.Hash `json:"digest,omitempty"`
	Breakpoint *Breakpoint `json:"breakpoint,omitempty"`
}

func (s *ProgramState) String() string {
	switch s.Kind {
	case StateReturnData:
		return fmt.Sprintf("return_data(%s)", s.Digest)
	case StateDebug:
		return fmt.Sprintf("debug(%s+%d)", s.Breakpoint.ContractID, s.Breakpoint.PC)
	default:
		return fmt.Sprintf("%s(%d)", s.Kind, s.Value)
	}
}

// Terminal reports whether the program ended, as opposed to stopping at a breakpoint.
func (s *ProgramState) Terminal() bool {
	return s != nil && s.Kind != StateDebug
}
