package interpreter

import (
	"errors"
	"fmt"
)

// PanicReason is why a call frame stopped on a recoverable fault.
type PanicReason uint8

const (
	PanicOutOfGas PanicReason = iota + 1
	PanicMemoryOverflow
	PanicMemoryOwnership
	PanicMemoryWriteOverlap
	PanicUninitializedMemoryAccess
	PanicArithmeticOverflow
	PanicArithmeticError
	PanicReservedRegisterNotWritable
	PanicInvalidFlags
	PanicInvalidImmediateValue
	PanicInvalidOpcode
	PanicContractInstructionNotAllowed
	PanicContractNotFound
	PanicNotEnoughBalance
	PanicBalanceOverflow
	PanicTransferAmountCannotBeZero
	PanicExpectedInternalContext
	PanicExpectedPredicateContext
	PanicExpectedUnallocatedStack
	PanicInvalidMetadataIdentifier
	PanicInvalidBlockHeight
	PanicCallDepthExceeded
	PanicJumpOutOfBounds
	PanicInvalidSignature
	PanicTooManyReceipts

	maxPanicReason = PanicTooManyReceipts
)

var panicReasonNames = [...]string{
	PanicOutOfGas:                      "OutOfGas",
	PanicMemoryOverflow:                "MemoryOverflow",
	PanicMemoryOwnership:               "MemoryOwnership",
	PanicMemoryWriteOverlap:            "MemoryWriteOverlap",
	PanicUninitializedMemoryAccess:     "UninitializedMemoryAccess",
	PanicArithmeticOverflow:            "ArithmeticOverflow",
	PanicArithmeticError:               "ArithmeticError",
	PanicReservedRegisterNotWritable:   "ReservedRegisterNotWritable",
	PanicInvalidFlags:                  "InvalidFlags",
	PanicInvalidImmediateValue:         "InvalidImmediateValue",
	PanicInvalidOpcode:                 "InvalidOpcode",
	PanicContractInstructionNotAllowed: "ContractInstructionNotAllowed",
	PanicContractNotFound:              "ContractNotFound",
	PanicNotEnoughBalance:              "NotEnoughBalance",
	PanicBalanceOverflow:               "BalanceOverflow",
	PanicTransferAmountCannotBeZero:    "TransferAmountCannotBeZero",
	PanicExpectedInternalContext:       "ExpectedInternalContext",
	PanicExpectedPredicateContext:      "ExpectedPredicateContext",
	PanicExpectedUnallocatedStack:      "ExpectedUnallocatedStack",
	PanicInvalidMetadataIdentifier:     "InvalidMetadataIdentifier",
	PanicInvalidBlockHeight:            "InvalidBlockHeight",
	PanicCallDepthExceeded:             "CallDepthExceeded",
	PanicJumpOutOfBounds:               "JumpOutOfBounds",
	PanicInvalidSignature:              "InvalidSignature",
	PanicTooManyReceipts:               "TooManyReceipts",
}

func (r PanicReason) String() string {
	if r == 0 || r > maxPanicReason {
		return fmt.Sprintf("PanicReason(%d)", uint8(r))
	}
	return panicReasonNames[r]
}

func (r PanicReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *PanicReason) UnmarshalText(text []byte) error {
	for i, n := range panicReasonNames {
		if n != "" && n == string(text) {
			*r = PanicReason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown panic reason %q", text)
}

// PanicError is a recoverable fault. It unwinds the current call frame only.
type PanicError struct {
	Reason PanicReason
}

func (e *PanicError) Error() string {
	return "vm panic: " + e.Reason.String()
}

// Is lets errors.Is match on the reason alone.
func (e *PanicError) Is(target error) bool {
	t, ok := target.(*PanicError)
	return ok && t.Reason == e.Reason
}

// the interpreter only ever returns these shared instances
var panicErrors = func() (out [maxPanicReason + 1]*PanicError) {
	for i := range out {
		out[i] = &PanicError{Reason: PanicReason(i)}
	}
	return
}()

func vmPanic(r PanicReason) error {
	return panicErrors[r]
}

var (
	// ErrHalted wraps host failures, such as storage I/O errors. They abort the whole execution.
	ErrHalted = errors.New("vm halted")
	// ErrBug is returned when an internal invariant of the interpreter broke.
	ErrBug = errors.New("interpreter bug")
	// ErrNotRunning is returned by Step once a terminal state was reached.
	ErrNotRunning = errors.New("program is not running")
	// ErrNotLoaded is returned by Step before Load.
	ErrNotLoaded = errors.New("no program loaded")
)

func halt(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrHalted, op, err)
}

// PanicInstruction packs a reason with the faulting instruction word, as reported
// in the Revert state of a panicked program.
func PanicInstruction(reason PanicReason, word uint32) uint64 {
	return uint64(reason)<<56 | uint64(word)<<24
}
