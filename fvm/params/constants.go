package params

// Reserved registers. Everything below RegWritable is maintained by the VM.
const (
	RegZero = 0x00 // always 0
	RegOne  = 0x01 // always 1
	RegOF   = 0x02 // overflow / high bits of the last arithmetic result
	RegPC   = 0x03 // program counter
	RegSSP  = 0x04 // stack start pointer of the current frame
	RegSP   = 0x05 // stack pointer
	RegFP   = 0x06 // frame pointer, 0 in the external context
	RegHP   = 0x07 // heap pointer, lowest allocated heap byte
	RegERR  = 0x08 // error code of the last recoverable failure
	RegGGAS = 0x09 // global gas remaining
	RegCGAS = 0x0a // context gas remaining
	RegBAL  = 0x0b // coins received by the current call
	RegIS   = 0x0c // instruction start of the current code
	RegRET  = 0x0d // return value or pointer of the last call
	RegRETL = 0x0e // return data length of the last call
	RegFLAG = 0x0f // arithmetic flags

	RegWritable = 0x10
	RegCount    = 64
)

const (
	WordSize        = 8
	InstructionSize = 4

	// 64 MiB of addressable VM memory
	VMMaxRAM = 1 << 26

	TxIDOffset        = 0
	BaseAssetIDOffset = 32
	TxOffset          = 64

	ContractIDSize  = 32
	AssetIDSize     = 32
	StorageSlotSize = 32

	// frame header: callee id, asset id, saved registers, code size, param1, param2
	CallFrameHeaderSize = ContractIDSize + AssetIDSize + RegCount*WordSize + 3*WordSize
	// call params read from memory by CALL: contract id, param1, param2
	CallParamsSize = ContractIDSize + 2*WordSize
)

// Offsets within the call frame header.
const (
	FrameToOffset       = 0
	FrameAssetIDOffset  = FrameToOffset + ContractIDSize
	FrameRegsOffset     = FrameAssetIDOffset + AssetIDSize
	FrameCodeSizeOffset = FrameRegsOffset + RegCount*WordSize
	FrameParam1Offset   = FrameCodeSizeOffset + WordSize
	FrameParam2Offset   = FrameParam1Offset + WordSize
)

// Bits of $flag.
const (
	FlagUnsafeMath = 0x01
	FlagWrapping   = 0x02

	FlagMask = FlagUnsafeMath | FlagWrapping
)

// Metadata selectors for GM.
const (
	GMIsCallerExternal      = 0x01
	GMGetCaller             = 0x02
	GMGetVerifyingPredicate = 0x03
	GMGetChainID            = 0x04
	GMTxStart               = 0x05
	GMBaseAssetID           = 0x06
)
