package params

import (
	"errors"
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	gmath "github.com/ethereum/go-ethereum/common/math"
)

// DependentCost prices an operation whose work scales with the number of units it touches
// (bytes of memory, bytes of code, storage slots).
type DependentCost struct {
	Base        uint64 `toml:"base"`
	UnitsPerGas uint64 `toml:"units_per_gas"`
}

// Cost returns Base + ceil(units / UnitsPerGas), saturating at the max uint64.
// A zero UnitsPerGas makes the variable part free.
func (c DependentCost) Cost(units uint64) uint64 {
	if c.UnitsPerGas == 0 {
		return c.Base
	}
	q := units / c.UnitsPerGas
	if units%c.UnitsPerGas != 0 {
		q++
	}
	v, overflow := gmath.SafeAdd(c.Base, q)
	if overflow {
		return math.MaxUint64
	}
	return v
}

type GasCosts struct {
	// Default base cost of any opcode without an entry in Base.
	Default uint64            `toml:"default"`
	Base    map[string]uint64 `toml:"base"`

	Memory  DependentCost `toml:"memory"`
	Code    DependentCost `toml:"code"`
	Hash    DependentCost `toml:"hash"`
	Storage DependentCost `toml:"storage"`
}

// BaseCost returns the base cost for the given mnemonic.
func (g *GasCosts) BaseCost(mnemonic string) uint64 {
	if v, ok := g.Base[mnemonic]; ok {
		return v
	}
	return g.Default
}

type Params struct {
	MaxCallDepth uint64      `toml:"max_call_depth"`
	MaxReceipts  int         `toml:"max_receipts"`
	ChainID      uint64      `toml:"chain_id"`
	BaseAssetID  common.Hash `toml:"base_asset_id"`

	Gas GasCosts `toml:"gas"`
}

func defaultBaseCosts() map[string]uint64 {
	return map[string]uint64{
		"EXP": 4, "EXPI": 4, "MLOG": 4, "MROO": 4, "MLDV": 4,
		"DIV": 2, "DIVI": 2, "MOD": 2, "MODI": 2, "MUL": 2, "MULI": 2,
		"MCL": 2, "MCLI": 2, "MCP": 2, "MCPI": 2, "MEQ": 2, "ALOC": 2,
		"CALL": 50, "LDC": 30, "CCP": 20, "CROO": 30, "CSIZ": 20,
		"SRW": 20, "SWW": 40, "SRWQ": 20, "SWWQ": 40, "SCWQ": 40,
		"BAL": 20, "TR": 40, "MINT": 40, "BURN": 40,
		"BHEI": 2, "BHSH": 10, "CB": 2, "TIME": 10,
		"ECK1": 300, "ED19": 300, "K256": 10, "S256": 10,
		"LOG": 5, "LOGD": 5, "RET": 5, "RETD": 5, "RVRT": 5,
		"WDML": 3, "WQML": 4, "WDDV": 4, "WQDV": 6,
		"WDMD": 6, "WQMD": 10, "WDAM": 4, "WQAM": 8, "WDMM": 6, "WQMM": 10,
	}
}

// Default returns the parameters used when no configuration file is given.
func Default() *Params {
	return &Params{
		MaxCallDepth: 64,
		MaxReceipts:  4096,
		ChainID:      0,
		Gas: GasCosts{
			Default: 1,
			Base:    defaultBaseCosts(),
			Memory:  DependentCost{Base: 0, UnitsPerGas: WordSize},
			Code:    DependentCost{Base: 0, UnitsPerGas: 32},
			Hash:    DependentCost{Base: 0, UnitsPerGas: 32},
			Storage: DependentCost{Base: 0, UnitsPerGas: 1},
		},
	}
}

func (p *Params) Validate() error {
	if p.MaxCallDepth == 0 {
		return errors.New("max call depth must be positive")
	}
	if p.MaxReceipts <= 0 {
		return fmt.Errorf("max receipts must be positive, got %d", p.MaxReceipts)
	}
	return nil
}

// LoadTOML reads parameters from a TOML file. Fields missing from the file keep their defaults.
func LoadTOML(path string) (*Params, error) {
	p := Default()
	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, fmt.Errorf("failed to decode params file %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown params keys in %q: %v", path, undecoded)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params file %q: %w", path, err)
	}
	return p, nil
}
