package params

import (
	"fmt"
	"strconv"
	"strings"
)

var regNames = [RegWritable]string{
	RegZero: "zero",
	RegOne:  "one",
	RegOF:   "of",
	RegPC:   "pc",
	RegSSP:  "ssp",
	RegSP:   "sp",
	RegFP:   "fp",
	RegHP:   "hp",
	RegERR:  "err",
	RegGGAS: "ggas",
	RegCGAS: "cgas",
	RegBAL:  "bal",
	RegIS:   "is",
	RegRET:  "ret",
	RegRETL: "retl",
	RegFLAG: "flag",
}

// RegName returns the assembler name of a register, without the "$" sigil.
func RegName(id uint8) string {
	if id < RegWritable {
		return regNames[id]
	}
	return fmt.Sprintf("r%d", id)
}

// RegByName resolves "$one", "one", "$r16", "r16" style names.
func RegByName(name string) (uint8, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), "$")
	for i, n := range regNames {
		if n == name {
			return uint8(i), true
		}
	}
	if !strings.HasPrefix(name, "r") {
		return 0, false
	}
	v, err := strconv.ParseUint(name[1:], 10, 8)
	if err != nil || v >= RegCount {
		return 0, false
	}
	return uint8(v), true
}
