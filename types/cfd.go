package types

import (
	"strings"
)

// BCKIND identifies the outlet boundary condition model written to a network file
type BCKIND uint8

const (
	BC_None BCKIND = iota
	BC_RCR
	BC_Resistance
)

var BCNameMap = map[string]BCKIND{
	"none":       BC_None,
	"nobound":    BC_None,
	"rcr":        BC_RCR,
	"windkessel": BC_RCR,
	"resistance": BC_Resistance,
	"r":          BC_Resistance,
}

func (bc BCKIND) String() string {
	switch bc {
	case BC_RCR:
		return "RCR"
	case BC_Resistance:
		return "RESISTANCE"
	default:
		return "NOBOUND"
	}
}

// NumValues is the number of datatable values the solver expects for the BC:
// Rp, C, Rd for RCR and a single R for RESISTANCE
func (bc BCKIND) NumValues() int {
	switch bc {
	case BC_RCR:
		return 3
	case BC_Resistance:
		return 1
	default:
		return 0
	}
}

func NewBCKIND(name string) (bc BCKIND, ok bool) {
	bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}
