package insts

import (
	"fmt"
	"strconv"
	"strings"
)

var classByName = map[string]Class{
	"int":    ClassIntCompute,
	"icomp":  ClassIntCompute,
	"fp":     ClassFPCompute,
	"fcomp":  ClassFPCompute,
	"load":   ClassLoad,
	"store":  ClassStore,
	"jump":   ClassUncondCtrl,
	"branch": ClassCondCtrl,
	"trap":   ClassTrap,
}

// Decoder turns textual trace lines into instructions.
//
// A line has the form
//
//	[@pc] class [dst[, dst2]] [<- src[, src2[, src3]]] [; mnemonic]
//
// and '#' starts a comment.
type Decoder struct{}

// NewDecoder creates a new trace line decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a single trace line. A line holding only whitespace or a
// comment yields a nil instruction and a nil error. The returned instruction
// has no Index; the trace that stores it assigns one.
func (d *Decoder) Decode(line string) (*Instruction, error) {
	if pos := strings.IndexByte(line, '#'); pos >= 0 {
		line = line[:pos]
	}

	mnemonic := ""
	if pos := strings.IndexByte(line, ';'); pos >= 0 {
		mnemonic = strings.TrimSpace(line[pos+1:])
		line = line[:pos]
	}

	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return nil, nil
	}

	var pc uint64
	if strings.HasPrefix(fields[0], "@") {
		v, err := strconv.ParseUint(strings.TrimPrefix(fields[0][1:], "0x"), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid pc %q: %w", fields[0], err)
		}
		pc = v
		fields = fields[1:]
		if len(fields) == 0 {
			return nil, fmt.Errorf("missing instruction class")
		}
	}

	class, ok := classByName[strings.ToLower(fields[0])]
	if !ok {
		return nil, fmt.Errorf("unknown instruction class %q", fields[0])
	}

	inst := NewInstruction(class)
	inst.PC = pc
	inst.Mnemonic = mnemonic

	dsts, srcs, err := splitOperands(fields[1:])
	if err != nil {
		return nil, err
	}

	if len(dsts) > MaxDstRegs {
		return nil, fmt.Errorf("too many destinations: %d", len(dsts))
	}
	if len(srcs) > MaxSrcRegs {
		return nil, fmt.Errorf("too many sources: %d", len(srcs))
	}
	if len(dsts) > 0 && !inst.WritesBus() {
		return nil, fmt.Errorf("%v instruction cannot write registers", class)
	}

	for n, name := range dsts {
		r, err := ParseReg(name)
		if err != nil {
			return nil, err
		}
		inst.Dst[n] = r
	}

	for n, name := range srcs {
		r, err := ParseReg(name)
		if err != nil {
			return nil, err
		}
		inst.Src[n] = r
	}

	return inst, nil
}

// splitOperands separates destination tokens from source tokens around the
// "<-" arrow. Without an arrow every token is a destination.
func splitOperands(tokens []string) (dsts, srcs []string, err error) {
	arrow := -1
	for i, t := range tokens {
		if t == "<-" {
			if arrow >= 0 {
				return nil, nil, fmt.Errorf("more than one '<-'")
			}
			arrow = i
		}
	}

	if arrow < 0 {
		return tokens, nil, nil
	}

	return tokens[:arrow], tokens[arrow+1:], nil
}

// ParseReg parses a register name such as r4, f12, hi, lo or fcc.
func ParseReg(name string) (Reg, error) {
	name = strings.ToLower(name)

	switch name {
	case "hi":
		return RegHI, nil
	case "lo":
		return RegLO, nil
	case "fcc":
		return RegFCC, nil
	}

	if len(name) < 2 {
		return RegNone, fmt.Errorf("invalid register %q", name)
	}

	digits := name[1:]
	if strings.TrimLeft(digits, "0123456789") != "" {
		return RegNone, fmt.Errorf("invalid register %q", name)
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return RegNone, fmt.Errorf("invalid register %q", name)
	}

	switch name[0] {
	case 'r':
		if n >= NumIntRegs {
			return RegNone, fmt.Errorf("integer register out of range: %q", name)
		}
		return IntReg(n), nil
	case 'f':
		if n >= NumFPRegs {
			return RegNone, fmt.Errorf("floating-point register out of range: %q", name)
		}
		return FPReg(n), nil
	}

	return RegNone, fmt.Errorf("invalid register %q", name)
}
