// Package insts provides the decoded-instruction model consumed by the timing
// simulator.
//
// Instructions arrive already decoded: each one carries only what the
// out-of-order timing model needs, namely its class, up to three source
// registers and up to two destination registers. No operand values are
// modeled.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode("int r3 <- r1, r2")
//	fmt.Printf("Class: %v, Dst: %v, Src: %v\n", inst.Class, inst.Dst, inst.Src)
package insts

import "fmt"

// Class is the coarse category that decides which resources an instruction
// uses in the timing model.
type Class uint8

// Instruction classes.
const (
	ClassUnknown Class = iota
	ClassIntCompute
	ClassFPCompute
	ClassLoad
	ClassStore
	ClassUncondCtrl
	ClassCondCtrl
	ClassTrap
)

var classNames = map[Class]string{
	ClassUnknown:    "unknown",
	ClassIntCompute: "int",
	ClassFPCompute:  "fp",
	ClassLoad:       "load",
	ClassStore:      "store",
	ClassUncondCtrl: "jump",
	ClassCondCtrl:   "branch",
	ClassTrap:       "trap",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Reg identifies an architectural register.
//
// Integer registers r0-r31 occupy 0-31, floating-point registers f0-f31
// occupy 32-63, followed by the HI, LO and FCC special registers.
type Reg uint8

// Register layout.
const (
	NumIntRegs = 32
	NumFPRegs  = 32

	RegFPBase Reg = NumIntRegs
	RegHI     Reg = NumIntRegs + NumFPRegs
	RegLO     Reg = RegHI + 1
	RegFCC    Reg = RegHI + 2

	// NumRegs is the size of the architectural register namespace.
	NumRegs = int(RegFCC) + 1

	// RegNone marks an unused operand slot.
	RegNone Reg = 0xFF
)

// IntReg returns the register for integer register n.
func IntReg(n int) Reg {
	return Reg(n)
}

// FPReg returns the register for floating-point register n.
func FPReg(n int) Reg {
	return RegFPBase + Reg(n)
}

// Valid reports whether r names a real register.
func (r Reg) Valid() bool {
	return int(r) < NumRegs
}

func (r Reg) String() string {
	switch {
	case r == RegNone:
		return "-"
	case r < RegFPBase:
		return fmt.Sprintf("r%d", uint8(r))
	case r < RegHI:
		return fmt.Sprintf("f%d", uint8(r-RegFPBase))
	case r == RegHI:
		return "hi"
	case r == RegLO:
		return "lo"
	case r == RegFCC:
		return "fcc"
	default:
		return fmt.Sprintf("reg(%d)", uint8(r))
	}
}

// Operand slot counts.
const (
	MaxSrcRegs = 3
	MaxDstRegs = 2
)

// Instruction is one entry of a dynamic instruction trace.
type Instruction struct {
	// Index is the position in program order, starting at 1. It is the
	// universal tie-break key of the timing model.
	Index uint64

	// PC is the instruction address, if the trace provides one.
	PC uint64

	// Mnemonic is free-form text kept for reports.
	Mnemonic string

	Class Class
	Src   [MaxSrcRegs]Reg
	Dst   [MaxDstRegs]Reg
}

// NewInstruction creates an instruction of the given class with all operand
// slots unused.
func NewInstruction(class Class) *Instruction {
	inst := &Instruction{Class: class}
	for i := range inst.Src {
		inst.Src[i] = RegNone
	}
	for i := range inst.Dst {
		inst.Dst[i] = RegNone
	}
	return inst
}

// WithSrc fills the source slots in order and returns the instruction.
func (i *Instruction) WithSrc(regs ...Reg) *Instruction {
	for n, r := range regs {
		i.Src[n] = r
	}
	return i
}

// WithDst fills the destination slots in order and returns the instruction.
func (i *Instruction) WithDst(regs ...Reg) *Instruction {
	for n, r := range regs {
		i.Dst[n] = r
	}
	return i
}

// UsesIntUnit returns true if the instruction executes on an integer unit.
// Loads and stores use the integer units for address generation.
func (i *Instruction) UsesIntUnit() bool {
	switch i.Class {
	case ClassIntCompute, ClassLoad, ClassStore:
		return true
	}
	return false
}

// UsesFPUnit returns true if the instruction executes on a floating-point
// unit.
func (i *Instruction) UsesFPUnit() bool {
	return i.Class == ClassFPCompute
}

// WritesBus returns true if the instruction broadcasts a result.
func (i *Instruction) WritesBus() bool {
	switch i.Class {
	case ClassIntCompute, ClassLoad, ClassFPCompute:
		return true
	}
	return false
}

// IsControl returns true for conditional and unconditional control
// instructions.
func (i *Instruction) IsControl() bool {
	return i.Class == ClassUncondCtrl || i.Class == ClassCondCtrl
}

// IsTrap returns true for trap instructions.
func (i *Instruction) IsTrap() bool {
	return i.Class == ClassTrap
}

// IsStore returns true for store instructions.
func (i *Instruction) IsStore() bool {
	return i.Class == ClassStore
}

// IsLoad returns true for load instructions.
func (i *Instruction) IsLoad() bool {
	return i.Class == ClassLoad
}

func (i *Instruction) String() string {
	s := fmt.Sprintf("#%d %v", i.Index, i.Class)
	if i.Mnemonic != "" {
		s += " (" + i.Mnemonic + ")"
	}
	return s
}
