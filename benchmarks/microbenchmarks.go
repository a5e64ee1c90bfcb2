package benchmarks

import "github.com/sarchlab/tomasim/insts"

// GetMicrobenchmarks returns the standard set of synthetic workloads. Each
// one stresses a different structure of the core.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		independentInt(),
		dependencyChain(),
		fpChain(),
		mixedFPInt(),
		loadStoreStream(),
		controlHeavy(),
		trapInterleaved(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		independentInt(),
		dependencyChain(),
		mixedFPInt(),
	}
}

// GetMicrobenchmark returns the workload with the given name.
func GetMicrobenchmark(name string) (Benchmark, bool) {
	for _, b := range GetMicrobenchmarks() {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

func intOp(dst insts.Reg, srcs ...insts.Reg) *insts.Instruction {
	return insts.NewInstruction(insts.ClassIntCompute).WithDst(dst).WithSrc(srcs...)
}

func fpOp(dst insts.Reg, srcs ...insts.Reg) *insts.Instruction {
	return insts.NewInstruction(insts.ClassFPCompute).WithDst(dst).WithSrc(srcs...)
}

// 1. Independent integer operations - integer unit throughput
func independentInt() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 20; i++ {
		trace.Append(intOp(insts.IntReg(8+i%8), insts.IntReg(1), insts.IntReg(2)))
	}

	return Benchmark{
		Name:        "independent_int",
		Description: "20 integer ops with no true dependencies - measures int unit throughput",
		Trace:       trace,
	}
}

// 2. Dependency chain - every op waits for the previous broadcast
func dependencyChain() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 20; i++ {
		trace.Append(intOp(insts.IntReg(1), insts.IntReg(1)))
	}

	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent integer ops (r1 <- r1) - measures latency plus broadcast",
		Trace:       trace,
	}
}

// 3. FP chain - long-latency dependencies on the single fp unit
func fpChain() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 10; i++ {
		trace.Append(fpOp(insts.FPReg(0), insts.FPReg(0), insts.FPReg(2)))
	}

	return Benchmark{
		Name:        "fp_chain",
		Description: "10 dependent fp ops - measures fp latency",
		Trace:       trace,
	}
}

// 4. Mixed fp/int - both pools compete for the broadcast bus
func mixedFPInt() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 12; i++ {
		trace.Append(fpOp(insts.FPReg(2*(i%4)), insts.FPReg(8), insts.FPReg(10)))
		trace.Append(intOp(insts.IntReg(8+i%4), insts.IntReg(1)))
		trace.Append(intOp(insts.IntReg(12+i%4), insts.IntReg(8+i%4)))
	}

	return Benchmark{
		Name:        "mixed_fp_int",
		Description: "interleaved fp and dependent int pairs - measures bus contention",
		Trace:       trace,
	}
}

// 5. Load/store stream - stores wait on loads and never broadcast
func loadStoreStream() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 10; i++ {
		trace.Append(insts.NewInstruction(insts.ClassLoad).
			WithDst(insts.FPReg(2 + 2*(i%3))).
			WithSrc(insts.IntReg(4)))
		trace.Append(insts.NewInstruction(insts.ClassStore).
			WithSrc(insts.FPReg(2+2*(i%3)), insts.IntReg(5)))
	}

	return Benchmark{
		Name:        "load_store_stream",
		Description: "10 load/store pairs - measures memory op flow through int units",
		Trace:       trace,
	}
}

// 6. Control heavy - branches retire at the queue head
func controlHeavy() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 10; i++ {
		trace.Append(intOp(insts.IntReg(1), insts.IntReg(1)))
		trace.Append(insts.NewInstruction(insts.ClassCondCtrl).
			WithSrc(insts.IntReg(1), insts.IntReg(2)))
		trace.Append(insts.NewInstruction(insts.ClassUncondCtrl))
	}

	return Benchmark{
		Name:        "control_heavy",
		Description: "counter update with a branch and a jump per iteration",
		Trace:       trace,
	}
}

// 7. Trap interleaved - traps retire at fetch
func trapInterleaved() Benchmark {
	trace := insts.NewSliceTrace()
	for i := 0; i < 10; i++ {
		trace.Append(intOp(insts.IntReg(1+i%4), insts.IntReg(5)))
		trace.Append(insts.NewInstruction(insts.ClassTrap))
	}

	return Benchmark{
		Name:        "trap_interleaved",
		Description: "integer ops separated by traps - measures fetch-time retirement",
		Trace:       trace,
	}
}
