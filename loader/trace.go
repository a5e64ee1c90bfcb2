// Package loader reads instruction trace files for the timing simulator.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/tomasim/insts"
)

// maxLineLength bounds a single trace line.
const maxLineLength = 1 << 20

// Load reads a textual trace file and returns the decoded trace.
func Load(path string) (*insts.SliceTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	trace, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return trace, nil
}

// Parse decodes a trace from r, one instruction per line.
func Parse(r io.Reader) (*insts.SliceTrace, error) {
	decoder := insts.NewDecoder()
	trace := insts.NewSliceTrace()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		inst, err := decoder.Decode(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if inst == nil {
			continue
		}

		trace.Append(inst)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return trace, nil
}
