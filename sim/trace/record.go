// Package trace reads and writes memory-access traces.
// This package has no dependencies on sim/ — it stores pure data types and
// handles the text trace format only; the core consumes the parsed records.
package trace

import "fmt"

// Op is the kind of a memory access.
type Op int

const (
	// OpRead is a data read.
	OpRead Op = iota
	// OpWrite is a data write.
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "w"
	}
	return "r"
}

// ParseOp maps a trace operation field to an Op. Accepts "r"/"R" and "w"/"W".
func ParseOp(s string) (Op, error) {
	switch s {
	case "r", "R":
		return OpRead, nil
	case "w", "W":
		return OpWrite, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", s)
	}
}

// Access is one record of a memory trace: a 64-bit address and whether the
// access reads or writes it.
type Access struct {
	Addr uint64
	Op   Op
}

// IsWrite reports whether the access is a write.
func (a Access) IsWrite() bool {
	return a.Op == OpWrite
}
