package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Trace text format: one access per line, two whitespace-separated fields,
//
//	<op> <address>
//
// where <op> is r or w and <address> is hexadecimal, with or without a 0x
// prefix. Blank lines are skipped. Example:
//
//	r 0x7f2a1c40
//	w 7f2a1c48

// ReadAll parses a whole trace from r, preserving record order.
// Malformed lines fail the parse with their line number.
func ReadAll(r io.Reader) ([]Access, error) {
	var accesses []Access
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		acc, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		accesses = append(accesses, acc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return accesses, nil
}

// ReadFile parses the trace file at path.
func ReadFile(path string) ([]Access, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()
	accesses, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return accesses, nil
}

func parseLine(line string) (Access, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Access{}, fmt.Errorf("expected '<op> <address>', got %d fields", len(fields))
	}
	op, err := ParseOp(fields[0])
	if err != nil {
		return Access{}, err
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(fields[1]), "0x"), 16, 64)
	if err != nil {
		return Access{}, fmt.Errorf("bad address %q: %v", fields[1], err)
	}
	return Access{Addr: addr, Op: op}, nil
}

// WriteAll writes accesses to w in the text trace format.
func WriteAll(w io.Writer, accesses []Access) error {
	bw := bufio.NewWriter(w)
	for _, a := range accesses {
		if _, err := fmt.Fprintf(bw, "%s %x\n", a.Op, a.Addr); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	return bw.Flush()
}

// WriteFile writes accesses to the trace file at path.
func WriteFile(path string, accesses []Access) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := WriteAll(f, accesses); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
