// Package bench runs the engine over EPD test suites.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/hailam/chessbot/internal/board"
)

// ErrInvalidEPD is returned for lines that are not EPD records.
var ErrInvalidEPD = errors.New("invalid EPD")

// Case is one EPD record.
type Case struct {
	ID       string
	Position board.Position
	Best     []board.Move // "bm" opcode
	Avoid    []board.Move // "am" opcode
}

// Solved reports whether playing move satisfies the record's bm and am
// opcodes. Records without either are never solved.
func (c Case) Solved(move board.Move) bool {
	if len(c.Best) == 0 && len(c.Avoid) == 0 {
		return false
	}
	if len(c.Best) > 0 && !board.MoveList(c.Best).Contains(move) {
		return false
	}
	return !board.MoveList(c.Avoid).Contains(move)
}

// LoadEPD reads a suite from path. Files ending in .zst are zstd
// compressed.
func LoadEPD(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	cases, err := ReadEPD(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// ReadEPD parses one record per line. Blank lines and lines starting
// with '#' are skipped.
func ReadEPD(r io.Reader) ([]Case, error) {
	var cases []Case
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		c, err := ParseEPD(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if c.ID == "" {
			c.ID = strconv.Itoa(lineNo)
		}
		cases = append(cases, c)
	}
	return cases, scanner.Err()
}

// ParseEPD parses a single record: four FEN fields followed by
// semicolon-terminated opcodes.
func ParseEPD(line string) (Case, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Case{}, fmt.Errorf("%w: need 4 position fields", ErrInvalidEPD)
	}
	rest := strings.TrimSpace(strings.Join(fields[4:], " "))

	halfMove, fullMove := "0", "1"
	var c Case
	var bm, am []string

	for _, op := range strings.Split(rest, ";") {
		tokens := strings.Fields(op)
		if len(tokens) == 0 {
			continue
		}
		operands := tokens[1:]
		switch tokens[0] {
		case "id":
			c.ID = strings.Trim(strings.Join(operands, " "), `"`)
		case "bm":
			bm = operands
		case "am":
			am = operands
		case "hmvc":
			if len(operands) > 0 {
				halfMove = operands[0]
			}
		case "fmvn":
			if len(operands) > 0 {
				fullMove = operands[0]
			}
		}
	}

	fen := strings.Join(append(fields[:4:4], halfMove, fullMove), " ")
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return Case{}, fmt.Errorf("%w: %w", ErrInvalidEPD, err)
	}
	c.Position = pos

	if c.Best, err = parseSANList(bm, pos); err != nil {
		return Case{}, err
	}
	if c.Avoid, err = parseSANList(am, pos); err != nil {
		return Case{}, err
	}
	return c, nil
}

func parseSANList(sans []string, pos board.Position) ([]board.Move, error) {
	var moves []board.Move
	for _, s := range sans {
		m, err := board.ParseSAN(s, pos)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
