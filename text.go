package graytext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Upper bound of the initial Pix allocation while reading, so a bogus header
// can't make us allocate gigabytes before any pixel is read.
const maxPreallocPixels = 1 << 20

// WriteGrid writes g in TextGrid format to w.
func WriteGrid(w io.Writer, g *Grid) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("graytext.WriteGrid: %w", err)
	}
	bw := bufio.NewWriter(w)
	// "255 " per pixel plus the newline.
	line := make([]byte, 0, g.Width*4+1)
	line = strconv.AppendInt(line, int64(g.Height), 10)
	line = append(line, ' ')
	line = strconv.AppendInt(line, int64(g.Width), 10)
	line = append(line, '\n')
	if _, err := bw.Write(line); err != nil {
		return fmt.Errorf("graytext.WriteGrid: %w: %w", ErrIO, err)
	}
	for row := 0; row < g.Height; row++ {
		line = line[:0]
		for col, v := range g.Row(row) {
			if col > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendUint(line, uint64(v), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("graytext.WriteGrid: %w: %w", ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("graytext.WriteGrid: %w: %w", ErrIO, err)
	}
	return nil
}

// ReadGrid parses a TextGrid from r.
//
// The first line must contain exactly the two positive integers
// "height width". All the following lines are read as one stream of
// whitespace separated values, so rows are not required to be one per line.
// The number of values must match height*width exactly, otherwise ErrShape is
// returned.
func ReadGrid(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)
	lineNum := 0
	// nextLine returns io.EOF only when there's nothing left at all.
	nextLine := func() (string, error) {
		s, err := br.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("graytext.ReadGrid: %w: %w", ErrIO, err)
			}
			if s == "" {
				return "", io.EOF
			}
		}
		lineNum++
		return s, nil
	}

	header, err := nextLine()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("graytext.ReadGrid: %w: missing header line", ErrFormat)
	}
	if err != nil {
		return nil, err
	}
	height, width, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	n := height * width
	if n/width != height {
		return nil, fmt.Errorf(
			"graytext.ReadGrid: %w: dimensions %d x %d overflow",
			ErrFormat,
			height,
			width,
		)
	}
	pix := make([]uint8, 0, min(n, maxPreallocPixels))
	count := 0
	for {
		line, err := nextLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, field := range strings.Fields(line) {
			v, err := strconv.ParseUint(field, 10, 8)
			if err != nil {
				return nil, fmt.Errorf(
					"graytext.ReadGrid: %w: line %d: value %q is not an integer in [0, 255]",
					ErrFormat,
					lineNum,
					field,
				)
			}
			count++
			if count <= n {
				pix = append(pix, uint8(v))
			}
		}
	}
	if count != n {
		return nil, fmt.Errorf(
			"graytext.ReadGrid: %w: header declares %d x %d = %d values, got %d",
			ErrShape,
			height,
			width,
			n,
			count,
		)
	}
	return &Grid{
		Height: height,
		Width:  width,
		Pix:    pix,
	}, nil
}

func parseHeader(line string) (height, width int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf(
			"graytext.ReadGrid: %w: header must be \"<height> <width>\", got %q",
			ErrFormat,
			strings.TrimSpace(line),
		)
	}
	dims := [2]int{}
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil || v <= 0 {
			return 0, 0, fmt.Errorf(
				"graytext.ReadGrid: %w: header dimension %q is not a positive integer",
				ErrFormat,
				field,
			)
		}
		dims[i] = v
	}
	return dims[0], dims[1], nil
}
