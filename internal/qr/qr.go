// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package qr generates QR code module matrices for the info panel's URL
// display. Byte mode, error correction level L, versions 1 through 4 —
// enough for the admin URLs the kiosk shows, nothing more. The matrix is
// generated once per URL change and rendered by the UI as a grid of black
// squares on a white background.
package qr

import "fmt"

// version capacities at error correction level L. Single block each, so
// no codeword interleaving is needed.
var versions = []struct {
	version  int
	size     int // modules per side: 17 + 4*version.
	data     int // data codewords.
	ec       int // error correction codewords.
	align    int // alignment pattern center, 0 for none.
}{
	{1, 21, 19, 7, 0},
	{2, 25, 34, 10, 18},
	{3, 29, 55, 15, 22},
	{4, 33, 80, 20, 26},
}

// formatInfo holds the 8 pre-computed 15-bit BCH format patterns for error
// correction level L, indexed by mask pattern.
var formatInfo = [8]uint16{
	0x77c4, 0x72f3, 0x7daa, 0x789d, 0x662f, 0x6318, 0x6c41, 0x6976,
}

// Encode returns the module matrix for text, true meaning a dark module.
// Text longer than version 4's byte capacity is an error.
func Encode(text string) ([][]bool, error) {
	data := []byte(text)
	vi := -1
	for i, v := range versions {
		if len(data) <= v.data-2 { // mode+count overhead rounds to 2 bytes.
			vi = i
			break
		}
	}
	if vi < 0 {
		return nil, fmt.Errorf("qr: %d bytes exceeds version 4 capacity", len(data))
	}
	v := versions[vi]

	codewords := buildCodewords(data, v.data)
	codewords = append(codewords, rsEncode(codewords, v.ec)...)

	m := newMatrix(v.size)
	m.placeFunctionPatterns(v.align)
	m.placeData(codewords)
	mask := m.chooseMask()
	m.applyMask(mask)
	m.placeFormat(formatInfo[mask])
	return m.modules, nil
}

// buildCodewords packs the byte-mode segment with terminator and pad
// bytes into exactly capacity codewords.
func buildCodewords(data []byte, capacity int) []byte {
	bits := newBitWriter()
	bits.write(0b0100, 4)          // byte mode.
	bits.write(uint(len(data)), 8) // character count, 8 bits through version 9.
	for _, b := range data {
		bits.write(uint(b), 8)
	}
	// terminator, up to 4 zero bits, then byte-align.
	remaining := capacity*8 - bits.length
	if remaining > 4 {
		remaining = 4
	}
	bits.write(0, remaining)
	if pad := bits.length % 8; pad != 0 {
		bits.write(0, 8-pad)
	}
	// alternating pad bytes to fill capacity.
	pads := [2]uint{0xEC, 0x11}
	for i := 0; len(bits.bytes) < capacity; i++ {
		bits.write(pads[i%2], 8)
	}
	return bits.bytes
}

// =============================================================================
// bit writer.

type bitWriter struct {
	bytes  []byte
	length int // bits written.
}

func newBitWriter() *bitWriter { return &bitWriter{} }

func (w *bitWriter) write(value uint, bits int) {
	for i := bits - 1; i >= 0; i-- {
		if w.length%8 == 0 {
			w.bytes = append(w.bytes, 0)
		}
		if value&(1<<uint(i)) != 0 {
			w.bytes[w.length/8] |= 0x80 >> uint(w.length%8)
		}
		w.length++
	}
}

// =============================================================================
// Reed-Solomon over GF(256) with the QR polynomial 0x11D.

var gfExp [512]byte
var gfLog [256]byte

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = byte(i)
		x <<= 1
		if x >= 256 {
			x ^= 0x11D
		}
	}
	for i := 255; i < 512; i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

// rsEncode returns ecLen error correction codewords for data.
func rsEncode(data []byte, ecLen int) []byte {
	// generator polynomial (x-a^0)(x-a^1)...(x-a^(ecLen-1)).
	gen := make([]byte, 1, ecLen+1)
	gen[0] = 1
	for i := 0; i < ecLen; i++ {
		next := make([]byte, len(gen)+1)
		for j, g := range gen {
			next[j] ^= gfMul(g, gfExp[i])
			next[j+1] ^= g
		}
		gen = next
	}
	// polynomial long division remainder.
	rem := make([]byte, ecLen)
	for _, d := range data {
		factor := d ^ rem[0]
		copy(rem, rem[1:])
		rem[ecLen-1] = 0
		for j := 0; j < ecLen; j++ {
			rem[j] ^= gfMul(gen[len(gen)-2-j], factor)
		}
	}
	return rem
}

// =============================================================================
// matrix layout.

type matrix struct {
	size     int
	modules  [][]bool
	reserved [][]bool // function pattern and format areas.
}

func newMatrix(size int) *matrix {
	m := &matrix{size: size}
	m.modules = make([][]bool, size)
	m.reserved = make([][]bool, size)
	for i := range m.modules {
		m.modules[i] = make([]bool, size)
		m.reserved[i] = make([]bool, size)
	}
	return m
}

func (m *matrix) set(row, col int, dark bool) {
	m.modules[row][col] = dark
	m.reserved[row][col] = true
}

// placeFunctionPatterns draws finders, separators, timing lines, the dark
// module, the alignment pattern, and reserves the format areas.
func (m *matrix) placeFunctionPatterns(align int) {
	m.placeFinder(0, 0)
	m.placeFinder(0, m.size-7)
	m.placeFinder(m.size-7, 0)

	// timing patterns.
	for i := 8; i < m.size-8; i++ {
		dark := i%2 == 0
		if !m.reserved[6][i] {
			m.set(6, i, dark)
		}
		if !m.reserved[i][6] {
			m.set(i, 6, dark)
		}
	}

	// single alignment pattern for versions 2-4, skipped when overlapping
	// a finder (never happens for these versions at center (align,align)).
	if align > 0 {
		for r := -2; r <= 2; r++ {
			for c := -2; c <= 2; c++ {
				dark := r == -2 || r == 2 || c == -2 || c == 2 || (r == 0 && c == 0)
				m.set(align+r, align+c, dark)
			}
		}
	}

	// dark module.
	m.set(m.size-8, 8, true)

	// reserve format information areas around the finders.
	for i := 0; i <= 8; i++ {
		if !m.reserved[8][i] {
			m.set(8, i, false)
		}
		if !m.reserved[i][8] {
			m.set(i, 8, false)
		}
	}
	for i := 0; i < 8; i++ {
		if !m.reserved[8][m.size-1-i] {
			m.set(8, m.size-1-i, false)
		}
		if !m.reserved[m.size-1-i][8] {
			m.set(m.size-1-i, 8, false)
		}
	}
}

// placeFinder draws one 7x7 finder pattern with its separator border.
func (m *matrix) placeFinder(row, col int) {
	for r := -1; r <= 7; r++ {
		for c := -1; c <= 7; c++ {
			rr, cc := row+r, col+c
			if rr < 0 || rr >= m.size || cc < 0 || cc >= m.size {
				continue
			}
			outer := r == 0 || r == 6 || c == 0 || c == 6
			inner := r >= 2 && r <= 4 && c >= 2 && c <= 4
			border := r == -1 || r == 7 || c == -1 || c == 7
			m.set(rr, cc, !border && (outer || inner))
		}
	}
}

// placeData fills the unreserved modules with codeword bits in the
// standard upward/downward zigzag, skipping the vertical timing column.
func (m *matrix) placeData(codewords []byte) {
	bit := 0
	total := len(codewords) * 8
	upward := true
	for col := m.size - 1; col > 0; col -= 2 {
		if col == 6 {
			col-- // the vertical timing column is skipped entirely.
		}
		for i := 0; i < m.size; i++ {
			row := i
			if upward {
				row = m.size - 1 - i
			}
			for _, c := range [2]int{col, col - 1} {
				if m.reserved[row][c] {
					continue
				}
				dark := false
				if bit < total {
					dark = codewords[bit/8]&(0x80>>uint(bit%8)) != 0
				}
				m.modules[row][c] = dark
				bit++
			}
		}
		upward = !upward
	}
}

// applyMask inverts data modules selected by the mask predicate.
func (m *matrix) applyMask(mask int) {
	for r := 0; r < m.size; r++ {
		for c := 0; c < m.size; c++ {
			if m.reserved[r][c] {
				continue
			}
			if maskBit(mask, r, c) {
				m.modules[r][c] = !m.modules[r][c]
			}
		}
	}
}

func maskBit(mask, r, c int) bool {
	switch mask {
	case 0:
		return (r+c)%2 == 0
	case 1:
		return r%2 == 0
	case 2:
		return c%3 == 0
	case 3:
		return (r+c)%3 == 0
	case 4:
		return (r/2+c/3)%2 == 0
	case 5:
		return (r*c)%2+(r*c)%3 == 0
	case 6:
		return ((r*c)%2+(r*c)%3)%2 == 0
	default:
		return ((r+c)%2+(r*c)%3)%2 == 0
	}
}

// chooseMask scores all eight masks with the standard penalty rules and
// returns the lowest scoring one.
func (m *matrix) chooseMask() int {
	best, bestScore := 0, int(^uint(0)>>1)
	for mask := 0; mask < 8; mask++ {
		m.applyMask(mask)
		score := m.penalty()
		m.applyMask(mask) // masks are self-inverse.
		if score < bestScore {
			best, bestScore = mask, score
		}
	}
	return best
}

// penalty applies the four standard scoring rules: runs, 2x2 blocks,
// finder-like sequences, and dark/light balance.
func (m *matrix) penalty() (score int) {
	n := m.size

	// rule 1: runs of 5+ same-coloured modules in rows and columns.
	for r := 0; r < n; r++ {
		runRow, runCol := 1, 1
		for c := 1; c < n; c++ {
			if m.modules[r][c] == m.modules[r][c-1] {
				runRow++
				if runRow == 5 {
					score += 3
				} else if runRow > 5 {
					score++
				}
			} else {
				runRow = 1
			}
			if m.modules[c][r] == m.modules[c-1][r] {
				runCol++
				if runCol == 5 {
					score += 3
				} else if runCol > 5 {
					score++
				}
			} else {
				runCol = 1
			}
		}
	}

	// rule 2: 2x2 blocks of the same colour.
	for r := 0; r < n-1; r++ {
		for c := 0; c < n-1; c++ {
			v := m.modules[r][c]
			if m.modules[r][c+1] == v && m.modules[r+1][c] == v && m.modules[r+1][c+1] == v {
				score += 3
			}
		}
	}

	// rule 3: finder-like 1:1:3:1:1 sequences with light borders.
	pattern := [11]bool{true, false, true, true, true, false, true, false, false, false, false}
	matches := func(get func(i int) bool) bool {
		fwd, rev := true, true
		for i := 0; i < 11; i++ {
			if get(i) != pattern[i] {
				fwd = false
			}
			if get(i) != pattern[10-i] {
				rev = false
			}
		}
		return fwd || rev
	}
	for r := 0; r < n; r++ {
		for c := 0; c+11 <= n; c++ {
			rr, cc := r, c
			if matches(func(i int) bool { return m.modules[rr][cc+i] }) {
				score += 40
			}
			if matches(func(i int) bool { return m.modules[cc+i][rr] }) {
				score += 40
			}
		}
	}

	// rule 4: dark module balance in 5% steps away from 50%.
	dark := 0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if m.modules[r][c] {
				dark++
			}
		}
	}
	percent := dark * 100 / (n * n)
	dev := percent - 50
	if dev < 0 {
		dev = -dev
	}
	score += dev / 5 * 10
	return score
}

// placeFormat writes the 15 format bits into both reserved format areas.
func (m *matrix) placeFormat(bits uint16) {
	get := func(i int) bool { return bits&(1<<uint(14-i)) != 0 }

	// around the top-left finder.
	for i := 0; i < 15; i++ {
		switch {
		case i < 6:
			m.modules[8][i] = get(i)
		case i == 6:
			m.modules[8][7] = get(i)
		case i == 7:
			m.modules[8][8] = get(i)
		case i == 8:
			m.modules[7][8] = get(i)
		default:
			m.modules[14-i][8] = get(i)
		}
	}

	// split copy: below the top-right finder and beside the bottom-left.
	for i := 0; i < 7; i++ {
		m.modules[m.size-1-i][8] = get(i)
	}
	for i := 7; i < 15; i++ {
		m.modules[8][m.size-15+i] = get(i)
	}
}
