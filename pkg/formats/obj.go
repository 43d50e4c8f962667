package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ data")
	ErrLineTooLong  = errors.New("OBJ line exceeds maximum length")
)

// MaxOBJLineLength is the longest line the scanner accepts.
const MaxOBJLineLength = 1 << 20

// NoIndex marks a face corner sub-index that was omitted in the source.
const NoIndex = -1

// OBJErrorKind classifies a parse anomaly.
type OBJErrorKind int

// Parse anomaly kinds.
const (
	OBJBadNumber     OBJErrorKind = iota // Token is not a valid float or integer
	OBJMissingValue                      // Too few components on a v/vt/vn line
	OBJBadFace                           // Face does not have exactly three corners
	OBJIndexRange                        // Index is zero, negative or past the table end
)

// String returns a human-readable kind name.
func (k OBJErrorKind) String() string {
	switch k {
	case OBJBadNumber:
		return "bad number"
	case OBJMissingValue:
		return "missing value"
	case OBJBadFace:
		return "bad face"
	case OBJIndexRange:
		return "index out of range"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseError describes a single anomaly in an OBJ stream.
type ParseError struct {
	Line int
	Kind OBJErrorKind
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj line %d: %s: %s", e.Line, e.Kind, e.Msg)
}

// Unwrap lets errors.Is match ErrMalformedOBJ.
func (e *ParseError) Unwrap() error {
	return ErrMalformedOBJ
}

// OBJIndex is one face corner resolved to 0-based table indices.
// Omitted sub-indices are NoIndex.
type OBJIndex struct {
	Position int
	TexCoord int
	Normal   int
}

// HasTexCoord reports whether the corner references a texture coordinate.
func (i OBJIndex) HasTexCoord() bool { return i.TexCoord != NoIndex }

// HasNormal reports whether the corner references a normal.
func (i OBJIndex) HasNormal() bool { return i.Normal != NoIndex }

// OBJFace is a triangle.
type OBJFace [3]OBJIndex

// OBJ holds the tables and faces of a single OBJ file.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Faces     []OBJFace

	MaterialLib string // First mtllib seen
	Material    string // First usemtl seen

	// Warnings collects skipped lines when parsing leniently.
	Warnings []string
}

// OBJOptions controls OBJ parsing.
type OBJOptions struct {
	// Lenient skips anomalous lines (recording a warning) instead of failing.
	Lenient bool
}

// LoadOBJ opens and parses an OBJ file.
func LoadOBJ(path string, opts OBJOptions) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseOBJ(f, opts)
}

// ParseOBJ parses OBJ text. Tables are local to the call.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	p := &objParser{obj: &OBJ{}, opts: opts}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxOBJLineLength)

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			var perr *ParseError
			if opts.Lenient && errors.As(err, &perr) {
				p.obj.Warnings = append(p.obj.Warnings, perr.Error())
				continue
			}
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d: %w", p.line+1, ErrLineTooLong)
		}
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return p.obj, nil
}

type objParser struct {
	obj  *OBJ
	opts OBJOptions
	line int
}

func (p *objParser) errorf(kind OBJErrorKind, format string, args ...any) error {
	return &ParseError{Line: p.line, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := p.parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := p.parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		p.obj.TexCoords = append(p.obj.TexCoords, [2]float32{v[0], v[1]})
	case "vn":
		v, err := p.parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return p.parseFace(fields[1:])
	case "mtllib":
		if p.obj.MaterialLib == "" && len(fields) > 1 {
			p.obj.MaterialLib = strings.Join(fields[1:], " ")
		}
	case "usemtl":
		if p.obj.Material == "" && len(fields) > 1 {
			p.obj.Material = fields[1]
		}
	}
	// o, g, s and anything else carry nothing the viewer uses.
	return nil
}

// parseFloats reads exactly n leading floats; extra components (w, third vt) are ignored.
func (p *objParser) parseFloats(tokens []string, n int) ([]float32, error) {
	if len(tokens) < n {
		return nil, p.errorf(OBJMissingValue, "expected %d values, got %d", n, len(tokens))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return nil, p.errorf(OBJBadNumber, "%q", tokens[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func (p *objParser) parseFace(tokens []string) error {
	if len(tokens) != 3 {
		return p.errorf(OBJBadFace, "expected 3 corners, got %d (only triangles are supported)", len(tokens))
	}

	var face OBJFace
	for i, tok := range tokens {
		idx, err := p.parseCorner(tok)
		if err != nil {
			return err
		}
		face[i] = idx
	}
	p.obj.Faces = append(p.obj.Faces, face)
	return nil
}

// parseCorner resolves "p", "p/t", "p//n" or "p/t/n" against the tables read so far.
func (p *objParser) parseCorner(tok string) (OBJIndex, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return OBJIndex{}, p.errorf(OBJBadFace, "corner %q has too many components", tok)
	}

	idx := OBJIndex{Position: NoIndex, TexCoord: NoIndex, Normal: NoIndex}

	var err error
	if idx.Position, err = p.resolve(parts[0], len(p.obj.Positions), "position"); err != nil {
		return idx, err
	}
	if idx.Position == NoIndex {
		return idx, p.errorf(OBJBadFace, "corner %q has no position index", tok)
	}
	if len(parts) > 1 {
		if idx.TexCoord, err = p.resolve(parts[1], len(p.obj.TexCoords), "texcoord"); err != nil {
			return idx, err
		}
	}
	if len(parts) > 2 {
		if idx.Normal, err = p.resolve(parts[2], len(p.obj.Normals), "normal"); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// resolve converts a 1-based index into a 0-based one. An empty token is NoIndex.
func (p *objParser) resolve(tok string, tableLen int, table string) (int, error) {
	if tok == "" {
		return NoIndex, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return NoIndex, p.errorf(OBJBadNumber, "%s index %q", table, tok)
	}
	if n < 1 || n > tableLen {
		return NoIndex, p.errorf(OBJIndexRange, "%s index %d (have %d)", table, n, tableLen)
	}
	return n - 1, nil
}

// UsesTexCoords reports whether any face corner references a texture coordinate.
func (o *OBJ) UsesTexCoords() bool {
	for _, f := range o.Faces {
		for _, c := range f {
			if c.HasTexCoord() {
				return true
			}
		}
	}
	return false
}

// UsesNormals reports whether any face corner references a normal.
func (o *OBJ) UsesNormals() bool {
	for _, f := range o.Faces {
		for _, c := range f {
			if c.HasNormal() {
				return true
			}
		}
	}
	return false
}
