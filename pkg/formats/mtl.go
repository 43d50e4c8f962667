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

// ErrMalformedMTL is returned for unparsable material statements.
var ErrMalformedMTL = errors.New("malformed MTL data")

// MTLMaterial holds the Phong coefficients of one newmtl block.
type MTLMaterial struct {
	Name       string
	Ambient    [3]float32 // Ka
	Diffuse    [3]float32 // Kd
	Specular   [3]float32 // Ks
	Shininess  float32    // Ns
	Dissolve   float32    // d (1 = opaque)
	DiffuseMap string     // map_Kd, relative to the MTL file
}

// MTL is a parsed material library, in declaration order.
type MTL struct {
	Materials []*MTLMaterial
}

// Get returns the named material, or nil.
func (m *MTL) Get(name string) *MTLMaterial {
	for _, mat := range m.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// LoadMTL opens and parses an MTL file.
func LoadMTL(path string) (*MTL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseMTL(f)
}

// ParseMTL parses material library text. Unknown statements are ignored.
func ParseMTL(r io.Reader) (*MTL, error) {
	mtl := &MTL{}
	var cur *MTLMaterial

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("mtl line %d: newmtl without name: %w", line, ErrMalformedMTL)
			}
			cur = &MTLMaterial{Name: fields[1], Dissolve: 1}
			mtl.Materials = append(mtl.Materials, cur)
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch fields[0] {
		case "Ka":
			cur.Ambient, err = parseRGB(fields[1:])
		case "Kd":
			cur.Diffuse, err = parseRGB(fields[1:])
		case "Ks":
			cur.Specular, err = parseRGB(fields[1:])
		case "Ns":
			cur.Shininess, err = parseScalar(fields[1:])
		case "d":
			cur.Dissolve, err = parseScalar(fields[1:])
		case "map_Kd":
			if len(fields) > 1 {
				// Options such as -s/-o precede the file name; the name is last.
				cur.DiffuseMap = fields[len(fields)-1]
			}
		}
		if err != nil {
			return nil, fmt.Errorf("mtl line %d: %s: %w", line, fields[0], err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL: %w", err)
	}
	return mtl, nil
}

func parseRGB(tokens []string) ([3]float32, error) {
	var out [3]float32
	if len(tokens) < 3 {
		return out, ErrMalformedMTL
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return out, ErrMalformedMTL
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseScalar(tokens []string) (float32, error) {
	if len(tokens) < 1 {
		return 0, ErrMalformedMTL
	}
	f, err := strconv.ParseFloat(tokens[0], 32)
	if err != nil {
		return 0, ErrMalformedMTL
	}
	return float32(f), nil
}
