package shapefile

import (
	"strings"

	"golang.org/x/net/html/charset"
)

// A CPG is the character set declared by a .cpg sidecar file.
type CPG struct {
	Charset string
}

// ParseCPG parses a .cpg file's contents into a canonical charset name.
func ParseCPG(data []byte) (*CPG, error) {
	enc, name := charset.Lookup(strings.ToLower(strings.TrimSpace(string(data))))
	if enc == nil {
		return nil, newError(ErrCodeDBFInvalid, "%s: unknown charset", strings.TrimSpace(string(data)))
	}
	return &CPG{
		Charset: name,
	}, nil
}
