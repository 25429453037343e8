package linear

import (
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format renders blocks as a text listing. Every block but the first gets a
// `blockN:` header; instructions are indented by two spaces.
func Format(blocks []Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			fmt.Fprintf(&b, "block%d:\n", i)
		}
		for _, insn := range block.Insns {
			b.WriteString("  ")
			b.WriteString(insn.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("linear: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeCBOR serializes blocks to canonical CBOR. Equal listings encode to
// equal bytes.
func EncodeCBOR(blocks []Block) ([]byte, error) {
	return cborEncMode.Marshal(blocks)
}

// DecodeCBOR deserializes blocks written by EncodeCBOR. Integer immediates
// come back as int64 or uint64.
func DecodeCBOR(data []byte) ([]Block, error) {
	var blocks []Block
	if err := cbor.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("linear: unmarshal blocks: %w", err)
	}
	return blocks, nil
}

// Listing is the compiled form of one named graph.
type Listing struct {
	Graph  string  `cbor:"graph"`
	Blocks []Block `cbor:"blocks"`
}

// Write renders listings to w in the named format. Text output puts a
// `graph NAME` line above each listing and a blank line between them. CBOR
// output is a single array of listings.
func Write(w io.Writer, format string, listings []Listing) error {
	switch format {
	case "text":
		var b strings.Builder
		for i, l := range listings {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "graph %s\n", l.Graph)
			b.WriteString(Format(l.Blocks))
		}
		_, err := io.WriteString(w, b.String())
		return err
	case "cbor":
		data, err := cborEncMode.Marshal(listings)
		if err != nil {
			return fmt.Errorf("linear: marshal listings: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// ReadListings decodes the CBOR form written by Write.
func ReadListings(data []byte) ([]Listing, error) {
	var listings []Listing
	if err := cbor.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("linear: unmarshal listings: %w", err)
	}
	return listings, nil
}
