package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// ErrInvalidShareCode is returned for any code that cannot be decoded.
var ErrInvalidShareCode = errors.New("codec: invalid share code")

// maxShareCodeBytes bounds the decompressed size of a share code.
const maxShareCodeBytes = 8 << 20

var (
	encoderOnce = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	})
	decoderOnce = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxShareCodeBytes))
	})
)

// EncodeShareCode packs a document into a printable code:
// compact JSON, zstd-compressed, standard base64.
func EncodeShareCode(doc *mapdoc.Document) (string, error) {
	raw, err := json.Marshal(ToFile(doc))
	if err != nil {
		return "", fmt.Errorf("codec: cannot encode share code: %w", err)
	}
	enc, err := encoderOnce()
	if err != nil {
		return "", fmt.Errorf("codec: cannot encode share code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(enc.EncodeAll(raw, nil)), nil
}

// DecodeShareCode is the inverse of EncodeShareCode. On any failure it
// returns a nil document and an error wrapping ErrInvalidShareCode.
func DecodeShareCode(code string) (*mapdoc.Document, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidShareCode)
	}
	compressed, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShareCode, err)
	}
	dec, err := decoderOnce()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShareCode, err)
	}
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShareCode, err)
	}
	f, err := decodeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShareCode, err)
	}
	return f.Document(), nil
}
