package keys

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const hardenedOffset = 0x80000000

// parseDerivationPath parses a BIP-32 path string into child indices.
// Example: "m/44'/60'/0'/0/0" -> [44+H, 60+H, 0+H, 0, 0].
func parseDerivationPath(path string) ([]uint32, error) {
	if path == "" || path[0] != 'm' {
		return nil, errors.Errorf("invalid derivation path: %q", path)
	}

	rest := strings.TrimPrefix(path, "m")
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return nil, errors.Errorf("empty derivation path: %q", path)
	}

	parts := strings.Split(rest, "/")
	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'")
		part = strings.TrimSuffix(part, "'")

		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid path segment %q", part)
		}
		if n >= hardenedOffset {
			return nil, errors.Errorf("path segment %q out of range", part)
		}

		idx := uint32(n)
		if hardened {
			idx += hardenedOffset
		}
		indices = append(indices, idx)
	}

	return indices, nil
}
