package types

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FormatHash renders a 64-bit header hash or root as 0x-prefixed hex.
func FormatHash(h uint64) string {
	return hexutil.EncodeUint64(h)
}

// ParseUint parses a 0x-prefixed hex or plain decimal unsigned integer.
func ParseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.DecodeUint64("0x" + s[2:])
	}
	return strconv.ParseUint(s, 10, 64)
}
