package vm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// ForkName maps the fork rules active at the given block onto a short name.
// It is only used for diagnostics.
func ForkName(cfg *params.ChainConfig, num uint64, ts uint64) string {
	bn := new(big.Int).SetUint64(num)
	switch {
	case cfg.IsOsaka(bn, ts):
		return "osaka"
	case cfg.IsPrague(bn, ts):
		return "prague"
	case cfg.IsCancun(bn, ts):
		return "cancun"
	case cfg.IsShanghai(bn, ts):
		return "shanghai"
	case cfg.IsLondon(bn):
		if cfg.IsGrayGlacier(bn) {
			return "grayglacier"
		}
		if cfg.IsArrowGlacier(bn) {
			return "arrowglacier"
		}
		return "london"
	case cfg.IsBerlin(bn):
		return "berlin"
	case cfg.IsIstanbul(bn):
		return "istanbul"
	case cfg.IsPetersburg(bn):
		return "petersburg"
	case cfg.IsConstantinople(bn):
		return "constantinople"
	case cfg.IsByzantium(bn):
		return "byzantium"
	case cfg.IsEIP158(bn):
		return "spuriousdragon"
	case cfg.IsEIP150(bn):
		return "tangerinewhistle"
	case cfg.IsHomestead(bn):
		return "homestead"
	default:
		return "frontier"
	}
}
