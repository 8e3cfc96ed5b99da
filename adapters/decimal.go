package adapters

import (
	"encoding/binary"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
)

// decimal's wire layout mirrors .NET's System.Decimal: four little-endian
// uint32 words (lo, mid, hi, flags), where flags packs the scale (bits
// 16-23, 0..28) and the sign (bit 31), and the unscaled 96-bit magnitude
// is lo|mid<<32|hi<<64.
const maxDecimalScale = 28

// WriteDecimal writes d using .NET's four-uint32 decimal layout.
func WriteDecimal(w *iostream.Writer, d decimal.Decimal) error {
	scale := -d.Exponent()
	if scale < 0 || scale > maxDecimalScale {
		return mperr.Domain("decimal: exponent out of .NET decimal's representable scale range")
	}
	coeff := d.Coefficient()
	neg := coeff.Sign() < 0
	mag := new(big.Int).Abs(coeff)
	if mag.BitLen() > 96 {
		return mperr.Domain("decimal: magnitude exceeds 96 bits")
	}

	var buf [12]byte
	mag.FillBytes(buf[:]) // big-endian 96-bit magnitude
	hi := binary.BigEndian.Uint32(buf[0:4])
	mid := binary.BigEndian.Uint32(buf[4:8])
	lo := binary.BigEndian.Uint32(buf[8:12])

	var flags uint32
	flags = uint32(scale) << 16
	if neg {
		flags |= 0x80000000
	}

	w.WriteU32(lo)
	w.WriteU32(mid)
	w.WriteU32(hi)
	w.WriteU32(flags)
	return nil
}

// ReadDecimal reads a value written by WriteDecimal.
func ReadDecimal(r *iostream.Reader) (decimal.Decimal, error) {
	lo, err := r.ReadU32()
	if err != nil {
		return decimal.Decimal{}, err
	}
	mid, err := r.ReadU32()
	if err != nil {
		return decimal.Decimal{}, err
	}
	hi, err := r.ReadU32()
	if err != nil {
		return decimal.Decimal{}, err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return decimal.Decimal{}, err
	}

	scale := int32((flags >> 16) & 0xFF)
	neg := flags&0x80000000 != 0

	mag := new(big.Int).SetUint64(uint64(hi))
	mag.Lsh(mag, 32)
	mag.Or(mag, new(big.Int).SetUint64(uint64(mid)))
	mag.Lsh(mag, 32)
	mag.Or(mag, new(big.Int).SetUint64(uint64(lo)))
	if neg {
		mag.Neg(mag)
	}

	return decimal.NewFromBigInt(mag, -scale), nil
}
