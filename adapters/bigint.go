package adapters

import (
	"math/big"

	"github.com/aalhour/gomemorypack/internal/iostream"
)

// WriteBigInt writes v in sign-magnitude form: an i32 byte length, a sign
// bool (true for negative), then the big-endian magnitude (big.Int's own
// Bytes/SetBytes convention, which carries no sign). Zero is length 0
// plus the sign byte; -1 marks nil. This is not .NET BigInteger's
// little-endian two's-complement layout.
func WriteBigInt(w *iostream.Writer, v *big.Int) {
	if v == nil {
		w.WriteFixed32Length(-1)
		return
	}
	if v.Sign() == 0 {
		w.WriteFixed32Length(0)
		w.WriteBool(false)
		return
	}
	mag := v.Bytes()
	w.WriteFixed32Length(int32(len(mag)))
	w.WriteBool(v.Sign() < 0)
	w.AppendBytes(mag)
}

// ReadBigInt reads a value written by WriteBigInt.
func ReadBigInt(r *iostream.Reader) (*big.Int, error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	if n == 0 {
		if _, err := r.ReadBool(); err != nil {
			return nil, err
		}
		return new(big.Int), nil
	}
	neg, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	mag, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	out := new(big.Int).SetBytes(mag)
	if neg {
		out.Neg(out)
	}
	return out, nil
}
