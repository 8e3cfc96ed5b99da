package adapters

import (
	"time"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
)

// DateTimeKind mirrors System.DateTimeKind, packed into the top two bits
// of the .NET DateTime wire representation alongside a 62-bit tick count.
type DateTimeKind uint8

const (
	KindUnspecified DateTimeKind = iota
	KindUTC
	KindLocal
)

const (
	ticksPerSecond  = 10_000_000
	ticksEpochDelta = 621_355_968_000_000_000 // ticks between 0001-01-01 and the Unix epoch
	dateDataMask    = (1 << 62) - 1
)

// WriteDateTime writes t as a single int64: a 62-bit .NET tick count (100ns
// units since 0001-01-01) in the low bits and the DateTimeKind in the top
// two bits, exactly the packed Int64 layout .NET's DateTime.ToBinary uses.
func WriteDateTime(w *iostream.Writer, t time.Time, kind DateTimeKind) error {
	unixTicks := t.Unix()*ticksPerSecond + int64(t.Nanosecond())/100
	ticks := unixTicks + ticksEpochDelta
	if ticks < 0 || ticks > dateDataMask {
		return mperr.Domain("datetime: value outside .NET DateTime's representable range")
	}
	packed := ticks | (int64(kind) << 62)
	w.WriteI64(packed)
	return nil
}

// ReadDateTime reads a value written by WriteDateTime.
func ReadDateTime(r *iostream.Reader) (time.Time, DateTimeKind, error) {
	packed, err := r.ReadI64()
	if err != nil {
		return time.Time{}, 0, err
	}
	kind := DateTimeKind(uint64(packed) >> 62)
	ticks := packed & dateDataMask
	unixTicks := ticks - ticksEpochDelta
	sec := unixTicks / ticksPerSecond
	nsec := (unixTicks % ticksPerSecond) * 100
	loc := time.UTC
	if kind == KindLocal {
		loc = time.Local
	}
	return time.Unix(sec, nsec).In(loc), kind, nil
}
