package wireval

import (
	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
)

// MultiDimArray is a rank-N rectangular array stored flat in row-major
// order. Go has no native jagged-vs-rectangular distinction at the type
// level the way .NET does, so internal/schema uses this form only for
// fields declared as MultiDimArray[T]; nested Go arrays ([N][M]T) are
// encoded as nested length-prefixed sequences instead.
type MultiDimArray[T any] struct {
	Dims []int32
	Flat []T
}

// WriteMultiDimArray writes one byte equal to rank+1 as a header, then each
// dimension as a fixed32, then the total element count as a fixed32, then
// every element in row-major order. A header byte of 0 marks a nil array.
func WriteMultiDimArray[T any](w *iostream.Writer, a MultiDimArray[T], present bool, encode func(*iostream.Writer, T) error) error {
	if !present {
		w.WriteU8(0)
		return nil
	}
	w.WriteU8(uint8(len(a.Dims) + 1))
	for _, d := range a.Dims {
		w.WriteFixed32Length(d)
	}
	w.WriteFixed32Length(int32(len(a.Flat)))
	for _, v := range a.Flat {
		if err := encode(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadMultiDimArray reads a value written by WriteMultiDimArray, verifying
// that the declared total element count matches the product of the
// declared dimensions.
func ReadMultiDimArray[T any](r *iostream.Reader, decode func(*iostream.Reader) (T, error)) (out MultiDimArray[T], ok bool, err error) {
	header, err := r.ReadU8()
	if err != nil {
		return MultiDimArray[T]{}, false, err
	}
	if header == 0 {
		return MultiDimArray[T]{}, false, nil
	}
	rank := int(header) - 1
	dims := make([]int32, rank)
	product := int64(1)
	for i := range dims {
		d, err := r.ReadI32()
		if err != nil {
			return MultiDimArray[T]{}, false, err
		}
		dims[i] = d
		product *= int64(d)
	}
	total, err := r.ReadI32()
	if err != nil {
		return MultiDimArray[T]{}, false, err
	}
	if int64(total) != product {
		return MultiDimArray[T]{}, false, mperr.Domain("multi-dim array: declared count does not match dimension product")
	}
	flat := make([]T, 0, total)
	for i := int32(0); i < total; i++ {
		v, err := decode(r)
		if err != nil {
			return MultiDimArray[T]{}, false, err
		}
		flat = append(flat, v)
	}
	return MultiDimArray[T]{Dims: dims, Flat: flat}, true, nil
}
