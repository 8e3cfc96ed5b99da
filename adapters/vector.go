package adapters

import "github.com/aalhour/gomemorypack/internal/iostream"

// Vector2, Vector3, Vector4, and Quaternion mirror System.Numerics's
// fixed-size float32 structs. No grounded third-party vector-math
// library turned up anywhere in the pack, so these are plain structs
// with hand-written codecs rather than a wrapped dependency.
type Vector2 struct{ X, Y float32 }
type Vector3 struct{ X, Y, Z float32 }
type Vector4 struct{ X, Y, Z, W float32 }
type Quaternion struct{ X, Y, Z, W float32 }

func WriteVector2(w *iostream.Writer, v Vector2) { w.WriteF32(v.X); w.WriteF32(v.Y) }

func ReadVector2(r *iostream.Reader) (Vector2, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Vector2{}, err
	}
	y, err := r.ReadF32()
	return Vector2{X: x, Y: y}, err
}

func WriteVector3(w *iostream.Writer, v Vector3) {
	w.WriteF32(v.X)
	w.WriteF32(v.Y)
	w.WriteF32(v.Z)
}

func ReadVector3(r *iostream.Reader) (Vector3, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Vector3{}, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return Vector3{}, err
	}
	z, err := r.ReadF32()
	return Vector3{X: x, Y: y, Z: z}, err
}

func WriteVector4(w *iostream.Writer, v Vector4) {
	w.WriteF32(v.X)
	w.WriteF32(v.Y)
	w.WriteF32(v.Z)
	w.WriteF32(v.W)
}

func ReadVector4(r *iostream.Reader) (Vector4, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Vector4{}, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return Vector4{}, err
	}
	z, err := r.ReadF32()
	if err != nil {
		return Vector4{}, err
	}
	w4, err := r.ReadF32()
	return Vector4{X: x, Y: y, Z: z, W: w4}, err
}

func WriteQuaternion(w *iostream.Writer, q Quaternion) { WriteVector4(w, Vector4(q)) }

func ReadQuaternion(r *iostream.Reader) (Quaternion, error) {
	v, err := ReadVector4(r)
	return Quaternion(v), err
}
