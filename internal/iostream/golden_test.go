package iostream

import (
	"bytes"
	"testing"
)

// TestGoldenCompactString checks the compact UTF-8 string form:
// "Test Data" encodes as marker F6 FF FF FF, utf16 count 09 00 00 00,
// followed by the raw ASCII bytes.
func TestGoldenCompactString(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("Test Data")
	want := []byte{0xF6, 0xFF, 0xFF, 0xFF, 0x09, 0x00, 0x00, 0x00}
	want = append(want, []byte("Test Data")...)
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("WriteString(%q) = % x, want % x", "Test Data", w.Bytes(), want)
	}

	r := NewReader(w.Bytes())
	got, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString error: %v", err)
	}
	if got != "Test Data" {
		t.Fatalf("ReadString() = %q, want %q", got, "Test Data")
	}
	if r.Remaining() != 0 {
		t.Fatalf("ReadString left %d residue bytes", r.Remaining())
	}
}

func TestGoldenEmptyAndAbsentString(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("")
	if !bytes.Equal(w.Bytes(), []byte{0x00, 0x00, 0x00, 0x00}) {
		t.Fatalf("WriteString(\"\") = % x", w.Bytes())
	}

	w2 := NewWriter(0)
	w2.WriteNullableString("", false)
	if !bytes.Equal(w2.Bytes(), []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("WriteNullableString(absent) = % x", w2.Bytes())
	}

	r := NewReader(w2.Bytes())
	_, ok, err := r.ReadNullableString()
	if err != nil {
		t.Fatalf("ReadNullableString error: %v", err)
	}
	if ok {
		t.Fatalf("ReadNullableString reported present for absent marker")
	}
}

func TestGoldenLegacyUTF16Decode(t *testing.T) {
	// "Hi" as legacy UTF-16: marker = 2 (two code units), then 'H','i' as
	// little-endian uint16 each.
	w := NewWriter(0)
	w.WriteI32(2)
	w.WriteU16('H')
	w.WriteU16('i')

	r := NewReader(w.Bytes())
	got, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString error: %v", err)
	}
	if got != "Hi" {
		t.Fatalf("ReadString() = %q, want %q", got, "Hi")
	}
}

func TestBorrowStringRejectsUTF16(t *testing.T) {
	w := NewWriter(0)
	w.WriteI32(2)
	w.WriteU16('H')
	w.WriteU16('i')

	r := NewReader(w.Bytes())
	_, _, err := r.BorrowString()
	if err == nil {
		t.Fatal("BorrowString accepted legacy UTF-16 form, want error")
	}
}

func TestGoldenBoolOnlyLiteralOneIsTrue(t *testing.T) {
	cases := []struct {
		b    byte
		want bool
	}{
		{0x00, false},
		{0x01, true},
		{0x02, false},
		{0xFF, false},
	}
	for _, tc := range cases {
		r := NewReader([]byte{tc.b})
		got, err := r.ReadBool()
		if err != nil {
			t.Fatalf("ReadBool(%x) error: %v", tc.b, err)
		}
		if got != tc.want {
			t.Errorf("ReadBool(%x) = %v, want %v", tc.b, got, tc.want)
		}
	}
}

func TestGoldenFixedWidthRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.WriteI32(42)
	w.WriteF64(3.14159)
	w.WriteBool(true)

	want := []byte{0x2A, 0x00, 0x00, 0x00}
	want = append(want, 0x6E, 0x86, 0x1B, 0xF0, 0xF9, 0x21, 0x09, 0x40)
	want = append(want, 0x01)
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("encoded = % x, want % x", w.Bytes(), want)
	}

	r := NewReader(w.Bytes())
	i, _ := r.ReadI32()
	f, _ := r.ReadF64()
	b, _ := r.ReadBool()
	if i != 42 || f != 3.14159 || b != true {
		t.Fatalf("round trip = (%d, %v, %v)", i, f, b)
	}
}

func TestReservePatchAndSplice(t *testing.T) {
	w := NewWriter(0)
	off := w.ReserveBytes(2)
	w.WriteU8(0xAA)
	w.PatchByte(off, 0x11)
	w.PatchByte(off+1, 0x22)
	if !bytes.Equal(w.Bytes(), []byte{0x11, 0x22, 0xAA}) {
		t.Fatalf("after patch = % x", w.Bytes())
	}

	w.Splice(1, []byte{0xEE, 0xFF})
	if !bytes.Equal(w.Bytes(), []byte{0x11, 0xEE, 0xFF, 0x22, 0xAA}) {
		t.Fatalf("after splice = % x", w.Bytes())
	}
}

func TestUnexpectedEndOfBuffer(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.ReadI64(); err == nil {
		t.Fatal("ReadI64 on a 2-byte buffer succeeded, want unexpected-end error")
	}
}

func TestSkipAndRewind(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if r.Position() != 2 {
		t.Fatalf("Position() = %d, want 2", r.Position())
	}
	if err := r.Rewind(1); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	if r.Position() != 1 {
		t.Fatalf("Position() = %d, want 1", r.Position())
	}
	if err := r.Rewind(5); err == nil {
		t.Fatal("Rewind past start succeeded, want error")
	}
}
