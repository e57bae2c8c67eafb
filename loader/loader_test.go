package loader

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, root Sequence) Sequence {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return got
}

func TestRoundTripFunctionRecord(t *testing.T) {
	record := Sequence{
		StringScalar("handleIt"),
		IntScalar(0),
		Sequence{StringScalar("x")},
		IntScalar(0),
		Sequence{},
		Sequence{IntScalar(1)},
		BytesScalar{0x01, 0x02, 0x03},
	}
	root := Sequence{IntScalar(0), IntScalar(0), record}

	got := roundTrip(t, root)
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}

	fr, ok := AsFunctionRecord(got[2].(Sequence))
	if !ok {
		t.Fatal("AsFunctionRecord() = false, want true")
	}
	name, ok := fr.Name()
	if !ok || name != "handleIt" {
		t.Errorf("Name() = %q, %v; want %q, true", name, ok, "handleIt")
	}
	code, ok := fr.Code()
	if !ok || !bytes.Equal(code, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("Code() = %v, %v; want [1 2 3], true", code, ok)
	}
}

func TestAsFunctionRecordRejectsShortSequence(t *testing.T) {
	if _, ok := AsFunctionRecord(Sequence{StringScalar("x")}); ok {
		t.Error("AsFunctionRecord() = true for a sequence below MinFunctionFields")
	}
}
