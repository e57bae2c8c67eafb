package opcode

import "testing"

func TestAssemblerEmit(t *testing.T) {
	tests := []struct {
		name     string
		build    func(a *Assembler) *Assembler
		expected []byte
	}{
		{
			"no-operand instruction",
			func(a *Assembler) *Assembler { return a.Emit(PushTrue) },
			[]byte{Default.byteFor(t, PushTrue)},
		},
		{
			"word-operand instruction",
			func(a *Assembler) *Assembler { return a.EmitWord(Jump, -12) },
			[]byte{Default.byteFor(t, Jump), 0xff, 0xf4},
		},
		{
			"object specifier sub-operation",
			func(a *Assembler) *Assembler { return a.EmitSub(GetEvery) },
			[]byte{byte(objectSpecifierBase + 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build(NewAssembler(nil)).Bytes()
			if len(got) != len(tt.expected) {
				t.Fatalf("wrong length - got: %d, want: %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("byte %d - got: %#x, want: %#x", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

// byteFor is a test helper exposing the private byteOf lookup so
// table-driven cases can assert against the table without hard-coding
// byte assignments.
func (tbl *Table) byteFor(t *testing.T, m Mnemonic) byte {
	t.Helper()
	for i, cur := range tbl {
		if cur == m {
			return byte(i)
		}
	}
	t.Fatalf("mnemonic %s not assigned in table", m)
	return 0
}

func TestSubOpFor(t *testing.T) {
	tests := []struct {
		b      byte
		want   SubOp
		wantOk bool
	}{
		{byte(objectSpecifierBase), GetPositionEnd, true},
		{byte(objectSpecifierBase + 7), GetRange, true},
		{byte(objectSpecifierBase + 8), "", false},
	}
	for _, tt := range tests {
		got, ok := SubOpFor(tt.b)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("SubOpFor(%d) = %q, %v; want %q, %v", tt.b, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestWord(t *testing.T) {
	a := NewAssembler(nil).EmitWord(Jump, -1)
	got := Word(a.Bytes(), 1)
	if got != -1 {
		t.Errorf("Word() = %d, want -1", got)
	}
}
