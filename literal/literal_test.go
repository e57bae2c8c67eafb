package literal

import (
	"testing"

	"asdecompile/ast"
)

func TestConvertConstant(t *testing.T) {
	got, err := Convert(Entry{Kind: Constant, Number: int64(0x61736372)}) // "ascr"
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	kw, ok := got.(*ast.Keyword)
	if !ok {
		t.Fatalf("Convert() = %T, want *ast.Keyword", got)
	}
	if kw.Value != "ascr" {
		t.Errorf("Keyword.Value = %q, want %q", kw.Value, "ascr")
	}
}

func TestConvertConstantTrimsLeadingZeroBytes(t *testing.T) {
	got, err := Convert(Entry{Kind: Constant, Number: 0x00006162}) // "ab" with leading NULs
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	kw := got.(*ast.Keyword)
	if kw.Value != "ab" {
		t.Errorf("Keyword.Value = %q, want %q", kw.Value, "ab")
	}
}

func TestConvertFixnum(t *testing.T) {
	got, err := Convert(Entry{Kind: Fixnum, Number: 42})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if n, ok := got.(*ast.NumberLiteral); !ok || n.Value != 42 {
		t.Errorf("Convert() = %#v, want NumberLiteral{42}", got)
	}
}

func TestConvertByteString(t *testing.T) {
	got, err := Convert(Entry{Kind: ByteString, Bytes: []byte("hello")})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if s, ok := got.(*ast.StringLiteral); !ok || s.Value != "hello" {
		t.Errorf("Convert() = %#v, want StringLiteral{hello}", got)
	}
}

func TestConvertUTF16String(t *testing.T) {
	// "Hi" as big-endian UTF-16 code units.
	b := []byte{0x00, 'H', 0x00, 'i'}
	got, err := Convert(Entry{Kind: UTF16String, Bytes: b})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if s, ok := got.(*ast.StringLiteral); !ok || s.Value != "Hi" {
		t.Errorf("Convert() = %#v, want StringLiteral{Hi}", got)
	}
}

// A version-2 alias payload carries no length prefix: the name region
// starting at aliasNameOffset is a raw byte run terminated by the
// literal substring ".app", followed by whatever trailing alias-
// record bytes (volume info, CNID chain, etc.) happen to come next.
// This mirrors a real mac-alias record rather than a format invented
// to fit the implementation.
func TestConvertAliasVersion2(t *testing.T) {
	payload := make([]byte, aliasNameOffset)
	payload = append(payload, []byte("Finder.app")...)
	payload = append(payload, 0x00, 0x02, 0x48, 0x2b, 0x00, 0x00, 0x00, 0x00)

	got, err := Convert(Entry{Kind: AliasDescriptor, AliasVersion: 2, Bytes: payload})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if v, ok := got.(*ast.VarRef); !ok || v.Name != "Finder" {
		t.Errorf("Convert() = %#v, want VarRef{Finder}", got)
	}
}

// Non-version-2/3 aliases fall back to a POSIX-ish ".app/" split
// followed by an HFS colon-path split, matching a real Classic Mac OS
// alias path such as "Macintosh HD:Applications:Safari.app/Contents/...".
func TestConvertAliasFallbackSplitsOnHFSColon(t *testing.T) {
	payload := []byte("Macintosh HD:Applications:Safari.app/Contents/MacOS/Safari")

	got, err := Convert(Entry{Kind: AliasDescriptor, AliasVersion: 1, Bytes: payload})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if v, ok := got.(*ast.VarRef); !ok || v.Name != "Safari" {
		t.Errorf("Convert() = %#v, want VarRef{Safari}", got)
	}
}

func TestConvertAliasVersion3NotImplemented(t *testing.T) {
	_, err := Convert(Entry{Kind: AliasDescriptor, AliasVersion: 3, Bytes: []byte("/Applications/Safari.app/Contents")})
	var nie *NotImplementedError
	if err == nil {
		t.Fatal("Convert() error = nil, want NotImplementedError")
	}
	if !asNotImplemented(err, &nie) {
		t.Errorf("Convert() error = %v, want *NotImplementedError", err)
	}
}

func asNotImplemented(err error, target **NotImplementedError) bool {
	nie, ok := err.(*NotImplementedError)
	if ok {
		*target = nie
	}
	return ok
}
