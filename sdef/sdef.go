// Package sdef holds the event-code and scripting-definition (SDEF)
// dictionaries the printer consults to resolve a Keyword node's raw
// AppleEvent code into readable text (§6.3). Like the opcode table,
// the real dictionaries come from parsing an application's 'aete'/
// 'sdef' resource, which is outside this project's scope; this
// package is the consumed interface plus a minimal built-in table
// covering "AppleScript Language" and "StandardAdditions" so the
// printer and its tests run end to end against real vocabulary.
package sdef

import "github.com/dolthub/swiss"

// DefaultTarget is the vocabulary consulted when a tell block has not
// named an explicit target, and as the last resort after the current
// target's own tables come up empty (§4.4).
const DefaultTarget = "AppleScript Language"

// StandardAdditions is always consulted as a fallback vocabulary
// after the current target, regardless of what that target is.
const StandardAdditions = "StandardAdditions"

// Parameter is one named parameter of an SDEF command entry.
type Parameter struct {
	Name string
}

// Command is one SDEF entry: a human name plus its named parameters,
// keyed by their own AppleEvent code.
type Command struct {
	Name       string
	Parameters *swiss.Map[string, Parameter]
}

// Tables is the two-level event-code and SDEF lookup structure
// described in §6.3: event_codes[target][code] -> name and
// sdefs[target][code] -> Command, both keyed first by target name.
//
// The per-target maps are github.com/dolthub/swiss.Map, the same
// hash-map implementation mna-nenuphar uses for its own large
// string-keyed lookup (lang/machine.Map) — the
// shape here (many short string keys, read far more than written) is
// the same problem, just with two targets instead of one.
type Tables struct {
	eventCodes *swiss.Map[string, *swiss.Map[string, string]]
	sdefs      *swiss.Map[string, *swiss.Map[string, Command]]
}

// New returns an empty Tables with the default and StandardAdditions
// targets pre-created so callers can always Put into them directly.
func New() *Tables {
	t := &Tables{
		eventCodes: swiss.NewMap[string, *swiss.Map[string, string]](4),
		sdefs:      swiss.NewMap[string, *swiss.Map[string, Command]](4),
	}
	t.eventCodes.Put(DefaultTarget, swiss.NewMap[string, string](16))
	t.eventCodes.Put(StandardAdditions, swiss.NewMap[string, string](16))
	t.sdefs.Put(DefaultTarget, swiss.NewMap[string, Command](16))
	t.sdefs.Put(StandardAdditions, swiss.NewMap[string, Command](16))
	return t
}

// PutEventCode registers a human name for a code under target,
// creating the target's table if this is its first entry.
func (t *Tables) PutEventCode(target, code, name string) {
	m, ok := t.eventCodes.Get(target)
	if !ok {
		m = swiss.NewMap[string, string](16)
		t.eventCodes.Put(target, m)
	}
	m.Put(code, name)
}

// EventCode looks up code under target only (no fallback chain; the
// printer owns the fallback order described in §4.4).
func (t *Tables) EventCode(target, code string) (string, bool) {
	m, ok := t.eventCodes.Get(target)
	if !ok {
		return "", false
	}
	return m.Get(code)
}

// PutCommand registers an SDEF command entry for code under target.
func (t *Tables) PutCommand(target, code string, cmd Command) {
	m, ok := t.sdefs.Get(target)
	if !ok {
		m = swiss.NewMap[string, Command](16)
		t.sdefs.Put(target, m)
	}
	m.Put(code, cmd)
}

// Command looks up the SDEF entry for code under target only.
func (t *Tables) Command(target, code string) (Command, bool) {
	m, ok := t.sdefs.Get(target)
	if !ok {
		return Command{}, false
	}
	return m.Get(code)
}

// CommandParameterName resolves the name of parameter paramCode of
// command code under target, or "" if target, command, or parameter
// is unknown.
func (t *Tables) CommandParameterName(target, code, paramCode string) (string, bool) {
	cmd, ok := t.Command(target, code)
	if !ok || cmd.Parameters == nil {
		return "", false
	}
	p, ok := cmd.Parameters.Get(paramCode)
	if !ok {
		return "", false
	}
	return p.Name, true
}

// Builtin returns a Tables seeded with the small set of entries
// exercised by this project's own tests and examples: enough of
// "AppleScript Language" and "StandardAdditions" to print common
// decompiled scripts without an external dictionary. A real
// deployment replaces this with tables loaded from the target
// application's own 'aete'/'sdef' resource.
func Builtin() *Tables {
	t := New()
	t.PutEventCode(StandardAdditions, "ascr", "ASCII character")
	t.PutEventCode(StandardAdditions, "long", "display dialog")
	t.PutEventCode(StandardAdditions, "DLOG", "display dialog")
	t.PutCommand(StandardAdditions, "DLOG", Command{
		Name: "display dialog",
		Parameters: func() *swiss.Map[string, Parameter] {
			m := swiss.NewMap[string, Parameter](4)
			m.Put("btns", Parameter{Name: "buttons"})
			m.Put("dflt", Parameter{Name: "default answer"})
			return m
		}(),
	})
	t.PutEventCode(DefaultTarget, "coredoex", "exists")
	t.PutEventCode(DefaultTarget, "coreactv", "activate")
	t.PutEventCode(DefaultTarget, "miscactv", "activate")
	return t
}
