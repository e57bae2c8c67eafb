package printer

import (
	"strings"

	"asdecompile/sdef"
)

// resolveKeyword implements §4.4's Keyword resolution order: the
// current command's named parameters, then the current target's own
// SDEF vocabulary, then the StandardAdditions vocabulary, then the
// event-code table for the current target, then for the default
// target, then a fallback substring lookup for core*/misc* codes, and
// finally the raw text.
func (p *Printer) resolveKeyword(ctx Context, code string) string {
	if p.Tables == nil {
		return code
	}
	if ctx.Command != "" {
		if name, ok := p.Tables.CommandParameterName(ctx.Target, ctx.Command, code); ok {
			return name
		}
	}
	if cmd, ok := p.Tables.Command(ctx.Target, code); ok {
		return cmd.Name
	}
	if cmd, ok := p.Tables.Command(sdef.StandardAdditions, code); ok {
		return cmd.Name
	}
	if name, ok := p.Tables.EventCode(ctx.Target, code); ok {
		return name
	}
	if name, ok := p.Tables.EventCode(sdef.DefaultTarget, code); ok {
		return name
	}
	if name, ok := coreMiscFallback(code); ok {
		return name
	}
	return code
}

// resolveCommandName resolves a CommandCall's raw event code through
// the event-code tables only: the current target, then
// StandardAdditions, then the default target, then the core*/misc*
// fallback, and finally the raw text. SDEF command entries and named
// parameters are not consulted (a command call names itself; it can't
// be its own parameter).
func (p *Printer) resolveCommandName(ctx Context, code string) string {
	if p.Tables == nil {
		return code
	}
	if name, ok := p.Tables.EventCode(ctx.Target, code); ok {
		return name
	}
	if name, ok := p.Tables.EventCode(sdef.StandardAdditions, code); ok {
		return name
	}
	if name, ok := p.Tables.EventCode(sdef.DefaultTarget, code); ok {
		return name
	}
	if name, ok := coreMiscFallback(code); ok {
		return name
	}
	return code
}

// coreMiscFallback recognizes the handful of generic "core*"/"misc*"
// prefixed codes the spec calls out as a last-resort substring lookup
// before giving up and printing the raw keyword text (§4.4).
func coreMiscFallback(code string) (string, bool) {
	lower := strings.ToLower(code)
	switch {
	case strings.HasPrefix(lower, "coreactv"), strings.HasPrefix(lower, "miscactv"):
		return "activate", true
	case strings.HasPrefix(lower, "coredoex"):
		return "exists", true
	case strings.HasPrefix(lower, "coreclos"):
		return "close", true
	case strings.HasPrefix(lower, "coreopen"):
		return "open", true
	case strings.HasPrefix(lower, "coresav "), strings.HasPrefix(lower, "coresave"):
		return "save", true
	}
	return "", false
}
