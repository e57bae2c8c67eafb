package decompiler

import (
	"fmt"

	"asdecompile/ast"
	"asdecompile/literal"
	"asdecompile/opcode"
)

// step executes the single instruction at s.pos: it decodes one opcode
// byte, dispatches it, then folds whatever statements it produced
// into the in-progress block structure (§4.3.2-§4.3.4).
func (s *state) step(table *opcode.Table) error {
	currPos := s.pos
	b := s.code[s.pos]
	s.pos++
	m := table.Lookup(b)

	s.resolveShortCircuit(currPos)

	stmts, err := s.dispatch(m, b, currPos)
	if err != nil {
		return err
	}
	if s.opts.Comments {
		stmts = append([]ast.Statement{&ast.Comment{Text: fmt.Sprintf("%#x %s", currPos, m)}}, stmts...)
	}
	if s.opts.Debug && s.opts.Trace != nil {
		s.opts.Trace(currPos, m, append([]ast.Expression(nil), s.stack...), len(s.blockStack))
	}
	s.prevOp = m
	s.attach(stmts, currPos)
	return nil
}

// resolveShortCircuit closes an and/or accumulator once execution
// reaches its right operand's end position, turning it into a plain
// BinaryOp back on the value stack (§3.1, §9).
func (s *state) resolveShortCircuit(currPos int) {
	if len(s.stack) == 0 || len(s.blockStack) == 0 {
		return
	}
	switch top := s.blockStack[len(s.blockStack)-1].(type) {
	case *andFrame:
		if currPos == top.RightEndPos {
			right := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.blockStack = s.blockStack[:len(s.blockStack)-1]
			s.push(&ast.BinaryOp{Op: ast.And, Left: top.Left, Right: right})
		}
	case *orFrame:
		if currPos == top.RightEndPos {
			right := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.blockStack = s.blockStack[:len(s.blockStack)-1]
			s.push(&ast.BinaryOp{Op: ast.Or, Left: top.Left, Right: right})
		}
	}
}

// dispatch executes one instruction and returns whatever statements it
// produced, mirroring the big elif chain of the teacher-adjacent
// reference decompiler, opcode family by opcode family.
func (s *state) dispatch(m opcode.Mnemonic, b byte, currPos int) ([]ast.Statement, error) {
	if opcode.BinaryMnemonics[m] {
		r, err := s.pop()
		if err != nil {
			return nil, err
		}
		l, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.push(&ast.BinaryOp{Op: binaryOpKind[m], Left: l, Right: r})
		return nil, nil
	}
	if opcode.UnaryMnemonics[m] {
		x, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.push(&ast.UnaryOp{Op: unaryOpKind[m], Operand: x})
		return nil, nil
	}

	switch m {
	case opcode.Push0, opcode.Push1, opcode.Push2, opcode.Push3, opcode.PushMinus1:
		s.push(&ast.NumberLiteral{Value: pushImmediate[m]})

	case opcode.PushTrue:
		s.push(&ast.BooleanLiteral{Value: true})
	case opcode.PushFalse:
		s.push(&ast.BooleanLiteral{Value: false})

	case opcode.PushIt:
		s.push(&ast.VarRef{Name: "__it__"})
	case opcode.PushMe:
		s.push(&ast.VarRef{Name: "my"})

	case opcode.PushLiteral, opcode.PushLiteralExtended:
		x, err := s.wordOrNibble(m == opcode.PushLiteralExtended, b)
		if err != nil {
			return nil, err
		}
		s.push(s.literalAt(x))

	case opcode.PushVariable, opcode.PushVariableExtended:
		x, err := s.wordOrNibble(m == opcode.PushVariableExtended, b)
		if err != nil {
			return nil, err
		}
		s.push(s.variableRef(x, m == opcode.PushVariable))

	case opcode.PushGlobal, opcode.PushGlobalExtended:
		x, err := s.wordOrNibble(m == opcode.PushGlobalExtended, b)
		if err != nil {
			return nil, err
		}
		entry, ok := s.rawLiteralAt(x)
		switch {
		case !ok:
			s.push(&ast.StringLiteral{Value: fmt.Sprintf("[L%d]", x)})
		case entry.Kind == literal.ByteString:
			s.push(&ast.VarRef{Name: string(entry.Bytes)})
		default:
			s.push(s.literalAt(x))
		}

	case opcode.PopGlobal, opcode.PopGlobalExtended:
		x, err := s.wordOrNibble(m == opcode.PopGlobalExtended, b)
		if err != nil {
			return nil, err
		}
		entry, ok := s.rawLiteralAt(x)
		if !ok {
			return nil, &DecodeError{Pos: currPos, Reason: "PopGlobal literal index out of range"}
		}
		name, ok := literal.StringValue(entry)
		if !ok {
			return nil, &DecodeError{Pos: currPos, Reason: "PopGlobal literal entry is not string-shaped"}
		}
		s.pendingTarget = &ast.VarRef{Name: name}

	case opcode.PopVariable, opcode.PopVariableExtended:
		x, err := s.wordOrNibble(m == opcode.PopVariableExtended, b)
		if err != nil {
			return nil, err
		}
		s.pendingTarget = s.variableRef(x, false)

	case opcode.PushParentVariable:
		x, err := s.readWord()
		if err != nil {
			return nil, err
		}
		if _, err := s.readWord(); err != nil { // debug-comment-only second read (§4.3.2)
			return nil, err
		}
		s.push(&ast.VarRef{Name: "[parent]" + s.variableRef(int(x), false).Name})

	case opcode.PopParentVariable:
		x, err := s.readWord()
		if err != nil {
			return nil, err
		}
		if _, err := s.readWord(); err != nil {
			return nil, err
		}
		s.pendingTarget = &ast.VarRef{Name: "[parent]" + s.variableRef(int(x), false).Name}

	case opcode.SetData:
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.pendingTarget = v

	case opcode.GetData:
		// no stack effect; kept only as a recognized, inert mnemonic.

	case opcode.Dup:
		return s.dispatchDup()

	case opcode.Exit:
		return []ast.Statement{&ast.ExitRepeat{}}, nil

	case opcode.Tell:
		if _, err := s.readWord(); err != nil {
			return nil, err
		}
		target, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.blockStack = append(s.blockStack, &tellFrame{Target: target})

	case opcode.EndTell:
		return s.dispatchEndTell()

	case opcode.MakeObjectAlias, opcode.MakeComp:
		return s.dispatchObjectSpecifier(b)

	case opcode.And, opcode.Or:
		return nil, s.dispatchAndOr(m, currPos)

	case opcode.TestIf:
		return nil, s.dispatchTestIf(currPos)

	case opcode.Jump:
		return s.dispatchJump(currPos)

	case opcode.MessageSend:
		return s.dispatchMessageSend()

	case opcode.PositionalMessageSend:
		return s.dispatchPositionalMessageSend()

	case opcode.StoreResult:
		if len(s.stack) == 0 {
			return nil, nil
		}
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		return []ast.Statement{s.setPendingOrExpr(v)}, nil

	case opcode.LinkRepeat:
		w, err := s.readWord()
		if err != nil {
			return nil, err
		}
		end := currPos + 1 + int(w)
		s.blockStack = append(s.blockStack, &repeatFrame{Kind: ast.RepeatForever, EndRepeatPos: end})

	case opcode.RepeatNTimes:
		if _, err := s.pop(); err != nil { // discard the compiler's PushOne
			return nil, err
		}
		n, err := s.pop()
		if err != nil {
			return nil, err
		}
		rf := s.topRepeatFrame()
		if rf == nil {
			return nil, &DecodeError{Pos: currPos, Reason: "RepeatNTimes without an open repeat frame"}
		}
		rf.Kind = ast.RepeatTimes
		rf.Times = n

	case opcode.RepeatWhile:
		cond, err := s.pop()
		if err != nil {
			return nil, err
		}
		rf := s.topRepeatFrame()
		if rf == nil {
			return nil, &DecodeError{Pos: currPos, Reason: "RepeatWhile without an open repeat frame"}
		}
		rf.Kind = ast.RepeatWhile
		rf.Condition = cond

	case opcode.RepeatUntil:
		cond, err := s.pop()
		if err != nil {
			return nil, err
		}
		rf := s.topRepeatFrame()
		if rf == nil {
			return nil, &DecodeError{Pos: currPos, Reason: "RepeatUntil without an open repeat frame"}
		}
		rf.Kind = ast.RepeatUntil
		rf.Condition = cond

	case opcode.RepeatInCollection:
		x, err := s.readWord()
		if err != nil {
			return nil, err
		}
		counter := s.variableRef(int(x), false)
		if _, err := s.pop(); err != nil { // PushOne
			return nil, err
		}
		if _, err := s.pop(); err != nil { // len(collection) result
			return nil, err
		}
		coll, err := s.pop()
		if err != nil {
			return nil, err
		}
		rf := s.topRepeatFrame()
		if rf == nil {
			return nil, &DecodeError{Pos: currPos, Reason: "RepeatInCollection without an open repeat frame"}
		}
		rf.Kind = ast.RepeatWithIn
		rf.CounterVar = counter
		rf.In = coll

	case opcode.RepeatInRange:
		x, err := s.readWord()
		if err != nil {
			return nil, err
		}
		counter := s.variableRef(int(x), false)
		by, err := s.pop()
		if err != nil {
			return nil, err
		}
		to, err := s.pop()
		if err != nil {
			return nil, err
		}
		from, err := s.pop()
		if err != nil {
			return nil, err
		}
		rf := s.topRepeatFrame()
		if rf == nil {
			return nil, &DecodeError{Pos: currPos, Reason: "RepeatInRange without an open repeat frame"}
		}
		rf.Kind = ast.RepeatWithCounter
		rf.From = from
		rf.To = to
		rf.By = by
		rf.CounterVar = counter

	case opcode.Return:
		return s.dispatchReturn()

	case opcode.MakeVector:
		return nil, s.dispatchMakeVector()

	case opcode.MakeRecord:
		return nil, s.dispatchMakeRecord()

	case opcode.ErrorHandler:
		if _, err := s.readWord(); err != nil {
			return nil, err
		}
		s.blockStack = append(s.blockStack, newTryFrame())

	case opcode.EndErrorHandler:
		return nil, s.dispatchEndErrorHandler(currPos)

	case opcode.HandleError:
		return nil, s.dispatchHandleError()

	case opcode.Error:
		return s.dispatchError()

	default:
		s.diag("unimplemented opcode %s (%#x) at %#x", m, b, currPos)
	}

	return nil, nil
}

// wordOrNibble reads an extended (word) operand, or the low nibble of
// the already-consumed opcode byte, matching every "X or XExtended"
// opcode pair's "word() if Extended in op else (c & 0xF)" rule.
func (s *state) wordOrNibble(extended bool, b byte) (int, error) {
	if extended {
		w, err := s.readWord()
		if err != nil {
			return 0, err
		}
		return int(w), nil
	}
	return int(b & 0x0F), nil
}

// nearestRepeatFrame searches the block stack from the top down for
// the innermost repeatFrame, matching Dup's "find enclosing repeat"
// search, which does not skip any intervening frame kind.
func (s *state) nearestRepeatFrame() *repeatFrame {
	for i := len(s.blockStack) - 1; i >= 0; i-- {
		if rf, ok := s.blockStack[i].(*repeatFrame); ok {
			return rf
		}
	}
	return nil
}

// topRepeatFrame returns the block stack's top frame as a repeatFrame,
// the shape every RepeatNTimes/RepeatWhile/.../RepeatInRange
// instruction expects to find immediately after LinkRepeat opened it.
func (s *state) topRepeatFrame() *repeatFrame {
	if len(s.blockStack) == 0 {
		return nil
	}
	rf, _ := s.blockStack[len(s.blockStack)-1].(*repeatFrame)
	return rf
}

// dupIsRepeatArtifact reports whether a Dup executing now is the
// stack-balancing artifact the compiler emits inside a non-Forever
// repeat loop, which dispatchDup drops instead of duplicating.
func (s *state) dupIsRepeatArtifact() bool {
	rf := s.nearestRepeatFrame()
	return rf != nil && rf.Kind != ast.RepeatForever
}

func (s *state) dispatchDup() ([]ast.Statement, error) {
	if len(s.stack) == 0 {
		return nil, nil
	}
	if s.dupIsRepeatArtifact() {
		return nil, nil
	}
	s.push(s.stack[len(s.stack)-1])
	return nil, nil
}

func (s *state) dispatchEndTell() ([]ast.Statement, error) {
	idx := -1
	for i := len(s.blockStack) - 1; i >= 0; i-- {
		if _, ok := s.blockStack[i].(*tellFrame); ok {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &DecodeError{Reason: "EndTell without an enclosing tell block"}
	}
	tf := s.blockStack[idx].(*tellFrame)
	tf.Done = true

	if len(s.stack) > 0 && !isMisccura(tf.Target) {
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		return []ast.Statement{s.setPendingOrExpr(v)}, nil
	}
	return nil, nil
}

// dispatchObjectSpecifier runs the MakeObjectAlias/MakeComp
// sub-operation selected by opcode byte b (§4.3.3).
func (s *state) dispatchObjectSpecifier(b byte) ([]ast.Statement, error) {
	sub, ok := opcode.SubOpFor(b)
	if !ok {
		if _, err := s.pop(); err != nil {
			return nil, err
		}
		s.diag("object specifier sub-operation %#x is not implemented", b)
		return nil, nil
	}

	switch sub {
	case opcode.GetPositionEnd:
		operand, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.push(&ast.UnaryOp{Op: ast.EndOf, Operand: operand})

	case opcode.GetProperty:
		l, err := s.pop()
		if err != nil {
			return nil, err
		}
		r, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.push(&ast.BinaryOp{Op: ast.GetProperty, Left: l, Right: r})

	case opcode.GetEvery:
		r, err := s.pop()
		if err != nil {
			return nil, err
		}
		l, err := s.pop()
		if err != nil {
			return nil, err
		}
		s.push(&ast.BinaryOp{Op: ast.Every, Left: l, Right: r})

	case opcode.GetIndexedName, opcode.GetIndexedID:
		l, err := s.pop()
		if err != nil {
			return nil, err
		}
		r, err := s.pop()
		if err != nil {
			return nil, err
		}
		target, err := s.pop()
		if err != nil {
			return nil, err
		}
		inner := &ast.BinaryOp{Op: ast.GetProperty, Left: l, Right: target}
		s.push(&ast.BinaryOp{Op: ast.GetProperty, Left: r, Right: inner})

	case opcode.GetKeyFromName, opcode.GetKeyFromID:
		l, err := s.pop()
		if err != nil {
			return nil, err
		}
		r, err := s.pop()
		if err != nil {
			return nil, err
		}
		if kw, ok := l.(*ast.Keyword); ok && kw.Value == "kfrmID  " {
			typ, err := s.pop()
			if err != nil {
				return nil, err
			}
			if _, err := s.pop(); err != nil {
				return nil, err
			}
			if tkw, ok := typ.(*ast.Keyword); ok {
				kw.Value += tkw.Value
			}
		}
		s.push(&ast.BinaryOp{Op: ast.GetProperty, Left: l, Right: r})

	case opcode.GetRange:
		to, err := s.pop()
		if err != nil {
			return nil, err
		}
		from, err := s.pop()
		if err != nil {
			return nil, err
		}
		prop, err := s.pop()
		if err != nil {
			return nil, err
		}
		if _, err := s.pop(); err != nil {
			return nil, err
		}
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		if _, err := s.pop(); err != nil {
			return nil, err
		}
		rng := &ast.BinaryOp{Op: ast.Thru, Left: from, Right: to}
		rangeOf := &ast.BinaryOp{Op: ast.GetProperty, Left: rng, Right: v}
		s.push(&ast.BinaryOp{Op: ast.GetProperty, Left: prop, Right: rangeOf})

	default:
		if _, err := s.pop(); err != nil {
			return nil, err
		}
		s.diag("object specifier sub-operation %s is not implemented", sub)
	}

	return nil, nil
}

func (s *state) dispatchAndOr(m opcode.Mnemonic, currPos int) error {
	w, err := s.readWord()
	if err != nil {
		return err
	}
	next := currPos + 1 + int(w)
	left, err := s.pop()
	if err != nil {
		return err
	}
	if m == opcode.And {
		s.blockStack = append(s.blockStack, &andFrame{Left: left, RightEndPos: next})
	} else {
		s.blockStack = append(s.blockStack, &orFrame{Left: left, RightEndPos: next})
	}
	return nil
}

func (s *state) dispatchTestIf(currPos int) error {
	w, err := s.readWord()
	if err != nil {
		return err
	}
	elsePos := currPos + 1 + int(w)
	cond, err := s.pop()
	if err != nil {
		return err
	}
	s.blockStack = append(s.blockStack, newIfFrame(cond, elsePos))
	return nil
}

// dispatchJump backpatches the nearest still-open ifFrame's EndIfPos
// and, if a value is waiting on the stack, attaches it as the if's
// trailing assignment or bare expression (§4.3.3).
func (s *state) dispatchJump(currPos int) ([]ast.Statement, error) {
	w, err := s.readWord()
	if err != nil {
		return nil, err
	}
	address := currPos + 1 + int(w)

	idx := len(s.blockStack) - 1
	for idx > 0 {
		if iff, ok := s.blockStack[idx].(*ifFrame); ok && iff.EndIfPos < 0 {
			break
		}
		idx--
	}
	block, ok := s.blockStack[idx].(*ifFrame)
	if !ok {
		return nil, nil
	}
	block.EndIfPos = address

	if len(s.stack) > 0 {
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		return []ast.Statement{s.setPendingOrExpr(v)}, nil
	}
	return nil, nil
}

func (s *state) dispatchMessageSend() ([]ast.Statement, error) {
	w, err := s.readWord()
	if err != nil {
		return nil, err
	}
	entry, ok := s.rawLiteralAt(int(w))
	if !ok {
		return nil, &DecodeError{Reason: "MessageSend literal index out of range"}
	}
	eventCode := literal.EventCode(entry)

	countExpr, err := s.pop()
	if err != nil {
		return nil, err
	}
	count, ok := intValue(countExpr)
	if !ok {
		return nil, &DecodeError{Reason: "MessageSend argument count is not numeric"}
	}
	args, err := s.popN(count)
	if err != nil {
		return nil, err
	}
	target, err := s.pop()
	if err != nil {
		return nil, err
	}
	full := append([]ast.Expression{target}, args...)
	s.push(&ast.CommandCall{CommandName: eventCode, Arguments: full})
	return nil, nil
}

func (s *state) dispatchPositionalMessageSend() ([]ast.Statement, error) {
	w, err := s.readWord()
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("[L%d]", w)
	if entry, ok := s.rawLiteralAt(int(w)); ok {
		if sv, ok := literal.StringValue(entry); ok {
			name = sv
		}
	}

	countExpr, err := s.pop()
	if err != nil {
		return nil, err
	}
	count, ok := intValue(countExpr)
	if !ok {
		return nil, &DecodeError{Reason: "PositionalMessageSend argument count is not numeric"}
	}
	args, err := s.popN(count)
	if err != nil {
		return nil, err
	}

	var target ast.Expression
	if len(s.stack) > 0 {
		t, err := s.pop()
		if err != nil {
			return nil, err
		}
		if vr, ok := t.(*ast.VarRef); !ok || vr.Name != "__it__" {
			target = t
		}
	}

	s.push(&ast.HandlerCall{Name: name, Target: target, Arguments: args})
	return nil, nil
}

// dispatchReturn mirrors the original's "robust return" rule: a
// pending command/handler call on the stack is a bare call whose
// result return discards, a plain value returns that value, and a
// bare Return is only emitted once per run of consecutive bare
// returns (the s.prevOp comparison, still holding the previous
// instruction's mnemonic at this point in step's call order).
func (s *state) dispatchReturn() ([]ast.Statement, error) {
	if len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		switch top.(type) {
		case *ast.CommandCall, *ast.HandlerCall:
			return []ast.Statement{&ast.ExprStatement{Expr: v}}, nil
		default:
			return []ast.Statement{&ast.ReturnStatement{Value: v}}, nil
		}
	}
	if s.prevOp != opcode.Return {
		return []ast.Statement{&ast.ReturnStatement{}}, nil
	}
	return nil, nil
}

func (s *state) dispatchMakeVector() error {
	n, err := s.pop()
	if err != nil {
		return err
	}
	count, ok := intValue(n)
	if !ok {
		return &DecodeError{Reason: "MakeVector length is not numeric"}
	}
	if count == 0 {
		s.push(&ast.ListLiteral{Elements: []ast.Expression{}})
		return nil
	}
	elems, err := s.popN(count)
	if err != nil {
		return err
	}
	s.push(&ast.ListLiteral{Elements: elems})
	return nil
}

func (s *state) dispatchMakeRecord() error {
	n, err := s.pop()
	if err != nil {
		return err
	}
	count, ok := intValue(n)
	if !ok {
		return &DecodeError{Reason: "MakeRecord length is not numeric"}
	}
	if count == 0 {
		s.push(&ast.RecordLiteral{Fields: []ast.RecordField{}})
		return nil
	}
	vals, err := s.popN(count)
	if err != nil {
		return err
	}
	fields := make([]ast.RecordField, 0, len(vals)/2)
	for i := 0; i+1 < len(vals); i += 2 {
		fields = append(fields, ast.RecordField{Label: vals[i], Value: vals[i+1]})
	}
	s.push(&ast.RecordLiteral{Fields: fields})
	return nil
}

// dispatchEndErrorHandler closes the try portion of the nearest open
// tryFrame, folding in a trailing assignment or bare call the same
// way StoreResult/EndTell do, and records where its on-error portion
// ends (§4.3.3). Unlike every other instruction, the statements this
// produces are attached directly rather than returned, matching the
// reference's own direct `try_block.extend(...)` before resetting its
// local statement buffer.
func (s *state) dispatchEndErrorHandler(currPos int) error {
	w, err := s.readWord()
	if err != nil {
		return err
	}
	end := currPos + 1 + int(w)

	idx := len(s.blockStack) - 1
	for idx > 0 {
		if _, ok := s.blockStack[idx].(*tryFrame); ok {
			break
		}
		idx--
	}
	tf, ok := s.blockStack[idx].(*tryFrame)
	if !ok {
		return &DecodeError{Pos: currPos, Reason: "EndErrorHandler without an enclosing try block"}
	}

	if len(s.stack) > 0 && s.pendingTarget != nil {
		v, err := s.pop()
		if err != nil {
			return err
		}
		target := s.pendingTarget
		s.pendingTarget = nil
		tf.Try = append(tf.Try, &ast.SetStatement{Target: target, Value: v})
	} else if len(s.stack) > 0 {
		switch s.stack[len(s.stack)-1].(type) {
		case *ast.CommandCall, *ast.HandlerCall:
			v, err := s.pop()
			if err != nil {
				return err
			}
			tf.Try = append(tf.Try, &ast.ExprStatement{Expr: v})
		}
	}

	tf.EndTryPos = end
	tf.HasEndTry = true
	return nil
}

// dispatchHandleError binds the on-error clause's error-message and
// error-number variable names onto the enclosing tryFrame. The
// teacher-adjacent reference only builds a debug comment here; this
// project resolves both operands into TryStatement.OnErrorVar/
// OnErrorNumVar instead of discarding them (a supplemented feature).
func (s *state) dispatchHandleError() error {
	varIdx, err := s.readWord()
	if err != nil {
		return err
	}
	numIdx, err := s.readWord()
	if err != nil {
		return err
	}

	idx := len(s.blockStack) - 1
	for idx > 0 {
		if _, ok := s.blockStack[idx].(*tryFrame); ok {
			break
		}
		idx--
	}
	tf, ok := s.blockStack[idx].(*tryFrame)
	if !ok {
		return nil
	}
	tf.OnErrorVar = s.variableRef(int(varIdx), false).Name
	tf.OnErrorNum = s.variableRef(int(numIdx), false).Name
	return nil
}

// dispatchError decodes AppleScript's "error message number n" form.
// When the first popped value isn't itself the argument count, it is
// an extra leading argument (the error message) and the real count
// follows it; that leading value is prepended to the final argument
// list once the count is known.
func (s *state) dispatchError() ([]ast.Statement, error) {
	first, err := s.pop()
	if err != nil {
		return nil, err
	}

	var extra ast.Expression
	var count int
	if n, ok := first.(*ast.NumberLiteral); ok {
		count = int(n.Value)
	} else {
		extra = first
		n, err := s.pop()
		if err != nil {
			return nil, err
		}
		c, ok := intValue(n)
		if !ok {
			return nil, &DecodeError{Reason: "Error argument count is not numeric"}
		}
		count = c
	}

	var args []ast.Expression
	if count > 0 {
		args, err = s.popN(count)
		if err != nil {
			return nil, err
		}
	}
	if extra != nil {
		args = append([]ast.Expression{extra}, args...)
	}
	if _, err := s.pop(); err != nil {
		return nil, err
	}

	return []ast.Statement{&ast.ExprStatement{Expr: &ast.CommandCall{CommandName: "error", Arguments: args}}}, nil
}

// topBlockIndex returns the index of the topmost block frame that is
// not an in-progress and/or accumulator, matching every cascading
// reduction step's own "skip AndOp/OrOp" search.
func (s *state) topBlockIndex() int {
	idx := len(s.blockStack) - 1
	for idx > 0 {
		switch s.blockStack[idx].(type) {
		case *andFrame, *orFrame:
			idx--
			continue
		}
		break
	}
	return idx
}

func (s *state) removeBlock(idx int) {
	s.blockStack = append(s.blockStack[:idx], s.blockStack[idx+1:]...)
}

// attach threads stmts up through the block stack, closing and
// reattaching as many completed blocks as their own end-position
// conditions allow in one cascading pass (§9, "cascading
// block-closing reduction"). Unlike the reference this is based on,
// reaching end-of-code with a block still open is surfaced by
// DecompileHandler as a DecodeError rather than silently force-popped
// here (§3.2's unterminated-block invariant).
func (s *state) attach(stmts []ast.Statement, currPos int) {
	for {
		idx := s.topBlockIndex()
		closed := false

		switch b := s.blockStack[idx].(type) {
		case *tellFrame:
			if len(stmts) > 0 {
				b.Body = append(b.Body, stmts...)
				stmts = nil
			}
			if b.Done {
				if !isMisccura(b.Target) {
					stmts = []ast.Statement{&ast.TellBlock{Target: b.Target, Body: b.Body}}
				}
				s.removeBlock(idx)
				closed = true
			}

		case *tryFrame:
			if len(stmts) > 0 {
				if b.HasEndTry {
					b.OnError = append(b.OnError, stmts...)
				} else {
					b.Try = append(b.Try, stmts...)
				}
				stmts = nil
			}
			if b.HasEndTry && currPos >= b.EndTryPos {
				stmts = []ast.Statement{&ast.TryStatement{
					Try:           b.Try,
					OnErrorVar:    b.OnErrorVar,
					OnErrorNumVar: b.OnErrorNum,
					HasOnError:    true,
					OnError:       b.OnError,
				}}
				s.removeBlock(idx)
				closed = true
			}

		case *repeatFrame:
			if len(stmts) > 0 && currPos <= b.EndRepeatPos {
				b.Body = append(b.Body, stmts...)
				stmts = nil
			}
			if currPos >= b.EndRepeatPos {
				stmts = []ast.Statement{toRepeatStatement(b)}
				s.removeBlock(idx)
				closed = true
			}

		case *ifFrame:
			if len(stmts) > 0 && currPos < b.ElsePos {
				b.Then = append(b.Then, stmts...)
				stmts = nil
			} else if b.EndIfPos >= 0 {
				if len(stmts) > 0 && currPos <= b.EndIfPos {
					b.Else = append(b.Else, stmts...)
					stmts = nil
				}
				if currPos == b.EndIfPos && len(s.stack) > 0 {
					v, err := s.pop()
					if err == nil {
						b.Else = append(b.Else, &ast.ExprStatement{Expr: v})
					}
				}
				if currPos == b.EndIfPos {
					stmts = []ast.Statement{toIfStatement(b)}
					s.removeBlock(idx)
					closed = true
				}
			}

		case *ast.Handler:
			if len(stmts) > 0 {
				b.Body = append(b.Body, stmts...)
				stmts = nil
			}
		}

		if !closed {
			return
		}
	}
}

func toRepeatStatement(b *repeatFrame) *ast.RepeatStatement {
	return &ast.RepeatStatement{
		Kind:       b.Kind,
		Condition:  b.Condition,
		Times:      b.Times,
		CounterVar: b.CounterVar,
		From:       b.From,
		To:         b.To,
		By:         b.By,
		In:         b.In,
		Body:       b.Body,
	}
}

func toIfStatement(b *ifFrame) *ast.IfStatement {
	return &ast.IfStatement{Condition: b.Condition, Then: b.Then, Else: b.Else}
}
