package infer

import (
	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/astwalk"
	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/protocol"
	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/types"
	"github.com/efx-project/efx/internal/unify"
)

// FunctionResult is one function's inferred signature: its (possibly
// polymorphic) type, its effect row, and the accumulated substitution
// that produced them — spec.md's "per-function result".
type FunctionResult struct {
	Type   types.Type
	Effect types.Effect
	Subst  types.Subst
}

// Compact is the single-token summary reported for mfa.
func (r FunctionResult) Compact() types.CompactToken { return r.Effect.ToCompact() }

// dispatchModules names the protocol-dispatching modules whose calls
// resolve through internal/protocol instead of a direct registry/SCC
// lookup (spec.md §4.5's worked example is `Enum.map`; the built-in
// collection/struct protocol surface is modeled the same way).
var dispatchModules = map[string]bool{
	"Enum":     true,
	"Protocol": true,
}

// InferFunction synthesizes every clause of shell and joins them into one
// FunctionResult: the type is the single clause's type, or a Union of
// the per-clause types whenever there are two or more (this is a dynamically typed
// language — different clauses legitimately accept different shapes);
// the effect is the severity-max join over every clause, since any
// clause might be the one that matches at runtime.
func InferFunction(ctx *Context, shell astwalk.FunctionShell) FunctionResult {
	var clauseTypes []types.Type
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}

	for _, cl := range shell.Clauses {
		scope := NewScope(nil)
		paramTypes := make([]types.Type, 0, len(cl.Params))
		for _, p := range cl.Params {
			paramTypes = append(paramTypes, bindPattern(ctx, scope, p))
		}

		if cl.Guard != nil {
			_, guardEff, s, err := synthesize(ctx, cl.Guard, scope)
			if err == nil {
				effect = types.Combine(effect, guardEff)
				subst = types.Compose(s, subst)
			}
		}

		bodyType, bodyEffect, s, err := synthesizeBlock(ctx, cl.Body, scope)
		if err != nil {
			ctx.Diags.Add(diagnostics.UnknownExpression(ctx.span(cl.Tok), "clause body"))
			bodyType = ctx.FreshType()
			bodyEffect = types.Unknown{}
		}
		subst = types.Compose(s, subst)
		effect = types.Combine(effect, bodyEffect)
		clauseTypes = append(clauseTypes, buildNestedFunction(paramTypes, bodyEffect, bodyType))
	}

	var fnType types.Type
	switch len(clauseTypes) {
	case 0:
		fnType = types.Any
	case 1:
		fnType = clauseTypes[0]
	default:
		fnType = types.Union{Alternatives: clauseTypes}
	}

	return FunctionResult{Type: fnType.Apply(subst), Effect: effect, Subst: subst}
}

// buildNestedFunction curries paramTypes into nested Function values per
// spec.md §3's single-curried-parameter shape: every parameter but the
// last carries Empty (constructing a partial application has no effect
// of its own); the effect of fully applying the function lives on the
// innermost Function.
func buildNestedFunction(paramTypes []types.Type, effect types.Effect, result types.Type) types.Type {
	if len(paramTypes) == 0 {
		// A zero-arity function is represented as a Closure: applying it
		// (calling it with no further arguments) directly yields effect
		// and result, matching Closure's documented zero-argument shape.
		return types.Closure{Captured: types.Any, Effect: effect, Result: result}
	}
	t := result
	for i := len(paramTypes) - 1; i >= 0; i-- {
		e := types.Effect(types.Empty{})
		if i == len(paramTypes)-1 {
			e = effect
		}
		t = types.Function{Param: paramTypes[i], Effect: e, Result: t}
	}
	return t
}

// innermostEffect extracts the effect attached to fully applying t,
// walking through a nested Function chain to its last link, or reading
// Closure's Effect directly. Used for the lambda-dependent lift: a
// Lambda's or FunctionCapture's own synthesized type carries its latent
// effect right there, with no registry lookup needed.
func innermostEffect(t types.Type) types.Effect {
	switch v := t.(type) {
	case types.Function:
		return types.Combine(v.Effect, innermostEffect(v.Result))
	case types.Closure:
		return v.Effect
	default:
		return types.Empty{}
	}
}

func bindPattern(ctx *Context, scope *Scope, p ast.Pattern) types.Type {
	switch n := p.(type) {
	case *ast.PatternVar:
		t := ctx.FreshType()
		scope.Bind(n.Name, t)
		return t
	case *ast.PatternWildcard:
		return ctx.FreshType()
	case *ast.PatternLiteral:
		t, _, _, err := synthesize(ctx, n.Literal, scope)
		if err != nil {
			return ctx.FreshType()
		}
		return t
	case *ast.PatternTuple:
		elems := make([]types.Type, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = bindPattern(ctx, scope, el)
		}
		return types.Tuple{Elements: elems}
	case *ast.PatternList:
		elem := types.Type(ctx.FreshType())
		if len(n.Elements) > 0 {
			elem = bindPattern(ctx, scope, n.Elements[0])
			for _, rest := range n.Elements[1:] {
				bindPattern(ctx, scope, rest)
			}
		}
		if n.Tail != nil {
			bindPattern(ctx, scope, n.Tail)
		}
		return types.List{Elem: elem}
	case *ast.PatternMap:
		fields := make(map[string]types.Type, len(n.Keys))
		for i, k := range n.Keys {
			if i < len(n.Values) {
				fields[k] = bindPattern(ctx, scope, n.Values[i])
			}
		}
		v := ctx.FreshType()
		for _, t := range fields {
			v = t
			break
		}
		return types.Map{Key: types.Atom, Value: v}
	case *ast.PatternStruct:
		fields := make(map[string]types.Type, len(n.Keys))
		for i, k := range n.Keys {
			if i < len(n.Values) {
				fields[k] = bindPattern(ctx, scope, n.Values[i])
			}
		}
		return types.Struct{Module: n.Module, Fields: fields}
	default:
		return ctx.FreshType()
	}
}

// synthesizeBlock threads one scope through a sequence of expressions
// (spec.md §4.8 "block": value and effect are the last expression's,
// preceded bindings accumulate into the same scope).
func synthesizeBlock(ctx *Context, b *ast.Block, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	if b == nil || len(b.Exprs) == 0 {
		return types.Atom, types.Empty{}, types.Subst{}, nil
	}
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	var last types.Type = types.Atom
	for _, e := range b.Exprs {
		t, eff, s, err := synthesize(ctx, e, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		last = t
		effect = types.Combine(effect, eff)
		subst = types.Compose(s, subst)
	}
	return last, effect, subst, nil
}

// synthesize is the inference engine's core dispatch (spec.md §4.8):
// produce (type, effect, subst) for expr. It never returns a fatal
// error for malformed-but-parseable input — unhandled node kinds fall
// back to a fresh type variable and an Unknown effect, recorded as a
// diagnostic, matching spec.md §7's "no error in the core is fatal".
func synthesize(ctx *Context, expr ast.Expression, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return types.Int, types.Empty{}, types.Subst{}, nil
	case *ast.FloatLiteral:
		return types.Float, types.Empty{}, types.Subst{}, nil
	case *ast.BoolLiteral:
		return types.Bool, types.Empty{}, types.Subst{}, nil
	case *ast.StringLiteral:
		return types.String, types.Empty{}, types.Subst{}, nil
	case *ast.AtomLiteral:
		return types.Atom, types.Empty{}, types.Subst{}, nil
	case *ast.NilLiteral:
		return types.Atom, types.Empty{}, types.Subst{}, nil

	case *ast.Identifier:
		return synthesizeIdentifier(ctx, n, scope)

	case *ast.ModuleAlias:
		// A bare module alias used as a value (e.g. passed around to be
		// dispatched on later) carries no structural type of its own in
		// this closed type sum; spec.md §3 has no "module" type, so it is
		// modeled as an opaque atom, matching how the runtime represents
		// module names.
		return types.Atom, types.Empty{}, types.Subst{}, nil

	case *ast.QualifiedCall:
		return synthesizeQualifiedCall(ctx, n, scope)

	case *ast.LocalCall:
		return synthesizeLocalCall(ctx, n, scope)

	case *ast.ValueCall:
		return synthesizeValueCall(ctx, n, scope)

	case *ast.Lambda:
		return synthesizeLambda(ctx, n, scope)

	case *ast.FunctionCapture:
		return synthesizeFunctionCapture(ctx, n)

	case *ast.AnonCapture:
		return synthesizeAnonCapture(ctx, n, scope)

	case *ast.PlaceholderArg:
		name := placeholderName(n.Index)
		if t, ok := scope.Lookup(name); ok {
			return t, types.Empty{}, types.Subst{}, nil
		}
		ctx.Diags.Add(diagnostics.UnknownExpression(ctx.span(n.Tok), "placeholder outside capture"))
		return ctx.FreshType(), types.Empty{}, types.Subst{}, nil

	case *ast.MatchExpr:
		return synthesizeMatch(ctx, n, scope)

	case *ast.IfExpr:
		return synthesizeIf(ctx, n, scope)

	case *ast.CaseExpr:
		return synthesizeCase(ctx, n, scope)

	case *ast.TupleLit:
		return synthesizeTuple(ctx, n, scope)

	case *ast.ListLit:
		return synthesizeList(ctx, n, scope)

	case *ast.MapLit:
		return synthesizeMap(ctx, n, scope)

	case *ast.BinaryLit:
		return synthesizeBinary(ctx, n, scope)

	case *ast.BinaryOp:
		return synthesizeBinaryOp(ctx, n, scope)

	case *ast.UnaryOp:
		return synthesizeUnaryOp(ctx, n, scope)

	case *ast.StructLit:
		return synthesizeStruct(ctx, n, scope)

	case *ast.Block:
		return synthesizeBlock(ctx, n, scope)

	default:
		ctx.Diags.Add(diagnostics.UnknownExpression(ctx.span(expr.GetToken()), "unrecognized expression"))
		return ctx.FreshType(), types.Unknown{}, types.Subst{}, nil
	}
}

// check verifies expr against an expected type and effect, by
// synthesizing and then unifying both (spec.md §4.8's bidirectional
// "check" mode) — e.g. the `if cond do ... end` rule, which checks
// cond against bool while leaving its effect free to be whatever it
// turns out to be. A mismatch is recorded as a diagnostic and check
// still returns the expression's own synthesized effect and the
// best-effort substitution rather than erroring out, since no core
// failure is fatal.
func check(ctx *Context, expr ast.Expression, expectedType types.Type, expectedEffect types.Effect, scope *Scope) (types.Effect, types.Subst, error) {
	t, eff, s, err := synthesize(ctx, expr, scope)
	if err != nil {
		return nil, s, err
	}
	ts, uerr := unify.Unify(t, expectedType)
	if uerr != nil {
		ctx.Diags.Add(diagnostics.TypeMismatch(ctx.span(expr.GetToken()), t, expectedType))
		ts = types.Subst{}
	}
	es, uerr := unify.UnifyEffect(eff, expectedEffect)
	if uerr != nil {
		ctx.Diags.Add(diagnostics.EffectMismatch(ctx.span(expr.GetToken()), eff, expectedEffect))
		es = types.Subst{}
	}
	return eff, types.Compose(es, types.Compose(ts, s)), nil
}

func placeholderName(index int) string {
	return "&" + string(rune('0'+index))
}

func synthesizeIdentifier(ctx *Context, n *ast.Identifier, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	t, ok := scope.Lookup(n.Name)
	if !ok {
		ctx.Diags.Add(diagnostics.UnknownExpression(ctx.span(n.Tok), "unbound variable "+n.Name))
		return ctx.FreshType(), types.Empty{}, types.Subst{}, nil
	}
	inst := types.Instantiate(t, ctx.FreshTypeID)
	return inst, types.Empty{}, types.Subst{}, nil
}

// synthesizeQualifiedCall implements spec.md §4.8's qualified-call rule:
// look up the registry first; for a protocol-dispatching module, resolve
// the concrete implementation from the receiver argument's structural
// type and apply the lambda-dependent lift when the implementation's
// effect is the `lambda` placeholder.
func synthesizeQualifiedCall(ctx *Context, n *ast.QualifiedCall, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	argTypes, argEffect, subst, err := synthesizeArgs(ctx, n.Args, scope)
	if err != nil {
		return nil, nil, nil, err
	}

	if dispatchModules[n.Module] {
		res := protocol.Resolve(n.Function, len(n.Args), argTypes, ctx.Reg, ctx.UnderAnalysis)
		if res.Unknown {
			return types.Any, types.Combine(argEffect, types.Unknown{}), subst, nil
		}
		implEffect := ctx.effectFor(res.Impl)
		lambdaEffect := types.Effect(types.Empty{})
		if pos := protocol.ReceiverArg(n.Function); pos+1 < len(argTypes) {
			lambdaEffect = innermostEffect(argTypes[pos+1])
		}
		callEffect := protocol.CombineDispatchEffect(implEffect, lambdaEffect)
		return types.Any, types.Combine(argEffect, callEffect), subst, nil
	}

	mfa := registry.MFA{Module: n.Module, Function: n.Function, Arity: len(n.Args)}
	return types.Any, types.Combine(argEffect, ctx.effectFor(mfa)), subst, nil
}

func synthesizeLocalCall(ctx *Context, n *ast.LocalCall, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	_, argEffect, subst, err := synthesizeArgs(ctx, n.Args, scope)
	if err != nil {
		return nil, nil, nil, err
	}

	kernel := registry.MFA{Module: "Kernel", Function: n.Function, Arity: len(n.Args)}
	if _, ok := ctx.Reg.Lookup(kernel); ok {
		return types.Any, types.Combine(argEffect, ctx.effectFor(kernel)), subst, nil
	}
	local := registry.MFA{Module: ctx.ModuleName, Function: n.Function, Arity: len(n.Args)}
	return types.Any, types.Combine(argEffect, ctx.effectFor(local)), subst, nil
}

// synthesizeValueCall applies an already-typed callee value to its
// arguments by peeling one Function layer per argument and unifying
// each parameter, accumulating every layer's effect along the way
// (spec.md §4.8 "value application").
func synthesizeValueCall(ctx *Context, n *ast.ValueCall, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	calleeType, calleeEffect, subst, err := synthesize(ctx, n.Callee, scope)
	if err != nil {
		return nil, nil, nil, err
	}

	effect := calleeEffect
	cur := calleeType
	for _, arg := range n.Args {
		argType, argEffect, s, err := synthesize(ctx, arg, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		subst = types.Compose(s, subst)
		effect = types.Combine(effect, argEffect)

		switch f := cur.(type) {
		case types.Function:
			if s2, uerr := unify.Unify(argType, f.Param); uerr == nil {
				subst = types.Compose(s2, subst)
			} else {
				ctx.Diags.Add(diagnostics.TypeMismatch(ctx.span(arg.GetToken()), argType, f.Param))
			}
			effect = types.Combine(effect, f.Effect)
			cur = f.Result
		case types.Closure:
			effect = types.Combine(effect, f.Effect)
			cur = f.Result
		default:
			// Calling a non-function value (or an Any we couldn't refine):
			// conservative fallback, not a fatal error.
			cur = types.Any
		}
	}
	return cur, effect, subst, nil
}

func synthesizeArgs(ctx *Context, args []ast.Expression, scope *Scope) ([]types.Type, types.Effect, types.Subst, error) {
	argTypes := make([]types.Type, 0, len(args))
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	for _, a := range args {
		t, eff, s, err := synthesize(ctx, a, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		argTypes = append(argTypes, t)
		effect = types.Combine(effect, eff)
		subst = types.Compose(s, subst)
	}
	return argTypes, effect, subst, nil
}

// synthesizeLambda builds a Lambda's own nested-Function type, with its
// body's effect attached to the innermost layer — this is the latent
// effect a later lambda-dependent lift reads back out via
// innermostEffect, without ever touching the registry (spec.md §4.8
// "lambda").
func synthesizeLambda(ctx *Context, n *ast.Lambda, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	inner := NewScope(scope)
	paramTypes := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		paramTypes[i] = bindPattern(ctx, inner, p)
	}
	bodyType, bodyEffect, subst, err := synthesizeBlock(ctx, n.Body, inner)
	if err != nil {
		return nil, nil, nil, err
	}
	return buildNestedFunction(paramTypes, bodyEffect, bodyType), types.Empty{}, subst, nil
}

// synthesizeFunctionCapture resolves `&M.f/n` (or `&f/n`, Module == "")
// to its effect via the same registry/SCC/unknown resolution order as
// any other call target, building an arity-shaped Function chain with
// unconstrained Any parameters and result (this closed type system has
// no function-signature catalogue beyond effects for captured values).
func synthesizeFunctionCapture(ctx *Context, n *ast.FunctionCapture) (types.Type, types.Effect, types.Subst, error) {
	module := n.Module
	if module == "" {
		module = ctx.ModuleName
	}
	mfa := registry.MFA{Module: module, Function: n.Function, Arity: n.Arity}
	effect := ctx.effectFor(mfa)
	params := make([]types.Type, n.Arity)
	for i := range params {
		params[i] = types.Any
	}
	return buildNestedFunction(params, effect, types.Any), types.Empty{}, types.Subst{}, nil
}

// synthesizeAnonCapture desugars `&(... &1 ... &2 ...)` into a Lambda of
// the recorded placeholder arity: bind "&1".."&N" as fresh parameters in
// a child scope, synthesize the body, and build the same nested-Function
// shape a literal Lambda would (spec.md §4.8 "anonymous capture").
func synthesizeAnonCapture(ctx *Context, n *ast.AnonCapture, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	inner := NewScope(scope)
	paramTypes := make([]types.Type, n.Arity)
	for i := 0; i < n.Arity; i++ {
		t := ctx.FreshType()
		inner.Bind(placeholderName(i+1), t)
		paramTypes[i] = t
	}
	bodyType, bodyEffect, subst, err := synthesize(ctx, n.Body, inner)
	if err != nil {
		return nil, nil, nil, err
	}
	return buildNestedFunction(paramTypes, bodyEffect, bodyType), types.Empty{}, subst, nil
}

// synthesizeMatch implements `pattern = value` (spec.md §4.8 "let"):
// the value side is analyzed first; if it is a syntactic value (one
// this language's value restriction allows to generalize — a Lambda,
// FunctionCapture, or literal) the bound scheme is closed over every
// type variable not free in the enclosing scope, otherwise it is bound
// monomorphically.
func synthesizeMatch(ctx *Context, n *ast.MatchExpr, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	valType, valEffect, subst, err := synthesize(ctx, n.Value, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	valType = valType.Apply(subst)

	bound := valType
	if isSyntacticValue(n.Value) {
		bound = types.Generalize(valType, scope.freeVars())
	}
	bindPatternTo(ctx, scope, n.Pattern, bound)
	return valType, valEffect, subst, nil
}

func isSyntacticValue(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Lambda, *ast.FunctionCapture, *ast.AnonCapture,
		*ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral,
		*ast.StringLiteral, *ast.AtomLiteral, *ast.NilLiteral:
		return true
	default:
		return false
	}
}

// bindPatternTo binds pattern against an already-known type (from a
// match's right-hand side) only when the pattern is a bare variable;
// any other pattern is bound through bindPattern's own fresh variables,
// without reference to t.
func bindPatternTo(ctx *Context, scope *Scope, p ast.Pattern, t types.Type) {
	if pv, ok := p.(*ast.PatternVar); ok {
		scope.Bind(pv.Name, t)
		return
	}
	bindPattern(ctx, scope, p)
}

func synthesizeIf(ctx *Context, n *ast.IfExpr, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	// spec.md §4.8: "check cond against bool; synthesize both branches."
	// The condition's effect is left unconstrained (a fresh effect var
	// unifies with anything) since a side-effecting condition is still
	// perfectly legal — only its type is checked.
	condEffect, subst, err := check(ctx, n.Cond, types.Bool, ctx.FreshEffect(), scope)
	if err != nil {
		return nil, nil, nil, err
	}
	thenType, thenEffect, s1, err := synthesizeBlock(ctx, n.Then, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	subst = types.Compose(s1, subst)
	effect := types.Combine(condEffect, thenEffect)

	var resultType types.Type = thenType
	if n.Else != nil {
		elseType, elseEffect, s2, err := synthesizeBlock(ctx, n.Else, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		subst = types.Compose(s2, subst)
		effect = types.Combine(effect, elseEffect)
		if us, uerr := unify.Unify(thenType, elseType); uerr == nil {
			subst = types.Compose(us, subst)
			resultType = thenType.Apply(us)
		} else {
			resultType = types.Union{Alternatives: []types.Type{thenType, elseType}}
		}
	} else {
		resultType = types.Union{Alternatives: []types.Type{thenType, types.Atom}}
	}
	return resultType, effect, subst, nil
}

func synthesizeCase(ctx *Context, n *ast.CaseExpr, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	subjectType, subjectEffect, subst, err := synthesize(ctx, n.Subject, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	effect := subjectEffect
	var alternatives []types.Type

	for _, cl := range n.Clauses {
		clScope := NewScope(scope)
		patType := bindPattern(ctx, clScope, cl.Pattern)
		if s, uerr := unify.Unify(patType, subjectType); uerr == nil {
			subst = types.Compose(s, subst)
		}
		if cl.Guard != nil {
			_, guardEff, _, gerr := synthesize(ctx, cl.Guard, clScope)
			if gerr == nil {
				effect = types.Combine(effect, guardEff)
			}
		}
		bodyType, bodyEffect, s, err := synthesizeBlock(ctx, cl.Body, clScope)
		if err != nil {
			continue
		}
		subst = types.Compose(s, subst)
		effect = types.Combine(effect, bodyEffect)
		alternatives = append(alternatives, bodyType)
	}

	if len(alternatives) == 0 {
		return types.Any, effect, subst, nil
	}
	result := alternatives[0]
	allUnify := true
	for _, alt := range alternatives[1:] {
		if s, uerr := unify.Unify(result, alt); uerr == nil {
			subst = types.Compose(s, subst)
			result = result.Apply(s)
		} else {
			allUnify = false
			break
		}
	}
	if !allUnify {
		result = types.Union{Alternatives: alternatives}
	}
	return result, effect, subst, nil
}

func synthesizeTuple(ctx *Context, n *ast.TupleLit, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	elems := make([]types.Type, len(n.Elements))
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	for i, e := range n.Elements {
		t, eff, s, err := synthesize(ctx, e, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		elems[i] = t
		effect = types.Combine(effect, eff)
		subst = types.Compose(s, subst)
	}
	return types.Tuple{Elements: elems}, effect, subst, nil
}

func synthesizeList(ctx *Context, n *ast.ListLit, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	elem := types.Type(ctx.FreshType())
	for i, e := range n.Elements {
		t, eff, s, err := synthesize(ctx, e, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		effect = types.Combine(effect, eff)
		subst = types.Compose(s, subst)
		if i == 0 {
			elem = t
		} else if us, uerr := unify.Unify(elem, t); uerr == nil {
			subst = types.Compose(us, subst)
			elem = elem.Apply(us)
		} else {
			elem = types.Any
		}
	}
	if n.Tail != nil {
		_, eff, s, err := synthesize(ctx, n.Tail, scope)
		if err == nil {
			effect = types.Combine(effect, eff)
			subst = types.Compose(s, subst)
		}
	}
	return types.List{Elem: elem}, effect, subst, nil
}

func synthesizeMap(ctx *Context, n *ast.MapLit, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	keyType := types.Type(types.Atom)
	valType := types.Type(ctx.FreshType())
	for i, p := range n.Pairs {
		_, keff, ks, err := synthesize(ctx, p.Key, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		vt, veff, vs, err := synthesize(ctx, p.Value, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		effect = types.Combine(types.Combine(effect, keff), veff)
		subst = types.Compose(vs, types.Compose(ks, subst))
		if i == 0 {
			valType = vt
		} else if us, uerr := unify.Unify(valType, vt); uerr == nil {
			subst = types.Compose(us, subst)
			valType = valType.Apply(us)
		} else {
			valType = types.Any
		}
	}
	return types.Map{Key: keyType, Value: valType}, effect, subst, nil
}

func synthesizeBinary(ctx *Context, n *ast.BinaryLit, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	for _, seg := range n.Segments {
		_, veff, vs, err := synthesize(ctx, seg.Value, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		effect = types.Combine(effect, veff)
		subst = types.Compose(vs, subst)
		if seg.Size != nil {
			_, seff, ss, err := synthesize(ctx, seg.Size, scope)
			if err == nil {
				effect = types.Combine(effect, seff)
				subst = types.Compose(ss, subst)
			}
		}
	}
	return types.String, effect, subst, nil
}

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var booleanOps = map[string]bool{"and": true, "or": true}

func synthesizeBinaryOp(ctx *Context, n *ast.BinaryOp, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	lt, leff, ls, err := synthesize(ctx, n.Left, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	rt, reff, rs, err := synthesize(ctx, n.Right, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	effect := types.Combine(leff, reff)
	subst := types.Compose(rs, ls)

	switch {
	case comparisonOps[n.Op] || booleanOps[n.Op]:
		return types.Bool, effect, subst, nil
	case n.Op == "<>" || n.Op == "++":
		if s, uerr := unify.Unify(lt, rt); uerr == nil {
			subst = types.Compose(s, subst)
			return lt.Apply(s), effect, subst, nil
		}
		return lt, effect, subst, nil
	default:
		if s, uerr := unify.Unify(lt, rt); uerr == nil {
			subst = types.Compose(s, subst)
			return lt.Apply(s), effect, subst, nil
		}
		return types.Any, effect, subst, nil
	}
}

func synthesizeUnaryOp(ctx *Context, n *ast.UnaryOp, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	t, eff, s, err := synthesize(ctx, n.Operand, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	if n.Op == "not" || n.Op == "!" {
		return types.Bool, eff, s, nil
	}
	return t, eff, s, nil
}

func synthesizeStruct(ctx *Context, n *ast.StructLit, scope *Scope) (types.Type, types.Effect, types.Subst, error) {
	fields := make(map[string]types.Type, len(n.Pairs))
	var effect types.Effect = types.Empty{}
	subst := types.Subst{}
	for _, p := range n.Pairs {
		vt, veff, vs, err := synthesize(ctx, p.Value, scope)
		if err != nil {
			return nil, nil, nil, err
		}
		effect = types.Combine(effect, veff)
		subst = types.Compose(vs, subst)
		if atom, ok := p.Key.(*ast.AtomLiteral); ok {
			fields[atom.Value] = vt
		}
	}
	return types.Struct{Module: n.Module, Fields: fields}, effect, subst, nil
}
