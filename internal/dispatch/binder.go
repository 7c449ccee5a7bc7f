// Sophrosyne
//   Copyright (C) 2024  Mads R. Havmand
//
// This program is free software: you can redistribute it and/or modify
//   it under the terms of the GNU Affero General Public License as published by
//   the Free Software Foundation, either version 3 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU Affero General Public License for more details.
//
//   You should have received a copy of the GNU Affero General Public License
//   along with this program.  If not, see <http://www.gnu.org/licenses/>.

package dispatch

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/arena"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

// MaxBusinessParams is the arity cap on a handler's business parameters.
const MaxBusinessParams = 9

var (
	dispatchCtxPtrType = reflect.TypeOf((*DispatchCtx)(nil))
	arenaPtrType       = reflect.TypeOf((*arena.Arena)(nil))
	resultType         = reflect.TypeOf(Result{})
)

// binding is the compiled, reusable plan for invoking one handler function.
type binding struct {
	fn               reflect.Value
	ctxPtr           reflect.Value // zero Value if unbound
	wantsDispatchCtx bool
	wantsArena       bool
	businessTypes    []reflect.Type
	returnsError     bool
	returnsResult    bool // fn's value return is itself a pre-formed Result
	void             bool
}

// Bind adapts fn, a host function with no user-bound context pointer, into
// a uniform [Handler]. See [BindWithCtx] for handlers registered with one.
//
// Bind failures surface as the registration sentinels in the root package:
// [jrpc.ErrHandlerNotFunction], [jrpc.ErrHandlerTooManyParams],
// [jrpc.ErrHandlerInvalidParameterType], and
// [jrpc.ErrHandlerInvalidReturnType].
func Bind(fn any) (Handler, error) {
	return bind(fn, reflect.Value{})
}

// BindWithCtx adapts fn into a uniform [Handler], additionally passing
// ctxPtr as fn's first argument on every call. fn's first parameter type
// must exactly match ctxPtr's type.
func BindWithCtx(fn any, ctxPtr any) (Handler, error) {
	return bind(fn, reflect.ValueOf(ctxPtr))
}

func bind(fn any, ctxPtr reflect.Value) (Handler, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, jrpc.ErrHandlerNotFunction
	}
	fnType := fnVal.Type()

	b := &binding{fn: fnVal, ctxPtr: ctxPtr}

	pos := 0
	if ctxPtr.IsValid() {
		if fnType.NumIn() == 0 || fnType.In(0) != ctxPtr.Type() {
			return nil, fmt.Errorf("%w: handler's first parameter must be %s to match the bound context", jrpc.ErrHandlerInvalidParameterType, ctxPtr.Type())
		}
		pos++
	}
	if pos < fnType.NumIn() && fnType.In(pos) == dispatchCtxPtrType {
		b.wantsDispatchCtx = true
		pos++
	}
	if pos < fnType.NumIn() && fnType.In(pos) == arenaPtrType {
		b.wantsArena = true
		pos++
	}

	for i := pos; i < fnType.NumIn(); i++ {
		b.businessTypes = append(b.businessTypes, fnType.In(i))
	}
	if len(b.businessTypes) > MaxBusinessParams {
		return nil, jrpc.ErrHandlerTooManyParams
	}
	for _, t := range b.businessTypes {
		if !isAcceptedParamType(t) {
			return nil, fmt.Errorf("%w: %s", jrpc.ErrHandlerInvalidParameterType, t)
		}
	}

	switch fnType.NumOut() {
	case 0:
		b.void = true
	case 1:
		if fnType.Out(0) == errorType {
			b.returnsError = true
			b.void = true
		} else if fnType.Out(0) == resultType {
			b.returnsResult = true
		}
	case 2:
		if fnType.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second return value must be an error", jrpc.ErrHandlerInvalidReturnType)
		}
		b.returnsError = true
		b.returnsResult = fnType.Out(0) == resultType
	default:
		return nil, fmt.Errorf("%w: handler must return at most a value and an error", jrpc.ErrHandlerInvalidReturnType)
	}

	return b.invoke, nil
}

func (b *binding) invoke(ctx *DispatchCtx, params jsonrpc.Params) Result {
	args, err := b.buildArgs(ctx, params)
	if err != nil {
		return ErrResult(&jsonrpc.Error{
			Code:    jsonrpc.InvalidParams,
			Message: jsonrpc.InvalidParamsMessage,
			Data:    err.Error(),
		})
	}

	out := b.fn.Call(args)
	return b.resultFromReturn(ctx, out)
}

func (b *binding) buildArgs(ctx *DispatchCtx, params jsonrpc.Params) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, 3+len(b.businessTypes))
	if b.ctxPtr.IsValid() {
		args = append(args, b.ctxPtr)
	}
	if b.wantsDispatchCtx {
		args = append(args, reflect.ValueOf(ctx))
	}
	if b.wantsArena {
		args = append(args, reflect.ValueOf(ctx.Arena))
	}

	values, err := bindBusinessParams(params, b.businessTypes)
	if err != nil {
		return nil, err
	}
	return append(args, values...), nil
}

// bindBusinessParams implements the params->parameters binding rules: array
// params bind positionally when lengths match; object params bind into a
// single struct parameter; a single raw-value-typed parameter receives the
// whole params value verbatim; a single optional parameter accepts
// absent/null as none or binds directly / from a one-element array.
func bindBusinessParams(params jsonrpc.Params, types []reflect.Type) ([]reflect.Value, error) {
	if len(types) == 0 {
		return nil, nil
	}

	if len(types) == 1 && isRawPassthroughType(types[0]) {
		raw := rawParamsValue(params)
		if types[0] == rawMessageType {
			b, err := json.Marshal(raw)
			if err != nil {
				return nil, err
			}
			return []reflect.Value{reflect.ValueOf(json.RawMessage(b))}, nil
		}
		if raw == nil {
			return []reflect.Value{reflect.Zero(types[0])}, nil
		}
		return []reflect.Value{reflect.ValueOf(raw)}, nil
	}

	switch p := params.(type) {
	case nil:
		if len(types) == 1 && types[0].Kind() == reflect.Ptr {
			return []reflect.Value{reflect.Zero(types[0])}, nil
		}
		if len(types) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("missing required params for %d parameter(s)", len(types))

	case *jsonrpc.ParamsArray:
		arr := []interface{}(*p)
		if len(arr) != len(types) {
			return nil, fmt.Errorf("expected %d params, got %d", len(types), len(arr))
		}
		return bindPositional(arr, types)

	case *jsonrpc.ParamsObject:
		if len(types) != 1 {
			return nil, fmt.Errorf("object params require exactly one struct business parameter")
		}
		t := types[0]
		underlying := t
		if underlying.Kind() == reflect.Ptr {
			underlying = underlying.Elem()
		}
		if underlying.Kind() != reflect.Struct {
			return nil, fmt.Errorf("object params require a struct parameter, got %s", t)
		}
		v, err := convertValue(map[string]interface{}(*p), t)
		if err != nil {
			return nil, err
		}
		return []reflect.Value{v}, nil

	default:
		return nil, fmt.Errorf("unsupported params type %T", params)
	}
}

func bindPositional(arr []interface{}, types []reflect.Type) ([]reflect.Value, error) {
	values := make([]reflect.Value, len(types))
	for i, t := range types {
		v, err := convertValue(arr[i], t)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// isRawPassthroughType reports whether t should receive the whole params
// value verbatim rather than be bound from individual array/object elements.
func isRawPassthroughType(t reflect.Type) bool {
	return t == emptyIfaceType || t == rawMessageType
}

func rawParamsValue(params jsonrpc.Params) interface{} {
	switch p := params.(type) {
	case nil:
		return nil
	case *jsonrpc.ParamsArray:
		return []interface{}(*p)
	case *jsonrpc.ParamsObject:
		return map[string]interface{}(*p)
	default:
		return nil
	}
}

func (b *binding) resultFromReturn(ctx *DispatchCtx, out []reflect.Value) Result {
	if b.returnsError {
		errVal := out[len(out)-1]
		if !errVal.IsNil() {
			err := errVal.Interface().(error)
			return ErrResult(&jsonrpc.Error{
				Code:    jsonrpc.ServerError(0),
				Message: err.Error(),
			})
		}
	}

	if b.void && len(out) <= 1 {
		return NoResult()
	}

	value := out[0].Interface()

	if b.returnsResult {
		// bind established Out(0) == resultType; a mismatch here is a bug,
		// not bad caller input.
		res, ok := value.(Result)
		if !ok {
			panic(jrpc.NewUnreachableCodeError())
		}
		return res
	}

	data, err := json.Marshal(value)
	if err != nil {
		return ErrResult(&jsonrpc.Error{
			Code:    jsonrpc.InternalError,
			Message: jsonrpc.InternalErrorMessage,
			Data:    err.Error(),
		})
	}
	if ctx != nil && ctx.Arena != nil {
		data = ctx.Arena.AllocBytes(data)
	}
	return ValueResult(data)
}
