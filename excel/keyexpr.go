package excel

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// programCache holds compiled key expressions: expression string → *vm.Program.
var programCache sync.Map

// KeyExpr builds a KeyFunc from an expr-lang expression. The expression sees
//
//	row   []any   the row's data cells (nil, float64, string, bool or time.Time)
//	index int     the 0-based physical row index
//	sheet string  the sheet name
//
// e.g. `row[0] + "/" + row[2]` or `sheet + ":" + string(row[1])`.
func KeyExpr(expression string) (KeyFunc, error) {
	if expression == "" {
		return nil, fmt.Errorf("empty key expression")
	}
	program, err := compileKeyExpr(expression)
	if err != nil {
		return nil, fmt.Errorf("compile key expression %q: %w", expression, err)
	}
	return func(r Row) (any, error) {
		out, err := expr.Run(program, keyEnv(r))
		if err != nil {
			return nil, fmt.Errorf("evaluate key expression %q: %w", expression, err)
		}
		return out, nil
	}, nil
}

func compileKeyExpr(expression string) (*vm.Program, error) {
	if cached, ok := programCache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(keyEnv(Row{})), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	programCache.Store(expression, program)
	return program, nil
}

func keyEnv(r Row) map[string]any {
	cells := make([]any, len(r.Values))
	for i, v := range r.Values {
		cells[i] = v.Interface()
	}
	return map[string]any{
		"row":   cells,
		"index": r.Index,
		"sheet": r.Sheet,
	}
}
