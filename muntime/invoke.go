package muntime

import (
	"reflect"

	"github.com/mun-lang/mun/internal/errs"
)

// Invoke calls the currently-linked function named name with args,
// marshalled through reflect — primitive arguments pass straight
// through reflect.ValueOf; a GC-kind struct argument is passed as a
// *gc.Handle, matching how package dispatch's definitions are built in
// the first place (see abi.FunctionDef.Fn). It returns every value the
// function returned.
//
// Invoke looks the function up and releases the façade's lock before
// calling it: the call itself runs without f.mu held, so a function that
// calls back into the façade (including Update) never deadlocks against
// its own caller.
func (f *Facade) Invoke(name string, args ...interface{}) ([]interface{}, error) {
	f.mu.Lock()
	def, ok := f.liveDispatch.Get(name)
	f.mu.Unlock()
	if !ok {
		return nil, errs.New(errs.UnresolvedFunction, "no function named %q is linked", name)
	}

	want := len(def.Prototype.Signature.ArgTypes)
	if len(args) != want {
		return nil, errs.New(errs.InvalidArgument, "function %q expects %d argument(s), got %d", name, want, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}

	out := def.Fn.Fn.Call(in)
	results := make([]interface{}, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}
