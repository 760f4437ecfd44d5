//go:build js && wasm

package web

import (
	"context"
	"errors"
	"syscall/js"
)

// blobFile is a File from an <input type=file>.
type blobFile struct {
	v js.Value
}

func (f blobFile) Name() string { return f.v.Get("name").String() }

// ReadAll awaits Blob.arrayBuffer(). It must not be called from a JS
// callback; the controller calls it from its own goroutine.
func (f blobFile) ReadAll(ctx context.Context) ([]byte, error) {
	type result struct {
		buf js.Value
		err error
	}
	// The promise may settle after ctx is done, so the callbacks release
	// themselves rather than being released on return.
	ch := make(chan result, 1)
	var ok, fail js.Func
	settle := func(r result) {
		ch <- r
		ok.Release()
		fail.Release()
	}
	ok = js.FuncOf(func(_ js.Value, args []js.Value) any {
		settle(result{buf: args[0]})
		return nil
	})
	fail = js.FuncOf(func(_ js.Value, args []js.Value) any {
		msg := "arrayBuffer failed"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		settle(result{err: errors.New(msg)})
		return nil
	})
	f.v.Call("arrayBuffer").Call("then", ok, fail)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		arr := js.Global().Get("Uint8Array").New(r.buf)
		data := make([]byte, arr.Get("length").Int())
		js.CopyBytesToGo(data, arr)
		return data, nil
	}
}
