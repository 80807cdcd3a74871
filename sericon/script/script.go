// Package script runs a Lua boot script that drives the console.
//
// The script sees two globals:
//
//	send(line)  dispatch line as if it had been typed
//	log(msg)    write msg to the diagnostic log
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"sericon/hal"
)

// Sender dispatches one console line.
type Sender func(line string)

// RunFile executes the script at path. Errors carry the Lua position.
func RunFile(path string, send Sender, logger hal.Logger) error {
	L := newState(send, logger)
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes src.
func RunString(src string, send Sender, logger hal.Logger) error {
	L := newState(send, logger)
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func newState(send Sender, logger hal.Logger) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	L.SetGlobal("send", L.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		if send != nil {
			send(line)
		}
		return 0
	}))
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if logger != nil {
			logger.WriteLineString("script: " + msg)
		}
		return 0
	}))
	return L
}
