package hcloud

import (
	"context"
	"strings"
)

// FakeRunner answers invocations through Handle and records every call.
type FakeRunner struct {
	Handle func(args []string) (string, error)
	Calls  []Call
}

// Call is one recorded invocation.
type Call struct {
	Token string
	Args  []string
}

var _ Runner = &FakeRunner{}

func (f *FakeRunner) Run(_ context.Context, token string, args ...string) (string, error) {
	f.Calls = append(f.Calls, Call{Token: token, Args: append([]string(nil), args...)})
	if f.Handle == nil {
		return "", nil
	}
	return f.Handle(args)
}

// Commands returns the recorded calls joined as strings.
func (f *FakeRunner) Commands() []string {
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, strings.Join(c.Args, " "))
	}
	return out
}
