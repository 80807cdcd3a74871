package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type recorder struct {
	calls   []string
	unknown []string
	posts   int
}

func (r *recorder) table(t *testing.T, tokens ...string) *Table {
	t.Helper()
	var cmds []Command
	for _, tok := range tokens {
		tok := tok
		cmds = append(cmds, Command{Token: tok, Run: func(a *Args) {
			r.calls = append(r.calls, strings.Join(append([]string{tok}, a.Rest()...), "|"))
		}})
	}
	tbl, err := NewTable(
		func(tok string) { r.unknown = append(r.unknown, tok) },
		func() { r.posts++ },
		cmds...,
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestNewTableRejects(t *testing.T) {
	run := func(*Args) {}
	if _, err := NewTable(nil, nil, Command{Token: "w", Run: run}, Command{Token: "w", Run: run}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: err=%v", err)
	}
	if _, err := NewTable(nil, nil, Command{Token: "", Run: run}); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("empty: err=%v", err)
	}
	if _, err := NewTable(nil, nil, Command{Token: "w"}); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("no handler: err=%v", err)
	}
}

func TestTokenize(t *testing.T) {
	tcs := []struct {
		line string
		want []string
	}{
		{line: `\freq 10`, want: []string{`\freq`, "10"}},
		{line: "  w  ", want: []string{"w"}},
		{line: " ", want: []string{" "}},
		{line: "    ", want: []string{" "}},
		{line: "", want: nil},
		{line: "a\tb", want: []string{"a", "b"}},
	}
	for _, tc := range tcs {
		got := Tokenize(tc.line)
		if strings.Join(got, ",") != strings.Join(tc.want, ",") || len(got) != len(tc.want) {
			t.Fatalf("Tokenize(%q) = %q; want %q", tc.line, got, tc.want)
		}
	}
}

func TestDispatchRoutesAndRunsPost(t *testing.T) {
	r := &recorder{}
	d := New(r.table(t, `\freq`, "w", " "), nil)

	d.Dispatch(`\freq 10 extra`)
	d.Dispatch(" ")
	d.Dispatch("zzz")
	d.Dispatch("")

	if strings.Join(r.calls, ";") != `\freq|10|extra; ` {
		t.Fatalf("calls = %q", r.calls)
	}
	if len(r.unknown) != 1 || r.unknown[0] != "zzz" {
		t.Fatalf("unknown = %q", r.unknown)
	}
	if r.posts != 4 {
		t.Fatalf("posts = %d, want 4", r.posts)
	}
}

func TestDispatchIsExactMatch(t *testing.T) {
	r := &recorder{}
	d := New(r.table(t, "w"), nil)
	d.Dispatch("W")
	d.Dispatch("ww")
	if len(r.calls) != 0 || len(r.unknown) != 2 {
		t.Fatalf("calls=%q unknown=%q", r.calls, r.unknown)
	}
}

func TestFeedAndPollOneLinePerCall(t *testing.T) {
	r := &recorder{}
	d := New(r.table(t, "w", "s"), nil)

	d.Feed([]byte("w\r\ns\n"))
	if d.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", d.Pending())
	}
	if !d.Poll() || len(r.calls) != 1 {
		t.Fatalf("first poll calls = %q", r.calls)
	}
	if !d.Poll() || len(r.calls) != 2 {
		t.Fatalf("second poll calls = %q", r.calls)
	}
	if d.Poll() {
		t.Fatal("poll with nothing buffered reported work")
	}
	if r.posts != 2 {
		t.Fatalf("posts = %d, want 2", r.posts)
	}
}

func TestFeedEchoAndBackspace(t *testing.T) {
	r := &recorder{}
	echo := &bytes.Buffer{}
	d := New(r.table(t, "w"), echo)

	d.Feed([]byte("wx\x7f"))
	if d.State() != Reading {
		t.Fatalf("state = %v, want reading", d.State())
	}
	d.Feed([]byte{'\r'})
	d.Poll()

	if strings.Join(r.calls, ";") != "w" {
		t.Fatalf("calls = %q", r.calls)
	}
	if echo.String() != "wx\b \b\n" {
		t.Fatalf("echo = %q", echo.String())
	}
	if d.State() != Idle {
		t.Fatalf("state = %v, want idle", d.State())
	}
}

func TestFeedDropsControlAndCapsLine(t *testing.T) {
	r := &recorder{}
	d := New(r.table(t), nil)
	d.Feed([]byte{0x1b, 'a', 0x01})
	d.Feed(bytes.Repeat([]byte{'b'}, MaxLine+10))
	d.Feed([]byte{'\n'})
	d.Poll()
	if len(r.unknown) != 1 || len(r.unknown[0]) != MaxLine {
		t.Fatalf("unknown = %d tokens, len %d", len(r.unknown), len(r.unknown[0]))
	}
	if !strings.HasPrefix(r.unknown[0], "ab") {
		t.Fatalf("token = %q", r.unknown[0][:4])
	}
}

func TestStateDuringHandlers(t *testing.T) {
	var d *Dispatcher
	var inRun, inPost State
	tbl, err := NewTable(nil, func() { inPost = d.State() },
		Command{Token: "m", Run: func(*Args) { inRun = d.State() }})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	d = New(tbl, nil)
	d.Dispatch("m")
	if inRun != Dispatching || inPost != PostCommand || d.State() != Idle {
		t.Fatalf("run=%v post=%v after=%v", inRun, inPost, d.State())
	}
}

func TestNilDispatcherAndTable(t *testing.T) {
	var d *Dispatcher
	d.Feed([]byte("w\n"))
	d.Dispatch("w")
	if d.Poll() {
		t.Fatal("nil dispatcher polled a line")
	}

	d = New(nil, nil)
	d.Feed([]byte("w\n"))
	d.Poll()
	d.Dispatch("w")
	if d.State() != Idle {
		t.Fatalf("state = %v", d.State())
	}
}

func TestArgs(t *testing.T) {
	a := NewArgs("10", "x")
	if v, ok := a.Next(); !ok || v != "10" {
		t.Fatalf("Next = %q %v", v, ok)
	}
	if rest := a.Rest(); len(rest) != 1 || rest[0] != "x" {
		t.Fatalf("Rest = %q", rest)
	}
	a.Next()
	if _, ok := a.Next(); ok {
		t.Fatal("Next past end reported ok")
	}
	var nilArgs *Args
	if _, ok := nilArgs.Next(); ok {
		t.Fatal("nil Args reported ok")
	}
}

func TestCRLFWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewCRLFWriter(&out)
	n, err := w.Write([]byte(" freq:60.00\n: "))
	if err != nil || n != 14 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	w.Write([]byte("a"))
	if out.String() != " freq:60.00\r\n: a" {
		t.Fatalf("out = %q", out.String())
	}
}
