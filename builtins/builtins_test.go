package builtins

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// testShell is a context over an in-memory filesystem with every builtin
// wired in.
type testShell struct {
	ctx *interp.Context
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestShell(t *testing.T) *testShell {
	t.Helper()
	var out, errOut bytes.Buffer
	ctx := interp.NewContext(afero.NewMemMapFs(), interp.IO{
		In:  strings.NewReader(""),
		Out: &out,
		Err: &errOut,
	})
	for name, builtin := range AllBuiltins {
		ctx.Builtins[name] = builtin
	}
	return &testShell{ctx: ctx, out: &out, err: &errOut}
}

func (s *testShell) run(builtin BuiltinFunc, args ...string) int {
	return builtin(s.ctx, s.ctx.IO, args)
}

func TestEcho(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, 0, s.run(Echo, "hello", "world"))
	assert.Equal(t, "hello world\n", s.out.String())

	s = newTestShell(t)
	s.run(Echo, "-n", "abc")
	assert.Equal(t, "abc", s.out.String())

	s = newTestShell(t)
	s.run(Echo, "-e", `a\tb\n`)
	assert.Equal(t, "a\tb\n\n", s.out.String())
}

func TestAliasDefineAndShow(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, 0, s.run(Alias, "ll", "=", "ls", "-l"))
	assert.Equal(t, "ls -l", s.ctx.Aliases["ll"])

	s.out.Reset()
	assert.Equal(t, 0, s.run(Alias, "ll"))
	assert.Equal(t, "alias ll = \"ls -l\"\n", s.out.String())

	assert.Equal(t, 1, s.run(Alias, "missing"))
}

func TestAliasListGolden(t *testing.T) {
	s := newTestShell(t)
	s.run(Alias, "v", "=", "vim")
	s.run(Alias, "ll", "=", "ls", "-l")
	s.out.Reset()
	require.Equal(t, 0, s.run(Alias))

	g := goldie.New(t)
	g.Assert(t, "alias_list", s.out.Bytes())
}

func TestUnalias(t *testing.T) {
	s := newTestShell(t)
	s.ctx.Aliases["ll"] = "ls -l"
	assert.Equal(t, 0, s.run(Unalias, "ll"))
	assert.NotContains(t, s.ctx.Aliases, "ll")
	assert.Equal(t, 1, s.run(Unalias, "ll"))

	s.ctx.Aliases["a"] = "b"
	assert.Equal(t, 0, s.run(Unalias, "-a"))
	assert.Empty(t, s.ctx.Aliases)
}

func TestCd(t *testing.T) {
	s := newTestShell(t)
	require.NoError(t, s.ctx.FS.MkdirAll("/home/user/projects", 0o755))
	s.ctx.Dir = "/home/user"
	s.ctx.Scope.Declare("PWD", interp.Value{Word: "/home/user"})
	s.ctx.Scope.Declare("HOME", interp.Value{Word: "/home/user"})

	assert.Equal(t, 0, s.run(Cd, "projects"))
	assert.Equal(t, "/home/user/projects", s.ctx.Dir)
	assert.Equal(t, "/home/user/projects", s.ctx.GetVar("PWD"))
	assert.Equal(t, "/home/user", s.ctx.GetVar("OLDPWD"))

	// cd - swaps back and prints the target.
	assert.Equal(t, 0, s.run(Cd, "-"))
	assert.Equal(t, "/home/user", s.ctx.Dir)
	assert.Equal(t, "/home/user\n", s.out.String())

	// cd with no argument goes home.
	assert.Equal(t, 0, s.run(Cd, "projects"))
	assert.Equal(t, 0, s.run(Cd))
	assert.Equal(t, "/home/user", s.ctx.Dir)

	assert.Equal(t, 1, s.run(Cd, "missing"))
}

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/a/b/../c", "/a/c"},
		{"/a/./b", "/a/b"},
		{"/..", "/"},
		{"a/../b", "b"},
		{"a/..", "."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePath(tc.in), tc.in)
	}
}

func TestExit(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, 3, s.run(Exit, "3"))
	code, requested := s.ctx.ExitRequested()
	assert.True(t, requested)
	assert.Equal(t, 3, code)

	// Codes reduce modulo 256.
	s = newTestShell(t)
	assert.Equal(t, 1, s.run(Exit, "257"))
}

func TestTrueFalse(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, 0, s.run(True))
	assert.Equal(t, 1, s.run(False))
}

func TestExportGolden(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, 0, s.run(Export, "ALPHA=1"))
	assert.Equal(t, 0, s.run(Export, "BETA=two"))
	s.out.Reset()
	require.Equal(t, 0, s.run(Export))

	g := goldie.New(t)
	g.Assert(t, "export_list", s.out.Bytes())
}

func TestExportExistingVariable(t *testing.T) {
	s := newTestShell(t)
	s.ctx.Scope.Declare("NAME", interp.Value{Word: "x"})
	assert.Equal(t, 0, s.run(Export, "NAME"))
	assert.Contains(t, s.ctx.Scope.Environ(), "NAME=x")
}

func TestUnset(t *testing.T) {
	s := newTestShell(t)
	s.ctx.Scope.Declare("x", interp.Value{Word: "1"})
	assert.Equal(t, 0, s.run(Unset, "x"))
	_, ok := s.ctx.Scope.Get("x")
	assert.False(t, ok)
}

func TestPwd(t *testing.T) {
	s := newTestShell(t)
	s.ctx.Dir = "/tmp"
	assert.Equal(t, 0, s.run(Pwd))
	assert.Equal(t, "/tmp\n", s.out.String())
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("2")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	d, err = parseDuration("0.5")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	d, err = parseDuration("10ms")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, d)

	_, err = parseDuration("soon")
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	s := newTestShell(t)
	script := "greeting := hello\nalias hi = \"echo hi\"\n"
	require.NoError(t, afero.WriteFile(s.ctx.FS, "/init.pjsh", []byte(script), 0o644))

	assert.Equal(t, 0, s.run(Source, "/init.pjsh"))
	assert.Equal(t, "hello", s.ctx.GetVar("greeting"))
	assert.Equal(t, "echo hi", s.ctx.Aliases["hi"])

	assert.Equal(t, 1, s.run(Source, "/missing.pjsh"))
}

func TestType(t *testing.T) {
	s := newTestShell(t)
	s.ctx.Aliases["ll"] = "ls -l"
	assert.Equal(t, 0, s.run(Type, "ll", "echo"))
	assert.Equal(t, "ll is an alias for \"ls -l\"\necho is a shell builtin\n", s.out.String())

	assert.Equal(t, 1, s.run(Type, "nope"))
}

func TestWhich(t *testing.T) {
	s := newTestShell(t)
	require.NoError(t, afero.WriteFile(s.ctx.FS, "/usr/bin/tool", []byte("#!"), 0o755))
	s.ctx.Scope.Declare("PATH", interp.Value{Word: "/bin:/usr/bin"})

	assert.Equal(t, 0, s.run(Which, "tool"))
	assert.Equal(t, "/usr/bin/tool\n", s.out.String())

	assert.Equal(t, 1, s.run(Which, "nope"))
}

func TestWhichPathext(t *testing.T) {
	s := newTestShell(t)
	require.NoError(t, afero.WriteFile(s.ctx.FS, "/bin/tool.exe", []byte("#!"), 0o755))
	s.ctx.Scope.Declare("PATH", interp.Value{Word: "/bin"})
	s.ctx.Scope.Declare("PATHEXT", interp.Value{Word: ".com;.exe"})

	assert.Equal(t, 0, s.run(Which, "tool"))
	assert.Equal(t, "/bin/tool.exe\n", s.out.String())
}

func TestInterpolate(t *testing.T) {
	s := newTestShell(t)
	s.ctx.Scope.Declare("name", interp.Value{Word: "world"})
	assert.Equal(t, 0, s.run(Interpolate, "hello $name"))
	assert.Equal(t, "hello world\n", s.out.String())
}

func TestHelpFlag(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, 0, s.run(Echo, "--help"))
	assert.Contains(t, s.out.String(), "usage: echo")
}
