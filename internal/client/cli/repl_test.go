package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) {}
	t.Cleanup(func() { printlnFn = orig })
}

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Apply(ctx context.Context) error {
	f.calls = append(f.calls, "apply")
	return nil
}
func (f *fakeExec) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}
func (f *fakeExec) Show(ctx context.Context, id string) error {
	f.calls = append(f.calls, "show")
	f.arg = id
	return nil
}
func (f *fakeExec) Approve(ctx context.Context, id string) error {
	f.calls = append(f.calls, "approve")
	f.arg = id
	return nil
}

func runWith(t *testing.T, exec *fakeExec, input string) {
	t.Helper()
	silencePrintln(t)
	sc := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), exec, func() string { return "" }, sc)
}

func TestRunREPL_HelpThenQuit(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "help\nquit\n")
	require.Empty(t, exec.calls)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "login\napply\nlist\nlogout\nexit\n")
	require.Equal(t, []string{"login", "apply", "list", "logout"}, exec.calls)
}

func TestRunREPL_ListShortcut(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "l\nexit\n")
	require.Equal(t, []string{"list"}, exec.calls)
}

func TestRunREPL_ShowPassesArgument(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "show abc-123\nexit\n")
	require.Equal(t, []string{"show"}, exec.calls)
	require.Equal(t, "abc-123", exec.arg)
}

func TestRunREPL_ShowWithoutArgumentIsUsageError(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "show\napprove\nexit\n")
	require.Empty(t, exec.calls)
}

func TestRunREPL_UnknownCommandKeepsLooping(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "frobnicate\nlogin\nexit\n")
	require.Equal(t, []string{"login"}, exec.calls)
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	runWith(t, exec, "list\n")
	require.Equal(t, []string{"list"}, exec.calls)
}
