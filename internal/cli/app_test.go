package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/dataroom/internal/auth"
	"github.com/dmitrijs2005/dataroom/internal/repositories/repomanager"
	"github.com/dmitrijs2005/dataroom/internal/state"
	"github.com/dmitrijs2005/dataroom/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store  *state.Store
	auth   *auth.Service
	engine *storage.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := storage.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	eng := storage.New(db, dialect)
	svc := auth.NewService(db, repomanager.New(dialect), auth.Options{Secret: "test"}, nil)
	return &testEnv{
		store:  state.New(eng, nil, state.WithGate(svc)),
		auth:   svc,
		engine: eng,
	}
}

func (e *testEnv) app(in string, out io.Writer, exportDir string) *App {
	return NewApp(Deps{
		Store:     e.store,
		Auth:      e.auth,
		Stats:     e.engine,
		ExportDir: exportDir,
		In:        strings.NewReader(in),
		Out:       out,
	})
}

// stubPassword answers every password prompt with pw.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	stubPasswords(t, pw)
}

// stubPasswords answers password prompts with pws in order and repeats the
// last one afterwards. A fresh slice is returned each time because callers
// wipe it.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	next := 0
	getPassword = func(*bufio.Reader, string, io.Writer) ([]byte, error) {
		pw := pws[min(next, len(pws)-1)]
		next++
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestApp_GuestIsGated(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer

	env.app(script("ls", "mkdir A", "whoami"), &out, "").Run(context.Background())

	assert.Equal(t, 2, strings.Count(out.String(), "Please login first."))
	assert.Contains(t, out.String(), "Not logged in.")
	assert.Contains(t, out.String(), "dataroom:(guest)> ")
}

func TestApp_FullSession(t *testing.T) {
	env := newTestEnv(t)
	stubPassword(t, "password1")

	src := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7 body"), 0o600))
	exportDir := t.TempDir()

	var out bytes.Buffer
	env.app(script(
		"register alice",
		"login alice",
		"mkdir Docs",
		"cd Docs",
		"pwd",
		"upload "+src,
		"upload "+src,
		"rename \"report (1).pdf\" final.pdf",
		"rename report.pdf final.pdf",
		"export final.pdf",
		"search FINAL",
		"clear",
		"cd ..",
		"stats",
		"rm Docs",
		"stats",
		"exit",
	), &out, exportDir).Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "Registered alice.")
	assert.Contains(t, got, "Logged in as alice")
	assert.Contains(t, got, "/Docs\n")
	assert.Contains(t, got, "dataroom:/Docs (alice)> ")
	assert.Contains(t, got, "uploaded report.pdf (13 B)")
	assert.Contains(t, got, "uploaded report.pdf as report (1).pdf (13 B)")
	assert.Contains(t, got, "Error: name already exists")
	assert.Contains(t, got, "Search results")
	assert.Contains(t, got, "1 folders, 2 files, 26 B total")
	assert.Contains(t, got, "Deleted folder Docs and its contents")
	assert.Contains(t, got, "0 folders, 0 files, 0 B total")

	exported, err := os.ReadFile(filepath.Join(exportDir, "final.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 body"), exported)
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	stubPassword(t, "password1")
	ctx := context.Background()

	var first bytes.Buffer
	env.app(script("register bob", "login bob", "mkdir Kept", "exit"), &first, "").Run(ctx)

	var second bytes.Buffer
	env.app(script("ls", "logout", "ls", "exit"), &second, "").Run(ctx)

	got := second.String()
	assert.Contains(t, got, "Resuming session for bob")
	assert.Contains(t, got, "Kept")
	assert.Contains(t, got, "Logged out.")
	assert.Contains(t, got, "Please login first.")
}

func TestApp_LoginFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stubPassword(t, "password1")
	var out bytes.Buffer
	env.app(script("register carol"), &out, "").Run(ctx)

	stubPassword(t, "wrong-password")
	out.Reset()
	env.app(script("login carol", "ls"), &out, "").Run(ctx)

	assert.Contains(t, out.String(), "Error: invalid username or password")
	assert.Contains(t, out.String(), "Please login first.")
}

func TestApp_UploadMissingPath(t *testing.T) {
	env := newTestEnv(t)
	stubPassword(t, "password1")

	var out bytes.Buffer
	env.app(script(
		"register dave",
		"login dave",
		"upload "+filepath.Join(t.TempDir(), "nope.pdf"),
		"cd Missing",
		"rm ghost",
		"export ghost.pdf",
	), &out, t.TempDir()).Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "skipped")
	assert.Contains(t, got, "Error: 1 of 1 files not uploaded")
	assert.Contains(t, got, `Error: no folder named "Missing" here`)
	assert.Contains(t, got, `Error: nothing named "ghost" here`)
	assert.Contains(t, got, `Error: no file named "ghost.pdf" here`)
}

func TestApp_PasswdAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	stubPasswords(t, "password1", "password1", "password1", "newpass99", "newpass99")

	var out bytes.Buffer
	env.app(script(
		"register erin",
		"login erin",
		"refresh",
		"passwd",
		"logout",
		"login erin",
		"whoami",
		"exit",
	), &out, "").Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "Session extended until")
	assert.Contains(t, got, "Password changed.")
	assert.Equal(t, 2, strings.Count(got, "Logged in as erin"))
	assert.NotContains(t, got, "Error:")
}

func TestApp_PasswdRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stubPasswords(t, "password1", "password1", "password1", "newpass99", "different9")
	var out bytes.Buffer
	env.app(script("register frank", "login frank", "passwd", "exit"), &out, "").Run(ctx)
	assert.Contains(t, out.String(), "Error: passwords do not match")

	stubPasswords(t, "wrong-password")
	out.Reset()
	env.app(script("passwd", "exit"), &out, "").Run(ctx)
	assert.Contains(t, out.String(), "Error: invalid username or password")

	stubPasswords(t, "password1")
	out.Reset()
	env.app(script("logout", "login frank", "exit"), &out, "").Run(ctx)
	assert.Contains(t, out.String(), "Logged in as frank")
}

func TestApp_AnnouncesStoreActivity(t *testing.T) {
	env := newTestEnv(t)
	stubPassword(t, "password1")

	src := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o600))

	var out bytes.Buffer
	app := env.app(script("register gina", "login gina", "upload "+src+" "+src, "search a", "exit"), &out, "")
	app.Run(context.Background())

	got := out.String()
	assert.Equal(t, 1, strings.Count(got, "Uploading..."), "announced once per batch")
	assert.Equal(t, 1, strings.Count(got, "Searching..."))
	assert.Less(t, strings.Index(got, "Uploading..."), strings.Index(got, "uploaded a.pdf"))

	// Run removed its subscription on exit.
	require.NoError(t, env.store.SearchItems(context.Background(), "a"))
	assert.Equal(t, 1, strings.Count(out.String(), "Searching..."))
}
