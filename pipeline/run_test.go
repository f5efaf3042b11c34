package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/invoke/frontend"
)

const counterSource = `package counter

//invokegen:group
type Counter struct{ n int }

func (c *Counter) Inc(by int) int { c.n += by; return c.n }

func (c *Counter) Dec(by int) int { c.n -= by; return c.n }
`

const plainSource = `package counter

type Counter struct{ n int }
`

const mismatchSource = `package counter

//invokegen:group
type Bad struct{}

func (Bad) A(x int) int { return x }

func (Bad) B() int { return 0 }

//invokegen:group
type Worse struct{}

func (Worse) A(x int) int { return x }

func (Worse) B(x, y int) int { return x }
`

func load(t *testing.T, dir, src string) []*frontend.Package {
	t.Helper()
	pkg, err := frontend.ParseSource(frontend.Config{Dir: dir}, "example.com/counter", map[string]string{"counter.go": src})
	require.NoError(t, err)
	return []*frontend.Package{pkg}
}

func writeOpts() Options {
	return Options{Output: am.DefaultOutputName, Casing: am.CasingGo}
}

func TestRunWritesThenLeavesUnchanged(t *testing.T) {
	dir := t.TempDir()
	pkgs := load(t, dir, counterSource)
	path := filepath.Join(dir, am.DefaultOutputName)

	res, err := Run(context.Background(), writeOpts(), pkgs)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Files, 1)
	assert.Equal(t, File{Package: "example.com/counter", Path: path, Groups: 1, Status: StatusWritten}, res.Files[0])

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Code generated by invokegen. DO NOT EDIT.")
	assert.Contains(t, string(src), "func (c *Counter) InvokeAll(")

	again, err := Run(context.Background(), writeOpts(), pkgs)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Count(StatusUnchanged))
	assert.NotEqual(t, res.RunID, again.RunID)
}

func TestRunCheckReportsStaleFiles(t *testing.T) {
	dir := t.TempDir()
	pkgs := load(t, dir, counterSource)
	path := filepath.Join(dir, am.DefaultOutputName)

	opts := writeOpts()
	opts.Mode = ModeCheck

	res, err := Run(context.Background(), opts, pkgs)
	require.Error(t, err, "missing file is stale")
	assert.True(t, errors.IsStaleError(err))
	assert.Equal(t, []string{path}, res.Stale())
	assert.NoFileExists(t, path, "check never writes")

	_, err = Run(context.Background(), writeOpts(), pkgs)
	require.NoError(t, err)
	res, err = Run(context.Background(), opts, pkgs)
	require.NoError(t, err)
	assert.Empty(t, res.Stale())

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := append(src, []byte("\n// edited\n")...)
	require.NoError(t, os.WriteFile(path, edited, am.DefaultFilePermissions))

	res, err = Run(context.Background(), opts, pkgs)
	require.Error(t, err)
	assert.True(t, errors.IsStaleError(err))
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, 1, res.Count(StatusStale))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, onDisk)
}

func TestRunHandlesOrphanedOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, am.DefaultOutputName)
	stale := []byte("// Code generated by invokegen. DO NOT EDIT.\n\npackage counter\n")
	require.NoError(t, os.WriteFile(path, stale, am.DefaultFilePermissions))
	pkgs := load(t, dir, plainSource)

	opts := writeOpts()
	opts.Mode = ModeCheck
	res, err := Run(context.Background(), opts, pkgs)
	require.Error(t, err)
	assert.Equal(t, []string{path}, res.Stale())
	assert.FileExists(t, path)

	res, err = Run(context.Background(), writeOpts(), pkgs)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, StatusRemoved, res.Files[0].Status)
	assert.NoFileExists(t, path)

	res, err = Run(context.Background(), writeOpts(), pkgs)
	require.NoError(t, err)
	assert.Empty(t, res.Files, "nothing to report without groups or output")
}

func TestRunKeepsHandWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, am.DefaultOutputName)
	own := []byte("package counter\n\nfunc helper() {}\n")
	require.NoError(t, os.WriteFile(path, own, am.DefaultFilePermissions))

	_, err := Run(context.Background(), writeOpts(), load(t, dir, counterSource))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "was not generated by invokegen")

	res, err := Run(context.Background(), writeOpts(), load(t, dir, plainSource))
	require.NoError(t, err)
	assert.Empty(t, res.Files)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, own, onDisk)
}

func TestRunDryRunPrints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, am.DefaultOutputName)
	var buf bytes.Buffer

	opts := writeOpts()
	opts.Mode = ModeDryRun
	opts.Casing = am.CasingVerbatim
	opts.Out = &buf

	res, err := Run(context.Background(), opts, load(t, dir, counterSource))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count(StatusPrinted))
	assert.Contains(t, buf.String(), "// "+path+"\n")
	assert.Contains(t, buf.String(), "package counter")
	assert.Contains(t, buf.String(), "func (c *Counter) invoke_all(")
	assert.NoFileExists(t, path)
}

func TestRunDescribePrintsYAML(t *testing.T) {
	var buf bytes.Buffer
	opts := writeOpts()
	opts.Mode = ModeDescribe
	opts.Out = &buf

	_, err := Run(context.Background(), opts, load(t, t.TempDir(), counterSource))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("---\n# invokegen output description\n")))
	assert.Contains(t, buf.String(), "name: invoke_all\n")
}

func TestRunReportsEveryFailingGroup(t *testing.T) {
	dir := t.TempDir()
	opts := writeOpts()
	opts.Jobs = 1

	_, err := Run(context.Background(), opts, load(t, dir, mismatchSource))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group Bad")
	assert.Contains(t, err.Error(), "group Worse")
	assert.Contains(t, err.Error(), "counter.go:3")
	assert.NoFileExists(t, filepath.Join(dir, am.DefaultOutputName))
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, writeOpts(), load(t, t.TempDir(), counterSource))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := am.Default()
	cfg.Generate.Jobs = 3
	var buf bytes.Buffer

	opts := OptionsFromConfig(cfg, ModeCheck, &buf)
	assert.Equal(t, Options{
		Output: am.DefaultOutputName,
		Casing: am.CasingGo,
		Jobs:   3,
		Mode:   ModeCheck,
		Out:    &buf,
	}, opts)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "written", StatusWritten.String())
	assert.Equal(t, "stale", StatusStale.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
