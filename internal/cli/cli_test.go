package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestOpenStore_Kinds(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.StoreConfig
	}{
		{"memory", config.StoreConfig{Kind: config.StoreMemory}},
		{"file", config.StoreConfig{Kind: config.StoreFile, Path: t.TempDir()}},
		{"redis", config.StoreConfig{Kind: config.StoreRedis, Addr: mr.Addr(), Prefix: "test:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenStore(tt.cfg, logging.NewNop())
			require.NoError(t, err)
			defer b.Close()

			records := []domain.RecoveryRecord{{Name: "Home"}, {Name: "Detail", Param: "7"}}
			require.NoError(t, b.Store.Save(ctx, "main", records))
			got, err := b.Store.Load(ctx, "main")
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}

	assert.True(t, mr.Exists("test:main"))
}

func TestOpenStore_RedactsThenEncrypts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := OpenStore(config.StoreConfig{
		Kind:          config.StoreFile,
		Path:          dir,
		EncryptionKey: testKey,
		Redact:        []string{"(?i)token"},
	}, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, b.Store.Save(ctx, "main", []domain.RecoveryRecord{{Name: "Login", Param: `{"user":"ana","token":"s3cret"}`}}))

	raw, err := os.ReadFile(filepath.Join(dir, "main.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "enc:v1:")

	got, err := b.Store.Load(ctx, "main")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"user":"ana","token":"***"}`, got[0].Param)
}

func TestOpenStore_BadKey(t *testing.T) {
	_, err := OpenStore(config.StoreConfig{Kind: config.StoreMemory, EncryptionKey: "abcd"}, logging.NewNop())
	assert.Error(t, err)
}

func TestRunSimulate_Trace(t *testing.T) {
	var out bytes.Buffer
	err := RunSimulate(context.Background(), SimulateOptions{ScenarioPath: "../scenario/testdata/mail.yaml"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, ">>> Running 'mail client'")
	assert.Contains(t, s, "Inbox.ON_WILL_SHOW")
	assert.Contains(t, s, ">>> main: [Inbox Message]")
}

func TestRunSimulate_JSONAndMermaid(t *testing.T) {
	var out bytes.Buffer
	err := RunSimulate(context.Background(), SimulateOptions{
		ScenarioPath: "../scenario/testdata/mail.yaml",
		JSON:         true,
		Mermaid:      true,
	}, &out)
	require.NoError(t, err)

	doc, diagram, found := strings.Cut(out.String(), "\ngraph LR")
	require.True(t, found, out.String())
	var report scenario.Report
	require.NoError(t, json.Unmarshal([]byte(doc), &report))
	assert.True(t, report.Passed())
	assert.Equal(t, []string{"Inbox", "Message"}, report.Final["main"])
	assert.Contains(t, diagram, `"Message"`)
}

func TestRunSimulate_FailedExpectation(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, dir, "bad.yaml", `
name: bad
routes:
  Home: {}
steps:
  - op: push
    name: Home
  - op: expect
    names: [Nope]
`)
	var out bytes.Buffer
	err := RunSimulate(context.Background(), SimulateOptions{ScenarioPath: path, Report: true}, &out)
	assert.ErrorIs(t, err, ErrScenarioFailed)
	assert.Contains(t, out.String(), "## Failures")
}

func TestRunSimulate_PersistThenStackCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfgPath := testutils.WriteFile(t, dir, "wayfinder.yaml", "store:\n  kind: file\n  path: "+filepath.Join(dir, "stacks")+"\n")
	scPath := testutils.WriteFile(t, dir, "persist.yaml", `
name: persist
routes:
  Home: {}
  Detail: {}
steps:
  - op: set
    names: [Home, Detail]
  - op: persist
`)

	var out bytes.Buffer
	require.NoError(t, RunSimulate(ctx, SimulateOptions{ScenarioPath: scPath, ConfigPath: cfgPath, Quiet: true}, &out))
	assert.Empty(t, out.String())

	opts := StackOptions{ConfigPath: cfgPath}
	ids, err := ListStacks(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, ids)

	records, err := InspectStack(ctx, opts, "main")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Detail", records[1].Name)

	require.NoError(t, RemoveStack(ctx, opts, "main"))
	_, err = InspectStack(ctx, opts, "main")
	assert.ErrorIs(t, err, domain.ErrStackNotFound)
}

func TestCreateLogger_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := createLoggerTo(&buf, config.LogConfig{Level: "error", Format: "json"}, true)
	logger.Debug("hello", "error", "boom")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "boom", line["err"])
}
