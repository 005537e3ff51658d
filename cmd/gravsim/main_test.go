package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func runID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "run id: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no run id in output:\n%s", out)
	return ""
}

func TestRunAndInspect(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "run", "solar", "--time", "0.01", "--seed", "3", "--data", data)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Mercury", "Neptune", "Δkinetic", "drift", "angular_momentum_drift"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q", want)
		}
	}
	id := runID(t, out)

	out, err = execute(t, "list", "--data", data)
	if err != nil || !strings.Contains(out, id) {
		t.Errorf("list did not show %s: %v\n%s", id, err, out)
	}

	out, err = execute(t, "show", id, "--data", data)
	if err != nil || !strings.Contains(out, "Earth") {
		t.Errorf("show failed: %v\n%s", err, out)
	}

	out, err = execute(t, "plot", id, "--data", data)
	if err != nil || !strings.Contains(out, "total energy") {
		t.Errorf("plot failed: %v\n%s", err, out)
	}

	out, err = execute(t, "export-json", id, "--data", data)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var exported storage.ExportData
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("export is not JSON: %v\n%s", err, out)
	}
	if exported.Run.Seed != 3 || exported.Run.Particles != 9 || len(exported.History) < 2 {
		t.Errorf("unexpected export %+v", exported.Run)
	}
}

func TestRunNoSave(t *testing.T) {
	data := filepath.Join(t.TempDir(), "runs")
	out, err := execute(t, "run", "random", "-n", "5", "--time", "0.01", "--no-save", "--data", data)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "run id:") {
		t.Error("run should not be stored")
	}
	if _, err := os.Stat(data); !os.IsNotExist(err) {
		t.Error("data directory should not be created")
	}
}

func TestRunEnsemble(t *testing.T) {
	out, err := execute(t, "run", "random", "-n", "4", "--time", "0.01", "--ensemble", "3", "--data", t.TempDir())
	if err != nil {
		t.Fatalf("ensemble failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "drift mean") || !strings.Contains(out, "SEED") {
		t.Errorf("unexpected ensemble output:\n%s", out)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"run", "galaxy"},
		{"run", "solar", "--dt", "0"},
		{"run", "solar", "--epsilon", "-1"},
		{"run", "solar", "--time", "1e300"},
		{"run", "solar", "--preset", "missing"},
		{"run", "solar", "--config", "does-not-exist.yaml"},
	}
	for _, args := range tests {
		if _, err := execute(t, append(args, "--no-save")...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestResolveConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := config.DefaultConfig()
	cfg.Generator = "random"
	cfg.NumParticles = 7
	cfg.Dt = 0.002
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	runCmd, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatal(err)
	}
	if err := runCmd.ParseFlags([]string{"--config", path, "--dt", "0.005"}); err != nil {
		t.Fatal(err)
	}

	got, err := resolveConfig(runCmd, nil)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if got.Generator != "random" || got.NumParticles != 7 {
		t.Errorf("config file values lost: %+v", got)
	}
	if got.Dt != 0.005 {
		t.Errorf("explicit flag should win, dt = %v", got.Dt)
	}
}

func TestScale(t *testing.T) {
	out, err := execute(t, "scale", "--sizes", "4,8", "--time", "0.005")
	if err != nil {
		t.Fatalf("scale failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "PER STEP") || strings.Count(out, "serial") != 2 {
		t.Errorf("unexpected scale output:\n%s", out)
	}
}

func TestPresetsAndInitConfig(t *testing.T) {
	out, _ := execute(t, "presets", "solar")
	if !strings.Contains(out, "century") {
		t.Errorf("presets output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "gravsim.yaml")
	if _, err := execute(t, "init-config", path); err != nil {
		t.Fatalf("init-config failed: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if _, err := execute(t, "init-config", path); err == nil {
		t.Error("expected refusal to overwrite")
	}
	if _, err := execute(t, "init-config", path, "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}
