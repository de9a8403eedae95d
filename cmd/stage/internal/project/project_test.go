package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveUsesModulePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/games/shooter/v2\n\ngo 1.24\n")

	res, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ModulePath != "example.com/games/shooter/v2" {
		t.Errorf("ModulePath = %q", res.ModulePath)
	}
	if res.AppName != "shooter" {
		t.Errorf("AppName = %q, want %q", res.AppName, "shooter")
	}
	if len(res.Config.Pools) != 0 {
		t.Errorf("expected empty config, got %+v", res.Config)
	}
}

func TestResolveConfigNameWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/shooter\n")
	writeFile(t, filepath.Join(dir, "stage.yaml"), "app:\n  name: Arena\npools:\n  - template: Pools/Bullet\n    initial: 3\n")

	res, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.AppName != "Arena" {
		t.Errorf("AppName = %q, want Arena", res.AppName)
	}
	if len(res.Config.Pools) != 1 || res.Config.Pools[0].PoolName() != "Bullet" {
		t.Errorf("pools = %+v", res.Config.Pools)
	}
}

func TestResolveWithoutGoMod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "arcade")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ModulePath != "" {
		t.Errorf("ModulePath = %q, want empty", res.ModulePath)
	}
	if res.AppName != "arcade" {
		t.Errorf("AppName = %q, want arcade", res.AppName)
	}
}

func TestResolveBadGoMod(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "go 1.24\n")

	if _, err := Resolve(dir); err == nil {
		t.Error("expected error for go.mod without module line")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stage.yaml"), "app:\n  name: x\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	want, _ := filepath.EvalSymlinks(root)
	gotEval, _ := filepath.EvalSymlinks(got)
	if gotEval != want {
		t.Errorf("root = %q, want %q", got, root)
	}
}
