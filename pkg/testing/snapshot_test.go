package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-drift/stage/pkg/stage"
)

type fakeT struct {
	name   string
	fatals []string
	errs   []string
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return f.name }
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}
func (f *fakeT) Errorf(format string, args ...any) {
	f.errs = append(f.errs, fmt.Sprintf(format, args...))
}

func newScenario(t *testing.T) *StageTester {
	t.Helper()
	tester := NewStageTesterWithT(t)
	tester.RegisterSurfaces("A", "B", "C")
	if err := tester.Stage.CreatePool("Bullet", tester.RegisterTemplate("Pools/Bullet"), 3); err != nil {
		t.Fatal(err)
	}
	st := tester.Stage
	st.OpenKey("A")
	st.OpenKey("B")
	st.OpenKey("C")
	st.CloseKey("B")
	for i := 0; i < 4; i++ {
		st.Get("Bullet")
	}
	return tester
}

func TestCaptureSnapshot(t *testing.T) {
	snap := newScenario(t).CaptureSnapshot()

	if want := []string{"A", "C"}; !reflect.DeepEqual(snap.Stack, want) {
		t.Errorf("Stack = %v, want %v", snap.Stack, want)
	}
	wantSurfaces := []SurfaceState{
		{Key: "A", Active: true, Order: 1},
		{Key: "B", Active: false, Order: 2},
		{Key: "C", Active: true, Order: 3},
	}
	if !reflect.DeepEqual(snap.Surfaces, wantSurfaces) {
		t.Errorf("Surfaces = %+v, want %+v", snap.Surfaces, wantSurfaces)
	}
	if len(snap.Pools) != 1 {
		t.Fatalf("Pools = %+v", snap.Pools)
	}
	if p := snap.Pools[0]; p.Pool != "Bullet" || p.Created != 4 || p.Free != 0 || p.HighWater != 4 {
		t.Errorf("Pools[0] = %+v", p)
	}
}

func TestSnapshotEmptyStackEncodesAsArray(t *testing.T) {
	tester := NewStageTesterWithT(t)
	data, err := tester.CaptureSnapshot().JSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"stack": []`) {
		t.Errorf("JSON = %s", data)
	}
}

func TestSnapshotMatchesFile(t *testing.T) {
	t.Setenv("STAGE_UPDATE_SNAPSHOTS", "")
	tester := newScenario(t)
	snap := tester.CaptureSnapshot()
	path := filepath.Join(t.TempDir(), "nested", "scenario.snapshot.json")

	ft := &fakeT{name: "TestSnapshotMatchesFile"}
	snap.MatchesFile(ft, path)
	if len(ft.fatals) != 1 || !strings.Contains(ft.fatals[0], "snapshot file missing") {
		t.Fatalf("missing file: fatals = %v", ft.fatals)
	}

	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	ft = &fakeT{name: "TestSnapshotMatchesFile"}
	snap.MatchesFile(ft, path)
	if len(ft.fatals)+len(ft.errs) != 0 {
		t.Fatalf("matching snapshot reported fatals=%v errs=%v", ft.fatals, ft.errs)
	}

	tester.Stage.CloseKey("C")
	changed := tester.CaptureSnapshot()
	ft = &fakeT{name: "TestSnapshotMatchesFile"}
	changed.MatchesFile(ft, path)
	if len(ft.errs) != 1 || !strings.Contains(ft.errs[0], "snapshot mismatch") {
		t.Errorf("changed snapshot: errs = %v", ft.errs)
	}
}

func TestSnapshotUpdateEnv(t *testing.T) {
	t.Setenv("STAGE_UPDATE_SNAPSHOTS", "1")
	snap := newScenario(t).CaptureSnapshot()
	path := filepath.Join(t.TempDir(), "golden.json")

	ft := &fakeT{name: "TestSnapshotUpdateEnv"}
	snap.MatchesFile(ft, path)
	if len(ft.fatals) != 0 {
		t.Fatalf("fatals = %v", ft.fatals)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestSnapshotDiff(t *testing.T) {
	a := &Snapshot{Snapshot: stage.Snapshot{Stack: []string{"A", "B"}}}
	b := &Snapshot{Snapshot: stage.Snapshot{Stack: []string{"A", "C"}}}

	if d := a.Diff(a); d != "" {
		t.Errorf("Diff with itself = %q", d)
	}
	d := a.Diff(b)
	if !strings.Contains(d, `-    "C"`) || !strings.Contains(d, `+    "B"`) {
		t.Errorf("Diff = %q", d)
	}
}

func TestLoadSnapshotInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSnapshot(path); err == nil || !strings.Contains(err.Error(), "invalid snapshot JSON") {
		t.Errorf("err = %v", err)
	}
}
