package stage_test

import (
	"reflect"
	"testing"

	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/pool"
	"github.com/go-drift/stage/pkg/stage"
	"github.com/go-drift/stage/pkg/surface"
	stagetest "github.com/go-drift/stage/pkg/testing"
)

type HUD struct{}
type Inventory struct{}
type Shop struct{}

func TestStage_TypedSurfaces(t *testing.T) {
	tester := stagetest.NewStageTesterWithT(t)
	tester.RegisterSurfaces("HUD", "Inventory", "Shop")
	st := tester.Stage

	stage.Open[HUD](st)
	stage.Open[Inventory](st)
	stage.Switch[Inventory, Shop](st)

	want := []surface.Key{"HUD", "Shop"}
	if got := st.Stack().Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if tester.Surface("Inventory").Active() {
		t.Error("Inventory should be closed")
	}
	if o := tester.Surface("Shop"); !o.Active() || o.SortingOrder() != 2 {
		t.Errorf("Shop active=%v order=%d", o.Active(), o.SortingOrder())
	}

	stage.Close[HUD](st)
	if st.Stack().IsOpen("HUD") {
		t.Error("HUD should be closed")
	}
	if p := tester.Surface("HUD").Parent; p != tester.SurfaceRoot {
		t.Errorf("surface parent = %v, want %v", p, tester.SurfaceRoot)
	}
}

func TestStage_Pools(t *testing.T) {
	var grown []pool.Stats
	tester := stagetest.NewStageTesterWithT(t, stage.WithGrowthHook(func(s pool.Stats) {
		grown = append(grown, s)
	}))
	st := tester.Stage
	tmpl := tester.RegisterTemplate("Pools/Bullet")

	if err := st.CreatePool("Bullet", tmpl, 3); err != nil {
		t.Fatal(err)
	}
	var objs []host.Object
	for i := 0; i < 4; i++ {
		obj := st.Get("Bullet")
		if obj == nil {
			t.Fatalf("Get #%d returned nil", i+1)
		}
		objs = append(objs, obj)
	}
	if len(grown) != 1 || grown[0].Created != 4 {
		t.Errorf("growth hook calls = %+v", grown)
	}
	for _, o := range tester.Host.Instances("Pools/Bullet") {
		if o.Parent != tester.PoolRoot {
			t.Errorf("%v parent = %v, want pool root", o, o.Parent)
		}
	}

	st.Return(objs[0], "Bullet")
	st.Return(objs[1], "Nowhere")
	if !tester.Host.IsAlive(objs[0]) {
		t.Error("object returned to its pool should survive")
	}
	if tester.Host.IsAlive(objs[1]) {
		t.Error("object returned to an unknown pool should be destroyed")
	}
	if st.Get("Nowhere") != nil {
		t.Error("Get on unknown pool should be nil")
	}
}

func TestStage_SceneLoadAndClose(t *testing.T) {
	tester := stagetest.NewStageTesterWithT(t)
	tester.RegisterSurfaces("HUD")
	st := tester.Stage

	st.OpenKey("HUD")
	tester.LoadScene("Level2")
	if st.Stack().Depth() != 0 {
		t.Errorf("scene load should clear the stack")
	}
	if !tester.Surface("HUD").Active() {
		t.Error("scene load should leave HUD active")
	}

	st.Close()
	if n := tester.Host.HandlerCount(); n != 0 {
		t.Errorf("Close left %d scene handlers", n)
	}
	st.CloseKey("HUD")
	st.OpenKey("HUD")
	tester.LoadScene("Level3")
	if st.Stack().Depth() != 1 {
		t.Errorf("closed stage should ignore scene loads, Depth() = %d", st.Stack().Depth())
	}
}

func TestStage_MissingSurfaceParentIsReported(t *testing.T) {
	tester := stagetest.NewStageTesterWithT(t, stage.WithSurfaceParent(nil))
	tester.RegisterSurfaces("HUD")

	tester.Stage.OpenKey("HUD")

	if tester.Stage.Stack().Depth() != 0 {
		t.Error("surface should not open without a parent")
	}
	errs := tester.Errors()
	if len(errs) != 1 || errs[0].Key != "HUD" {
		t.Errorf("Errors() = %+v", errs)
	}
}

func TestStage_IDsAreUnique(t *testing.T) {
	a := stagetest.NewStageTesterWithT(t)
	b := stagetest.NewStageTesterWithT(t)
	if a.Stage.ID() == b.Stage.ID() {
		t.Error("stages should have distinct IDs")
	}
}
