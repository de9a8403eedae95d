package pool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/go-drift/stage/pkg/platform"
)

func gather(t *testing.T, reg *Registry) map[string]float64 {
	t.Helper()
	promReg := prometheus.NewPedanticRegistry()
	if err := promReg.Register(NewCollector(reg)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	got := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := m.GetLabel()
			if len(labels) != 1 || labels[0].GetValue() != "Bullet" {
				t.Errorf("%s labels = %v", mf.GetName(), labels)
			}
			if mf.GetType() == dto.MetricType_COUNTER {
				got[mf.GetName()] = m.GetCounter().GetValue()
			} else {
				got[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return got
}

func TestCollector(t *testing.T) {
	h := platform.NewHeadless()
	reg := NewRegistry(h)
	if err := reg.CreatePool("Bullet", h.Register("Pools/Bullet"), 2); err != nil {
		t.Fatal(err)
	}
	a := reg.Get("Bullet")
	reg.Get("Bullet")
	reg.Get("Bullet")
	reg.Return(a, "Bullet")

	want := map[string]float64{
		"stage_pool_created_total": 3,
		"stage_pool_instances":     3,
		"stage_pool_in_use":        2,
		"stage_pool_free":          1,
		"stage_pool_high_water":    3,
	}
	got := gather(t, reg)
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %v, want %v", name, got[name], v)
		}
	}
}

func TestCollector_InstancesDropDestroyedHandles(t *testing.T) {
	h := platform.NewHeadless()
	reg := NewRegistry(h)
	if err := reg.CreatePool("Bullet", h.Register("Pools/Bullet"), 3); err != nil {
		t.Fatal(err)
	}
	objs := h.Instances("Pools/Bullet")
	h.Destroy(objs[0])
	h.Destroy(objs[1])
	reg.Return(reg.Get("Bullet"), "Bullet")

	got := gather(t, reg)
	if got["stage_pool_instances"] != 1 {
		t.Errorf("stage_pool_instances = %v, want 1", got["stage_pool_instances"])
	}
	if got["stage_pool_created_total"] != 3 {
		t.Errorf("stage_pool_created_total = %v, want 3", got["stage_pool_created_total"])
	}
}
