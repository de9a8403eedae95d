// Package testing provides a headless test harness for stage.
//
// # Quick Start
//
// Create a tester, register templates, drive the stage, and assert:
//
//	func TestInventory(t *testing.T) {
//	    tester := stagetest.NewStageTesterWithT(t)
//	    tester.RegisterSurfaces("Inventory", "Shop")
//
//	    tester.Stage.OpenKey("Inventory")
//	    if !tester.Surface("Inventory").Active() {
//	        t.Error("expected Inventory to be open")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare pool and surface state:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/inventory.snapshot.json")
//
// Update snapshots with:
//
//	STAGE_UPDATE_SNAPSHOTS=1 go test ./...
package testing
