package lumen

import (
	"testing"
)

func TestWorld_SpawnIssuesUniqueIds(t *testing.T) {
	w := NewWorld()

	seen := make(map[EntityId]struct{})
	for i := 0; i < 100; i++ {
		id := w.Spawn()
		if _, ok := seen[id]; ok {
			t.Fatalf("Spawn returned duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestWorld_DespawnRemovesLightAndName(t *testing.T) {
	w := NewWorld()

	id := w.Spawn()
	if err := w.Lights().AddPoint(id, somePointLight()); err != nil {
		t.Fatalf("AddPoint failed: %v", err)
	}
	if err := w.Names().AddRecords([]EntityId{id}, []string{"torch"}); err != nil {
		t.Fatalf("AddRecords failed: %v", err)
	}

	w.Despawn(id)

	if w.Lights().Contains(id) {
		t.Error("Despawn left the light in place")
	}
	if _, err := w.Names().GetNameById(id); err == nil {
		t.Error("Despawn left the name in place")
	}
	checkLightInvariants(t, w.Lights())
}

func TestWorld_DespawnToleratesPartialRecords(t *testing.T) {
	w := NewWorld()

	lit := w.Spawn()
	if err := w.Lights().AddDirectional(lit, DirLight{}); err != nil {
		t.Fatalf("AddDirectional failed: %v", err)
	}
	named := w.Spawn()
	if err := w.Names().AddRecords([]EntityId{named}, []string{"marker"}); err != nil {
		t.Fatalf("AddRecords failed: %v", err)
	}
	bare := w.Spawn()

	// none of these may error or disturb unrelated records
	w.Despawn(lit)
	w.Despawn(named)
	w.Despawn(bare)
	w.Despawn(bare) // double despawn is a no-op

	if w.Lights().Len() != 0 {
		t.Errorf("Expected empty light store, got %d", w.Lights().Len())
	}
	if w.Names().Len() != 0 {
		t.Errorf("Expected empty name store, got %d", w.Names().Len())
	}
}
