package registry

import (
	"testing"

	"pgregory.net/rapid"

	"monitoring-service/internal/config"
	"monitoring-service/internal/models"
)

func seedRegistry() *Registry {
	return Seed(config.DefaultRegistry().Technicians)
}

func TestSeedPreservesOrder(t *testing.T) {
	r := seedRegistry()
	techs := r.List()
	if len(techs) != 4 {
		t.Fatalf("got %d technicians, want 4", len(techs))
	}
	want := []string{"TECH_001", "TECH_002", "TECH_003", "TECH_004"}
	for i, id := range want {
		if techs[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, techs[i].ID, id)
		}
	}
}

func TestClaimPrefersLowestLoadedSkillMatch(t *testing.T) {
	r := seedRegistry()

	// pumps skill: TECH_001 (load 2), TECH_002 (load 1). TECH_003 is
	// unavailable; TECH_004 lacks the skill.
	tech, ok := r.Claim([]string{"pumps", "diagnostics"})
	if !ok {
		t.Fatal("Claim failed")
	}
	// TECH_004 has diagnostics at load 0, beating TECH_002 at load 1.
	if tech.ID != "TECH_004" {
		t.Fatalf("claimed %s, want TECH_004", tech.ID)
	}
	if tech.CurrentLoad != 1 {
		t.Fatalf("load after claim = %d, want 1", tech.CurrentLoad)
	}

	tech, ok = r.Claim([]string{"pumps", "mechanical"})
	if !ok {
		t.Fatal("Claim failed")
	}
	if tech.ID != "TECH_002" {
		t.Fatalf("claimed %s, want TECH_002 (load 1 beats TECH_001 load 2)", tech.ID)
	}
	if tech.CurrentLoad != 2 {
		t.Fatalf("load after claim = %d, want 2", tech.CurrentLoad)
	}
}

func TestClaimTieBreakIsFirstSeen(t *testing.T) {
	r := New()
	r.Add(models.Technician{ID: "T1", Name: "One", Skills: []string{"pumps"}, Available: true, CurrentLoad: 1, MaxCapacity: 5})
	r.Add(models.Technician{ID: "T2", Name: "Two", Skills: []string{"pumps"}, Available: true, CurrentLoad: 1, MaxCapacity: 5})

	tech, ok := r.Claim([]string{"pumps"})
	if !ok {
		t.Fatal("Claim failed")
	}
	if tech.ID != "T1" {
		t.Fatalf("tie went to %s, want first-seen T1", tech.ID)
	}
}

func TestClaimFallsBackWithoutSkillMatch(t *testing.T) {
	r := New()
	r.Add(models.Technician{ID: "T1", Name: "One", Skills: []string{"electrical"}, Available: true, MaxCapacity: 5})

	tech, ok := r.Claim([]string{"plumbing"})
	if !ok {
		t.Fatal("Claim failed: expected tier-2 fallback")
	}
	if tech.ID != "T1" {
		t.Fatalf("claimed %s, want T1", tech.ID)
	}
}

func TestClaimExhaustsCapacity(t *testing.T) {
	r := New()
	r.Add(models.Technician{ID: "T1", Name: "One", Skills: []string{"pumps"}, Available: true, CurrentLoad: 1, MaxCapacity: 2})

	tech, ok := r.Claim([]string{"pumps"})
	if !ok {
		t.Fatal("Claim failed")
	}
	if tech.Available {
		t.Fatal("technician still available after reaching capacity")
	}

	if _, ok := r.Claim([]string{"pumps"}); ok {
		t.Fatal("claimed a technician at full capacity")
	}

	// Availability recovery is explicit.
	if err := r.SetAvailable("T1", true); err != nil {
		t.Fatalf("SetAvailable: %v", err)
	}
	if _, ok := r.Claim([]string{"pumps"}); !ok {
		t.Fatal("Claim failed after availability restored")
	}
}

func TestSetAvailableUnknown(t *testing.T) {
	r := New()
	if err := r.SetAvailable("NOPE", true); err == nil {
		t.Fatal("SetAvailable on unknown id succeeded")
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	r := seedRegistry()
	techs := r.List()
	techs[0].Skills[0] = "mutated"
	techs[0].CurrentLoad = 99

	fresh, _ := r.Get("TECH_001")
	if fresh.Skills[0] == "mutated" || fresh.CurrentLoad == 99 {
		t.Fatal("List returned aliased internal state")
	}
}

// Property: however claims interleave, load never exceeds capacity and an
// available technician always has spare capacity.
func TestClaimInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New()
		n := rapid.IntRange(1, 5).Draw(rt, "technicians")
		skills := []string{"pumps", "electrical", "plumbing", "sensors"}
		for i := 0; i < n; i++ {
			cap := rapid.IntRange(1, 4).Draw(rt, "cap")
			available := rapid.Bool().Draw(rt, "available")
			maxLoad := cap
			if available {
				maxLoad = cap - 1
			}
			r.Add(models.Technician{
				ID:          rapid.StringMatching(`TECH_[0-9]{3}`).Draw(rt, "id"),
				Name:        "Tech",
				Skills:      rapid.SampledFrom([][]string{skills[:1], skills[1:3], skills[2:]}).Draw(rt, "skills"),
				Available:   available,
				CurrentLoad: rapid.IntRange(0, maxLoad).Draw(rt, "load"),
				MaxCapacity: cap,
			})
		}

		claims := rapid.IntRange(0, 20).Draw(rt, "claims")
		for i := 0; i < claims; i++ {
			required := rapid.SampledFrom(skills).Draw(rt, "required")
			r.Claim([]string{required})
		}

		for _, tech := range r.List() {
			if tech.CurrentLoad > tech.MaxCapacity {
				rt.Fatalf("%s load %d exceeds capacity %d", tech.ID, tech.CurrentLoad, tech.MaxCapacity)
			}
			if tech.Available && tech.CurrentLoad >= tech.MaxCapacity {
				rt.Fatalf("%s available at full capacity", tech.ID)
			}
		}
	})
}
