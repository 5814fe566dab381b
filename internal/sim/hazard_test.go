package sim

import "testing"

func TestHazard_CollisionBoxIsOpen(t *testing.T) {
	h := DefaultRules().For(StageCollision).Hazard
	cases := []struct {
		name string
		x, y float64
		z    float64
		want bool
	}{
		{"centre low", 38, 68, 150, true},
		{"left edge excluded", 32, 68, 150, false},
		{"just inside left", 32.01, 68, 150, true},
		{"right edge excluded", 44, 68, 150, false},
		{"top edge excluded", 38, 62, 150, false},
		{"bottom reaches further", 38, 79.9, 150, true},
		{"bottom edge excluded", 38, 80, 150, false},
		{"at ceiling", 38, 68, 180, false},
		{"above ceiling", 38, 68, 200, false},
	}
	for _, c := range cases {
		_, _, hit := h.Evaluate(c.x, c.y, c.z)
		if hit != c.want {
			t.Errorf("%s: Evaluate(%.2f,%.2f,%.0f) hit=%v, want %v", c.name, c.x, c.y, c.z, hit, c.want)
		}
	}
}

func TestHazard_CollisionDoesNotMoveBird(t *testing.T) {
	h := DefaultRules().For(StageCollision).Hazard
	nx, ny, _ := h.Evaluate(40, 70, 120)
	if nx != 40 || ny != 70 {
		t.Fatalf("collision hazard moved bird to (%.2f,%.2f)", nx, ny)
	}
}

func TestHazard_AttractionPullsInsideOuterRadius(t *testing.T) {
	h := DefaultRules().For(StageAttraction).Hazard
	// 10 units left of the anchor.
	nx, ny, hit := h.Evaluate(28, 68, 150)
	if hit {
		t.Fatal("bird 10 units away should not die")
	}
	if want := 28 + 10*0.07; nx != want || ny != 68 {
		t.Fatalf("pulled to (%.4f,%.4f), want (%.4f,68)", nx, ny, want)
	}
}

func TestHazard_AttractionIgnoresFarBirds(t *testing.T) {
	h := DefaultRules().For(StageAttraction).Hazard
	nx, ny, hit := h.Evaluate(10, 10, 150)
	if hit || nx != 10 || ny != 10 {
		t.Fatalf("far bird affected: (%.2f,%.2f) hit=%v", nx, ny, hit)
	}
}

func TestHazard_AttractionKillsInsideInnerRadius(t *testing.T) {
	h := DefaultRules().For(StageAttraction).Hazard
	_, _, hit := h.Evaluate(36, 68, 150)
	if !hit {
		t.Fatal("bird 2 units from the light should die")
	}
	_, _, hit = h.Evaluate(35, 68, 150)
	if hit {
		t.Fatal("bird exactly on the inner radius should survive this tick")
	}
}

func TestHazard_ObstructionNeedsBandAndZone(t *testing.T) {
	h := DefaultRules().For(StageObstruction).Hazard
	cases := []struct {
		name string
		x, y float64
		z    float64
		want bool
	}{
		{"on the wire", 50, 80, 145, true},
		{"band upper edge excluded", 50, 80, 157, false},
		{"band lower edge excluded", 50, 80, 133, false},
		{"inside band", 50, 80, 134, true},
		{"wide zone right side", 67.9, 97.9, 150, true},
		{"outside zone", 70, 80, 145, false},
		{"left of zone", 18, 80, 145, false},
	}
	for _, c := range cases {
		_, _, hit := h.Evaluate(c.x, c.y, c.z)
		if hit != c.want {
			t.Errorf("%s: hit=%v, want %v", c.name, hit, c.want)
		}
	}
}

func TestRules_UnknownStageIsHarmless(t *testing.T) {
	rules := DefaultRules()
	for _, st := range []Stage{StageStart, StageSummary, Stage(99), Stage(-1)} {
		rule := rules.For(st)
		if rule.SpawnRate != 0 {
			t.Errorf("stage %v: spawn rate %.3f, want 0", st, rule.SpawnRate)
		}
		if rule.Hazard.Kind != HazardNone {
			t.Errorf("stage %v: hazard %v, want none", st, rule.Hazard.Kind)
		}
	}
}

func TestRules_HazardStagesShareAnchor(t *testing.T) {
	rules := DefaultRules()
	for _, st := range HazardStages {
		rule := rules.For(st)
		if rule.Hazard.Anchor != HazardAnchor {
			t.Errorf("stage %v anchor %+v, want %+v", st, rule.Hazard.Anchor, HazardAnchor)
		}
		if rule.SpawnRate <= 0 {
			t.Errorf("stage %v should spawn birds", st)
		}
	}
}

func TestStage_ParseAndNext(t *testing.T) {
	for _, st := range Stages {
		got, ok := ParseStage(st.String())
		if !ok || got != st {
			t.Errorf("ParseStage(%q) = %v,%v", st.String(), got, ok)
		}
	}
	if _, ok := ParseStage("dusk"); ok {
		t.Error("ParseStage accepted an unknown name")
	}
	order := []Stage{StageStart}
	for st := StageStart; st != StageSummary; st = st.Next() {
		order = append(order, st.Next())
	}
	if len(order) != len(Stages) {
		t.Fatalf("walked %d stages, want %d", len(order), len(Stages))
	}
	if StageSummary.Next() != StageSummary {
		t.Error("summary should be terminal")
	}
	if StageStart.Simulated() || StageSummary.Simulated() || !StageAttraction.Simulated() {
		t.Error("Simulated() misclassifies bookend stages")
	}
}
