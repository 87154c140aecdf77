package uid

import "testing"

func TestSnowflake(t *testing.T) {
	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("failed to build generator: %v", err)
	}

	seen := make(map[int64]struct{}, 1000)
	var prev int64
	for range 1000 {
		id := gen.Generate()
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}
		if id < prev {
			t.Fatalf("ids must be monotonic within a node: %d after %d", id, prev)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %d", id)
		}
		seen[id] = struct{}{}
		prev = id
	}
}

func TestObjectIDGenerator(t *testing.T) {
	gen, err := NewObjectIDGenerator()
	if err != nil {
		t.Fatalf("failed to build generator: %v", err)
	}

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := gen.Generate()
		if len(id) != 64 {
			t.Fatalf("expected 64-char hex id, got %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestUUID(t *testing.T) {
	gen := NewUUID()

	a, b := gen.Generate(), gen.Generate()
	if a == b {
		t.Fatalf("expected distinct uuids, got %q twice", a)
	}
	if len(a) != 36 {
		t.Fatalf("expected canonical uuid, got %q", a)
	}
}
