package storage

import "testing"

func TestPerftCache(t *testing.T) {
	s := openTestStorage(t)
	if err := s.SavePerft(PerftRecord{FEN: startFEN, Depth: 2, Nodes: 400}); err != nil {
		t.Fatal(err)
	}

	c, err := NewPerftCache(s, 1000)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Miss in memory, hit in the database.
	nodes, ok, err := c.Lookup(startFEN, 2)
	if err != nil || !ok || nodes != 400 {
		t.Fatalf("Lookup(depth 2) = %d, %v, %v", nodes, ok, err)
	}

	if _, ok, _ := c.Lookup(startFEN, 4); ok {
		t.Error("Lookup(depth 4) found a count that was never stored")
	}

	if err := c.Remember(PerftRecord{FEN: startFEN, Depth: 3, Nodes: 8902}); err != nil {
		t.Fatal(err)
	}
	nodes, ok, err = c.Lookup(startFEN, 3)
	if err != nil || !ok || nodes != 8902 {
		t.Fatalf("Lookup(depth 3) = %d, %v, %v", nodes, ok, err)
	}
	if rec, found, _ := s.LoadPerft(startFEN, 3); !found || rec.Nodes != 8902 {
		t.Error("Remember did not write through to storage")
	}
	if c.HitRate() <= 0 {
		t.Errorf("HitRate() = %v, want > 0", c.HitRate())
	}

	c.Clear()
	if c.HitRate() != 0 {
		t.Errorf("HitRate() after Clear = %v", c.HitRate())
	}
}

func TestPerftCacheWithoutStore(t *testing.T) {
	c, err := NewPerftCache(nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Remember(PerftRecord{FEN: startFEN, Depth: 1, Nodes: 20}); err != nil {
		t.Fatal(err)
	}
	if nodes, ok, _ := c.Lookup(startFEN, 1); !ok || nodes != 20 {
		t.Errorf("Lookup = %d, %v; want 20, true", nodes, ok)
	}
	if _, ok, _ := c.Lookup(startFEN, 2); ok {
		t.Error("unexpected hit without a store")
	}
}
