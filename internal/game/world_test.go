package game

import "testing"

func TestApplyChunkAndBlockAt(t *testing.T) {
	w := newWorld()

	// 2x1x2 cuboid at (10, 64, -3), x-major then z then y
	blocks := []int{1, 2, 3, 4}
	if !w.applyChunk(Int3D{10, 64, -3}, Int3D{2, 1, 2}, blocks) {
		t.Fatal("applyChunk rejected a well-formed chunk")
	}

	cases := []struct {
		p    Int3D
		want ItemType
	}{
		{Int3D{10, 64, -3}, 1},
		{Int3D{11, 64, -3}, 2},
		{Int3D{10, 64, -2}, 3},
		{Int3D{11, 64, -2}, 4},
	}
	for _, c := range cases {
		if got := w.blockAt(c.p); got.Type != c.want {
			t.Errorf("blockAt(%v) = %d, want %d", c.p, got.Type, c.want)
		}
	}
}

func TestBlockAtUnloadedIsNoItem(t *testing.T) {
	w := newWorld()
	if got := w.blockAt(Int3D{1, 2, 3}); got.Type != NoItem {
		t.Errorf("unloaded block = %d, want NoItem", got.Type)
	}
}

func TestApplyChunkRejectsBadDimensions(t *testing.T) {
	w := newWorld()
	if w.applyChunk(Int3D{}, Int3D{0, 1, 1}, nil) {
		t.Error("accepted zero-sized chunk")
	}
	if w.applyChunk(Int3D{}, Int3D{2, 2, 2}, make([]int, 7)) {
		t.Error("accepted chunk with mismatched block count")
	}
	if got := w.blockAt(Int3D{}); got.Type != NoItem {
		t.Error("rejected chunk modified the cache")
	}
}

func TestApplyChunkOverwrites(t *testing.T) {
	w := newWorld()
	w.applyChunk(Int3D{}, Int3D{1, 1, 1}, []int{1})
	w.applyChunk(Int3D{}, Int3D{1, 1, 1}, []int{4})
	if got := w.blockAt(Int3D{}); got.Type != 4 {
		t.Errorf("blockAt = %d, want 4 after overwrite", got.Type)
	}
}

func TestSolid(t *testing.T) {
	w := newWorld()
	// air, stone, water, torch in a row
	w.applyChunk(Int3D{}, Int3D{4, 1, 1}, []int{0, 1, 8, 50})

	if w.solid(Int3D{0, 0, 0}) {
		t.Error("air is solid")
	}
	if !w.solid(Int3D{1, 0, 0}) {
		t.Error("stone is not solid")
	}
	if w.solid(Int3D{2, 0, 0}) {
		t.Error("water is solid")
	}
	if w.solid(Int3D{3, 0, 0}) {
		t.Error("torch is solid")
	}
	// unloaded terrain is solid so the player cannot fall through it
	if !w.solid(Int3D{99, 0, 0}) {
		t.Error("unloaded cell is not solid")
	}
}
