package game

// world is the client-side block cache, filled in from chunk frames.
// Not goroutine-safe; the Client guards it with its state mutex.
type world struct {
	blocks map[Int3D]ItemType
}

func newWorld() *world {
	return &world{blocks: make(map[Int3D]ItemType)}
}

// applyChunk copies a cuboid of block data into the cache. Blocks are laid
// out x-major, then z, then y, matching the chunk frame encoding.
func (w *world) applyChunk(origin, size Int3D, blocks []int) bool {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return false
	}
	if len(blocks) != size.X*size.Y*size.Z {
		return false
	}
	i := 0
	for y := 0; y < size.Y; y++ {
		for z := 0; z < size.Z; z++ {
			for x := 0; x < size.X; x++ {
				p := Int3D{origin.X + x, origin.Y + y, origin.Z + z}
				w.blocks[p] = ItemType(blocks[i])
				i++
			}
		}
	}
	return true
}

// blockAt returns the cached block, or NoItem for unloaded coordinates.
func (w *world) blockAt(p Int3D) Block {
	t, ok := w.blocks[p]
	if !ok {
		return Block{Type: NoItem}
	}
	return Block{Type: t}
}

// solid reports whether the cell at p blocks movement. Unloaded cells are
// treated as solid so the player does not fall through unknown terrain.
func (w *world) solid(p Int3D) bool {
	t, ok := w.blocks[p]
	if !ok {
		return true
	}
	switch t {
	case 0, 8, 9, 10, 11, 50, 51, 78: // air, liquids, torch, fire, snow layer
		return false
	}
	return t >= 0 && t < 256
}
