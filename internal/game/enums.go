package game

// EnumValue is one (name, value) pair of a script-visible enumeration.
// Tables are ordered so the synthesized script objects enumerate in a
// stable, documented order.
type EnumValue struct {
	Name  string
	Value int
}

// Controls is the Control enumeration exposed to scripts as mf.Control.
var Controls = []EnumValue{
	{"Forward", int(ControlForward)},
	{"Back", int(ControlBack)},
	{"Left", int(ControlLeft)},
	{"Right", int(ControlRight)},
	{"Jump", int(ControlJump)},
	{"Crouch", int(ControlCrouch)},
	{"DiscardItem", int(ControlDiscardItem)},
	{"Action1", int(ControlAction1)},
	{"Action2", int(ControlAction2)},
}

// ItemTypes is the ItemType enumeration exposed to scripts as mf.ItemType.
var ItemTypes = []EnumValue{
	{"NoItem", -1},
	{"Air", 0},
	{"Stone", 1},
	{"Grass", 2},
	{"Dirt", 3},
	{"Cobblestone", 4},
	{"WoodenPlank", 5},
	{"Sapling", 6},
	{"Bedrock", 7},
	{"Water", 8},
	{"StationaryWater", 9},
	{"Lava", 10},
	{"StationaryLava", 11},
	{"Sand", 12},
	{"Gravel", 13},
	{"GoldOre", 14},
	{"IronOre", 15},
	{"CoalOre", 16},
	{"Wood", 17},
	{"Leaves", 18},
	{"Glass", 20},
	{"LapisOre", 21},
	{"Sandstone", 24},
	{"Wool", 35},
	{"GoldBlock", 41},
	{"IronBlock", 42},
	{"DoubleSlab", 43},
	{"Slab", 44},
	{"Brick", 45},
	{"Tnt", 46},
	{"Bookshelf", 47},
	{"MossStone", 48},
	{"Obsidian", 49},
	{"Torch", 50},
	{"Fire", 51},
	{"Chest", 54},
	{"DiamondOre", 56},
	{"DiamondBlock", 57},
	{"CraftingTable", 58},
	{"Farmland", 60},
	{"Furnace", 61},
	{"Ladder", 65},
	{"SnowLayer", 78},
	{"Ice", 79},
	{"SnowBlock", 80},
	{"Cactus", 81},
	{"Clay", 82},

	{"IronShovel", 256},
	{"IronPickaxe", 257},
	{"IronAxe", 258},
	{"FlintAndSteel", 259},
	{"Apple", 260},
	{"Bow", 261},
	{"Arrow", 262},
	{"Coal", 263},
	{"Diamond", 264},
	{"IronIngot", 265},
	{"GoldIngot", 266},
	{"IronSword", 267},
	{"WoodenSword", 268},
	{"Stick", 280},
	{"Bowl", 281},
	{"MushroomStew", 282},
	{"Bread", 297},
	{"Sign", 323},
	{"WoodenDoor", 324},
	{"Bucket", 325},
	{"Minecart", 328},
	{"Saddle", 329},
	{"Snowball", 332},
	{"Boat", 333},
	{"Egg", 344},
	{"Compass", 345},
	{"FishingRod", 346},
	{"Clock", 347},
}

// stack height overrides; anything not listed stacks to 64. Tools, weapons,
// and vehicles do not stack at all.
var stackHeightOverrides = map[ItemType]int{
	256: 1, 257: 1, 258: 1, 259: 1, // iron tools, flint and steel
	261: 1, // bow
	267: 1, 268: 1, // swords
	281: 16,                // bowl
	282: 1,                 // mushroom stew
	323: 16,                // sign
	324: 1, 325: 1,         // door, bucket
	328: 1, 329: 1, 333: 1, // minecart, saddle, boat
	332: 16, 344: 16, // snowball, egg
	346: 1, // fishing rod
}

// StackHeight returns the maximum stack size for an item type.
func StackHeight(item ItemType) int {
	if item == NoItem {
		return 0
	}
	if h, ok := stackHeightOverrides[item]; ok {
		return h
	}
	return 64
}
