package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxbot/voxbot/internal/game"
)

func TestChatValidatesBeforeTouchingGame(t *testing.T) {
	th := startHost(t, `
		var errs = [];
		try { mf.chat(); } catch (e) { errs.push(e.name); }
		try { mf.chat("a", "b"); } catch (e) { errs.push(e.name); }
		try { mf.chat(42); } catch (e) { errs.push(e.name); }
		mf.chat("hello world");
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))

	g := th.game.snapshot()
	require.Equal(t, []string{"hello world"}, g.chats,
		"failed validations must not reach the send-chat operation")
	errs := th.global(t, "errs").([]any)
	require.Len(t, errs, 3)
	for _, name := range errs {
		assert.Equal(t, "ArgumentError", name)
	}
}

func TestBlockAtRoundsHalfUp(t *testing.T) {
	th := startHost(t, `
		var b = mf.blockAt({x: 1.5, y: 2.5, z: 3.49});
		var blockType = b.type;
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))

	g := th.game.snapshot()
	require.Len(t, g.blockQueries, 1)
	assert.Equal(t, game.Int3D{X: 2, Y: 3, Z: 3}, g.blockQueries[0])
	assert.Equal(t, int64(1), th.global(t, "blockType"))
}

func TestBlockAtRejectsNonObject(t *testing.T) {
	th := startHost(t, `
		var name = "";
		try { mf.blockAt("1,2,3"); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "ArgumentError", th.global(t, "name"))
	assert.Empty(t, th.game.snapshot().blockQueries)
}

func TestPlayerStateShape(t *testing.T) {
	th := startHost(t, `
		var s = mf.playerState();
		var shapeOk = s.position.x === 0 && s.position.y === 0 && s.position.z === 0 &&
			s.velocity.x === 0 && s.velocity.y === 0 && s.velocity.z === 0 &&
			s.yaw === 0 && s.pitch === 0 && s.on_ground === false;
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, true, th.global(t, "shapeOk"),
		"playerState must expose position/velocity points plus yaw, pitch, on_ground")
}

func TestSetControlState(t *testing.T) {
	th := startHost(t, `
		mf.setControlState(mf.Control.Forward, true);
		mf.setControlState(mf.Control.Jump, true);
		mf.setControlState(mf.Control.Jump, false);
		var errs = [];
		try { mf.setControlState("forward", true); } catch (e) { errs.push(e.name); }
		try { mf.setControlState(mf.Control.Forward, 1); } catch (e) { errs.push(e.name); }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))

	g := th.game.snapshot()
	assert.True(t, g.controls[game.ControlForward])
	assert.False(t, g.controls[game.ControlJump])
	assert.Equal(t, []any{"ArgumentError", "ArgumentError"}, th.global(t, "errs"))
}

func TestItemStackHeight(t *testing.T) {
	th := startHost(t, `
		var h = mf.itemStackHeight(mf.ItemType.Stone);
		var name = "";
		try { mf.itemStackHeight("stone"); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, int64(64), th.global(t, "h"))
	assert.Equal(t, "ArgumentError", th.global(t, "name"))
}

func TestUsernameAndHealth(t *testing.T) {
	th := startHost(t, `
		var who = mf.username();
		var hp = mf.health();
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "tester", th.global(t, "who"))
	assert.Equal(t, int64(20), th.global(t, "hp"))
}

func TestPointConstructor(t *testing.T) {
	th := startHost(t, `
		var p = mf.Point(1, 2, 3);
		var packed = p.x * 100 + p.y * 10 + p.z;
		var name = "";
		try { mf.Point(1, 2); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, int64(123), th.global(t, "packed"))
	assert.Equal(t, "ArgumentError", th.global(t, "name"))
}

func TestPrintAndDebug(t *testing.T) {
	th := startHost(t, `
		mf.print("to stdout");
		mf.debug(42);
		mf.debug("plus text");
		var name = "";
		try { mf.print(7); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "to stdout", th.stdout.String())
	assert.Equal(t, "42\nplus text\n", th.stderr.String())
	assert.Equal(t, "ArgumentError", th.global(t, "name"),
		"print requires a string; debug coerces anything")
}

func TestReadFileMissingReturnsNull(t *testing.T) {
	th := startHost(t, `
		var missing = mf.readFile("definitely-not-here.txt");
		var isNull = missing === null;
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, true, th.global(t, "isNull"))
}

func TestReadWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.txt")
	th := startHostAt(t, dir, `
		mf.writeFile(`+jsString(path)+`, "saved state");
		var back = mf.readFile(`+jsString(path)+`);
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "saved state", th.global(t, "back"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved state", string(data))
}

func TestWriteFileFailureIsCatchable(t *testing.T) {
	dir := t.TempDir()
	th := startHostAt(t, dir, `
		var name = "";
		try { mf.writeFile(`+jsString(dir)+`, "x"); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "HostIOError", th.global(t, "name"),
		"writing over a directory must fail with a HostIOError")
}

func TestIncludeSharesGlobalContext(t *testing.T) {
	dir := t.TempDir()
	lib := `
		// sees the main script's globals and mutates them
		seenByLib = fromMain + 1;
		var fromLib = "hello from lib";
	`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.js"), []byte(lib), 0o644))

	th := startHostAt(t, dir, `
		var fromMain = 41;
		var seenByLib = 0;
		mf.include("lib.js");
		var libVisible = fromLib;
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, int64(42), th.global(t, "seenByLib"))
	assert.Equal(t, "hello from lib", th.global(t, "libVisible"))
}

func TestIncludeMissingFileIsCatchable(t *testing.T) {
	th := startHost(t, `
		var name = "";
		try { mf.include("nope.js"); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "HostIOError", th.global(t, "name"))
}

func TestIncludeEvaluationErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.js"),
		[]byte(`throw new Error("bad include");`), 0o644))

	th := startHostAt(t, dir, `mf.include("bad.js");`)
	assert.Equal(t, 1, th.waitExit(t))
	assert.Contains(t, th.stderr.String(), "bad include")
}

func TestExitArgumentContract(t *testing.T) {
	th := startHost(t, `
		var name = "";
		try { mf.exit("zero"); } catch (e) { name = e.name; }
		mf.exit(0);
	`)
	require.Equal(t, 0, th.waitExit(t))
	assert.Equal(t, "ArgumentError", th.global(t, "name"))
}

func TestExitSentinelIsStructural(t *testing.T) {
	// A script throwing its own "Error: SystemExit"-looking message is NOT
	// a clean exit; only the tagged sentinel is.
	th := startHost(t, `throw new Error("SystemExit");`)
	assert.Equal(t, 1, th.waitExit(t))
	assert.NotZero(t, th.stderr.Len(), "a lookalike error must be logged as a fault")
}

// jsString quotes a Go string as a JS string literal (paths on any OS).
func jsString(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		if r == '\\' || r == '"' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '"'))
}
