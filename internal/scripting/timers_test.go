package scripting

import (
	"testing"
)

func TestTimerCancelBeforeFire(t *testing.T) {
	th := startHost(t, `
		var fired = false;
		var id = mf.setTimeout(function() { fired = true; }, 20);
		mf.clearTimeout(id);
		mf.setTimeout(function() { mf.exit(0); }, 120);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if th.global(t, "fired") == true {
		t.Error("cancelled timer fired anyway")
	}
}

func TestTimerOneShotFiresExactlyOnce(t *testing.T) {
	th := startHost(t, `
		var count = 0;
		mf.setTimeout(function() { count++; }, 10);
		mf.setTimeout(function() { mf.exit(0); }, 150);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := th.global(t, "count"); got != int64(1) {
		t.Errorf("one-shot fired %v times, want 1", got)
	}
}

func TestTimerIntervalRepeatsUntilCancelled(t *testing.T) {
	th := startHost(t, `
		var ticks = 0, ticksAtCancel = -1;
		var id = mf.setInterval(function() {
			ticks++;
			if (ticks === 3) {
				mf.clearInterval(id);
				ticksAtCancel = ticks;
				// give a further interval time to (wrongly) fire
				mf.setTimeout(function() { mf.exit(0); }, 80);
			}
		}, 15);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := th.global(t, "ticks"); got != int64(3) {
		t.Errorf("interval ticked %v times, want exactly 3", got)
	}
	if got := th.global(t, "ticksAtCancel"); got != int64(3) {
		t.Errorf("ticksAtCancel = %v, want 3", got)
	}
}

func TestTimerIdsAreMonotonic(t *testing.T) {
	th := startHost(t, `
		var a = mf.setTimeout(function() {}, 1000);
		var b = mf.setInterval(function() {}, 1000);
		var c = mf.setTimeout(function() {}, 1000);
		mf.clearTimeout(a);
		// a's id is not reused even after it is cleared
		var d = mf.setTimeout(function() {}, 1000);
		mf.exit(0);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	a := th.global(t, "a").(int64)
	b := th.global(t, "b").(int64)
	c := th.global(t, "c").(int64)
	d := th.global(t, "d").(int64)
	if b != a+1 || c != b+1 || d != c+1 {
		t.Errorf("ids not monotonic: %d %d %d %d", a, b, c, d)
	}
}

func TestTimerCancelUnknownIdIsNoOp(t *testing.T) {
	th := startHost(t, `
		mf.clearTimeout(12345);
		mf.clearInterval(0);
		mf.exit(0);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestTimerCallbackMayReschedule(t *testing.T) {
	// A one-shot entry is removed before its callback runs, so the callback
	// re-scheduling is indistinguishable from a fresh schedule.
	th := startHost(t, `
		var firings = 0;
		var tick = function() {
			firings++;
			if (firings < 3) {
				mf.setTimeout(tick, 10);
			} else {
				mf.exit(0);
			}
		};
		mf.setTimeout(tick, 10);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := th.global(t, "firings"); got != int64(3) {
		t.Errorf("firings = %v, want 3", got)
	}
}

func TestTimerArgumentContracts(t *testing.T) {
	th := startHost(t, `
		var errs = [];
		try { mf.setTimeout(); } catch (e) { errs.push(e.name); }
		try { mf.setTimeout("not a function", 10); } catch (e) { errs.push(e.name); }
		try { mf.setInterval(function() {}, "soon"); } catch (e) { errs.push(e.name); }
		try { mf.clearTimeout("nope"); } catch (e) { errs.push(e.name); }
		var allArgumentErrors = errs.length === 4 && errs.every(function(n) {
			return n === "ArgumentError";
		});
		mf.exit(0);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if th.global(t, "allArgumentErrors") != true {
		t.Error("timer operations did not raise ArgumentError for bad arguments")
	}
}

func TestTimerFailedScheduleCreatesNoState(t *testing.T) {
	th := startHost(t, `
		try { mf.setTimeout(function() {}, "soon"); } catch (e) {}
		// a valid schedule after the failed one gets id 0: nothing leaked
		var id = mf.setTimeout(function() {}, 1000);
		mf.exit(0);
	`)
	if code := th.waitExit(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := th.global(t, "id"); got != int64(0) {
		t.Errorf("first successful schedule got id %v, want 0", got)
	}
}
