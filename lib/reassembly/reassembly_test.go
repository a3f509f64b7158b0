package reassembly

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// testPayload creates n deterministic pseudo-random bytes. Random data is
// incompressible, so the encoded text length (and with it the fragment
// count) is stable across runs.
func testPayload(n int) []byte {
	rng := rand.New(rand.NewSource(int64(n)))
	data := make([]byte, n)
	rng.Read(data)
	return data
}

// testTransfer packs a payload and splits it into fragments, failing the
// test on any setup error.
func testTransfer(t *testing.T, payload []byte, maxUnitSize int, transferID string) []fragment.Fragment {
	t.Helper()
	text, err := pipeline.PackText(payload, pipeline.DefaultCompressionLevel)
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	frags, err := fragment.Split(text, maxUnitSize, transferID)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	return frags
}

// TestAcceptInOrder tests a full transfer delivered in emission order.
func TestAcceptInOrder(t *testing.T) {
	payload := testPayload(1500)
	frags := testTransfer(t, payload, 500, "t1")
	if len(frags) < 3 {
		t.Fatalf("expected at least 3 fragments, got %d", len(frags))
	}

	r := New(Config{})
	for i, f := range frags {
		restored, done, err := r.Accept(f)
		if err != nil {
			t.Fatalf("fragment %d rejected: %v", i, err)
		}
		if last := i == len(frags)-1; done != last {
			t.Fatalf("fragment %d: done = %v", i, done)
		}
		if done && !bytes.Equal(restored, payload) {
			t.Error("reassembled payload differs from the original")
		}
	}
	if n := r.ActiveSessions(); n != 0 {
		t.Errorf("expected no sessions after completion, got %d", n)
	}
}

// TestAcceptOrderIndependence tests every arrival order of a three-part
// transfer, each against a fresh transfer id.
func TestAcceptOrderIndependence(t *testing.T) {
	payload := testPayload(700)
	frags := testTransfer(t, payload, 400, "")
	if len(frags) != 3 {
		t.Fatalf("expected exactly 3 fragments for this test, got %d", len(frags))
	}

	r := New(Config{})
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2},
		{1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for p, order := range orders {
		t.Run(fmt.Sprintf("order %v", order), func(t *testing.T) {
			id := fmt.Sprintf("perm-%d", p)
			var restored []byte
			for step, idx := range order {
				f := frags[idx]
				f.TransferID = id
				got, done, err := r.Accept(f)
				if err != nil {
					t.Fatalf("fragment %d rejected: %v", idx, err)
				}
				if last := step == len(order)-1; done != last {
					t.Fatalf("step %d: done = %v", step, done)
				}
				restored = got
			}
			if !bytes.Equal(restored, payload) {
				t.Error("reassembled payload differs from the original")
			}
		})
	}
}

// TestAcceptDuplicates tests that re-scanned fragments change nothing.
func TestAcceptDuplicates(t *testing.T) {
	payload := testPayload(700)
	frags := testTransfer(t, payload, 400, "dup")

	r := New(Config{})
	for i, f := range frags[:len(frags)-1] {
		if _, done, err := r.Accept(f); err != nil || done {
			t.Fatalf("fragment %d: done=%v err=%v", i, done, err)
		}
		// Same unit scanned twice.
		if _, done, err := r.Accept(f); err != nil || done {
			t.Fatalf("duplicate of fragment %d: done=%v err=%v", i, done, err)
		}
	}
	restored, done, err := r.Accept(frags[len(frags)-1])
	if err != nil || !done {
		t.Fatalf("final fragment: done=%v err=%v", done, err)
	}
	if !bytes.Equal(restored, payload) {
		t.Error("reassembled payload differs from the original")
	}
}

// TestAcceptFinalAlone tests that the final fragment never completes a
// transfer while earlier slots are missing.
func TestAcceptFinalAlone(t *testing.T) {
	frags := testTransfer(t, testPayload(700), 400, "gap")

	r := New(Config{})
	final := frags[len(frags)-1]
	if _, done, err := r.Accept(final); err != nil || done {
		t.Fatalf("final alone: done=%v err=%v", done, err)
	}
	if n := r.ActiveSessions(); n != 1 {
		t.Errorf("expected 1 open session, got %d", n)
	}
}

// TestAcceptWireFinal tests the wire form of the final unit, which carries
// no index of its own.
func TestAcceptWireFinal(t *testing.T) {
	payload := testPayload(700)
	frags := testTransfer(t, payload, 400, "")

	r := New(Config{})
	// Final first, as a wire unit: no index, no total.
	wireFinal := fragment.Fragment{
		Index: -1,
		Kind:  fragment.KindFinal,
		Chunk: frags[len(frags)-1].Chunk,
	}
	if _, done, err := r.Accept(wireFinal); err != nil || done {
		t.Fatalf("wire final: done=%v err=%v", done, err)
	}

	var restored []byte
	var done bool
	for _, f := range frags[:len(frags)-1] {
		wire := fragment.Fragment{Index: f.Index, Kind: fragment.KindIntermediate, Chunk: f.Chunk}
		var err error
		restored, done, err = r.Accept(wire)
		if err != nil {
			t.Fatalf("fragment %d rejected: %v", f.Index, err)
		}
	}
	if !done {
		t.Fatal("transfer did not complete")
	}
	if !bytes.Equal(restored, payload) {
		t.Error("reassembled payload differs from the original")
	}
}

// TestAcceptInconsistentTotal tests that a total conflicting with the
// session is rejected and the transfer discarded.
func TestAcceptInconsistentTotal(t *testing.T) {
	frags := testTransfer(t, testPayload(700), 400, "bad")
	if len(frags) < 3 {
		t.Fatalf("expected at least 3 fragments, got %d", len(frags))
	}

	r := New(Config{})
	if _, _, err := r.Accept(frags[0]); err != nil {
		t.Fatalf("fragment 0 rejected: %v", err)
	}

	conflicting := frags[1]
	conflicting.Total++
	if _, _, err := r.Accept(conflicting); protocol.CodeOf(err) != protocol.ErrCInconsistentTransfer {
		t.Fatalf("expected inconsistent transfer, got %v", err)
	}
	if n := r.ActiveSessions(); n != 0 {
		t.Errorf("expected the failed session discarded, got %d open", n)
	}
}

func TestAcceptIndexOutsideTotal(t *testing.T) {
	r := New(Config{})
	f := fragment.Fragment{TransferID: "x", Index: 3, Total: 3, Kind: fragment.KindFinal, Chunk: "QQ"}
	if _, _, err := r.Accept(f); protocol.CodeOf(err) != protocol.ErrCInconsistentTransfer {
		t.Errorf("expected inconsistent transfer, got %v", err)
	}
}

// TestAcceptCorruptPayload tests that a transfer whose reassembled text
// fails validation is discarded, and that a clean retry then succeeds.
func TestAcceptCorruptPayload(t *testing.T) {
	payload := testPayload(700)
	frags := testTransfer(t, payload, 400, "corrupt")

	r := New(Config{})
	for _, f := range frags[:len(frags)-1] {
		if _, _, err := r.Accept(f); err != nil {
			t.Fatalf("fragment %d rejected: %v", f.Index, err)
		}
	}
	mangled := frags[len(frags)-1]
	mangled.Chunk = "####" + mangled.Chunk[4:]
	if _, done, err := r.Accept(mangled); err == nil || done {
		t.Fatalf("expected the corrupt transfer to fail, got done=%v err=%v", done, err)
	}
	if n := r.ActiveSessions(); n != 0 {
		t.Errorf("expected the failed session discarded, got %d open", n)
	}

	// Retry from fragment 0 with clean units.
	var restored []byte
	var done bool
	for _, f := range frags {
		var err error
		restored, done, err = r.Accept(f)
		if err != nil {
			t.Fatalf("retry fragment %d rejected: %v", f.Index, err)
		}
	}
	if !done || !bytes.Equal(restored, payload) {
		t.Error("retry after corruption did not reproduce the payload")
	}
}

// TestReset tests that Reset discards exactly the named session.
func TestReset(t *testing.T) {
	a := testTransfer(t, testPayload(700), 400, "a")
	b := testTransfer(t, testPayload(900), 400, "b")

	r := New(Config{})
	if _, _, err := r.Accept(a[0]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, _, err := r.Accept(b[0]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	r.Reset("a")
	if n := r.ActiveSessions(); n != 1 {
		t.Errorf("expected 1 session after reset, got %d", n)
	}
	r.Reset("missing") // no-op
	if n := r.ActiveSessions(); n != 1 {
		t.Errorf("expected reset of an unknown id to change nothing, got %d sessions", n)
	}
}

// TestEvictStale tests TTL-based reclamation with an injected clock.
func TestEvictStale(t *testing.T) {
	frags := testTransfer(t, testPayload(700), 400, "stale")

	clock := time.Now()
	r := New(Config{SessionTTL: time.Minute}).(*reassemblerImpl)
	r.now = func() time.Time { return clock }

	if _, _, err := r.Accept(frags[0]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if n := r.ActiveSessions(); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}

	// Within the TTL nothing is reclaimed.
	clock = clock.Add(30 * time.Second)
	if _, _, err := r.Accept(frags[1]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if n := r.ActiveSessions(); n != 1 {
		t.Fatalf("expected the active session kept, got %d", n)
	}

	// Past the TTL the stale session goes; the transfer must restart.
	clock = clock.Add(2 * time.Minute)
	fresh := testTransfer(t, testPayload(500), 400, "fresh")
	if _, _, err := r.Accept(fresh[0]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if n := r.ActiveSessions(); n != 1 {
		t.Errorf("expected only the fresh session, got %d", n)
	}
}

// TestEvictDisabled tests that a zero TTL never reclaims anything.
func TestEvictDisabled(t *testing.T) {
	frags := testTransfer(t, testPayload(700), 400, "eternal")

	clock := time.Now()
	r := New(Config{}).(*reassemblerImpl)
	r.now = func() time.Time { return clock }

	if _, _, err := r.Accept(frags[0]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	clock = clock.Add(24 * time.Hour)
	other := testTransfer(t, testPayload(500), 400, "other")
	if _, _, err := r.Accept(other[0]); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if n := r.ActiveSessions(); n != 2 {
		t.Errorf("expected both sessions kept, got %d", n)
	}
}
