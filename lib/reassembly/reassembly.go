package reassembly

import (
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/logging"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

var logger = logging.GetLogger("reassembly")

var (
	metricFragments  = metrics.NewCounter("scanlink_fragments_accepted_total")
	metricDuplicates = metrics.NewCounter("scanlink_fragments_duplicate_total")
	metricCompleted  = metrics.NewCounter("scanlink_sessions_completed_total")
	metricFailed     = metrics.NewCounter("scanlink_sessions_failed_total")
	metricEvicted    = metrics.NewCounter("scanlink_sessions_evicted_total")
)

// --------------------------------------------------------------------------
// Session States
// --------------------------------------------------------------------------

// State is the lifecycle state of one reassembly session. Completing is
// transient: it is entered and left within a single Accept call.
type State uint8

const (
	StateIdle State = iota
	StateReceiving
	StateCompleting
	StateDone
	StateFailed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReceiving:
		return "receiving"
	case StateCompleting:
		return "completing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Config holds the integration-level options of a reassembler.
type Config struct {
	// SessionTTL is the inactivity bound after which an incomplete
	// session may be reclaimed. The protocol itself has no notion of
	// elapsed time, so staleness is a deliberate caller decision; zero
	// means sessions are only ever removed by completion or Reset.
	SessionTTL time.Duration
}

// IReassembler consumes fragments and produces completed, validated
// payloads. One session per transfer id is held at a time; a fragment for
// a finished transfer id starts a brand-new session.
type IReassembler interface {
	// Accept absorbs one fragment. It returns (payload, true, nil) when
	// the fragment completed its transfer, (nil, false, nil) when more
	// fragments are needed, and a protocol error when the fragment or the
	// completed payload is invalid. A failed transfer's buffered data is
	// discarded; a retry restarts from fragment 0.
	Accept(f fragment.Fragment) ([]byte, bool, error)

	// Reset discards the session of a transfer id, if any.
	Reset(transferID string)

	// ActiveSessions returns the number of in-flight sessions.
	ActiveSessions() int
}

// New creates a reassembler with the given configuration.
func New(cfg Config) IReassembler {
	return &reassemblerImpl{
		cfg:      cfg,
		sessions: xsync.NewMapOf[string, *session](),
		now:      time.Now,
	}
}

// --------------------------------------------------------------------------
// Implementation
// --------------------------------------------------------------------------

// session accumulates the fragments of one transfer. The session
// exclusively owns its slot map; completed payloads are built from a
// fresh buffer, never aliasing the buffered chunks.
type session struct {
	state         State
	total         int            // 0 until a fragment declares it
	slots         map[int]string // chunk per sequence index
	finalChunk    string         // final chunk of a wire transfer (no index on the wire)
	hasFinal      bool           // finalChunk is set
	receivedFinal bool
	lastActivity  time.Time
}

type reassemblerImpl struct {
	cfg      Config
	sessions *xsync.MapOf[string, *session]
	now      func() time.Time // injected for eviction tests
}

func (r *reassemblerImpl) Accept(f fragment.Fragment) ([]byte, bool, error) {
	r.evictStale()

	sess, loaded := r.sessions.LoadOrCompute(f.TransferID, func() *session {
		return &session{state: StateReceiving, slots: make(map[int]string)}
	})
	if !loaded {
		logger.Debug().Str("transfer", f.TransferID).Msg("new reassembly session")
	}

	if err := r.absorb(sess, f); err != nil {
		r.fail(f.TransferID, err)
		return nil, false, err
	}
	sess.lastActivity = r.now()
	metricFragments.Inc()

	if !r.complete(sess) {
		return nil, false, nil
	}

	// Completing: concatenate slots in index order and validate through
	// the pipeline inverse.
	sess.state = StateCompleting
	var sb strings.Builder
	for i := 0; i < len(sess.slots); i++ {
		sb.WriteString(sess.slots[i])
	}
	if sess.hasFinal {
		sb.WriteString(sess.finalChunk)
	}

	payload, err := pipeline.UnpackText(sb.String())
	if err != nil {
		r.fail(f.TransferID, err)
		return nil, false, err
	}

	sess.state = StateDone
	r.sessions.Delete(f.TransferID)
	metricCompleted.Inc()
	logger.Info().
		Str("transfer", f.TransferID).
		Int("fragments", len(sess.slots)+boolToInt(sess.hasFinal)).
		Int("bytes", len(payload)).
		Msg("transfer complete")
	return payload, true, nil
}

func (r *reassemblerImpl) Reset(transferID string) {
	if _, ok := r.sessions.LoadAndDelete(transferID); ok {
		logger.Debug().Str("transfer", transferID).Msg("session reset")
	}
}

func (r *reassemblerImpl) ActiveSessions() int {
	return r.sessions.Size()
}

// absorb validates one fragment against the session and files its chunk.
// Duplicate indexes overwrite the prior value: a re-scan of the same
// physical unit is expected and harmless.
func (r *reassemblerImpl) absorb(sess *session, f fragment.Fragment) error {
	if f.Total > 0 {
		if f.Index >= f.Total || f.Index < 0 {
			return protocol.NewError(protocol.ErrCInconsistentTransfer,
				"fragment index %d outside its declared total %d", f.Index, f.Total)
		}
		if sess.total > 0 && sess.total != f.Total {
			return protocol.NewError(protocol.ErrCInconsistentTransfer,
				"fragment declares %d total fragments, session recorded %d", f.Total, sess.total)
		}
		sess.total = f.Total
	}

	if f.Final() {
		sess.receivedFinal = true
	}

	if f.Index < 0 {
		// Wire-scanned final unit: the $LUAX: marker carries no index, so
		// the chunk is held aside until the intermediates line up.
		if !f.Final() {
			return protocol.NewError(protocol.ErrCInconsistentTransfer,
				"fragment without index is not marked final")
		}
		if sess.hasFinal {
			metricDuplicates.Inc()
		}
		sess.finalChunk = f.Chunk
		sess.hasFinal = true
		return nil
	}

	if _, dup := sess.slots[f.Index]; dup {
		metricDuplicates.Inc()
	}
	sess.slots[f.Index] = f.Chunk
	return nil
}

// complete reports whether every slot of the transfer is filled. The
// final fragment alone never triggers completion while earlier slots are
// still empty.
func (r *reassemblerImpl) complete(sess *session) bool {
	if !sess.receivedFinal {
		return false
	}
	if sess.total > 0 {
		if sess.hasFinal {
			// Mixed wire/structured input: the held-aside final chunk is
			// the last slot.
			return len(sess.slots) == sess.total-1 && gapless(sess.slots, sess.total-1)
		}
		return len(sess.slots) == sess.total && gapless(sess.slots, sess.total)
	}
	// Wire transfer with unknown total: complete once the final chunk is
	// present and the intermediates form a gapless prefix.
	return sess.hasFinal && gapless(sess.slots, len(sess.slots))
}

// gapless reports whether slots holds exactly the indexes [0, n).
func gapless(slots map[int]string, n int) bool {
	for i := 0; i < n; i++ {
		if _, ok := slots[i]; !ok {
			return false
		}
	}
	return true
}

func (r *reassemblerImpl) fail(transferID string, err error) {
	r.sessions.Delete(transferID)
	metricFailed.Inc()
	logger.Warn().Str("transfer", transferID).Err(err).Msg("transfer failed")
}

// evictStale removes sessions whose last activity is older than the TTL.
// Called on every Accept; there is no background janitor because the
// protocol has no intrinsic timers.
func (r *reassemblerImpl) evictStale() {
	if r.cfg.SessionTTL <= 0 {
		return
	}
	deadline := r.now().Add(-r.cfg.SessionTTL)
	r.sessions.Range(func(id string, sess *session) bool {
		if !sess.lastActivity.IsZero() && sess.lastActivity.Before(deadline) {
			r.sessions.Delete(id)
			metricEvicted.Inc()
			logger.Warn().Str("transfer", id).Msg("stale session evicted")
		}
		return true
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
