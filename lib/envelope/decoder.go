package envelope

import (
	"encoding/hex"

	"github.com/VictoriaMetrics/metrics"

	"github.com/ardent-devices/scanlink/lib/codec"
	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/ardent-devices/scanlink/lib/protocol"
	"github.com/ardent-devices/scanlink/lib/reassembly"
)

var (
	metricUnits    = metrics.NewCounter("scanlink_units_classified_total")
	metricRejected = metrics.NewCounter("scanlink_units_rejected_total")
)

// --------------------------------------------------------------------------
// Decode Results
// --------------------------------------------------------------------------

// Result is the outcome of decoding one transport unit. Exactly one of
// Commands, Config or Script is set, unless Pending is true, in which
// case the unit was a script fragment absorbed into an incomplete
// transfer.
type Result struct {
	Kind     Kind
	Commands []protocol.Command // Command and Batch units
	Config   []byte             // FullConfig units, decompressed
	Script   []byte             // completed script transfers, decompressed
	Pending  bool               // fragment absorbed, transfer incomplete
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IDecoder consumes raw transport-unit text and produces decoded
// commands, configuration bundles, and completed scripts. It owns the
// reassembly state for fragmented transfers.
type IDecoder interface {
	// Decode classifies one unit and routes it. Every error is terminal
	// for that unit (and, for fragments, its transfer); nothing is
	// silently dropped.
	Decode(text string) (Result, error)

	// Abort discards any in-flight script transfer.
	Abort()
}

// NewDecoder creates a decoder. cfg configures the underlying
// reassembler; see reassembly.Config.
func NewDecoder(cfg reassembly.Config) IDecoder {
	return &decoderImpl{reassembler: reassembly.New(cfg)}
}

// --------------------------------------------------------------------------
// Implementation
// --------------------------------------------------------------------------

// wireTransferID is the session key of wire-scanned fragments, which
// carry no transfer id of their own.
const wireTransferID = ""

type decoderImpl struct {
	reassembler reassembly.IReassembler
}

func (d *decoderImpl) Decode(text string) (Result, error) {
	env, err := Classify(text)
	if err != nil {
		metricRejected.Inc()
		return Result{}, err
	}
	metricUnits.Inc()

	switch env.Kind {
	case KindCommand:
		return d.decodeCommand(env)
	case KindBatch:
		return d.decodeBatch(env)
	case KindFullConfig:
		return d.decodeFullConfig(env)
	default:
		return d.decodeFragment(env)
	}
}

func (d *decoderImpl) Abort() {
	d.reassembler.Reset(wireTransferID)
}

func (d *decoderImpl) decodeCommand(env Envelope) (Result, error) {
	raw, err := hex.DecodeString(env.Body)
	if err != nil {
		return Result{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"command body is not valid hex: %v", err)
	}
	cmd, err := codec.DecodeCommand(env.Namespace, raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: env.Kind, Commands: []protocol.Command{cmd}}, nil
}

func (d *decoderImpl) decodeBatch(env Envelope) (Result, error) {
	raw, err := pipeline.UnpackText(env.Body)
	if err != nil {
		return Result{}, err
	}
	cmds, err := codec.DecodeBatch(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: env.Kind, Commands: cmds}, nil
}

func (d *decoderImpl) decodeFullConfig(env Envelope) (Result, error) {
	config, err := pipeline.UnpackText(env.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: env.Kind, Config: config}, nil
}

func (d *decoderImpl) decodeFragment(env Envelope) (Result, error) {
	f := fragment.Fragment{TransferID: wireTransferID, Chunk: env.Body}
	if env.Kind == KindScriptFinal {
		// The execute marker carries no sequence number on the wire.
		f.Index = -1
		f.Kind = fragment.KindFinal
	} else {
		f.Index = env.Seq - 1
		f.Kind = fragment.KindIntermediate
	}

	payload, done, err := d.reassembler.Accept(f)
	if err != nil {
		return Result{}, err
	}
	if !done {
		return Result{Kind: env.Kind, Pending: true}, nil
	}
	return Result{Kind: env.Kind, Script: payload}, nil
}
