// Package encoding implements the wire codec for transitions and rollup
// blocks. Encoding is canonical CBOR, so identical values always encode to
// identical bytes and re-encoded claims stay byte-comparable.
package encoding

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/plasmanet/plasma-go/model/plasma"
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not initialize cbor encoder: %v", err))
	}
}

// EncodeTransition encodes a transition for submission or replay.
func EncodeTransition(transition *plasma.Transition) ([]byte, error) {
	data, err := encMode.Marshal(transition)
	if err != nil {
		return nil, fmt.Errorf("could not encode transition: %w", err)
	}
	return data, nil
}

// DecodeTransition decodes a wire-level transition. Structural validation of
// the decoded claim is the caller's concern.
func DecodeTransition(data []byte) (*plasma.Transition, error) {
	var transition plasma.Transition
	err := cbor.Unmarshal(data, &transition)
	if err != nil {
		return nil, fmt.Errorf("could not decode transition: %w", err)
	}
	return &transition, nil
}

// EncodeBlock encodes a rollup block.
func EncodeBlock(block *plasma.RollupBlock) ([]byte, error) {
	data, err := encMode.Marshal(block)
	if err != nil {
		return nil, fmt.Errorf("could not encode block: %w", err)
	}
	return data, nil
}

// DecodeBlock decodes a rollup block.
func DecodeBlock(data []byte) (*plasma.RollupBlock, error) {
	var block plasma.RollupBlock
	err := cbor.Unmarshal(data, &block)
	if err != nil {
		return nil, fmt.Errorf("could not decode block: %w", err)
	}
	return &block, nil
}

// BlockStreamDecoder reads a stream of CBOR-encoded rollup blocks.
type BlockStreamDecoder struct {
	dec *cbor.Decoder
}

func NewBlockStreamDecoder(r io.Reader) *BlockStreamDecoder {
	return &BlockStreamDecoder{
		dec: cbor.NewDecoder(r),
	}
}

// Next decodes the next block from the stream. It returns io.EOF once the
// stream is exhausted.
func (d *BlockStreamDecoder) Next() (*plasma.RollupBlock, error) {
	var block plasma.RollupBlock
	err := d.dec.Decode(&block)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode block from stream: %w", err)
	}
	return &block, nil
}

// BlockStreamEncoder writes a stream of CBOR-encoded rollup blocks.
type BlockStreamEncoder struct {
	enc *cbor.Encoder
}

func NewBlockStreamEncoder(w io.Writer) *BlockStreamEncoder {
	return &BlockStreamEncoder{
		enc: encMode.NewEncoder(w),
	}
}

func (e *BlockStreamEncoder) Encode(block *plasma.RollupBlock) error {
	err := e.enc.Encode(block)
	if err != nil {
		return fmt.Errorf("could not encode block to stream: %w", err)
	}
	return nil
}
