// Package message implements the wire format that a streaming Garbler and
// Evaluator exchange: a linear, self-delimiting sequence of tagged
// messages whose order mirrors the garbler's traversal of the circuit.
package message

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/wire"
)

// Tag identifies a Message's payload shape.
type Tag byte

// Tag values, fixed by the wire format.
const (
	TagUnencodedGarblerInput Tag = iota
	TagUnencodedEvaluatorInput
	TagGarblerInput
	TagEvaluatorInput
	TagConstant
	TagGarbledGate
	TagOutputCiphertext
)

func (t Tag) String() string {
	switch t {
	case TagUnencodedGarblerInput:
		return "UnencodedGarblerInput"
	case TagUnencodedEvaluatorInput:
		return "UnencodedEvaluatorInput"
	case TagGarblerInput:
		return "GarblerInput"
	case TagEvaluatorInput:
		return "EvaluatorInput"
	case TagConstant:
		return "Constant"
	case TagGarbledGate:
		return "GarbledGate"
	case TagOutputCiphertext:
		return "OutputCiphertext"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Message is the tagged union transmitted between Garbler and Evaluator.
// Only the fields relevant to Tag are populated; callers index by Tag, not
// by which fields are non-nil.
type Message struct {
	Tag Tag

	// UnencodedGarblerInput / UnencodedEvaluatorInput: Zero is the leaf's
	// zero-label, Delta is the circuit-wide Δ for that modulus (so the
	// routing layer can offset it to the real value without consulting the
	// garbler again).
	Zero  wire.Wire
	Delta wire.Wire

	// GarblerInput / EvaluatorInput: the resolved label for the party's
	// actual input value.
	Wire wire.Wire

	// Constant: the plaintext value and its resolved label.
	Value uint16

	// GarbledGate: the Proj/Mul ciphertext table, one Wire per row.
	Table []wire.Wire

	// OutputCiphertext: one decoding hash per possible output value.
	Hashes []block.Block
}

// UnencodedGarblerInput builds the message a garbler emits for one of its
// own input leaves, before the routing layer resolves it to a concrete
// label.
func UnencodedGarblerInput(zero, delta wire.Wire) Message {
	return Message{Tag: TagUnencodedGarblerInput, Zero: zero, Delta: delta}
}

// UnencodedEvaluatorInput is the evaluator-leaf analogue of
// UnencodedGarblerInput.
func UnencodedEvaluatorInput(zero, delta wire.Wire) Message {
	return Message{Tag: TagUnencodedEvaluatorInput, Zero: zero, Delta: delta}
}

// GarblerInput wraps a resolved garbler-input label.
func GarblerInput(w wire.Wire) Message {
	return Message{Tag: TagGarblerInput, Wire: w}
}

// EvaluatorInput wraps a resolved evaluator-input label.
func EvaluatorInput(w wire.Wire) Message {
	return Message{Tag: TagEvaluatorInput, Wire: w}
}

// Constant wraps a resolved constant label and its plaintext value.
func Constant(value uint16, w wire.Wire) Message {
	return Message{Tag: TagConstant, Value: value, Wire: w}
}

// GarbledGate wraps a Proj or Mul gate's ciphertext table.
func GarbledGate(table []wire.Wire) Message {
	return Message{Tag: TagGarbledGate, Table: table}
}

// OutputCiphertext wraps an output wire's decoding table.
func OutputCiphertext(hashes []block.Block) Message {
	return Message{Tag: TagOutputCiphertext, Hashes: hashes}
}

// Encode serialises m onto w in the wire format described by the project's
// external-interfaces section: a tag byte followed by a tag-specific,
// length-prefixed, self-delimiting payload.
func Encode(w io.Writer, m Message) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write([]byte{byte(m.Tag)}); err != nil {
		return err
	}
	var err error
	switch m.Tag {
	case TagUnencodedGarblerInput, TagUnencodedEvaluatorInput:
		if err = encodeWire(bw, m.Zero); err == nil {
			err = encodeWire(bw, m.Delta)
		}
	case TagGarblerInput, TagEvaluatorInput:
		err = encodeWire(bw, m.Wire)
	case TagConstant:
		if err = writeU16(bw, m.Value); err == nil {
			err = encodeWire(bw, m.Wire)
		}
	case TagGarbledGate:
		err = encodeWireTable(bw, m.Table)
	case TagOutputCiphertext:
		err = encodeBlocks(bw, m.Hashes)
	default:
		err = fmt.Errorf("message: unknown tag %v", m.Tag)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads one Message from r.
func Decode(r io.Reader) (Message, error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return Message{}, err
	}
	tag := Tag(tagBuf[0])

	var m Message
	m.Tag = tag
	var err error
	switch tag {
	case TagUnencodedGarblerInput, TagUnencodedEvaluatorInput:
		if m.Zero, err = decodeWire(r); err == nil {
			m.Delta, err = decodeWire(r)
		}
	case TagGarblerInput, TagEvaluatorInput:
		m.Wire, err = decodeWire(r)
	case TagConstant:
		if m.Value, err = readU16(r); err == nil {
			m.Wire, err = decodeWire(r)
		}
	case TagGarbledGate:
		m.Table, err = decodeWireTable(r)
	case TagOutputCiphertext:
		m.Hashes, err = decodeBlocks(r)
	default:
		err = fmt.Errorf("message: unknown tag %d", tagBuf[0])
	}
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// encodeWire writes `u16 modulus` then, if modulus == 2, 16 raw bytes;
// otherwise a u16 digit count followed by that many 16-byte blocks.
func encodeWire(w io.Writer, wr wire.Wire) error {
	if err := writeU16(w, wr.Mod); err != nil {
		return err
	}
	if wr.Mod == 2 {
		if len(wr.Digits) != 1 {
			return fmt.Errorf("message: mod-2 wire has %d digits, want 1", len(wr.Digits))
		}
		_, err := w.Write(wr.Digits[0].Bytes())
		return err
	}
	if err := writeU16(w, uint16(len(wr.Digits))); err != nil {
		return err
	}
	for _, d := range wr.Digits {
		if _, err := w.Write(d.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func decodeWire(r io.Reader) (wire.Wire, error) {
	mod, err := readU16(r)
	if err != nil {
		return wire.Wire{}, err
	}
	if mod < 2 {
		return wire.Wire{}, fmt.Errorf("message: invalid wire modulus %d", mod)
	}
	if mod == 2 {
		var buf [16]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return wire.Wire{}, err
		}
		return wire.Wire{Mod: 2, Digits: []block.Block{block.New(buf[:])}}, nil
	}
	count, err := readU16(r)
	if err != nil {
		return wire.Wire{}, err
	}
	digits := make([]block.Block, count)
	for i := range digits {
		var buf [16]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return wire.Wire{}, err
		}
		digits[i] = block.New(buf[:])
	}
	return wire.Wire{Mod: mod, Digits: digits}, nil
}

func encodeWireTable(w io.Writer, table []wire.Wire) error {
	if err := writeU32(w, uint32(len(table))); err != nil {
		return err
	}
	for _, row := range table {
		if err := encodeWire(w, row); err != nil {
			return err
		}
	}
	return nil
}

func decodeWireTable(r io.Reader) ([]wire.Wire, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	table := make([]wire.Wire, n)
	for i := range table {
		if table[i], err = decodeWire(r); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func encodeBlocks(w io.Writer, blocks []block.Block) error {
	if err := writeU32(w, uint32(len(blocks))); err != nil {
		return err
	}
	for _, b := range blocks {
		if _, err := w.Write(b.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func decodeBlocks(r io.Reader) ([]block.Block, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	blocks := make([]block.Block, n)
	for i := range blocks {
		var buf [16]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		blocks[i] = block.New(buf[:])
	}
	return blocks, nil
}
