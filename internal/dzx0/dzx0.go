// Package dzx0 decompresses ZX0 streams. It is a straightforward decoder,
// kept separate from the compressor so that it can check its output.
package dzx0

import "errors"

var (
	// ErrCorrupt means the stream is truncated or contains a code that no
	// compressor produces.
	ErrCorrupt = errors.New("dzx0: corrupt stream")

	// ErrOverwrite means that in-place decompression would overwrite
	// compressed data that has not been read yet.
	ErrOverwrite = errors.New("dzx0: output overwrites unread input")
)

const (
	endMarker = 256

	// maxGamma bounds the values read from gamma codes, so that corrupt
	// input cannot overflow them.
	maxGamma = 1 << 30
)

// Decompress decodes the stream in src and returns the decompressed data.
// extended selects the extended format.
func Decompress(src []byte, extended bool) ([]byte, error) {
	d := decoder{
		src:      src,
		extended: extended,
		out:      make([]byte, 0, 2*len(src)),
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.out, nil
}

// DecompressInPlace decodes the stream stored in buf[src:], writing the
// decompressed data to buf starting at dst. It returns the number of bytes
// decompressed, which end up in buf[dst:dst+n]. It fails with ErrOverwrite
// if a byte would be written over compressed data before that data was read.
//
// When the stream ends delta bytes past the end of the decompressed data,
// with delta as reported by the compressor, no such overwrite happens.
func DecompressInPlace(buf []byte, dst, src int, extended bool) (int, error) {
	if dst < 0 || dst > src || src > len(buf) {
		return 0, ErrCorrupt
	}
	d := decoder{
		src:      buf,
		pos:      src,
		extended: extended,
		out:      buf,
		base:     dst,
		inPlace:  true,
	}
	if err := d.run(); err != nil {
		return 0, err
	}
	return d.n, nil
}

type decoder struct {
	src []byte
	pos int

	bitMask   byte
	bitValue  byte
	backtrack bool
	lastByte  byte

	extended bool

	out     []byte
	base    int // where output starts in out, when decoding in place
	n       int
	inPlace bool
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.src) {
		return 0, ErrCorrupt
	}
	b := d.src[d.pos]
	d.pos++
	d.lastByte = b
	return b, nil
}

func (d *decoder) readBit() (bool, error) {
	if d.backtrack {
		d.backtrack = false
		return d.lastByte&1 != 0, nil
	}
	d.bitMask >>= 1
	if d.bitMask == 0 {
		b, err := d.readByte()
		if err != nil {
			return false, err
		}
		d.bitMask = 0x80
		d.bitValue = b
	}
	return d.bitValue&d.bitMask != 0, nil
}

func (d *decoder) readGamma(invert bool) (int, error) {
	value := 1
	for {
		stop, err := d.readBit()
		if err != nil {
			return 0, err
		}
		if stop {
			return value, nil
		}
		bit, err := d.readBit()
		if err != nil {
			return 0, err
		}
		value <<= 1
		if bit != invert {
			value |= 1
		}
		if value > maxGamma {
			return 0, ErrCorrupt
		}
	}
}

func (d *decoder) put(b byte) error {
	if d.inPlace {
		if d.base+d.n >= d.pos {
			return ErrOverwrite
		}
		d.out[d.base+d.n] = b
	} else {
		d.out = append(d.out, b)
	}
	d.n++
	return nil
}

func (d *decoder) copyLiterals(length int) error {
	for i := 0; i < length; i++ {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		if err := d.put(b); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) copyMatch(offset, length int) error {
	if offset < 1 || offset > d.n {
		return ErrCorrupt
	}
	for i := 0; i < length; i++ {
		if err := d.put(d.out[d.base+d.n-offset]); err != nil {
			return err
		}
	}
	return nil
}

// readOffset reads the rest of a new-offset code, after its MSB.
func (d *decoder) readOffset(msb int) (int, error) {
	if msb > 255 {
		return 0, ErrCorrupt
	}
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if d.extended {
		return (msb-1)*256 + int(b) + 1, nil
	}
	d.backtrack = true
	return msb*128 - int(b>>1), nil
}

func (d *decoder) run() error {
	lastOffset := 1

literals:
	for {
		length, err := d.readGamma(false)
		if err != nil {
			return err
		}
		if err := d.copyLiterals(length); err != nil {
			return err
		}

		newOffset, err := d.readBit()
		if err != nil {
			return err
		}
		if !newOffset {
			length, err := d.readGamma(false)
			if err != nil {
				return err
			}
			if err := d.copyMatch(lastOffset, length); err != nil {
				return err
			}
			newOffset, err = d.readBit()
			if err != nil {
				return err
			}
			if !newOffset {
				continue literals
			}
		}

		for {
			msb, err := d.readGamma(true)
			if err != nil {
				return err
			}
			if msb == endMarker {
				if d.pos != len(d.src) {
					return ErrCorrupt
				}
				return nil
			}
			offset, err := d.readOffset(msb)
			if err != nil {
				return err
			}
			length, err := d.readGamma(false)
			if err != nil {
				return err
			}
			if err := d.copyMatch(offset, length+1); err != nil {
				return err
			}
			lastOffset = offset

			newOffset, err := d.readBit()
			if err != nil {
				return err
			}
			if !newOffset {
				continue literals
			}
		}
	}
}
