// Command zx0 compresses a file into the ZX0 format.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/andybalholm/zx0"
	"github.com/andybalholm/zx0/internal/dzx0"
	"github.com/pierrec/xxHash/xxHash32"
)

var (
	force     = flag.Bool("f", false, "force overwrite of output file")
	extended  = flag.Bool("x", false, "extended format (zxx)")
	backwards = flag.Bool("b", false, "compress backwards")
	skip      = flag.Int("skip", 0, "leave the first `N` bytes out of the stream")
	shrink    = flag.Int("shrink", 0, "quick non-optimal compression: divide the search window by 2^`N` (1-15)")
	verify    = flag.Bool("verify", false, "decompress the output and check it against the input")
	dump      = flag.Bool("dump", false, "print the chosen matches as text on stdout")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input [output.zx0]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	fmt.Println("ZX0: Optimal data compressor")

	var inputName, outputName string
	switch flag.NArg() {
	case 1:
		inputName = flag.Arg(0)
		outputName = inputName + extension(*extended)
	case 2:
		inputName, outputName = flag.Arg(0), flag.Arg(1)
	default:
		flag.Usage()
		os.Exit(1)
	}

	opts := options{
		Config: zx0.Config{
			Skip:         *skip,
			ShrinkFactor: *shrink,
			Extended:     *extended,
			Backwards:    *backwards,
		},
		force:  *force,
		verify: *verify,
		dump:   *dump,
	}

	if strings.HasSuffix(outputName, extension(!*extended)) && len(outputName) > 4 {
		if *extended {
			fmt.Println("Warning: Option -x used to compress file with extension .zx0")
		} else {
			fmt.Println("Warning: Option -x not used to compress file with extension .zxx")
		}
	}

	res, err := compressFile(inputName, outputName, opts, os.Stdout)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	partially, direction := "", ""
	if opts.Skip > 0 {
		partially = " partially"
	}
	if opts.Backwards {
		direction = " backwards"
	}
	fmt.Printf("File%s compressed%s from %d to %d bytes! (delta %d)\n", partially, direction, res.inputSize, res.outputSize, res.delta)
}

func extension(extended bool) string {
	if extended {
		return ".zxx"
	}
	return ".zx0"
}

type options struct {
	zx0.Config
	force  bool
	verify bool
	dump   bool
}

type result struct {
	inputSize  int
	outputSize int
	delta      int
}

// checkStream verifies a compressed stream before it is written.
var checkStream = check

// compressFile compresses inputName into outputName. With opts.dump, the
// parse is also written to stdout as text. The output file is only created
// once the stream is complete and, with opts.verify, checked.
func compressFile(inputName, outputName string, opts options, stdout io.Writer) (result, error) {
	cfg := opts.Config

	data, err := os.ReadFile(inputName)
	if err != nil {
		return result{}, fmt.Errorf("Cannot access input file %s: %w", inputName, err)
	}
	if err := cfg.Validate(len(data)); err != nil {
		switch {
		case errors.Is(err, zx0.ErrEmptyInput):
			return result{}, fmt.Errorf("Empty input file %s", inputName)
		case errors.Is(err, zx0.ErrSkip):
			return result{}, fmt.Errorf("Skipping entire input file %s", inputName)
		default:
			return result{}, err
		}
	}

	// Fail early rather than after a long parse. writeOutput checks again.
	if !opts.force {
		if _, err := os.Stat(outputName); err == nil {
			return result{}, existingOutput(outputName)
		}
	}

	matches, payload, err := zx0.Parse(data, cfg)
	if err != nil {
		return result{}, err
	}
	if opts.dump {
		stdout.Write(zx0.TextEncoder{}.Encode(nil, payload, matches))
		fmt.Fprintln(stdout)
	}
	out, delta := zx0.Encode(payload, matches, cfg)

	if opts.verify {
		if err := checkStream(data, out, cfg); err != nil {
			return result{}, fmt.Errorf("Verification failed: %w", err)
		}
	}

	if err := writeOutput(outputName, out, opts.force); err != nil {
		return result{}, err
	}
	return result{inputSize: len(payload), outputSize: len(out), delta: delta}, nil
}

func existingOutput(name string) error {
	return fmt.Errorf("Already existing output file %s", name)
}

// writeOutput writes out to a new file called name, replacing an existing
// one only if force is set. A partly written file is removed.
func writeOutput(name string, out []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(name, flags, 0666)
	if errors.Is(err, fs.ErrExist) {
		return existingOutput(name)
	}
	if err != nil {
		return fmt.Errorf("Cannot create output file %s: %w", name, err)
	}

	_, err = f.Write(out)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("Cannot write output file %s: %w", name, err)
	}
	return nil
}

// check decompresses out and compares it with the part of data it encodes.
func check(data, out []byte, cfg zx0.Config) error {
	payload := data[cfg.Skip:]
	stream := out
	if cfg.Backwards {
		payload = data[:len(data)-cfg.Skip]
		stream = zx0.Reverse(out)
	}

	decoded, err := dzx0.Decompress(stream, cfg.Extended)
	if err != nil {
		return err
	}
	if cfg.Backwards {
		decoded = zx0.Reverse(decoded)
	}

	if len(decoded) != len(payload) {
		return fmt.Errorf("decompressed %d bytes, want %d", len(decoded), len(payload))
	}
	if got, want := digest(decoded), digest(payload); got != want {
		return fmt.Errorf("checksum %08x, want %08x", got, want)
	}
	return nil
}

func digest(b []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(b)
	return h.Sum32()
}
