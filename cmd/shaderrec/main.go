// Command shaderrec is a small demonstration CLI exercising both halves of
// this module: compiling a raw guest instruction-word dump to GLASM or
// SPIR-V, and swizzling a raw texture dump to or from block-linear layout.
// It follows the teacher's core/app verb convention in miniature (a
// Name/ShortHelp pair and a run(ctx) error per verb), built directly on the
// flag package rather than a ported app framework, since this is a library
// module and not a replacement for the teacher's CLI plumbing.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
	"github.com/shadercore/recompiler/shader"
	"github.com/shadercore/recompiler/texture/blocklinear"
)

const (
	appName   = "shaderrec"
	shortHelp = "Recompiles guest shader dumps and swizzles block-linear texture dumps"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(context.Background(), os.Args[2:])
	case "swizzle":
		err = runSwizzle(context.Background(), os.Args[2:])
	case "-h", "-help", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s: %s\n\n", appName, shortHelp)
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s compile -in <words> -stage fragment|vertex|compute -target glasm|spirv [-out <file>]\n", appName)
	fmt.Fprintf(os.Stderr, "  %s swizzle -in <texels> -w <n> -h <n> [-d 1] [-bpp 4] [-bh 1] [-bd 1] [-unswizzle] [-out <file>]\n", appName)
}

func runCompile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	in := fs.String("in", "", "raw guest instruction dump (little-endian uint64 words)")
	out := fs.String("out", "", "output file; stdout if empty")
	stageName := fs.String("stage", "fragment", "shader stage: vertex, fragment, compute")
	targetName := fs.String("target", "glasm", "back-end: glasm or spirv")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("compile: -in is required")
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	words, err := wordsFromBytes(raw)
	if err != nil {
		return err
	}
	stage, err := parseStage(*stageName)
	if err != nil {
		return err
	}
	target, err := parseTarget(*targetName)
	if err != nil {
		return err
	}

	res, err := shader.Compile(ctx, words, stage, target)
	if err != nil {
		return err
	}

	w, closeW, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeW()

	switch target {
	case shader.TargetSPIRV:
		return binary.Write(w, binary.LittleEndian, res.SPIRV)
	default:
		_, err := fmt.Fprint(w, res.GLASM)
		return err
	}
}

func wordsFromBytes(raw []byte) ([]decode.GuestWord, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("guest instruction dump length %d is not a multiple of 8", len(raw))
	}
	words := make([]decode.GuestWord, len(raw)/8)
	for i := range words {
		words[i] = decode.GuestWord(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return words, nil
}

func parseStage(s string) (ir.Stage, error) {
	switch s {
	case "vertex":
		return ir.StageVertexB, nil
	case "vertexa":
		return ir.StageVertexA, nil
	case "fragment":
		return ir.StageFragment, nil
	case "compute":
		return ir.StageCompute, nil
	default:
		return 0, fmt.Errorf("unknown stage %q", s)
	}
}

func parseTarget(s string) (shader.Target, error) {
	switch s {
	case "glasm":
		return shader.TargetGLASM, nil
	case "spirv":
		return shader.TargetSPIRV, nil
	default:
		return 0, fmt.Errorf("unknown target %q", s)
	}
}

func runSwizzle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("swizzle", flag.ExitOnError)
	in := fs.String("in", "", "raw texture dump")
	out := fs.String("out", "", "output file; stdout if empty")
	w := fs.Int("w", 0, "texture width in texels")
	h := fs.Int("h", 0, "texture height in texels")
	d := fs.Int("d", 1, "texture depth in texels")
	bpp := fs.Int("bpp", 4, "bytes per texel")
	bh := fs.Int("bh", 1, "gob-block height log2")
	bd := fs.Int("bd", 1, "gob-block depth log2")
	unswizzle := fs.Bool("unswizzle", false, "convert from block-linear to linear, instead of to block-linear")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *w == 0 || *h == 0 {
		return fmt.Errorf("swizzle: -in, -w, and -h are required")
	}

	input, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	size := blocklinear.CalculateSize(true, *bpp, *w, *h, *d, *bh, *bd)
	output := make([]byte, size)
	if *unswizzle {
		blocklinear.UnswizzleTexture(output, input, *bpp, *w, *h, *d, *bh, *bd, 0)
	} else {
		blocklinear.SwizzleTexture(output, input, *bpp, *w, *h, *d, *bh, *bd, 0)
	}

	wr, closeW, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeW()
	_, err = wr.Write(output)
	return err
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
