// Command rasterconv decodes a BMP, JPEG, or PNG image and either reports
// its metadata or re-encodes it as a BMP.
//
// Usage:
//
//	rasterconv info <input>           Report format and dimensions
//	rasterconv conv [-o out.bmp] <input>   Decode and re-encode as BMP
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	outbmp "github.com/pixelforge/rasterdec/bmp"
	_ "github.com/pixelforge/rasterdec/jpeg"
	_ "image/png"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "conv":
		err = runConv(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "rasterconv: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "rasterconv: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  rasterconv info <input>                Report format and dimensions
  rasterconv conv [-o out.bmp] <input>   Decode and re-encode as BMP

Use "-" as input to read from stdin.
`)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info: missing input file\nUsage: rasterconv info <input>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	cfg, format, err := image.DecodeConfig(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}
	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Format:     %s\n", format)
	fmt.Printf("Dimensions: %d x %d\n", cfg.Width, cfg.Height)
	return nil
}

func runConv(args []string) error {
	fs := flag.NewFlagSet("conv", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.bmp, "-" for stdout)`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("conv: missing input file\nUsage: rasterconv conv [-o out.bmp] <input>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("conv: decoding input: %w", err)
	}

	outputPath := *output
	if outputPath == "-" {
		return outbmp.Encode(os.Stdout, img)
	}
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.bmp"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".bmp"
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := outbmp.Encode(out, img); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("conv: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fi, _ := os.Stat(outputPath)
	fmt.Fprintf(os.Stderr, "Converted %s → %s (%d bytes)\n", inputPath, outputPath, fi.Size())
	return nil
}
