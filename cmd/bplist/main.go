package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bplist"
	"github.com/wippyai/bplist/source"
	"github.com/wippyai/bplist/value"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		from         string
		output       string
		unique       bool
		convertNulls bool
		maxDepth     int
		debug        bool
		force        bool
		help         bool
	)

	flagSet := pflag.NewFlagSet("bplist", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&from, "from", "", "input format: yaml, json, cbor or msgpack (default: from file extension)")
	flagSet.StringVarP(&output, "output", "o", "", "write the plist to this file (default: stdout)")
	flagSet.BoolVar(&unique, "unique", true, "share one object among equal leaf values")
	flagSet.BoolVar(&convertNulls, "convert-nulls", false, "write null values as false")
	flagSet.IntVar(&maxDepth, "max-depth", value.DefaultMaxDepth, "maximum container nesting")
	flagSet.BoolVar(&debug, "debug", false, "log every object to stderr")
	flagSet.BoolVar(&force, "force", false, "write binary output to a terminal")
	flagSet.BoolVarP(&help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help {
		printHelp(stderr, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) > 1 {
		return fmt.Errorf("unexpected argument: %s", rest[1])
	}
	input := "-"
	if len(rest) == 1 {
		input = rest[0]
	}

	format, err := inputFormat(input, from)
	if err != nil {
		return err
	}

	var data []byte
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	doc, err := source.Decode(data, format)
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}

	opts := bplist.DefaultOptions().
		WithUnique(unique).
		WithMaxDepth(maxDepth).
		WithObjectHook(source.Hook)
	if convertNulls {
		opts = opts.WithConvertNulls(nil)
	}
	if debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		opts = opts.WithDebug(logger.Named("bplist"))
	}
	enc := bplist.NewEncoder(opts)

	if output == "" || output == "-" {
		if isTerminal(stdout) && !force {
			return fmt.Errorf("refusing to write binary plist to a terminal (use -o or --force)")
		}
		return enc.EncodeTo(stdout, doc)
	}

	out, err := enc.Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func inputFormat(input, from string) (source.Format, error) {
	if from != "" {
		return source.ParseFormat(from)
	}
	if input == "-" {
		return "", fmt.Errorf("reading stdin needs --from")
	}
	format, ok := source.Detect(input)
	if !ok {
		return "", fmt.Errorf("cannot tell the format of %s (use --from)", input)
	}
	return format, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Convert a YAML, JSON, CBOR or MessagePack document to a binary property list.

Usage: bplist [flags] [input]

Reads stdin when input is omitted or "-".

Flags:
%s`, flagSet.FlagUsages())
}
