package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	internal "github.com/ZanzyTHEbar/molencoder/molenc"
	"github.com/ZanzyTHEbar/molencoder/molenc/config"
	"github.com/ZanzyTHEbar/molencoder/molenc/service"

	"github.com/rs/zerolog"
)

// ============================================================================
// molenc — one-hot encode SMILES files
//
// Input files hold one molecule per line; only the first whitespace-separated
// field (the SMILES) is used, so "CCO ethanol" style .smi files work as is.
//
// Examples:
//   molenc charset molecules.smi        derive (or load) and print the charset
//   molenc check molecules.smi          list rows the charset cannot encode
//   molenc roundtrip molecules.smi      encode, decode and count mismatches
//   molenc -config molenc.yaml -v check molecules.smi
// ============================================================================

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search ., .., etc/molenc, ~/.config/molenc)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] charset|check|roundtrip FILE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	logger := internal.GetLogger().Level(zerolog.InfoLevel)
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	if err := run(context.Background(), *configPath, flag.Arg(0), flag.Arg(1), os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("molenc failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, command, file string, out io.Writer, logger zerolog.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	corpus, err := readSMILES(file)
	if err != nil {
		return err
	}

	st, err := service.OpenStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := service.New(cfg, st, logger)
	if err != nil {
		return err
	}

	switch command {
	case "charset":
		cs, err := svc.Resolve(ctx, corpus)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%q (%d characters)\n", cs.String(), cs.Len())

	case "check":
		if _, err := svc.Resolve(ctx, corpus); err != nil {
			return err
		}
		rep, err := svc.Check(ctx, corpus)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "rows:        %d\n", rep.Rows)
		fmt.Fprintf(out, "charset:     %q\n", rep.Charset.String())
		fmt.Fprintf(out, "missing:     %q\n", string(rep.Missing))
		fmt.Fprintf(out, "unencodable: %d\n", len(rep.Unencodable))
		fmt.Fprintf(out, "overlong:    %d (pad length %d)\n", len(rep.Overlong), cfg.Encoder.PadLength)
		for _, row := range rep.Unencodable {
			fmt.Fprintf(out, "  unencodable row %d: %s\n", row, corpus[row])
		}

	case "roundtrip":
		batch, err := svc.Encode(ctx, corpus)
		if err != nil {
			return err
		}
		decoded, err := svc.Decode(ctx, batch.Matrices())
		if err != nil {
			return err
		}
		n, rows, cols := batch.Shape()
		mismatches := 0
		for i, s := range decoded {
			if s != corpus[i] {
				mismatches++
				logger.Debug().Int("row", i).Str("in", corpus[i]).Str("out", s).Msg("round trip mismatch")
			}
		}
		fmt.Fprintf(out, "encoded %dx%dx%d, %d mismatches\n", n, rows, cols, mismatches)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func readSMILES(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var corpus []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		corpus = append(corpus, fields[0])
	}
	return corpus, scanner.Err()
}
