// proxsim replays recorded scan results through the proximity gate and
// prints what a payer device would show. Each input line is
//
//	<local name>,<rssi>
//
// for example "GOTCHU0a1b2c3d4e,-32". Blank lines and lines starting with
// '#' are skipped. Gate parameters default to the PROXIMITY_* environment
// and can be overridden with flags.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"proximity-pay/internal/pkg/config"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/proximity"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	envCfg, err := config.LoadProximityConfig()
	if err != nil {
		return err
	}

	var (
		cfg      = proximity.Config(envCfg)
		filePath string
		verbose  bool
	)

	flagSet := pflag.NewFlagSet("proxsim", pflag.ContinueOnError)
	flagSet.IntVar(&cfg.Window, "window", cfg.Window, "samples kept per candidate")
	flagSet.IntVar(&cfg.RequiredSamples, "required", cfg.RequiredSamples, "strong samples needed in the window")
	flagSet.IntVar(&cfg.StrongThreshold, "strong", cfg.StrongThreshold, "a sample is strong above this dBm")
	flagSet.IntVar(&cfg.MinAverage, "min-average", cfg.MinAverage, "window average must be above this dBm")
	flagSet.IntVar(&cfg.MaxCandidates, "max-candidates", cfg.MaxCandidates, "candidates tracked at once")
	flagSet.StringVarP(&filePath, "file", "f", "", "read samples from this file instead of stdin")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "print every accepted sample, not only gate events")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	detector, err := proximity.NewDetector(cfg)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	scanner := proximity.NewScanner(detector, logger)

	in := stdin
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return errs.Wrapf(err, "cannot open %s", filePath)
		}
		defer f.Close()
		in = f
	}

	scanner.Start()
	defer scanner.Stop()

	if err := replay(in, stdout, scanner, verbose); err != nil {
		return err
	}

	for _, eid := range scanner.Discovered() {
		fmt.Fprintf(stdout, "discovered %s ready=%t\n", eid, detector.Fired(eid.String()))
	}
	return nil
}

func replay(in io.Reader, out io.Writer, scanner *proximity.Scanner, verbose bool) error {
	lines := bufio.NewScanner(in)
	lineNo := 0
	for lines.Scan() {
		lineNo++
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		adv, err := parseLine(line)
		if err != nil {
			return errs.Wrapf(err, "line %d", lineNo)
		}

		r, ok := scanner.HandleAdvertisement(adv)
		if !ok {
			continue
		}
		switch {
		case r.Fired:
			fmt.Fprintf(out, "READY %s avg=%d strong=%d/%d\n", r.CandidateID, r.Average, r.StrongSamples, r.Samples)
		case verbose:
			fmt.Fprintf(out, "%s rssi=%d avg=%d tier=%s %q\n", r.CandidateID, r.RSSI, r.Average, r.Tier, r.Status)
		}
	}
	return lines.Err()
}

func parseLine(line string) (proximity.Advertisement, error) {
	name, rssiText, found := strings.Cut(line, ",")
	if !found {
		return proximity.Advertisement{}, errs.Newf("expected <local name>,<rssi>, got %q", line)
	}
	rssi, err := strconv.Atoi(strings.TrimSpace(rssiText))
	if err != nil {
		return proximity.Advertisement{}, errs.Wrapf(err, "bad rssi %q", rssiText)
	}
	return proximity.Advertisement{
		LocalName:    strings.TrimSpace(name),
		ServiceUUIDs: []string{proximity.ServiceUUID},
		RSSI:         rssi,
	}, nil
}
