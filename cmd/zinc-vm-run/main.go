// Command zinc-vm-run executes a compiled Zinc bytecode program against a
// JSON input/witness document and prints its result, the way the teacher's
// cmd/vybium-vm-prover reads a claim/program/non_determinism document from
// stdin and prints a proof to stdout. Structured event logging follows the
// instruction-level zerolog.Debug() convention used by VM dispatch loops
// elsewhere in the ecosystem (an internal bytecode-VM runtime logs each
// processed opcode the same way: log.Debug().Int(...).Str(...).Msg(...)).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/driver"
	"github.com/zinc-project/zinc-vm/internal/zincvm/vm"
)

func main() {
	requestPath := flag.String("request", "", "path to a JSON request document (defaults to stdin)")
	verbose := flag.Bool("verbose", false, "emit debug-level execution logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(*requestPath); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(requestPath string) error {
	var src io.Reader = os.Stdin
	if requestPath != "" {
		f, err := os.Open(requestPath)
		if err != nil {
			return fmt.Errorf("opening request: %w", err)
		}
		defer f.Close()
		src = f
	}

	var req driver.Request
	if err := json.NewDecoder(src).Decode(&req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	log.Debug().Int("bytecode_bytes", len(req.Bytecode)).Msg("request decoded")

	cfg := vm.Config{Field: core.BN254ScalarField()}

	start := time.Now()
	resp, err := driver.Run(req, cfg)
	if err != nil {
		return err
	}
	log.Info().
		Uint64("cycles", resp.CycleCount).
		Int("constraints", resp.ConstraintCount).
		Int("variables", resp.VariableCount).
		Dur("elapsed", time.Since(start)).
		Msg("execution complete")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
