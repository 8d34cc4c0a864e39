// Command genrom precomputes a periodic waveform, quantizes it, and writes
// it as a hex-per-line memory initialization file for the target's ROM.
//
// Usage:
//
//	genrom -o rom.mem -s 100 --sin
//	genrom -o rom.mem -s 100 --square
//	genrom -o rom.mem -s 100 --square --profile board-b.yaml --strict-range
//
// Exactly one of --sin or --square must be given; an ambiguous or missing
// selection is rejected instead of guessing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/dsptools/dsp/waveform"
	"github.com/cwbudde/dsptools/hwprofile"
	"github.com/cwbudde/dsptools/rom"
)

var (
	outputFile  string
	samplingMHz int
	genSine     bool
	genSquare   bool
	profilePath string
	strictRange bool
)

var rootCmd = &cobra.Command{
	Use:           "genrom",
	Short:         "Generate a waveform ROM initialization file",
	Long:          "genrom synthesizes a sine or band-limited square wave, quantizes it,\nand writes one hex-encoded big-endian word per line for use as a ROM\ninitialization file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputFile, "output-rom-file", "o", "", "output ROM file path")
	rootCmd.Flags().IntVarP(&samplingMHz, "sampling-frequency", "s", 0, "target sampling frequency in MHz")
	rootCmd.Flags().BoolVar(&genSine, "sin", false, "generate a SIN signal")
	rootCmd.Flags().BoolVar(&genSquare, "square", false, "generate a SQUARE signal")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "hardware profile YAML (defaults to the reference target)")
	rootCmd.Flags().BoolVar(&strictRange, "strict-range", false, "fail on quantization overflow instead of saturating")

	_ = rootCmd.MarkFlagRequired("output-rom-file")
	_ = rootCmd.MarkFlagRequired("sampling-frequency")
}

func selectKind() (waveform.Kind, error) {
	switch {
	case genSine && genSquare:
		return waveform.KindNone, fmt.Errorf("--sin and --square are mutually exclusive")
	case genSine:
		return waveform.KindSine, nil
	case genSquare:
		return waveform.KindSquare, nil
	default:
		return waveform.KindNone, fmt.Errorf("one of --sin or --square is required")
	}
}

func loadProfile() (hwprofile.Profile, error) {
	if profilePath == "" {
		return hwprofile.Default(), nil
	}
	return hwprofile.Load(profilePath)
}

func run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	log := logger.Sugar()

	kind, err := selectKind()
	if err != nil {
		return err
	}

	prof, err := loadProfile()
	if err != nil {
		return err
	}

	gen, err := waveform.NewGenerator(waveform.Config{
		SampleRate:  1e6 * float64(samplingMHz),
		Gain:        prof.ROM.Gain,
		AddressBits: prof.ROM.AddressBits,
		Kind:        kind,
		CarrierHz:   prof.ROM.CarrierHz,
		Harmonics:   prof.ROM.Harmonics,
	})
	if err != nil {
		return err
	}

	enc, err := rom.NewEncoder(prof.ROM.WordBits,
		rom.WithRangeBits(prof.ROM.QuantBits),
		rom.WithSaturation(!strictRange),
	)
	if err != nil {
		return err
	}

	log.Infow("generating ROM",
		"kind", kind.String(),
		"sampling_frequency_mhz", samplingMHz,
		"samples", gen.Config().SampleCount(),
		"word_bits", prof.ROM.WordBits,
		"quant_bits", prof.ROM.QuantBits,
		"output", outputFile,
	)

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputFile, err)
	}

	if err := enc.Write(f, gen.Samples()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outputFile, err)
	}

	log.Infow("ROM written", "path", outputFile)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
