// Command uartacq triggers a capture on the DUT over UART, reads back one
// raw IQ frame, and renders the magnitude spectrum alongside the real and
// imaginary parts as a three-panel PNG.
//
// Usage:
//
//	uartacq -p /dev/ttyUSB0
//	uartacq -p COM3 -b 230400 -o capture.png
//	uartacq -p /dev/ttyUSB0 --profile board-b.yaml
//
// On a short read the received byte count is reported and no plot is
// produced.
package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/dsptools/acquire"
	"github.com/cwbudde/dsptools/dsp/spectrum"
	"github.com/cwbudde/dsptools/hwprofile"
	"github.com/cwbudde/dsptools/iq"
	"github.com/cwbudde/dsptools/render"
)

var (
	serialPort  string
	baudrate    int
	outputFile  string
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:           "uartacq",
	Short:         "Acquire one IQ frame from the DUT and plot its spectrum",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&serialPort, "serial-port", "p", "", "serial port name (e.g. COM3 or /dev/ttyUSB0)")
	rootCmd.Flags().IntVarP(&baudrate, "baudrate", "b", acquire.DefaultBaud, "UART baudrate")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "spectrum.png", "output plot PNG path")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "hardware profile YAML (defaults to the reference target)")

	_ = rootCmd.MarkFlagRequired("serial-port")
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

	prof, err := loadProfile()
	if err != nil {
		return err
	}

	link, err := acquire.Open(serialPort, baudrate, prof.UART.ReadTimeout())
	if err != nil {
		return err
	}
	defer link.Close()

	log.Infow("reading UART link",
		"port", serialPort,
		"baudrate", baudrate,
		"frame_bytes", prof.UART.FrameBytes,
	)

	session, err := acquire.NewSession(link,
		acquire.WithSettleDelay(prof.UART.SettleDelay()),
	)
	if err != nil {
		return err
	}

	frame, err := session.Acquire(prof.UART.FrameBytes)
	if err != nil {
		var sr *acquire.ShortReadError
		if errors.As(err, &sr) {
			// Reported, not retried; no plot is produced.
			return fmt.Errorf("error when reading UART: received %d bytes instead of %d", sr.Received, sr.Expected)
		}
		return err
	}

	layout := iq.Layout{
		FrameBytes: prof.UART.FrameBytes,
		BinStepHz:  prof.Spectrum.BinStepHz,
	}
	sp, err := layout.Decode(frame)
	if err != nil {
		return err
	}

	log.Infow("frame decoded",
		"points", sp.Len(),
		"mean_power_db", meanPowerDB(sp),
	)

	var renderer render.Renderer = &render.PNG{Path: outputFile}
	if err := renderer.Render(sp); err != nil {
		return err
	}

	log.Infow("spectrum rendered", "points", sp.Len(), "path", outputFile)
	return nil
}

// meanPowerDB summarizes the capture as 10*log10 of the mean per-bin power.
// An all-zero frame yields -Inf, which zap prints as-is.
func meanPowerDB(sp *iq.Spectrum) float64 {
	pow := make([]float64, sp.Len())
	spectrum.PowerFromParts(pow, sp.Re, sp.Im)
	var sum float64
	for _, p := range pow {
		sum += p
	}
	return 10 * math.Log10(sum/float64(sp.Len()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
