// Command recalibrate corrects the wavelength solution of a spectrum
// against a previously calibrated reference exposure of the same
// instrument.
//
// Usage:
//
//	recalibrate [flags] SpectrumFluxFile RefSpectrumFile OutputWavlFile
//
// SpectrumFluxFile holds the uncalibrated flux values, one per line.
// RefSpectrumFile holds the calibrated reference as "wavelength flux"
// pairs, one pair per line, for the same pixels. The corrected
// wavelength array is written to OutputWavlFile, one value per line.
//
// Examples:
//
//	recalibrate spectrum.txt reference.txt wavelengths.txt
//	recalibrate -method x -seed-shift spectrum.txt reference.txt out.txt
//	recalibrate -method lpvw6 -reg 100 spectrum.txt reference.txt out.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-calib/calib/dispersion"
	"github.com/cwbudde/algo-calib/calib/shift"
)

func main() {
	var (
		method    = flag.String("method", "p3", "distortion model selector (pN, cN, v, x, l<roles>N)")
		reg       = flag.Float64("reg", 0, "LASSO regularization for Legendre shift parameters")
		cov       = flag.Bool("cov", false, "print the parameter covariance matrix")
		seedShift = flag.Bool("seed-shift", false, "seed the pixel-shift guess by phase cross-correlation")
		upsample  = flag.Int("upsample", 10, "sub-pixel resolution of the shift seed (1/upsample pixels)")
	)
	flag.Parse()

	if flag.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: recalibrate [flags] SpectrumFluxFile RefSpectrumFile OutputWavlFile")
		flag.PrintDefaults()
		os.Exit(2)
	}

	observed, err := readColumns(flag.Arg(0), 1)
	if err != nil {
		fatalf("reading spectrum flux: %v", err)
	}
	ref, err := readColumns(flag.Arg(1), 2)
	if err != nil {
		fatalf("reading reference spectrum: %v", err)
	}

	opts := []dispersion.Option{dispersion.WithRegularization(*reg)}
	if *cov {
		opts = append(opts, dispersion.WithCovariance(nil))
	}
	if *seedShift {
		opts = append(opts, dispersion.WithShiftSeed(shift.New(), *upsample))
	}

	res, err := dispersion.Recalibrate(observed[0], ref[0], ref[1], *method, opts...)
	if err != nil {
		fatalf("recalibration failed: %v", err)
	}

	if res.Status != dispersion.StatusConverged {
		fmt.Fprintf(os.Stderr, "warning: optimizer reported %s; writing best-found solution\n", res.Status)
	}
	fmt.Printf("method %s: %s\n", *method, res.Status)
	fmt.Printf("fitted parameters: %v\n", res.Params)
	if res.Roles != nil {
		fmt.Printf("shift roles: p=%g v=%g w=%g\n",
			res.Roles[dispersion.RolePixel],
			res.Roles[dispersion.RoleVelocity],
			res.Roles[dispersion.RoleWavelength])
	}
	if res.Covariance != nil {
		r, c := res.Covariance.Dims()
		fmt.Println("parameter covariance:")
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				fmt.Printf(" %12.5e", res.Covariance.At(i, j))
			}
			fmt.Println()
		}
	}

	if err := writeColumn(flag.Arg(2), res.Wavelength); err != nil {
		fatalf("writing wavelength solution: %v", err)
	}
	fmt.Printf("wavelength solution saved in %s\n", flag.Arg(2))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "recalibrate: "+format+"\n", args...)
	os.Exit(1)
}

// readColumns reads a whitespace-separated text file with the given
// number of columns per line and returns one slice per column. Blank
// lines and lines starting with '#' are skipped.
func readColumns(path string, cols int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make([][]float64, cols)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != cols {
			return nil, fmt.Errorf("%s:%d: expected %d columns, got %d", path, line, cols, len(fields))
		}
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			out[i] = append(out[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func writeColumn(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, v := range values {
		fmt.Fprintf(w, "%.10g\n", v)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
