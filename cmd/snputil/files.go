package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-rf/internal/plot"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/touchstone"
)

var (
	errPortCount = errors.New("the two files do not have the same number of ports")
	errSide      = errors.New("invalid --side")
)

// splitFormat separates the files from an optional trailing ri|ma|db
// argument.
func (a *app) splitFormat(args []string, files int) ([]string, touchstone.Format, error) {
	if len(args) <= files {
		return args, a.format, nil
	}
	f, err := touchstone.ParseFormat(args[files])
	if err != nil {
		return nil, 0, err
	}
	return args[:files], f, nil
}

// formatArg rejects a trailing argument after the given number of files
// that is not ri, ma or db.
func formatArg(files int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) <= files {
			return nil
		}
		_, err := touchstone.ParseFormat(args[files])
		return err
	}
}

func (a *app) read(path string) (network.Network, error) {
	n, err := touchstone.ReadFile(path)
	if err != nil {
		return network.Network{}, err
	}
	a.log.Debug("read network",
		zap.String("file", path),
		zap.Int("ports", n.Ports()),
		zap.Int("points", n.Len()),
		zap.Stringer("freq", n.Freq))
	return n, nil
}

func (a *app) readPair(pathA, pathB string) (network.Network, network.Network, error) {
	na, err := a.read(pathA)
	if err != nil {
		return network.Network{}, network.Network{}, err
	}
	nb, err := a.read(pathB)
	if err != nil {
		return network.Network{}, network.Network{}, err
	}
	if na.Ports() != nb.Ports() {
		return network.Network{}, network.Network{}, fmt.Errorf("%w (%d and %d)", errPortCount, na.Ports(), nb.Ports())
	}
	return network.Align(na, nb)
}

// outPath places name in the output directory, creating it when needed.
func (a *app) outPath(name string) (string, error) {
	if err := os.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(a.cfg.OutDir, name), nil
}

func (a *app) write(path string, n network.Network, f touchstone.Format) error {
	if err := touchstone.WriteFile(path, n, touchstone.WithFormat(f), touchstone.WithUnit(a.unit)); err != nil {
		return err
	}
	a.log.Info("wrote network", zap.String("file", path), zap.Stringer("format", f))
	a.printer.Written("wrote", path)
	return nil
}

// plot renders the chart next to the touchstone file at path.
func (a *app) plot(path string, n network.Network, title string) error {
	if a.cfg.NoPlot {
		return nil
	}
	if p := n.Ports(); p != 2 && p != 4 {
		a.log.Debug("skipping chart", zap.String("file", path), zap.Int("ports", p))
		return nil
	}
	png := stem(path) + ".png"
	if err := plot.WriteFile(png, n, title, plot.WithOrder(a.order)); err != nil {
		return err
	}
	a.printer.Written("chart", png)
	return nil
}

// stem strips the extension from path.
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func base(path string) string {
	return filepath.Base(stem(path))
}
