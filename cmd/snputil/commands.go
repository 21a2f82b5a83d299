package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-rf/deembed/ieeep370"
	"github.com/cwbudde/algo-rf/measure/quality"
	"github.com/cwbudde/algo-rf/measure/tdr"
	"github.com/cwbudde/algo-rf/rf/mixedmode"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/touchstone"
)

// checkQuality prints the metrics of n, mixed mode for 4-ports, and
// reports whether they reach the pass criterion.
func (a *app) checkQuality(n network.Network, title string) (bool, error) {
	if n.Ports() == 4 {
		rep, err := quality.CheckMM(n, a.order)
		if err != nil {
			return false, err
		}
		a.printer.QualityMM(title, rep)
		return rep.Pass(a.cfg.PassCriterion), nil
	}
	rep := quality.CheckSE(n)
	a.printer.Quality(title, rep)
	return rep.Pass(a.cfg.PassCriterion), nil
}

func newBisectCmd(a *app) *cobra.Command {
	var side2 bool
	cmd := &cobra.Command{
		Use:   "bisect <2xthru.sNp> [ri|ma|db]",
		Short: "Split a 2x-thru into its fixture halves",
		Long: `bisect checks the quality of a 2x-thru measurement, splits it with the
IEEE P370 NZC algorithm and writes the first half as <stem>_bisect.sNp next
to the input. 4-ports are treated as differential pairs (see --order).`,
		Args: cobra.MatchAll(cobra.RangeArgs(1, 2), formatArg(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			files, f, err := a.splitFormat(args, 1)
			if err != nil {
				return err
			}
			in := files[0]
			thru, err := a.read(in)
			if err != nil {
				return err
			}

			pass, err := a.checkQuality(thru, filepath.Base(in))
			if err != nil {
				return err
			}
			a.printer.Verdict(pass, a.cfg.PassCriterion)
			if !pass {
				a.log.Warn("2x-thru fails quality check", zap.String("file", in))
			}
			if err := a.plot(in, thru, filepath.Base(in)); err != nil {
				return err
			}

			fx, err := ieeep370.Split(thru,
				ieeep370.WithZ0(a.cfg.Z0),
				ieeep370.WithOrder(a.order),
				ieeep370.WithPreResponseTime(a.cfg.PreResponseTime),
				ieeep370.WithLogger(a.log))
			if err != nil {
				return err
			}

			ext := touchstone.Ext(thru.Ports())
			dst := stem(in) + "_bisect" + ext
			fx.Side1.Name = base(dst)
			if err := a.write(dst, fx.Side1, f); err != nil {
				return err
			}
			if err := a.plot(dst, fx.Side1, filepath.Base(dst)+" (after bisect)"); err != nil {
				return err
			}
			if side2 {
				dst2 := stem(in) + "_bisect_side2" + ext
				fx.Side2.Name = base(dst2)
				if err := a.write(dst2, fx.Side2, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&side2, "side2", false, "also write the second half as <stem>_bisect_side2.sNp")
	return cmd
}

func newCascadeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cascade <a.sNp> <b.sNp> [ri|ma|db]",
		Short: "Connect two networks in series",
		Long: `cascade resamples b onto the frequency grid of a, connects side 2 of a to
side 1 of b and writes <a>_<b>_cascade.sNp to the output directory.`,
		Args: cobra.MatchAll(cobra.RangeArgs(2, 3), formatArg(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			files, f, err := a.splitFormat(args, 2)
			if err != nil {
				return err
			}
			na, nb, err := a.readPair(files[0], files[1])
			if err != nil {
				return err
			}
			out, err := network.Cascade(na, nb)
			if err != nil {
				return err
			}
			return a.writeResult(out, base(files[0])+"_"+base(files[1])+"_cascade", f, "after cascading")
		},
	}
}

func newDeembedCmd(a *app) *cobra.Command {
	var side string
	cmd := &cobra.Command{
		Use:   "deembed <total.sNp> <partial.sNp> [ri|ma|db]",
		Short: "Remove a fixture from a measurement",
		Long: `deembed removes partial from total and writes <total>_<partial>_deembed.sNp.

--side right (default) computes total ** partial⁻¹, --side left computes
partial⁻¹ ** total, and --side both removes partial on the left and its
flipped copy on the right, as produced by bisect.`,
		Args: cobra.MatchAll(cobra.RangeArgs(2, 3), formatArg(2), func(*cobra.Command, []string) error {
			switch strings.ToLower(side) {
			case "left", "right", "both":
				return nil
			}
			return fmt.Errorf("%w %q: want left, right or both", errSide, side)
		}),
		RunE: func(_ *cobra.Command, args []string) error {
			files, f, err := a.splitFormat(args, 2)
			if err != nil {
				return err
			}
			total, partial, err := a.readPair(files[0], files[1])
			if err != nil {
				return err
			}

			var out network.Network
			switch strings.ToLower(side) {
			case "left":
				out, err = network.DeembedLeft(partial, total)
			case "both":
				var right network.Network
				if right, err = partial.Flip(); err == nil {
					out, err = network.DeembedBoth(partial, total, right)
				}
			default:
				out, err = network.DeembedRight(total, partial)
			}
			if err != nil {
				return err
			}
			return a.writeResult(out, base(files[0])+"_"+base(files[1])+"_deembed", f, "after de-embedding")
		},
	}
	cmd.Flags().StringVar(&side, "side", "right", "fixture position: left, right or both")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a.sNp> <b.sNp> [ri|ma|db]",
		Short: "Point-wise S-parameter difference a - b",
		Args:  cobra.MatchAll(cobra.RangeArgs(2, 3), formatArg(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			files, f, err := a.splitFormat(args, 2)
			if err != nil {
				return err
			}
			na, nb, err := a.readPair(files[0], files[1])
			if err != nil {
				return err
			}
			out, err := network.Subtract(na, nb)
			if err != nil {
				return err
			}
			return a.writeResult(out, base(files[0])+"_"+base(files[1])+"_diff", f, "")
		},
	}
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in.sNp> [ri|ma|db]",
		Short: "Rewrite a file in another data format",
		Args:  cobra.MatchAll(cobra.RangeArgs(1, 2), formatArg(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			files, f, err := a.splitFormat(args, 1)
			if err != nil {
				return err
			}
			n, err := a.read(files[0])
			if err != nil {
				return err
			}
			dst, err := a.outPath(base(files[0]) + "_" + strings.ToLower(f.String()) + touchstone.Ext(n.Ports()))
			if err != nil {
				return err
			}
			return a.write(dst, n, f)
		},
	}
}

func newCombineCmd(a *app) *cobra.Command {
	var nports int
	cmd := &cobra.Command{
		Use:   "combine --ports N <out.sNp> <pair.s2p>...",
		Short: "Build an N-port from 2-port pair measurements",
		Long: `combine assembles an N-port from the 2-port measurements of every port
pair, given in the order 12, 13, ..., 1N, 23, ... . Reflections seen in
several pairs are averaged. All pairs are resampled onto the grid of the
first.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			pairs := make([]network.Network, 0, len(args)-1)
			for _, path := range args[1:] {
				n, err := a.read(path)
				if err != nil {
					return err
				}
				if len(pairs) > 0 {
					if _, n, err = network.Align(pairs[0], n); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				pairs = append(pairs, n)
			}
			out, err := network.FromTwoPorts(nports, pairs)
			if err != nil {
				return err
			}
			dst, err := a.target(args[0], touchstone.Ext(nports))
			if err != nil {
				return err
			}
			out.Name = base(dst)
			return a.write(dst, out, a.format)
		},
	}
	cmd.Flags().IntVar(&nports, "ports", 4, "port count of the combined network")
	return cmd
}

func newAttachCmd(a *app) *cobra.Command {
	var ports []int
	cmd := &cobra.Command{
		Use:   "attach <network.sNp> <cable.s2p> [ri|ma|db]",
		Short: "Place a cable 2-port in front of selected ports",
		Long: `attach connects port 2 of the cable to each selected port (1-based) of
the network; port 1 of the cable becomes the new external port. The result
is written as <network>_attached.sNp.`,
		Args: cobra.MatchAll(cobra.RangeArgs(2, 3), formatArg(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			files, f, err := a.splitFormat(args, 2)
			if err != nil {
				return err
			}
			n, err := a.read(files[0])
			if err != nil {
				return err
			}
			cable, err := a.read(files[1])
			if err != nil {
				return err
			}
			if _, cable, err = network.Align(n, cable); err != nil {
				return err
			}
			for _, p := range ports {
				if n, err = network.AttachPort(n, p-1, cable); err != nil {
					return fmt.Errorf("port %d: %w", p, err)
				}
				a.log.Debug("attached cable", zap.Int("port", p), zap.String("cable", cable.Name))
			}
			return a.writeResult(n, base(files[0])+"_attached", f, "with cable")
		},
	}
	cmd.Flags().IntSliceVar(&ports, "ports", []int{1}, "1-based ports that receive the cable")
	return cmd
}

func newZerosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zeros <reference.sNp> <out.s2p>",
		Short: "Write an all-zero 2-port on the grid of a reference file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ref, err := a.read(args[0])
			if err != nil {
				return err
			}
			dst, err := a.target(args[1], touchstone.Ext(2))
			if err != nil {
				return err
			}
			n, err := network.Zeros(base(dst), ref.Freq, 2, a.cfg.Z0)
			if err != nil {
				return err
			}
			return a.write(dst, n, a.format)
		},
	}
}

func newQMCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "qm <file.sNp>",
		Short: "Print IEEE P370 quality metrics",
		Long: `qm prints causality, passivity and reciprocity of a network, per mode for
4-ports. The exit status is 2 when a metric is below the pass criterion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := a.read(args[0])
			if err != nil {
				return err
			}
			pass, err := a.checkQuality(n, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			a.printer.Outcome(pass, a.cfg.PassCriterion)
			if !pass {
				return fmt.Errorf("%s: %w", args[0], errQualityFailed)
			}
			return nil
		},
	}
}

func newTDRCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tdr <file.sNp>",
		Short: "Print propagation delay and TDR impedance range",
		Long: `tdr transforms a 1-port or 2-port (4-ports: the differential SDD block) to
the time domain and prints the S21 delay and the port 1 impedance range up
to the round trip. The grid must be f_k = k·Δf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := a.read(args[0])
			if err != nil {
				return err
			}
			if n.Ports() == 4 {
				mm, err := mixedmode.ToMixedMode(n, a.order)
				if err != nil {
					return err
				}
				if n, err = mixedmode.SDD(mm); err != nil {
					return err
				}
			}
			m, err := tdr.NewAnalyzer(0).Analyze(n)
			if err != nil {
				return err
			}
			if n.Ports() == 2 {
				fmt.Fprintf(a.stdout, "%s: delay %.1f ps (onset %.1f ps)\n", args[0], m.Delay*1e12, m.Onset*1e12)
			}
			fmt.Fprintf(a.stdout, "%s: impedance %.2f..%.2f ohm\n", args[0], m.MinImpedance, m.MaxImpedance)
			return nil
		},
	}
}

// writeResult writes n as name.sNp in the output directory and renders its
// chart.
func (a *app) writeResult(n network.Network, name string, f touchstone.Format, caption string) error {
	dst, err := a.outPath(name + touchstone.Ext(n.Ports()))
	if err != nil {
		return err
	}
	n.Name = name
	if err := a.write(dst, n, f); err != nil {
		return err
	}
	title := filepath.Base(dst)
	if caption != "" {
		title += " (" + caption + ")"
	}
	return a.plot(dst, n, title)
}

// target resolves a user-given output file: bare names go to the output
// directory and get ext when they have none.
func (a *app) target(name, ext string) (string, error) {
	if filepath.Ext(name) == "" {
		name += ext
	}
	if filepath.Dir(name) != "." {
		return name, nil
	}
	return a.outPath(name)
}
