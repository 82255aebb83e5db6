package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/jackhale98/PDT/stackup"
	"github.com/jackhale98/PDT/torsor"
)

func dirOf(path string) string {
	return filepath.Dir(path)
}

func fmtF(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmtF(*v)
}

// printVerdict renders a pass/marginal/fail line with the matching printer.
func printVerdict(label string, verdict stackup.Verdict, margin float64) {
	switch verdict {
	case stackup.VerdictPass:
		pterm.Success.Printf("%s: PASS (margin %.4f)\n", label, margin)
	case stackup.VerdictMarginal:
		pterm.Warning.Printf("%s: MARGINAL (margin %.4f)\n", label, margin)
	default:
		pterm.Error.Printf("%s: FAIL (margin %.4f)\n", label, margin)
	}
}

// renderResults prints the 1D analysis results for whichever methods ran.
func renderResults(res *stackup.AnalysisResults, target stackup.Target) {
	if wc := res.WorstCase; wc != nil {
		pterm.DefaultSection.WithLevel(2).Println("Worst Case")
		data := pterm.TableData{
			{"Min", "Max", "LSL", "USL"},
			{fmtF(wc.Min), fmtF(wc.Max), fmtF(target.LSL), fmtF(target.USL)},
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		printVerdict("Worst case", wc.Verdict, wc.Margin)
	}

	if rss := res.RSS; rss != nil {
		pterm.DefaultSection.WithLevel(2).Println("RSS")
		data := pterm.TableData{
			{"Mean", "Sigma", "3-Sigma", "Cp", "Cpk", "Yield %"},
			{fmtF(rss.Mean), fmtF(rss.Sigma), fmtF(rss.Sigma3),
				fmtOpt(rss.Cp), fmtOpt(rss.Cpk), fmtF(rss.YieldPercent)},
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		if rss.ShiftedMean != nil {
			pterm.Info.Printf("Mean shifted to %.4f for Cpk\n", *rss.ShiftedMean)
		}
	}

	if mc := res.MonteCarlo; mc != nil {
		pterm.DefaultSection.WithLevel(2).Println("Monte Carlo")
		data := pterm.TableData{
			{"Iterations", "Mean", "StdDev", "P2.5", "P97.5", "Pp", "Ppk", "Yield %"},
			{fmt.Sprintf("%d", mc.Iterations), fmtF(mc.Mean), fmtF(mc.StdDev),
				fmtF(mc.Percentile2_5), fmtF(mc.Percentile975),
				fmtOpt(mc.Pp), fmtOpt(mc.Ppk), fmtF(mc.YieldPercent)},
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		pterm.Info.Printf("Seed: %d\n", mc.Seed)
	}
}

// renderContributorSensitivity prints each contributor's variance share.
func renderContributorSensitivity(contribs []stackup.Contributor, sensitivity []float64) {
	if len(sensitivity) != len(contribs) {
		return
	}
	pterm.DefaultSection.WithLevel(2).Println("Sensitivity")
	data := pterm.TableData{{"Contributor", "Share %"}}
	for i, c := range contribs {
		data = append(data, []string{c.Name, fmt.Sprintf("%.1f", sensitivity[i])})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// renderTorsorAnalysis prints the 3D propagation result: the per-component
// table, the top sensitivity shares, and the functional projection when one
// was computed.
func renderTorsorAnalysis(a *torsor.Analysis) {
	pterm.DefaultSection.WithLevel(2).Println("3D Torsor Propagation")

	data := pterm.TableData{{"DOF", "WC Min", "WC Max", "RSS Mean", "RSS 3-Sigma", "MC Mean", "MC StdDev"}}
	for dof := 0; dof < torsor.NumDOF; dof++ {
		s := a.Torsor.DOF(dof)
		data = append(data, []string{
			torsor.DOFNames[dof],
			fmtF(s.WCMin), fmtF(s.WCMax),
			fmtF(s.RSSMean), fmtF(s.RSS3Sigma),
			fmtOpt(s.MCMean), fmtOpt(s.MCStdDev),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	pterm.Printf("Chain: %d contributors, %d constrained DOF\n",
		a.Summary.ChainLength, a.Summary.ConstrainedDOF)
	if len(a.Summary.ResultFreeDOF) > 0 {
		names := make([]string, 0, len(a.Summary.ResultFreeDOF))
		for _, dof := range a.Summary.ResultFreeDOF {
			names = append(names, torsor.DOFNames[dof])
		}
		pterm.Printf("Free at result: %v\n", names)
	}

	if len(a.Sensitivity) > 0 {
		pterm.DefaultSection.WithLevel(2).Println("3D Sensitivity")
		data := pterm.TableData{{"Contributor", "u %", "v %", "w %", "alpha %", "beta %", "gamma %"}}
		for _, s := range a.Sensitivity {
			row := []string{s.Name}
			for dof := 0; dof < torsor.NumDOF; dof++ {
				row = append(row, fmt.Sprintf("%.1f", s.Contribution[dof]))
			}
			data = append(data, row)
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	if p := a.Projection; p != nil {
		pterm.DefaultSection.WithLevel(2).Println("Functional Projection")
		data := pterm.TableData{
			{"Direction", "WC Min", "WC Max", "RSS Mean", "RSS 3-Sigma", "Cp", "Cpk", "Yield %"},
			{fmt.Sprintf("[%.3g %.3g %.3g]", p.Direction[0], p.Direction[1], p.Direction[2]),
				fmtF(p.WCMin), fmtF(p.WCMax), fmtF(p.RSSMean), fmtF(p.RSS3Sigma),
				fmtOpt(p.Cp), fmtOpt(p.Cpk), fmtF(p.YieldPercent)},
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		printVerdict("Functional", p.Verdict, p.Margin)
	}

	if a.Seed != nil {
		pterm.Info.Printf("Seed: %d\n", *a.Seed)
	}
}
