package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jackhale98/PDT/entity"
	"github.com/jackhale98/PDT/torsor"
)

// FeatCmd represents the feat (feature) command
var FeatCmd = &cobra.Command{
	Use:   "feat",
	Short: "Manage toleranced features",
	Long: `feat — Manage toleranced features

A feature file holds the dimensions, position tolerance, and geometry of
one feature. Stackup contributors reference features by ID so tolerances
are declared once and shared across chains.

Examples:
  pdt feat new "Mounting Hole"            # Create a feature skeleton
  pdt feat show FEAT-xxxx.yaml            # Display a feature
  pdt feat bounds FEAT-xxxx.yaml          # Show its 6-DOF deviation bounds
  pdt feat bounds FEAT-xxxx.yaml --actual-size 10.02`,
}

var featNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new feature file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeatNew,
}

var featShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Display a feature",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeatShow,
}

var featBoundsCmd = &cobra.Command{
	Use:   "bounds <file>",
	Short: "Show a feature's 6-DOF deviation bounds",
	Long: `Derive and display the small-displacement bounds of a feature.

The geometry class selects which torsor components the tolerances bound.
With --actual-size the material condition bonus widens the position zone
before conversion.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatBounds,
}

var (
	featOut        string
	featActualSize float64
)

func init() {
	featNewCmd.Flags().StringVar(&featOut, "out", "", "Output path (default: <id>.yaml)")
	featBoundsCmd.Flags().Float64Var(&featActualSize, "actual-size", 0, "Measured size for material condition bonus")

	FeatCmd.AddCommand(featNewCmd)
	FeatCmd.AddCommand(featShowCmd)
	FeatCmd.AddCommand(featBoundsCmd)
}

func runFeatNew(cmd *cobra.Command, args []string) error {
	length := 25.0
	f := &entity.Feature{
		ID:      entity.NewFeatureID(),
		Title:   args[0],
		Created: time.Now().UTC(),
		Dimensions: []entity.Dimension{
			{Name: "diameter", Nominal: 10.0, PlusTol: 0.05, MinusTol: 0.05, Internal: true},
		},
		GeometryClass: torsor.ClassCylinder,
		Geometry3D: &torsor.Geometry3D{
			Axis:   [3]float64{0, 0, 1},
			Length: &length,
		},
	}

	path := featOut
	if path == "" {
		path = string(f.ID) + ".yaml"
	}
	if err := entity.SaveFeature(path, f); err != nil {
		return err
	}

	pterm.Success.Printf("Created feature %s\n", f.ID.Short())
	pterm.Info.Printf("Edit %s to set the dimensions and geometry\n", path)
	return nil
}

func runFeatShow(cmd *cobra.Command, args []string) error {
	f, err := entity.LoadFeature(args[0])
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printf("%s  %s", f.ID.Short(), f.Title)
	if f.Description != "" {
		pterm.Println(f.Description)
	}
	if f.GeometryClass != "" {
		pterm.Printf("Geometry class: %s\n", f.GeometryClass)
	}

	if len(f.Dimensions) > 0 {
		data := pterm.TableData{{"Dimension", "Nominal", "+Tol", "-Tol", "Type"}}
		for _, d := range f.Dimensions {
			kind := "external"
			if d.Internal {
				kind = "internal"
			}
			data = append(data, []string{
				d.Name, fmt.Sprintf("%.4g", d.Nominal),
				fmt.Sprintf("%.4g", d.PlusTol), fmt.Sprintf("%.4g", d.MinusTol),
				kind,
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}

	if p := f.Position; p != nil {
		cond := string(p.MaterialCondition)
		if cond == "" {
			cond = "rfs"
		}
		pterm.Printf("Position: %.4g dia at %s\n", p.Tolerance, cond)
	}
	return nil
}

func runFeatBounds(cmd *cobra.Command, args []string) error {
	f, err := entity.LoadFeature(args[0])
	if err != nil {
		return err
	}

	var actual *float64
	if cmd.Flags().Changed("actual-size") {
		actual = &featActualSize
	}
	bounds := f.TorsorBounds(actual)

	pterm.DefaultSection.Printf("%s  %s", f.ID.Short(), f.Title)
	if !bounds.HasAny() {
		pterm.Warning.Println("Feature has no toleranced components")
		return nil
	}

	data := pterm.TableData{{"DOF", "Min", "Max", "Width"}}
	for dof := 0; dof < torsor.NumDOF; dof++ {
		if *bounds.DOF(dof) == nil {
			continue
		}
		iv := bounds.At(dof)
		data = append(data, []string{
			torsor.DOFNames[dof],
			fmt.Sprintf("%+.5f", iv.Min()),
			fmt.Sprintf("%+.5f", iv.Max()),
			fmt.Sprintf("%.5f", iv.Width()),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
