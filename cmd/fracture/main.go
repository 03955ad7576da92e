// Command fracture computes 3D Voronoi tessellations from scene scripts
// or built-in generators and exports the resulting cells as STL or JSON.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/stat"

	"github.com/chazu/fracture/pkg/engine"
	"github.com/chazu/fracture/pkg/export"
	"github.com/chazu/fracture/pkg/geom"
	"github.com/chazu/fracture/pkg/mesh"
	"github.com/chazu/fracture/pkg/scene"
	"github.com/chazu/fracture/pkg/voronoi"
)

const (
	appName = "fracture"
	version = "v0.1.0"
)

var (
	cfgFile    string
	scriptPath string
	points     int
	extent     float64
	rngSeed    int
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "3D Voronoi tessellation by plane cutting",
	Long: `fracture carves a convex Voronoi cell for every seed point by
clipping a padded bounding box against the bisector planes to all other
seeds. Scenes come from a Lisp scene script or from the built-in
generators, and finished cells can be exported as STL or JSON meshes.`,
	Version: version,
}

// computeCmd runs the tessellation pipeline and reports a summary.
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the Voronoi tessellation of a scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		cells, err := runPipeline()
		if err != nil {
			return err
		}

		total := 0.0
		for _, c := range cells {
			total += mesh.FromPolyhedron(c.Polyhedron).Volume
		}
		log.Printf("computed %d cells, total volume %.4f", len(cells), total)

		if path := viper.GetString("output.stl"); path != "" {
			if err := export.SaveSTL(path, cells); err != nil {
				return err
			}
			log.Printf("wrote %s", path)
		}
		if path := viper.GetString("output.json"); path != "" {
			if err := export.SaveJSON(path, cells); err != nil {
				return err
			}
			log.Printf("wrote %s", path)
		}
		return nil
	},
}

// versionCmd reports the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the " + appName + " version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", appName, version)
	},
}

// statsCmd runs the pipeline and prints volume statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute a tessellation and report cell volume statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cells, err := runPipeline()
		if err != nil {
			return err
		}
		if len(cells) == 0 {
			fmt.Println("no cells")
			return nil
		}

		volumes := make([]float64, 0, len(cells))
		min, max := math.Inf(1), math.Inf(-1)
		total := 0.0
		for _, c := range cells {
			v := mesh.FromPolyhedron(c.Polyhedron).Volume
			volumes = append(volumes, v)
			total += v
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
		mean, std := stat.MeanStdDev(volumes, nil)

		fmt.Printf("cells:  %d\n", len(cells))
		fmt.Printf("total:  %.4f\n", total)
		fmt.Printf("mean:   %.4f\n", mean)
		fmt.Printf("stddev: %.4f\n", std)
		fmt.Printf("min:    %.4f\n", min)
		fmt.Printf("max:    %.4f\n", max)
		return nil
	},
}

// runPipeline builds a scene, validates it and computes its cells.
func runPipeline() ([]voronoi.Cell, error) {
	sc, err := buildScene()
	if err != nil {
		return nil, err
	}

	cells, warnings, err := sc.Tessellate()
	for _, w := range warnings {
		log.Printf("warning: %s", w.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return cells, nil
}

// buildScene produces a scene from the script file when given, otherwise
// from the uniform random generator.
func buildScene() (*scene.Scene, error) {
	if scriptPath != "" {
		source, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("reading scene script: %w", err)
		}
		sc, evalErrs, err := engine.NewEngine().Evaluate(string(source))
		if err != nil {
			return nil, fmt.Errorf("evaluating scene script: %w", err)
		}
		if len(evalErrs) > 0 {
			return nil, fmt.Errorf("scene script: %w", evalErrs[0])
		}
		// A flag or config entry overrides the script's own padding.
		if viper.IsSet("padding") {
			sc.Padding = viper.GetFloat64("padding")
		}
		return sc, nil
	}

	half := extent / 2
	box := geom.Box{
		Min: geom.Vec3{X: -half, Y: -half, Z: -half},
		Max: geom.Vec3{X: half, Y: half, Z: half},
	}
	sc := scene.New()
	sc.Bounds = box
	sc.Padding = viper.GetFloat64("padding")
	sc.Append(scene.Random(scene.RandomSpec{
		Count:   points,
		Bounds:  box,
		RNGSeed: int64(rngSeed),
	}))
	return sc, nil
}

// initConfig reads the config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("." + appName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(appName)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Printf("using config file %s", filepath.Clean(viper.ConfigFileUsed()))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/."+appName+".yaml)")

	for _, cmd := range []*cobra.Command{computeCmd, statsCmd} {
		cmd.Flags().StringVar(&scriptPath, "script", "", "scene script file")
		cmd.Flags().IntVar(&points, "points", 24, "random seed count when no script is given")
		cmd.Flags().Float64Var(&extent, "extent", 10, "edge length of the generated cube bounds")
		cmd.Flags().IntVar(&rngSeed, "rng-seed", 1, "generator RNG seed")
		cmd.Flags().Float64("padding", voronoi.DefaultPadding, "bounding box padding")
		// Bound at PreRun time, not here: the padding key is shared by
		// several commands and must follow the flag set of the command
		// actually running.
		cmd.PreRun = func(cmd *cobra.Command, args []string) {
			viper.BindPFlag("padding", cmd.Flags().Lookup("padding"))
		}
	}
	computeCmd.Flags().String("stl", "", "write cells to an STL file")
	computeCmd.Flags().String("json", "", "write cells to a JSON file")
	viper.BindPFlag("output.stl", computeCmd.Flags().Lookup("stl"))
	viper.BindPFlag("output.json", computeCmd.Flags().Lookup("json"))

	rootCmd.AddCommand(computeCmd, statsCmd, versionCmd)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
