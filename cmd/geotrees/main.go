// Command geotrees builds QuadTree, OctTree, and KDTree indices over
// generated points and benchmarks their query operations.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/kass/geotrees/pkg/geo"
	"github.com/kass/geotrees/pkg/kdtree"
	"github.com/kass/geotrees/pkg/octtree"
	"github.com/kass/geotrees/pkg/quadtree"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	verbose    bool
	seed       int64
)

// Config overrides the default point/capacity/query counts for each tree
// from a YAML file.
type Config struct {
	QuadTree struct {
		Points   int `yaml:"points"`
		Capacity int `yaml:"capacity"`
		Queries  int `yaml:"queries"`
	} `yaml:"quadtree"`
	OctTree struct {
		Points   int `yaml:"points"`
		Capacity int `yaml:"capacity"`
		Queries  int `yaml:"queries"`
	} `yaml:"octtree"`
	KDTree struct {
		Points  int `yaml:"points"`
		Queries int `yaml:"queries"`
	} `yaml:"kdtree"`
}

func defaultConfig() Config {
	var c Config
	c.QuadTree.Points = 200000
	c.QuadTree.Capacity = 8
	c.QuadTree.Queries = 1000
	c.OctTree.Points = 200000
	c.OctTree.Capacity = 8
	c.OctTree.Queries = 1000
	c.KDTree.Points = 200000
	c.KDTree.Queries = 1000
	return c
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var log = logrus.New()

func init() {
	// Disable ANSI colour formatting when stdout is not a terminal.
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
}

var rootCmd = &cobra.Command{
	Use:   "geotrees",
	Short: "Benchmark driver for the spherical spatial-index trees",
	Long:  `Builds QuadTree, OctTree, and KDTree indices over generated points and benchmarks their query operations.`,
}

var quadCmd = &cobra.Command{
	Use:   "quadtree",
	Short: "Build a QuadTree and benchmark rectangle queries",
	RunE:  runQuadTree,
}

var octCmd = &cobra.Command{
	Use:   "octtree",
	Short: "Build an OctTree and benchmark space-time queries",
	RunE:  runOctTree,
}

var kdCmd = &cobra.Command{
	Use:   "kdtree",
	Short: "Build a balanced KDTree and benchmark nearest-neighbour queries",
	RunE:  runKDTree,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 = time-based)")
	rootCmd.AddCommand(quadCmd, octCmd, kdCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rng() *rand.Rand {
	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(s))
}

// randomPoint returns a point clustered around one of a few major
// landmasses, with a residual uniform-random fraction, so the trees see a
// realistic non-uniform distribution.
func randomPoint(r *rand.Rand) (lon, lat float64) {
	switch r.Intn(5) {
	case 0: // North America
		return r.Float64()*60 - 120, r.Float64()*30 + 30
	case 1: // Europe
		return r.Float64()*40 - 10, r.Float64()*20 + 40
	case 2: // Asia
		return r.Float64()*80 + 60, r.Float64()*40 + 20
	case 3: // South America
		return r.Float64()*30 - 80, r.Float64()*40 - 50
	default:
		return r.Float64()*360 - 180, r.Float64()*180 - 90
	}
}

func runQuadTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	r := rng()

	boundary, err := geo.NewRectangle(-180, 180, -90, 90)
	if err != nil {
		return err
	}
	tree := quadtree.New[int](boundary, cfg.QuadTree.Capacity)

	log.Infof("building quadtree from %d points (capacity %d)", cfg.QuadTree.Points, cfg.QuadTree.Capacity)
	start := time.Now()
	for i := 0; i < cfg.QuadTree.Points; i++ {
		lon, lat := randomPoint(r)
		rec, err := geo.NewRecord(lon, lat, nil, "", i)
		if err != nil {
			continue
		}
		tree.Insert(rec)
	}
	buildTime := time.Since(start)
	log.Infof("built in %v (%.0f points/sec)", buildTime, float64(cfg.QuadTree.Points)/buildTime.Seconds())

	var totalResults int
	start = time.Now()
	for i := 0; i < cfg.QuadTree.Queries; i++ {
		centerLon := r.Float64()*360 - 180
		centerLat := r.Float64()*180 - 90
		size := r.Float64()*1.9 + 0.1
		q, err := geo.NewRectangle(centerLon-size/2, centerLon+size/2, clampLat(centerLat-size/2), clampLat(centerLat+size/2))
		if err != nil {
			continue
		}
		totalResults += len(tree.Query(q))
		if verbose && i%200 == 0 {
			log.Infof("query %d", i)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("QuadTree: %d queries in %v (%.0f/s), %d total results\n",
		cfg.QuadTree.Queries, elapsed, float64(cfg.QuadTree.Queries)/elapsed.Seconds(), totalResults)
	return nil
}

func clampLat(lat float64) float64 {
	if lat < -90 {
		return -90
	}
	if lat > 90 {
		return 90
	}
	return lat
}

func runOctTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	r := rng()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)
	boundary, err := geo.NewSpaceTimeRectangle(-180, 180, -90, 90, start, end)
	if err != nil {
		return err
	}
	tree := octtree.New[int](boundary, cfg.OctTree.Capacity)

	log.Infof("building octtree from %d space-time points (capacity %d)", cfg.OctTree.Points, cfg.OctTree.Capacity)
	buildStart := time.Now()
	for i := 0; i < cfg.OctTree.Points; i++ {
		lon, lat := randomPoint(r)
		when := start.Add(time.Duration(r.Int63n(int64(end.Sub(start)))))
		rec, err := geo.NewSpaceTimeRecord(lon, lat, when, "", i)
		if err != nil {
			continue
		}
		tree.Insert(rec)
	}
	buildTime := time.Since(buildStart)
	log.Infof("built in %v (%.0f points/sec)", buildTime, float64(cfg.OctTree.Points)/buildTime.Seconds())

	var totalResults int
	qStart := time.Now()
	for i := 0; i < cfg.OctTree.Queries; i++ {
		lon, lat := randomPoint(r)
		when := start.Add(time.Duration(r.Int63n(int64(end.Sub(start)))))
		query, err := geo.NewSpaceTimeRecord(lon, lat, when, "", 0)
		if err != nil {
			continue
		}
		totalResults += len(tree.NearbyPoints(query, 50, 12*time.Hour, false))
	}
	elapsed := time.Since(qStart)
	fmt.Printf("OctTree: %d nearby-point queries in %v (%.0f/s), %d total results\n",
		cfg.OctTree.Queries, elapsed, float64(cfg.OctTree.Queries)/elapsed.Seconds(), totalResults)
	return nil
}

func runKDTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	r := rng()

	points := make([]geo.Record[int], 0, cfg.KDTree.Points)
	for i := 0; i < cfg.KDTree.Points; i++ {
		lon, lat := randomPoint(r)
		rec, err := geo.NewRecord(lon, lat, nil, "", i)
		if err != nil {
			continue
		}
		points = append(points, rec)
	}

	log.Infof("building balanced kdtree from %d points", len(points))
	buildStart := time.Now()
	tree := kdtree.Build(points)
	buildTime := time.Since(buildStart)
	log.Infof("built in %v", buildTime)

	var totalDist float64
	qStart := time.Now()
	for i := 0; i < cfg.KDTree.Queries; i++ {
		lon, lat := randomPoint(r)
		_, dist := tree.Query(lon, lat)
		totalDist += dist
	}
	elapsed := time.Since(qStart)
	fmt.Printf("KDTree: %d nearest-neighbour queries in %v (%.0f/s), average distance %.2f km\n",
		cfg.KDTree.Queries, elapsed, float64(cfg.KDTree.Queries)/elapsed.Seconds(), totalDist/float64(cfg.KDTree.Queries))
	return nil
}
