package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nkusla/dkaminpar-go/pkg/clusterer"
	"github.com/nkusla/dkaminpar-go/pkg/comm"
	"github.com/nkusla/dkaminpar-go/pkg/config"
	"github.com/nkusla/dkaminpar-go/pkg/contraction"
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	dkgraph "github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/graphio"
	"github.com/nkusla/dkaminpar-go/pkg/initialpart"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

type runOptions struct {
	configPath string
	inputPath  string
	outputDir  string
	jsonReport bool

	processes int
	threads   int
	blocks    int
	imbalance float64
	splitMode string
	maxLevels int
}

// runPartition reads an input graph, splits it across cfg.Processes
// in-process ranks, coarsens each rank's view through repeated
// label-propagation clustering and contraction until the global graph
// is small enough or the level cap is hit, then computes an initial
// block partition of the coarsest level.
func runPartition(opts runOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlagOverrides(cfg, opts)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	f, err := os.Open(opts.inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	pg, err := graphio.ReadAdjacencyList(f)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Printf("Loaded graph: n=%d m=%d\n", pg.N, pg.M)

	var nodeDist, edgeDist = split(pg, cfg)

	world := comm.NewWorld(cfg.Processes)
	m := newRunMetrics(cfg.Processes, cfg.Blocks)

	perRankPartition := make([][]int32, cfg.Processes)
	perRankGraph := make([]*dkgraph.Graph, cfg.Processes)

	err = comm.RunAll(context.Background(), world, func(ctx context.Context, c comm.Communicator) error {
		p := c.Rank()
		r := rank.New(rank.ID(p), cfg.Processes, cfg.Threads)

		adjacency, nodeWeights := graphio.OwnedAdjacency(pg, nodeDist, p)
		g, err := dkgraph.BuildFromAdjacency(ctx, r, nodeDist, edgeDist, adjacency, nodeWeights)
		if err != nil {
			return fmt.Errorf("rank %d: build graph: %w", p, err)
		}

		lp := clusterer.NewLabelProp(cfg.Coarsening.ClustererIterations)

		level := 0
		for {
			if p == 0 {
				m.addLevel(g.GlobalN(), g.GlobalM())
			}
			if g.GlobalN() <= cfg.Coarsening.ContractionThreshold {
				break
			}
			if cfg.Coarsening.MaxLevels > 0 && level >= cfg.Coarsening.MaxLevels {
				break
			}

			labels, err := lp.Cluster(ctx, g, cfg.Coarsening.MaxClusterWeight, r)
			if err != nil {
				return fmt.Errorf("rank %d level %d: cluster: %w", p, level, err)
			}

			coarse, _, err := contraction.Contract(ctx, g, labels, c, r)
			if err != nil {
				return fmt.Errorf("rank %d level %d: contract: %w", p, level, err)
			}
			if coarse.GlobalN() == g.GlobalN() {
				// No further contraction is possible (every cluster is
				// already a singleton or the graph has converged).
				break
			}
			g = coarse
			level++
		}

		partition, err := initialpart.ConnectedComponents{}.Partition(g, cfg.Blocks)
		if err != nil {
			return fmt.Errorf("rank %d: initial partition: %w", p, err)
		}

		perRankPartition[p] = partition
		perRankGraph[p] = g
		return nil
	})
	if err != nil {
		return err
	}

	blockSizes := aggregateBlockSizes(perRankGraph, perRankPartition, cfg.Blocks)
	m.finish(blockSizes)

	if opts.outputDir != "" {
		if err := writeOutputs(opts.outputDir, perRankGraph, perRankPartition); err != nil {
			return fmt.Errorf("writing outputs: %w", err)
		}
	}

	if opts.jsonReport {
		data, err := m.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		m.printSummary(os.Stdout)
	}

	return nil
}

func split(pg *graphio.ParsedGraph, cfg *config.Config) (nodeDist, edgeDist distvec.Vector) {
	if cfg.Input.SplitMode == "edge" {
		return graphio.SplitByEdge(pg, cfg.Processes)
	}
	return graphio.SplitByVertex(pg, cfg.Processes)
}

func applyFlagOverrides(cfg *config.Config, opts runOptions) {
	if opts.processes > 0 {
		cfg.Processes = opts.processes
	}
	if opts.threads > 0 {
		cfg.Threads = opts.threads
	}
	if opts.blocks > 0 {
		cfg.Blocks = opts.blocks
	}
	if opts.imbalance > 0 {
		cfg.Imbalance = opts.imbalance
	}
	if opts.splitMode != "" {
		cfg.Input.SplitMode = opts.splitMode
	}
	if opts.maxLevels > 0 {
		cfg.Coarsening.MaxLevels = opts.maxLevels
	}
	cfg.Input.Path = opts.inputPath
}

func aggregateBlockSizes(graphs []*dkgraph.Graph, partitions [][]int32, blocks int) []int64 {
	sizes := make([]int64, blocks)
	for p, g := range graphs {
		if g == nil {
			continue
		}
		part := partitions[p]
		for u := uint32(0); u < g.N(); u++ {
			b := part[u]
			if int(b) >= blocks {
				continue
			}
			sizes[b] += g.NodeWeight(u)
		}
	}
	return sizes
}

func writeOutputs(dir string, graphs []*dkgraph.Graph, partitions [][]int32) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for p, g := range graphs {
		if g == nil {
			continue
		}
		graphPath := filepath.Join(dir, fmt.Sprintf("rank-%d.graph", p))
		gf, err := os.Create(graphPath)
		if err != nil {
			return err
		}
		err = graphio.WriteAdjacencyList(gf, g)
		gf.Close()
		if err != nil {
			return err
		}

		partPath := filepath.Join(dir, fmt.Sprintf("rank-%d.part", p))
		pf, err := os.Create(partPath)
		if err != nil {
			return err
		}
		for _, b := range partitions[p] {
			if _, err := fmt.Fprintln(pf, b); err != nil {
				pf.Close()
				return err
			}
		}
		if err := pf.Close(); err != nil {
			return err
		}
	}
	return nil
}
