// Package main provides the stardustdb CLI entry point: a thin cobra
// wrapper over the engine for opening, initializing, and inspecting an
// on-disk Environment. It starts no server and opens no network
// listener — those are out of this core's scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stardust-db/stardust/pkg/config"
	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stardustdb",
		Short: "stardustdb - embeddable hybrid graph + vector storage engine",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stardustdb v%s (%s)\n", version, commit)
		},
	})

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new on-disk environment and stamp its schema version",
		RunE:  runInit,
	}
	initCmd.Flags().String("data-dir", "./data", "Data directory")
	rootCmd.AddCommand(initCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-bucket key counts for an existing environment",
		RunE:  runStats,
	}
	statsCmd.Flags().String("data-dir", "./data", "Data directory")
	rootCmd.AddCommand(statsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg := config.LoadFromEnv()
	cfg.Env.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return err
	}

	env, err := graphenv.Open(cfg.Env.ToOptions())
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer env.Close()

	err = env.Update(func(tx *graphenv.Transaction) error {
		return tx.Set(graphenv.BucketMeta, keycodec.MetaKey(keycodec.MetaSchemaVersion), keycodec.EncodeU64(1))
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	fmt.Printf("initialized environment at %s\n", dataDir)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")

	env, err := graphenv.Open(graphenv.Options{Dir: dataDir})
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	defer env.Close()

	buckets := []struct {
		name   string
		bucket graphenv.Bucket
	}{
		{"nodes", graphenv.BucketNodes},
		{"nodeColdProps", graphenv.BucketNodeColdProps},
		{"nodeVectors", graphenv.BucketNodeVectors},
		{"edgesBySrcType", graphenv.BucketEdgesBySrcType},
		{"edgesByDstType", graphenv.BucketEdgesByDstType},
		{"edgesById", graphenv.BucketEdgesByID},
		{"edgeProps", graphenv.BucketEdgeProps},
		{"labelIndex", graphenv.BucketLabelIndex},
		{"labelIds", graphenv.BucketLabelIDs},
		{"labelsByName", graphenv.BucketLabelByName},
		{"relTypeIds", graphenv.BucketRelTypeIDs},
		{"relTypesByName", graphenv.BucketRelTypeByName},
		{"propKeyIds", graphenv.BucketPropKeyIDs},
		{"propKeysByName", graphenv.BucketPropKeyByName},
		{"vecTagIds", graphenv.BucketVecTagIDs},
		{"vecTagsByName", graphenv.BucketVecTagByName},
		{"textIds", graphenv.BucketTextIDs},
		{"textsByName", graphenv.BucketTextByName},
		{"vecTagMeta", graphenv.BucketVecTagMeta},
		{"meta", graphenv.BucketMeta},
	}

	return env.View(func(tx *graphenv.Transaction) error {
		for _, b := range buckets {
			count, err := countBucket(tx, b.bucket)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s %d\n", b.name, count)
		}
		return nil
	})
}

func countBucket(tx *graphenv.Transaction, bucket graphenv.Bucket) (int, error) {
	cur, err := tx.NewCursor(bucket, false)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	var n int
	for cur.SeekRange(nil); cur.Valid(); cur.Next() {
		n++
	}
	return n, nil
}
