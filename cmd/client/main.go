// cmd/client is the CLI entry-point for an ABD client, built with Cobra.
//
// Usage:
//
//	quorumkv-cli put mykey "hello world" --replicas servers.conf
//	quorumkv-cli get mykey               --replicas servers.conf
//	quorumkv-cli run workload.txt        --replicas servers.conf --blocking
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"quorumkv/internal/clientproto"
	"quorumkv/internal/config"
	"quorumkv/internal/replicarpc"
	httptransport "quorumkv/internal/transport/http"
	"quorumkv/internal/workload"
)

var (
	replicaListPath string
	timeout         time.Duration
	blocking        bool
)

func main() {
	root := &cobra.Command{
		Use:   "quorumkv-cli",
		Short: "CLI client for the ABD replicated register",
	}

	root.PersistentFlags().StringVarP(&replicaListPath, "replicas", "f",
		"servers.conf", "path to the replica address list")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second,
		"per-operation deadline for put and get (run applies no deadline)")
	root.PersistentFlags().BoolVar(&blocking, "blocking", false,
		"use the lock-based blocking protocol instead of the non-blocking one")

	root.AddCommand(putCmd(), getCmd(), runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type protocol interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}

func buildProtocol() (protocol, error) {
	addrs, err := config.LoadReplicaList(replicaListPath)
	if err != nil {
		return nil, err
	}

	replicas := make([]replicarpc.ReplicaClient, len(addrs))
	for i, addr := range addrs {
		replicas[i] = httptransport.NewReplicaClient(addr, "http://"+addr)
	}

	writerID := clientproto.WriterID()
	if blocking {
		return clientproto.NewBlocking(replicas, writerID), nil
	}
	return clientproto.New(replicas, writerID), nil
}

func putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Write a key's value via a two-phase quorum write",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildProtocol()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := p.Put(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("OK put %q\n", args[0])
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a key's value via a two-phase quorum read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildProtocol()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			value, err := p.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "run <workload-file>",
		Short: "Replay a PUT/GET workload file and report latency and throughput",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildProtocol()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ops, err := workload.ParseCommands(f)
			if err != nil {
				return err
			}

			if csvPath == "" {
				ts := time.Now().Format("02-01-2006_15:04:05")
				csvPath = fmt.Sprintf("logs/%s-%s.csv", args[0], ts)
			}
			if err := os.MkdirAll("logs", 0o755); err != nil {
				return err
			}
			csvFile, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			defer csvFile.Close()

			summary, err := workload.Run(context.Background(), p, ops, csvFile)
			if err != nil {
				return err
			}
			fmt.Print(summary.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "path for the per-operation latency CSV (default: logs/<input>-<timestamp>.csv)")
	return cmd
}
