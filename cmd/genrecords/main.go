// Command genrecords seeds a local shard data directory with synthetic
// leaked-credential records, for demos and local testing.
package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/leakcheck/creds-pir/internal/genrecords"
	"github.com/leakcheck/creds-pir/internal/oprf"
)

type shardFile struct {
	Records       []string `json:"records"`
	M             int      `json:"m"`
	EleSize       int      `json:"ele_size"`
	PlaintextBits int      `json:"plaintext_bits"`
}

func main() {
	app := &cli.App{
		Name:  "genrecords",
		Usage: "generate a synthetic leaked-credential shard for local testing",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 64, Usage: "number of records"},
			&cli.IntFlag{Name: "plaintext_bits", Value: 10},
			&cli.StringFlag{Name: "shard_id", Value: "0"},
			&cli.StringFlag{Name: "out_dir", Value: "./shards"},
			&cli.StringFlag{Name: "oprf_key", Usage: "base64 server OPRF key; generated if omitted"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(c *cli.Context) error {
	n := c.Int("n")
	shardID := c.String("shard_id")
	outDir := c.String("out_dir")

	key, err := resolveKey(c.String("oprf_key"))
	if err != nil {
		return err
	}

	_, records, err := genrecords.GenerateRecords(key, n)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	f := shardFile{Records: records, M: n, EleSize: oprf.OutputSize * 8, PlaintextBits: c.Int("plaintext_bits")}
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, shardID+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}

	log.Printf("[INFO] wrote %d records to %s", n, path)
	fmt.Printf("shard %s ready (oprf_key=%s)\n", shardID, base64.StdEncoding.EncodeToString(key.D.Bytes()))
	return nil
}

func resolveKey(b64 string) (*oprf.PrivateKey, error) {
	if b64 == "" {
		return oprf.KeyGen()
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("oprf_key must be base64: %w", err)
	}
	return oprf.KeyFromBytes(raw), nil
}
