package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/leakcheck/creds-pir/internal/bucket"
	"github.com/leakcheck/creds-pir/internal/keyword"
	"github.com/leakcheck/creds-pir/internal/pirparams"
	"github.com/leakcheck/creds-pir/internal/protocol"
	"github.com/leakcheck/creds-pir/internal/rpc"
	"github.com/leakcheck/creds-pir/internal/shard"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	app := &cli.App{
		Name:  "creds-pir-client",
		Usage: "check whether a username:password pair appears in the leaked-credential database, without revealing it to the server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
			&cli.IntFlag{Name: "n_preprocess", Aliases: []string{"n"}, Value: 1},
			&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: defaultServerURL},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(c *cli.Context) error {
	credential := fmt.Sprintf("%s:%s", c.String("username"), c.String("password"))
	serverURL := c.String("server")

	bucketID, err := bucket.ID([]byte(credential), bucket.HexPrefixLen, 16)
	if err != nil {
		return fmt.Errorf("routing to bucket: %w", err)
	}
	log.Printf("[INFO] credential routes to bucket %d", bucketID)

	bp, hpt, err := fetchParams(serverURL, bucketID)
	if err != nil {
		return fmt.Errorf("fetching public params: %w", err)
	}

	bucketParams, err := protocol.NewBucketParams(bp)
	if err != nil {
		return err
	}

	indices := hpt.Indices([]byte(credential))
	if len(indices) == 0 {
		fmt.Println("not found")
		return nil
	}
	log.Printf("[INFO] %d candidate row(s) to query", len(indices))

	n := c.Int("n_preprocess")
	if n < len(indices) {
		n = len(indices)
	}
	log.Printf("[INFO] preprocessing %d query param set(s)", n)
	qps, err := protocol.Preprocess(bucketParams, n)
	if err != nil {
		return fmt.Errorf("preprocessing queries: %w", err)
	}

	state, msg, err := protocol.ClientPrepareQueries(bucketParams, qps[:len(indices)], indices, []byte(credential))
	if err != nil {
		return fmt.Errorf("preparing query: %w", err)
	}

	resp, err := sendQuery(serverURL, bucketID, msg)
	if err != nil {
		return fmt.Errorf("sending query: %w", err)
	}

	found, err := protocol.ClientProcessOutput(state, bp.EleSize, resp)
	if err != nil {
		return fmt.Errorf("processing response: %w", err)
	}

	if found {
		fmt.Println("COMPROMISED: this credential appears in the leaked database")
	} else {
		fmt.Println("not found")
	}
	return nil
}

func fetchParams(serverURL string, bucketID int) (*pirparams.BaseParams, *keyword.LocalHashPrefixTable, error) {
	url := fmt.Sprintf("%s/params/%d", serverURL, bucketID)
	resp, err := http.Get(url)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var offlineResp rpc.OfflineResponse
	if err := json.Unmarshal(raw, &offlineResp); err != nil {
		return nil, nil, err
	}
	if err := offlineResp.Validate(); err != nil {
		return nil, nil, err
	}
	if offlineResp.Error != nil {
		return nil, nil, offlineResp.Error
	}

	paramsRaw, err := base64.StdEncoding.DecodeString(offlineResp.Result.BucketParams)
	if err != nil {
		return nil, nil, err
	}
	id, seed, m, eleSize, plaintextBits, dim, rhs, err := shard.UnmarshalParamsSeed(paramsRaw)
	if err != nil {
		return nil, nil, err
	}
	bp := pirparams.FromWire(id, seed, m, eleSize, plaintextBits, dim, rhs)

	var hpt *keyword.LocalHashPrefixTable
	if offlineResp.Result.LocalHPT != "" {
		hptRaw, err := base64.StdEncoding.DecodeString(offlineResp.Result.LocalHPT)
		if err != nil {
			return nil, nil, err
		}
		hpt, err = keyword.Unmarshal(hptRaw)
		if err != nil {
			return nil, nil, err
		}
	}
	return bp, hpt, nil
}

func sendQuery(serverURL string, bucketID int, msg *protocol.ClientMessage) (*protocol.ServerResponse, error) {
	wireMsg := struct {
		PIRQueries [][]uint32 `json:"pir_queries"`
		OPRFQuery  []byte     `json:"oprf_query"`
	}{PIRQueries: msg.PIRQueries, OPRFQuery: msg.OPRFQuery}

	msgRaw, err := json.Marshal(wireMsg)
	if err != nil {
		return nil, err
	}

	req := rpc.OnlineRequest{
		JSONRPC: rpc.JSONRPCVersion,
		Method:  rpc.MethodClientQuery,
		Params:  &rpc.ClientQueryParams{BucketID: bucketID, Message: base64.StdEncoding.EncodeToString(msgRaw)},
		ID:      1,
	}
	reqRaw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpResp, err := http.Post(serverURL+"/query", "application/json", bytes.NewReader(reqRaw))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var onlineResp rpc.OnlineResponse
	if err := json.Unmarshal(raw, &onlineResp); err != nil {
		return nil, err
	}
	if err := onlineResp.Validate(); err != nil {
		return nil, err
	}
	if onlineResp.Error != nil {
		return nil, onlineResp.Error
	}

	respRaw, err := base64.StdEncoding.DecodeString(onlineResp.Result.Response)
	if err != nil {
		return nil, err
	}
	var wireResp struct {
		PIRResponses [][]uint32 `json:"pir_responses"`
		OPRFResponse []byte     `json:"oprf_response"`
	}
	if err := json.Unmarshal(respRaw, &wireResp); err != nil {
		return nil, err
	}
	return &protocol.ServerResponse{PIRResponses: wireResp.PIRResponses, OPRFResponse: wireResp.OPRFResponse}, nil
}
