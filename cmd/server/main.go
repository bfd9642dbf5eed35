package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/leakcheck/creds-pir/internal/config"
	"github.com/leakcheck/creds-pir/internal/oprf"
	"github.com/leakcheck/creds-pir/internal/protocol"
	"github.com/leakcheck/creds-pir/internal/rpc"
	"github.com/leakcheck/creds-pir/internal/storage"
)

type server struct {
	mtx      sync.RWMutex
	shards   map[string]*storage.Metadata
	oprfKey  *oprf.PrivateKey
	cfg      *config.Config
	backend  storage.Backend
	dim      int
	prefixLn int
}

func newServer(cfg *config.Config) (*server, error) {
	key, err := loadOrGenKey(cfg.OPRFKey)
	if err != nil {
		return nil, err
	}
	return &server{
		shards:   map[string]*storage.Metadata{},
		oprfKey:  key,
		cfg:      cfg,
		backend:  &storage.LocalDirBackend{Dir: cfg.ShardDir},
		dim:      450,
		prefixLn: 20,
	}, nil
}

func loadOrGenKey(raw []byte) (*oprf.PrivateKey, error) {
	if len(raw) == 0 {
		log.Printf("[WARN] no OPRF_KEY configured, generating an ephemeral one")
		return oprf.KeyGen()
	}
	return oprf.KeyFromBytes(raw), nil
}

func (s *server) shardMetadata(id string) (*storage.Metadata, error) {
	s.mtx.RLock()
	meta, ok := s.shards[id]
	s.mtx.RUnlock()
	if ok {
		return meta, nil
	}

	meta, err := storage.LoadOrBuild(s.backend, s.cfg.ShardDir, id, s.dim, s.prefixLn)
	if err != nil {
		return nil, err
	}

	s.mtx.Lock()
	s.shards[id] = meta
	s.mtx.Unlock()
	log.Printf("[INFO] loaded shard %s: %d rows", id, meta.Shard.DB.Height())
	return meta, nil
}

// handleParams serves GET /params/{shard}: the shard id comes from the
// URL path (no JSON-RPC request body is read), and the answer is a
// JSON-RPC offline response, with id 0, carrying the bucket's public
// parameters and local keyword index.
func (s *server) handleParams(w http.ResponseWriter, r *http.Request) {
	shardID := strings.TrimPrefix(r.URL.Path, "/params/")
	if shardID == "" {
		writeRPCError(w, rpc.NewOfflineError(0, rpc.RequestValidationError("missing shard id")))
		return
	}

	meta, err := s.shardMetadata(shardID)
	if err != nil {
		log.Printf("[ERROR] shard %s: %v", shardID, err)
		writeRPCError(w, rpc.NewOfflineError(0, rpc.InternalError(err.Error())))
		return
	}

	paramsRaw, err := meta.Shard.MarshalParams()
	if err != nil {
		writeRPCError(w, rpc.NewOfflineError(0, rpc.InternalError(err.Error())))
		return
	}
	hptRaw, err := meta.HPT.Marshal()
	if err != nil {
		writeRPCError(w, rpc.NewOfflineError(0, rpc.InternalError(err.Error())))
		return
	}

	resp := rpc.NewOfflineResult(0,
		base64.StdEncoding.EncodeToString(paramsRaw),
		base64.StdEncoding.EncodeToString(hptRaw))
	writeJSON(w, resp)
}

// handleQuery serves POST /query: the JSON-RPC online request carrying
// a client's PIR queries and OPRF query for one bucket.
func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req rpc.OnlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, rpc.NewOnlineError(0, rpc.RequestValidationError(err.Error())))
		return
	}
	if err := req.Validate(); err != nil {
		writeRPCError(w, rpc.NewOnlineError(req.ID, err.(*rpc.Error)))
		return
	}

	shardID := strconv.Itoa(req.Params.BucketID)
	meta, err := s.shardMetadata(shardID)
	if err != nil {
		log.Printf("[ERROR] shard %s: %v", shardID, err)
		writeRPCError(w, rpc.NewOnlineError(req.ID, rpc.InternalError(err.Error())))
		return
	}

	msgRaw, err := base64.StdEncoding.DecodeString(req.Params.Message)
	if err != nil {
		writeRPCError(w, rpc.NewOnlineError(req.ID, rpc.ClientInputError("message is not valid base64")))
		return
	}
	var msg wireClientMessage
	if err := json.Unmarshal(msgRaw, &msg); err != nil {
		writeRPCError(w, rpc.NewOnlineError(req.ID, rpc.ClientInputError(err.Error())))
		return
	}

	clientMsg := &protocol.ClientMessage{PIRQueries: msg.PIRQueries, OPRFQuery: msg.OPRFQuery}
	resp, err := protocol.ServerCalculateResponse(meta.Shard, s.oprfKey, clientMsg)
	if err != nil {
		log.Printf("[ERROR] evaluating query against %s: %v", shardID, err)
		writeRPCError(w, rpc.NewOnlineError(req.ID, rpc.InternalError(err.Error())))
		return
	}

	wireResp := wireServerResponse{PIRResponses: resp.PIRResponses, OPRFResponse: resp.OPRFResponse}
	respRaw, err := json.Marshal(wireResp)
	if err != nil {
		writeRPCError(w, rpc.NewOnlineError(req.ID, rpc.InternalError(err.Error())))
		return
	}

	writeJSON(w, rpc.NewOnlineResult(req.ID, base64.StdEncoding.EncodeToString(respRaw)))
}

type wireClientMessage struct {
	PIRQueries [][]uint32 `json:"pir_queries"`
	OPRFQuery  []byte     `json:"oprf_query"`
}

type wireServerResponse struct {
	PIRResponses [][]uint32 `json:"pir_responses"`
	OPRFResponse []byte     `json:"oprf_response"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] writing response: %v", err)
	}
}

func writeRPCError(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK) // JSON-RPC reports errors in-band
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] writing error response: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] loading config: %v", err)
	}
	log.Printf("[INFO] starting server in %s mode, shards %v", cfg.Env, cfg.Shards.IDs())

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatalf("[ERROR] initializing server: %v", err)
	}

	http.HandleFunc("/params/", srv.handleParams)
	http.HandleFunc("/query", srv.handleQuery)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("[INFO] listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
