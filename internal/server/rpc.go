package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/copyleftdev/rootfinder/internal/errors"
	"github.com/copyleftdev/rootfinder/internal/report"
)

// JSON-RPC 2.0 error codes.
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcServerError    = -32000
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request rpcRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&request); err != nil {
		s.respondWithError(w, r, nil, &rpcError{Code: rpcParseError, Message: "Parse error"})
		return
	}

	// Validate JSON-RPC 2.0 request
	if request.JSONRPC != "2.0" || request.Method == "" {
		s.respondWithError(w, r, request.ID, &rpcError{Code: rpcInvalidRequest, Message: "Invalid Request"})
		return
	}

	// Route to appropriate handler
	var result interface{}
	var rerr *rpcError

	switch request.Method {
	case "rootfind.solve":
		result, rerr = s.rpcSolve(r, request.Params)
	case "rootfind.get":
		result, rerr = s.rpcGet(request.Params)
	case "rootfind.methods":
		result = report.Catalogue()
	default:
		s.respondWithError(w, r, request.ID, &rpcError{Code: rpcMethodNotFound, Message: "Method not found"})
		return
	}

	if rerr != nil {
		s.respondWithError(w, r, request.ID, rerr)
		return
	}

	s.respondJSON(w, r, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: request.ID, Result: result})
}

// rpcSolve handles the rootfind.solve JSON-RPC method.
func (s *Server) rpcSolve(r *http.Request, params json.RawMessage) (interface{}, *rpcError) {
	var req SolveRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, &rpcError{Code: rpcInvalidParams, Message: err.Error()}
	}
	if err := req.Validate(); err != nil {
		return nil, &rpcError{Code: rpcInvalidParams, Message: err.Error()}
	}

	rec, err := s.solve(r.Context(), req)
	if err != nil {
		e := apperrors.Classify(err)
		return nil, &rpcError{Code: rpcServerError, Message: e.Message, Data: e.Payload()}
	}
	return SolveResponse{ID: rec.ID, Result: rec.Result}, nil
}

// rpcGet handles the rootfind.get JSON-RPC method.
func (s *Server) rpcGet(params json.RawMessage) (interface{}, *rpcError) {
	var p struct {
		ID string `json:"id"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, &rpcError{Code: rpcInvalidParams, Message: err.Error()}
	}

	rec, err := s.lookup(p.ID)
	if err != nil {
		e := apperrors.Classify(err)
		code := rpcServerError
		if e.Code == apperrors.CodeBadRequest {
			code = rpcInvalidParams
		}
		return nil, &rpcError{Code: code, Message: e.Message, Data: e.Payload()}
	}
	return rec, nil
}

// decodeParams accepts params as an object or as a one-element array
// holding the object.
func decodeParams(raw json.RawMessage, v interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return apperrors.BadRequest("missing params")
	}
	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return apperrors.BadRequest("invalid params: %v", err)
		}
		if len(list) != 1 {
			return apperrors.BadRequest("params array must hold exactly one object, got %d", len(list))
		}
		raw = list[0]
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.BadRequest("invalid params: %v", err)
	}
	return nil
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, id interface{}, rerr *rpcError) {
	s.logger.Warn("RPC error", map[string]interface{}{
		"code":    rerr.Code,
		"message": rerr.Message,
	})

	s.respondJSON(w, r, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: id, Error: rerr})
}
