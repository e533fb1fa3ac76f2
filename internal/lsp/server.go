// Package lsp serves namespace diagnostics and fixes over stdio JSON-RPC.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"nsguard/internal/erc7201"
	"nsguard/internal/langversion"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Prefix         string
	Solc           string
	MaxDiagnostics int
	Version        string
	Resolver       *langversion.Resolver // may be nil
	Logger         *slog.Logger          // stdout carries the protocol, log elsewhere
}

// Server handles stdio JSON-RPC. Requests are handled one at a time; every
// analysis runs synchronously against the current text of one document.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex

	docs      map[string]*document
	published map[string]string // canonical -> client uri

	workspaceRoot     string
	shutdownRequested bool
	prefix            string
	solc              string
	maxDiagnostics    int
	version           string
	versions          *langversion.Cache
	resolver          *langversion.Resolver
	logger            *slog.Logger
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = erc7201.DefaultPrefix
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		docs:           make(map[string]*document),
		published:      make(map[string]string),
		prefix:         prefix,
		solc:           opts.Solc,
		maxDiagnostics: maxDiagnostics,
		version:        opts.Version,
		versions:       langversion.NewCache(),
		resolver:       opts.Resolver,
		logger:         logger,
	}
}

// Run serves LSP requests until exit or EOF.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warn("failed to parse message", "error", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.dispatch(&msg); err != nil {
			return err
		}
	}
}

// dispatch runs one message. A panic inside a handler is logged and, for
// requests, answered with an internal error; the session keeps running.
func (s *Server) dispatch(msg *rpcMessage) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logger.Error("handler panicked", "method", msg.Method, "panic", fmt.Sprint(r))
		err = nil
		if len(msg.ID) > 0 {
			err = s.sendError(msg.ID, codeInternalError, "internal error")
		}
	}()
	return s.handleMessage(msg)
}

// decodeNotification unmarshals params, logging and dropping malformed ones.
func (s *Server) decodeNotification(msg *rpcMessage, params any) bool {
	if err := json.Unmarshal(msg.Params, params); err != nil {
		s.logger.Warn("invalid params", "method", msg.Method, "error", err)
		return false
	}
	return true
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.mu.Lock()
	down := s.shutdownRequested
	s.mu.Unlock()
	if down && msg.Method != "exit" {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if down {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()
	if len(params.InitializationOptions) > 0 {
		s.applySettings(params.InitializationOptions)
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			CodeActionProvider: &codeActionOptions{
				CodeActionKinds: []string{"quickfix", "refactor.rewrite"},
			},
		},
		ServerInfo: &serverInfo{Name: "nsguard", Version: s.version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if !s.decodeNotification(msg, &params) {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = &document{
		uri:     params.TextDocument.URI,
		text:    params.TextDocument.Text,
		version: params.TextDocument.Version,
	}
	s.mu.Unlock()
	return s.publish(uri)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if !s.decodeNotification(msg, &params) {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &document{uri: params.TextDocument.URI}
		s.docs[uri] = doc
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	return s.publish(uri)
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if !s.decodeNotification(msg, &params) {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if ok && params.Text != nil {
		doc.text = *params.Text
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	// a saved build config may pin a different compiler
	s.versions.Forget(uri)
	return s.publish(uri)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if !s.decodeNotification(msg, &params) {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	clientURI := params.TextDocument.URI
	if doc, ok := s.docs[uri]; ok {
		clientURI = doc.uri
	}
	delete(s.docs, uri)
	delete(s.published, uri)
	s.mu.Unlock()
	s.versions.Forget(uri)
	return s.sendPublish(clientURI, nil, nil)
}
