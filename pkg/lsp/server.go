// Package lsp serves parse diagnostics over the Language Server Protocol
package lsp

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/Retryixagi/ZHCL/pkg/diag"
	"github.com/Retryixagi/ZHCL/pkg/parser"
)

// Name is reported in the initialize result
const Name = "zhcc"

// Version is reported alongside Name
var Version = "0.1.0"

type document struct {
	version int32
	text    string
}

// Server keeps the open documents and republishes diagnostics on each edit
type Server struct {
	log  *zap.Logger
	opts []parser.Option

	mu     sync.Mutex
	docs   map[protocol.DocumentURI]*document
	conn   jsonrpc2.Conn
	exited bool
	exit   chan struct{}
}

// NewServer creates a server. Parser options apply to every reparse.
func NewServer(logger *zap.Logger, opts ...parser.Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		log:  logger,
		opts: opts,
		docs: make(map[protocol.DocumentURI]*document),
		exit: make(chan struct{}),
	}
}

// Serve runs the connection until the client sends exit, the stream
// closes or ctx is cancelled. A clean exit returns nil.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.log.Info("language server started")
	conn.Go(ctx, s.handle)

	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case <-s.exit:
		s.log.Info("language server stopped")
		return nil
	case <-conn.Done():
	}

	s.mu.Lock()
	exited := s.exited
	s.mu.Unlock()
	if exited {
		s.log.Info("language server stopped")
		return nil
	}
	return conn.Err()
}

// Documents returns the number of open documents
func (s *Server) Documents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.log.Debug("request", zap.String("method", req.Method()))

	switch req.Method() {
	case protocol.MethodInitialize:
		return reply(ctx, protocol.InitializeResult{
			Capabilities: protocol.ServerCapabilities{
				TextDocumentSync: protocol.TextDocumentSyncKindFull,
			},
			ServerInfo: &protocol.ServerInfo{Name: Name, Version: Version},
		}, nil)

	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		item := params.TextDocument
		s.store(item.URI, item.Version, item.Text)
		return s.publish(ctx, reply, item.URI)

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		if len(params.ContentChanges) == 0 {
			return reply(ctx, nil, nil)
		}
		// full sync: the last change carries the whole document
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.store(params.TextDocument.URI, params.TextDocument.Version, text)
		return s.publish(ctx, reply, params.TextDocument.URI)

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		s.mu.Lock()
		delete(s.docs, params.TextDocument.URI)
		s.mu.Unlock()
		if err := s.notify(ctx, diag.PublishURI(params.TextDocument.URI, 0, "", nil)); err != nil {
			s.log.Warn("failed to clear diagnostics", zap.Error(err))
		}
		return reply(ctx, nil, nil)

	case protocol.MethodShutdown:
		return reply(ctx, nil, nil)

	case protocol.MethodExit:
		s.mu.Lock()
		if s.exited {
			s.mu.Unlock()
			return nil
		}
		s.exited = true
		conn := s.conn
		s.mu.Unlock()
		close(s.exit)
		return conn.Close()
	}

	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func decode(req jsonrpc2.Request, v any) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return fmt.Errorf("%s: invalid params: %w", req.Method(), err)
	}
	return nil
}

func (s *Server) store(u protocol.DocumentURI, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[u] = &document{version: version, text: text}
}

// publish reparses u and sends its diagnostics
func (s *Server) publish(ctx context.Context, reply jsonrpc2.Replier, u protocol.DocumentURI) error {
	s.mu.Lock()
	doc, ok := s.docs[u]
	s.mu.Unlock()
	if !ok {
		return reply(ctx, nil, nil)
	}

	_, perr := parser.ParseSource(doc.text, append([]parser.Option{parser.WithLogger(s.log)}, s.opts...)...)
	if perr != nil {
		s.log.Debug("parse failed", zap.String("uri", string(u)), zap.Error(perr))
	}
	if err := s.notify(ctx, diag.PublishURI(u, uint32(doc.version), doc.text, perr)); err != nil {
		s.log.Warn("failed to publish diagnostics", zap.String("uri", string(u)), zap.Error(err))
	}
	return reply(ctx, nil, nil)
}

func (s *Server) notify(ctx context.Context, params protocol.PublishDiagnosticsParams) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	return conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params)
}
