package server

import (
	"context"
	"sync"

	"github.com/shinyvision/hsp3ls/internal/config"
	"github.com/shinyvision/hsp3ls/internal/scan"
	"github.com/shinyvision/hsp3ls/internal/state"
	"github.com/shinyvision/hsp3ls/internal/utils"
	"github.com/shinyvision/hsp3ls/internal/watcher"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const lsName = "hsp3ls"

var version = "0.1.0"

// SetVersion overrides the version reported to clients.
func SetVersion(v string) { version = v }

// Server is the language server. Every handler runs its work on the
// queue, so the state is only touched from one goroutine.
type Server struct {
	config *config.Config
	state  *state.State
	queue  *state.Queue
	h      protocol.Handler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// notify is set by initialized; nil until then.
	notify  glsp.NotifyFunc
	watcher *watcher.Watcher
	logger  commonlog.Logger
}

// NewServer creates a new server.
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: cfg,
		state:  state.NewState(cfg),
		queue:  state.NewQueue(),
		ctx:    ctx,
		cancel: cancel,
		logger: commonlog.GetLoggerf("hsp3ls.server"),
	}
	s.h = protocol.Handler{
		Initialize:                      s.initialize,
		Initialized:                     s.initialized,
		Shutdown:                        s.shutdown,
		SetTrace:                        s.setTrace,
		TextDocumentDidOpen:             s.didOpen,
		TextDocumentDidChange:           s.didChange,
		TextDocumentDidClose:            s.didClose,
		WorkspaceDidChangeConfiguration: s.didChangeConfiguration,
		WorkspaceDidChangeWatchedFiles:  s.didChangeWatchedFiles,
		TextDocumentDefinition:          s.onDefinition,
		TextDocumentReferences:          s.onReferences,
		TextDocumentDocumentHighlight:   s.onDocumentHighlight,
		TextDocumentHover:               s.onHover,
		TextDocumentCompletion:          s.onCompletion,
		TextDocumentSignatureHelp:       s.onSignatureHelp,
		TextDocumentPrepareRename:       s.onPrepareRename,
		TextDocumentRename:              s.onRename,
		TextDocumentDocumentSymbol:      s.onDocumentSymbol,
		WorkspaceSymbol:                 s.onWorkspaceSymbol,
		TextDocumentSemanticTokensFull:  s.onSemanticTokensFull,
		TextDocumentFormatting:          s.onFormatting,
		TextDocumentCodeAction:          s.onCodeAction,
	}
	return s
}

// Run runs the language server over stdio until the client disconnects.
func (s *Server) Run() error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.queue.Run(s.ctx)
	}()
	defer s.stop()

	server := glspserver.NewServer(&s.h, lsName, false)
	return server.RunStdio()
}

// do runs fn on the queue and waits for it.
func (s *Server) do(fn func()) error {
	return s.queue.Do(s.ctx, fn)
}

// stop cancels the context and waits for the queue and its helpers. The
// watcher field is only written by queue jobs, so it is read after the
// queue goroutine has exited.
func (s *Server) stop() {
	s.cancel()
	s.wg.Wait()
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	caps := s.h.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}
	caps.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"#", "@"},
	}
	caps.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters: []string{" ", "(", ","},
	}
	prepare := true
	caps.RenameProvider = &protocol.RenameOptions{PrepareProvider: &prepare}
	caps.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semanticTokenTypes,
			TokenModifiers: []string{},
		},
		Full: true,
	}

	err := s.do(func() {
		logFile := s.config.LogFile
		switch {
		case params.RootURI != nil:
			s.config.WorkspaceRoot = utils.UriToPath(string(*params.RootURI))
		case len(params.WorkspaceFolders) > 0:
			s.config.WorkspaceRoot = utils.UriToPath(string(params.WorkspaceFolders[0].URI))
		case params.RootPath != nil:
			s.config.WorkspaceRoot = *params.RootPath
		}

		if err := s.config.LoadProjectFile(); err != nil {
			s.logger.Warningf("%v", err)
		}
		if m, ok := params.InitializationOptions.(map[string]any); ok {
			s.config.ApplyMap(m)
		}
		s.followLogFile(logFile)
		if err := s.config.Validate(); err != nil {
			s.logger.Warningf("%v: set hsp3Root or $%s", err, config.RootEnv)
		}
		s.state.Reconfigure()
		s.logger.Infof("initialize: workspace %q, hsp3 root %q, %d search roots",
			s.config.WorkspaceRoot, s.config.HSP3Root, len(s.config.SearchRoots))
	})
	if err != nil {
		return nil, err
	}

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	var watch bool
	err := s.do(func() {
		s.notify = ctx.Notify
		watch = s.config.WatcherEnabled && s.config.WorkspaceRoot != ""
		s.startScan()
	})
	if err != nil {
		return err
	}

	if watch {
		s.startWatcher()
	}
	return nil
}

// followLogFile re-points the log when the configured file differs from
// the one in use. Must run on the queue.
func (s *Server) followLogFile(previous string) {
	if s.config.LogFile == previous {
		return
	}
	s.config.ConfigureLogging()
	s.logger.Infof("logging to %s", s.config.LogFile)
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.cancel()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, p *protocol.SetTraceParams) error {
	protocol.SetTraceValue(p.Value)
	return nil
}

// startScan discovers files in the background and applies them on the
// queue. It must run on the queue.
func (s *Server) startScan() {
	cfg := *s.config
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := state.ScanAll(s.ctx, &cfg, func(files []scan.File) {
			_ = s.do(func() { s.state.ApplyScan(files) })
		})
		if err != nil {
			s.logger.Warningf("scan: %v", err)
		}
		s.queue.Post(s.publishDiagnostics)
	}()
}

func (s *Server) startWatcher() {
	var root string
	if err := s.do(func() { root = s.config.WorkspaceRoot }); err != nil {
		return
	}

	w, err := watcher.New(root, state.ScriptExts)
	if err != nil {
		s.logger.Errorf("watcher: %v", err)
		return
	}
	if err := w.Start(s.ctx); err != nil {
		s.logger.Errorf("watcher: %v", err)
		w.Stop()
		return
	}
	// The forwarder is started from the job so that wg.Add happens while
	// the queue goroutine is still counted.
	if err := s.do(func() {
		s.watcher = w
		s.wg.Add(1)
		go s.forwardWatcherEvents(w)
	}); err != nil {
		w.Stop()
	}
}

func (s *Server) forwardWatcherEvents(w *watcher.Watcher) {
	defer s.wg.Done()
	for e := range w.Events() {
		s.queue.Post(func() {
			if s.state.ApplyWatcherEvent(e) {
				s.startScan()
			}
			s.publishDiagnostics()
		})
	}
}
