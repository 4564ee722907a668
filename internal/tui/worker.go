package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"clustertop/internal/api"
)

// requestKind selects the operation a request asks the worker to perform.
type requestKind int

const (
	reqGetConfig requestKind = iota
	reqLogin
	reqSetToken
	reqGetClusterInfo
	reqGetTiers
	reqShutdown
)

// request is one unit of work for the network worker. kind selects the
// operation; the remaining fields are read only by the kinds that need them.
type request struct {
	kind requestKind

	// reqLogin
	username   string
	password   string
	rememberMe bool

	// reqSetToken
	auth    string
	refresh string
}

// Tea message types dispatched by the worker. Errors cross the goroutine
// boundary as plain strings; the consumer matches on the message variant,
// not on request IDs (it never has two requests of one kind in flight).
type ConfigMsg struct {
	Config api.UIConfig
	Err    string
}
type LoginMsg struct {
	Tokens api.TokenResponse
	Err    string
}
type ClusterInfoMsg struct {
	Info api.ClusterInfo
	Err  string
}
type TiersMsg struct {
	Tiers []api.TierInfo
	Err   string
}

// Worker owns the HTTP client and the bearer token, and executes requests
// one at a time from its inbound queue. It never touches UI state; results
// travel back as tea messages via prog.Send.
type Worker struct {
	client   *Client
	store    *TokenStore
	requests chan request
	prog     *tea.Program
	done     chan struct{} // closed when Run exits
}

// NewWorker wraps a client and token store. Call SetProgram before Run so
// responses have somewhere to go.
func NewWorker(client *Client, store *TokenStore) *Worker {
	return &Worker{
		client:   client,
		store:    store,
		requests: make(chan request, 64),
		done:     make(chan struct{}),
	}
}

// SetProgram sets the tea.Program that receives response messages.
func (w *Worker) SetProgram(p *tea.Program) { w.prog = p }

// BaseURL returns the client's normalized base URL. It doubles as the
// token-store key.
func (w *Worker) BaseURL() string { return w.client.BaseURL() }

// Done is closed once the processing loop has exited.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Shutdown asks the worker to stop after the requests already queued.
// An in-flight HTTP call is not cancelled; its timeout is the only bound.
func (w *Worker) Shutdown() { w.post(request{kind: reqShutdown}) }

// post enqueues a request. The buffer is sized far beyond what the UI can
// have outstanding at once (refreshes are suppressed while one is in flight),
// so a send here does not block in practice.
func (w *Worker) post(req request) { w.requests <- req }

// Run processes requests strictly in submission order until a shutdown
// request arrives. The FIFO discipline is what makes auth correct: a login
// completes and adopts its token before any request submitted after it is
// dispatched.
func (w *Worker) Run() {
	defer close(w.done)
	for req := range w.requests {
		switch req.kind {
		case reqGetConfig:
			cfg, err := w.client.GetConfig()
			w.send(ConfigMsg{Config: cfg, Err: errString(err)})

		case reqLogin:
			tokens, err := w.client.Login(req.username, req.password)
			if err == nil && req.rememberMe {
				if serr := w.store.Save(w.client.BaseURL(), tokens.Auth, tokens.Refresh); serr != nil {
					slog.Warn("failed to persist session tokens", "error", serr)
				}
			}
			w.send(LoginMsg{Tokens: tokens, Err: errString(err)})

		case reqSetToken:
			// Adopt a previously saved token without a network round trip,
			// and refresh the on-disk copy so it reflects the freshest token.
			w.client.SetToken(req.auth)
			if err := w.store.Save(w.client.BaseURL(), req.auth, req.refresh); err != nil {
				slog.Warn("failed to refresh persisted tokens", "error", err)
			}

		case reqGetClusterInfo:
			info, err := w.client.GetClusterInfo()
			w.send(ClusterInfoMsg{Info: info, Err: errString(err)})

		case reqGetTiers:
			tiers, err := w.client.GetTiers()
			w.send(TiersMsg{Tiers: tiers, Err: errString(err)})

		case reqShutdown:
			return
		}
	}
}

// send delivers a response to the UI. Best effort: with no program attached,
// or one that has already exited, the message is dropped silently.
func (w *Worker) send(msg tea.Msg) {
	if w.prog != nil {
		w.prog.Send(msg)
	}
}

func errString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
