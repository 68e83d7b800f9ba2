package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/sofar/internal/shared"
)

// CallbackResult contains the outcome of a browser login.
type CallbackResult struct {
	Token string
	err   error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler receives the backend's login redirect.
//
// Implements the [Handler] interface for registration with a [Router].
type CallbackHandler struct {
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a handler ready to receive a single callback.
func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{resultChan: make(chan CallbackResult, 1)}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the login callback request.
//
// A token query parameter completes the login; an error parameter, or neither, fails it.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		h.Send(CallbackResult{err: fmt.Errorf("%w: %s", shared.ErrAuthFailed, reason)})
		renderPage(w, http.StatusBadRequest, failurePage)
		return
	}

	token := q.Get("token")
	if token == "" {
		h.Send(CallbackResult{err: fmt.Errorf("%w: callback missing token", shared.ErrAuthFailed)})
		renderPage(w, http.StatusBadRequest, failurePage)
		return
	}

	h.Send(CallbackResult{Token: token})
	renderPage(w, http.StatusOK, successPage)
}

// Send sends the callback result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving login completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

type page struct {
	Title   string
	Heading string
	Message string
	Color   template.CSS
}

var (
	successPage = page{
		Title:   "Login Successful",
		Heading: "✓ You're logged in",
		Message: "You can close this window and return to the terminal.",
		Color:   "#1DB954",
	}
	failurePage = page{
		Title:   "Login Failed",
		Heading: "✗ Login failed",
		Message: "Return to the terminal and run sofar auth login again.",
		Color:   "#E22134",
	}
)

var pageTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; }
        .container { text-align: center; background: #181818; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Heading}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, p)
}
