// Package bridge renders the pages served by the loopback listener. The
// bridge page moves the URL fragment, which the browser never sends to a
// server, into a POST the listener can read.
package bridge

import (
	"bytes"
	"fmt"

	"github.com/jrsteele09/go-auth-bridge/internal/errors"
)

// TokenPath is where the bridge page submits the fragment.
const TokenPath = "/token"

const DefaultAppName = "Auth Bridge"

type pageData struct {
	AppName   string
	TokenPath string
	Messages  Messages
}

// Renderer holds the pre-rendered pages. Output never varies per request.
type Renderer struct {
	bridge  []byte
	success []byte
}

// New renders both pages once.
func New(appName string, messages Messages) (*Renderer, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	data := pageData{AppName: appName, TokenPath: TokenPath, Messages: messages}

	bridgePage, err := render("bridge.html", data)
	if err != nil {
		return nil, errors.Wrapf(err, "[bridge New]")
	}
	successPage, err := render("success.html", data)
	if err != nil {
		return nil, errors.Wrapf(err, "[bridge New]")
	}
	return &Renderer{bridge: bridgePage, success: successPage}, nil
}

// BridgePage returns the page served for every request that is not a token
// submission. Callers must not modify the returned slice.
func (r *Renderer) BridgePage() []byte {
	return r.bridge
}

// SuccessPage returns the page served after an accepted token submission.
// Callers must not modify the returned slice.
func (r *Renderer) SuccessPage() []byte {
	return r.success
}

func render(name string, data pageData) ([]byte, error) {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

