package odoosync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
	"github.com/prashantisarees/pos_reports_backend/config"
)

// Caller is the narrow RPC surface the fetch phases depend on. Passing it
// explicitly, instead of reaching for a process-global session, keeps every
// phase testable against a fake backend.
type Caller interface {
	ExecuteKw(ctx context.Context, model, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error)
}

// Client is an authenticated XML-RPC session against the Odoo backend.
// It is created once at startup and reused for the process lifetime; all
// batching is sequential, so no locking is needed around it.
type Client struct {
	db       string
	password string
	uid      int64
	object   *xmlrpc.Client
}

// NewClient dials the backend, authenticates once and returns the session.
// Authentication failures are fatal for the run: there is no retry here.
func NewClient(cfg *config.OdooConfig) (*Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	// Timeouts are enforced per call at the transport layer; a stalled
	// backend surfaces as a per-call error, not a hung process.
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	base := strings.TrimRight(cfg.URL, "/")
	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", transport)
	if err != nil {
		return nil, fmt.Errorf("dialing odoo common endpoint: %w", err)
	}
	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", transport)
	if err != nil {
		return nil, fmt.Errorf("dialing odoo object endpoint: %w", err)
	}

	c := &Client{db: cfg.Database, password: cfg.Password, object: object}

	var reply interface{}
	if err := common.Call("authenticate", []interface{}{cfg.Database, cfg.Username, cfg.Password, map[string]interface{}{}}, &reply); err != nil {
		return nil, fmt.Errorf("odoo authenticate: %w", err)
	}
	// Odoo answers false, not a fault, on bad credentials.
	uid, ok := toInt64(reply)
	if !ok || uid == 0 {
		return nil, errors.New("odoo authenticate: invalid credentials")
	}
	c.uid = uid
	return c, nil
}

// ExecuteKw issues one execute_kw call against the object endpoint. The
// underlying XML-RPC client has no context plumbing, so cancellation is
// honored between calls and stalls are bounded by the transport timeouts.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if kwargs == nil {
		kwargs = map[string]interface{}{}
	}
	var reply interface{}
	if err := c.object.Call("execute_kw", []interface{}{c.db, c.uid, c.password, model, method, args, kwargs}, &reply); err != nil {
		return nil, fmt.Errorf("odoo %s.%s: %w", model, method, err)
	}
	return reply, nil
}
