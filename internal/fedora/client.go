// Package fedora implements the subset of the Fedora Commons 3.x REST API
// needed to audit and repair datastream fixity metadata.
package fedora

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// hasModelPredicate relates an object to its content model in the
// repository's resource index.
const hasModelPredicate = "info:fedora/fedora-system:def/model#hasModel"

const defaultTimeout = 5 * time.Minute

// Client talks to a single Fedora repository. All methods are blocking;
// the only deadline is the HTTP client timeout.
type Client struct {
	root       *url.URL
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the HTTP client timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for request debugging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the repository at root, e.g.
// "https://fedora.example.com/fedora/". Credentials are sent as HTTP basic
// auth when username is non-empty.
func New(root, username, password string, opts ...Option) (*Client, error) {
	u, err := url.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("parse fedora root URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid fedora root URL %q", root)
	}
	// a trailing slash keeps the base path during relative resolution
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		root:       u,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Root returns the repository base URL.
func (c *Client) Root() string {
	return c.root.String()
}

func (c *Client) do(ctx context.Context, method, rel string, params url.Values) ([]byte, error) {
	u := c.root.ResolveReference(&url.URL{Path: rel})
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("fedora request", "method", method, "url", u.Redacted())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rel, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", rel, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		return nil, newRequestError(resp, body)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rel string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rel, params)
}

// FindByModel queries the resource index for every object carrying the
// given content model and returns their pids.
func (c *Client) FindByModel(ctx context.Context, modelURI string) ([]string, error) {
	query := fmt.Sprintf("SELECT ?pid WHERE { ?pid <%s> <%s> }", hasModelPredicate, modelURI)
	params := url.Values{
		"type":   {"tuples"},
		"lang":   {"sparql"},
		"format": {"CSV"},
		"flush":  {"false"},
		"query":  {query},
	}
	body, err := c.get(ctx, "risearch", params)
	if err != nil {
		return nil, fmt.Errorf("resource index query: %w", err)
	}

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse resource index result: %w", err)
	}
	var pids []string
	for i, rec := range records {
		if i == 0 || len(rec) == 0 {
			continue // header row
		}
		pids = append(pids, strings.TrimPrefix(rec[0], "info:fedora/"))
	}
	return pids, nil
}

// ObjectExists reports whether the object can be resolved. A 404 is not an
// error; any other failure is.
func (c *Client) ObjectExists(ctx context.Context, pid string) (bool, error) {
	body, err := c.get(ctx, "objects/"+pid, url.Values{"format": {"xml"}})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var profile objectProfile
	if err := xml.Unmarshal(body, &profile); err != nil {
		return false, fmt.Errorf("parse object profile for %s: %w", pid, err)
	}
	return true, nil
}

// ListDatastreamIDs returns the datastream ids of an object, in the order
// the repository lists them.
func (c *Client) ListDatastreamIDs(ctx context.Context, pid string) ([]string, error) {
	body, err := c.get(ctx, "objects/"+pid+"/datastreams", url.Values{"format": {"xml"}})
	if err != nil {
		return nil, fmt.Errorf("list datastreams of %s: %w", pid, err)
	}
	var list objectDatastreams
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse datastream list of %s: %w", pid, err)
	}
	ids := make([]string, 0, len(list.Datastreams))
	for _, ds := range list.Datastreams {
		ids = append(ids, ds.DSID)
	}
	return ids, nil
}

// Datastream fetches the current profile of one datastream.
func (c *Client) Datastream(ctx context.Context, pid, dsID string) (*Datastream, error) {
	return c.datastreamProfile(ctx, pid, dsID, url.Values{"format": {"xml"}})
}

// DatastreamHistory fetches one profile snapshot per stored version of a
// datastream, newest first (Fedora's order).
func (c *Client) DatastreamHistory(ctx context.Context, pid, dsID string) ([]Datastream, error) {
	body, err := c.get(ctx, "objects/"+pid+"/datastreams/"+dsID+"/history", url.Values{"format": {"xml"}})
	if err != nil {
		return nil, fmt.Errorf("datastream history of %s/%s: %w", pid, dsID, err)
	}
	var history datastreamHistory
	if err := xml.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("parse datastream history of %s/%s: %w", pid, dsID, err)
	}
	return history.Versions, nil
}

// VerifyChecksum asks the repository to recompute the checksum of a
// datastream version and compare it with the stored value. A nil asOf
// checks the current version.
func (c *Client) VerifyChecksum(ctx context.Context, pid, dsID string, asOf *time.Time) (bool, error) {
	params := url.Values{
		"format":           {"xml"},
		"validateChecksum": {"true"},
	}
	if asOf != nil {
		params.Set("asOfDateTime", FormatTime(*asOf))
	}
	ds, err := c.datastreamProfile(ctx, pid, dsID, params)
	if err != nil {
		return false, err
	}
	if ds.ChecksumValid == nil {
		return false, fmt.Errorf("fedora did not report checksum validity for %s/%s", pid, dsID)
	}
	return *ds.ChecksumValid, nil
}

// SetChecksumType changes the checksum type of a datastream. Fedora
// recomputes and persists the checksum as a side effect of the save.
func (c *Client) SetChecksumType(ctx context.Context, pid, dsID string, ct ChecksumType, logMessage string) error {
	params := url.Values{"checksumType": {string(ct)}}
	if logMessage != "" {
		params.Set("logMessage", logMessage)
	}
	if _, err := c.do(ctx, http.MethodPut, "objects/"+pid+"/datastreams/"+dsID, params); err != nil {
		return fmt.Errorf("set checksum type of %s/%s: %w", pid, dsID, err)
	}
	return nil
}

func (c *Client) datastreamProfile(ctx context.Context, pid, dsID string, params url.Values) (*Datastream, error) {
	body, err := c.get(ctx, "objects/"+pid+"/datastreams/"+dsID, params)
	if err != nil {
		return nil, fmt.Errorf("datastream %s/%s: %w", pid, dsID, err)
	}
	var ds Datastream
	if err := xml.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("parse datastream profile of %s/%s: %w", pid, dsID, err)
	}
	if ds.PID == "" {
		ds.PID = pid
	}
	if ds.ID == "" {
		ds.ID = dsID
	}
	return &ds, nil
}
