package edgar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/sloppycoder/sec-doc-tool/storage"
)

// DefaultBaseURL is the EDGAR archive root.
const DefaultBaseURL = "https://www.sec.gov/Archives"

// ErrRateLimited indicates EDGAR answered 429 on every retry.
var ErrRateLimited = errors.New("rate limited by EDGAR")

const (
	retryAttempts = 5
	retryBase     = 1 * time.Second
	retryCap      = 90 * time.Second
)

// Client fetches files from EDGAR with a local cache in front. Rate-limit
// responses are retried with exponential backoff per the SEC's fair-use
// guidance.
type Client struct {
	http  *resty.Client
	store storage.Store
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the archive root, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.http.SetBaseURL(u) }
}

// WithUserAgent sets the User-Agent header EDGAR requires.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.http.SetHeader("User-Agent", ua) }
}

// WithStore sets the cache for fetched files.
func WithStore(s storage.Store) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// NewClient returns a Client with the default archive root and a disabled
// cache unless WithStore is given.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:  resty.New().SetBaseURL(DefaultBaseURL),
		store: storage.NopStore{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFile returns the content of an archive file, consulting the cache
// first and caching a successful download.
func (c *Client) FetchFile(ctx context.Context, idxFilename string) ([]byte, error) {
	cachePath := "edgar/Archives/" + idxFilename
	if data, err := c.store.Load(cachePath); err == nil {
		return data, nil
	}

	var body []byte
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))
	backoff = retry.WithCappedDuration(retryCap, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.http.R().SetContext(ctx).Get("/" + idxFilename)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", idxFilename, err)
		}
		switch resp.StatusCode() {
		case http.StatusOK:
			body = resp.Body()
			return nil
		case http.StatusTooManyRequests:
			log.Debug("received 429 from EDGAR", "file", idxFilename)
			return retry.RetryableError(fmt.Errorf("%w: %s", ErrRateLimited, idxFilename))
		default:
			return fmt.Errorf("fetching %s: status %d", idxFilename, resp.StatusCode())
		}
	})
	if err != nil {
		return nil, err
	}

	if err := c.store.Write(cachePath, body); err != nil {
		log.Warn("unable to cache fetched file", "file", idxFilename, "err", err)
	}
	return body, nil
}

// Filing fetches and parses the index of one submission.
func (c *Client) Filing(ctx context.Context, cik, accessionNumber string) (*Filing, error) {
	if cik == "" || accessionNumber == "" {
		return nil, errors.New("cik and accession number must both be set")
	}
	return c.FilingFromIdx(ctx, fmt.Sprintf("edgar/data/%s/%s.txt", cik, accessionNumber))
}

// FilingFromIdx fetches and parses the index of the submission named by a
// master.idx filename. The index-headers page is preferred; older filings
// predate it and fall back to the index.html table.
func (c *Client) FilingFromIdx(ctx context.Context, idxFilename string) (*Filing, error) {
	cik, accessionNumber, err := ParseIdxFilename(idxFilename)
	if err != nil {
		return nil, err
	}

	filing := &Filing{
		CIK:             cik,
		AccessionNumber: accessionNumber,
		IdxFilename:     idxFilename,
	}

	if content, err := c.FetchFile(ctx, indexHeadersPath(idxFilename)); err == nil {
		filing.DateFiled, filing.Documents = parseIndexHeaders(content)
	} else {
		log.Debug("no index-headers page, filing may predate it", "filing", idxFilename, "err", err)
	}

	if len(filing.Documents) == 0 {
		content, err := c.FetchFile(ctx, indexHTMLPath(idxFilename))
		if err != nil {
			return nil, fmt.Errorf("%w: no readable index for %s: %v", ErrInvalidFiling, idxFilename, err)
		}
		filing.DateFiled, filing.Documents = parseIndexHTML(content)
	}

	if len(filing.Documents) == 0 {
		return nil, fmt.Errorf("%w: %s has an empty document manifest", ErrInvalidFiling, idxFilename)
	}

	log.Debug("initialized filing", "cik", cik, "accession", accessionNumber,
		"docs", len(filing.Documents))
	return filing, nil
}

// DocFile is one fetched filing document.
type DocFile struct {
	Path    string
	Content string
}

// DocContent fetches every document of the given type whose file extension
// is in fileTypes (e.g. "htm", "txt").
func (c *Client) DocContent(ctx context.Context, filing *Filing, docType string, fileTypes []string) ([]DocFile, error) {
	paths, err := filing.DocPaths(docType)
	if err != nil {
		return nil, err
	}

	var result []DocFile
	for _, docPath := range paths {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(docPath), "."))
		if !contains(fileTypes, ext) {
			continue
		}
		content, err := c.FetchFile(ctx, docPath)
		if err != nil {
			return nil, err
		}
		result = append(result, DocFile{Path: docPath, Content: string(content)})
	}
	return result, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
