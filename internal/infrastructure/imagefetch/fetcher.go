package imagefetch

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 4 << 20
	fallbackType    = "image/png"
)

type Config struct {
	Timeout  time.Duration
	MaxBytes int
}

// Fetcher downloads images over fasthttp. Responses are copied out of the
// pooled fasthttp buffers before they are released.
type Fetcher struct {
	client   *fasthttp.Client
	timeout  time.Duration
	maxBytes int
}

func New(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	return &Fetcher{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBytes,
		},
		timeout:  timeout,
		maxBytes: maxBytes,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", crerr.New("image url is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	deadline := time.Now().Add(f.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "image/*")

	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, "", crerr.Wrapf(err, "fetch %s", url)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: unexpected status=%d", url, status)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := resp.BodyWriteTo(buf); err != nil {
		return nil, "", crerr.Wrapf(err, "read %s body", url)
	}
	if buf.Len() == 0 {
		return nil, "", fmt.Errorf("fetch %s: empty body", url)
	}
	if buf.Len() > f.maxBytes {
		return nil, "", fmt.Errorf("fetch %s: body exceeds %d bytes", url, f.maxBytes)
	}

	body := make([]byte, buf.Len())
	copy(body, buf.B)

	contentType := string(resp.Header.ContentType())
	if contentType == "" {
		contentType = fallbackType
	}

	return body, contentType, nil
}
