package rest

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

var _ api.DocumentAPI = (*DocumentClient)(nil)

type DocumentClient struct {
	c *Client
}

func NewDocumentClient(c *Client) *DocumentClient { return &DocumentClient{c: c} }

func (d *DocumentClient) Upload(ctx context.Context, filename, contentType string, data []byte) (*model.DocumentUploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	var out model.DocumentUploadResult
	err = d.c.do(ctx, call{
		resource: "documents", operation: "upload",
		method: http.MethodPost, path: "/documents/upload",
		authed: true, rawBody: buf.Bytes(), contentType: w.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DocumentClient) List(ctx context.Context, limit, offset int) (*model.DocumentList, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var out model.DocumentList
	err := d.c.do(ctx, call{
		resource: "documents", operation: "list",
		method: http.MethodGet, path: "/documents",
		query: q, authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DocumentClient) Get(ctx context.Context, documentID string) (*model.Document, error) {
	var out model.Document
	err := d.c.do(ctx, call{
		resource: "documents", operation: "get",
		method: http.MethodGet, path: "/documents/" + documentID,
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DocumentClient) Delete(ctx context.Context, documentID string) error {
	return d.c.do(ctx, call{
		resource: "documents", operation: "delete",
		method: http.MethodDelete, path: "/documents/" + documentID,
		authed: true,
	}, nil)
}
