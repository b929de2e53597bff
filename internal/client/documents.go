package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// Upload streams a PDF to POST /documents/upload as the multipart field
// "file". The body is produced through an io.Pipe so large files are never
// buffered in memory.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*model.UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
		// The backend rejects anything not labelled application/pdf, and
		// CreateFormFile would label it application/octet-stream.
		header.Set("Content-Type", "application/pdf")
		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/documents/upload", pr, mw.FormDataContentType(), authOptional)
	if err != nil {
		pr.Close()
		return nil, err
	}
	resp, err := c.send(req, "upload failed")
	if err != nil {
		pr.Close()
		return nil, err
	}
	defer resp.Body.Close()
	var out model.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if out.DocumentID == "" {
		return nil, errors.New("response missing document_id")
	}
	return &out, nil
}

// ListDocuments returns the caller's uploaded documents. The backend answers
// either with a bare array or with {"documents": [...]}.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/documents/list", nil, authOptional, "Failed to list documents", &raw); err != nil {
		return nil, err
	}
	var docs []model.Document
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}
	var wrapped struct {
		Documents []model.Document `json:"documents"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode document list: %w", err)
	}
	return wrapped.Documents, nil
}

// Explain asks for an explanation of the document in the given style.
func (c *Client) Explain(ctx context.Context, docID, style string) (*model.Explanation, error) {
	path, err := docPath(docID, "/explain")
	if err != nil {
		return nil, err
	}
	if style == "" {
		style = model.StyleLayman
	}
	var out model.Explanation
	body := map[string]string{"style": style}
	if err := c.doJSON(ctx, http.MethodPost, path, body, authOptional, "[Error generating explanation]", &out); err != nil {
		return nil, err
	}
	if out.Style == "" {
		out.Style = style
	}
	return &out, nil
}
