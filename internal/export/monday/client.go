// Package monday talks to the monday.com GraphQL API to track quotes on a board.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/export"
)

const (
	DefaultAPIURL  = "https://api.monday.com/v2"
	DefaultFileURL = "https://api.monday.com/v2/file"
)

// Columns maps payload fields onto board column ids.
type Columns struct {
	Date        string
	File        string
	Gross       string
	Partner     string
	PostalCode  string
	Status      string
	StatusLabel string
}

type Options struct {
	Token   string
	BoardID string
	APIURL  string
	FileURL string
	Timeout time.Duration
	Columns Columns
}

type Client struct {
	client  *http.Client
	token   string
	boardID string
	apiURL  string
	fileURL string
	columns Columns
}

func NewClient(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}

	if opts.FileURL == "" {
		opts.FileURL = DefaultFileURL
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Client{
		client:  &http.Client{Timeout: opts.Timeout},
		token:   opts.Token,
		boardID: opts.BoardID,
		apiURL:  opts.APIURL,
		fileURL: opts.FileURL,
		columns: opts.Columns,
	}
}

var _ export.Exporter = (*Client)(nil)

// Export creates a board item for the quote and attaches the document to
// the file column. When only the upload fails the item id is still returned.
func (c *Client) Export(ctx context.Context, p export.Payload) (export.Result, error) {
	itemID, err := c.CreateItem(ctx, p.QuoteNumber, c.columnValues(p))
	if err != nil {
		return export.Result{}, err
	}

	res := export.Result{ExternalID: itemID}

	if len(p.Document) == 0 || c.columns.File == "" {
		return res, nil
	}

	if err := c.UploadFile(ctx, itemID, p.Filename, p.Document); err != nil {
		return res, err
	}

	return res, nil
}

func (c *Client) columnValues(p export.Payload) map[string]any {
	values := map[string]any{}

	set := func(col string, v any) {
		if col != "" {
			values[col] = v
		}
	}

	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	set(c.columns.Date, map[string]string{"date": date.Format(time.DateOnly)})
	set(c.columns.Gross, p.Gross.StringFixed(2))

	if p.Partner != "" {
		set(c.columns.Partner, map[string][]string{"labels": {p.Partner}})
	}

	if p.PostalCode != "" {
		set(c.columns.PostalCode, p.PostalCode)
	}

	if c.columns.StatusLabel != "" {
		set(c.columns.Status, map[string]string{"label": c.columns.StatusLabel})
	}

	return values
}

const createItemMutation = `mutation ($board: ID!, $name: String!, $values: JSON!) {
  create_item (board_id: $board, item_name: $name, column_values: $values) { id }
}`

// CreateItem adds an item named name to the board and returns its id.
func (c *Client) CreateItem(ctx context.Context, name string, values map[string]any) (string, error) {
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding column values: %w", err)
	}

	var data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}

	vars := map[string]any{"board": c.boardID, "name": name, "values": string(encoded)}
	if err := c.query(ctx, createItemMutation, vars, &data); err != nil {
		return "", fmt.Errorf("creating item: %w", err)
	}

	if data.CreateItem.ID == "" {
		return "", errors.New("creating item: empty item id in response")
	}

	return data.CreateItem.ID, nil
}

// UploadFile attaches data to the item's file column.
func (c *Client) UploadFile(ctx context.Context, itemID, filename string, data []byte) error {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	query := fmt.Sprintf(`mutation ($file: File!) { add_file_to_column (item_id: %s, column_id: %q, file: $file) { id } }`,
		itemID, c.columns.File)
	if err := mw.WriteField("query", query); err != nil {
		return fmt.Errorf("writing query field: %w", err)
	}

	part, err := mw.CreateFormFile("variables[file]", filename)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing file part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.fileURL, &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		AddFile struct {
			ID string `json:"id"`
		} `json:"add_file_to_column"`
	}

	if err := c.do(req, &out); err != nil {
		return fmt.Errorf("uploading %s: %w", filename, err)
	}

	return nil
}

// Ping checks the token by asking for the current user and returns its name.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var data struct {
		Me struct {
			Name string `json:"name"`
		} `json:"me"`
	}

	if err := c.query(ctx, `query { me { name } }`, nil, &data); err != nil {
		return "", fmt.Errorf("testing connection: %w", err)
	}

	return data.Me.Name, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data         json.RawMessage `json:"data"`
	Errors       []gqlError      `json:"errors"`
	ErrorMessage string          `json:"error_message"`
}

func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token == "" {
		return export.ErrNotConfigured
	}

	req.Header.Set("Authorization", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var gql gqlResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if gql.ErrorMessage != "" {
		return errors.New(gql.ErrorMessage)
	}

	if len(gql.Errors) > 0 {
		msgs := make([]string, len(gql.Errors))
		for i, e := range gql.Errors {
			msgs[i] = e.Message
		}

		return errors.New(strings.Join(msgs, "; "))
	}

	if out == nil || len(gql.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(gql.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}

	return nil
}
