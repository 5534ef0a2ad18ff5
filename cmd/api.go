package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/api"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	pairs, err := parsePairs("query", cmd.StringSlice("query"))
	if err != nil {
		return err
	}
	query := url.Values{}
	for k, v := range pairs {
		query.Set(k, v)
	}

	r.logger.Info("GET request", "path", path)
	body, err := r.api.Client().Raw(ctx, &api.Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return r.writeRaw(body, cmd.String("select"))
}

// APIPost makes a direct authenticated POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	data := cmd.String("data")
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}

	r.logger.Info("POST request", "path", path)
	body, err := r.api.Client().Raw(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   json.RawMessage(data),
	})
	if err != nil {
		return err
	}
	return r.writeRaw(body, cmd.String("select"))
}

// writeRaw prints a response body, indented when it is JSON. selector picks a gjson path first.
func (r *Runner) writeRaw(body []byte, selector string) error {
	if selector != "" {
		if !gjson.ValidBytes(body) {
			return fmt.Errorf("%w: response is not JSON", shared.ErrInvalidInput)
		}
		res := gjson.GetBytes(body, selector)
		if !res.Exists() {
			return fmt.Errorf("%w: %q not found in response", shared.ErrNotFound, selector)
		}
		if res.Type != gjson.JSON {
			return r.writePlain("%s\n", res.String())
		}
		body = []byte(res.Raw)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err := r.output.Write(append(body, '\n'))
		return err
	}
	buf.WriteByte('\n')
	_, err := r.output.Write(buf.Bytes())
	return err
}
